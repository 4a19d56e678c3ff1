package repository

import (
	"context"

	"github.com/zeinnaushad/elevate/internal/domain/model"
)

type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// List returns newest first.
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
