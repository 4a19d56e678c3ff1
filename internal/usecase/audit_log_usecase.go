package usecase

import (
	"context"
	"strings"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
)

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

type ListAuditLogsInput struct {
	Action       string
	ResourceType string
	ActorUserID  *int64
	ResourceID   *int64
	Limit        int
	Offset       int
}

var (
	auditActions = map[model.AuditAction]bool{
		model.AuditActionCreateProduct:     true,
		model.AuditActionUpdateProduct:     true,
		model.AuditActionDeleteProduct:     true,
		model.AuditActionUpdateOrderStatus: true,
		model.AuditActionDeleteUser:        true,
		model.AuditActionForceLogout:       true,
	}
	auditResourceTypes = map[model.AuditResourceType]bool{
		model.AuditResourceProduct: true,
		model.AuditResourceOrder:   true,
		model.AuditResourceUser:    true,
	}
)

// List returns newest entries first; the repository caps the page size.
func (u *AuditLogUsecase) List(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	fields := map[string]string{}
	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}

	if s := strings.TrimSpace(in.Action); s != "" {
		a := model.AuditAction(strings.ToUpper(s))
		if !auditActions[a] {
			fields["action"] = "is not a known action"
		}
		f.Action = &a
	}
	if s := strings.TrimSpace(in.ResourceType); s != "" {
		rt := model.AuditResourceType(strings.ToLower(s))
		if !auditResourceTypes[rt] {
			fields["resourceType"] = "must be one of: product order user"
		}
		f.ResourceType = &rt
	}
	if in.Limit < 0 {
		fields["limit"] = "must be 0 or more"
	}
	if in.Offset < 0 {
		fields["offset"] = "must be 0 or more"
	}
	if len(fields) > 0 {
		return []model.AuditLog{}, NewValidationError(fields)
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, errDB()
	}
	return logs, nil
}
