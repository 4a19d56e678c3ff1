package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// UpdateStatus accepts any of the five statuses from any current status.
// Only the status column changes; totals and item snapshots stay as placed.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !newStatus.Valid() {
		return OrderOutput{}, NewValidationError(map[string]string{
			"status": "must be one of: pending processing shipped delivered cancelled",
		})
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return errDB()
		}

		beforeStatus := o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return errDB()
		}

		if err := writeAudit(ctx, r.AuditLogs(), actorAdminUserID, model.AuditActionUpdateOrderStatus,
			model.AuditResourceOrder, orderID,
			map[string]model.OrderStatus{"status": beforeStatus},
			map[string]model.OrderStatus{"status": newStatus}); err != nil {
			return err
		}

		updated, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}
		out = OrderOutput{Order: updated, Items: items}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
