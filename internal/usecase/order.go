package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/domain/repository"
)

// OrderUseCase serves operator reads over orders.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// List returns orders matching filter, newest first.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domainErrors.ErrValidation)
	}
	return u.orders.List(ctx, filter)
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id is required", domainErrors.ErrValidation)
	}
	return u.orders.GetByID(ctx, id)
}

// SelectForReconciliation claims a batch of stale pending orders.
func (u *OrderUseCase) SelectForReconciliation(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	return u.orders.SelectPendingForReconciliation(ctx, olderThan, limit)
}
