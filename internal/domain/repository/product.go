package repository

import (
	"context"

	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// ProductRepository exposes the listing reads needed by checkout.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
}
