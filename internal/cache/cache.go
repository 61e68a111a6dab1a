package cache

import (
	"context"

	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// StatusCache keeps recent order status snapshots for polling clients.
// Implementations are best effort: failures degrade to cache misses.
type StatusCache interface {
	Get(ctx context.Context, orderID string) (*model.OrderSnapshot, bool)
	Set(ctx context.Context, snapshot model.OrderSnapshot)
	Invalidate(ctx context.Context, orderID string)
}

// Nop is a StatusCache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (*model.OrderSnapshot, bool) { return nil, false }
func (Nop) Set(context.Context, model.OrderSnapshot)                 {}
func (Nop) Invalidate(context.Context, string)                       {}
