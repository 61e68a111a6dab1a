package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Products() ProductRepository
}

// HealthChecker reports reachability of the backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
