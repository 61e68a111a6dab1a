package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/ffmarket/internal/adapter/zinipay"
	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// ReconcileFacade exposes the subset of application functionality required by the worker.
type ReconcileFacade interface {
	OrdersForReconciliation(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error)
	ReconcileOrder(ctx context.Context, order model.Order) error
}

// Reconciler periodically re-verifies stale pending orders with the provider
// so that orders whose webhook was lost still reach a terminal status.
type Reconciler struct {
	facade    ReconcileFacade
	interval  time.Duration
	grace     time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger
	now       func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs reconciliation worker pool.
func NewReconciler(facade ReconcileFacade, interval, grace time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reconciler{
		facade:    facade,
		interval:  interval,
		grace:     grace,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		now:       time.Now,
	}
}

// Start launches background reconciliation. A stopped reconciler may be
// started again.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}
	// fx start contexts expire once startup completes.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	jobs := make(chan model.Order, r.batchSize*r.workers)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, jobs)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, jobs)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context, jobs chan<- model.Order) {
	defer r.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx, jobs)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context, jobs chan<- model.Order) {
	orders, err := r.facade.OrdersForReconciliation(ctx, r.now().Add(-r.grace), r.batchSize)
	if err != nil {
		r.logger.Error("fetch orders for reconciliation failed", slog.String("error", err.Error()))
		return
	}
	if len(orders) > 0 {
		r.logger.Debug("reconciling pending orders", slog.Int("count", len(orders)))
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case jobs <- order:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context, jobs <-chan model.Order) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-jobs:
			if !ok {
				return
			}
			r.handleOrder(ctx, order)
		}
	}
}

func (r *Reconciler) handleOrder(ctx context.Context, order model.Order) {
	err := r.facade.ReconcileOrder(ctx, order)
	if err == nil {
		return
	}

	var tooMany zinipay.TooManyRequestsError
	if errors.As(err, &tooMany) {
		r.logger.Warn("payment provider rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
		select {
		case <-ctx.Done():
		case <-time.After(tooMany.RetryAfter):
		}
		return
	}
	r.logger.Error("order reconciliation failed",
		slog.String("order_id", order.ID),
		slog.String("invoice_id", order.InvoiceID),
		slog.String("error", err.Error()),
	)
}
