package model

import (
	"fmt"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
)

// PaymentEvent is an outcome reported for an order by the provider or the reconciler.
type PaymentEvent string

const (
	PaymentEventCompleted PaymentEvent = "completed"
	PaymentEventFailed    PaymentEvent = "failed"
	PaymentEventExpired   PaymentEvent = "expired"
)

var eventTarget = map[PaymentEvent]OrderStatus{
	PaymentEventCompleted: OrderStatusCompleted,
	PaymentEventFailed:    OrderStatusCancelled,
	PaymentEventExpired:   OrderStatusCancelled,
}

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:   {OrderStatusCompleted: true, OrderStatusCancelled: true},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// ApplyTransition resolves the status an order reaches when event is applied.
// Applying an event to an order already in the event's target status is a
// no-op and returns the current status unchanged.
func ApplyTransition(current OrderStatus, event PaymentEvent) (OrderStatus, error) {
	next, ok := eventTarget[event]
	if !ok {
		return current, fmt.Errorf("%w: unknown event %q", domainErrors.ErrIllegalTransition, event)
	}
	if current == next {
		return current, nil
	}
	if !CanTransition(current, next) {
		return current, fmt.Errorf("%w: %s -> %s", domainErrors.ErrIllegalTransition, current, next)
	}
	return next, nil
}

// PaymentStatusFor maps order status onto the matching payment status.
func PaymentStatusFor(status OrderStatus) PaymentStatus {
	switch status {
	case OrderStatusCompleted:
		return PaymentStatusCompleted
	case OrderStatusCancelled:
		return PaymentStatusFailed
	default:
		return PaymentStatusPending
	}
}
