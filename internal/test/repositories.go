package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/domain/repository"
)

// OrderRepositoryStub keeps orders in memory and mirrors storage semantics.
type OrderRepositoryStub struct {
	Err      error
	Products *ProductRepositoryStub
	Now      func() time.Time

	mu     sync.Mutex
	orders map[string]*model.Order
	next   int
	Events []model.PaymentEvent
}

// NewOrderRepositoryStub constructs an empty in-memory order repository.
func NewOrderRepositoryStub(products *ProductRepositoryStub) *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Products: products,
		Now:      time.Now,
		orders:   make(map[string]*model.Order),
	}
}

// Put stores order as is.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}
	s.orders[order.ID] = &order
}

// Create stores a new pending order.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}

	created := *order
	if created.ID == "" {
		s.next++
		created.ID = fmt.Sprintf("order-%d", s.next)
	}
	if _, exists := s.orders[created.ID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	created.Status = model.OrderStatusPending
	created.PaymentStatus = model.PaymentStatusPending
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	s.orders[created.ID] = &created

	out := created
	return &out, nil
}

// GetByID returns a copy of stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[id]; ok {
		out := *order
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByInvoice finds order by provider invoice.
func (s *OrderRepositoryStub) GetByInvoice(ctx context.Context, invoiceID string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.InvoiceID != "" && order.InvoiceID == invoiceID {
			out := *order
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// AttachInvoice records provider invoice on the order.
func (s *OrderRepositoryStub) AttachInvoice(ctx context.Context, orderID, invoiceID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.InvoiceID = invoiceID
	order.UpdatedAt = s.now()
	return nil
}

// Transition applies event and marks product sold on completion.
func (s *OrderRepositoryStub) Transition(ctx context.Context, orderID string, event model.PaymentEvent, transactionID string) (*model.Order, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, false, domainErrors.ErrNotFound
	}

	next, err := model.ApplyTransition(order.Status, event)
	if err != nil {
		return nil, false, err
	}
	if next == order.Status {
		out := *order
		return &out, false, nil
	}

	order.Status = next
	order.PaymentStatus = model.PaymentStatusFor(next)
	if transactionID != "" {
		order.TransactionID = transactionID
	}
	order.UpdatedAt = s.now()
	s.Events = append(s.Events, event)
	if next == model.OrderStatusCompleted && s.Products != nil {
		s.Products.MarkSold(order.ProductID)
	}

	out := *order
	return &out, true, nil
}

// List returns orders matching filter, newest first.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.orders {
		if filter.BuyerID != "" && order.BuyerID != filter.BuyerID {
			continue
		}
		if filter.SellerID != "" && order.SellerID != filter.SellerID {
			continue
		}
		result = append(result, *order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// SelectPendingForReconciliation returns pending orders created before olderThan.
func (s *OrderRepositoryStub) SelectPendingForReconciliation(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.orders {
		if order.Status == model.OrderStatusPending && order.CreatedAt.Before(olderThan) {
			result = append(result, *order)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *OrderRepositoryStub) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ProductRepositoryStub keeps listings in memory.
type ProductRepositoryStub struct {
	Err error

	mu       sync.Mutex
	products map[string]*model.Product
}

// NewProductRepositoryStub seeds the repository with products.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{products: make(map[string]*model.Product)}
	for i := range products {
		p := products[i]
		s.products[p.ID] = &p
	}
	return s
}

// GetByID returns a copy of stored product.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// MarkSold flips product status to sold.
func (s *ProductRepositoryStub) MarkSold(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Status = model.ProductStatusSold
	}
}

// HealthCheckerStub reports a configured error.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns configured error.
func (s HealthCheckerStub) HealthCheck(context.Context) error { return s.Err }

var _ repository.OrderRepository = (*OrderRepositoryStub)(nil)
var _ repository.ProductRepository = (*ProductRepositoryStub)(nil)
var _ repository.HealthChecker = HealthCheckerStub{}
