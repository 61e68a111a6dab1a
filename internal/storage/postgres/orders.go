package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
)

const (
	orderColumns = `id, product_id, buyer_id, seller_id, product_title, product_price, total_price,
                    buyer_name, buyer_phone, buyer_whatsapp, status, payment_status,
                    COALESCE(invoice_id, ''), COALESCE(transaction_id, ''), created_at, updated_at`

	defaultListLimit = 50
	maxListLimit     = 100
)

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.ProductID, &o.BuyerID, &o.SellerID, &o.ProductTitle, &o.ProductPrice, &o.TotalPrice,
		&o.BuyerName, &o.BuyerPhone, &o.BuyerWhatsapp, &o.Status, &o.PaymentStatus,
		&o.InvoiceID, &o.TransactionID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a pending order while holding a share lock on its product.
// Sold or rejected products are refused.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const (
		lockProduct = `SELECT status FROM products WHERE id=$1 FOR SHARE`
		insertOrder = `INSERT INTO orders (id, product_id, buyer_id, seller_id, product_title, product_price, total_price,
                           buyer_name, buyer_phone, buyer_whatsapp, status, payment_status)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                       RETURNING created_at, updated_at`
	)

	created := *order
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.Status = model.OrderStatusPending
	created.PaymentStatus = model.PaymentStatusPending

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		product := model.Product{ID: created.ProductID}
		if err := tx.QueryRow(ctx, lockProduct, created.ProductID).Scan(&product.Status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: product %s", domainErrors.ErrNotFound, created.ProductID)
			}
			return err
		}
		if !product.Purchasable() {
			return fmt.Errorf("%w: product %s is %s", domainErrors.ErrProductUnavailable, product.ID, product.Status)
		}

		return tx.QueryRow(ctx, insertOrder,
			created.ID, created.ProductID, created.BuyerID, created.SellerID, created.ProductTitle,
			created.ProductPrice.String(), created.TotalPrice.String(),
			created.BuyerName, created.BuyerPhone, created.BuyerWhatsapp,
			created.Status, created.PaymentStatus,
		).Scan(&created.CreatedAt, &created.UpdatedAt)
	})
	if err != nil {
		return nil, storageError(err)
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, storageError(err)
	}
	return order, nil
}

func (r *orderRepository) GetByInvoice(ctx context.Context, invoiceID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE invoice_id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, storageError(err)
	}
	return order, nil
}

func (r *orderRepository) AttachInvoice(ctx context.Context, orderID, invoiceID string) error {
	const query = `UPDATE orders SET invoice_id=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, invoiceID, orderID)
	if err != nil {
		return storageError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Transition(ctx context.Context, orderID string, event model.PaymentEvent, transactionID string) (*model.Order, bool, error) {
	selectQuery := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
	const (
		updateOrder = `UPDATE orders
                       SET status=$1, payment_status=$2, transaction_id=COALESCE(NULLIF($3, ''), transaction_id), updated_at=NOW()
                       WHERE id=$4
                       RETURNING updated_at`
		markSold    = `UPDATE products SET status='sold', updated_at=NOW() WHERE id=$1`
		insertEvent = `INSERT INTO payment_events (order_id, event, from_status, to_status, transaction_id)
                       VALUES ($1, $2, $3, $4, NULLIF($5, ''))`
	)

	var (
		order   *model.Order
		changed bool
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		current, err := scanOrder(tx.QueryRow(ctx, selectQuery, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		next, err := model.ApplyTransition(current.Status, event)
		if err != nil {
			return err
		}
		order = current
		if next == current.Status {
			r.storage.logger.Debug("order transition is a no-op",
				slog.String("order_id", orderID),
				slog.String("status", string(current.Status)),
				slog.String("event", string(event)),
			)
			return nil
		}

		paymentStatus := model.PaymentStatusFor(next)
		if err := tx.QueryRow(ctx, updateOrder, next, paymentStatus, transactionID, orderID).Scan(&order.UpdatedAt); err != nil {
			return err
		}
		if next == model.OrderStatusCompleted {
			if _, err := tx.Exec(ctx, markSold, current.ProductID); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, insertEvent, orderID, event, current.Status, next, transactionID); err != nil {
			return err
		}

		order.Status = next
		order.PaymentStatus = paymentStatus
		if transactionID != "" {
			order.TransactionID = transactionID
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, storageError(err)
	}
	return order, changed, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		conds []string
		args  []any
	)
	if filter.BuyerID != "" {
		args = append(args, filter.BuyerID)
		conds = append(conds, fmt.Sprintf("buyer_id=$%d", len(args)))
	}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		conds = append(conds, fmt.Sprintf("seller_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	args = append(args, limit)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.storage.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageError(err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, storageError(err)
	}
	return orders, nil
}

func (r *orderRepository) SelectPendingForReconciliation(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE status='pending' AND created_at < $1 AND (reconciled_at IS NULL OR reconciled_at < $1)
                    ORDER BY created_at
                    LIMIT $2
                    FOR UPDATE SKIP LOCKED`
	const markQuery = `UPDATE orders SET reconciled_at=NOW() WHERE id = ANY($1)`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, olderThan, limit)
		if err != nil {
			return err
		}
		orders, err = collectOrders(rows)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}

		ids := make([]string, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		if _, err := tx.Exec(ctx, markQuery, ids); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return orders, nil
}
