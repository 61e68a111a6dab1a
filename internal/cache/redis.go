package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/ffmarket/internal/domain/model"
)

const (
	keyOrderStatus = "order_status:%s"

	// TTLStatus bounds how long a snapshot may be served without refresh.
	TTLStatus = 5 * time.Minute
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type snapshotEntry struct {
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	InvoiceID     string    `json:"invoice_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Redis stores snapshots as JSON strings with a fixed TTL.
type Redis struct {
	client redisClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis connects to redis at addr.
func NewRedis(addr string, logger *slog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	return newRedis(client, logger)
}

func newRedis(client redisClient, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: TTLStatus, logger: logger}
}

func statusKey(orderID string) string {
	return fmt.Sprintf(keyOrderStatus, orderID)
}

// Get returns cached snapshot for the order.
func (r *Redis) Get(ctx context.Context, orderID string) (*model.OrderSnapshot, bool) {
	raw, err := r.client.Get(ctx, statusKey(orderID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("status cache read failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var entry snapshotEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		r.logger.Warn("status cache entry corrupted", slog.String("order_id", orderID), slog.String("error", err.Error()))
		return nil, false
	}

	return &model.OrderSnapshot{
		OrderID:       entry.OrderID,
		Status:        model.OrderStatus(entry.Status),
		PaymentStatus: model.PaymentStatus(entry.PaymentStatus),
		InvoiceID:     entry.InvoiceID,
		TransactionID: entry.TransactionID,
		UpdatedAt:     entry.UpdatedAt,
	}, true
}

// Set stores snapshot under its order key.
func (r *Redis) Set(ctx context.Context, snapshot model.OrderSnapshot) {
	payload, err := json.Marshal(snapshotEntry{
		OrderID:       snapshot.OrderID,
		Status:        string(snapshot.Status),
		PaymentStatus: string(snapshot.PaymentStatus),
		InvoiceID:     snapshot.InvoiceID,
		TransactionID: snapshot.TransactionID,
		UpdatedAt:     snapshot.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, statusKey(snapshot.OrderID), string(payload), r.ttl).Err(); err != nil {
		r.logger.Warn("status cache write failed", slog.String("order_id", snapshot.OrderID), slog.String("error", err.Error()))
	}
}

// Invalidate drops cached snapshot for the order.
func (r *Redis) Invalidate(ctx context.Context, orderID string) {
	if err := r.client.Del(ctx, statusKey(orderID)).Err(); err != nil {
		r.logger.Warn("status cache invalidate failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
	}
}

// Ping checks redis reachability.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases redis connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
