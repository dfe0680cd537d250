package redisclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fulfillment/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a product has no cached stock record.
var ErrCacheMiss = errors.New("stock record not cached")

// Client caches stock records for the advisory availability check. The
// database row lock stays authoritative; the cache only serves reads
// and is invalidated by deductions and admin writes.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client for the stock cache.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(productID int64) string {
	return fmt.Sprintf("stock:%d", productID)
}

// SetStock caches a stock record with the configured TTL.
func (c *Client) SetStock(ctx context.Context, rec *models.StockRecord) error {
	key := stockKey(rec.ProductID)

	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key,
		"product_name", rec.ProductName,
		"quantity_available", rec.QuantityAvailable,
		"unit_price", rec.UnitPrice,
		"last_updated", rec.LastUpdated.Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// GetStock retrieves a cached stock record, ErrCacheMiss when absent.
func (c *Client) GetStock(ctx context.Context, productID int64) (*models.StockRecord, error) {
	fields, err := c.rdb.HGetAll(ctx, stockKey(productID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrCacheMiss
	}

	quantity, err := strconv.Atoi(fields["quantity_available"])
	if err != nil {
		return nil, fmt.Errorf("corrupt cached quantity: %w", err)
	}
	price, err := strconv.ParseFloat(fields["unit_price"], 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached price: %w", err)
	}
	updated, _ := time.Parse(time.RFC3339Nano, fields["last_updated"])

	return &models.StockRecord{
		ProductID:         productID,
		ProductName:       fields["product_name"],
		QuantityAvailable: quantity,
		UnitPrice:         price,
		LastUpdated:       updated,
	}, nil
}

// InvalidateStock drops cached records after a deduction or admin write.
func (c *Client) InvalidateStock(ctx context.Context, productIDs ...int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = stockKey(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
