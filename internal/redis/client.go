package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"sink_quoter/internal/models"
)

// Client caches candidate product lists per company. Each company has a
// generation counter that is bumped on every catalog write; cached lists are
// keyed by generation so a bump invalidates them all at once.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, ttl time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func generationKey(companyID uint) string {
	return fmt.Sprintf("catalog_gen:%d", companyID)
}

func (c *Client) generation(ctx context.Context, companyID uint) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(companyID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Client) candidatesKey(ctx context.Context, companyID uint, bounds string) (string, error) {
	gen, err := c.generation(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to read catalog generation: %w", err)
	}
	return fmt.Sprintf("candidates:%d:%d:%s", companyID, gen, bounds), nil
}

// GetCandidates returns the cached list and whether it was present.
func (c *Client) GetCandidates(ctx context.Context, companyID uint, bounds string) ([]models.Product, bool, error) {
	key, err := c.candidatesKey(ctx, companyID, bounds)
	if err != nil {
		return nil, false, err
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get candidates: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal candidates: %w", err)
	}
	return products, true, nil
}

func (c *Client) SetCandidates(ctx context.Context, companyID uint, bounds string, products []models.Product) error {
	key, err := c.candidatesKey(ctx, companyID, bounds)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}

	return c.rdb.Set(ctx, key, jsonData, c.ttl).Err()
}

// InvalidateCatalog bumps the company's generation; old entries age out by TTL.
func (c *Client) InvalidateCatalog(ctx context.Context, companyID uint) error {
	return c.rdb.Incr(ctx, generationKey(companyID)).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
