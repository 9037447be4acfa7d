package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webbutiken/storefront/internal/platform/logger"
)

// ProductListKey holds the cached product catalog. Dropped on every
// product or stock mutation so the next list re-reads the database.
const ProductListKey = "storefront:products:list"

const defaultTTL = 5 * time.Minute

type Client struct {
	rdb *redis.Client
}

func NewClient(addr, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Client{rdb: rdb}
}

// GetJSON unmarshals the cached value at key into dest. Returns false on
// a miss or on any redis/decode failure; a broken cache never fails reads.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("cache: get %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("cache: decode %s failed: %v", key, err)
		return false
	}
	return true
}

func (c *Client) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache: encode %s failed: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, defaultTTL).Err(); err != nil {
		logger.Warn("cache: set %s failed: %v", key, err)
	}
}

func (c *Client) Drop(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logger.Warn("cache: drop %s failed: %v", key, err)
	}
}
