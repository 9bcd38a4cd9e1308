package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a read-through product cache. Every cart mutation re-reads
// price and stock, so lookups go to Redis first and fall back to the
// database. Cache failures are logged and degrade to direct reads.
type Cache struct {
	db  *sqlx.DB
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

func NewCache(db *sqlx.DB, rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *Cache {
	return &Cache{db: db, rdb: rdb, ttl: ttl, log: log}
}

func key(productID string) string { return "product:" + productID }

// Product returns one product, preferring the cached copy.
func (c *Cache) Product(ctx context.Context, productID string) (Product, error) {
	if c.rdb != nil {
		if data, err := c.rdb.Get(ctx, key(productID)).Result(); err == nil {
			var p Product
			if json.Unmarshal([]byte(data), &p) == nil {
				return p, nil
			}
		} else if err != redis.Nil {
			c.log.WithField("message", err).Warn("product cache read failed")
		}
	}

	p, err := Fetch(ctx, c.db, productID)
	if err != nil {
		return Product{}, err
	}

	if c.rdb != nil {
		if data, err := json.Marshal(p); err == nil {
			if err := c.rdb.Set(ctx, key(productID), data, c.ttl).Err(); err != nil {
				c.log.WithField("message", err).Warn("product cache write failed")
			}
		}
	}

	return p, nil
}

// Invalidate drops a product's cached copy after a price or stock change.
func (c *Cache) Invalidate(ctx context.Context, productID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(productID)).Err(); err != nil {
		c.log.WithField("message", err).Warn("product cache invalidation failed")
	}
}
