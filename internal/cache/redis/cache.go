// Package redis provides a Redis-backed synonym cache. The write-once
// contract maps onto SET NX: concurrent duplicate inserts no-op, exactly
// like the ON CONFLICT DO NOTHING path of the SQL store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/teamgrow/studymatch/internal/tags"
	"github.com/teamgrow/studymatch/pkg/models"

	json "github.com/goccy/go-json"
)

const keyPrefix = "studymatch:synonym:"

// Cache is a SynonymCache backed by Redis.
type Cache struct {
	pool *redis.Pool
}

// Compile-time check that Cache satisfies the resolver contract.
var _ tags.SynonymCache = (*Cache)(nil)

// entry is the stored cache value. Unlike the SQL store there is no
// vocabulary table to join, so the canonical label is denormalized into
// the value at insert time.
type entry struct {
	UID        string  `json:"uid"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// New creates a Redis synonym cache against the given address.
func New(addr string) *Cache {
	return &Cache{
		pool: &redis.Pool{
			MaxIdle:     4,
			IdleTimeout: 240 * time.Second,
			DialContext: func(ctx context.Context) (redis.Conn, error) {
				return redis.DialContext(ctx, "tcp", addr)
			},
		},
	}
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.pool.Close()
}

// Lookup returns the cached resolution for a normalized key.
func (c *Cache) Lookup(ctx context.Context, key string) (*tags.CachedSynonym, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", keyPrefix+key))
	if err != nil {
		if err == redis.ErrNil {
			return nil, fmt.Errorf("synonym %q: %w", key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("redis GET: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}

	return &tags.CachedSynonym{UID: e.UID, Label: e.Label, Confidence: e.Confidence}, nil
}

// InsertIfAbsent records a resolution once per distinct key via SET NX.
func (c *Cache) InsertIfAbsent(ctx context.Context, key, canonicalUID, label string, confidence float64) error {
	data, err := json.Marshal(entry{UID: canonicalUID, Label: label, Confidence: confidence})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connection: %w", err)
	}
	defer conn.Close()

	// SET NX replies OK on insert and nil when the key already exists;
	// both are success for write-once semantics.
	if _, err := conn.Do("SET", keyPrefix+key, data, "NX"); err != nil {
		return fmt.Errorf("redis SET NX: %w", err)
	}
	return nil
}
