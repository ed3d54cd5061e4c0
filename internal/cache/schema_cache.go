package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no document is cached under a key
var ErrCacheMiss = errors.New("schema not cached")

// SchemaCache stores rendered JSON-LD documents. Keys include the UTC day
// because priceValidUntil moves with the date.
type SchemaCache interface {
	Get(ctx context.Context, kind, id string, day time.Time) ([]byte, error)
	Set(ctx context.Context, kind, id string, day time.Time, doc []byte) error
	Invalidate(ctx context.Context, kind, id string) error
}

type redisSchemaCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSchemaCache creates a Redis-backed cache. A non-positive ttl disables expiry.
func NewSchemaCache(client *redis.Client, prefix string, ttl time.Duration) SchemaCache {
	return &redisSchemaCache{client: client, prefix: prefix, ttl: ttl}
}

// Key is the Redis key for a document kind and id on a given day
func Key(prefix, kind, id string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", prefix, kind, id, day.UTC().Format("2006-01-02"))
}

func (c *redisSchemaCache) Get(ctx context.Context, kind, id string, day time.Time) ([]byte, error) {
	data, err := c.client.Get(ctx, Key(c.prefix, kind, id, day)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached schema: %w", err)
	}
	return data, nil
}

func (c *redisSchemaCache) Set(ctx context.Context, kind, id string, day time.Time, doc []byte) error {
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, Key(c.prefix, kind, id, day), doc, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache schema: %w", err)
	}
	return nil
}

// Invalidate drops every cached day of a document
func (c *redisSchemaCache) Invalidate(ctx context.Context, kind, id string) error {
	pattern := fmt.Sprintf("%s:%s:%s:*", escapeGlob(c.prefix), escapeGlob(kind), escapeGlob(id))

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached schemas: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached schemas: %w", err)
	}
	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes the characters SCAN MATCH treats as wildcards
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
