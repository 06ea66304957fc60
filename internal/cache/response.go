// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for public JSON responses.
// Public listings and detail payloads are stored under a per-content-type
// namespace so an admin write can drop exactly the affected entries.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a public response stays cached.
	DefaultResponseTTL = 5 * time.Minute
)

// ResponseCache manages public JSON response caching in Valkey. All
// operations are best-effort: a cache failure degrades to a DB read, never
// to a request failure.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key builds the cache key for a public request: the content-type
// namespace plus the request path and query.
func Key(namespace, pathAndQuery string) string {
	return fmt.Sprintf("%s:%s", namespace, pathAndQuery)
}

// Get retrieves a cached JSON payload. Returns false on miss or error.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a JSON payload with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateNamespace drops every cached response under a content-type
// namespace. Called after any admin write to that type.
func (rc *ResponseCache) InvalidateNamespace(ctx context.Context, namespace string) {
	rc.deleteByPattern(ctx, responseKeyPrefix+namespace+":*")
}

// InvalidateAll drops every cached response.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	rc.deleteByPattern(ctx, responseKeyPrefix+"*")
}

func (rc *ResponseCache) deleteByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache invalidated", "pattern", pattern, "deleted", deleted)
	}
}
