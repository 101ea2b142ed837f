// Package cache keeps read-side aggregate reports (user listings with
// finished-run counts and coach ratings, the challenge summary) in Redis.
// Aggregates are always derivable from Postgres; entries are dropped on
// every run completion so they cannot drift.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KeyChallengeSummary = "runclub:challenges:summary"
	keyUsersPrefix      = "runclub:users:"
)

var userListFilters = []string{"", "coach", "athlete"}

// UsersKey is the key of a cached user listing for the given type filter.
func UsersKey(filter string) string {
	if filter == "" {
		filter = "all"
	}
	return keyUsersPrefix + filter
}

// Cache is a JSON cache on Redis. A nil *Cache, or one without a client, is a no-op.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.redis != nil
}

// GetJSON decodes the value at key into dest and reports whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("redis get %s error: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("redis decode %s error: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if !c.enabled() {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("redis encode %s error: %v", key, err)
		return
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("redis set %s error: %v", key, err)
	}
}

// InvalidateAggregates drops every cached aggregate report.
func (c *Cache) InvalidateAggregates(ctx context.Context) {
	if !c.enabled() {
		return
	}
	keys := []string{KeyChallengeSummary}
	for _, f := range userListFilters {
		keys = append(keys, UsersKey(f))
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("redis invalidate error: %v", err)
	}
}
