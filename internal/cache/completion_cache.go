// Package cache holds the Redis-backed read caches. The only one today is
// the per-user book completion cache fronting the aggregate query.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CompletionCache stores book completion percentages as one hash per user
// (field = book id) so a progress mutation can drop the whole hash without
// knowing which book the touched chapter belongs to.
type CompletionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCompletionCache(addr, password string, ttl time.Duration) (*CompletionCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CompletionCache{client: rdb, ttl: ttl}, nil
}

func userKey(login string) string {
	return fmt.Sprintf("completion:user:%s", login)
}

// Get returns the cached percentage for (login, book) and whether it was present.
func (c *CompletionCache) Get(ctx context.Context, login string, bookID int64) (float64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.HGet(ctx, userKey(login), strconv.FormatInt(bookID, 10)).Result()
	if err != nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

func (c *CompletionCache) Set(ctx context.Context, login string, bookID int64, percent float64) {
	if c == nil || c.client == nil {
		return
	}
	key := userKey(login)
	if err := c.client.HSet(ctx, key, strconv.FormatInt(bookID, 10),
		strconv.FormatFloat(percent, 'f', -1, 64)).Err(); err != nil {
		return
	}
	c.client.Expire(ctx, key, c.ttl)
}

// Invalidate drops every cached book percentage for the user.
func (c *CompletionCache) Invalidate(ctx context.Context, login string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, userKey(login))
}

func (c *CompletionCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
