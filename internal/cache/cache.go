package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/common"
	"golang.org/x/sync/singleflight"
)

// Cache serves reads from the store while fresh and refetches otherwise.
// Concurrent requests for the same key are collapsed into one fetch.
type Cache struct {
	store   *Store
	enabled func() bool
	logger  *slog.Logger
	group   singleflight.Group
}

// New creates a cache over the given store. enabled gates every read: when it
// returns false (no authenticated session), reads fail immediately instead of
// hitting the network.
func New(store *Store, enabled func() bool) *Cache {
	return &Cache{
		store:   store,
		enabled: enabled,
		logger:  slog.Default().With("component", "cache"),
	}
}

// Invalidate marks every entry in the given families stale. Callers run it
// after a mutation succeeds, never before.
func (c *Cache) Invalidate(ctx context.Context, families ...string) {
	n, err := c.store.MarkStale(ctx, families...)
	if err != nil {
		// Invalidation failure must not fail the mutation that triggered
		// it; the staleness window still bounds how long stale data lives.
		c.logger.Warn("cache invalidation failed", "families", families, "error", err)
		return
	}
	c.logger.Debug("cache invalidated", "families", families, "entries", n)
}

// Clear drops every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Purge(ctx)
}

// Stats reports the store contents.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	return c.store.Stats(ctx)
}

// Lookup returns the value under key, fetching it when the cached copy is
// missing, older than window, or flagged stale. Fetches retry up to three
// times unless the failure is an auth error, which surfaces immediately.
func Lookup[T any](ctx context.Context, c *Cache, key, family string, window time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if c.enabled != nil && !c.enabled() {
		return zero, common.ErrNotAuthenticated
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		entry, err := c.store.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed, fetching", "key", key, "error", err)
		}

		if entry != nil && !entry.Stale && time.Since(entry.FetchedAt) < window {
			var cached T
			if err := json.Unmarshal(entry.Data, &cached); err == nil {
				c.logger.Debug("cache hit", "key", key, "age", time.Since(entry.FetchedAt))
				return cached, nil
			}
			c.logger.Warn("corrupt cache entry, refetching", "key", key)
		}

		var fresh T
		err = common.WithRetry(ctx, func() error {
			value, fetchErr := fetch(ctx)
			if fetchErr != nil {
				return &common.RetryableError{Err: fetchErr, Retryable: !api.IsAuthError(fetchErr)}
			}
			fresh = value
			return nil
		}, common.RetryOptions{MaxAttempts: 3})
		if err != nil {
			return zero, unwrapRetry(err)
		}

		data, err := json.Marshal(fresh)
		if err != nil {
			return zero, fmt.Errorf("failed to encode cache entry: %w", err)
		}
		if err := c.store.Put(ctx, key, family, data, time.Now()); err != nil {
			c.logger.Warn("cache write failed", "key", key, "error", err)
		}
		return fresh, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// unwrapRetry strips the RetryableError wrapper so callers see the original
// API error (and its HTTP status) rather than retry plumbing.
func unwrapRetry(err error) error {
	for {
		switch e := err.(type) {
		case *common.RetryableError:
			err = e.Err
		default:
			return err
		}
	}
}
