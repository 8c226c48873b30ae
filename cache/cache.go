// Package cache is the process-wide TTL store for WHO lookups: an in-memory
// Ristretto tier in front of an optional Redis tier shared between instances.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"maternal-health-backend/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const redisKeyPrefix = "maternal-health:"

type Options struct {
	TTL        time.Duration
	MaxEntries int64
}

// Cache stores immutable JSON blobs with a fixed TTL per entry. Entries are
// never served after their TTL, from either tier.
type Cache struct {
	l1    *ristretto.Cache[string, []byte]
	l2    *redis.Client
	ttl   time.Duration
	group singleflight.Group
	log   logrus.FieldLogger
}

// New builds a cache. redisClient may be nil to run in-process only.
func New(opts Options, redisClient *redis.Client, log logrus.FieldLogger) (*Cache, error) {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 10000
	}

	l1, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters:        opts.MaxEntries * 10,
		MaxCost:            opts.MaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	return &Cache{
		l1:  l1,
		l2:  redisClient,
		ttl: opts.TTL,
		log: log.WithField("component", "cache"),
	}, nil
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the raw blob for key, checking L1 then L2.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, found := c.l1.Get(key); found {
		metrics.CacheLookups.WithLabelValues("l1", "hit").Inc()
		return val, true
	}
	metrics.CacheLookups.WithLabelValues("l1", "miss").Inc()

	if c.l2 == nil {
		return nil, false
	}

	var getCmd *redis.StringCmd
	var ttlCmd *redis.DurationCmd
	_, err := c.l2.Pipelined(ctx, func(p redis.Pipeliner) error {
		getCmd = p.Get(ctx, redisKeyPrefix+key)
		ttlCmd = p.PTTL(ctx, redisKeyPrefix+key)
		return nil
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("key", key).Warn("L2 cache read failed")
		}
		metrics.CacheLookups.WithLabelValues("l2", "miss").Inc()
		return nil, false
	}

	data, err := getCmd.Bytes()
	remaining := ttlCmd.Val()
	if err != nil || len(data) == 0 || remaining <= 0 {
		metrics.CacheLookups.WithLabelValues("l2", "miss").Inc()
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("l2", "hit").Inc()
	// promote with whatever lifetime the entry has left
	c.setL1(key, data, remaining)
	return data, true
}

// Set stores data under key in both tiers.
func (c *Cache) Set(ctx context.Context, key string, data []byte) {
	c.setL1(key, data, c.ttl)

	if c.l2 != nil {
		if err := c.l2.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
			c.log.WithError(err).WithField("key", key).Warn("L2 cache write failed")
		}
	}
}

func (c *Cache) setL1(key string, data []byte, ttl time.Duration) {
	if !c.l1.SetWithTTL(key, data, 1, ttl) {
		// the next lookup for key goes upstream again
		c.log.WithField("key", key).Debug("L1 cache dropped write")
		return
	}
	c.l1.Wait()
}

// Delete removes key from both tiers.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.l1.Del(key)

	if c.l2 != nil {
		if err := c.l2.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
			return fmt.Errorf("L2 delete failed: %w", err)
		}
	}
	return nil
}

// Clear drops every L1 entry. L2 entries age out on their own.
func (c *Cache) Clear() {
	c.l1.Clear()
}

func (c *Cache) Close() {
	c.l1.Close()
}

// Load returns the cached value for key or calls fn to produce it. Concurrent
// callers for the same missing key share a single fn call. A nil result is
// returned to every waiter but not cached, so the next caller retries.
//
// fn runs detached from the cancellation of whichever caller started it, so a
// caller that gives up returns ctx.Err() without failing the others. Request
// values such as the request id still reach fn.
func Load[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (*T, error)) (*T, error) {
	if v, ok := lookup[T](ctx, c, key); ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)

		// a caller that missed above may get here after the previous flight stored the value
		if v, ok := lookup[T](loadCtx, c, key); ok {
			return v, nil
		}

		v, err := fn(loadCtx)
		if err != nil || v == nil {
			return v, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode cache entry %s: %w", key, err)
		}
		c.Set(loadCtx, key, data)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		v, _ := res.Val.(*T)
		return v, nil
	}
}

func lookup[T any](ctx context.Context, c *Cache, key string) (*T, bool) {
	data, ok := c.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.log.WithField("key", key).Warn("Dropping undecodable cache entry")
		_ = c.Delete(ctx, key)
		return nil, false
	}
	return &v, true
}
