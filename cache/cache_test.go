package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maternal-health-backend/config"
)

type payload struct {
	Code string `json:"code"`
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	log, _ := test.NewNullLogger()
	c, err := New(Options{TTL: ttl, MaxEntries: 100}, nil, log)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte("v"))
	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(120 * time.Millisecond)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLoadCachesResult(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	var calls int
	fn := func(context.Context) (*payload, error) {
		calls++
		return &payload{Code: "MDG_0000000026"}, nil
	}

	first, err := Load(ctx, c, "indicator:x", fn)
	require.NoError(t, err)
	second, err := Load(ctx, c, "indicator:x", fn)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MDG_0000000026", first.Code)
	assert.Equal(t, first, second)
}

func TestLoadDoesNotCacheNil(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	var calls int
	fn := func(context.Context) (*payload, error) {
		calls++
		return nil, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Load(ctx, c, "indicator:none", fn)
		require.NoError(t, err)
		assert.Nil(t, v)
	}
	assert.Equal(t, 3, calls)
}

func TestLoadPropagatesErrors(t *testing.T) {
	c := newTestCache(t, time.Minute)
	boom := errors.New("upstream down")

	v, err := Load(context.Background(), c, "k", func(context.Context) (*payload, error) {
		return nil, boom
	})
	assert.Nil(t, v)
	assert.ErrorIs(t, err, boom)

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestLoadSharesConcurrentCalls(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (*payload, error) {
		calls.Add(1)
		<-release
		return &payload{Code: "shared"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*payload, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Load(ctx, c, "shared", fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		if assert.NotNil(t, r) {
			assert.Equal(t, "shared", r.Code)
		}
	}
}

func TestLoadDropsUndecodableEntry(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()
	c.Set(ctx, "k", []byte("{not json"))

	v, err := Load(ctx, c, "k", func(context.Context) (*payload, error) {
		return &payload{Code: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v.Code)
}

func TestNewRedisClientDisabledWithoutAddress(t *testing.T) {
	log, _ := test.NewNullLogger()
	assert.Nil(t, NewRedisClient(config.CacheConfig{}, log))
}

func TestLoadSurvivesFirstCallerCancel(t *testing.T) {
	c := newTestCache(t, time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	var loadErr atomic.Value
	fn := func(ctx context.Context) (*payload, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			loadErr.Store(err)
		}
		return &payload{Code: "WHS4_154"}, nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := Load(ctxA, c, "value:WHS4_154:RWA", fn)
		errA <- err
	}()
	<-started

	type result struct {
		v   *payload
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := Load(context.Background(), c, "value:WHS4_154:RWA", fn)
		resB <- result{v, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	require.NotNil(t, b.v)
	assert.Equal(t, "WHS4_154", b.v.Code)
	assert.Nil(t, loadErr.Load())

	// the detached load still filled the cache
	_, ok := c.Get(context.Background(), "value:WHS4_154:RWA")
	assert.True(t, ok)
}

func TestSetLogsDroppedWrite(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	c, err := New(Options{TTL: time.Minute, MaxEntries: 100}, nil, log)
	require.NoError(t, err)

	c.Close()
	c.Set(context.Background(), "k", []byte("v"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "L1 cache dropped write", entry.Message)
	assert.Equal(t, "k", entry.Data["key"])
}

func newRedisCache(t *testing.T, mr *miniredis.Miniredis, ttl time.Duration) *Cache {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log, _ := test.NewNullLogger()
	c, err := New(Options{TTL: ttl, MaxEntries: 100}, client, log)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestRedisTierSharedBetweenInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	writer := newRedisCache(t, mr, time.Minute)
	writer.Set(ctx, "indicator:antenatal", []byte(`{"code":"WHS4_154"}`))

	assert.True(t, mr.Exists(redisKeyPrefix+"indicator:antenatal"))
	assert.Equal(t, time.Minute, mr.TTL(redisKeyPrefix+"indicator:antenatal"))

	reader := newRedisCache(t, mr, time.Minute)
	got, ok := reader.Get(ctx, "indicator:antenatal")
	require.True(t, ok)
	assert.JSONEq(t, `{"code":"WHS4_154"}`, string(got))
}

func TestRedisHitPromotedWithRemainingTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	writer := newRedisCache(t, mr, time.Minute)
	writer.Set(ctx, "value:WHS4_154:RWA", []byte(`{"code":"WHS4_154"}`))
	mr.FastForward(50 * time.Second)

	reader := newRedisCache(t, mr, time.Minute)
	_, ok := reader.Get(ctx, "value:WHS4_154:RWA")
	require.True(t, ok)

	ttl, ok := reader.l1.GetTTL("value:WHS4_154:RWA")
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 10*time.Second)
}

func TestRedisEntryNotServedAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	writer := newRedisCache(t, mr, time.Minute)
	writer.Set(ctx, "series:WHS4_154:RWA:6", []byte(`{"points":[]}`))
	mr.FastForward(61 * time.Second)

	reader := newRedisCache(t, mr, time.Minute)
	_, ok := reader.Get(ctx, "series:WHS4_154:RWA:6")
	assert.False(t, ok)
}

func TestRedisDownFallsBackToMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := newRedisCache(t, mr, time.Minute)
	mr.Close()

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)

	v, err := Load(context.Background(), c, "k", func(context.Context) (*payload, error) {
		return &payload{Code: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v.Code)
}
