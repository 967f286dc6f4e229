package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(n *int32, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		atomic.AddInt32(n, 1)
		return value, nil
	}
}

func TestQueryCachesUntilInvalidated(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	var fetches int32

	for i := 0; i < 3; i++ {
		v, err := Query(ctx, c, "products", []Tag{TagProducts}, counter(&fetches, "v1"))
		require.NoError(t, err)
		assert.Equal(t, "v1", v)
	}
	assert.EqualValues(t, 1, fetches)

	c.Invalidate(TagProducts)
	assert.True(t, c.IsStale("products"))

	_, err := Query(ctx, c, "products", []Tag{TagProducts}, counter(&fetches, "v2"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetches)
	assert.False(t, c.IsStale("products"))
}

func TestInvalidateOnlyTouchesMatchingTags(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	var fetches int32

	_, _ = Query(ctx, c, "products", []Tag{TagProducts}, counter(&fetches, "p"))
	_, _ = Query(ctx, c, "users", []Tag{TagUsers}, counter(&fetches, "u"))

	c.Invalidate(TagUsers)

	assert.False(t, c.IsStale("products"))
	assert.True(t, c.IsStale("users"))
	assert.Equal(t, 2, c.Len())
}

func TestFailedMutationInvalidatesNothing(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	var fetches int32
	_, _ = Query(ctx, c, "sales", []Tag{TagSales}, counter(&fetches, "s"))

	_, err := Mutate(ctx, c, []Tag{TagSales}, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	require.Error(t, err)
	assert.False(t, c.IsStale("sales"))

	_, err = Mutate(ctx, c, []Tag{TagSales}, func(context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
	assert.True(t, c.IsStale("sales"))
}

func TestFetchErrorIsNotCached(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	_, err := Query(ctx, c, "users", []Tag{TagUsers}, func(context.Context) (string, error) {
		return "", errors.New("offline")
	})
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentQueriesShareOneFetch(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	release := make(chan struct{})
	var fetches int32

	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	started := make(chan struct{}, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			v, err := Query(ctx, c, "products", []Tag{TagProducts}, fetch)
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	for range results {
		<-started
	}
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&fetches), int32(len(results)))
	assert.Equal(t, 1, c.Len())
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	c := NewCache()
	release := make(chan struct{})
	entered := make(chan struct{})
	var fetches int32

	fetch := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&fetches, 1) == 1 {
			close(entered)
		}
		select {
		case <-release:
			return "shared", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := Query(firstCtx, c, "products", []Tag{TagProducts}, fetch)
		firstErr <- err
	}()
	<-entered

	type result struct {
		value string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		v, err := Query(context.Background(), c, "products", []Tag{TagProducts}, fetch)
		second <- result{v, err}
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "shared", got.value)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fetches))

	v, err := Query(context.Background(), c, "products", []Tag{TagProducts}, counter(&fetches, "refetched"))
	require.NoError(t, err)
	assert.Equal(t, "shared", v, "the shared result is cached for later readers")
}

func TestInvalidationDuringFetchLeavesEntryStale(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	_, err := Query(ctx, c, "products", []Tag{TagProducts}, func(context.Context) (string, error) {
		c.Invalidate(TagProducts)
		return "old", nil
	})
	require.NoError(t, err)
	assert.True(t, c.IsStale("products"), "a result fetched across an invalidation must not be served as fresh")
}
