package listquery

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidku_dashboard/internals/helpers/upstream"
)

func newTestCache() *Cache {
	c := New(NewMemoryStore(), time.Minute)
	c.RetryDelay = time.Millisecond
	return c
}

func pageOf(names ...string) Page {
	items := make([]map[string]any, len(names))
	for i, n := range names {
		items[i] = map[string]any{"id": n, "name": n}
	}
	return Page{Items: items, Total: int64(len(items))}
}

// countingFetcher mengembalikan hasil sesuai urutan panggilan.
func countingFetcher(results ...func() (Page, error)) (Fetcher, *int32) {
	var n int32
	return func(ctx context.Context) (Page, error) {
		i := atomic.AddInt32(&n, 1) - 1
		if int(i) >= len(results) {
			i = int32(len(results) - 1)
		}
		return results[i]()
	}, &n
}

func ok(p Page) func() (Page, error)   { return func() (Page, error) { return p, nil } }
func fail(status int) func() (Page, error) {
	return func() (Page, error) { return Page{}, &upstream.APIError{Status: status, Message: http.StatusText(status)} }
}

func TestMakeKey_SortedParamsAndScope(t *testing.T) {
	a := MakeKey("m:1", "/api/a/students", url.Values{"status": {"active"}, "limit": {"500"}})
	b := MakeKey("m:1", "/api/a/students", url.Values{"limit": {"500"}, "status": {"active"}})
	assert.Equal(t, a, b)
	assert.Equal(t, "m:1|/api/a/students?limit=500&status=active", a)
	assert.NotEqual(t, a, MakeKey("m:2", "/api/a/students", url.Values{"limit": {"500"}, "status": {"active"}}))
	assert.Contains(t, a, EndpointPrefix("m:1", "/api/a/students"))
}

func TestLoad_CacheHit(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	fetch, calls := countingFetcher(ok(pageOf("a", "b")))

	p, fromCache, err := c.Load(ctx, "k", fetch, false)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, p.Items, 2)
	assert.False(t, p.FetchedAt.IsZero())

	p, fromCache, err = c.Load(ctx, "k", fetch, false)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, int64(2), p.Total)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	_, fromCache, err = c.Load(ctx, "k", fetch, true)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestLoad_RetriesOnceOn5xx(t *testing.T) {
	c := newTestCache()
	fetch, calls := countingFetcher(fail(503), ok(pageOf("a")))

	p, _, err := c.Load(context.Background(), "k", fetch, false)
	require.NoError(t, err)
	assert.Len(t, p.Items, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestLoad_GivesUpAfterSecondFailure(t *testing.T) {
	c := newTestCache()
	fetch, calls := countingFetcher(fail(500), fail(502), ok(pageOf("a")))

	_, _, err := c.Load(context.Background(), "k", fetch, false)
	require.Error(t, err)
	var apiErr *upstream.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 502, apiErr.Status)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))

	_, found, _ := c.Store.Get(context.Background(), "k")
	assert.False(t, found)
}

func TestLoad_NoRetryOn4xx(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404} {
		c := newTestCache()
		fetch, calls := countingFetcher(fail(status), ok(pageOf("a")))
		_, _, err := c.Load(context.Background(), "k", fetch, false)
		require.Error(t, err)
		assert.EqualValues(t, 1, atomic.LoadInt32(calls), "status %d", status)
	}
}

func TestLoad_RetriesOn429(t *testing.T) {
	c := newTestCache()
	fetch, calls := countingFetcher(fail(429), ok(pageOf("a")))
	_, _, err := c.Load(context.Background(), "k", fetch, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestLoad_NoRetryWhenCanceled(t *testing.T) {
	c := newTestCache()
	ctx, cancel := context.WithCancel(context.Background())
	fetch, calls := countingFetcher(func() (Page, error) {
		cancel()
		return Page{}, context.Canceled
	})
	_, _, err := c.Load(ctx, "k", fetch, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestLoad_DedupesConcurrentFetches(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var calls int32
	fetch := func(ctx context.Context) (Page, error) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		<-release
		return pageOf("a"), nil
	}

	var wg sync.WaitGroup
	results := make([]Page, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, _, err := c.Load(ctx, "k", fetch, false)
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	<-started
	assert.True(t, c.Status(ctx, "k").IsFetching)
	assert.True(t, c.Status(ctx, "k").IsLoading)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, p := range results {
		assert.Len(t, p.Items, 1)
	}
	assert.Equal(t, Status{}, c.Status(ctx, "k"))
}

func TestLoad_StaleFetchNotStoredAfterInvalidate(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(ctx context.Context) (Page, error) {
		close(started)
		<-release
		return pageOf("lama"), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p, _, err := c.Load(ctx, "m:1|/api/a/students?", fetch, false)
		assert.NoError(t, err)
		assert.Len(t, p.Items, 1)
	}()

	<-started
	_, err := c.Invalidate(ctx, EndpointPrefix("m:1", "/api/a/students"))
	require.NoError(t, err)
	close(release)
	<-done

	_, found, _ := c.Store.Get(ctx, "m:1|/api/a/students?")
	assert.False(t, found)
}

func TestInvalidate_OnlyMatchingPrefix(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	for _, k := range []string{
		MakeKey("m:1", "/api/a/students", url.Values{"page": {"1"}}),
		MakeKey("m:1", "/api/a/students", url.Values{"page": {"2"}}),
		MakeKey("m:1", "/api/a/classes", nil),
		MakeKey("m:2", "/api/a/students", nil),
	} {
		fetch, _ := countingFetcher(ok(pageOf("x")))
		_, _, err := c.Load(ctx, k, fetch, false)
		require.NoError(t, err)
	}

	n, err := c.Invalidate(ctx, EndpointPrefix("m:1", "/api/a/students"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, _ := c.Store.Entries(ctx, "")
	assert.Len(t, left, 2)
}

func TestSnapshotPatchRestore(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	key := MakeKey("m:1", "/api/a/teachers", nil)
	fetch, _ := countingFetcher(ok(pageOf("a", "b")))
	_, _, err := c.Load(ctx, key, fetch, false)
	require.NoError(t, err)

	prefix := EndpointPrefix("m:1", "/api/a/teachers")
	snap, err := c.Snapshot(ctx, prefix)
	require.NoError(t, err)

	require.NoError(t, c.Patch(ctx, prefix, func(p Page) Page {
		p.Items = p.Items[:1]
		p.Total = 1
		return p
	}))
	p, _ := c.cached(ctx, key)
	assert.Len(t, p.Items, 1)

	require.NoError(t, c.Restore(ctx, snap))
	p, _ = c.cached(ctx, key)
	assert.Len(t, p.Items, 2)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Second))
	_, found, _ := s.Get(ctx, "a")
	assert.True(t, found)

	now = now.Add(2 * time.Second)
	_, found, _ = s.Get(ctx, "a")
	assert.False(t, found)
}
