package listquery

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Page adalah bentuk yang disimpan di Store untuk satu key.
type Page struct {
	Items     []map[string]any `json:"items"`
	Total     int64            `json:"total"`
	Truncated bool             `json:"truncated,omitempty"` // Items < Total: upstream tidak habis dibaca
	FetchedAt time.Time        `json:"fetched_at"`
}

// Fetcher mengambil satu halaman list dari sumbernya (biasanya upstream).
type Fetcher func(ctx context.Context) (Page, error)

// MakeKey: scope|endpoint?param=sorted. Scope memisahkan cache antar tenant/user.
func MakeKey(scope, endpoint string, params url.Values) string {
	return EndpointPrefix(scope, endpoint) + params.Encode()
}

// WithViewer menempelkan identitas pemanggil di belakang key. Upstream memeriksa izin
// per user, jadi hasil milik satu user tidak boleh dibaca user lain dari cache.
// Prefix scope|endpoint? tetap sama sehingga invalidasi mengenai semua user.
func WithViewer(key, viewer string) string {
	if viewer == "" {
		return key
	}
	return key + "#" + viewer
}

// EndpointPrefix: prefix semua key milik satu endpoint (untuk invalidasi).
func EndpointPrefix(scope, endpoint string) string {
	return scope + "|" + endpoint + "?"
}

type call struct {
	done chan struct{}
	page Page
	err  error
}

type Status struct {
	IsLoading  bool `json:"is_loading"`
	IsFetching bool `json:"is_fetching"`
}

type Cache struct {
	Store      Store
	TTL        time.Duration
	RetryDelay time.Duration

	mu       sync.Mutex
	inflight map[string]*call
	gen      uint64
}

func New(store Store, ttl time.Duration) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{
		Store:      store,
		TTL:        ttl,
		RetryDelay: 300 * time.Millisecond,
		inflight:   map[string]*call{},
	}
}

type statusCarrier interface{ HTTPStatus() int }

// retryable: 4xx tidak akan berubah kalau diulang.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var sc statusCarrier
	if errors.As(err, &sc) {
		s := sc.HTTPStatus()
		return s == 0 || s >= 500 || s == 429
	}
	return true
}

func (c *Cache) fetchWithRetry(ctx context.Context, fetch Fetcher) (Page, error) {
	page, err := fetch(ctx)
	if err == nil || !retryable(err) || ctx.Err() != nil {
		return page, err
	}
	log.Printf("[CACHE] fetch gagal, retry sekali: %v", err)

	t := time.NewTimer(c.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return Page{}, ctx.Err()
	case <-t.C:
	}
	return fetch(ctx)
}

func (c *Cache) cached(ctx context.Context, key string) (Page, bool) {
	raw, ok, err := c.Store.Get(ctx, key)
	if err != nil {
		log.Printf("[CACHE] get %q gagal: %v", key, err)
		return Page{}, false
	}
	if !ok {
		return Page{}, false
	}
	var p Page
	if err := sonic.Unmarshal(raw, &p); err != nil {
		log.Printf("[CACHE] entry %q rusak: %v", key, err)
		return Page{}, false
	}
	return p, true
}

// Load mengembalikan data cache bila ada (kecuali force), selain itu fetch.
// Fetch bersamaan untuk key yang sama digabung jadi satu request.
func (c *Cache) Load(ctx context.Context, key string, fetch Fetcher, force bool) (page Page, fromCache bool, err error) {
	if !force {
		if p, ok := c.cached(ctx, key); ok {
			return p, true, nil
		}
	}

	c.mu.Lock()
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.page, false, cl.err
		case <-ctx.Done():
			return Page{}, false, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	startGen := c.gen
	c.mu.Unlock()

	cl.page, cl.err = c.fetchWithRetry(ctx, fetch)
	if cl.err == nil {
		if cl.page.FetchedAt.IsZero() {
			cl.page.FetchedAt = time.Now()
		}
		c.mu.Lock()
		stale := c.gen != startGen
		c.mu.Unlock()
		// hasil fetch yang dimulai sebelum invalidasi tidak disimpan
		if !stale {
			c.put(ctx, key, cl.page)
		}
	}

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	close(cl.done)

	return cl.page, false, cl.err
}

func (c *Cache) put(ctx context.Context, key string, p Page) {
	raw, err := sonic.Marshal(p)
	if err != nil {
		log.Printf("[CACHE] encode %q gagal: %v", key, err)
		return
	}
	if err := c.Store.Set(ctx, key, raw, c.TTL); err != nil {
		log.Printf("[CACHE] set %q gagal: %v", key, err)
	}
}

// Status: is_loading = sedang fetch tanpa data cache; is_fetching = sedang fetch.
func (c *Cache) Status(ctx context.Context, key string) Status {
	c.mu.Lock()
	_, fetching := c.inflight[key]
	c.mu.Unlock()
	if !fetching {
		return Status{}
	}
	_, hasData := c.cached(ctx, key)
	return Status{IsLoading: !hasData, IsFetching: true}
}

// Invalidate menghapus semua key dengan prefix tsb, sehingga render berikutnya fetch ulang.
func (c *Cache) Invalidate(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
	n, err := c.Store.DeletePrefix(ctx, prefix)
	if err != nil {
		return n, err
	}
	log.Printf("[CACHE] invalidate %q (%d key)", prefix, n)
	return n, nil
}

// InvalidateViewer menghapus entry milik satu viewer (lihat WithViewer) di bawah prefix.
func (c *Cache) InvalidateViewer(ctx context.Context, prefix, viewer string) (int, error) {
	entries, err := c.Store.Entries(ctx, prefix)
	if err != nil {
		return 0, err
	}
	suffix := "#" + viewer
	var keys []string
	for k := range entries {
		if strings.HasSuffix(k, suffix) {
			keys = append(keys, k)
		}
	}
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
	n, err := c.Store.Delete(ctx, keys...)
	if err != nil {
		return n, err
	}
	log.Printf("[CACHE] invalidate viewer %q di %q (%d key)", viewer, prefix, n)
	return n, nil
}

// Snapshot menyalin entry mentah untuk rollback optimistic update.
func (c *Cache) Snapshot(ctx context.Context, prefix string) (map[string][]byte, error) {
	return c.Store.Entries(ctx, prefix)
}

func (c *Cache) Restore(ctx context.Context, snap map[string][]byte) error {
	for k, v := range snap {
		if err := c.Store.Set(ctx, k, v, c.TTL); err != nil {
			return err
		}
	}
	return nil
}

// Patch menerapkan fn ke setiap Page di bawah prefix.
func (c *Cache) Patch(ctx context.Context, prefix string, fn func(Page) Page) error {
	entries, err := c.Store.Entries(ctx, prefix)
	if err != nil {
		return err
	}
	for k, raw := range entries {
		var p Page
		if err := sonic.Unmarshal(raw, &p); err != nil {
			continue
		}
		c.put(ctx, k, fn(p))
	}
	return nil
}
