package listquery

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"masjidku_dashboard/internals/helpers/upstream"
)

// State: bentuk hasil yang dilihat halaman.
type State[T any] struct {
	Data       []T    `json:"data"`
	Total      int64  `json:"total"`
	Truncated  bool   `json:"truncated"`
	IsLoading  bool   `json:"is_loading"`
	IsFetching bool   `json:"is_fetching"`
	FromCache  bool   `json:"from_cache"`
	Error      error  `json:"-"`
	Key        string `json:"-"`
}

// Query membungkus satu endpoint list + parameternya.
// Viewer (mis. "u:<id>") memisahkan entry cache antar user dalam satu scope.
type Query[T any] struct {
	Cache    *Cache
	Scope    string
	Viewer   string
	Endpoint string
	Params   url.Values
	Fetch    func(ctx context.Context, endpoint string, params url.Values) (Page, error)
}

func (q Query[T]) Key() string {
	return WithViewer(MakeKey(q.Scope, q.Endpoint, q.Params), q.Viewer)
}

// Run: data cache bila masih berlaku, selain itu fetch (1x retry).
func (q Query[T]) Run(ctx context.Context) State[T] {
	return q.run(ctx, false)
}

// Refetch: abaikan cache, fetch ulang lalu simpan.
func (q Query[T]) Refetch(ctx context.Context) State[T] {
	return q.run(ctx, true)
}

func (q Query[T]) run(ctx context.Context, force bool) State[T] {
	key := q.Key()
	page, fromCache, err := q.Cache.Load(ctx, key, func(ctx context.Context) (Page, error) {
		return q.Fetch(ctx, q.Endpoint, q.Params)
	}, force)

	st := State[T]{Key: key, FromCache: fromCache, Error: err}
	if err != nil {
		return st
	}
	st.Total = page.Total
	st.Truncated = page.Truncated
	st.Data, st.Error = upstream.ConvertList[T](page.Items)
	return st
}

// MaxFetchPages: batas halaman upstream yang dibaca untuk satu list.
const MaxFetchPages = 20

func firstID(items []map[string]any) string {
	if len(items) == 0 || items[0]["id"] == nil {
		return ""
	}
	return fmt.Sprint(items[0]["id"])
}

// UpstreamFetcher: GET endpoint di upstream dengan kredensial user, lalu unwrap list.
// Bila total > item yang diterima, halaman berikutnya diminta (offset maju) sampai
// total tercapai. Berhenti lebih awal (MaxFetchPages, halaman kosong, atau upstream
// mengabaikan offset) ditandai Truncated.
func UpstreamFetcher(client *upstream.Client, creds upstream.Credentials) func(context.Context, string, url.Values) (Page, error) {
	return func(ctx context.Context, endpoint string, params url.Values) (Page, error) {
		q := url.Values{}
		for k, v := range params {
			q[k] = append([]string(nil), v...)
		}
		offset, _ := strconv.Atoi(q.Get("offset"))

		var (
			all       []map[string]any
			total     int64
			truncated bool
			head      string
		)
		for n := 0; ; n++ {
			if n > 0 {
				q.Set("offset", strconv.Itoa(offset))
			}
			body, err := client.Do(ctx, http.MethodGet, endpoint, q, nil, creds)
			if err != nil {
				return Page{}, err
			}
			items, t, err := upstream.UnwrapList(body)
			if err != nil {
				return Page{}, &upstream.APIError{Status: http.StatusBadGateway, Message: err.Error(), Err: err}
			}
			if n > 0 && len(items) > 0 && head != "" && firstID(items) == head {
				log.Printf("[CACHE] %s mengabaikan offset, berhenti di %d/%d item", endpoint, len(all), total)
				truncated = true
				break
			}
			if n == 0 {
				head = firstID(items)
			}
			all = append(all, items...)
			if t > total {
				total = t
			}
			offset += len(items)

			if int64(len(all)) >= total {
				break
			}
			if len(items) == 0 || n+1 >= MaxFetchPages {
				log.Printf("[CACHE] %s berhenti di %d/%d item", endpoint, len(all), total)
				truncated = true
				break
			}
		}
		if all == nil {
			all = []map[string]any{}
		}
		return Page{Items: all, Total: total, Truncated: truncated, FetchedAt: time.Now()}, nil
	}
}
