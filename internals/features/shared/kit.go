// Package shared: perangkat bersama untuk semua fitur dashboard
// (query list, filter lokal, mutasi, validasi form).
package shared

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/configs"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/formstate"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/listquery"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/helpers/upstream"
	authMw "masjidku_dashboard/internals/middlewares/auth"
)

// FetchLimit: jumlah item yang ditarik dari upstream per list; filter & paging dilakukan lokal.
const FetchLimit = 500

const (
	SourceUpstream = "upstream"
	SourceDummy    = "dummy"
)

type Kit struct {
	Client    *upstream.Client
	Cache     *listquery.Cache
	Mutations *mutation.Dispatcher
	Dummy     configs.DummyMode
	Validate  *validator.Validate
}

func NewKit(client *upstream.Client, cache *listquery.Cache, journal mutation.Journal, dummy configs.DummyMode) *Kit {
	return &Kit{
		Client:    client,
		Cache:     cache,
		Mutations: &mutation.Dispatcher{Client: client, Cache: cache, Journal: journal},
		Dummy:     dummy,
		Validate:  formstate.NewValidator(),
	}
}

// Scope: masjid aktif dari sesi; tanpa masjid pakai user id.
func Scope(c *fiber.Ctx) string {
	s := authMw.SessionFrom(c)
	if s == nil {
		return "anon"
	}
	if s.MasjidID != "" {
		return "m:" + s.MasjidID
	}
	return "u:" + s.UserID
}

// Viewer: identitas pemanggil untuk key cache. Dua pengurus satu masjid bisa punya
// izin berbeda di upstream, jadi entry cache mereka dipisah.
func Viewer(c *fiber.Ctx) string {
	s := authMw.SessionFrom(c)
	if s == nil || s.UserID == "" {
		return "anon"
	}
	return "u:" + s.UserID
}

// UploadKey: upload baru dengan key yang sama membatalkan upload sebelumnya,
// jadi key dibatasi ke satu user di satu form.
func UploadKey(c *fiber.Ctx, form string) string {
	return Scope(c) + "|" + Viewer(c) + "|" + form
}

/* ===============================
   List
=================================*/

type ListResult[T any] struct {
	Items      []T
	Total      int64
	Truncated  bool
	FromCache  bool
	IsFetching bool
	Source     string
}

// Includes: metadata yang ikut di respons list.
func (r ListResult[T]) Includes() fiber.Map {
	return fiber.Map{
		"source":         r.Source,
		"from_cache":     r.FromCache,
		"is_fetching":    r.IsFetching,
		"upstream_total": r.Total,
		"truncated":      r.Truncated,
	}
}

// UpstreamParams: parameter standar untuk menarik list dari upstream.
func UpstreamParams(extra map[string]string) url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(FetchLimit))
	v.Set("offset", "0")
	for k, val := range extra {
		if !listfilter.IsSentinel(val) {
			v.Set(k, val)
		}
	}
	return v
}

// LoadList: ambil list lewat cache. USE_DUMMY=always → fixture langsung;
// USE_DUMMY=fallback → fixture bila upstream gagal.
func LoadList[T any](c *fiber.Ctx, k *Kit, endpoint string, params url.Values, fixture func() []T) (ListResult[T], error) {
	if k.Dummy == configs.DummyAlways && fixture != nil {
		items := fixture()
		return ListResult[T]{Items: items, Total: int64(len(items)), Source: SourceDummy}, nil
	}

	q := listquery.Query[T]{
		Cache:    k.Cache,
		Scope:    Scope(c),
		Viewer:   Viewer(c),
		Endpoint: endpoint,
		Params:   params,
		Fetch:    listquery.UpstreamFetcher(k.Client, upstream.CredentialsFromFiber(c)),
	}
	var st listquery.State[T]
	if c.QueryBool("refresh", false) {
		st = q.Refetch(c.UserContext())
	} else {
		st = q.Run(c.UserContext())
	}

	if st.Error != nil {
		if k.Dummy == configs.DummyFallback && fixture != nil && !errors.Is(st.Error, context.Canceled) {
			log.Printf("[DUMMY] %s gagal (%v), pakai data contoh", endpoint, st.Error)
			items := fixture()
			return ListResult[T]{Items: items, Total: int64(len(items)), Source: SourceDummy}, nil
		}
		return ListResult[T]{}, st.Error
	}

	status := k.Cache.Status(c.UserContext(), st.Key)
	return ListResult[T]{
		Items:      st.Data,
		Total:      st.Total,
		Truncated:  st.Truncated,
		FromCache:  st.FromCache,
		IsFetching: status.IsFetching,
		Source:     SourceUpstream,
	}, nil
}

// ErrListTruncated: export menolak list yang tidak terbaca habis dari upstream.
var ErrListTruncated = fiber.NewError(fiber.StatusConflict, "Data terlalu banyak untuk diekspor sekaligus. Persempit filter lalu coba lagi.")

// ExportableList: nil bila list lengkap.
func ExportableList[T any](res ListResult[T]) error {
	if res.Truncated {
		return ErrListTruncated
	}
	return nil
}

// RespondList: filter + sort + paginate lokal lalu kirim envelope list.
func RespondList[T any](c *fiber.Ctx, msg string, res ListResult[T], crit listfilter.Criteria[T], p helper.Params) error {
	filtered := listfilter.Apply(res.Items, crit)
	page, meta := listfilter.Paginate(filtered, p.Page, p.PerPage)
	return helper.JsonListEx(c, msg, page, meta, res.Includes())
}

// DateRange: ?from=&to= inklusif (to sampai akhir hari).
func DateRange(c *fiber.Ctx) (from, to *time.Time) {
	from = helper.ParseDatePtr(c.Query("from"))
	if t := helper.ParseDatePtr(c.Query("to")); t != nil {
		end := helper.EndOfDay(*t)
		to = &end
	}
	return from, to
}

/* ===============================
   Mutasi
=================================*/

var ErrDummyReadOnly = &mutation.Error{Status: fiber.StatusServiceUnavailable, Message: "Mode data contoh aktif: perubahan tidak disimpan."}

func (k *Kit) Mutate(c *fiber.Ctx, m mutation.Mutation) (mutation.Result, error) {
	if k.Dummy == configs.DummyAlways {
		return mutation.Result{}, ErrDummyReadOnly
	}
	return k.Mutations.Dispatch(c.UserContext(), Scope(c), upstream.CredentialsFromFiber(c), m)
}

// MutationData: objek hasil dari upstream (boleh kosong).
func MutationData(res mutation.Result) any {
	if len(res.Body) == 0 {
		return nil
	}
	obj, err := upstream.UnwrapObject(res.Body)
	if err != nil {
		return nil
	}
	return obj
}

/* ===============================
   Validasi
=================================*/

// BindAndValidate: body → dst, lalu validasi struct tag. Mengembalikan (handled, err):
// handled=true berarti respons error sudah dikirim.
func (k *Kit) BindAndValidate(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return true, helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := formstate.ValidateStruct(k.Validate, dst); len(errs) > 0 {
		return true, helper.JsonValidationError(c, errs)
	}
	return false, nil
}

/* ===============================
   Objek tunggal
=================================*/

// ScopePublic: cache halaman publik dipakai bersama semua pengunjung.
const ScopePublic = "public"

type ObjectResult[T any] struct {
	Item      T
	FromCache bool
	Source    string
}

func (r ObjectResult[T]) Includes() fiber.Map {
	return fiber.Map{"source": r.Source, "from_cache": r.FromCache}
}

// LoadObject: GET satu objek lewat cache yang sama dengan list (disimpan sebagai page 1 item).
// fixture dipakai sesuai USE_DUMMY; ok=false berarti fixture tidak punya data.
// Selain ScopePublic, key dipisah per pemanggil seperti LoadList.
func LoadObject[T any](c *fiber.Ctx, k *Kit, scope, endpoint string, fixture func() (T, bool)) (ObjectResult[T], error) {
	var zero T
	if k.Dummy == configs.DummyAlways && fixture != nil {
		if item, ok := fixture(); ok {
			return ObjectResult[T]{Item: item, Source: SourceDummy}, nil
		}
		return ObjectResult[T]{}, fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	}

	creds := upstream.CredentialsFromFiber(c)
	key := listquery.MakeKey(scope, endpoint, url.Values{})
	if scope != ScopePublic {
		key = listquery.WithViewer(key, Viewer(c))
	}
	page, fromCache, err := k.Cache.Load(c.UserContext(), key, func(ctx context.Context) (listquery.Page, error) {
		body, err := k.Client.Do(ctx, fiber.MethodGet, endpoint, nil, nil, creds)
		if err != nil {
			return listquery.Page{}, err
		}
		obj, err := upstream.UnwrapObject(body)
		if err != nil {
			return listquery.Page{}, &upstream.APIError{Status: fiber.StatusBadGateway, Message: err.Error(), Err: err}
		}
		return listquery.Page{Items: []map[string]any{obj}, Total: 1, FetchedAt: time.Now()}, nil
	}, c.QueryBool("refresh", false))

	if err != nil {
		if k.Dummy == configs.DummyFallback && fixture != nil && !errors.Is(err, context.Canceled) {
			if item, ok := fixture(); ok {
				log.Printf("[DUMMY] %s gagal (%v), pakai data contoh", endpoint, err)
				return ObjectResult[T]{Item: item, Source: SourceDummy}, nil
			}
		}
		return ObjectResult[T]{}, err
	}
	if len(page.Items) == 0 {
		return ObjectResult[T]{}, fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	}
	item, err := upstream.Convert[T](page.Items[0])
	if err != nil {
		return ObjectResult[T]{Item: zero}, &upstream.APIError{Status: fiber.StatusBadGateway, Message: "Format data upstream tidak dikenali", Err: err}
	}
	return ObjectResult[T]{Item: item, FromCache: fromCache, Source: SourceUpstream}, nil
}
