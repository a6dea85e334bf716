package controller

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidku_dashboard/internals/configs"
	"masjidku_dashboard/internals/features/finance/invoices/dto"
	"masjidku_dashboard/internals/features/finance/invoices/service"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listquery"
	"masjidku_dashboard/internals/helpers/upstream"
)

type invoiceUpstream struct {
	total       int
	listCalls   int32
	detailCalls int32
}

// list /api/a/invoices menghormati limit/offset; /api/a/invoices/:id mengembalikan satu tagihan
func (u *invoiceUpstream) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if id := strings.TrimPrefix(r.URL.Path, EndpointInvoices+"/"); id != r.URL.Path {
			atomic.AddInt32(&u.detailCalls, 1)
			raw, err := sonic.Marshal(map[string]any{"data": invoiceRow(id)})
			assert.NoError(t, err)
			_, _ = w.Write(raw)
			return
		}
		atomic.AddInt32(&u.listCalls, 1)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		items := []map[string]any{}
		for i := offset; i < offset+limit && i < u.total; i++ {
			items = append(items, invoiceRow(fmt.Sprintf("inv-%05d", i)))
		}
		raw, err := sonic.Marshal(map[string]any{"data": items, "pagination": map[string]any{"total": u.total}})
		assert.NoError(t, err)
		_, _ = w.Write(raw)
	}))
}

func invoiceRow(id string) map[string]any {
	return map[string]any{
		"id":           id,
		"title":        "SPP Maret",
		"student_name": "Santri " + id,
		"amount":       "100000.00",
		"paid_amount":  0,
		"due_date":     "2099-03-10",
	}
}

func newUpstreamApp(baseURL string, mode configs.DummyMode) *fiber.App {
	kit := shared.NewKit(upstream.New(baseURL, 5*time.Second), listquery.New(nil, time.Minute), nil, mode)
	ctl := NewInvoiceController(kit, service.NewPaymentLinkService("", false))
	ctl.now = func() time.Time { return time.Date(2025, 3, 20, 10, 0, 0, 0, helper.WIB) }

	app := fiber.New()
	app.Get("/invoices", ctl.List)
	app.Get("/invoices/summary", ctl.Summary)
	app.Get("/invoices/export.csv", ctl.ExportCSV)
	app.Get("/invoices/export.xlsx", ctl.ExportXLSX)
	app.Get("/invoices/:id", ctl.Detail)
	return app
}

// callUp: seperti call, tapi batas waktu lebih longgar karena upstream dibaca beberapa halaman
func callUp(t *testing.T, app *fiber.App, method, target string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), 10_000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestList_ReadsEveryUpstreamPage(t *testing.T) {
	up := &invoiceUpstream{total: 1203}
	srv := up.server(t)
	defer srv.Close()
	app := newUpstreamApp(srv.URL, configs.DummyOff)

	status, raw := callUp(t, app, http.MethodGet, "/invoices?per_page=10&page=121")
	require.Equal(t, http.StatusOK, status)
	var body struct {
		Data       []dto.Invoice `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
		Includes struct {
			Truncated bool `json:"truncated"`
		} `json:"includes"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.Equal(t, int64(1203), body.Pagination.Total)
	require.Len(t, body.Data, 3)
	assert.False(t, body.Includes.Truncated)
	assert.Equal(t, int32(3), atomic.LoadInt32(&up.listCalls))

	_, raw = callUp(t, app, http.MethodGet, "/invoices/summary")
	var sum struct {
		Data dto.Summary `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &sum))
	assert.Equal(t, 1203, sum.Data.TotalInvoices)
	assert.InDelta(t, 120_300_000, sum.Data.TotalAmount, 0.001)
	assert.False(t, sum.Data.Truncated)

	status, raw = callUp(t, app, http.MethodGet, "/invoices/export.csv")
	require.Equal(t, http.StatusOK, status)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	assert.Len(t, lines, 1204)

	// semua dari cache setelah request pertama
	assert.Equal(t, int32(3), atomic.LoadInt32(&up.listCalls))
}

func TestExport_RejectsTruncatedList(t *testing.T) {
	up := &invoiceUpstream{total: (listquery.MaxFetchPages + 5) * shared.FetchLimit}
	srv := up.server(t)
	defer srv.Close()
	app := newUpstreamApp(srv.URL, configs.DummyOff)

	status, raw := callUp(t, app, http.MethodGet, "/invoices/export.csv")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(raw), "Persempit filter")

	status, _ = callUp(t, app, http.MethodGet, "/invoices/export.xlsx")
	assert.Equal(t, http.StatusConflict, status)

	_, raw = callUp(t, app, http.MethodGet, "/invoices/summary")
	var sum struct {
		Data dto.Summary `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &sum))
	assert.True(t, sum.Data.Truncated)
	assert.Equal(t, listquery.MaxFetchPages*shared.FetchLimit, sum.Data.TotalInvoices)
}

func TestDetail_UpstreamDoesNotLoadList(t *testing.T) {
	up := &invoiceUpstream{total: 50}
	srv := up.server(t)
	defer srv.Close()
	app := newUpstreamApp(srv.URL, configs.DummyOff)

	status, raw := callUp(t, app, http.MethodGet, "/invoices/inv-00007")
	require.Equal(t, http.StatusOK, status)
	var body struct {
		Data dto.Invoice `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.Equal(t, "inv-00007", body.Data.ID)
	assert.Equal(t, dto.StatusUnpaid, body.Data.Status)
	assert.Equal(t, helper.Number(100000), body.Data.Remaining)

	assert.Equal(t, int32(1), atomic.LoadInt32(&up.detailCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&up.listCalls))
}

func TestDetail_FallbackUsesFixture(t *testing.T) {
	app := newUpstreamApp("http://127.0.0.1:1", configs.DummyFallback)

	status, raw := callUp(t, app, http.MethodGet, "/invoices/6f1c2a10-0002-4c1a-9a10-000000000002")
	require.Equal(t, http.StatusOK, status)
	var body struct {
		Data dto.Invoice `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.Equal(t, dto.StatusPartial, body.Data.Status)
	assert.Equal(t, helper.Number(150000), body.Data.Remaining)

	status, _ = callUp(t, app, http.MethodGet, "/invoices/tidak-ada")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDetail_UpstreamDownWithoutDummy(t *testing.T) {
	app := newUpstreamApp("http://127.0.0.1:1", configs.DummyOff)
	status, _ := callUp(t, app, http.MethodGet, "/invoices/6f1c2a10-0002-4c1a-9a10-000000000002")
	assert.Equal(t, http.StatusBadGateway, status)
}
