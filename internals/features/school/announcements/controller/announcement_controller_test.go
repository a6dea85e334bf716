package controller

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidku_dashboard/internals/configs"
	"masjidku_dashboard/internals/features/school/announcements/dto"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listquery"
	"masjidku_dashboard/internals/helpers/upstream"
)

func newApp(baseURL string, mode configs.DummyMode) *fiber.App {
	kit := shared.NewKit(upstream.New(baseURL, 2*time.Second), listquery.New(nil, time.Minute), nil, mode)
	ctl := NewAnnouncementController(kit)
	ctl.now = func() time.Time { return time.Date(2025, 3, 1, 20, 0, 0, 0, helper.WIB) }

	app := fiber.New()
	app.Get("/announcements", ctl.List)
	app.Post("/announcements", ctl.Create)
	app.Patch("/announcements/:id", ctl.Update)
	return app
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func multipartReq(t *testing.T, method, target string, fields map[string]string, filename string, data []byte) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("attachment", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

// received: apa yang sampai di upstream untuk satu request mutasi
type received struct {
	contentType string
	fields      map[string]string
	json        map[string]any
	file        struct {
		name, contentType string
		data              []byte
	}
}

func recordingUpstream(t *testing.T) (*httptest.Server, func() received) {
	t.Helper()
	var (
		mu  sync.Mutex
		got received
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		got = received{contentType: r.Header.Get("Content-Type"), fields: map[string]string{}}
		if strings.HasPrefix(got.contentType, "multipart/") {
			if assert.NoError(t, r.ParseMultipartForm(10<<20)) {
				for k, v := range r.MultipartForm.Value {
					got.fields[k] = v[0]
				}
				if fhs := r.MultipartForm.File["attachment"]; len(fhs) == 1 {
					got.file.name = fhs[0].Filename
					got.file.contentType = fhs[0].Header.Get("Content-Type")
					f, err := fhs[0].Open()
					if assert.NoError(t, err) {
						got.file.data, _ = io.ReadAll(f)
						_ = f.Close()
					}
				}
			}
		} else {
			raw, _ := io.ReadAll(r.Body)
			_ = sonic.Unmarshal(raw, &got.json)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"an-new"}}`))
	}))
	return srv, func() received {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

func TestList_PublishedThemeAndDate(t *testing.T) {
	app := newApp("http://127.0.0.1:1", configs.DummyAlways)

	decode := func(raw []byte) []dto.Announcement {
		var body struct {
			Data []dto.Announcement `json:"data"`
		}
		require.NoError(t, sonic.Unmarshal(raw, &body))
		return body.Data
	}

	_, raw := send(t, app, httptest.NewRequest(http.MethodGet, "/announcements?is_published=false", nil))
	drafts := decode(raw)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Kajian Orang Tua", drafts[0].Title)

	_, raw = send(t, app, httptest.NewRequest(http.MethodGet, "/announcements?theme=LIBUR", nil))
	assert.Len(t, decode(raw), 1)

	_, raw = send(t, app, httptest.NewRequest(http.MethodGet, "/announcements?from=2025-01-01", nil))
	recent := decode(raw)
	require.Len(t, recent, 2)
	assert.Equal(t, "Kajian Orang Tua", recent[0].Title)
}

func TestCreate_PDFAttachmentSentAsIs(t *testing.T) {
	srv, got := recordingUpstream(t)
	defer srv.Close()
	app := newApp(srv.URL, configs.DummyOff)

	pdf := []byte("%PDF-1.4 jadwal kajian")
	req := multipartReq(t, http.MethodPost, "/announcements",
		map[string]string{"title": "Kajian Ahad", "content": "Kajian tafsir ba'da subuh", "is_published": "1"},
		"jadwal kajian.pdf", pdf)
	status, raw := send(t, app, req)
	require.Equal(t, http.StatusCreated, status, string(raw))

	r := got()
	assert.True(t, strings.HasPrefix(r.contentType, "multipart/form-data"))
	assert.Equal(t, "Kajian Ahad", r.fields["title"])
	assert.Equal(t, "true", r.fields["is_published"])
	// tanggal kosong diisi hari ini (WIB)
	assert.Equal(t, "2025-03-01", r.fields["date"])
	assert.True(t, strings.HasSuffix(r.file.name, "-jadwal_kajian.pdf"), r.file.name)
	assert.Equal(t, pdf, r.file.data)
}

func TestCreate_ImageAttachmentBecomesWebP(t *testing.T) {
	srv, got := recordingUpstream(t)
	defer srv.Close()
	app := newApp(srv.URL, configs.DummyOff)

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))

	req := multipartReq(t, http.MethodPost, "/announcements",
		map[string]string{"title": "Poster", "content": "Lihat poster"}, "poster.png", buf.Bytes())
	status, raw := send(t, app, req)
	require.Equal(t, http.StatusCreated, status, string(raw))

	r := got()
	assert.Equal(t, "image/webp", r.file.contentType)
	assert.True(t, strings.HasSuffix(r.file.name, ".webp"), r.file.name)
}

func TestCreate_RejectsUnsupportedAttachment(t *testing.T) {
	app := newApp("http://127.0.0.1:1", configs.DummyOff)
	req := multipartReq(t, http.MethodPost, "/announcements",
		map[string]string{"title": "Installer", "content": "x"}, "setup.exe", []byte("MZ"))
	status, raw := send(t, app, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "Jenis file lampiran tidak didukung")
}

func TestCreate_JSONWithoutAttachment(t *testing.T) {
	srv, got := recordingUpstream(t)
	defer srv.Close()
	app := newApp(srv.URL, configs.DummyOff)

	status, raw := send(t, app, jsonReq(http.MethodPost, "/announcements",
		`{"title":"Libur","content":"Libur nasional","date":"2025-03-28","is_published":false}`))
	require.Equal(t, http.StatusCreated, status, string(raw))

	r := got()
	assert.Equal(t, false, r.json["is_published"])
	assert.Equal(t, "2025-03-28", r.json["date"])
}

func TestCreate_ValidationErrors(t *testing.T) {
	app := newApp("http://127.0.0.1:1", configs.DummyOff)
	status, raw := send(t, app, jsonReq(http.MethodPost, "/announcements",
		`{"title":"Libur","date":"bulan depan","is_published":"mungkin"}`))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.Equal(t, []string{"Isi pengumuman wajib diisi"}, body.Errors["content"])
	assert.Equal(t, []string{"Format tanggal tidak valid"}, body.Errors["date"])
	assert.Equal(t, []string{"Harus true atau false"}, body.Errors["is_published"])
}

func TestUpdate_NothingToChange(t *testing.T) {
	app := newApp("http://127.0.0.1:1", configs.DummyOff)
	status, _ := send(t, app, jsonReq(http.MethodPatch, "/announcements/a1", `{}`))
	assert.Equal(t, http.StatusBadRequest, status)
}
