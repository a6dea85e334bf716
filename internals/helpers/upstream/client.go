package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	helper "masjidku_dashboard/internals/helpers"
)

const maxResponseBytes = 10 << 20

// ErrUnreachable: upstream tidak bisa dihubungi (DNS, koneksi ditolak, timeout).
var ErrUnreachable = errors.New("upstream tidak dapat dihubungi")

// Sentinel untuk errors.Is terhadap *APIError berdasarkan status.
var (
	ErrUnauthorized = errors.New("sesi tidak valid")
	ErrForbidden    = errors.New("akses ditolak")
	ErrNotFound     = errors.New("data tidak ditemukan")
)

// APIError membawa status & pesan yang dikirim backend.
type APIError struct {
	Status  int
	Message string
	Body    []byte
	Err     error
}

func (e *APIError) Error() string   { return e.Message }
func (e *APIError) HTTPStatus() int { return e.Status }
func (e *APIError) Unwrap() error   { return e.Err }

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Credentials diteruskan apa adanya dari browser ke upstream (sesi cookie).
type Credentials struct {
	Cookie        string
	Authorization string
}

func CredentialsFromFiber(c *fiber.Ctx) Credentials {
	return Credentials{
		Cookie:        strings.Clone(string(c.Request().Header.Peek(fiber.HeaderCookie))),
		Authorization: strings.Clone(c.Get(fiber.HeaderAuthorization)),
	}
}

type inflightUpload struct {
	id     uint64
	cancel context.CancelFunc
}

type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu      sync.Mutex
	seq     uint64
	uploads map[string]inflightUpload
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		uploads: map[string]inflightUpload{},
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func applyCredentials(req *http.Request, creds Credentials) {
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if creds.Authorization != "" {
		req.Header.Set("Authorization", creds.Authorization)
	}
}

// Do mengirim request JSON. body boleh nil, []byte (raw JSON), atau value apa pun.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, creds Credentials) ([]byte, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := sonic.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("gagal encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	applyCredentials(req, creds)
	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("[UPSTREAM] %s %s gagal: %v", req.Method, req.URL.Path, err)
		return nil, &APIError{Status: http.StatusBadGateway, Message: ErrUnreachable.Error(), Err: fmt.Errorf("%w: %v", ErrUnreachable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "gagal membaca respons upstream", Err: err}
	}
	log.Printf("[UPSTREAM] %s %s status=%d dur=%s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: ExtractMessage(data, http.StatusText(resp.StatusCode)),
			Body:    data,
		}
	}
	return data, nil
}

// Upload mengirim multipart. Upload baru dengan key yang sama membatalkan
// upload sebelumnya yang masih berjalan.
func (c *Client) Upload(ctx context.Context, key, method, path string, fields map[string]string, files []helper.UploadFile, creds Credentials) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if prev, ok := c.uploads[key]; ok && key != "" {
		log.Printf("[UPSTREAM] upload %q dibatalkan oleh submit baru", key)
		prev.cancel()
	}
	c.seq++
	my := c.seq
	if key != "" {
		c.uploads[key] = inflightUpload{id: my, cancel: cancel}
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if cur, ok := c.uploads[key]; ok && cur.id == my {
			delete(c.uploads, key)
		}
		c.mu.Unlock()
		cancel()
	}()

	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), body)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat request upload: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	applyCredentials(req, creds)
	return c.send(req)
}

// InflightUploads dipakai untuk observasi & test.
func (c *Client) InflightUploads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.uploads)
}

func buildMultipart(fields map[string]string, files []helper.UploadFile) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("gagal menulis field %s: %w", k, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("gagal membuat part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("gagal menulis file %s: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
