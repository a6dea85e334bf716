package mutation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listquery"
	"masjidku_dashboard/internals/helpers/upstream"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionPublish Action = "publish"
	ActionRevoke  Action = "revoke"
	ActionPay     Action = "pay"
)

var fallbackMessages = map[Action]string{
	ActionCreate:  "Gagal menyimpan data. Silakan coba lagi.",
	ActionUpdate:  "Gagal memperbarui data. Silakan coba lagi.",
	ActionDelete:  "Gagal menghapus data. Silakan coba lagi.",
	ActionPublish: "Gagal menerbitkan data. Silakan coba lagi.",
	ActionRevoke:  "Gagal mencabut data. Silakan coba lagi.",
	ActionPay:     "Gagal mencatat pembayaran. Silakan coba lagi.",
}

// Optimistic: patch lokal ke cache list sebelum request selesai, di-rollback kalau gagal.
// Item dicocokkan lewat IDField (default "id"). Tepat satu dari Patch/Remove/Insert dipakai.
type Optimistic struct {
	Endpoint string
	IDField  string
	ID       string
	Patch    func(item map[string]any) map[string]any
	Remove   bool
	Insert   map[string]any
}

type Mutation struct {
	Entity   string
	Action   Action
	EntityID string

	Method string
	Path   string
	Body   any

	// multipart (opsional); UploadKey membatalkan upload sebelumnya dengan key sama
	UploadKey string
	Fields    map[string]string
	Files     []helper.UploadFile

	Invalidate []string // endpoint list yang harus di-fetch ulang
	Optimistic *Optimistic
	Fallback   string
}

// Error: pesan yang siap ditampilkan di banner.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string   { return e.Message }
func (e *Error) HTTPStatus() int { return e.Status }
func (e *Error) Unwrap() error   { return e.Err }

type Result struct {
	Body        []byte
	Invalidated []string
}

type Dispatcher struct {
	Client  *upstream.Client
	Cache   *listquery.Cache
	Journal Journal
}

// Dispatch menjalankan satu mutasi untuk scope (tenant) tertentu.
func (d *Dispatcher) Dispatch(ctx context.Context, scope string, creds upstream.Credentials, m Mutation) (Result, error) {
	if m.Method == "" {
		m.Method = http.MethodPost
	}

	var (
		snap     map[string][]byte
		optPfx   string
		rollback bool
	)
	if o := m.Optimistic; o != nil && d.Cache != nil {
		optPfx = listquery.EndpointPrefix(scope, o.Endpoint)
		s, err := d.Cache.Snapshot(ctx, optPfx)
		if err != nil {
			log.Printf("[MUTATION] snapshot %q gagal, optimistic dilewati: %v", optPfx, err)
		} else {
			snap = s
			if err := d.Cache.Patch(ctx, optPfx, o.apply); err != nil {
				log.Printf("[MUTATION] optimistic patch gagal: %v", err)
			}
			rollback = true
		}
	}

	var (
		body []byte
		err  error
	)
	if len(m.Files) > 0 || m.Fields != nil {
		body, err = d.Client.Upload(ctx, m.UploadKey, m.Method, m.Path, m.Fields, m.Files, creds)
	} else {
		body, err = d.Client.Do(ctx, m.Method, m.Path, nil, m.Body, creds)
	}

	if err != nil {
		if rollback {
			if rerr := d.Cache.Restore(ctx, snap); rerr != nil {
				log.Printf("[MUTATION] rollback gagal: %v", rerr)
			}
		}
		merr := toError(err, m)
		d.record(ctx, scope, m, nil, merr)
		log.Printf("[MUTATION] %s %s %s gagal: %v", m.Entity, m.Action, m.EntityID, merr)
		return Result{}, merr
	}

	res := Result{Body: body}
	if d.Cache != nil {
		for _, ep := range m.Invalidate {
			pfx := listquery.EndpointPrefix(scope, ep)
			if _, ierr := d.Cache.Invalidate(ctx, pfx); ierr != nil {
				log.Printf("[MUTATION] invalidate %q gagal: %v", pfx, ierr)
				continue
			}
			res.Invalidated = append(res.Invalidated, pfx)
		}
	}
	d.record(ctx, scope, m, res.Invalidated, nil)
	log.Printf("[MUTATION] %s %s %s ok", m.Entity, m.Action, m.EntityID)
	return res, nil
}

func toError(err error, m Mutation) *Error {
	fallback := m.Fallback
	if fallback == "" {
		fallback = fallbackMessages[m.Action]
	}
	if fallback == "" {
		fallback = "Terjadi kesalahan. Silakan coba lagi."
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Status: 499, Message: "Permintaan dibatalkan.", Err: err}
	}
	var api *upstream.APIError
	if errors.As(err, &api) {
		msg := strings.TrimSpace(api.Message)
		// pesan generik (status text / unreachable) diganti fallback yang lebih ramah
		if msg == "" || msg == http.StatusText(api.Status) || errors.Is(api, upstream.ErrUnreachable) {
			msg = fallback
		}
		return &Error{Status: api.Status, Message: msg, Err: err}
	}
	return &Error{Status: http.StatusInternalServerError, Message: fallback, Err: err}
}

func (d *Dispatcher) record(ctx context.Context, scope string, m Mutation, invalidated []string, merr *Error) {
	if d.Journal == nil {
		return
	}
	e := NewEntry(scope, m, invalidated, merr)
	if err := d.Journal.Record(ctx, e); err != nil {
		log.Printf("[MUTATION] gagal mencatat jurnal: %v", err)
	}
}

func (o *Optimistic) idField() string {
	if o.IDField == "" {
		return "id"
	}
	return o.IDField
}

func (o *Optimistic) apply(p listquery.Page) listquery.Page {
	if o.Insert != nil {
		items := make([]map[string]any, 0, len(p.Items)+1)
		items = append(items, o.Insert)
		p.Items = append(items, p.Items...)
		p.Total++
		return p
	}

	field := o.idField()
	out := p.Items[:0:0]
	for _, it := range p.Items {
		if fmt.Sprint(it[field]) != o.ID {
			out = append(out, it)
			continue
		}
		if o.Remove {
			p.Total--
			continue
		}
		if o.Patch != nil {
			it = o.Patch(it)
		}
		out = append(out, it)
	}
	p.Items = out
	return p
}
