// Package formstate menyimpan state form datar (key → value) beserta predikat validasinya.
package formstate

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	helper "masjidku_dashboard/internals/helpers"
)

var ErrInvalid = errors.New("form tidak valid")

// Predicate mengembalikan pesan error, atau "" bila lolos.
type Predicate func(v string, all map[string]string) string

type Form struct {
	mu     sync.RWMutex
	values map[string]string
	rules  map[string][]Predicate
}

func New(initial map[string]string) *Form {
	f := &Form{values: map[string]string{}, rules: map[string][]Predicate{}}
	for k, v := range initial {
		f.values[k] = v
	}
	return f
}

func (f *Form) Set(key, value string) *Form {
	f.mu.Lock()
	f.values[key] = value
	f.mu.Unlock()
	return f
}

func (f *Form) SetMany(kv map[string]string) *Form {
	f.mu.Lock()
	for k, v := range kv {
		f.values[k] = v
	}
	f.mu.Unlock()
	return f
}

func (f *Form) Get(key string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[key]
}

func (f *Form) Values() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Rule menambah predikat untuk satu field. Predikat saling independen.
func (f *Form) Rule(key string, preds ...Predicate) *Form {
	f.mu.Lock()
	f.rules[key] = append(f.rules[key], preds...)
	f.mu.Unlock()
	return f
}

// Errors: field → daftar pesan. Map kosong berarti valid.
func (f *Form) Errors() map[string][]string {
	vals := f.Values()
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := map[string][]string{}
	keys := make([]string, 0, len(f.rules))
	for k := range f.rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, p := range f.rules[k] {
			if msg := p(vals[k], vals); msg != "" {
				out[k] = append(out[k], msg)
			}
		}
	}
	return out
}

func (f *Form) Valid() bool { return len(f.Errors()) == 0 }

// Submit hanya memanggil fn bila semua predikat lolos.
func (f *Form) Submit(fn func(values map[string]string) error) (map[string][]string, error) {
	if errs := f.Errors(); len(errs) > 0 {
		return errs, ErrInvalid
	}
	return nil, fn(f.Values())
}

/* ===============================
   Predicates
=================================*/

func Required(msg string) Predicate {
	if msg == "" {
		msg = "Wajib diisi"
	}
	return func(v string, _ map[string]string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// optional: predikat format hanya berlaku bila field terisi.
func optional(check func(string) bool, msg string) Predicate {
	return func(v string, _ map[string]string) string {
		v = strings.TrimSpace(v)
		if v == "" || check(v) {
			return ""
		}
		return msg
	}
}

func numericRange(min, max float64, msg string) Predicate {
	return optional(func(v string) bool {
		f, err := strconv.ParseFloat(v, 64)
		return err == nil && f >= min && f <= max
	}, msg)
}

func LatitudeRange() Predicate {
	return numericRange(-90, 90, "Latitude harus di antara -90 dan 90")
}

func LongitudeRange() Predicate {
	return numericRange(-180, 180, "Longitude harus di antara -180 dan 180")
}

func DomainName() Predicate {
	return optional(helper.IsValidDomain, "Domain tidak valid")
}

func URL() Predicate {
	return optional(isHTTPURL, "URL harus diawali http:// atau https://")
}

func MaxLen(n int) Predicate {
	return optional(func(v string) bool {
		return utf8.RuneCountInString(v) <= n
	}, "Maksimal "+strconv.Itoa(n)+" karakter")
}

// GmapsURL: harus bisa diambil koordinatnya.
func GmapsURL() Predicate {
	return optional(func(v string) bool {
		return helper.ExtractLatLngFromGmaps(v) != nil
	}, "Link Google Maps tidak memuat koordinat")
}

func isHTTPURL(v string) bool {
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SosmedHandle: @handle, nomor, atau URL lengkap.
func SosmedHandle() Predicate {
	return optional(func(v string) bool {
		if isHTTPURL(v) {
			return true
		}
		return isSosmedHandle(v)
	}, "Username/handle tidak valid")
}

// PairedWith: field ini dan other harus sama-sama terisi atau sama-sama kosong.
func PairedWith(other, msg string) Predicate {
	return func(v string, all map[string]string) string {
		if (strings.TrimSpace(v) == "") != (strings.TrimSpace(all[other]) == "") {
			return msg
		}
		return ""
	}
}
