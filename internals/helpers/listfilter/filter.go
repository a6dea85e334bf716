// Package listfilter menurunkan tampilan terfilter/terurut dari list yang sudah di-fetch.
package listfilter

import (
	"sort"
	"strings"
	"time"

	helper "masjidku_dashboard/internals/helpers"
)

// Equality: filter kategori; Value "" atau "all" berarti tidak memfilter.
type Equality[T any] struct {
	Value string
	Field func(T) string
}

type Criteria[T any] struct {
	Query        string
	SearchFields func(T) []string

	Equals []Equality[T]

	DateFrom *time.Time
	DateTo   *time.Time
	DateOf   func(T) *time.Time

	Less func(a, b T) bool
}

// IsSentinel: nilai dropdown yang berarti "semua".
func IsSentinel(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all") || strings.EqualFold(v, "semua")
}

func (c Criteria[T]) active() bool {
	if strings.TrimSpace(c.Query) != "" && c.SearchFields != nil {
		return true
	}
	for _, e := range c.Equals {
		if !IsSentinel(e.Value) && e.Field != nil {
			return true
		}
	}
	if c.DateOf != nil && (c.DateFrom != nil || c.DateTo != nil) {
		return true
	}
	return c.Less != nil
}

// Apply: teks (case-insensitive, cukup satu field cocok) → kesetaraan kategori →
// rentang tanggal inklusif → sort stabil. Tanpa kriteria aktif, list dikembalikan apa adanya.
func Apply[T any](items []T, c Criteria[T]) []T {
	if !c.active() {
		return items
	}

	q := strings.ToLower(strings.TrimSpace(c.Query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q != "" && c.SearchFields != nil && !matchesQuery(c.SearchFields(it), q) {
			continue
		}
		if !matchesEquals(it, c.Equals) {
			continue
		}
		if c.DateOf != nil && !inRange(c.DateOf(it), c.DateFrom, c.DateTo) {
			continue
		}
		out = append(out, it)
	}

	if c.Less != nil {
		sort.SliceStable(out, func(i, j int) bool { return c.Less(out[i], out[j]) })
	}
	return out
}

func matchesQuery(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func matchesEquals[T any](it T, eqs []Equality[T]) bool {
	for _, e := range eqs {
		if IsSentinel(e.Value) || e.Field == nil {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(e.Field(it)), strings.TrimSpace(e.Value)) {
			return false
		}
	}
	return true
}

func inRange(t *time.Time, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if t == nil || t.IsZero() {
		return false
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

/* ===============================
   Comparators
=================================*/

func ByString[T any](f func(T) string, desc bool) func(a, b T) bool {
	return func(a, b T) bool {
		x, y := strings.ToLower(f(a)), strings.ToLower(f(b))
		if desc {
			return x > y
		}
		return x < y
	}
}

func ByNumber[T any](f func(T) float64, desc bool) func(a, b T) bool {
	return func(a, b T) bool {
		if desc {
			return f(a) > f(b)
		}
		return f(a) < f(b)
	}
}

// ByTime: nilai kosong selalu di akhir, apa pun arahnya.
func ByTime[T any](f func(T) *time.Time, desc bool) func(a, b T) bool {
	return func(a, b T) bool {
		x, y := f(a), f(b)
		xMissing := x == nil || x.IsZero()
		yMissing := y == nil || y.IsZero()
		switch {
		case xMissing && yMissing:
			return false
		case xMissing:
			return false
		case yMissing:
			return true
		}
		if desc {
			return x.After(*y)
		}
		return x.Before(*y)
	}
}

// Sorters: peta sort_by → pembanding (asc). Arah dibalik lewat desc.
type Sorters[T any] map[string]func(desc bool) func(a, b T) bool

func (s Sorters[T]) Pick(key string, desc bool) func(a, b T) bool {
	if mk, ok := s[key]; ok {
		return mk(desc)
	}
	return nil
}

// Paginate memotong hasil filter per halaman dan menghitung meta-nya.
func Paginate[T any](items []T, page, perPage int) ([]T, helper.Pagination) {
	meta := helper.BuildPaginationFromPage(int64(len(items)), page, perPage)
	start := (meta.Page - 1) * meta.PerPage
	if start >= len(items) {
		meta.Count = 0
		return []T{}, meta
	}
	end := start + meta.PerPage
	if end > len(items) {
		end = len(items)
	}
	out := items[start:end]
	meta.Count = len(out)
	return out, meta
}
