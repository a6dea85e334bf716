package helper

import (
	"regexp"
	"strings"
)

// label 1-63 char, tidak diawali/diakhiri "-", TLD huruf 2-63.
var reDomain = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// IsValidDomain: "alikhlas.sch.id" → true, "not a domain" → false.
func IsValidDomain(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len(s) > 253 {
		return false
	}
	return reDomain.MatchString(s)
}

// NormalizeDomain membuang skema, path, dan "www." sebelum divalidasi.
func NormalizeDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}
