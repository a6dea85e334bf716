package helper

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify mengubah teks bebas jadi slug [a-z0-9-], hilangkan diakritik,
// kompres "-", trim ujung, enforce maxLen (default 100 jika <=0), fallback "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	// Strip diakritik (é → e, dll)
	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		s = "item"
	}
	if utf8.RuneCountInString(s) > maxLen {
		rs := []rune(s)
		s = strings.Trim(string(rs[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// SuggestSlugFromName util kecil: slugify nama dengan batas default 100.
func SuggestSlugFromName(name string) string {
	return Slugify(name, 100)
}

// UniqueSlugAmong mencari slug yang belum dipakai di daftar yang sudah di-fetch
// (case-insensitive): base, base-2, base-3, ...
// Upstream tetap penentu akhir; ini hanya saran untuk form.
func UniqueSlugAmong(base string, taken []string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	base = Slugify(base, maxLen)

	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for i := 2; i < 10000; i++ {
		suffix := fmt.Sprintf("-%d", i)
		cand := trimForSuffix(base, suffix, maxLen) + suffix
		if _, ok := used[cand]; !ok {
			return cand
		}
	}
	return base
}

// trimForSuffix memotong base agar base+suffix <= maxLen, lalu trim '-' di ujung.
func trimForSuffix(base, suffix string, maxLen int) string {
	if maxLen <= 0 {
		return base
	}
	need := len(suffix)
	if need >= maxLen {
		return "x"
	}
	rs := []rune(base)
	keep := maxLen - need
	if len(rs) > keep {
		rs = rs[:keep]
	}
	out := strings.Trim(string(rs), "-")
	if out == "" {
		out = "x"
	}
	return out
}
