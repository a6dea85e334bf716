package helper

import (
	"strings"
)

const (
	SosmedWhatsapp  = "whatsapp"
	SosmedInstagram = "instagram"
	SosmedYoutube   = "youtube"
	SosmedFacebook  = "facebook"
	SosmedTiktok    = "tiktok"
	SosmedTelegram  = "telegram"
	SosmedEmail     = "email"
	SosmedWebsite   = "website"
)

var sosmedBase = map[string]string{
	SosmedInstagram: "https://instagram.com/",
	SosmedYoutube:   "https://youtube.com/@",
	SosmedFacebook:  "https://facebook.com/",
	SosmedTiktok:    "https://www.tiktok.com/@",
	SosmedTelegram:  "https://t.me/",
}

// BuildSosmedURL membuat link publik dari handle/nomor yang diisi admin.
//
//	BuildSosmedURL("whatsapp", "0812345")       → "https://wa.me/62812345"
//	BuildSosmedURL("instagram", "@masjid")      → "https://instagram.com/masjid"
//	BuildSosmedURL("youtube", "https://...")    → tidak diubah
func BuildSosmedURL(kind, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return v
	}

	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case SosmedWhatsapp:
		return "https://wa.me/" + NormalizeWhatsappNumber(v)
	case SosmedEmail:
		return "mailto:" + v
	case SosmedWebsite:
		return "https://" + strings.TrimPrefix(v, "//")
	}

	// "instagram.com/xxx" tanpa skema
	if strings.Contains(lower, ".com/") || strings.HasPrefix(lower, "www.") || strings.HasPrefix(lower, "t.me/") {
		return "https://" + v
	}

	base, ok := sosmedBase[kind]
	if !ok {
		return v
	}
	return base + strings.TrimPrefix(v, "@")
}

// NormalizeWhatsappNumber: buang non-digit, awalan 0 → 62.
func NormalizeWhatsappNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") {
		digits = "62" + strings.TrimPrefix(digits, "0")
	}
	return digits
}
