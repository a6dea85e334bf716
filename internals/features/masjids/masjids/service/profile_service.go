package service

import (
	"strconv"
	"strings"

	"masjidku_dashboard/internals/features/masjids/masjids/dto"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/formstate"
)

var linkLabels = map[string]string{
	helper.SosmedWebsite:   "Website",
	helper.SosmedWhatsapp:  "WhatsApp",
	helper.SosmedInstagram: "Instagram",
	helper.SosmedYoutube:   "YouTube",
	helper.SosmedFacebook:  "Facebook",
	helper.SosmedTiktok:    "TikTok",
	helper.SosmedTelegram:  "Telegram",
	"maps":                 "Lokasi (Google Maps)",
}

// Normalize merapikan nilai form sebelum divalidasi:
// domain tanpa skema/www, dan lat/lon diisi dari gmaps_url bila keduanya kosong.
func Normalize(values map[string]string, has func(string) bool) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = strings.TrimSpace(v)
	}
	if has("domain") {
		out["domain"] = helper.NormalizeDomain(out["domain"])
	}
	if gm := out["gmaps_url"]; gm != "" && out["latitude"] == "" && out["longitude"] == "" {
		if ll := helper.ExtractLatLngFromGmaps(gm); ll != nil {
			out["latitude"] = strconv.FormatFloat(ll.Lat, 'f', -1, 64)
			out["longitude"] = strconv.FormatFloat(ll.Lon, 'f', -1, 64)
		}
	}
	return out
}

// Rules memasang predikat form profil. requireName=true bila field name dikirim.
func Rules(f *formstate.Form, requireName bool) *formstate.Form {
	if requireName {
		f.Rule("name", formstate.Required("Nama masjid wajib diisi"), formstate.MaxLen(150))
	}
	f.Rule("bio_short", formstate.MaxLen(300)).
		Rule("location", formstate.MaxLen(300)).
		Rule("latitude", formstate.LatitudeRange(), formstate.PairedWith("longitude", "Latitude dan longitude harus diisi berpasangan")).
		Rule("longitude", formstate.LongitudeRange()).
		Rule("gmaps_url", formstate.GmapsURL()).
		Rule("domain", formstate.DomainName()).
		Rule("image_url", formstate.URL())
	for _, k := range dto.SosmedKeys {
		f.Rule(k, formstate.SosmedHandle(), formstate.MaxLen(200))
	}
	return f
}

func latLngOf(p dto.MasjidProfile) *helper.LatLng {
	if p.Latitude != nil && p.Longitude != nil {
		return &helper.LatLng{Lat: p.Latitude.Float(), Lon: p.Longitude.Float()}
	}
	return helper.ExtractLatLngFromGmaps(p.GmapsURL)
}

// MapsURL: gmaps_url asli bila ada, selain itu dibangun dari koordinat.
func MapsURL(p dto.MasjidProfile) string {
	if strings.TrimSpace(p.GmapsURL) != "" {
		return strings.TrimSpace(p.GmapsURL)
	}
	if ll := latLngOf(p); ll != nil {
		return helper.GmapsURLFromLatLng(*ll)
	}
	return ""
}

// Linktree: website → sosmed → maps; yang kosong dilewati.
func Linktree(p dto.MasjidProfile) []dto.Link {
	links := []dto.Link{}
	add := func(kind, value string) {
		if u := helper.BuildSosmedURL(kind, value); u != "" {
			links = append(links, dto.Link{Kind: kind, Label: linkLabels[kind], URL: u})
		}
	}
	if helper.IsValidDomain(helper.NormalizeDomain(p.Domain)) {
		add(helper.SosmedWebsite, helper.NormalizeDomain(p.Domain))
	}
	add(helper.SosmedWhatsapp, p.Whatsapp)
	add(helper.SosmedInstagram, p.Instagram)
	add(helper.SosmedYoutube, p.Youtube)
	add(helper.SosmedFacebook, p.Facebook)
	add(helper.SosmedTiktok, p.Tiktok)
	add(helper.SosmedTelegram, p.Telegram)
	if u := MapsURL(p); u != "" {
		links = append(links, dto.Link{Kind: "maps", Label: linkLabels["maps"], URL: u})
	}
	return links
}

// ApplyValues: nilai form (string) ke profil, untuk pratinjau linktree sebelum disimpan.
func ApplyValues(p dto.MasjidProfile, v map[string]string) dto.MasjidProfile {
	set := func(dst *string, key string) {
		if val, ok := v[key]; ok {
			*dst = val
		}
	}
	set(&p.Name, "name")
	set(&p.BioShort, "bio_short")
	set(&p.Location, "location")
	set(&p.GmapsURL, "gmaps_url")
	set(&p.Domain, "domain")
	set(&p.ImageURL, "image_url")
	set(&p.Instagram, "instagram")
	set(&p.Whatsapp, "whatsapp")
	set(&p.Youtube, "youtube")
	set(&p.Facebook, "facebook")
	set(&p.Tiktok, "tiktok")
	set(&p.Telegram, "telegram")
	if lat, err := strconv.ParseFloat(v["latitude"], 64); err == nil {
		n := helper.Number(lat)
		p.Latitude = &n
	}
	if lon, err := strconv.ParseFloat(v["longitude"], 64); err == nil {
		n := helper.Number(lon)
		p.Longitude = &n
	}
	return p
}

// UpstreamBody: lat/lon dikirim sebagai angka (null bila dikosongkan).
func UpstreamBody(fields map[string]string) map[string]any {
	body := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case "latitude", "longitude":
			if v == "" {
				body[k] = nil
				continue
			}
			f, _ := strconv.ParseFloat(v, 64)
			body[k] = f
		default:
			body[k] = v
		}
	}
	return body
}
