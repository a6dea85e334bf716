package helper

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var (
	// .../@-7.1234,112.6543,17z
	reGmapsAt = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),\s*(-?\d+(?:\.\d+)?)`)
	// ...!3d-7.1234!4d112.6543
	reGmaps3d4d = regexp.MustCompile(`!3d(-?\d+(?:\.\d+)?)!4d(-?\d+(?:\.\d+)?)`)
	// "lat,lon" di query (?q= / ?ll= / ?query= / ?center=)
	reLatLonPair = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)
)

// ExtractLatLngFromGmaps membaca koordinat dari URL Google Maps.
// Urutan: pola "@lat,lon", pola "!3d..!4d..", lalu query q/ll/query/center.
// Mengembalikan nil kalau tidak ketemu atau di luar rentang.
func ExtractLatLngFromGmaps(raw string) *LatLng {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if m := reGmapsAt.FindStringSubmatch(raw); m != nil {
		if ll := parseLatLng(m[1], m[2]); ll != nil {
			return ll
		}
	}
	if m := reGmaps3d4d.FindStringSubmatch(raw); m != nil {
		if ll := parseLatLng(m[1], m[2]); ll != nil {
			return ll
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	q := u.Query()
	for _, k := range []string{"q", "ll", "query", "center", "destination"} {
		if m := reLatLonPair.FindStringSubmatch(q.Get(k)); m != nil {
			if ll := parseLatLng(m[1], m[2]); ll != nil {
				return ll
			}
		}
	}
	return nil
}

func parseLatLng(latS, lonS string) *LatLng {
	lat, err1 := strconv.ParseFloat(latS, 64)
	lon, err2 := strconv.ParseFloat(lonS, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	if !IsLatitude(lat) || !IsLongitude(lon) {
		return nil
	}
	return &LatLng{Lat: lat, Lon: lon}
}

func IsLatitude(v float64) bool  { return v >= -90 && v <= 90 }
func IsLongitude(v float64) bool { return v >= -180 && v <= 180 }

// GmapsURLFromLatLng membuat link Maps untuk halaman publik.
func GmapsURLFromLatLng(ll LatLng) string {
	return "https://www.google.com/maps/search/?api=1&query=" +
		strconv.FormatFloat(ll.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(ll.Lon, 'f', -1, 64)
}
