package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidku_dashboard/internals/features/masjids/masjids/dto"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/formstate"
)

func hasAll(string) bool { return true }

func TestNormalize_FillsCoordinatesFromGmaps(t *testing.T) {
	out := Normalize(map[string]string{
		"domain":    " https://www.AlIkhlas.sch.id/ ",
		"gmaps_url": "https://www.google.com/maps/place/Masjid/@-7.9412,112.6228,17z",
		"latitude":  "",
		"longitude": "",
	}, hasAll)

	assert.Equal(t, "alikhlas.sch.id", out["domain"])
	assert.Equal(t, "-7.9412", out["latitude"])
	assert.Equal(t, "112.6228", out["longitude"])
}

func TestNormalize_KeepsExplicitCoordinates(t *testing.T) {
	out := Normalize(map[string]string{
		"gmaps_url": "https://www.google.com/maps/@-7.9,112.6,17z",
		"latitude":  "-6.2",
	}, func(k string) bool { return k != "domain" })

	assert.Equal(t, "-6.2", out["latitude"])
	assert.Empty(t, out["longitude"])
	assert.NotContains(t, out, "domain")
}

func TestRules(t *testing.T) {
	f := Rules(formstate.New(map[string]string{
		"name":      "",
		"latitude":  "-7.9",
		"domain":    "bukan domain",
		"instagram": "@alikhlas",
		"gmaps_url": "https://maps.google.com/?q=Masjid",
	}), true)

	errs := f.Errors()
	assert.Contains(t, errs, "name")
	assert.Equal(t, []string{"Latitude dan longitude harus diisi berpasangan"}, errs["latitude"])
	assert.Contains(t, errs, "domain")
	assert.Contains(t, errs, "gmaps_url")
	assert.NotContains(t, errs, "instagram")

	// tanpa name (PATCH sebagian) field name tidak diwajibkan
	f = Rules(formstate.New(map[string]string{"bio_short": "Masjid kampus"}), false)
	assert.True(t, f.Valid())
}

func num(v float64) *helper.Number {
	n := helper.Number(v)
	return &n
}

func TestLinktree_Order(t *testing.T) {
	links := Linktree(dto.MasjidProfile{
		Domain:    "alikhlas.sch.id",
		Instagram: "@alikhlas",
		Whatsapp:  "0812345",
		Telegram:  "alikhlas",
		Latitude:  num(-7.9412),
		Longitude: num(112.6228),
	})

	kinds := make([]string, len(links))
	for i, l := range links {
		kinds[i] = l.Kind
	}
	assert.Equal(t, []string{"website", "whatsapp", "instagram", "telegram", "maps"}, kinds)
	assert.Equal(t, "https://alikhlas.sch.id", links[0].URL)
	assert.Equal(t, "https://wa.me/62812345", links[1].URL)
	assert.Equal(t, "WhatsApp", links[1].Label)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=-7.9412,112.6228", links[4].URL)
}

func TestLinktree_SkipsInvalidDomainAndEmpty(t *testing.T) {
	links := Linktree(dto.MasjidProfile{Domain: "bukan domain"})
	assert.Empty(t, links)
	assert.NotNil(t, links)
}

func TestMapsURL_PrefersOriginalLink(t *testing.T) {
	p := dto.MasjidProfile{GmapsURL: " https://goo.gl/maps/abc ", Latitude: num(1), Longitude: num(2)}
	assert.Equal(t, "https://goo.gl/maps/abc", MapsURL(p))
	assert.Empty(t, MapsURL(dto.MasjidProfile{}))
}

func TestApplyValuesAndUpstreamBody(t *testing.T) {
	p := ApplyValues(dto.MasjidProfile{Name: "Lama"}, map[string]string{"name": "Baru", "latitude": "-7.5", "longitude": "110"})
	assert.Equal(t, "Baru", p.Name)
	require.NotNil(t, p.Latitude)
	assert.Equal(t, -7.5, p.Latitude.Float())

	body := UpstreamBody(map[string]string{"name": "Baru", "latitude": "", "longitude": "110.5"})
	assert.Equal(t, "Baru", body["name"])
	assert.Nil(t, body["latitude"])
	assert.Contains(t, body, "latitude")
	assert.Equal(t, 110.5, body["longitude"])
}
