package dto

import (
	helper "masjidku_dashboard/internals/helpers"
)

type MasjidProfile struct {
	ID        string         `json:"id"`
	Slug      string         `json:"slug"`
	Name      string         `json:"name"`
	BioShort  string         `json:"bio_short"`
	Location  string         `json:"location"`
	Latitude  *helper.Number `json:"latitude"`
	Longitude *helper.Number `json:"longitude"`
	GmapsURL  string         `json:"gmaps_url"`
	Domain    string         `json:"domain"`
	ImageURL  string         `json:"image_url"`

	Instagram string `json:"instagram"`
	Whatsapp  string `json:"whatsapp"`
	Youtube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
	Tiktok    string `json:"tiktok"`
	Telegram  string `json:"telegram"`
}

// ProfileFormKeys: field yang boleh diubah lewat PATCH /d/profile.
var ProfileFormKeys = []string{
	"name", "bio_short", "location",
	"latitude", "longitude", "gmaps_url",
	"domain", "image_url",
	"instagram", "whatsapp", "youtube", "facebook", "tiktok", "telegram",
}

// SosmedKeys sesuai urutan tampil di linktree.
var SosmedKeys = []string{
	helper.SosmedWhatsapp,
	helper.SosmedInstagram,
	helper.SosmedYoutube,
	helper.SosmedFacebook,
	helper.SosmedTiktok,
	helper.SosmedTelegram,
}

type Link struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

type ProfileValidation struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors"`
	Values map[string]string   `json:"values"`
	Links  []Link              `json:"links"`
}

type PublicMasjid struct {
	Masjid  MasjidProfile `json:"masjid"`
	Links   []Link        `json:"links"`
	MapsURL string        `json:"maps_url"`
	CanEdit bool          `json:"can_edit"`
}
