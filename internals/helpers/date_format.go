package helper

import (
	"fmt"
	"strings"
	"time"
)

var namaBulan = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var namaHari = [...]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// WIB: Asia/Jakarta, fallback zona tetap +7 kalau tzdata tidak ada.
var WIB = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*3600)
}()

// FormatTanggal: 2 Januari 2025
func FormatTanggal(t time.Time) string {
	t = t.In(WIB)
	return fmt.Sprintf("%d %s %d", t.Day(), namaBulan[t.Month()-1], t.Year())
}

// FormatTanggalLengkap: Kamis, 2 Januari 2025
func FormatTanggalLengkap(t time.Time) string {
	t = t.In(WIB)
	return namaHari[t.Weekday()] + ", " + FormatTanggal(t)
}

// FormatTanggalJam: 2 Januari 2025 14:05 WIB
func FormatTanggalJam(t time.Time) string {
	t = t.In(WIB)
	return fmt.Sprintf("%s %02d:%02d WIB", FormatTanggal(t), t.Hour(), t.Minute())
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate mencoba beberapa layout yang biasa dikirim backend/form.
// Tanggal tanpa zona dianggap WIB.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("tanggal kosong")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, WIB); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("format tanggal tidak dikenal: %q", s)
}

// ParseDatePtr: nil kalau kosong/tidak valid (dipakai untuk filter opsional).
func ParseDatePtr(s string) *time.Time {
	t, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// EndOfDay dipakai agar filter "sampai tanggal X" inklusif.
func EndOfDay(t time.Time) time.Time {
	t = t.In(WIB)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), WIB)
}

// Date: waktu dari JSON upstream yang formatnya tidak seragam
// ("2025-01-02", RFC3339, "2025-01-02 10:00:00", null).
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}

// Ptr: nil untuk tanggal kosong (dipakai accessor filter/sort).
func (d Date) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
