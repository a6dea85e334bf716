package helper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalFlexible(t *testing.T) {
	var v struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
		D Date `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a":"2025-01-02","b":"2025-01-02T10:00:00+07:00","c":null,"d":""}`), &v)
	require.NoError(t, err)

	assert.Equal(t, 2025, v.A.Year())
	assert.Equal(t, time.January, v.A.Month())
	assert.Equal(t, 10, v.B.In(WIB).Hour())
	assert.True(t, v.C.IsZero())
	assert.Nil(t, v.D.Ptr())
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"kemarin"`), &d))
}

func TestDate_Marshal(t *testing.T) {
	raw, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	raw, err = json.Marshal(Date{time.Date(2025, 1, 2, 0, 0, 0, 0, WIB)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02T00:00:00+07:00"`, string(raw))
}

func TestNumber_UnmarshalStringOrNumber(t *testing.T) {
	var v struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"150000.50","b":75000,"c":null}`), &v))
	assert.InDelta(t, 150000.5, v.A.Float(), 1e-9)
	assert.InDelta(t, 75000, v.B.Float(), 1e-9)
	assert.Zero(t, v.C.Float())
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 1.500.000", FormatRupiah(1500000))
	assert.Equal(t, "Rp 999", FormatRupiah(999))
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "-Rp 25.000", FormatRupiah(-25000))
}

func TestFormatTanggal(t *testing.T) {
	d := time.Date(2025, 3, 7, 9, 5, 0, 0, WIB)
	assert.Equal(t, "7 Maret 2025", FormatTanggal(d))
	assert.Equal(t, "7 Maret 2025 09:05 WIB", FormatTanggalJam(d))
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2025, 3, 7, 9, 5, 0, 0, WIB)
	e := EndOfDay(d)
	assert.Equal(t, 23, e.Hour())
	assert.Equal(t, 59, e.Second())
	assert.Equal(t, 7, e.Day())
}
