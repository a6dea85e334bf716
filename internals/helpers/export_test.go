package helper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testColumns = []ExportColumn{
	{Key: "name", Label: "Nama"},
	{Key: "amount", Label: "Nominal"},
	{Key: "due", Label: "Jatuh Tempo"},
}

func TestExportCSV_HeaderThenQuotedRows(t *testing.T) {
	due := time.Date(2025, 1, 15, 0, 0, 0, 0, WIB)
	out := ExportCSV(testColumns, []ExportRow{
		{"name": "Ahmad", "amount": Number(150000), "due": Date{due}},
		{"name": `Siti "Ais"`, "amount": 75000.0, "due": nil},
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nama,Nominal,Jatuh Tempo", lines[0])
	assert.Equal(t, `"Ahmad","150000","15 Januari 2025"`, lines[1])
	assert.Equal(t, `"Siti ""Ais""","75000",""`, lines[2])
}

func TestExportCSV_PreservesRowOrder(t *testing.T) {
	rows := []ExportRow{{"name": "c"}, {"name": "a"}, {"name": "b"}}
	out := ExportCSV([]ExportColumn{{Key: "name", Label: "Nama"}}, rows)
	assert.Equal(t, "Nama\n\"c\"\n\"a\"\n\"b\"", out)
}

func TestExportCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	assert.Equal(t, "Nama,Nominal,Jatuh Tempo", ExportCSV(testColumns, nil))
}

func TestExportXLSX(t *testing.T) {
	data, err := ExportXLSX("Tagihan", testColumns, []ExportRow{
		{"name": "Ahmad", "amount": Number(150000)},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	defer f.Close()

	head, err := f.GetCellValue("Tagihan", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Nama", head)

	name, _ := f.GetCellValue("Tagihan", "A2")
	amount, _ := f.GetCellValue("Tagihan", "B2")
	assert.Equal(t, "Ahmad", name)
	assert.Equal(t, "150000", amount)
}
