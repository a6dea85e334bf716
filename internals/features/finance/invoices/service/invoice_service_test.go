package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"masjidku_dashboard/internals/features/finance/invoices/dto"
	helper "masjidku_dashboard/internals/helpers"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, helper.WIB)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, helper.WIB)
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name         string
		amount, paid float64
		due          time.Time
		want         string
	}{
		{"lunas", 100, 100, date(2025, 1, 1), dto.StatusPaid},
		{"lebih bayar", 100, 150, time.Time{}, dto.StatusPaid},
		{"sebagian walau lewat", 100, 40, date(2025, 1, 1), dto.StatusPartial},
		{"lewat jatuh tempo", 100, 0, date(2025, 3, 9), dto.StatusOverdue},
		{"jatuh tempo hari ini", 100, 0, date(2025, 3, 10), dto.StatusUnpaid},
		{"tanpa jatuh tempo", 100, 0, time.Time{}, dto.StatusUnpaid},
		{"nominal nol", 0, 0, time.Time{}, dto.StatusUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.amount, tc.paid, tc.due, now))
		})
	}
}

func TestNormalize_DerivesPaidFromPayments(t *testing.T) {
	inv := Normalize(dto.Invoice{
		ID:     "inv-1",
		Amount: 300000,
		Payments: []dto.Payment{
			{Amount: 100000}, {Amount: 50000},
		},
	}, now)

	assert.Equal(t, helper.Number(150000), inv.PaidAmount)
	assert.Equal(t, helper.Number(150000), inv.Remaining)
	assert.Equal(t, dto.StatusPartial, inv.Status)
}

func TestNormalize_KeepsKnownStatus(t *testing.T) {
	inv := Normalize(dto.Invoice{Amount: 100, Status: " PAID "}, now)
	assert.Equal(t, dto.StatusPaid, inv.Status)
	assert.NotNil(t, inv.Payments)

	inv = Normalize(dto.Invoice{Amount: 100, Status: "pending", DueDate: helper.Date{Time: date(2025, 1, 1)}}, now)
	assert.Equal(t, dto.StatusOverdue, inv.Status)
}

func TestRemaining_NeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, Remaining(100, 250))
	assert.Equal(t, 60.0, Remaining(100, 40))
}

func TestSummarize(t *testing.T) {
	items := NormalizeAll([]dto.Invoice{
		{Amount: 100000, PaidAmount: 100000},
		{Amount: 200000, PaidAmount: 50000},
		{Amount: 100000, DueDate: helper.Date{Time: date(2025, 2, 1)}},
	}, now)

	s := Summarize(items)
	assert.Equal(t, 3, s.TotalInvoices)
	assert.Equal(t, 400000.0, s.TotalAmount)
	assert.Equal(t, 150000.0, s.TotalPaid)
	assert.Equal(t, 250000.0, s.TotalRemaining)
	assert.Equal(t, 37.5, s.CollectionRate)
	assert.Equal(t, "Rp 400.000", s.TotalAmountFmt)
	assert.Equal(t, 1, s.ByStatus[dto.StatusPaid].Count)
	assert.Equal(t, 1, s.ByStatus[dto.StatusPartial].Count)
	assert.Equal(t, 1, s.ByStatus[dto.StatusOverdue].Count)
	assert.Equal(t, dto.StatusBucket{}, s.ByStatus[dto.StatusUnpaid])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.CollectionRate)
	assert.Len(t, s.ByStatus, len(dto.Statuses))
}

func TestExportRows_UsesLabels(t *testing.T) {
	rows := ExportRows([]dto.Invoice{{Title: "SPP Maret", Status: dto.StatusOverdue, Amount: 150000}})
	out := helper.ExportCSV(ExportColumns, rows)
	assert.Equal(t,
		"Tagihan,Siswa,Kelas,Jatuh Tempo,Nominal,Dibayar,Sisa,Status\n"+
			`"SPP Maret","","","","150000","0","0","Terlambat"`, out)
}
