package service

import (
	"math"
	"strings"
	"time"

	"masjidku_dashboard/internals/features/finance/invoices/dto"
	helper "masjidku_dashboard/internals/helpers"
)

// DeriveStatus: status tagihan bila upstream tidak mengirimnya.
// Lunas bila paid >= amount; sebagian bila ada pembayaran; jatuh tempo lewat (sebelum hari ini) → overdue.
func DeriveStatus(amount, paid float64, due time.Time, now time.Time) string {
	switch {
	case amount > 0 && paid >= amount:
		return dto.StatusPaid
	case paid > 0:
		return dto.StatusPartial
	case !due.IsZero() && due.In(helper.WIB).Before(startOfDay(now)):
		return dto.StatusOverdue
	default:
		return dto.StatusUnpaid
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.In(helper.WIB)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, helper.WIB)
}

func Remaining(amount, paid float64) float64 {
	return math.Max(amount-paid, 0)
}

// Normalize melengkapi field turunan: paid_amount dari riwayat, status, remaining.
func Normalize(inv dto.Invoice, now time.Time) dto.Invoice {
	if inv.PaidAmount == 0 && len(inv.Payments) > 0 {
		var sum float64
		for _, p := range inv.Payments {
			sum += p.Amount.Float()
		}
		inv.PaidAmount = helper.Number(sum)
	}
	if inv.Payments == nil {
		inv.Payments = []dto.Payment{}
	}
	inv.Status = strings.ToLower(strings.TrimSpace(inv.Status))
	if !isKnownStatus(inv.Status) {
		inv.Status = DeriveStatus(inv.Amount.Float(), inv.PaidAmount.Float(), inv.DueDate.Time, now)
	}
	inv.Remaining = helper.Number(Remaining(inv.Amount.Float(), inv.PaidAmount.Float()))
	return inv
}

func NormalizeAll(items []dto.Invoice, now time.Time) []dto.Invoice {
	out := make([]dto.Invoice, len(items))
	for i, it := range items {
		out[i] = Normalize(it, now)
	}
	return out
}

func isKnownStatus(s string) bool {
	for _, st := range dto.Statuses {
		if s == st {
			return true
		}
	}
	return false
}

func Summarize(items []dto.Invoice) dto.Summary {
	s := dto.Summary{ByStatus: map[string]dto.StatusBucket{}}
	for _, st := range dto.Statuses {
		s.ByStatus[st] = dto.StatusBucket{}
	}
	for _, it := range items {
		s.TotalInvoices++
		s.TotalAmount += it.Amount.Float()
		s.TotalPaid += it.PaidAmount.Float()
		s.TotalRemaining += it.Remaining.Float()

		b := s.ByStatus[it.Status]
		b.Count++
		b.Amount += it.Amount.Float()
		s.ByStatus[it.Status] = b
	}
	if s.TotalAmount > 0 {
		s.CollectionRate = math.Round(math.Min(s.TotalPaid/s.TotalAmount, 1)*10000) / 100
	}
	s.TotalAmountFmt = helper.FormatRupiah(s.TotalAmount)
	s.TotalPaidFmt = helper.FormatRupiah(s.TotalPaid)
	return s
}

var statusLabel = map[string]string{
	dto.StatusUnpaid:  "Belum Bayar",
	dto.StatusPartial: "Sebagian",
	dto.StatusPaid:    "Lunas",
	dto.StatusOverdue: "Terlambat",
}

func StatusLabel(s string) string {
	if l, ok := statusLabel[s]; ok {
		return l
	}
	return s
}

var ExportColumns = []helper.ExportColumn{
	{Key: "title", Label: "Tagihan"},
	{Key: "student_name", Label: "Siswa"},
	{Key: "class_name", Label: "Kelas"},
	{Key: "due_date", Label: "Jatuh Tempo"},
	{Key: "amount", Label: "Nominal"},
	{Key: "paid_amount", Label: "Dibayar"},
	{Key: "remaining", Label: "Sisa"},
	{Key: "status", Label: "Status"},
}

func ExportRows(items []dto.Invoice) []helper.ExportRow {
	rows := make([]helper.ExportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, helper.ExportRow{
			"title":        it.Title,
			"student_name": it.StudentName,
			"class_name":   it.ClassName,
			"due_date":     it.DueDate,
			"amount":       it.Amount,
			"paid_amount":  it.PaidAmount,
			"remaining":    it.Remaining,
			"status":       StatusLabel(it.Status),
		})
	}
	return rows
}
