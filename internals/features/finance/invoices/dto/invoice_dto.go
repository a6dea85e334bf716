package dto

import (
	helper "masjidku_dashboard/internals/helpers"
)

const (
	StatusUnpaid  = "unpaid"
	StatusPartial = "partial"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

var Statuses = []string{StatusUnpaid, StatusPartial, StatusPaid, StatusOverdue}

/* =========================================================
   RESPONSE (bentuk yang dikirim ke halaman)
========================================================= */

type Payment struct {
	ID     string        `json:"id"`
	Amount helper.Number `json:"amount"`
	Method string        `json:"method"`
	PaidAt helper.Date   `json:"paid_at"`
	Note   string        `json:"note,omitempty"`
}

type Invoice struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	StudentID   string        `json:"student_id"`
	StudentName string        `json:"student_name"`
	ClassID     string        `json:"class_id"`
	ClassName   string        `json:"class_name"`
	DueDate     helper.Date   `json:"due_date"`
	Amount      helper.Number `json:"amount"`
	PaidAmount  helper.Number `json:"paid_amount"`
	Status      string        `json:"status"`
	Remaining   helper.Number `json:"remaining"`
	Payments    []Payment     `json:"payments"`
}

type StatusBucket struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type Summary struct {
	TotalInvoices  int                     `json:"total_invoices"`
	TotalAmount    float64                 `json:"total_amount"`
	TotalPaid      float64                 `json:"total_paid"`
	TotalRemaining float64                 `json:"total_remaining"`
	CollectionRate float64                 `json:"collection_rate"` // persen 0..100
	ByStatus       map[string]StatusBucket `json:"by_status"`
	TotalAmountFmt string                  `json:"total_amount_fmt"`
	TotalPaidFmt   string                  `json:"total_paid_fmt"`
	// Truncated: upstream punya lebih banyak tagihan daripada yang terbaca; angka di atas belum lengkap
	Truncated bool `json:"truncated"`
}

/* =========================================================
   REQUEST
========================================================= */

type CreateInvoiceRequest struct {
	Title     string  `json:"title" validate:"required,max=150"`
	StudentID string  `json:"student_id" validate:"required"`
	ClassID   string  `json:"class_id"`
	DueDate   string  `json:"due_date" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

type UpdateInvoiceRequest struct {
	Title   *string  `json:"title" validate:"omitempty,max=150"`
	DueDate *string  `json:"due_date"`
	Amount  *float64 `json:"amount" validate:"omitempty,gt=0"`
}

func (r UpdateInvoiceRequest) Empty() bool {
	return r.Title == nil && r.DueDate == nil && r.Amount == nil
}

type CreatePaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=cash transfer qris midtrans other"`
	PaidAt string  `json:"paid_at"`
	Note   string  `json:"note" validate:"max=255"`
}

type PaymentLinkRequest struct {
	CustomerName  string `json:"customer_name" validate:"max=100"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string `json:"customer_phone" validate:"max=20"`
}

type PaymentLinkResponse struct {
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	Token       string  `json:"token"`
	RedirectURL string  `json:"redirect_url"`
}
