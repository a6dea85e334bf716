package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"masjidku_dashboard/internals/features/finance/invoices/dto"
)

/* =========================================================
   Midtrans Client
========================================================= */

// SnapCreator dipenuhi *snap.Client; di test diganti fake.
type SnapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

var ErrMidtransDisabled = errors.New("pembayaran online belum dikonfigurasi")

type PaymentLinkService struct {
	Snap SnapCreator
	now  func() time.Time
}

// NewPaymentLinkService: serverKey kosong → service tetap ada tapi menolak semua permintaan.
// useProduction=true untuk Production, false untuk Sandbox.
func NewPaymentLinkService(serverKey string, useProduction bool) *PaymentLinkService {
	s := &PaymentLinkService{now: time.Now}
	if strings.TrimSpace(serverKey) == "" {
		return s
	}
	var client snap.Client
	if useProduction {
		client.New(serverKey, midtrans.Production)
	} else {
		client.New(serverKey, midtrans.Sandbox)
	}
	s.Snap = &client
	return s
}

func (s *PaymentLinkService) Enabled() bool { return s != nil && s.Snap != nil }

/*
	=========================================================
	  Generate Snap Token untuk sisa tagihan
	=========================================================
*/
func (s *PaymentLinkService) Create(inv dto.Invoice, cust dto.PaymentLinkRequest) (dto.PaymentLinkResponse, error) {
	if !s.Enabled() {
		return dto.PaymentLinkResponse{}, ErrMidtransDisabled
	}
	remaining := Remaining(inv.Amount.Float(), inv.PaidAmount.Float())
	if remaining <= 0 {
		return dto.PaymentLinkResponse{}, errors.New("tagihan sudah lunas")
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}

	orderID := fmt.Sprintf("INV-%s-%d", shortID(inv.ID), now().Unix())
	gross := int64(remaining)
	name := defaultString(cust.CustomerName, inv.StudentName)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: cust.CustomerEmail,
			Phone: cust.CustomerPhone,
		},
		CustomField1: truncate(inv.ID, 40),
		Items: &[]midtrans.ItemDetails{
			{
				ID:       truncate(inv.ID, 50),
				Price:    gross,
				Qty:      1,
				Name:     truncate(defaultString(inv.Title, "Tagihan Sekolah"), 50),
				Category: "SPP",
			},
		},
	}

	resp, merr := s.Snap.CreateTransaction(req)
	if merr != nil {
		return dto.PaymentLinkResponse{}, fmt.Errorf("midtrans: %s", merr.Message)
	}
	return dto.PaymentLinkResponse{
		OrderID:     orderID,
		Amount:      remaining,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

/* =========================================================
   Utils
========================================================= */

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	return truncate(id, 8)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func defaultString(s string, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
