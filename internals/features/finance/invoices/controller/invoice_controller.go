// internals/features/finance/invoices/controller/invoice_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/configs"
	"masjidku_dashboard/internals/features/finance/invoices/dto"
	"masjidku_dashboard/internals/features/finance/invoices/service"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/helpers/upstream"
	"masjidku_dashboard/internals/seeds"
)

const EndpointInvoices = "/api/a/invoices"

type InvoiceController struct {
	Kit      *shared.Kit
	Payments *service.PaymentLinkService
	now      func() time.Time
}

func NewInvoiceController(kit *shared.Kit, payments *service.PaymentLinkService) *InvoiceController {
	return &InvoiceController{Kit: kit, Payments: payments, now: time.Now}
}

var invoiceSorters = listfilter.Sorters[dto.Invoice]{
	"due_date": func(desc bool) func(a, b dto.Invoice) bool {
		return listfilter.ByTime(func(i dto.Invoice) *time.Time { return i.DueDate.Ptr() }, desc)
	},
	"amount": func(desc bool) func(a, b dto.Invoice) bool {
		return listfilter.ByNumber(func(i dto.Invoice) float64 { return i.Amount.Float() }, desc)
	},
	"remaining": func(desc bool) func(a, b dto.Invoice) bool {
		return listfilter.ByNumber(func(i dto.Invoice) float64 { return i.Remaining.Float() }, desc)
	},
	"student_name": func(desc bool) func(a, b dto.Invoice) bool {
		return listfilter.ByString(func(i dto.Invoice) string { return i.StudentName }, desc)
	},
	"title": func(desc bool) func(a, b dto.Invoice) bool {
		return listfilter.ByString(func(i dto.Invoice) string { return i.Title }, desc)
	},
	"status": func(desc bool) func(a, b dto.Invoice) bool {
		return listfilter.ByString(func(i dto.Invoice) string { return i.Status }, desc)
	},
}

func criteria(c *fiber.Ctx, p helper.Params) listfilter.Criteria[dto.Invoice] {
	from, to := shared.DateRange(c)
	return listfilter.Criteria[dto.Invoice]{
		Query: c.Query("q"),
		SearchFields: func(i dto.Invoice) []string {
			return []string{i.Title, i.StudentName, i.ClassName}
		},
		Equals: []listfilter.Equality[dto.Invoice]{
			{Value: c.Query("status"), Field: func(i dto.Invoice) string { return i.Status }},
			{Value: c.Query("class_id"), Field: func(i dto.Invoice) string { return i.ClassID }},
			{Value: c.Query("student_id"), Field: func(i dto.Invoice) string { return i.StudentID }},
		},
		DateFrom: from,
		DateTo:   to,
		DateOf:   func(i dto.Invoice) *time.Time { return i.DueDate.Ptr() },
		Less:     invoiceSorters.Pick(p.SortBy, p.Desc()),
	}
}

func (h *InvoiceController) load(c *fiber.Ctx) (shared.ListResult[dto.Invoice], error) {
	res, err := shared.LoadList(c, h.Kit, EndpointInvoices, shared.UpstreamParams(nil), seeds.Loader[dto.Invoice]("invoices"))
	if err != nil {
		return res, err
	}
	res.Items = service.NormalizeAll(res.Items, h.now())
	return res, nil
}

// ===================== LIST =====================
// GET /d/invoices?q=&status=&class_id=&from=&to=&sort=due_date_desc&page=&per_page=
func (h *InvoiceController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "due_date", "desc", helper.DefaultOpts)

	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return shared.RespondList(c, "ok", res, criteria(c, p), p)
}

// ===================== SUMMARY =====================
// GET /d/invoices/summary (filter sama dengan list, tanpa paging)
func (h *InvoiceController) Summary(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "due_date", "desc", helper.DefaultOpts)

	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	items := listfilter.Apply(res.Items, criteria(c, p))
	sum := service.Summarize(items)
	sum.Truncated = res.Truncated
	return helper.JsonOK(c, "ok", sum)
}

// ===================== EXPORT =====================
// GET /d/invoices/export.csv | /d/invoices/export.xlsx
func (h *InvoiceController) ExportCSV(c *fiber.Ctx) error {
	items, err := h.exportItems(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SendCSV(c, "tagihan", service.ExportColumns, service.ExportRows(items))
}

func (h *InvoiceController) ExportXLSX(c *fiber.Ctx) error {
	items, err := h.exportItems(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SendXLSX(c, "tagihan", service.ExportColumns, service.ExportRows(items))
}

func (h *InvoiceController) exportItems(c *fiber.Ctx) ([]dto.Invoice, error) {
	p := helper.ParseFiber(c, "due_date", "desc", helper.ExportOpts)
	res, err := h.load(c)
	if err != nil {
		return nil, err
	}
	if err := shared.ExportableList(res); err != nil {
		return nil, err
	}
	return listfilter.Apply(res.Items, criteria(c, p)), nil
}

// ===================== DETAIL =====================
// GET /d/invoices/:id
func (h *InvoiceController) Detail(c *fiber.Ctx) error {
	inv, err := h.detail(c, c.Params("id"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", inv)
}

func (h *InvoiceController) detail(c *fiber.Ctx, id string) (dto.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.Invoice{}, fiber.NewError(fiber.StatusBadRequest, "id wajib diisi")
	}

	switch h.Kit.Dummy {
	case configs.DummyAlways:
		return h.fixtureDetail(id)
	case configs.DummyFallback:
		inv, err := h.upstreamDetail(c, id)
		var fe *fiber.Error
		if err != nil && !errors.As(err, &fe) && !errors.Is(err, context.Canceled) {
			log.Printf("[DUMMY] detail tagihan %s gagal (%v), pakai data contoh", id, err)
			return h.fixtureDetail(id)
		}
		return inv, err
	}
	return h.upstreamDetail(c, id)
}

func (h *InvoiceController) fixtureDetail(id string) (dto.Invoice, error) {
	for _, it := range seeds.Load[dto.Invoice]("invoices") {
		if it.ID == id {
			return service.Normalize(it, h.now()), nil
		}
	}
	return dto.Invoice{}, fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
}

func (h *InvoiceController) upstreamDetail(c *fiber.Ctx, id string) (dto.Invoice, error) {
	body, err := h.Kit.Client.Do(c.UserContext(), http.MethodGet, EndpointInvoices+"/"+url.PathEscape(id), nil, nil, upstream.CredentialsFromFiber(c))
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return dto.Invoice{}, fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return dto.Invoice{}, err
	}
	obj, err := upstream.UnwrapObject(body)
	if err != nil {
		return dto.Invoice{}, &upstream.APIError{Status: fiber.StatusBadGateway, Message: err.Error(), Err: err}
	}
	inv, err := upstream.Convert[dto.Invoice](obj)
	if err != nil {
		return dto.Invoice{}, &upstream.APIError{Status: fiber.StatusBadGateway, Message: "format tagihan tidak dikenali", Err: err}
	}
	return service.Normalize(inv, h.now()), nil
}

// ===================== CREATE =====================
// POST /d/invoices
func (h *InvoiceController) Create(c *fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	due, err := helper.ParseDate(req.DueDate)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"due_date": {"Format tanggal tidak valid"}})
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity: "invoice",
		Action: mutation.ActionCreate,
		Method: http.MethodPost,
		Path:   EndpointInvoices,
		Body: fiber.Map{
			"title":      strings.TrimSpace(req.Title),
			"student_id": req.StudentID,
			"class_id":   req.ClassID,
			"due_date":   due.Format("2006-01-02"),
			"amount":     req.Amount,
		},
		Invalidate: []string{EndpointInvoices},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Tagihan berhasil dibuat", shared.MutationData(res))
}

// ===================== UPDATE =====================
// PATCH /d/invoices/:id
func (h *InvoiceController) Update(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req dto.UpdateInvoiceRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	if req.Empty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada perubahan")
	}

	body := fiber.Map{}
	if req.Title != nil {
		body["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Amount != nil {
		body["amount"] = *req.Amount
	}
	if req.DueDate != nil {
		due, err := helper.ParseDate(*req.DueDate)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"due_date": {"Format tanggal tidak valid"}})
		}
		body["due_date"] = due.Format("2006-01-02")
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "invoice",
		Action:     mutation.ActionUpdate,
		EntityID:   id,
		Method:     http.MethodPatch,
		Path:       EndpointInvoices + "/" + url.PathEscape(id),
		Body:       body,
		Invalidate: []string{EndpointInvoices},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointInvoices,
			ID:       id,
			Patch: func(item map[string]any) map[string]any {
				for k, v := range body {
					item[k] = v
				}
				return item
			},
		},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan diperbarui", shared.MutationData(res))
}

// ===================== DELETE =====================
// DELETE /d/invoices/:id
func (h *InvoiceController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "invoice",
		Action:     mutation.ActionDelete,
		EntityID:   id,
		Method:     http.MethodDelete,
		Path:       EndpointInvoices + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointInvoices},
		Optimistic: &mutation.Optimistic{Endpoint: EndpointInvoices, ID: id, Remove: true},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Tagihan dihapus", shared.MutationData(res))
}

// ===================== PAYMENTS =====================
// POST /d/invoices/:id/payments
func (h *InvoiceController) AddPayment(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req dto.CreatePaymentRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	paidAt := h.now()
	if strings.TrimSpace(req.PaidAt) != "" {
		t, err := helper.ParseDate(req.PaidAt)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"paid_at": {"Format tanggal tidak valid"}})
		}
		paidAt = t
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:   "invoice_payment",
		Action:   mutation.ActionPay,
		EntityID: id,
		Method:   http.MethodPost,
		Path:     EndpointInvoices + "/" + url.PathEscape(id) + "/payments",
		Body: fiber.Map{
			"amount":  req.Amount,
			"method":  req.Method,
			"paid_at": paidAt.Format(time.RFC3339),
			"note":    strings.TrimSpace(req.Note),
		},
		Invalidate: []string{EndpointInvoices},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointInvoices,
			ID:       id,
			Patch:    func(item map[string]any) map[string]any { return applyPayment(item, req.Amount) },
		},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Pembayaran dicatat", shared.MutationData(res))
}

// applyPayment: patch lokal paid_amount + status sebelum upstream menjawab.
func applyPayment(item map[string]any, amount float64) map[string]any {
	paid := toFloat(item["paid_amount"]) + amount
	total := toFloat(item["amount"])
	item["paid_amount"] = paid
	item["remaining"] = service.Remaining(total, paid)
	if total > 0 && paid >= total {
		item["status"] = dto.StatusPaid
	} else {
		item["status"] = dto.StatusPartial
	}
	return item
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	}
	return 0
}

// ===================== PAYMENT LINK =====================
// POST /d/invoices/:id/payment-link
func (h *InvoiceController) PaymentLink(c *fiber.Ctx) error {
	var req dto.PaymentLinkRequest
	if len(c.Body()) > 0 {
		if handled, err := h.Kit.BindAndValidate(c, &req); handled {
			return err
		}
	}
	if !h.Payments.Enabled() {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, service.ErrMidtransDisabled.Error())
	}

	inv, err := h.detail(c, c.Params("id"))
	if err != nil {
		return helper.FromError(c, err)
	}
	if inv.Status == dto.StatusPaid || inv.Remaining.Float() <= 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Tagihan sudah lunas")
	}

	link, err := h.Payments.Create(inv, req)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	}
	return helper.JsonCreated(c, "Link pembayaran dibuat", link)
}
