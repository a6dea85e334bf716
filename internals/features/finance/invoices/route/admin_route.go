package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	invoiceController "masjidku_dashboard/internals/features/finance/invoices/controller"
	"masjidku_dashboard/internals/features/finance/invoices/service"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares"
	"masjidku_dashboard/internals/middlewares/auth"
)

// Panggil dengan: route.InvoiceAdminRoutes(app.Group("/d"), kit, paymentLinks)
// Hasil endpoint: /d/invoices/...
func InvoiceAdminRoutes(r fiber.Router, kit *shared.Kit, payments *service.PaymentLinkService) {
	ctl := invoiceController.NewInvoiceController(kit, payments)

	// Wajib role keuangan (owner/admin/dkm/bendahara)
	financeGuard := auth.OnlyRolesSlice(
		constants.RoleErrorFinance("tagihan"),
		constants.FinanceRoles,
	)

	inv := r.Group("/invoices", financeGuard)
	inv.Get("/", ctl.List)
	inv.Get("/summary", ctl.Summary)
	inv.Get("/export.csv", middlewares.ExportRateLimiter(), ctl.ExportCSV)
	inv.Get("/export.xlsx", middlewares.ExportRateLimiter(), ctl.ExportXLSX)
	inv.Post("/", ctl.Create)
	inv.Get("/:id", ctl.Detail)
	inv.Patch("/:id", ctl.Update)
	inv.Delete("/:id", ctl.Delete)
	inv.Post("/:id/payments", ctl.AddPayment)
	inv.Post("/:id/payment-link", middlewares.SensitiveRateLimiter(), ctl.PaymentLink)
}
