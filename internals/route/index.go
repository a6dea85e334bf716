package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masjidku_dashboard/internals/constants"
	certificateRoute "masjidku_dashboard/internals/features/certificates/certificates/route"
	invoiceRoute "masjidku_dashboard/internals/features/finance/invoices/route"
	invoiceService "masjidku_dashboard/internals/features/finance/invoices/service"
	masjidRoute "masjidku_dashboard/internals/features/masjids/masjids/route"
	announcementRoute "masjidku_dashboard/internals/features/school/announcements/route"
	bookRoute "masjidku_dashboard/internals/features/school/books/route"
	classRoute "masjidku_dashboard/internals/features/school/classes/route"
	studentRoute "masjidku_dashboard/internals/features/school/students/route"
	teacherRoute "masjidku_dashboard/internals/features/school/teachers/route"
	"masjidku_dashboard/internals/features/shared"
	authRoute "masjidku_dashboard/internals/features/users/auth/route"
	"masjidku_dashboard/internals/middlewares"
	"masjidku_dashboard/internals/middlewares/auth"
)

// DashboardTimeout: batas satu request dashboard (termasuk 1x retry ke upstream).
const DashboardTimeout = 15 * time.Second

type Deps struct {
	DB       *gorm.DB
	Kit      *shared.Kit
	Payments *invoiceService.PaymentLinkService
	Auth     auth.Options
}

var startTime time.Time

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()

	BaseRoutes(app, deps)

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, deps.DB, deps.Kit, deps.Auth)

	// PUBLIC → sesi opsional (untuk can_edit)
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/public",
		auth.OptionalSession(deps.Auth),
		middlewares.RequestTimeout(DashboardTimeout),
	)
	masjidRoute.MasjidPublicRoutes(public, deps.Kit)

	// DASHBOARD → wajib sesi pengurus
	log.Println("[INFO] Setting up DASHBOARD group (SessionGuard + RoleCheck)...")
	dashOpt := deps.Auth
	dashOpt.AllowedRoles = constants.DashboardRoles
	dashOpt.ForbiddenMsg = constants.RoleErrorDashboard("dashboard")
	dash := app.Group("/d",
		auth.SessionGuard(dashOpt),
		middlewares.RequestTimeout(DashboardTimeout),
	)

	log.Println("[INFO] Mounting dashboard routes...")
	invoiceRoute.InvoiceAdminRoutes(dash, deps.Kit, deps.Payments)
	bookRoute.BooksAdminRoutes(dash, deps.Kit)
	studentRoute.StudentAdminRoutes(dash, deps.Kit)
	classRoute.ClassAdminRoutes(dash, deps.Kit)
	teacherRoute.TeacherAdminRoutes(dash, deps.Kit)
	certificateRoute.CertificateAdminRoutes(dash, deps.Kit)
	announcementRoute.AnnouncementAdminRoutes(dash, deps.Kit)
	masjidRoute.MasjidProfileRoutes(dash, deps.Kit)
	authRoute.JournalRoutes(dash, deps.DB, deps.Kit, deps.Auth.BlacklistSecret)

	log.Println("[INFO] Routes ready ✅")
}
