package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masjidku_dashboard/internals/constants"
	"masjidku_dashboard/internals/features/shared"
	authController "masjidku_dashboard/internals/features/users/auth/controller"
	"masjidku_dashboard/internals/middlewares"
	"masjidku_dashboard/internals/middlewares/auth"
)

// AuthRoutes: /auth/logout (sesi opsional), /auth/me (wajib sesi).
func AuthRoutes(app fiber.Router, db *gorm.DB, kit *shared.Kit, opt auth.Options) {
	ctl := authController.NewAuthController(db, kit, opt.BlacklistSecret)

	g := app.Group("/auth")
	g.Post("/logout", middlewares.SensitiveRateLimiter(), auth.OptionalSession(opt), ctl.Logout)

	meOpt := opt
	meOpt.AllowedRoles = nil
	g.Get("/me", auth.SessionGuard(meOpt), ctl.Me)
}

// JournalRoutes: riwayat mutasi (di bawah grup /d yang sudah dijaga sesi).
func JournalRoutes(r fiber.Router, db *gorm.DB, kit *shared.Kit, blacklistSecret string) {
	ctl := authController.NewAuthController(db, kit, blacklistSecret)
	r.Get("/journal",
		auth.OnlyRolesSlice(constants.RoleErrorAdmin("riwayat perubahan"), constants.AdminAndAbove),
		ctl.Journal,
	)
}
