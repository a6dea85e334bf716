package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	masjidController "masjidku_dashboard/internals/features/masjids/masjids/controller"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares/auth"
)

// MasjidProfileRoutes: /d/profile (pengurus); ubah profil khusus admin/DKM.
func MasjidProfileRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := masjidController.NewProfileController(kit)
	adminGuard := auth.OnlyRolesSlice(constants.RoleErrorAdmin("profil masjid"), constants.AdminAndAbove)

	g := r.Group("/profile")
	g.Get("/", ctl.Get)
	g.Post("/validate", ctl.Validate)
	g.Patch("/", adminGuard, ctl.Update)
}
