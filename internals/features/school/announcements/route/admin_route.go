package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	announcementController "masjidku_dashboard/internals/features/school/announcements/controller"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares/auth"
)

func AnnouncementAdminRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := announcementController.NewAnnouncementController(kit)
	adminGuard := auth.OnlyRolesSlice(constants.RoleErrorAdmin("pengumuman"), constants.AdminAndAbove)

	g := r.Group("/announcements")
	g.Get("/", ctl.List)
	g.Post("/", adminGuard, ctl.Create)
	g.Patch("/:id", adminGuard, ctl.Update)
	g.Delete("/:id", adminGuard, ctl.Delete)
}
