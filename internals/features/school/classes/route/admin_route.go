package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	classController "masjidku_dashboard/internals/features/school/classes/controller"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares/auth"
)

func ClassAdminRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := classController.NewClassController(kit)

	adminGuard := auth.OnlyRolesSlice(constants.RoleErrorAdmin("kelas"), constants.AdminAndAbove)

	g := r.Group("/classes")
	g.Get("/", ctl.List)
	g.Post("/", adminGuard, ctl.Create)
	g.Patch("/:id", adminGuard, ctl.Update)
	g.Delete("/:id", adminGuard, ctl.Delete)
}
