package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	teacherController "masjidku_dashboard/internals/features/school/teachers/controller"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares/auth"
)

func TeacherAdminRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := teacherController.NewTeacherController(kit)
	adminGuard := auth.OnlyRolesSlice(constants.RoleErrorAdmin("pengajar"), constants.AdminAndAbove)

	g := r.Group("/teachers")
	g.Get("/", ctl.List)
	g.Post("/", adminGuard, ctl.Create)
	g.Patch("/:id", adminGuard, ctl.Update)
	g.Delete("/:id", adminGuard, ctl.Delete)
}
