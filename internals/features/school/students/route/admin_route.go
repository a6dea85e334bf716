package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	studentController "masjidku_dashboard/internals/features/school/students/controller"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares"
	"masjidku_dashboard/internals/middlewares/auth"
)

func StudentAdminRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := studentController.NewStudentController(kit)

	adminGuard := auth.OnlyRolesSlice(
		constants.RoleErrorAdmin("data siswa"),
		constants.AdminAndAbove,
	)

	g := r.Group("/students")
	g.Get("/", ctl.List)
	g.Get("/export.csv", middlewares.ExportRateLimiter(), ctl.ExportCSV)
	g.Post("/", adminGuard, ctl.Create)
	g.Patch("/:id", adminGuard, ctl.Update)
	g.Delete("/:id", adminGuard, ctl.Delete)
}
