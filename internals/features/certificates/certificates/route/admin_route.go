package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	certificateController "masjidku_dashboard/internals/features/certificates/certificates/controller"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares/auth"
)

func CertificateAdminRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := certificateController.NewCertificateController(kit)
	adminGuard := auth.OnlyRolesSlice(constants.RoleErrorAdmin("sertifikat"), constants.AdminAndAbove)

	g := r.Group("/certificates")
	g.Get("/", ctl.List)
	g.Post("/", adminGuard, ctl.Create)
	g.Post("/:id/publish", adminGuard, ctl.Publish)
	g.Post("/:id/revoke", adminGuard, ctl.Revoke)
	g.Delete("/:id", adminGuard, ctl.Delete)
}
