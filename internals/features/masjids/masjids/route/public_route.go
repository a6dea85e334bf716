package route

import (
	"github.com/gofiber/fiber/v2"

	masjidController "masjidku_dashboard/internals/features/masjids/masjids/controller"
	"masjidku_dashboard/internals/features/shared"
)

// MasjidPublicRoutes: halaman publik + linktree (sesi opsional dipasang di router).
func MasjidPublicRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := masjidController.NewPublicController(kit)

	g := r.Group("/masjids")
	g.Get("/:slug", ctl.Detail)
	g.Get("/:slug/linktree", ctl.Linktree)
}
