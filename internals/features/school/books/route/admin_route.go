package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	booksController "masjidku_dashboard/internals/features/school/books/controller"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/middlewares/auth"
)

// Hasil endpoint: /d/books, /d/books/slug-suggestion, /d/books/:id
func BooksAdminRoutes(r fiber.Router, kit *shared.Kit) {
	ctl := booksController.NewBooksController(kit)

	// baca: semua pengurus; tulis: admin/dkm/owner
	adminGuard := auth.OnlyRolesSlice(
		constants.RoleErrorAdmin("buku"),
		constants.AdminAndAbove,
	)

	books := r.Group("/books")
	books.Get("/", ctl.List)
	books.Get("/slug-suggestion", ctl.SlugSuggestion)
	books.Post("/", adminGuard, ctl.Create)
	books.Patch("/:id", adminGuard, ctl.Update)
	books.Delete("/:id", adminGuard, ctl.Delete)
}
