package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "masjidku_dashboard/internals/helpers"
)

// RoleMiddlewareWithCustomError validasi role + custom error message.
// Dipasang setelah SessionGuard; memeriksa semua role yang dimiliki sesi.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFrom(c)
		if sess == nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}

		log.Printf("[DEBUG] Role pengguna: %s\n", sess.Role)

		if hasAnyRole(sess, allowedRoles) {
			return c.Next()
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return deny(c, Options{LoginPath: "/login"}, fiber.StatusForbidden, customForbiddenMessage)
	}
}

// Shortcut biar lebih clean pemakaian
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
