package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "masjidku_dashboard/internals/helpers"
	helperAuth "masjidku_dashboard/internals/helpers/auth"
)

// OptionalSession: untuk halaman publik. Bila token valid, sesi disimpan ke Locals;
// bila tidak ada/invalid, request tetap lanjut sebagai anonymous.
func OptionalSession(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return c.Next()
		}
		if bl, err := helperAuth.IsBlacklisted(c.UserContext(), opt.DB, raw, opt.BlacklistSecret); err != nil || bl {
			return c.Next()
		}

		var (
			sess *Session
			err  error
		)
		if opt.JWTSecret != "" {
			sess, err = sessionFromJWT(raw, opt.JWTSecret)
		} else {
			sess, err = sessionFromUpstream(c, opt.Client)
		}
		if err != nil {
			log.Println("[INFO] Token tidak valid, lanjut sebagai anonymous:", err)
			return c.Next()
		}
		storeSession(c, sess)
		return c.Next()
	}
}
