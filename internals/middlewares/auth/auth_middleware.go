// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "masjidku_dashboard/internals/helpers"
	helperAuth "masjidku_dashboard/internals/helpers/auth"
	"masjidku_dashboard/internals/helpers/upstream"
)

const LocalsSession = "session"

// Session: identitas yang sudah diverifikasi untuk request ini.
type Session struct {
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Role       string    `json:"role"`
	Roles      []string  `json:"roles"`
	MasjidID   string    `json:"masjid_id,omitempty"`
	MasjidSlug string    `json:"masjid_slug,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
	Source     string    `json:"source"` // jwt | upstream
}

type Options struct {
	DB              *gorm.DB
	Client          *upstream.Client
	JWTSecret       string
	BlacklistSecret string
	AllowedRoles    []string
	ForbiddenMsg    string
	LoginPath       string
}

const (
	msgNoToken     = "Sesi tidak ditemukan. Silakan login."
	msgBlacklisted = "Sesi sudah keluar. Silakan login lagi."
	msgInvalid     = "Sesi tidak valid atau kedaluwarsa."
)

// SessionGuard: token dari cookie/Bearer → cek blacklist → verifikasi (JWT lokal
// bila JWTSecret ada, selain itu tanya upstream /api/auth/me) → cek role.
func SessionGuard(opt Options) fiber.Handler {
	if opt.LoginPath == "" {
		opt.LoginPath = "/login"
	}
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return deny(c, opt, fiber.StatusUnauthorized, msgNoToken)
		}

		// blacklist cukup dicek sekali per request
		if c.Locals("token_checked") == nil {
			bl, err := helperAuth.IsBlacklisted(c.UserContext(), opt.DB, raw, opt.BlacklistSecret)
			if err != nil {
				log.Println("[ERROR] DB error saat cek blacklist:", err)
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
			if bl {
				log.Println("[WARNING] Token ditemukan di blacklist")
				return deny(c, opt, fiber.StatusUnauthorized, msgBlacklisted)
			}
			c.Locals("token_checked", true)
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
			log.Printf("[AUTH] sesi ditolak: %v", err)
			if errors.Is(err, upstream.ErrUnreachable) {
				return helper.FromError(c, err)
			}
			return deny(c, opt, fiber.StatusUnauthorized, msgInvalid)
		}

		storeSession(c, sess)

		if len(opt.AllowedRoles) > 0 && !hasAnyRole(sess, opt.AllowedRoles) {
			msg := opt.ForbiddenMsg
			if msg == "" {
				msg = "Forbidden: you are not authorized to access this resource"
			}
			return deny(c, opt, fiber.StatusForbidden, msg)
		}
		return c.Next()
	}
}

func storeSession(c *fiber.Ctx, s *Session) {
	c.Locals(LocalsSession, s)
	c.Locals("user_id", s.UserID)
	c.Locals("userRole", s.Role)
	c.Locals("user_name", s.UserName)
	if s.MasjidID != "" {
		c.Locals("masjid_id", s.MasjidID)
	}
}

// SessionFrom mengambil sesi yang disimpan SessionGuard (nil bila tidak ada).
func SessionFrom(c *fiber.Ctx) *Session {
	s, _ := c.Locals(LocalsSession).(*Session)
	return s
}

// wantsHTML: navigasi browser diarahkan ke halaman login, API mendapat JSON.
func wantsHTML(c *fiber.Ctx) bool {
	if c.Method() != fiber.MethodGet {
		return false
	}
	if strings.EqualFold(c.Get("X-Requested-With"), "XMLHttpRequest") {
		return false
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}

func deny(c *fiber.Ctx, opt Options, status int, msg string) error {
	if wantsHTML(c) {
		target := opt.LoginPath + "?next=" + url.QueryEscape(c.OriginalURL())
		if status == fiber.StatusForbidden {
			target = opt.LoginPath + "?reason=forbidden"
		}
		return c.Redirect(target, fiber.StatusFound)
	}
	return helper.JsonError(c, status, msg)
}
