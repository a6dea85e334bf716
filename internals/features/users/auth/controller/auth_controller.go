package controller

import (
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masjidku_dashboard/internals/features/shared"
	authService "masjidku_dashboard/internals/features/users/auth/service"
	helper "masjidku_dashboard/internals/helpers"
	helperAuth "masjidku_dashboard/internals/helpers/auth"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/helpers/upstream"
	authMw "masjidku_dashboard/internals/middlewares/auth"
)

const EndpointLogout = "/api/auth/logout"

type AuthController struct {
	DB              *gorm.DB
	Kit             *shared.Kit
	BlacklistSecret string
	now             func() time.Time
}

func NewAuthController(db *gorm.DB, kit *shared.Kit, blacklistSecret string) *AuthController {
	return &AuthController{DB: db, Kit: kit, BlacklistSecret: blacklistSecret, now: time.Now}
}

// POST /auth/logout
// Logout upstream best-effort; token tetap di-blacklist lokal dan cookie dihapus.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		helper.ClearAuthCookies(c)
		return helper.JsonOK(c, "Logout berhasil", nil)
	}

	if ac.Kit != nil && ac.Kit.Client != nil {
		if _, err := ac.Kit.Client.Do(c.UserContext(), http.MethodPost, EndpointLogout, nil, nil, upstream.CredentialsFromFiber(c)); err != nil {
			log.Printf("[AUTH] logout upstream gagal (lanjut logout lokal): %v", err)
		}
	}

	userID, exp := authService.AccessTokenInfo(raw, ac.now())
	if err := helperAuth.Add(c.UserContext(), ac.DB, raw, ac.BlacklistSecret, userID, exp); err != nil {
		log.Printf("[AUTH] gagal menyimpan blacklist: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal logout, silakan coba lagi")
	}

	// entry cache milik user ini: seluruh scope u:<user>, dan entry viewer-nya di scope masjid
	if sess := authMw.SessionFrom(c); sess != nil && ac.Kit != nil {
		var err error
		if sess.MasjidID == "" {
			_, err = ac.Kit.Cache.Invalidate(c.UserContext(), shared.Scope(c)+"|")
		} else {
			_, err = ac.Kit.Cache.InvalidateViewer(c.UserContext(), shared.Scope(c)+"|", shared.Viewer(c))
		}
		if err != nil {
			log.Printf("[CACHE] gagal membersihkan cache sesi: %v", err)
		}
	}

	helper.ClearAuthCookies(c)
	log.Println("[AUTH] 🔒 logout berhasil")
	return helper.JsonOK(c, "Logout berhasil", nil)
}

// GET /auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	sess := authMw.SessionFrom(c)
	if sess == nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Sesi tidak ditemukan")
	}
	return helper.JsonOK(c, "ok", sess)
}

// GET /d/journal?limit=50: riwayat mutasi untuk masjid/sesi aktif.
func (ac *AuthController) Journal(c *fiber.Ctx) error {
	rows, err := mutation.GormJournal{DB: ac.DB}.Recent(c.UserContext(), shared.Scope(c), c.QueryInt("limit", 50))
	if err != nil {
		log.Printf("[JOURNAL] gagal ambil jurnal: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat perubahan")
	}
	return helper.JsonOK(c, "ok", rows)
}
