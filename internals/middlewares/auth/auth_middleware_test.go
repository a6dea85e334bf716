package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidku_dashboard/internals/constants"
	"masjidku_dashboard/internals/helpers/upstream"
)

const testSecret = "rahasia-test"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func dkmClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"id":        "user-1",
		"user_name": "Pak Ahmad",
		"exp":       time.Now().Add(time.Hour).Unix(),
		"masjid_roles": []any{
			map[string]any{"masjid_id": "masjid-1", "roles": []any{"dkm"}},
			map[string]any{"masjid_id": "masjid-2", "roles": []any{"student"}},
		},
	}
}

func newApp(opt Options) *fiber.App {
	app := fiber.New()
	app.Get("/d/home", SessionGuard(opt), func(c *fiber.Ctx) error {
		return c.JSON(SessionFrom(c))
	})
	return app
}

func TestSessionGuard_JWT(t *testing.T) {
	app := newApp(Options{JWTSecret: testSecret, AllowedRoles: constants.DashboardRoles})

	req := httptest.NewRequest(http.MethodGet, "/d/home", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, dkmClaims()))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s Session
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, sonic.Unmarshal(body, &s))
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "masjid-1", s.MasjidID)
	assert.Equal(t, "dkm", s.Role)
	assert.NotContains(t, s.Roles, "student")
	assert.Equal(t, "jwt", s.Source)
}

func TestSessionGuard_CookieToken(t *testing.T) {
	app := newApp(Options{JWTSecret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/d/home", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, dkmClaims())})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionGuard_MissingTokenJSON(t *testing.T) {
	app := newApp(Options{JWTSecret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/d/home", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Silakan login")
}

func TestSessionGuard_MissingTokenRedirectsBrowser(t *testing.T) {
	app := newApp(Options{JWTSecret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/d/home?tab=2", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fd%2Fhome%3Ftab%3D2", resp.Header.Get("Location"))
}

func TestSessionGuard_ExpiredAndBadSignature(t *testing.T) {
	app := newApp(Options{JWTSecret: testSecret})

	expired := dkmClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, dkmClaims()).SignedString([]byte("kunci-lain"))
	require.NoError(t, err)

	for _, tok := range []string{signToken(t, expired), wrongKey, "bukan.jwt.valid"} {
		req := httptest.NewRequest(http.MethodGet, "/d/home", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestSessionGuard_ForbiddenRole(t *testing.T) {
	app := newApp(Options{JWTSecret: testSecret, AllowedRoles: constants.AdminAndAbove, ForbiddenMsg: "khusus admin"})

	claims := jwt.MapClaims{"sub": "user-9", "role": "student", "exp": time.Now().Add(time.Hour).Unix()}
	req := httptest.NewRequest(http.MethodGet, "/d/home", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "khusus admin")
}

func TestSessionGuard_UpstreamMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" || !strings.Contains(r.Header.Get("Cookie"), "access_token=opaque") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"user_id":"u-7","user_name":"Bu Siti","memberships":[
			{"masjid_id":"m-1","masjid_slug":"al-ikhlas","roles":["treasurer"]}]}}`))
	}))
	defer srv.Close()

	app := newApp(Options{Client: upstream.New(srv.URL, time.Second), AllowedRoles: constants.FinanceRoles})

	req := httptest.NewRequest(http.MethodGet, "/d/home", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "opaque"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s Session
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, sonic.Unmarshal(body, &s))
	assert.Equal(t, "u-7", s.UserID)
	assert.Equal(t, "m-1", s.MasjidID)
	assert.Equal(t, "al-ikhlas", s.MasjidSlug)
	assert.Equal(t, "treasurer", s.Role)
	assert.Equal(t, "upstream", s.Source)
}

func TestOptionalSession_AnonymousContinues(t *testing.T) {
	app := fiber.New()
	app.Get("/public/x", OptionalSession(Options{JWTSecret: testSecret}), func(c *fiber.Ctx) error {
		if SessionFrom(c) == nil {
			return c.SendString("anon")
		}
		return c.SendString(SessionFrom(c).UserID)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public/x", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anon", string(body))

	req := httptest.NewRequest(http.MethodGet, "/public/x", nil)
	req.Header.Set("Authorization", "Bearer rusak")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "anon", string(body))

	req = httptest.NewRequest(http.MethodGet, "/public/x", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, dkmClaims()))
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "user-1", string(body))
}

func TestRoleHelpers(t *testing.T) {
	assert.Equal(t, []string{"admin", "dkm"}, uniqueRoles([]string{" Admin", "dkm", "admin", ""}))
	assert.Equal(t, "owner", bestRole([]string{"teacher", "owner", "dkm"}))
	assert.Equal(t, "custom", bestRole([]string{"custom"}))
	assert.True(t, hasAnyRole(&Session{Roles: []string{"teacher"}}, constants.DashboardRoles))
	assert.False(t, hasAnyRole(&Session{Role: "student"}, constants.DashboardRoles))
}
