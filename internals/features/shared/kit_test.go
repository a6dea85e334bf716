package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authMw "masjidku_dashboard/internals/middlewares/auth"
)

// keysFor menjalankan satu request dengan sesi sess lalu mengembalikan Scope, Viewer, UploadKey.
func keysFor(t *testing.T, sess *authMw.Session) (scope, viewer, upload string) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if sess != nil {
			c.Locals(authMw.LocalsSession, sess)
		}
		scope, viewer, upload = Scope(c), Viewer(c), UploadKey(c, "book:new")
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	return scope, viewer, upload
}

func TestUploadKey_PerUserWithinMasjid(t *testing.T) {
	scopeA, viewerA, keyA := keysFor(t, &authMw.Session{UserID: "user-1", Role: "dkm", MasjidID: "masjid-1"})
	scopeB, viewerB, keyB := keysFor(t, &authMw.Session{UserID: "user-2", Role: "dkm", MasjidID: "masjid-1"})
	_, _, keyA2 := keysFor(t, &authMw.Session{UserID: "user-1", Role: "dkm", MasjidID: "masjid-1"})

	assert.Equal(t, "m:masjid-1", scopeA)
	assert.Equal(t, scopeA, scopeB)
	assert.Equal(t, "u:user-1", viewerA)
	assert.Equal(t, "u:user-2", viewerB)

	assert.Equal(t, "m:masjid-1|u:user-1|book:new", keyA)
	assert.NotEqual(t, keyA, keyB)
	// submit ulang oleh user yang sama tetap membatalkan upload lamanya
	assert.Equal(t, keyA, keyA2)
}

func TestViewer_Anonymous(t *testing.T) {
	scope, viewer, key := keysFor(t, nil)
	assert.Equal(t, "anon", scope)
	assert.Equal(t, "anon", viewer)
	assert.Equal(t, "anon|anon|book:new", key)
}

func TestExportableList(t *testing.T) {
	assert.NoError(t, ExportableList(ListResult[int]{Items: []int{1, 2}}))

	err := ExportableList(ListResult[int]{Items: []int{1}, Truncated: true})
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}
