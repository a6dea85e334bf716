// internals/middlewares/auth/claims_utils.go
package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"masjidku_dashboard/internals/constants"
	"masjidku_dashboard/internals/helpers/upstream"
)

/* ======== JWT ======== */

func sessionFromJWT(raw, secret string) (*Session, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}); err != nil {
		return nil, fmt.Errorf("token parse error: %w", err)
	}

	exp, err := validateTokenExpiry(claims, 30*time.Second)
	if err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(claimString(claims, "id"))
	if userID == "" {
		userID = strings.TrimSpace(claimString(claims, "sub"))
	}
	if userID == "" {
		return nil, fmt.Errorf("no user id")
	}

	roles := toStringSlice(claims["roles"])
	if r := claimString(claims, "role"); r != "" {
		roles = append(roles, r)
	}
	masjidID := claimString(claims, "active_masjid_id")

	// masjid_roles: [{masjid_id, roles[]}]; role dari masjid aktif ikut dihitung
	if mr, ok := claims["masjid_roles"].([]interface{}); ok {
		for _, it := range mr {
			m, ok := it.(map[string]interface{})
			if !ok {
				continue
			}
			id, _ := m["masjid_id"].(string)
			if masjidID == "" {
				masjidID = id
			}
			if id == masjidID {
				roles = append(roles, toStringSlice(m["roles"])...)
			}
		}
	}
	if masjidID == "" {
		for _, key := range []string{"masjid_admin_ids", "masjid_teacher_ids", "masjid_ids"} {
			if ids := toStringSlice(claims[key]); len(ids) > 0 {
				masjidID = ids[0]
				break
			}
		}
	}

	roles = uniqueRoles(roles)
	return &Session{
		UserID:    userID,
		UserName:  claimString(claims, "user_name"),
		Role:      bestRole(roles),
		Roles:     roles,
		MasjidID:  masjidID,
		ExpiresAt: exp,
		Source:    "jwt",
	}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) (time.Time, error) {
	expVal, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return time.Time{}, fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return expTime, fmt.Errorf("token expired at %v", expTime)
	}
	return expTime, nil
}

/* ======== Upstream /api/auth/me ======== */

type meMembership struct {
	MasjidID   string   `json:"masjid_id"`
	MasjidName string   `json:"masjid_name"`
	MasjidSlug string   `json:"masjid_slug"`
	Roles      []string `json:"roles"`
}

type meResponse struct {
	UserID      string         `json:"user_id"`
	ID          string         `json:"id"`
	UserName    string         `json:"user_name"`
	Role        string         `json:"role"`
	Roles       []string       `json:"roles"`
	Memberships []meMembership `json:"memberships"`
	Selection   *struct {
		MasjidID *string `json:"masjid_id"`
		Role     *string `json:"role"`
	} `json:"selection"`
}

func sessionFromUpstream(c *fiber.Ctx, client *upstream.Client) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("upstream client belum dikonfigurasi")
	}
	body, err := client.Do(c.UserContext(), http.MethodGet, "/api/auth/me", nil, nil, upstream.CredentialsFromFiber(c))
	if err != nil {
		return nil, err
	}
	obj, err := upstream.UnwrapObject(body)
	if err != nil {
		return nil, err
	}
	me, err := upstream.Convert[meResponse](obj)
	if err != nil {
		return nil, err
	}

	s := &Session{UserID: me.UserID, UserName: me.UserName, Source: "upstream"}
	if s.UserID == "" {
		s.UserID = me.ID
	}
	if s.UserID == "" {
		return nil, fmt.Errorf("no user id")
	}

	roles := append([]string{}, me.Roles...)
	if me.Role != "" {
		roles = append(roles, me.Role)
	}
	if me.Selection != nil && me.Selection.MasjidID != nil {
		s.MasjidID = *me.Selection.MasjidID
	}
	for _, m := range me.Memberships {
		if s.MasjidID == "" {
			s.MasjidID = m.MasjidID
		}
		if m.MasjidID == s.MasjidID {
			s.MasjidSlug = m.MasjidSlug
			roles = append(roles, m.Roles...)
		}
	}
	s.Roles = uniqueRoles(roles)
	s.Role = bestRole(s.Roles)
	if me.Selection != nil && me.Selection.Role != nil && *me.Selection.Role != "" {
		s.Role = *me.Selection.Role
	}
	return s, nil
}

/* ======== Helpers ======== */

func toStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	default:
		return nil
	}
}

func uniqueRoles(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// bestRole: role dengan prioritas tertinggi (owner > admin > dkm > ...).
func bestRole(roles []string) string {
	best, bestP := "", -1
	for _, r := range roles {
		if p, ok := constants.RolePriority[r]; ok && p > bestP {
			best, bestP = r, p
		}
	}
	if best == "" && len(roles) > 0 {
		return roles[0]
	}
	return best
}

func hasAnyRole(s *Session, allowed []string) bool {
	for _, r := range s.Roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	for _, a := range allowed {
		if s.Role == a {
			return true
		}
	}
	return false
}
