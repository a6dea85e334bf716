package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultBlacklistTTL dipakai bila exp token tidak terbaca (token opaque dari upstream).
const DefaultBlacklistTTL = 24 * time.Hour

// AccessTokenInfo membaca sub/id + exp tanpa verifikasi tanda tangan.
// Hanya untuk menentukan umur baris blacklist; keabsahan token dicek di middleware.
func AccessTokenInfo(raw string, now time.Time) (userID *string, expiresAt time.Time) {
	expiresAt = now.Add(DefaultBlacklistTTL)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(raw), claims); err != nil {
		return nil, expiresAt
	}
	for _, k := range []string{"id", "sub", "user_id"} {
		if s, ok := claims[k].(string); ok && strings.TrimSpace(s) != "" {
			v := strings.TrimSpace(s)
			userID = &v
			break
		}
	}
	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		t := time.Unix(int64(exp), 0)
		if t.After(now) {
			expiresAt = t
		}
	}
	return userID, expiresAt
}
