package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "masjidku_dashboard/internals/features/users/auth/model"
)

/*
   =========================================================
   LOW-LEVEL UTILS
   =========================================================
*/

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

/*
   =========================================================
   CORE API (token TEXT unique, expired_at, deleted_at)
   =========================================================
*/

// Add: simpan HMAC(access_token) ke blacklist sampai expiresAt.
func Add(ctx context.Context, db *gorm.DB, rawAccessToken, secret string, userID *string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" {
		return nil
	}
	row := authModel.TokenBlacklist{
		Token:     hmacHex(rawAccessToken, secret),
		UserID:    userID,
		ExpiredAt: expiresAt,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.Assignments(map[string]any{"expired_at": expiresAt, "deleted_at": nil}),
		}).
		Create(&row).Error
}

// IsBlacklisted: ada baris aktif dan belum expired?
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, secret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).
		Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", hmacHex(rawAccessToken, secret), time.Now()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired: hard delete baris yang expired sebelum `before`.
func PurgeExpired(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	if db == nil {
		return 0, nil
	}
	res := db.WithContext(ctx).Unscoped().
		Where("expired_at < ?", before).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
