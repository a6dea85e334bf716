package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// DummyMode mengatur kapan data fixture dipakai sebagai pengganti upstream.
type DummyMode string

const (
	DummyOff      DummyMode = "off"      // selalu pakai upstream
	DummyFallback DummyMode = "fallback" // pakai fixture kalau upstream gagal
	DummyAlways   DummyMode = "always"   // upstream tidak dipanggil sama sekali
)

var (
	JWTSecret         string
	APIBaseURL        string
	UseDummy          DummyMode
	CacheTTL          time.Duration
	RedisURL          string
	MidtransServerKey string
	MidtransUseProd   bool

	// BlacklistSecret: kunci HMAC token di tabel token_blacklist
	BlacklistSecret      string
	CORSOrigins          string
	JournalRetentionDays int
	Port                 string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	APIBaseURL = strings.TrimRight(GetEnv("API_BASE_URL", "http://localhost:3000"), "/")
	UseDummy = ParseDummyMode(GetEnv("USE_DUMMY"))
	CacheTTL = time.Duration(GetEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second
	RedisURL = GetEnv("REDIS_URL")
	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = GetEnvBool("MIDTRANS_USE_PROD", false)
	BlacklistSecret = GetEnv("BLACKLIST_SECRET", JWTSecret)
	if BlacklistSecret == "" {
		BlacklistSecret = "masjidku-dashboard"
	}
	CORSOrigins = GetEnv("CORS_ORIGINS", "http://localhost:5173,https://masjidku.org,https://sekolahislamku.id")
	JournalRetentionDays = GetEnvInt("JOURNAL_RETENTION_DAYS", 30)
	Port = GetEnv("PORT", "8080")

	if JWTSecret == "" {
		log.Println("⚠️ JWT_SECRET belum diset, sesi dicek ke upstream /api/auth/me")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
	log.Printf("✅ API_BASE_URL=%s USE_DUMMY=%s CACHE_TTL=%s", APIBaseURL, UseDummy, CacheTTL)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s bukan angka (%q), pakai default %d", key, v, def)
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	switch strings.ToLower(GetEnv(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ParseDummyMode menerima off|fallback|always; nilai lama "true" dianggap always.
func ParseDummyMode(s string) DummyMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fallback":
		return DummyFallback
	case "always", "true", "1":
		return DummyAlways
	default:
		return DummyOff
	}
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_DEBUG", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
