package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"masjidku_dashboard/internals/configs"
	database "masjidku_dashboard/internals/databases"
	invoiceService "masjidku_dashboard/internals/features/finance/invoices/service"
	"masjidku_dashboard/internals/features/shared"
	"masjidku_dashboard/internals/helpers/listquery"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/helpers/upstream"
	"masjidku_dashboard/internals/jobs"
	middlewares "masjidku_dashboard/internals/middlewares"
	"masjidku_dashboard/internals/middlewares/auth"
	routes "masjidku_dashboard/internals/route"
)

// upstreamTimeout: batas satu panggilan HTTP ke backend (di bawah DashboardTimeout).
const upstreamTimeout = 6 * time.Second

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		BodyLimit:               12 * 1024 * 1024, // upload gambar/lampiran
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("requestid", id)
		start := time.Now()
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app, configs.CORSOrigins)

	// 🔌 DB opsional (blacklist + jurnal)
	database.ConnectDB()
	database.TunePool()
	database.Migrate()

	// 🗄️ cache list: Redis bila REDIS_URL diset, selain itu memori
	var store listquery.Store = listquery.NewMemoryStore()
	if configs.RedisURL != "" {
		rs, err := listquery.NewRedisStore(configs.RedisURL, "masjidku_dashboard")
		if err != nil {
			log.Printf("⚠️ REDIS_URL tidak valid (%v), pakai cache memori", err)
		} else if err := rs.Ping(context.Background()); err != nil {
			log.Printf("⚠️ Redis tidak bisa dihubungi (%v), pakai cache memori", err)
		} else {
			store = rs
			log.Println("✅ Cache list memakai Redis")
		}
	}
	cache := listquery.New(store, configs.CacheTTL)

	client := upstream.New(configs.APIBaseURL, upstreamTimeout)

	var journal mutation.Journal
	if database.DB != nil {
		journal = mutation.GormJournal{DB: database.DB}
	}
	kit := shared.NewKit(client, cache, journal, configs.UseDummy)

	// ✅ MIDTRANS
	payments := invoiceService.NewPaymentLinkService(configs.MidtransServerKey, configs.MidtransUseProd)
	if !payments.Enabled() {
		log.Println("⚠️ MIDTRANS_SERVER_KEY kosong, link pembayaran nonaktif")
	}

	// ⏱ scheduler setelah DB siap
	sched, err := jobs.Start(jobs.NewCleanup(database.DB, configs.JournalRetentionDays), configs.GetEnv("CLEANUP_CRON"))
	if err != nil {
		log.Fatalf("❌ Gagal memasang scheduler: %v", err)
	}

	routes.SetupRoutes(app, routes.Deps{
		DB:       database.DB,
		Kit:      kit,
		Payments: payments,
		Auth: auth.Options{
			DB:              database.DB,
			Client:          client,
			JWTSecret:       configs.JWTSecret,
			BlacklistSecret: configs.BlacklistSecret,
		},
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", configs.Port)); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop cron → fiber → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutdown...")

	if sched != nil {
		<-sched.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	database.Close()
}
