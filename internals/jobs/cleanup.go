// Package jobs: pekerjaan terjadwal dashboard (pembersihan tabel lokal).
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	helperAuth "masjidku_dashboard/internals/helpers/auth"
	"masjidku_dashboard/internals/helpers/mutation"
)

const (
	// tiap hari 02:15 WIB, di luar jam sibuk admin
	DefaultCleanupSpec = "CRON_TZ=Asia/Jakarta 15 2 * * *"
	jobTimeout         = 2 * time.Minute
)

type Cleanup struct {
	DB                   *gorm.DB
	JournalRetentionDays int
	now                  func() time.Time
}

func NewCleanup(db *gorm.DB, journalRetentionDays int) *Cleanup {
	if journalRetentionDays <= 0 {
		journalRetentionDays = 30
	}
	return &Cleanup{DB: db, JournalRetentionDays: journalRetentionDays, now: time.Now}
}

// Run: hapus token blacklist yang sudah expired + jurnal yang lewat masa simpan.
func (j *Cleanup) Run(ctx context.Context) {
	if j.DB == nil {
		return
	}
	now := j.now()

	log.Println("[CLEANUP] Menjalankan pembersihan token_blacklist...")
	if n, err := helperAuth.PurgeExpired(ctx, j.DB, now); err != nil {
		log.Printf("[CLEANUP ERROR] Gagal hapus token: %v", err)
	} else {
		log.Printf("[CLEANUP] %d token kadaluarsa dihapus", n)
	}

	before := now.AddDate(0, 0, -j.JournalRetentionDays)
	if n, err := mutation.PurgeJournal(ctx, j.DB, before); err != nil {
		log.Printf("[CLEANUP ERROR] Gagal hapus jurnal: %v", err)
	} else {
		log.Printf("[CLEANUP] %d entri jurnal > %d hari dihapus", n, j.JournalRetentionDays)
	}
}

// Start mendaftarkan Run ke cron dan langsung menjalankan scheduler.
// Tanpa DB tidak ada yang perlu dibersihkan, scheduler tidak dibuat.
func Start(j *Cleanup, spec string) (*cron.Cron, error) {
	if j == nil || j.DB == nil {
		log.Println("[CLEANUP] DB tidak aktif, scheduler dilewati")
		return nil, nil
	}
	if spec == "" {
		spec = DefaultCleanupSpec
	}
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		j.Run(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[CLEANUP] scheduler aktif (%s)", spec)
	return c, nil
}
