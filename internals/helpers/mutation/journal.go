package mutation

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// JournalEntry: jejak setiap mutasi dari dashboard (audit ringan).
type JournalEntry struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Scope           string         `gorm:"type:varchar(120);index" json:"scope"`
	Entity          string         `gorm:"type:varchar(60);index" json:"entity"`
	Action          string         `gorm:"type:varchar(30)" json:"action"`
	EntityID        string         `gorm:"type:varchar(80)" json:"entity_id"`
	Method          string         `gorm:"type:varchar(10)" json:"method"`
	Path            string         `gorm:"type:text" json:"path"`
	Status          string         `gorm:"type:varchar(10);index" json:"status"`
	HTTPStatus      int            `json:"http_status"`
	Message         string         `gorm:"type:text" json:"message"`
	InvalidatedKeys pq.StringArray `gorm:"type:text[]" json:"invalidated_keys"`
	Payload         datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (JournalEntry) TableName() string { return "mutation_journal" }

type Journal interface {
	Record(ctx context.Context, e *JournalEntry) error
}

// field yang tidak boleh ikut tersimpan di payload jurnal
var redactedKeys = []string{"password", "token", "secret", "server_key"}

func NewEntry(scope string, m Mutation, invalidated []string, merr *Error) *JournalEntry {
	e := &JournalEntry{
		ID:              uuid.New(),
		Scope:           scope,
		Entity:          m.Entity,
		Action:          string(m.Action),
		EntityID:        m.EntityID,
		Method:          m.Method,
		Path:            m.Path,
		Status:          StatusSuccess,
		HTTPStatus:      200,
		InvalidatedKeys: pq.StringArray(invalidated),
	}
	if merr != nil {
		e.Status = StatusFailed
		e.HTTPStatus = merr.Status
		e.Message = merr.Message
	}
	if m.Body != nil {
		if raw, err := sonic.Marshal(m.Body); err == nil {
			e.Payload = datatypes.JSON(redact(raw))
		}
	}
	return e
}

func redact(raw []byte) []byte {
	var obj map[string]any
	if err := sonic.Unmarshal(raw, &obj); err != nil {
		return raw
	}
	for k := range obj {
		lk := strings.ToLower(k)
		for _, r := range redactedKeys {
			if strings.Contains(lk, r) {
				obj[k] = "***"
			}
		}
	}
	out, err := sonic.Marshal(obj)
	if err != nil {
		return raw
	}
	return out
}

type GormJournal struct {
	DB *gorm.DB
}

func (j GormJournal) Record(ctx context.Context, e *JournalEntry) error {
	if j.DB == nil {
		return nil
	}
	return j.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(e).Error
}

// Recent: entri terbaru milik satu scope.
func (j GormJournal) Recent(ctx context.Context, scope string, limit int) ([]JournalEntry, error) {
	if j.DB == nil {
		return []JournalEntry{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []JournalEntry
	err := j.DB.WithContext(ctx).
		Where("scope = ?", scope).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// PurgeJournal menghapus entri lebih tua dari before.
func PurgeJournal(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	if db == nil {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("created_at < ?", before).Delete(&JournalEntry{})
	return res.RowsAffected, res.Error
}
