package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// GenerationRun records one fixture file produced by the CLI or the server
type GenerationRun struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Profile   string    `gorm:"index;not null" json:"profile"`
	Kind      string    `gorm:"not null" json:"kind"`
	Format    string    `gorm:"not null" json:"format"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	SHA256    string    `gorm:"size:64" json:"sha256"`
	Seed      *int64    `json:"seed,omitempty"`
	Source    string    `gorm:"default:cli" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a run id when none is set
func (r *GenerationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// APIKey represents the api_keys table. RateLimit caps generation requests
// per UTC day. Revoked keys stay in the table so they cannot be recreated.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	Revoked    bool       `gorm:"not null;default:false" json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table, one row per key per day
type APIUsage struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	KeyID           uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date            string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount    int    `gorm:"default:0" json:"request_count"`
	TotalShifts     int    `gorm:"default:0" json:"total_shifts"`
	TotalVolunteers int    `gorm:"default:0" json:"total_volunteers"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects to Postgres when databaseURL is set, otherwise to the SQLite
// file at dataPath, and migrates the schema
func Open(databaseURL, dataPath string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	cfg := &gorm.Config{}
	if databaseURL != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		})
		cfg.PrepareStmt = false
	} else {
		if dataPath == "" {
			dataPath = "fixtures.db"
		}
		dialector = sqlite.Open(dataPath)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&GenerationRun{}, &APIKey{}, &APIUsage{}, &MasterUser{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// RecordRuns stores a batch of generation runs in one transaction
func RecordRuns(db *gorm.DB, runs []GenerationRun) error {
	if len(runs) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&runs).Error
	})
}

// RecentRuns returns the latest runs, newest first, optionally for one profile
func RecentRuns(db *gorm.DB, profile string, limit int) ([]GenerationRun, error) {
	q := db.Order("created_at desc").Limit(limit)
	if profile != "" {
		q = q.Where("profile = ?", profile)
	}
	var runs []GenerationRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// UsageDate is the day bucket a request is counted under
func UsageDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// RequestsOn returns the requests recorded for a key on the given day
func RequestsOn(db *gorm.DB, keyID uint, date string) (int, error) {
	var usage APIUsage
	err := db.Where("key_id = ? AND date = ?", keyID, date).Limit(1).Find(&usage).Error
	return usage.RequestCount, err
}

// UsageHistory returns the most recent daily usage rows of a key
func UsageHistory(db *gorm.DB, keyID uint, days int) ([]APIUsage, error) {
	var usage []APIUsage
	if err := db.Where("key_id = ?", keyID).Order("date desc").Limit(days).Find(&usage).Error; err != nil {
		return nil, err
	}
	return usage, nil
}

// RevokeKey marks a key revoked and reports whether it existed
func RevokeKey(db *gorm.DB, id uint) (bool, error) {
	res := db.Model(&APIKey{}).Where("id = ?", id).Update("revoked", true)
	return res.RowsAffected > 0, res.Error
}
