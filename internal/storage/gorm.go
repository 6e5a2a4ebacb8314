package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Slot is one persisted key-value row.
type Slot struct {
	Key       string `gorm:"column:slot_key;primaryKey;type:varchar(191)"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (Slot) TableName() string { return "storage_slots" }

// GORMStorage is a GORM implementation of Storage.
type GORMStorage struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*GORMStorage, error) {
	if path == "" {
		path = "shop.db"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	return NewGORMStorage(db)
}

// OpenPostgres connects to PostgreSQL using dsn.
func OpenPostgres(dsn string) (*GORMStorage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return NewGORMStorage(db)
}

// NewGORMStorage migrates the slot table on db and wraps it.
func NewGORMStorage(db *gorm.DB) (*GORMStorage, error) {
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate storage slots: %w", err)
	}
	return &GORMStorage{db: db}, nil
}

// Get retrieves the slot value for key.
func (s *GORMStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var slot Slot
	if err := s.db.WithContext(ctx).First(&slot, "slot_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return slot.Value, true, nil
}

// Set inserts or replaces the slot value for key.
func (s *GORMStorage) Set(ctx context.Context, key, value string) error {
	slot := Slot{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *GORMStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
