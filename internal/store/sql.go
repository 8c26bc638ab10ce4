package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/match-explainer/pkg/database"
)

// Record is one stored value
type Record struct {
	Key       string         `gorm:"column:record_key;primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Record) TableName() string {
	return "prediction_records"
}

// SQLStore keeps records in a single table through gorm
type SQLStore struct {
	db *database.DB
}

// NewSQLStore migrates the records table
func NewSQLStore(db *database.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Put inserts or replaces the value under key
func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	record := Record{Key: key, Value: datatypes.JSON(value)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record Record
	err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(record.Value), nil
}

func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("record_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("record_key ASC").
		Pluck("record_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
