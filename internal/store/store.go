package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"opspanel-backend/internal/model"
)

// Store is a durable key-value mirror of the entity collections.
// Each slot holds one serialized collection; Save overwrites the previous value.
type Store interface {
	Load(ctx context.Context, slot string) (payload []byte, found bool, err error)
	Save(ctx context.Context, slot string, payload []byte) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

// Load returns the payload stored under slot. found is false when the slot was never written.
func (s *gormStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	var rows []model.Slot
	if err := s.db.WithContext(ctx).Where("name = ?", slot).Limit(1).Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return []byte(rows[0].Payload), true, nil
}

// Save upserts the slot row.
func (s *gormStore) Save(ctx context.Context, slot string, payload []byte) error {
	row := model.Slot{
		Name:      slot,
		Payload:   string(payload),
		UpdatedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}
	return nil
}
