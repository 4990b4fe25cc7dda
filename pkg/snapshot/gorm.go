package snapshot

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhavenapp/bookhaven-backend/pkg/db/models"
	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
)

// GormStore persists snapshots in the relational snapshots table, one row
// per slot, upserted on every write.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore binds the store to the provided GORM handle.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle is required")
	}
	return &GormStore{db: db}, nil
}

// Save upserts the slot row.
func (s *GormStore) Save(ctx context.Context, kind Kind, data []byte) error {
	record := models.Snapshot{Kind: kind.String(), Data: data}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save snapshot")
	}
	return nil
}

// Load returns the slot row, reporting absence as ok=false.
func (s *GormStore) Load(ctx context.Context, kind Kind) ([]byte, bool, error) {
	var record models.Snapshot
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind.String()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load snapshot")
	}
	return record.Data, true, nil
}

// Delete removes the slot row if present.
func (s *GormStore) Delete(ctx context.Context, kind Kind) error {
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind.String()).
		Delete(&models.Snapshot{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete snapshot")
	}
	return nil
}
