package store

import (
	"context"
	"errors"
	"fmt"

	"cafe-directory/models"

	"gorm.io/gorm"
)

// CafeStore is the cafe catalog. Writes run in a transaction so a rejected
// write leaves no trace.
type CafeStore struct {
	db *gorm.DB
}

func NewCafeStore(db *gorm.DB) *CafeStore {
	return &CafeStore{db: db}
}

// ListAll returns every cafe in id order.
func (s *CafeStore) ListAll(ctx context.Context) ([]models.Cafe, error) {
	var cafes []models.Cafe
	if err := s.db.WithContext(ctx).Order("id asc").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return cafes, nil
}

func (s *CafeStore) Get(ctx context.Context, id uint) (*models.Cafe, error) {
	return getCafe(s.db.WithContext(ctx), id)
}

// Count returns the number of cafes in the catalog.
func (s *CafeStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Cafe{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cafes: %w", err)
	}
	return n, nil
}

// Create inserts a cafe owned by authorID, which may be nil.
func (s *CafeStore) Create(ctx context.Context, fields models.CafeFields, authorID *uint) (*models.Cafe, error) {
	cafe := models.Cafe{AuthorID: authorID}
	fields.Apply(&cafe)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&cafe).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create cafe: %w", err)
	}
	return &cafe, nil
}

// Update overwrites the editable fields of cafe id. Keeping the current name
// is not a conflict; taking another cafe's name is.
func (s *CafeStore) Update(ctx context.Context, id uint, fields models.CafeFields) (*models.Cafe, error) {
	var updated *models.Cafe

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cafe, err := getCafe(tx, id)
		if err != nil {
			return err
		}

		var clash int64
		if err := tx.Model(&models.Cafe{}).
			Where("name = ? AND id <> ?", fields.Name, id).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrDuplicateName
		}

		fields.Apply(cafe)
		if err := tx.Save(cafe).Error; err != nil {
			return err
		}
		updated = cafe
		return nil
	})

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateName):
		return nil, err
	case isUniqueViolation(err):
		return nil, ErrDuplicateName
	default:
		return nil, fmt.Errorf("update cafe %d: %w", id, err)
	}
}

// Delete removes cafe id, returning the deleted row.
func (s *CafeStore) Delete(ctx context.Context, id uint) (*models.Cafe, error) {
	var deleted *models.Cafe

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cafe, err := getCafe(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(cafe).Error; err != nil {
			return err
		}
		deleted = cafe
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("delete cafe %d: %w", id, err)
	}
	return deleted, nil
}

func getCafe(db *gorm.DB, id uint) (*models.Cafe, error) {
	var cafe models.Cafe
	err := db.First(&cafe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cafe %d: %w", id, err)
	}
	return &cafe, nil
}
