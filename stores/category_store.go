package stores

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/models"
)

// CategoryStore persists categories. Categories are append-only; there is no
// delete path.
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a CategoryStore bound to db.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *CategoryStore) WithTx(tx *gorm.DB) *CategoryStore {
	return &CategoryStore{db: tx}
}

// ListAll returns all categories in insertion order.
func (s *CategoryStore) ListAll() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts a category with the given name.
func (s *CategoryStore) Create(name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByID resolves a category id.
func (s *CategoryStore) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Seed inserts models.SeedCategories when the table is empty. The emptiness
// check and the inserts share one transaction so that concurrent first starts
// cannot double-seed; the call is idempotent and meant to run once at boot,
// before request handling begins.
func (s *CategoryStore) Seed() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, name := range models.SeedCategories {
			if err := tx.Create(&models.Category{Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
