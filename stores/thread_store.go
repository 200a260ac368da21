package stores

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/models"
)

// ThreadStore persists threads. Ownership and validation rules live in the
// service layer; the store only translates storage outcomes into the domain
// taxonomy.
type ThreadStore struct {
	db *gorm.DB
}

// NewThreadStore creates a ThreadStore bound to db.
func NewThreadStore(db *gorm.DB) *ThreadStore {
	return &ThreadStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *ThreadStore) WithTx(tx *gorm.DB) *ThreadStore {
	return &ThreadStore{db: tx}
}

// Create inserts a new thread.
func (s *ThreadStore) Create(thread *models.Thread) error {
	return s.db.Create(thread).Error
}

// FindByID loads a thread with its category.
func (s *ThreadStore) FindByID(id uint) (*models.Thread, error) {
	var thread models.Thread
	if err := s.db.Preload("Category").First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, err
	}
	return &thread, nil
}

// Update persists the mutable columns only; created_at and author stay
// untouched regardless of what the passed struct carries.
func (s *ThreadStore) Update(thread *models.Thread) error {
	return s.db.Model(thread).
		Select("title", "content", "category_id").
		Updates(map[string]interface{}{
			"title":       thread.Title,
			"content":     thread.Content,
			"category_id": thread.CategoryID,
		}).Error
}

// Delete removes a thread row. Posts are removed by the caller inside the
// same transaction; the FK cascade is a backstop for out-of-band deletes.
func (s *ThreadStore) Delete(id uint) error {
	return s.db.Delete(&models.Thread{}, id).Error
}

// List returns all threads in storage default order.
func (s *ThreadStore) List() ([]models.Thread, error) {
	var threads []models.Thread
	if err := s.db.Preload("Category").Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

// ListByCategory returns threads under one category.
func (s *ThreadStore) ListByCategory(categoryID uint) ([]models.Thread, error) {
	var threads []models.Thread
	if err := s.db.Preload("Category").Where("category_id = ?", categoryID).Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}
