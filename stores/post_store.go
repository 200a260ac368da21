package stores

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/models"
)

// PostStore persists replies.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore creates a PostStore bound to db.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostStore) WithTx(tx *gorm.DB) *PostStore {
	return &PostStore{db: tx}
}

// Create inserts a new post.
func (s *PostStore) Create(post *models.Post) error {
	return s.db.Create(post).Error
}

// FindByID loads a post.
func (s *PostStore) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdateContent persists the content column only.
func (s *PostStore) UpdateContent(post *models.Post) error {
	return s.db.Model(post).
		Select("content").
		Updates(map[string]interface{}{"content": post.Content}).Error
}

// Delete removes a post row.
func (s *PostStore) Delete(id uint) error {
	return s.db.Delete(&models.Post{}, id).Error
}

// DeleteByThread removes all posts under a thread. Called inside the
// thread-delete transaction so the cascade is part of the same logical
// operation.
func (s *PostStore) DeleteByThread(threadID uint) error {
	return s.db.Where("thread_id = ?", threadID).Delete(&models.Post{}).Error
}

// ListByThread returns a thread's posts in creation order.
func (s *PostStore) ListByThread(threadID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("thread_id = ?", threadID).Order("created_at ASC, id ASC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
