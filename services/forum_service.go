package services

import (
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/models"
	"github.com/opentalk/forum/stores"
)

// ForumService enforces ownership and referential rules across the thread,
// post and category stores. Every read-then-write sequence (update/delete)
// runs inside a single transaction so the ownership check and the mutation
// cannot be split by a concurrent edit.
type ForumService struct {
	db         *gorm.DB
	threads    *stores.ThreadStore
	posts      *stores.PostStore
	categories *stores.CategoryStore
}

// NewForumService creates a ForumService over db.
func NewForumService(db *gorm.DB) *ForumService {
	return &ForumService{
		db:         db,
		threads:    stores.NewThreadStore(db),
		posts:      stores.NewPostStore(db),
		categories: stores.NewCategoryStore(db),
	}
}

func validateThreadFields(title, content string) error {
	if n := utf8.RuneCountInString(title); n < models.ThreadTitleMin || n > models.ThreadTitleMax {
		return &apperrors.ValidationError{Field: "title", Message: "must be between 5 and 200 characters"}
	}
	if n := utf8.RuneCountInString(content); n < models.ThreadContentMin || n > models.ThreadContentMax {
		return &apperrors.ValidationError{Field: "content", Message: "must be between 10 and 10000 characters"}
	}
	return nil
}

func orAnonymous(author string) string {
	if author == "" {
		return models.AnonymousAuthor
	}
	return author
}

// isOwner is the exact, case-sensitive author match behind every update and
// delete. The anonymous sentinel never owns anything: registration reserves
// the name, and a sessionless caller matching an anonymous author would
// otherwise hand every drive-by thread to whoever asks.
func isOwner(author, caller string) bool {
	if caller == "" || caller == models.AnonymousAuthor {
		return false
	}
	return author == caller
}

// Categories returns all categories in insertion order.
func (s *ForumService) Categories() ([]models.Category, error) {
	return s.categories.ListAll()
}

// CreateCategory adds a category ad hoc.
func (s *ForumService) CreateCategory(name string) (*models.Category, error) {
	if name == "" {
		return nil, &apperrors.ValidationError{Field: "name", Message: "must not be empty"}
	}
	return s.categories.Create(name)
}

// CreateThread validates field bounds, resolves the category and persists the
// thread. Author is the caller's identity or "anonymous"; CreatedAt is set by
// the insert and immutable afterwards.
func (s *ForumService) CreateThread(title, content string, categoryID uint, author string) (*models.Thread, error) {
	if err := validateThreadFields(title, content); err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(categoryID)
	if err != nil {
		return nil, err
	}
	thread := models.Thread{
		Title:      title,
		Content:    content,
		CategoryID: category.ID,
		Category:   *category,
		Author:     orAnonymous(author),
	}
	if err := s.threads.Create(&thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetThread loads one thread with its category.
func (s *ForumService) GetThread(id uint) (*models.Thread, error) {
	return s.threads.FindByID(id)
}

// ListThreads returns all threads in storage default order.
func (s *ForumService) ListThreads() ([]models.Thread, error) {
	return s.threads.List()
}

// ListThreadsByCategory returns the threads under one category.
func (s *ForumService) ListThreadsByCategory(categoryID uint) ([]models.Thread, error) {
	return s.threads.ListByCategory(categoryID)
}

// UpdateThread replaces title, content and category after the ownership
// check. The author field is an exact, case-sensitive match against the
// stored value; no role-based override exists.
func (s *ForumService) UpdateThread(id uint, title, content string, categoryID uint, caller string) (*models.Thread, error) {
	var updated *models.Thread
	err := s.db.Transaction(func(tx *gorm.DB) error {
		threads := s.threads.WithTx(tx)
		thread, err := threads.FindByID(id)
		if err != nil {
			return err
		}
		if !isOwner(thread.Author, caller) {
			return apperrors.ErrUnauthorized
		}
		if err := validateThreadFields(title, content); err != nil {
			return err
		}
		category, err := s.categories.WithTx(tx).FindByID(categoryID)
		if err != nil {
			return err
		}
		thread.Title = title
		thread.Content = content
		thread.CategoryID = category.ID
		thread.Category = *category
		if err := threads.Update(thread); err != nil {
			return err
		}
		updated = thread
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteThread removes a thread and all its posts as one logical operation.
func (s *ForumService) DeleteThread(id uint, caller string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		threads := s.threads.WithTx(tx)
		thread, err := threads.FindByID(id)
		if err != nil {
			return err
		}
		if !isOwner(thread.Author, caller) {
			return apperrors.ErrUnauthorized
		}
		if err := s.posts.WithTx(tx).DeleteByThread(thread.ID); err != nil {
			return err
		}
		return threads.Delete(thread.ID)
	})
}

// CreatePost appends a reply to an existing thread.
func (s *ForumService) CreatePost(threadID uint, content, author string) (*models.Post, error) {
	if content == "" {
		return nil, &apperrors.ValidationError{Field: "content", Message: "must not be empty"}
	}
	thread, err := s.threads.FindByID(threadID)
	if err != nil {
		return nil, err
	}
	post := models.Post{
		ThreadID: thread.ID,
		Content:  content,
		Author:   orAnonymous(author),
	}
	if err := s.posts.Create(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPost loads one post.
func (s *ForumService) GetPost(id uint) (*models.Post, error) {
	return s.posts.FindByID(id)
}

// ListPostsByThread returns a thread's posts in creation order.
func (s *ForumService) ListPostsByThread(threadID uint) ([]models.Post, error) {
	return s.posts.ListByThread(threadID)
}

// UpdatePost replaces a post's content after the ownership check.
func (s *ForumService) UpdatePost(id uint, content, caller string) (*models.Post, error) {
	var updated *models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		post, err := posts.FindByID(id)
		if err != nil {
			return err
		}
		if !isOwner(post.Author, caller) {
			return apperrors.ErrUnauthorized
		}
		if content == "" {
			return &apperrors.ValidationError{Field: "content", Message: "must not be empty"}
		}
		post.Content = content
		if err := posts.UpdateContent(post); err != nil {
			return err
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost removes a post after the ownership check.
func (s *ForumService) DeletePost(id uint, caller string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		post, err := posts.FindByID(id)
		if err != nil {
			return err
		}
		if !isOwner(post.Author, caller) {
			return apperrors.ErrUnauthorized
		}
		return posts.Delete(post.ID)
	})
}
