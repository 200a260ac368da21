package stores

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/models"
)

// UserStore persists accounts. Lookups expect already-normalized usernames and
// emails (trimmed, lowercased); normalization is the service's job.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore bound to db.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *UserStore) WithTx(tx *gorm.DB) *UserStore {
	return &UserStore{db: tx}
}

// Create inserts a new user row. The unique indexes on username and email are
// the last line of defense against concurrent registrations; a violation
// surfaces as gorm.ErrDuplicatedKey.
func (s *UserStore) Create(user *models.User) error {
	return s.db.Create(user).Error
}

// FindByUsername returns the user with the given normalized username.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns the user with the given normalized email.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
