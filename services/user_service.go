package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/models"
	"github.com/opentalk/forum/stores"
	"github.com/opentalk/forum/utils"
)

// UserService handles registration and principal lookup. Credential
// verification for login stays here too so the HTTP layer never sees a
// password hash.
type UserService struct {
	db    *gorm.DB
	users *stores.UserStore
}

// NewUserService creates a UserService over db.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, users: stores.NewUserStore(db)}
}

// NormalizeIdentity trims whitespace and lowercases, the canonical form for
// usernames and emails everywhere in the system.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates an account. The raw password is bcrypt-hashed and
// discarded; username and email are normalized before the duplicate checks so
// " Alice " collides with an existing "alice". The pre-checks give friendly
// errors, the unique indexes close the remaining check-then-insert race.
func (s *UserService) Register(username, email, rawPassword string) (*models.User, error) {
	username = NormalizeIdentity(username)
	email = NormalizeIdentity(email)

	if username == "" {
		return nil, &apperrors.ValidationError{Field: "username", Message: "must not be empty"}
	}
	if email == "" {
		return nil, &apperrors.ValidationError{Field: "email", Message: "must not be empty"}
	}
	if strings.TrimSpace(rawPassword) == "" {
		return nil, &apperrors.ValidationError{Field: "password", Message: "must not be empty"}
	}
	// The sentinel recorded on sessionless threads and posts must never be a
	// real account, or its owner would pass the author check on all of them.
	if username == models.AnonymousAuthor {
		return nil, &apperrors.ValidationError{Field: "username", Message: "is reserved"}
	}

	if _, err := s.users.FindByUsername(username); err == nil {
		return nil, apperrors.ErrDuplicateUsername
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(strings.TrimSpace(rawPassword))
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.DefaultRole,
	}
	if err := s.users.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; figure out which constraint fired.
			if _, lookupErr := s.users.FindByUsername(username); lookupErr == nil {
				return nil, apperrors.ErrDuplicateUsername
			}
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername materializes a principal for the authentication layer.
func (s *UserService) FindByUsername(username string) (*models.User, error) {
	return s.users.FindByUsername(NormalizeIdentity(username))
}

// Authenticate verifies credentials and returns the matching user. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(NormalizeIdentity(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}
