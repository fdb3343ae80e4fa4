package store

import (
	"context"
	"errors"
	"fmt"

	"cafe-directory/models"

	"gorm.io/gorm"
)

// UserStore is the user directory.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail returns ErrNotFound when no user has the email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns ErrNotFound when no user has the id.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// Create registers a user. The email lookup is only a fast path; the unique
// index decides when two registrations race.
func (s *UserStore) Create(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	if _, err := s.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}
