package repository

import (
	"context"
	"errors"
	"fmt"

	"math-operations-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when no user has the requested username.
var ErrUserNotFound = errors.New("user not found")

// Users stores administrative accounts.
type Users struct {
	db *gorm.DB
}

// NewUsers returns a Users backed by db.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// FindByUsername looks up a user by name.
func (u *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	return &user, nil
}

// EnsureAdmin creates the user, or replaces its password hash if it already exists.
func (u *Users) EnsureAdmin(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user, err := u.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user = &models.User{
			ID:           uuid.NewString(),
			Username:     username,
			PasswordHash: passwordHash,
		}
		if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		return user, nil
	case err != nil:
		return nil, err
	}

	if err := u.db.WithContext(ctx).Model(user).Update("password_hash", passwordHash).Error; err != nil {
		return nil, fmt.Errorf("update user %s: %w", username, err)
	}
	user.PasswordHash = passwordHash
	return user, nil
}
