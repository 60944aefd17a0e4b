package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/models"
)

var (
	ErrDuplicateUsername = errors.New("username already in use")
	ErrDuplicateEmail    = errors.New("email already in use")
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.duplicateField(ctx, u.ID, u.Username, u.Email)
		}
		return err
	}
	return nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByEmail expects email already normalized to lowercase; lookups are
// exact-match against the normalized stored value.
func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UsernameTaken(ctx context.Context, username string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exclude).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exclude).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepo) UpdateUser(ctx context.Context, u *models.User) error {
	err := r.DB.WithContext(ctx).Model(u).
		Updates(map[string]any{"username": u.Username, "email": u.Email}).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.duplicateField(ctx, u.ID, u.Username, u.Email)
	}
	return err
}

func (r *GormRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// duplicateField resolves which unique index a duplicate-key error hit, so a
// race lost against a concurrent write reports the same field-specific
// conflict the advisory pre-check would have.
func (r *GormRepo) duplicateField(ctx context.Context, id uuid.UUID, username, email string) error {
	if taken, err := r.UsernameTaken(ctx, username, id); err == nil && taken {
		return ErrDuplicateUsername
	}
	if taken, err := r.EmailTaken(ctx, email, id); err == nil && taken {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}
