package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/models"
)

func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SessionsByUser(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_active DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *GormRepo) SessionByToken(ctx context.Context, userID uuid.UUID, token string) (*models.Session, error) {
	var session models.Session
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormRepo) TouchSession(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("last_active", time.Now().UTC()).Error
}

// DeleteSession removes the session only if it belongs to userID. A session
// owned by someone else is indistinguishable from a missing one.
func (r *GormRepo) DeleteSession(ctx context.Context, id, userID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOtherSessions deletes every session of userID except the one holding
// token, and returns how many went away.
func (r *GormRepo) DeleteOtherSessions(ctx context.Context, userID uuid.UUID, token string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND token <> ?", userID, token).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("last_active < ?", cutoff).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
