package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/logging"
	"github.com/stepanovd/tasktrack/internal/mykafka"
	"github.com/stepanovd/tasktrack/internal/repo"
)

type SessionService struct {
	Repo      *repo.GormRepo
	Producer  *mykafka.Producer
	Retention time.Duration
}

// SessionView is the user-facing shape; the token itself never leaves the
// store, only the "current" flag derived from it.
type SessionView struct {
	ID         uuid.UUID `json:"id"`
	Device     string    `json:"device"`
	Browser    string    `json:"browser,omitempty"`
	OS         string    `json:"os,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	Location   string    `json:"location,omitempty"`
	LastActive time.Time `json:"lastActive"`
	CreatedAt  time.Time `json:"createdAt"`
	Current    bool      `json:"current"`
}

func (s *SessionService) List(ctx context.Context, userID uuid.UUID, currentToken string) ([]SessionView, error) {
	sessions, err := s.Repo.SessionsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	views := make([]SessionView, len(sessions))
	for i, sess := range sessions {
		views[i] = SessionView{
			ID:         sess.ID,
			Device:     sess.Device,
			Browser:    sess.Browser,
			OS:         sess.OS,
			IPAddress:  sess.IPAddress,
			Location:   sess.Location,
			LastActive: sess.LastActive,
			CreatedAt:  sess.CreatedAt,
			Current:    sess.Token == currentToken,
		}
	}
	return views, nil
}

func (s *SessionService) Revoke(ctx context.Context, sessionID, userID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "sessions.revoke", "session_id", sessionID)

	if err := s.Repo.DeleteSession(ctx, sessionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Session not found")
		}
		return apperr.Internal(err)
	}

	if s.Producer != nil {
		event := map[string]any{
			"type":      "session.revoked",
			"userId":    userID.String(),
			"sessionId": sessionID.String(),
		}
		if err := s.Producer.PublishEvent(ctx, userID.String(), event); err != nil {
			l.Warn("kafka_publish_failed", "error", err)
		}
	}

	l.Info("session_revoked")
	return nil
}

// RevokeOthers is "log out everywhere else": it must never remove the
// session matching currentToken.
func (s *SessionService) RevokeOthers(ctx context.Context, userID uuid.UUID, currentToken string) (int64, error) {
	count, err := s.Repo.DeleteOtherSessions(ctx, userID, currentToken)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	logging.FromContext(ctx).Info("sessions_revoked", "user_id", userID, "count", count)
	return count, nil
}

func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.Retention)
	return s.Repo.DeleteStaleSessions(ctx, cutoff)
}

// RunSweeper deletes stale sessions on a fixed interval until ctx is done.
// Sweeping is idempotent, so no coordination with revokes is needed.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	l := logging.FromContext(ctx).With("svc", "sessions.sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.Sweep(ctx)
			if err != nil {
				l.Warn("sweep_failed", "error", err)
				continue
			}
			if count > 0 {
				l.Info("sweep_done", "removed", count)
			}
		}
	}
}
