package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/device"
	"github.com/stepanovd/tasktrack/internal/hash"
	"github.com/stepanovd/tasktrack/internal/logging"
	"github.com/stepanovd/tasktrack/internal/models"
	"github.com/stepanovd/tasktrack/internal/mykafka"
	"github.com/stepanovd/tasktrack/internal/repo"
	"github.com/stepanovd/tasktrack/internal/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Hasher   *hash.Hasher
	Codec    *tokens.Codec
	Producer *mykafka.Producer
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Username string
	Email    string
}

type AuthResult struct {
	Token string
	User  *models.User
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput, dev device.Info) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")
	email := strings.ToLower(in.Email)

	// Advisory pre-checks for friendly field-specific conflicts. The unique
	// indexes are authoritative; CreateUser handles the race.
	if taken, err := s.Repo.UsernameTaken(ctx, in.Username, uuid.Nil); err != nil {
		return nil, apperr.Internal(err)
	} else if taken {
		return nil, apperr.Conflict("Username already in use")
	}
	if taken, err := s.Repo.EmailTaken(ctx, email, uuid.Nil); err != nil {
		return nil, apperr.Internal(err)
	} else if taken {
		return nil, apperr.Conflict("Email already in use")
	}

	pwHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return nil, apperr.Internal(err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, apperr.Conflict("Username already in use")
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, apperr.Conflict("Email already in use")
		}
		l.Error("register_failed", "reason", "db_error", "error", err)
		return nil, apperr.Internal(err)
	}

	token, err := s.Codec.Issue(&user)
	if err != nil {
		l.Error("register_failed", "reason", "cannot create token", "error", err)
		return nil, apperr.Internal(err)
	}

	s.recordSession(ctx, user.ID, token, dev)
	s.publish(ctx, "user.registered", &user)

	l.Info("register_success", "user_id", user.ID)
	return &AuthResult{Token: token, User: &user}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput, dev device.Info) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")
	email := strings.ToLower(in.Email)

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a password mismatch so callers cannot probe
			// which emails are registered.
			l.Warn("login_failed", "reason", "unknown_email")
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, apperr.Internal(err)
	}

	if !s.Hasher.Verify(user.PasswordHash, in.Password) {
		l.Warn("login_failed", "reason", "password_mismatch", "user_id", user.ID)
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.Codec.Issue(user)
	if err != nil {
		l.Error("login_failed", "reason", "cannot create token", "error", err)
		return nil, apperr.Internal(err)
	}

	s.recordSession(ctx, user.ID, token, dev)
	s.publish(ctx, "user.logged_in", user)

	l.Info("login_success", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		if taken, err := s.Repo.UsernameTaken(ctx, in.Username, userID); err != nil {
			return nil, apperr.Internal(err)
		} else if taken {
			return nil, apperr.Conflict("Username already in use")
		}
		user.Username = in.Username
	}
	if in.Email != "" {
		email := strings.ToLower(in.Email)
		if taken, err := s.Repo.EmailTaken(ctx, email, userID); err != nil {
			return nil, apperr.Internal(err)
		} else if taken {
			return nil, apperr.Conflict("Email already in use")
		}
		user.Email = email
	}

	if err := s.Repo.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, apperr.Conflict("Username already in use")
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, apperr.Conflict("Email already in use")
		}
		return nil, apperr.Internal(err)
	}
	return s.Profile(ctx, userID)
}

// ChangePassword stores the new hash unconditionally once the current
// password checks out; it does not require the new password to differ.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", userID)

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !s.Hasher.Verify(user.PasswordHash, current) {
		l.Warn("change_password_failed", "reason", "current_mismatch")
		return apperr.Unauthorized("Current password is incorrect")
	}

	pwHash, err := s.Hasher.Hash(next)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.Repo.UpdatePassword(ctx, userID, pwHash); err != nil {
		return apperr.Internal(err)
	}
	l.Info("password_changed")
	return nil
}

// recordSession is best-effort: a user must be able to log in even if
// session bookkeeping fails.
func (s *AuthService) recordSession(ctx context.Context, userID uuid.UUID, token string, dev device.Info) {
	session := models.Session{
		UserID:    userID,
		Token:     token,
		Device:    dev.Device,
		Browser:   dev.Browser,
		OS:        dev.OS,
		IPAddress: dev.IPAddress,
	}
	if err := s.Repo.CreateSession(ctx, &session); err != nil {
		logging.FromContext(ctx).Warn("session_create_failed", "user_id", userID, "error", err)
	}
}

func (s *AuthService) publish(ctx context.Context, eventType string, user *models.User) {
	if s.Producer == nil {
		return
	}
	event := map[string]any{
		"type":     eventType,
		"userId":   user.ID.String(),
		"username": user.Username,
	}
	if err := s.Producer.PublishEvent(ctx, user.ID.String(), event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "type", eventType, "error", err)
	}
}
