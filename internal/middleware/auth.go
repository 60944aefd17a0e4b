package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/logging"
	"github.com/stepanovd/tasktrack/internal/repo"
	"github.com/stepanovd/tasktrack/internal/tokens"
)

const (
	bearerPrefix = "Bearer "

	claimsKey = "auth_claims"
	tokenKey  = "auth_token"
)

type Auth struct {
	Codec *tokens.Codec
	Repo  *repo.GormRepo
}

func NewAuth(codec *tokens.Codec, r *repo.GormRepo) *Auth {
	return &Auth{Codec: codec, Repo: r}
}

// RequireAuth gates protected routes: bearer token present, signature and
// expiry valid, and a live session row for that exact token. A valid token
// without a session row is rejected — revocation wins.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return apperr.Unauthorized("Missing or invalid token")
		}
		raw := strings.TrimPrefix(header, bearerPrefix)

		claims, err := m.Codec.Verify(raw)
		if err != nil {
			// Expired vs malformed matters for diagnostics, not for the caller.
			l.Warn("token_rejected", "reason", err.Error())
			return apperr.Unauthorized("Invalid or expired token")
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			l.Warn("token_rejected", "reason", "bad_subject")
			return apperr.Unauthorized("Invalid or expired token")
		}

		session, err := m.Repo.SessionByToken(ctx, userID, raw)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.Warn("session_revoked", "user_id", userID)
				return apperr.Unauthorized("Session has been revoked. Please sign in again.")
			}
			return apperr.Internal(err)
		}

		// Fire-and-forget activity refresh; the request does not wait on it.
		go func(id uuid.UUID) {
			touchCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := m.Repo.TouchSession(touchCtx, id); err != nil {
				l.Debug("session_touch_failed", "session_id", id, "error", err)
			}
		}(session.ID)

		c.Set(claimsKey, claims)
		c.Set(tokenKey, raw)
		return next(c)
	}
}

func CurrentClaims(c echo.Context) *tokens.AuthClaims {
	if claims, ok := c.Get(claimsKey).(*tokens.AuthClaims); ok {
		return claims
	}
	return nil
}

func CurrentToken(c echo.Context) string {
	if token, ok := c.Get(tokenKey).(string); ok {
		return token
	}
	return ""
}

func CurrentUserID(c echo.Context) uuid.UUID {
	if claims := CurrentClaims(c); claims != nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			return id
		}
	}
	return uuid.Nil
}
