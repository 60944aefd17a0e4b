package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/device"
	"github.com/stepanovd/tasktrack/internal/hash"
	"github.com/stepanovd/tasktrack/internal/models"
	"github.com/stepanovd/tasktrack/internal/repo"
	"github.com/stepanovd/tasktrack/internal/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}, &models.Task{}))

	return &AuthService{
		Repo:   repo.New(db),
		Hasher: hash.New(bcrypt.MinCost),
		Codec:  tokens.NewCodec([]byte("test-secret"), time.Hour),
	}
}

func testDevice() device.Info {
	return device.Info{Device: "Chrome on Windows", Browser: "Chrome", OS: "Windows", IPAddress: "127.0.0.1"}
}

func register(t *testing.T, svc *AuthService, username, email string) *AuthResult {
	t.Helper()

	res, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "Password123!",
	}, testDevice())
	require.NoError(t, err)
	return res
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	res := register(t, svc, "alice", "alice@example.com")

	require.NotEmpty(t, res.Token)
	claims, err := svc.Codec.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// The serialized user view must never expose the hash.
	data, err := json.Marshal(res.User)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), res.User.PasswordHash)

	sessions, err := svc.Repo.SessionsByUser(context.Background(), res.User.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, res.Token, sessions[0].Token)
	assert.Equal(t, "Chrome on Windows", sessions[0].Device)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	res := register(t, svc, "alice", "Alice@Example.COM")
	assert.Equal(t, "alice@example.com", res.User.Email)
}

func TestRegisterConflicts(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "new@example.com", Password: "Password123!"}, testDevice())
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, e.Status)
	assert.Equal(t, "Username already in use", e.Message)

	// Same normalized form as the stored email.
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "ALICE@example.com", Password: "Password123!"}, testDevice())
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, e.Status)
	assert.Equal(t, "Email already in use", e.Message)
}

func TestLoginGenericUnauthorized(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "alice@example.com")

	_, wrongPassword := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"}, testDevice())
	_, unknownEmail := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"}, testDevice())

	e1, ok := apperr.As(wrongPassword)
	require.True(t, ok)
	e2, ok := apperr.As(unknownEmail)
	require.True(t, ok)

	assert.Equal(t, 401, e1.Status)
	assert.Equal(t, 401, e2.Status)
	assert.Equal(t, e1.Message, e2.Message)
	assert.Equal(t, "Invalid email or password", e1.Message)
}

func TestLoginSuccessCreatesSession(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	reg := register(t, svc, "alice", "alice@example.com")

	res, err := svc.Login(ctx, LoginInput{Email: "Alice@Example.com", Password: "Password123!"}, testDevice())
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.NotEqual(t, reg.Token, res.Token)

	sessions, err := svc.Repo.SessionsByUser(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "alice@example.com")
	bob := register(t, svc, "bob", "bob@example.com")

	_, err := svc.UpdateProfile(ctx, bob.User.ID, UpdateProfileInput{Email: "ALICE@example.com"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, e.Status)
	assert.Equal(t, "Email already in use", e.Message)

	updated, err := svc.UpdateProfile(ctx, bob.User.ID, UpdateProfileInput{Username: "bobby", Email: "Bobby@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "bobby", updated.Username)
	assert.Equal(t, "bobby@example.com", updated.Email)

	// Re-using your own email is not a conflict.
	_, err = svc.UpdateProfile(ctx, bob.User.ID, UpdateProfileInput{Email: "bobby@example.com"})
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	res := register(t, svc, "alice", "alice@example.com")

	err := svc.ChangePassword(ctx, res.User.ID, "wrong-password", "NewPassword123!")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, e.Status)
	assert.Equal(t, "Current password is incorrect", e.Message)

	require.NoError(t, svc.ChangePassword(ctx, res.User.ID, "Password123!", "NewPassword123!"))

	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Password123!"}, testDevice())
	require.Error(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "NewPassword123!"}, testDevice())
	require.NoError(t, err)

	// Setting the same password again is allowed by policy.
	require.NoError(t, svc.ChangePassword(ctx, res.User.ID, "NewPassword123!", "NewPassword123!"))
}

func TestProfileNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	res := register(t, svc, "alice", "alice@example.com")

	user, err := svc.Profile(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Profile(context.Background(), uuid.New())
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, e.Status)
}
