package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/hash"
	"github.com/stepanovd/tasktrack/internal/middleware"
	"github.com/stepanovd/tasktrack/internal/models"
	"github.com/stepanovd/tasktrack/internal/repo"
	"github.com/stepanovd/tasktrack/internal/service"
	"github.com/stepanovd/tasktrack/internal/tokens"
)

type testEnv struct {
	e     *echo.Echo
	repo  *repo.GormRepo
	codec *tokens.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}, &models.Task{}))

	r := repo.New(db)
	hasher := hash.New(bcrypt.MinCost)
	codec := tokens.NewCodec([]byte("test-secret"), time.Hour)

	authSvc := &service.AuthService{Repo: r, Hasher: hasher, Codec: codec}
	sessionSvc := &service.SessionService{Repo: r, Retention: 7 * 24 * time.Hour}
	taskSvc := &service.TaskService{Repo: r}

	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler()

	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		SessionHandler: &SessionHTTP{Svc: sessionSvc},
		TaskHandler:    &TaskHTTP{Svc: taskSvc},
		Auth:           middleware.NewAuth(codec, r),
	})

	return &testEnv{e: e, repo: r, codec: codec}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var data map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	return data
}

func (env *testEnv) register(t *testing.T, username, email, password string) (string, map[string]any) {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeBody(t, rec)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token, data
}

func newExpiredToken(t *testing.T) string {
	t.Helper()

	expiredCodec := tokens.NewCodec([]byte("test-secret"), -time.Minute)
	token, err := expiredCodec.Issue(&models.User{Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)
	return token
}

func (env *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}
