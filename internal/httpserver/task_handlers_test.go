package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token, _ := env.register(t, "alice", "alice@x.com", "Password123!")

	rec := env.do(t, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":       "Write report",
		"description": "quarterly numbers",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeBody(t, rec)["task"].(map[string]any)
	assert.Equal(t, "todo", task["status"])
	taskID := task["id"].(string)

	rec = env.do(t, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["tasks"].([]any), 1)

	rec = env.do(t, http.MethodPut, "/api/tasks/"+taskID, token, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", decodeBody(t, rec)["task"].(map[string]any)["status"])

	rec = env.do(t, http.MethodDelete, "/api/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/tasks/"+taskID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token, _ := env.register(t, "alice", "alice@x.com", "Password123!")

	rec := env.do(t, http.MethodPost, "/api/tasks", token, map[string]string{"title": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":  "ok",
		"status": "bogus",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeBody(t, rec)["errors"].(map[string]any)
	assert.Contains(t, errs, "status")
}

func TestTaskOwnership(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "alice", "alice@x.com", "Password123!")
	bobToken, _ := env.register(t, "bob", "bob@x.com", "Password123!")

	rec := env.do(t, http.MethodPost, "/api/tasks", aliceToken, map[string]string{"title": "secret plan"})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := decodeBody(t, rec)["task"].(map[string]any)["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body any
		if method == http.MethodPut {
			body = map[string]string{"title": "hijacked"}
		}
		rec := env.do(t, method, "/api/tasks/"+taskID, bobToken, body)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestTaskSearchRequiresQuery(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token, _ := env.register(t, "alice", "alice@x.com", "Password123!")

	rec := env.do(t, http.MethodGet, "/api/tasks/search", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation error", decodeBody(t, rec)["message"])
}
