package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studytask/studytask-api/internal/config"
	"github.com/studytask/studytask-api/internal/mocks"
	"github.com/studytask/studytask-api/internal/service"
	"github.com/studytask/studytask-api/internal/service/identity"
)

// newTestApplication builds an application over in-memory stores and a
// static token provider, skipping the database entirely.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	provider := &mocks.StaticProvider{
		Subjects: map[string]string{"token-1": "subject-1"},
	}
	accounts := mocks.NewMemoryAccountStore()
	tasks := mocks.NewMemoryTaskStore()
	accounts.Tasks = tasks

	logger := slog.Default()
	verifier := identity.NewVerifier(provider, logger)

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		},
		logger:       logger,
		accountStore: accounts,
		taskStore:    tasks,
		resolver:     identity.NewResolver(verifier, accounts, logger),
		taskService:  service.NewTaskService(tasks, logger),
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRouter_TaskRoutesGated(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RegisterThenUseTasks(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Task routes reject a valid token until the subject registers.
	assert.Equal(t, http.StatusUnauthorized, do("GET", "/api/tasks", "").Code)

	require.Equal(t, http.StatusOK, do("POST", "/api/users/me", `{"full_name":"Alex Doe"}`).Code)

	created := do("POST", "/api/tasks", `{"title":"Write report"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	var task struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &task))

	listed := do("GET", "/api/tasks", "")
	require.Equal(t, http.StatusOK, listed.Code)
	assert.Contains(t, listed.Body.String(), "Write report")

	// Responses carry a trace ID on errors thanks to the trace middleware.
	missing := do("GET", "/api/tasks/999", "")
	require.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "trace_id")
}
