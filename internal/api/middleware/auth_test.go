package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studytask/studytask-api/internal/api/middleware"
	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/mocks"
	"github.com/studytask/studytask-api/internal/service/identity"
)

// newGate wires a real verifier and resolver over in-memory fakes so the
// middleware is exercised end to end.
func newGate(t *testing.T, registered bool) (*middleware.AuthMiddleware, *mocks.MemoryAccountStore) {
	t.Helper()

	provider := &mocks.StaticProvider{
		Subjects: map[string]string{"good-token": "subject-1"},
	}
	accounts := mocks.NewMemoryAccountStore()

	if registered {
		account, err := domain.NewAccount("subject-1", "Alex Doe")
		require.NoError(t, err)
		require.NoError(t, accounts.Create(context.Background(), account))
	}

	verifier := identity.NewVerifier(provider, nil)
	resolver := identity.NewResolver(verifier, accounts, nil)
	return middleware.NewAuthMiddleware(resolver), accounts
}

// okHandler records the account the middleware resolved.
func okHandler(got **domain.Account) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := middleware.GetAccount(r)
		if !ok {
			http.Error(w, "no account in context", http.StatusInternalServerError)
			return
		}
		*got = account
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAccount_ResolvesAndStoresAccount(t *testing.T) {
	gate, _ := newGate(t, true)

	var got *domain.Account
	handler := gate.RequireAccount(okHandler(&got))

	req := httptest.NewRequest("GET", "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "subject-1", got.Subject)
	assert.Equal(t, "Alex Doe", got.DisplayName)
}

func TestRequireAccount_RejectedTokens(t *testing.T) {
	gate, _ := newGate(t, true)
	handler := gate.RequireAccount(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected requests")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic good-token"},
		{"empty token", "Bearer "},
		{"unknown token", "Bearer forged-token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Invalid token", resp["error"],
				"every rejection reads the same regardless of cause")
		})
	}
}

func TestRequireAccount_UnregisteredSubject(t *testing.T) {
	gate, _ := newGate(t, false)
	handler := gate.RequireAccount(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for unregistered callers")
	}))

	req := httptest.NewRequest("GET", "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Account not registered", resp["error"])
}

func TestRequireAccount_StorageFaultIs500(t *testing.T) {
	gate, accounts := newGate(t, true)
	accounts.GetBySubjectFn = func(ctx context.Context, subject string) (*domain.Account, error) {
		return nil, assert.AnError
	}
	handler := gate.RequireAccount(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run when resolution fails")
	}))

	req := httptest.NewRequest("GET", "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code,
		"a storage fault must not read as a credential problem")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestGetAccount_AbsentFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/tasks", nil)
	account, ok := middleware.GetAccount(req)
	assert.False(t, ok)
	assert.Nil(t, account)
}
