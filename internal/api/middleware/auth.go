package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/studytask/studytask-api/internal/api/shared"
	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/redact"
	"github.com/studytask/studytask-api/internal/service/identity"
)

// AuthMiddleware gates routes behind bearer-token authentication and account
// resolution.
type AuthMiddleware struct {
	resolver identity.Resolver
}

// NewAuthMiddleware creates a new AuthMiddleware with the given resolver.
func NewAuthMiddleware(resolver identity.Resolver) *AuthMiddleware {
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	return &AuthMiddleware{resolver: resolver}
}

// RequireAccount verifies the Authorization header, resolves the caller's
// account, and stores it in the request context. The failure mapping keeps
// the three outcomes apart:
//   - rejected token: 401, no hint about which check failed
//   - valid token but no account yet: 401 directing the caller to register
//   - storage fault: 500, never a 401 that would tell the client to re-login
func (m *AuthMiddleware) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := m.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrUnauthenticated):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			case errors.Is(err, identity.ErrUnregistered):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Account not registered")
			default:
				slog.Error("failed to resolve account", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.AccountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAccount extracts the resolved account from the request context.
// Returns the account and a boolean indicating if it was found.
func GetAccount(r *http.Request) (*domain.Account, bool) {
	account, ok := r.Context().Value(shared.AccountContextKey).(*domain.Account)
	return account, ok
}
