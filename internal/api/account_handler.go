package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/studytask/studytask-api/internal/api/shared"
	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/redact"
	"github.com/studytask/studytask-api/internal/service/identity"
)

// AccountHandler handles account registration and retrieval.
//
// Its routes authenticate directly through the resolver rather than the
// RequireAccount middleware: POST /api/users/me must work before an account
// exists, and GET /api/users/me reports an unregistered caller as 404 rather
// than 401.
type AccountHandler struct {
	resolver identity.Resolver
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(resolver identity.Resolver, logger *slog.Logger) *AccountHandler {
	if resolver == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("resolver cannot be nil for AccountHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AccountHandler")
	}

	return &AccountHandler{
		resolver: resolver,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// RegisterMe handles POST /api/users/me requests.
// It provisions an account for the authenticated subject, or returns the
// existing one unchanged. Repeating the call never alters the stored name.
func (h *AccountHandler) RegisterMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterAccountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	account, err := h.resolver.Provision(r.Context(), r.Header.Get("Authorization"), req.FullName)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthenticated) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("account provisioned",
		slog.Int64("account_id", account.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// GetMe handles GET /api/users/me requests.
// A valid token whose subject has never registered yields 404, not 401;
// the caller's credential is fine, the account just does not exist yet.
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	account, err := h.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnauthenticated):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		case errors.Is(err, identity.ErrUnregistered):
			shared.RespondWithError(w, r, http.StatusNotFound, "Account not found")
		default:
			shared.RespondWithErrorAndLog(
				w,
				r,
				http.StatusInternalServerError,
				"An unexpected error occurred",
				err,
			)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}
