package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/store"
)

// Resolver turns a verified subject identifier into an internal account
// record, provisioning one on first sight when explicitly asked to.
type Resolver interface {
	// Resolve verifies the Authorization header and looks up the existing
	// account for its subject. Reads never provision: an unknown subject
	// returns ErrUnregistered. A rejected token returns ErrUnauthenticated.
	// Storage failures propagate unchanged so callers can distinguish a
	// transient fault from a missing identity.
	Resolve(ctx context.Context, authorizationHeader string) (*domain.Account, error)

	// Provision verifies the Authorization header and returns the account
	// for its subject, creating it if absent. Idempotent: concurrent
	// first-time calls for the same subject yield exactly one account row,
	// with the unique constraint on the subject column arbitrating the
	// race. An existing account is returned unchanged; the display name is
	// not refreshed on repeat calls.
	Provision(ctx context.Context, authorizationHeader, displayName string) (*domain.Account, error)
}

// resolver is the production Resolver backed by an AccountStore.
type resolver struct {
	verifier *Verifier
	accounts store.AccountStore
	logger   *slog.Logger
}

// Ensure resolver implements Resolver interface
var _ Resolver = (*resolver)(nil)

// NewResolver creates a Resolver composing the given verifier and account
// store. If logger is nil, a default logger will be used.
func NewResolver(verifier *Verifier, accounts store.AccountStore, logger *slog.Logger) Resolver {
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if accounts == nil {
		panic("accounts cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &resolver{
		verifier: verifier,
		accounts: accounts,
		logger:   logger.With(slog.String("component", "identity_resolver")),
	}
}

// Resolve implements Resolver.Resolve
func (r *resolver) Resolve(ctx context.Context, authorizationHeader string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	subject, err := r.verifier.Verify(ctx, authorizationHeader)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	account, err := r.accounts.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug("verified subject has no account yet",
				slog.String("subject", subject))
			return nil, ErrUnregistered
		}
		log.Error("account lookup failed",
			slog.String("error", err.Error()),
			slog.String("subject", subject))
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	return account, nil
}

// Provision implements Resolver.Provision
func (r *resolver) Provision(ctx context.Context, authorizationHeader, displayName string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	subject, err := r.verifier.Verify(ctx, authorizationHeader)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	// Fast path: already provisioned. Returned unchanged; display-name
	// refresh on re-provisioning is intentionally not done.
	existing, err := r.accounts.GetBySubject(ctx, subject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		log.Error("account lookup failed during provisioning",
			slog.String("error", err.Error()),
			slog.String("subject", subject))
		return nil, fmt.Errorf("failed to provision account: %w", err)
	}

	account, err := domain.NewAccount(subject, displayName)
	if err != nil {
		return nil, err
	}

	if err := r.accounts.Create(ctx, account); err != nil {
		// A unique violation means a concurrent Provision for the same
		// subject won the insert race. That is success, not conflict:
		// the store is the only arbiter, so re-fetch the winner's row.
		if store.IsDuplicateError(err) {
			log.Debug("lost provisioning race, fetching existing account",
				slog.String("subject", subject))
			winner, fetchErr := r.accounts.GetBySubject(ctx, subject)
			if fetchErr != nil {
				log.Error("re-fetch after provisioning race failed",
					slog.String("error", fetchErr.Error()),
					slog.String("subject", subject))
				return nil, fmt.Errorf("failed to provision account: %w", fetchErr)
			}
			return winner, nil
		}

		log.Error("account creation failed",
			slog.String("error", err.Error()),
			slog.String("subject", subject))
		return nil, fmt.Errorf("failed to provision account: %w", err)
	}

	log.Info("account provisioned",
		slog.Int64("account_id", account.ID),
		slog.String("subject", subject))
	return account, nil
}
