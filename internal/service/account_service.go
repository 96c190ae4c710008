package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/store"
)

// AccountService provides administrative account operations. There is no
// HTTP surface for these; they run from the server binary's maintenance
// flags.
type AccountService interface {
	// Remove deletes the account and every task it owns in one
	// transaction. Returns store.ErrAccountNotFound if no such account
	// exists.
	Remove(ctx context.Context, accountID int64) error
}

type accountService struct {
	db       *sql.DB
	accounts store.AccountStore
	tasks    store.TaskStore
	logger   *slog.Logger

	// runTx is store.RunInTransaction, replaceable in tests.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// Ensure accountService implements AccountService interface
var _ AccountService = (*accountService)(nil)

// NewAccountService creates an AccountService over the given database and
// stores.
func NewAccountService(
	db *sql.DB,
	accounts store.AccountStore,
	tasks store.TaskStore,
	logger *slog.Logger,
) AccountService {
	if accounts == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("accounts cannot be nil")
	}
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tasks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &accountService{
		db:       db,
		accounts: accounts,
		tasks:    tasks,
		logger:   logger.With(slog.String("component", "account_service")),
		runTx:    store.RunInTransaction,
	}
}

// Remove implements AccountService.Remove
// The schema's cascade constraint would drop the tasks on its own; deleting
// them explicitly inside the transaction makes the count observable and
// keeps the operation correct even against a schema without the cascade.
func (s *accountService) Remove(ctx context.Context, accountID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		deleted, err := s.tasks.WithTx(tx).DeleteAllForOwner(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to delete tasks for account %d: %w", accountID, err)
		}

		if err := s.accounts.WithTx(tx).Delete(ctx, accountID); err != nil {
			return err
		}

		log.Info("account removed",
			slog.Int64("account_id", accountID),
			slog.Int64("tasks_deleted", deleted))
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return store.ErrAccountNotFound
		}
		return fmt.Errorf("failed to remove account: %w", err)
	}

	return nil
}
