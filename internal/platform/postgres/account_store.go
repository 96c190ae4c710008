package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/store"
)

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the
// AccountStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create
// It saves a new account and assigns its numeric ID from the sequence.
// Returns store.ErrSubjectExists when the subject identifier is already
// taken; the unique index on accounts.subject is the arbiter for
// concurrent provisioning, so callers must treat that error as "re-fetch",
// not as a failure.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO accounts (subject, display_name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		account.Subject,
		account.DisplayName,
		account.CreatedAt,
	).Scan(&account.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("subject already provisioned",
				slog.String("subject", account.Subject))
			return fmt.Errorf("%w: %v", store.ErrSubjectExists, err)
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("subject", account.Subject))
		return MapError(err)
	}

	log.Info("account created",
		slog.Int64("account_id", account.ID),
		slog.String("subject", account.Subject))
	return nil
}

// GetByID implements store.AccountStore.GetByID
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, subject, display_name, created_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Subject,
		&account.DisplayName,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by ID",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return nil, MapError(err)
	}

	return &account, nil
}

// GetBySubject implements store.AccountStore.GetBySubject
// This runs on every authenticated request; the unique index on
// accounts.subject keeps it a single index lookup.
// Returns store.ErrAccountNotFound if no account exists for the subject.
func (s *PostgresAccountStore) GetBySubject(ctx context.Context, subject string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, subject, display_name, created_at
		FROM accounts
		WHERE subject = $1
	`

	var account domain.Account
	err := s.db.QueryRowContext(ctx, query, subject).Scan(
		&account.ID,
		&account.Subject,
		&account.DisplayName,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no account for subject", slog.String("subject", subject))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by subject",
			slog.String("error", err.Error()),
			slog.String("subject", subject))
		return nil, MapError(err)
	}

	return &account, nil
}

// Delete implements store.AccountStore.Delete
// The ON DELETE CASCADE on tasks.owner_id removes the account's tasks in the
// same statement, so no orphaned task can remain.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "account"); err != nil {
		return store.ErrAccountNotFound
	}

	log.Info("account deleted", slog.Int64("account_id", id))
	return nil
}

// WithTx implements store.AccountStore.WithTx
// It returns a new store instance bound to the provided transaction.
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{
		db:     tx,
		logger: s.logger,
	}
}
