package store

import (
	"context"
	"database/sql"

	"github.com/studytask/studytask-api/internal/domain"
)

// AccountStore defines the interface for account data persistence.
type AccountStore interface {
	// Create saves a new account to the store and assigns its numeric ID.
	// Returns ErrSubjectExists if an account with the same subject
	// identifier already exists; callers provisioning concurrently treat
	// that as "someone else just created it" and re-fetch.
	// Returns validation errors from the domain Account if data is invalid.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its internal numeric ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// GetBySubject retrieves an account by its external subject identifier.
	// This is the hot path for every authenticated request and relies on
	// the unique index over the subject column.
	// Returns ErrAccountNotFound if no account has been provisioned for
	// the subject yet.
	GetBySubject(ctx context.Context, subject string) (*domain.Account, error)

	// Delete removes an account by its ID. The storage layer cascades the
	// delete to the account's tasks; no orphaned task may remain.
	// Returns ErrAccountNotFound if the account does not exist.
	// This is an administrative operation, not part of the request path.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new AccountStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) AccountStore
}
