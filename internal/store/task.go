package store

import (
	"context"
	"database/sql"

	"github.com/studytask/studytask-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every operation takes the owning account's ID and conjoins it with the
// task ID in the lookup predicate itself. There is no fetch-by-id-alone
// followed by an ownership check; a task under a different owner is
// indistinguishable from a task that does not exist.
type TaskStore interface {
	// ListForOwner returns all tasks owned by the account, ordered by
	// creation time descending (newest first). The result is a snapshot
	// at call time.
	ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// GetForOwner retrieves the task with the given ID if and only if it
	// is owned by the account. Returns ErrTaskNotFound both when the task
	// does not exist and when it belongs to someone else.
	GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error)

	// Create saves a new task to the store and assigns its numeric ID.
	// The task's OwnerID and CreatedAt must already be set by the caller
	// from the resolved identity and the server clock.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning account does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// UpdateForOwner overwrites title, description, completion flag,
	// deadline, and updated-at of the task identified by task.ID and
	// task.OwnerID. ID, owner, and creation timestamp are never touched.
	// Returns ErrTaskNotFound (and mutates nothing) when the conjoined
	// predicate matches no row.
	UpdateForOwner(ctx context.Context, task *domain.Task) error

	// DeleteForOwner removes the task identified by id and ownerID.
	// Returns ErrTaskNotFound when the conjoined predicate matches no row.
	DeleteForOwner(ctx context.Context, id, ownerID int64) error

	// DeleteAllForOwner removes every task owned by the account and reports
	// how many rows went away. Deleting zero tasks is not an error. Used by
	// administrative account removal.
	DeleteAllForOwner(ctx context.Context, ownerID int64) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
