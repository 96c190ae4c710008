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

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// Every query conjoins the task ID with the owner ID in the WHERE clause.
// There is deliberately no helper that fetches by ID alone: a split
// fetch-then-check pattern is one refactor away from an ownership bypass.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// ListForOwner implements store.TaskStore.ListForOwner
// Returns the owner's tasks newest first. The (owner_id, created_at DESC)
// index serves the whole query.
func (s *PostgresTaskStore) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, completed, deadline, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.Int64("owner_id", ownerID))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// GetForOwner implements store.TaskStore.GetForOwner
// Returns store.ErrTaskNotFound both when the task does not exist and when
// it belongs to a different account; the caller cannot tell the two apart.
func (s *PostgresTaskStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, completed, deadline, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	task, err := scanTask(func(dest ...any) error {
		return s.db.QueryRowContext(ctx, query, id, ownerID).Scan(dest...)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.Int64("owner_id", ownerID))
		return nil, MapError(err)
	}

	return task, nil
}

// Create implements store.TaskStore.Create
// It saves a new task and assigns its numeric ID from the sequence.
// Returns store.ErrInvalidEntity if the owning account does not exist
// (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return err
	}

	query := `
		INSERT INTO tasks (owner_id, title, description, completed, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Completed,
		task.Deadline,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("owning account missing during task creation",
				slog.Int64("owner_id", task.OwnerID))
			return fmt.Errorf("%w: account %d not found", store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return MapError(err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	return nil
}

// UpdateForOwner implements store.TaskStore.UpdateForOwner
// The UPDATE carries the conjoined predicate, so a zero rows-affected result
// covers both "no such task" and "not yours" without mutating anything.
// ID, owner, and creation timestamp are never in the SET clause.
func (s *PostgresTaskStore) UpdateForOwner(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID),
			slog.Int64("owner_id", task.OwnerID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, deadline = $4, updated_at = $5
		WHERE id = $6 AND owner_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		task.Deadline,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID),
			slog.Int64("owner_id", task.OwnerID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for update",
			slog.Int64("task_id", task.ID),
			slog.Int64("owner_id", task.OwnerID))
		return store.ErrTaskNotFound
	}

	log.Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	return nil
}

// DeleteForOwner implements store.TaskStore.DeleteForOwner
// Returns store.ErrTaskNotFound when the conjoined predicate matches no row.
func (s *PostgresTaskStore) DeleteForOwner(ctx context.Context, id, ownerID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id,
		ownerID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.Int64("owner_id", ownerID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for delete",
			slog.Int64("task_id", id),
			slog.Int64("owner_id", ownerID))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted",
		slog.Int64("task_id", id),
		slog.Int64("owner_id", ownerID))
	return nil
}

// DeleteAllForOwner implements store.TaskStore.DeleteAllForOwner
// Removes every task owned by the account. Matching zero rows is not an
// error; the account may simply have no tasks.
func (s *PostgresTaskStore) DeleteAllForOwner(ctx context.Context, ownerID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		log.Error("failed to delete tasks for owner",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	log.Info("tasks deleted for owner",
		slog.Int64("owner_id", ownerID),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

// WithTx implements store.TaskStore.WithTx
// It returns a new store instance bound to the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanTask scans one tasks row into a domain.Task, converting the nullable
// columns to their pointer representations.
func scanTask(scan func(dest ...any) error) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		deadline    sql.NullTime
		updatedAt   sql.NullTime
	)

	err := scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&description,
		&task.Completed,
		&deadline,
		&task.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	if deadline.Valid {
		t := deadline.Time
		task.Deadline = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		task.UpdatedAt = &t
	}

	return &task, nil
}
