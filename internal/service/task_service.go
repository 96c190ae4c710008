package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/store"
)

// TaskDraft carries the client-supplied fields for creating a task.
// There is intentionally no owner field: ownership always comes from the
// caller's resolved account, never from the payload.
type TaskDraft struct {
	Title       string
	Description *string
	Deadline    *time.Time
}

// TaskPatch carries the client-supplied fields for updating a task.
// Updates overwrite title, description, completion flag, and deadline;
// id, owner, and creation timestamp are immutable.
type TaskPatch struct {
	Title       string
	Description *string
	Completed   bool
	Deadline    *time.Time
}

// TaskService provides ownership-scoped task operations. Every method takes
// the caller's resolved account ID and confines itself to that account's
// tasks.
type TaskService interface {
	// ListForOwner returns the account's tasks, newest first.
	ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// GetForOwner returns the task if it exists under the account.
	// Returns store.ErrTaskNotFound otherwise, including when the task
	// exists under a different owner.
	GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error)

	// Create normalizes and persists a new task for the account, with the
	// creation timestamp set server-side.
	Create(ctx context.Context, draft TaskDraft, ownerID int64) (*domain.Task, error)

	// Update overwrites the mutable fields of the task and stamps the
	// last-updated time. Returns false (with a nil error) when the task
	// does not exist under the account; nothing is mutated in that case.
	Update(ctx context.Context, id int64, patch TaskPatch, ownerID int64) (bool, error)

	// Delete removes the task. Returns false (with a nil error) when the
	// task does not exist under the account.
	Delete(ctx context.Context, id int64, ownerID int64) (bool, error)
}

// taskService is the production TaskService backed by a store.TaskStore.
type taskService struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// Ensure taskService implements TaskService interface
var _ TaskService = (*taskService)(nil)

// NewTaskService creates a TaskService over the given task store.
// If logger is nil, a default logger will be used.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) TaskService {
	if tasks == nil {
		panic("tasks cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskService{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// ListForOwner implements TaskService.ListForOwner
func (s *taskService) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetForOwner implements TaskService.GetForOwner
func (s *taskService) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	task, err := s.tasks.GetForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *taskService) Create(ctx context.Context, draft TaskDraft, ownerID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, draft.Title, draft.Description, draft.Deadline)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Update implements TaskService.Update
// The ownership check and the mutation use the same conjoined predicate:
// the existing row is fetched with id+owner, the patch is applied, and the
// store UPDATE carries id+owner again. An absent or foreign task reports
// false before anything is written.
func (s *taskService) Update(ctx context.Context, id int64, patch TaskPatch, ownerID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.tasks.GetForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load task for update: %w", err)
	}

	now := time.Now().UTC()
	existing.Title = domain.NormalizeTitle(patch.Title)
	existing.Description = domain.NormalizeDescription(patch.Description)
	existing.Completed = patch.Completed
	existing.Deadline = patch.Deadline
	existing.UpdatedAt = &now

	if err := existing.Validate(); err != nil {
		return false, err
	}

	if err := s.tasks.UpdateForOwner(ctx, existing); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			// Deleted between the fetch and the update; same outcome as
			// never having existed.
			return false, nil
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.Int64("owner_id", ownerID))
		return false, fmt.Errorf("failed to update task: %w", err)
	}

	return true, nil
}

// Delete implements TaskService.Delete
func (s *taskService) Delete(ctx context.Context, id int64, ownerID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.DeleteForOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return false, nil
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.Int64("owner_id", ownerID))
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	return true, nil
}
