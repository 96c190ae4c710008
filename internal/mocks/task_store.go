package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/store"
)

// MemoryTaskStore implements store.TaskStore in memory for testing.
// Lookups conjoin task ID and owner ID exactly like the SQL predicates do,
// so cross-owner access yields store.ErrTaskNotFound here as well.
type MemoryTaskStore struct {
	// Function fields for customizable behavior; when nil the default
	// in-memory implementation runs.
	ListForOwnerFn   func(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	GetForOwnerFn    func(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	CreateFn         func(ctx context.Context, task *domain.Task) error
	UpdateForOwnerFn func(ctx context.Context, task *domain.Task) error
	DeleteForOwnerFn func(ctx context.Context, id, ownerID int64) error

	DeleteAllForOwnerFn func(ctx context.Context, ownerID int64) (int64, error)

	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
	}
}

// Ensure MemoryTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MemoryTaskStore)(nil)

// ListForOwner implements store.TaskStore.ListForOwner
func (m *MemoryTaskStore) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	if m.ListForOwnerFn != nil {
		return m.ListForOwnerFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	owned := make([]*domain.Task, 0)
	for _, task := range m.tasks {
		if task.OwnerID == ownerID {
			copied := *task
			owned = append(owned, &copied)
		}
	}

	// Newest first; ties broken by descending ID for a stable order.
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	return owned, nil
}

// GetForOwner implements store.TaskStore.GetForOwner
func (m *MemoryTaskStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// Create implements store.TaskStore.Create
func (m *MemoryTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextID
	m.nextID++

	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

// UpdateForOwner implements store.TaskStore.UpdateForOwner
func (m *MemoryTaskStore) UpdateForOwner(ctx context.Context, task *domain.Task) error {
	if m.UpdateForOwnerFn != nil {
		return m.UpdateForOwnerFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}

	existing.Title = task.Title
	existing.Description = task.Description
	existing.Completed = task.Completed
	existing.Deadline = task.Deadline
	existing.UpdatedAt = task.UpdatedAt
	return nil
}

// DeleteForOwner implements store.TaskStore.DeleteForOwner
func (m *MemoryTaskStore) DeleteForOwner(ctx context.Context, id, ownerID int64) error {
	if m.DeleteForOwnerFn != nil {
		return m.DeleteForOwnerFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[id]
	if !ok || existing.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(m.tasks, id)
	return nil
}

// DeleteAllForOwner implements store.TaskStore.DeleteAllForOwner
// Also invoked by MemoryAccountStore.Delete to mirror the cascade constraint.
func (m *MemoryTaskStore) DeleteAllForOwner(ctx context.Context, ownerID int64) (int64, error) {
	if m.DeleteAllForOwnerFn != nil {
		return m.DeleteAllForOwnerFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id, task := range m.tasks {
		if task.OwnerID == ownerID {
			delete(m.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// WithTx implements store.TaskStore.WithTx
// The in-memory store has no transactions; it returns itself.
func (m *MemoryTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// Count returns the number of stored tasks across all owners. Test helper.
func (m *MemoryTaskStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
