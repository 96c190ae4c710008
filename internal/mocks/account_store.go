package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/store"
)

// MemoryAccountStore implements store.AccountStore in memory for testing.
// It enforces the subject uniqueness constraint under its own mutex, so
// concurrent provisioning tests observe the same race outcomes as the
// real database: one insert wins, the rest get store.ErrSubjectExists.
type MemoryAccountStore struct {
	// Function fields for customizable behavior; when nil the default
	// in-memory implementation runs.
	CreateFn       func(ctx context.Context, account *domain.Account) error
	GetByIDFn      func(ctx context.Context, id int64) (*domain.Account, error)
	GetBySubjectFn func(ctx context.Context, subject string) (*domain.Account, error)
	DeleteFn       func(ctx context.Context, id int64) error

	mu        sync.Mutex
	accounts  map[int64]*domain.Account
	bySubject map[string]int64
	nextID    int64

	// Tasks, when set, receives cascade deletes for removed accounts.
	Tasks *MemoryTaskStore
}

// NewMemoryAccountStore creates an empty in-memory account store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts:  make(map[int64]*domain.Account),
		bySubject: make(map[string]int64),
		nextID:    1,
	}
}

// Ensure MemoryAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*MemoryAccountStore)(nil)

// Create implements store.AccountStore.Create
func (m *MemoryAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}

	if err := account.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySubject[account.Subject]; exists {
		return store.ErrSubjectExists
	}

	account.ID = m.nextID
	m.nextID++

	stored := *account
	m.accounts[account.ID] = &stored
	m.bySubject[account.Subject] = account.ID
	return nil
}

// GetByID implements store.AccountStore.GetByID
func (m *MemoryAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// GetBySubject implements store.AccountStore.GetBySubject
func (m *MemoryAccountStore) GetBySubject(ctx context.Context, subject string) (*domain.Account, error) {
	if m.GetBySubjectFn != nil {
		return m.GetBySubjectFn(ctx, subject)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.bySubject[subject]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	copied := *m.accounts[id]
	return &copied, nil
}

// Delete implements store.AccountStore.Delete
// When a task store is attached, the account's tasks are removed too,
// mirroring the ON DELETE CASCADE constraint.
func (m *MemoryAccountStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	account, ok := m.accounts[id]
	if !ok {
		m.mu.Unlock()
		return store.ErrAccountNotFound
	}
	delete(m.bySubject, account.Subject)
	delete(m.accounts, id)
	m.mu.Unlock()

	if m.Tasks != nil {
		if _, err := m.Tasks.DeleteAllForOwner(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// WithTx implements store.AccountStore.WithTx
// The in-memory store has no transactions; it returns itself.
func (m *MemoryAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return m
}

// Count returns the number of stored accounts. Test helper.
func (m *MemoryAccountStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}
