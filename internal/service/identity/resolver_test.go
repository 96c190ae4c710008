package identity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studytask/studytask-api/internal/domain"
	"github.com/studytask/studytask-api/internal/mocks"
	"github.com/studytask/studytask-api/internal/service/identity"
	"github.com/studytask/studytask-api/internal/store"
)

func newTestResolver(accounts *mocks.MemoryAccountStore) identity.Resolver {
	provider := mocks.NewStaticProvider(map[string]string{
		"token-alice": "uid-alice",
		"token-bob":   "uid-bob",
	})
	verifier := identity.NewVerifier(provider, nil)
	return identity.NewResolver(verifier, accounts, nil)
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("rejected_token_is_unauthenticated", func(t *testing.T) {
		t.Parallel()

		resolver := newTestResolver(mocks.NewMemoryAccountStore())

		account, err := resolver.Resolve(context.Background(), "Bearer forged")
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
		assert.Nil(t, account)
	})

	t.Run("unknown_subject_is_unregistered_and_never_provisions", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMemoryAccountStore()
		resolver := newTestResolver(accounts)

		account, err := resolver.Resolve(context.Background(), "Bearer token-alice")
		assert.ErrorIs(t, err, identity.ErrUnregistered)
		assert.Nil(t, account)
		assert.Zero(t, accounts.Count(), "resolve must not create accounts as a side effect")
	})

	t.Run("existing_account_is_returned", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMemoryAccountStore()
		resolver := newTestResolver(accounts)

		provisioned, err := resolver.Provision(context.Background(), "Bearer token-alice", "Alice")
		require.NoError(t, err)

		resolved, err := resolver.Resolve(context.Background(), "Bearer token-alice")
		require.NoError(t, err)
		assert.Equal(t, provisioned.ID, resolved.ID)
		assert.Equal(t, "uid-alice", resolved.Subject)
	})

	t.Run("storage_failure_is_not_unauthenticated", func(t *testing.T) {
		t.Parallel()

		storageDown := errors.New("connection refused")
		accounts := mocks.NewMemoryAccountStore()
		accounts.GetBySubjectFn = func(ctx context.Context, subject string) (*domain.Account, error) {
			return nil, storageDown
		}
		resolver := newTestResolver(accounts)

		_, err := resolver.Resolve(context.Background(), "Bearer token-alice")
		require.Error(t, err)
		assert.NotErrorIs(t, err, identity.ErrUnauthenticated)
		assert.NotErrorIs(t, err, identity.ErrUnregistered)
		assert.ErrorIs(t, err, storageDown)
	})
}

func TestResolver_Provision(t *testing.T) {
	t.Parallel()

	t.Run("first_call_creates_account", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMemoryAccountStore()
		resolver := newTestResolver(accounts)

		account, err := resolver.Provision(context.Background(), "Bearer token-alice", "Alice")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, int64(1), account.ID)
		assert.Equal(t, "uid-alice", account.Subject)
		assert.Equal(t, "Alice", account.DisplayName)
	})

	t.Run("repeat_call_returns_existing_unchanged", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMemoryAccountStore()
		resolver := newTestResolver(accounts)

		first, err := resolver.Provision(context.Background(), "Bearer token-alice", "Alice")
		require.NoError(t, err)

		// Different display name on the second call; current policy keeps
		// the original.
		second, err := resolver.Provision(context.Background(), "Bearer token-alice", "Alice Renamed")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Alice", second.DisplayName)
		assert.Equal(t, 1, accounts.Count())
	})

	t.Run("rejected_token_is_unauthenticated", func(t *testing.T) {
		t.Parallel()

		resolver := newTestResolver(mocks.NewMemoryAccountStore())

		_, err := resolver.Provision(context.Background(), "", "Alice")
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("invalid_display_name_fails_validation", func(t *testing.T) {
		t.Parallel()

		resolver := newTestResolver(mocks.NewMemoryAccountStore())

		_, err := resolver.Provision(context.Background(), "Bearer token-alice", "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyDisplayName)
	})

	t.Run("lost_insert_race_refetches_winner", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMemoryAccountStore()
		resolver := newTestResolver(accounts)

		// First lookup misses, then the "rival" wins the insert, then this
		// call's insert hits the unique constraint and must re-fetch.
		rival, err := domain.NewAccount("uid-alice", "Rival Alice")
		require.NoError(t, err)

		missed := false
		accounts.GetBySubjectFn = func(ctx context.Context, subject string) (*domain.Account, error) {
			if !missed {
				missed = true
				require.NoError(t, accounts.Create(ctx, rival))
				return nil, store.ErrAccountNotFound
			}
			accounts.GetBySubjectFn = nil
			return accounts.GetBySubject(ctx, subject)
		}

		account, err := resolver.Provision(context.Background(), "Bearer token-alice", "Alice")
		require.NoError(t, err)
		assert.Equal(t, rival.ID, account.ID)
		assert.Equal(t, "Rival Alice", account.DisplayName)
		assert.Equal(t, 1, accounts.Count())
	})
}

func TestResolver_Provision_ConcurrentSameSubject(t *testing.T) {
	t.Parallel()

	accounts := mocks.NewMemoryAccountStore()
	resolver := newTestResolver(accounts)

	const callers = 16
	results := make([]*domain.Account, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Provision(context.Background(), "Bearer token-alice", "Alice")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accounts.Count(), "exactly one account row for the subject")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i], "provisioning races must not surface conflicts")
		require.NotNil(t, results[i])
		assert.Equal(t, results[0].ID, results[i].ID)
		assert.Equal(t, "uid-alice", results[i].Subject)
	}
}
