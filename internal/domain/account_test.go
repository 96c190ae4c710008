package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studytask/studytask-api/internal/domain"
)

func TestNewAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		subject     string
		displayName string
		wantErr     error
	}{
		{
			name:        "valid_account",
			subject:     "uid-1",
			displayName: "Ada Lovelace",
			wantErr:     nil,
		},
		{
			name:        "display_name_is_trimmed",
			subject:     "uid-2",
			displayName: "  Ada Lovelace  ",
			wantErr:     nil,
		},
		{
			name:        "empty_subject",
			subject:     "",
			displayName: "Ada Lovelace",
			wantErr:     domain.ErrEmptySubject,
		},
		{
			name:        "subject_too_long",
			subject:     strings.Repeat("x", domain.SubjectMaxLen+1),
			displayName: "Ada Lovelace",
			wantErr:     domain.ErrSubjectTooLong,
		},
		{
			name:        "empty_display_name",
			subject:     "uid-3",
			displayName: "",
			wantErr:     domain.ErrEmptyDisplayName,
		},
		{
			name:        "whitespace_only_display_name",
			subject:     "uid-4",
			displayName: "   ",
			wantErr:     domain.ErrEmptyDisplayName,
		},
		{
			name:        "display_name_too_long",
			subject:     "uid-5",
			displayName: strings.Repeat("x", domain.DisplayNameMaxLen+1),
			wantErr:     domain.ErrDisplayNameTooLong,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			account, err := domain.NewAccount(tt.subject, tt.displayName)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, account)
			assert.Zero(t, account.ID, "ID is assigned by the store, not the constructor")
			assert.Equal(t, tt.subject, account.Subject)
			assert.Equal(t, strings.TrimSpace(tt.displayName), account.DisplayName)
			assert.WithinDuration(t, time.Now().UTC(), account.CreatedAt, time.Minute)
		})
	}
}

func TestAccountValidate_MaxLengthsAccepted(t *testing.T) {
	t.Parallel()

	account := &domain.Account{
		Subject:     strings.Repeat("s", domain.SubjectMaxLen),
		DisplayName: strings.Repeat("n", domain.DisplayNameMaxLen),
		CreatedAt:   time.Now().UTC(),
	}

	assert.NoError(t, account.Validate())
}
