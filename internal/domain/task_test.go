package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studytask/studytask-api/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestNewTask(t *testing.T) {
	t.Parallel()

	deadline := time.Now().UTC().Add(48 * time.Hour)

	tests := []struct {
		name        string
		ownerID     int64
		title       string
		description *string
		deadline    *time.Time
		wantErr     error
		check       func(t *testing.T, task *domain.Task)
	}{
		{
			name:    "valid_minimal_task",
			ownerID: 1,
			title:   "Write report",
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Write report", task.Title)
				assert.Nil(t, task.Description)
				assert.False(t, task.Completed)
				assert.Nil(t, task.Deadline)
				assert.Nil(t, task.UpdatedAt)
			},
		},
		{
			name:        "title_and_description_trimmed",
			ownerID:     1,
			title:       "  Write report  ",
			description: strPtr("  the quarterly one  "),
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Write report", task.Title)
				require.NotNil(t, task.Description)
				assert.Equal(t, "the quarterly one", *task.Description)
			},
		},
		{
			name:        "whitespace_only_description_becomes_absent",
			ownerID:     1,
			title:       "Write report",
			description: strPtr("   \t\n "),
			check: func(t *testing.T, task *domain.Task) {
				assert.Nil(t, task.Description)
			},
		},
		{
			name:     "deadline_is_kept",
			ownerID:  1,
			title:    "Write report",
			deadline: &deadline,
			check: func(t *testing.T, task *domain.Task) {
				require.NotNil(t, task.Deadline)
				assert.True(t, task.Deadline.Equal(deadline))
			},
		},
		{
			name:    "missing_owner",
			ownerID: 0,
			title:   "Write report",
			wantErr: domain.ErrMissingOwner,
		},
		{
			name:    "empty_title",
			ownerID: 1,
			title:   "   ",
			wantErr: domain.ErrEmptyTitle,
		},
		{
			name:    "title_too_long",
			ownerID: 1,
			title:   strings.Repeat("x", domain.TitleMaxLen+1),
			wantErr: domain.ErrTitleTooLong,
		},
		{
			name:        "description_too_long",
			ownerID:     1,
			title:       "Write report",
			description: strPtr(strings.Repeat("x", domain.DescriptionMaxLen+1)),
			wantErr:     domain.ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task, err := domain.NewTask(tt.ownerID, tt.title, tt.description, tt.deadline)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, task)
			assert.Zero(t, task.ID, "ID is assigned by the store, not the constructor")
			assert.Equal(t, tt.ownerID, task.OwnerID)
			assert.WithinDuration(t, time.Now().UTC(), task.CreatedAt, time.Minute)
			if tt.check != nil {
				tt.check(t, task)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{name: "nil_stays_nil", in: nil, want: nil},
		{name: "empty_becomes_nil", in: strPtr(""), want: nil},
		{name: "whitespace_becomes_nil", in: strPtr(" \t "), want: nil},
		{name: "content_is_trimmed", in: strPtr(" notes "), want: strPtr("notes")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := domain.NormalizeDescription(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
