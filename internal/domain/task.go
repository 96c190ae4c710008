package domain

import (
	"errors"
	"strings"
	"time"
)

// Field length limits for tasks.
const (
	TitleMaxLen       = 120
	DescriptionMaxLen = 1000
)

// Task-specific validation errors
var (
	// ErrEmptyTitle is returned when a task title is empty after trimming.
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds TitleMaxLen.
	ErrTitleTooLong = errors.New("task title exceeds maximum length")

	// ErrDescriptionTooLong is returned when a task description exceeds DescriptionMaxLen.
	ErrDescriptionTooLong = errors.New("task description exceeds maximum length")

	// ErrMissingOwner is returned when a task has no owning account.
	ErrMissingOwner = errors.New("task must have an owning account")
)

// Task represents a single to-do item belonging to exactly one Account.
// OwnerID is set from the caller's resolved identity and never from
// client-supplied fields; it is immutable after creation, as are ID and
// CreatedAt. UpdatedAt is nil until the first mutation. A nil Description
// is the single canonical representation of "no description".
type Task struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// NewTask creates a new Task owned by the given account. Title and
// description are normalized with NormalizeTitle and NormalizeDescription
// before validation. The completion flag starts false and UpdatedAt absent.
// The ID is left zero; the store assigns it on insert.
// Returns an error if validation fails.
func NewTask(ownerID int64, title string, description *string, deadline *time.Time) (*Task, error) {
	task := &Task{
		OwnerID:     ownerID,
		Title:       NormalizeTitle(title),
		Description: NormalizeDescription(description),
		Completed:   false,
		Deadline:    deadline,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.OwnerID <= 0 {
		return ErrMissingOwner
	}

	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > TitleMaxLen {
		return ErrTitleTooLong
	}

	if t.Description != nil && len(*t.Description) > DescriptionMaxLen {
		return ErrDescriptionTooLong
	}

	return nil
}

// NormalizeTitle trims surrounding whitespace from a task title.
func NormalizeTitle(title string) string {
	return trimmed(title)
}

// NormalizeDescription trims surrounding whitespace from a task description
// and collapses the empty result to nil, so "no description" has exactly one
// representation in storage.
func NormalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	d := trimmed(*description)
	if d == "" {
		return nil
	}
	return &d
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
