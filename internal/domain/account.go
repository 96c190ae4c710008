package domain

import (
	"errors"
	"time"
)

// Field length limits for accounts. SubjectMaxLen matches the longest
// identifier the identity provider is documented to issue.
const (
	SubjectMaxLen     = 128
	DisplayNameMaxLen = 80
)

// Account-specific validation errors
var (
	// ErrEmptySubject is returned when an account has no subject identifier.
	ErrEmptySubject = errors.New("subject identifier cannot be empty")

	// ErrSubjectTooLong is returned when a subject identifier exceeds SubjectMaxLen.
	ErrSubjectTooLong = errors.New("subject identifier exceeds maximum length")

	// ErrEmptyDisplayName is returned when an account has no display name.
	ErrEmptyDisplayName = errors.New("display name cannot be empty")

	// ErrDisplayNameTooLong is returned when a display name exceeds DisplayNameMaxLen.
	ErrDisplayNameTooLong = errors.New("display name exceeds maximum length")
)

// Account represents one registered user of the backend, keyed by the
// opaque subject identifier issued by the external identity provider.
// The numeric ID is assigned by the store on insert and is immutable,
// as is the subject identifier.
type Account struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAccount creates a new Account for the given verified subject identifier.
// The display name is trimmed before validation. The ID is left zero; the
// store assigns it on insert.
// Returns an error if validation fails.
func NewAccount(subject, displayName string) (*Account, error) {
	account := &Account{
		Subject:     subject,
		DisplayName: trimmed(displayName),
		CreatedAt:   time.Now().UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
// Returns an error if any field fails validation.
func (a *Account) Validate() error {
	if a.Subject == "" {
		return ErrEmptySubject
	}
	if len(a.Subject) > SubjectMaxLen {
		return ErrSubjectTooLong
	}

	if a.DisplayName == "" {
		return ErrEmptyDisplayName
	}
	if len(a.DisplayName) > DisplayNameMaxLen {
		return ErrDisplayNameTooLong
	}

	return nil
}
