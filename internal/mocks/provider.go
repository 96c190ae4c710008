package mocks

import (
	"context"
	"errors"
)

// ErrUnknownToken is what StaticProvider returns for tokens it has no
// mapping for.
var ErrUnknownToken = errors.New("unknown token")

// StaticProvider implements identity.Provider with a fixed token-to-subject
// table. Tests hand out tokens like "token-alice" and get deterministic
// subjects back without any cryptography.
type StaticProvider struct {
	// VerifyTokenFn overrides the default lookup when set.
	VerifyTokenFn func(ctx context.Context, token string) (string, error)

	// Subjects maps raw token strings to subject identifiers.
	Subjects map[string]string
}

// NewStaticProvider creates a provider with the given token-to-subject table.
func NewStaticProvider(subjects map[string]string) *StaticProvider {
	if subjects == nil {
		subjects = make(map[string]string)
	}
	return &StaticProvider{Subjects: subjects}
}

// VerifyToken implements identity.Provider.VerifyToken
func (p *StaticProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	if p.VerifyTokenFn != nil {
		return p.VerifyTokenFn(ctx, token)
	}

	subject, ok := p.Subjects[token]
	if !ok {
		return "", ErrUnknownToken
	}
	return subject, nil
}
