package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studytask/studytask-api/internal/mocks"
	"github.com/studytask/studytask-api/internal/service/identity"
)

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	provider := mocks.NewStaticProvider(map[string]string{
		"good-token": "uid-1",
	})
	verifier := identity.NewVerifier(provider, nil)

	tests := []struct {
		name        string
		header      string
		wantSubject string
		wantErr     error
	}{
		{
			name:        "valid_bearer_token",
			header:      "Bearer good-token",
			wantSubject: "uid-1",
		},
		{
			name:        "token_surrounded_by_whitespace",
			header:      "Bearer   good-token  ",
			wantSubject: "uid-1",
		},
		{
			name:    "missing_header",
			header:  "",
			wantErr: identity.ErrTokenRejected,
		},
		{
			name:    "whitespace_only_header",
			header:  "   ",
			wantErr: identity.ErrTokenRejected,
		},
		{
			name:    "wrong_scheme",
			header:  "Basic good-token",
			wantErr: identity.ErrTokenRejected,
		},
		{
			name:    "lowercase_scheme",
			header:  "bearer good-token",
			wantErr: identity.ErrTokenRejected,
		},
		{
			name:    "scheme_without_token",
			header:  "Bearer ",
			wantErr: identity.ErrTokenRejected,
		},
		{
			name:    "bare_token_without_scheme",
			header:  "good-token",
			wantErr: identity.ErrTokenRejected,
		},
		{
			name:    "provider_rejects_token",
			header:  "Bearer forged-token",
			wantErr: identity.ErrTokenRejected,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			subject, err := verifier.Verify(context.Background(), tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, subject)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
		})
	}
}

func TestVerifier_Verify_CollapsesProviderFailures(t *testing.T) {
	t.Parallel()

	// Whatever the provider reports - expiry, bad audience, network fault -
	// the caller sees only the single rejection outcome.
	providerErrors := []error{
		errors.New("token expired"),
		errors.New("audience mismatch"),
		errors.New("dial tcp: connection refused"),
	}

	for _, providerErr := range providerErrors {
		provider := &mocks.StaticProvider{
			VerifyTokenFn: func(ctx context.Context, token string) (string, error) {
				return "", providerErr
			},
		}
		verifier := identity.NewVerifier(provider, nil)

		subject, err := verifier.Verify(context.Background(), "Bearer anything")
		assert.ErrorIs(t, err, identity.ErrTokenRejected)
		assert.NotContains(t, err.Error(), providerErr.Error(),
			"provider failure details must not surface")
		assert.Empty(t, subject)
	}
}

func TestVerifier_Verify_RejectsEmptySubject(t *testing.T) {
	t.Parallel()

	provider := &mocks.StaticProvider{
		VerifyTokenFn: func(ctx context.Context, token string) (string, error) {
			return "", nil
		},
	}
	verifier := identity.NewVerifier(provider, nil)

	_, err := verifier.Verify(context.Background(), "Bearer anything")
	assert.ErrorIs(t, err, identity.ErrTokenRejected)
}

func TestNewVerifier_NilProviderPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		identity.NewVerifier(nil, nil)
	})
}
