package identity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/redact"
)

// Provider verifies a bearer token with the external identity provider and
// returns the stable subject identifier it was issued for. Cryptographic and
// claims validation (signature, issuer, audience, expiry) belong entirely to
// the provider; this package never reimplements them.
type Provider interface {
	// VerifyToken returns the token's subject identifier, or an error when
	// the provider rejects the token or cannot be reached.
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Verifier turns a raw Authorization header value into a verified subject
// identifier. It has no side effects and holds no state beyond its provider.
type Verifier struct {
	provider Provider
	logger   *slog.Logger
}

// NewVerifier creates a Verifier delegating token validation to the given
// provider. If logger is nil, a default logger will be used.
func NewVerifier(provider Provider, logger *slog.Logger) *Verifier {
	if provider == nil {
		panic("provider cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Verifier{
		provider: provider,
		logger:   logger.With(slog.String("component", "token_verifier")),
	}
}

// Verify parses the Authorization header and verifies the bearer token with
// the provider, returning the subject identifier.
//
// Any failure - missing header, wrong scheme, empty token after trimming,
// or any provider-side rejection including network faults - returns
// ErrTokenRejected and nothing else. The rejection is an outcome, not an
// exception: details go to the log, never to the caller.
func (v *Verifier) Verify(ctx context.Context, authorizationHeader string) (string, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)

	token, ok := bearerToken(authorizationHeader)
	if !ok {
		log.Debug("authorization header missing or not a bearer credential")
		return "", ErrTokenRejected
	}

	subject, err := v.provider.VerifyToken(ctx, token)
	if err != nil {
		log.Debug("provider rejected token",
			slog.String("error", redact.Error(err)))
		return "", ErrTokenRejected
	}

	if subject == "" {
		log.Warn("provider returned empty subject for verified token")
		return "", ErrTokenRejected
	}

	return subject, nil
}

// bearerToken extracts the token from a "Bearer <token>" header value.
// Returns false for any other shape.
func bearerToken(header string) (string, bool) {
	if strings.TrimSpace(header) == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
