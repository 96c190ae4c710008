package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// hmacProvider validates HMAC-SHA256 signed tokens locally instead of
// calling out to the remote verification endpoint. It exists for development
// and tests, where standing up the real identity provider is not practical;
// the accept/reject-plus-subject contract is identical.
type hmacProvider struct {
	signingKey []byte
	issuer     string           // optional; enforced when non-empty
	audience   string           // optional; enforced when non-empty
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration    // Allowed drift for time claim validation
}

// Ensure hmacProvider implements Provider interface
var _ Provider = (*hmacProvider)(nil)

// NewHMACProvider creates a Provider that validates HMAC-SHA256 signed
// tokens with the given secret. Issuer and audience are enforced only when
// non-empty.
func NewHMACProvider(secret, issuer, audience string) (Provider, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("hmac secret must be at least 32 characters")
	}

	return &hmacProvider{
		signingKey: []byte(secret),
		issuer:     issuer,
		audience:   audience,
		timeFunc:   time.Now,
		clockSkew:  2 * time.Minute,
	}, nil
}

// VerifyToken implements Provider.VerifyToken
// It parses and validates the token and returns its subject claim.
func (p *hmacProvider) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(p.clockSkew),
		jwt.WithTimeFunc(p.timeFunc),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(p.issuer))
	}
	if p.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(p.audience))
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return p.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("token claims are not valid")
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject claim")
	}

	return claims.Subject, nil
}
