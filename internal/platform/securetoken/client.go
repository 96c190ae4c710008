// Package securetoken implements the outbound boundary to the identity
// provider's token-verification service. The provider owns the wire format
// and all cryptography; this client only honors the observable contract:
// accept-plus-subject or reject.
package securetoken

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/studytask/studytask-api/internal/service/identity"
)

// maxResponseBytes bounds how much of the provider response is read.
const maxResponseBytes = 1 << 20

// Client verifies bearer tokens against the provider's remote verification
// endpoint.
type Client struct {
	endpoint   string
	audience   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure Client implements identity.Provider interface
var _ identity.Provider = (*Client)(nil)

// NewClient creates a verification client for the given endpoint. The
// timeout bounds each verification call; a provider that does not answer in
// time counts as a rejection upstream. If logger is nil, a default logger
// will be used.
func NewClient(endpoint, audience string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("verification endpoint cannot be empty")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:   endpoint,
		audience:   audience,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "securetoken_client")),
	}, nil
}

// verifyRequest is the payload sent to the provider.
type verifyRequest struct {
	Token    string `json:"token"`
	Audience string `json:"audience,omitempty"`
}

// verifyResponse is the subset of the provider response this backend reads.
// Everything else the provider returns is ignored on purpose.
type verifyResponse struct {
	Subject string `json:"sub"`
}

// VerifyToken implements identity.Provider.VerifyToken
// It POSTs the token to the verification endpoint and returns the subject
// identifier the provider vouches for. Any non-200 status, transport fault,
// or unusable body is an error; the verifier upstream collapses them all
// into a single rejection.
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(verifyRequest{Token: token, Audience: c.audience})
	if err != nil {
		return "", fmt.Errorf("failed to encode verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("identity provider unreachable",
			slog.String("error", err.Error()))
		return "", fmt.Errorf("verification call failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("failed to close provider response body",
				slog.String("error", closeErr.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// 4xx means the provider rejected the token, 5xx that it is
		// unhealthy. Neither distinction reaches the caller.
		c.logger.Debug("provider rejected token",
			slog.Int("status", resp.StatusCode))
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var verified verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&verified); err != nil {
		return "", fmt.Errorf("failed to decode verification response: %w", err)
	}

	if verified.Subject == "" {
		return "", fmt.Errorf("provider response has no subject")
	}

	return verified.Subject, nil
}
