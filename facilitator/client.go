// Package facilitator talks to the external service that cryptographically
// validates payment proofs. The server itself performs no blockchain I/O;
// this client is its only suspension point.
package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vitwit/mcpay/types"
)

// Client verifies a payment proof against the requirements of a route.
type Client interface {
	Verify(ctx context.Context, req *types.VerifyRequest) (*types.VerifyResponse, error)
}

// Config configures the HTTP facilitator client.
type Config struct {
	// URL is the base URL of the facilitator service.
	URL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *http.Client

	// Timeout for requests when no HTTPClient is supplied (optional,
	// defaults to 30s). Per-route deadlines are applied by the caller
	// through ctx.
	Timeout time.Duration
}

// HTTPClient communicates with a remote facilitator over HTTP.
type HTTPClient struct {
	url        string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTP facilitator client.
func NewHTTPClient(config *Config) *HTTPClient {
	if config == nil {
		config = &Config{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		url:        config.URL,
		httpClient: httpClient,
	}
}

// Verify posts the proof and requirements to the facilitator's /verify
// endpoint and decodes its verdict.
func (c *HTTPClient) Verify(ctx context.Context, verifyReq *types.VerifyRequest) (*types.VerifyResponse, error) {
	if err := verifyReq.Validate(); err != nil {
		return nil, fmt.Errorf("invalid verify request: %w", err)
	}

	body, err := json.Marshal(verifyReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read verify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facilitator verify failed (%d): %s", resp.StatusCode, string(responseBody))
	}

	var verifyResp types.VerifyResponse
	if err := json.Unmarshal(responseBody, &verifyResp); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	return &verifyResp, nil
}
