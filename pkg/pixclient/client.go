/**
 * @description
 * This package provides a typed HTTP client for the pixhub transaction
 * service. The terminal client uses it for every interaction with the
 * backend: signing in, submitting transfers and working the review queue.
 *
 * Transport problems (connection refused, timeouts, malformed responses)
 * surface as errors wrapping ErrTransport so callers can tell an unreachable
 * backend apart from a transfer the backend declined.
 *
 * @dependencies
 * - github.com/google/uuid: For transaction identifiers.
 * - github.com/pixhub/pixhub/internal/domain: Shared wire types.
 */

package pixclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixhub/pixhub/internal/domain"
)

// ErrTransport marks failures where no usable response came back from the
// backend. A transfer rejected by fraud screening is not a transport error.
var ErrTransport = errors.New("pixclient: transport failure")

// APIError is a non-2xx response decoded from the backend's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pixclient: api error (status %d): %s", e.StatusCode, e.Message)
}

// Client is the HTTP client for the pixhub backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken installs the bearer token used on authenticated endpoints.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges demo credentials for a session token and stores the token
// on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, taxID, password string) (domain.Session, error) {
	var session domain.Session
	payload := domain.LoginRequest{TaxID: taxID, Password: password}
	if err := c.do(ctx, http.MethodPost, "/sessions", payload, &session); err != nil {
		return domain.Session{}, err
	}
	c.token = session.Token
	return session, nil
}

// CreateTransfer submits a transfer for fraud screening. The returned
// transaction carries the screening outcome in its Status field.
func (c *Client) CreateTransfer(ctx context.Context, req domain.CreateTransactionRequest) (domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", req, &tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// ListByStatus fetches every transaction currently in the given status.
func (c *Client) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	path := fmt.Sprintf("/transactions/status/%s", status)
	if err := c.do(ctx, http.MethodGet, path, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Approve resolves a pending review as legitimate.
func (c *Client) Approve(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	return c.review(ctx, id, "approve")
}

// Reject resolves a pending review as fraudulent.
func (c *Client) Reject(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	return c.review(ctx, id, "reject")
}

func (c *Client) review(ctx context.Context, id uuid.UUID, action string) (domain.Transaction, error) {
	var tx domain.Transaction
	path := fmt.Sprintf("/transactions/%s/%s", id, action)
	if err := c.do(ctx, http.MethodPost, path, nil, &tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// do builds, sends and decodes a request against the backend.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrTransport, err)
		}
	}
	return nil
}
