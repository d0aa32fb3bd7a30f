// Package gateway is the HTTP client for the remote Platanadas backend:
// login, day-data fetch, order create/update/cancel, and bulk history sync.
// Every authenticated call carries the session's bearer token; a 401 answer
// logs the register out locally. Requests share one fixed timeout, after
// which a call fails like any other network error. No call is cancellable
// once issued and none is retried automatically; failed work stays local
// and reaches the backend on the next manual sync.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/platanadas/pos-client/internal/session"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every backend round trip.
const DefaultTimeout = 10 * time.Second

// ErrUnauthorized is returned when the backend rejects the token. The
// session has already been cleared by the time callers see it.
var ErrUnauthorized = errors.New("gateway: unauthorized")

// ServerError is a non-2xx answer with a body: the backend reached us and
// said no. Distinct from a transport error, which means the backend may
// never have seen the request.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("gateway: server rejected request (%d): %s", e.Status, e.Body)
}

// Client talks to the remote backend.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	log     *zap.Logger
}

// New creates a Client. timeout <= 0 falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration, sess *session.Session, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		session: sess,
		log:     logger,
	}
}

// Login exchanges branch credentials for a bearer token. It does not touch
// the session; the login flow opens the session only once day-data also
// succeeded.
func (c *Client) Login(ctx context.Context, branchID, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login-sucursal", loginRequest{ID: branchID, Pass: password}, &resp, "")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// DayData fetches the ingredient catalog, seasonal presets, and the
// backend-known order history for the authenticated branch.
func (c *Client) DayData(ctx context.Context) (DayData, error) {
	var resp DayData
	err := c.do(ctx, http.MethodGet, "/sucursal/datos-dia", nil, &resp, c.session.Token())
	return resp, err
}

// DayDataWithToken is DayData before the session is open, during login.
func (c *Client) DayDataWithToken(ctx context.Context, token string) (DayData, error) {
	var resp DayData
	err := c.do(ctx, http.MethodGet, "/sucursal/datos-dia", nil, &resp, token)
	return resp, err
}

// CreateOrder registers an order and returns the backend-assigned id.
func (c *Client) CreateOrder(ctx context.Context, rec OrderRecord) (string, error) {
	var resp createOrderResponse
	err := c.do(ctx, http.MethodPost, "/pedidos/nuevo", rec, &resp, c.session.Token())
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// UpdateOrder sets the lifecycle and payment state of a known order.
func (c *Client) UpdateOrder(ctx context.Context, remoteID, status, paymentStatus string) error {
	return c.do(ctx, http.MethodPost, "/pedidos/actualizar", updateOrderRequest{
		ID:            remoteID,
		Status:        status,
		PaymentStatus: paymentStatus,
	}, nil, c.session.Token())
}

// CancelOrder cancels a known order with a free-text reason.
func (c *Client) CancelOrder(ctx context.Context, remoteID, reason string) error {
	return c.do(ctx, http.MethodPost, "/pedidos/cancelar", cancelOrderRequest{
		ID:     remoteID,
		Reason: reason,
	}, nil, c.session.Token())
}

// SyncOrders submits the whole ledger snapshot and returns the per-entry
// outcomes. The response parses atomically: a malformed body fails the call
// as a whole, never a partial result.
func (c *Client) SyncOrders(ctx context.Context, records []OrderRecord) ([]SyncResult, error) {
	var resp syncResponse
	err := c.do(ctx, http.MethodPost, "/pedidos/sync-historial", syncRequest{Orders: records}, &resp, c.session.Token())
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// do runs one JSON round trip. token == "" sends the request anonymously.
func (c *Client) do(ctx context.Context, method, path string, body, out any, token string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn("token rejected by backend, logging out", zap.String("path", path))
		c.session.Logout()
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ServerError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
