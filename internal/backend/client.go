// Package backend is the HTTP client for the cloud POS API. The terminal
// treats the backend as an external collaborator: sales, deliveries,
// shifts, tables and the catalog all live there.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukapos/terminal/internal/config"
	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/pkg/apperror"
)

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client calls the cloud POS API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client from config.
func New(cfg config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// do performs one request and decodes the enveloped response into out.
// 4xx responses surface the server's message verbatim and are not
// retryable; transport errors and 5xx responses are retryable submission
// failures where the caller must not assume the request did not land.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.NewSubmissionError(http.StatusBadGateway,
			fmt.Sprintf("Could not reach the sales backend: %v", err), true)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apperror.NewSubmissionError(http.StatusBadGateway,
			"Reading the backend response failed", true)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode >= 500:
		msg := "The sales backend reported a server error"
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		return apperror.NewSubmissionError(resp.StatusCode, msg, true)
	case resp.StatusCode >= 400:
		msg := fmt.Sprintf("The sales backend rejected the request (HTTP %d)", resp.StatusCode)
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		return apperror.NewSubmissionError(resp.StatusCode, msg, false)
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return apperror.NewSubmissionError(http.StatusBadGateway,
			"The backend response could not be decoded", true)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperror.NewSubmissionError(http.StatusBadGateway,
			"The backend response could not be decoded", true)
	}
	return nil
}

// CreateSale submits a sale exactly once and returns the server's copy,
// enriched with an id and receipt number.
func (c *Client) CreateSale(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	var created entity.Sale
	if err := c.do(ctx, http.MethodPost, "/sales", sale, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetSale re-reads the canonical sale by id.
func (c *Client) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	if err := c.do(ctx, http.MethodGet, "/sales/"+id.String(), nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// CreateDelivery creates the delivery record for an already-created sale.
func (c *Client) CreateDelivery(ctx context.Context, delivery *entity.Delivery) (*entity.Delivery, error) {
	var created entity.Delivery
	if err := c.do(ctx, http.MethodPost, "/deliveries", delivery, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// FetchCatalog pulls the full product catalog for this outlet.
func (c *Client) FetchCatalog(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := c.do(ctx, http.MethodGet, "/catalog/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ActiveShift returns the open shift for the outlet, or nil when no shift
// is open.
func (c *Client) ActiveShift(ctx context.Context, outletID uuid.UUID) (*entity.Shift, error) {
	var shift entity.Shift
	err := c.do(ctx, http.MethodGet, "/outlets/"+outletID.String()+"/shifts/active", nil, &shift)
	if err != nil {
		if apperror.IsKind(err, apperror.KindSubmission) {
			appErr := apperror.GetAppError(err)
			if appErr.Code == http.StatusNotFound {
				return nil, nil
			}
		}
		return nil, err
	}
	if !shift.Open {
		return nil, nil
	}
	return &shift, nil
}

// GetTable returns a restaurant table by id.
func (c *Client) GetTable(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	var table entity.Table
	if err := c.do(ctx, http.MethodGet, "/tables/"+id.String(), nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ListTables returns the outlet's tables.
func (c *Client) ListTables(ctx context.Context) ([]entity.Table, error) {
	var tables []entity.Table
	if err := c.do(ctx, http.MethodGet, "/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}
