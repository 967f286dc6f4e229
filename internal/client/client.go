// Package client is the typed HTTP client and tag-invalidated query cache for
// the inventory API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inventory-api/internal/domain"
)

// NewProduct is the payload for POST /products
type NewProduct struct {
	ProductID     string   `json:"productId"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Rating        *float64 `json:"rating,omitempty"`
	StockQuantity int      `json:"stockQuantity"`
}

// NewSale is the payload for POST /sales. TotalAmount is computed by the
// caller and sent as is.
type NewSale struct {
	SaleID      string     `json:"saleId,omitempty"`
	ProductID   string     `json:"productId"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice"`
	TotalAmount float64    `json:"totalAmount"`
	Location    string     `json:"location"`
}

// NewPurchase is the payload for POST /purchases
type NewPurchase struct {
	PurchaseID string     `json:"purchaseId,omitempty"`
	ProductID  string     `json:"productId"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Quantity   int        `json:"quantity"`
	UnitCost   float64    `json:"unitCost"`
	TotalCost  float64    `json:"totalCost"`
	Location   string     `json:"location"`
}

// NewUser is the payload for POST /users
type NewUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// APIError is a non-2xx response decoded from the server's error envelope
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []domain.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.Message, strings.Join(parts, "; "))
}

// Is lets callers test API errors against the domain taxonomy
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrValidation:
		return e.Status == http.StatusBadRequest
	case domain.ErrStore:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// Client calls the inventory REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a Client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	path := "/products"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p NewProduct) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStockQuantity(ctx context.Context, productID string, stockQuantity int) (*domain.Product, error) {
	var out domain.Product
	body := map[string]int{"stockQuantity": stockQuantity}
	if err := c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(productID)+"/stockQuantity", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes the product together with its sales and purchases
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(productID), nil, nil)
}

func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var out []domain.Sale
	if err := c.do(ctx, http.MethodGet, "/sales", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSale(ctx context.Context, s NewSale) (*domain.Sale, error) {
	var out domain.Sale
	if err := c.do(ctx, http.MethodPost, "/sales", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	var out []domain.Purchase
	if err := c.do(ctx, http.MethodGet, "/purchases", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePurchase(ctx context.Context, p NewPurchase) (*domain.Purchase, error) {
	var out domain.Purchase
	if err := c.do(ctx, http.MethodPost, "/purchases", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, u NewUser) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPost, "/users", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Status: resp.StatusCode,
		Code:   http.StatusText(resp.StatusCode),
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details struct {
				ValidationErrors []domain.FieldError `json:"validation_errors"`
			} `json:"details"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	if envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
	}
	apiErr.Message = envelope.Error.Message
	apiErr.Fields = envelope.Error.Details.ValidationErrors
	return apiErr
}

// AsAPIError unwraps err into an *APIError when the failure came from the server
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
