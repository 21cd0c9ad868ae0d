package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrStoreNotFound is returned when a merchant slug does not resolve.
var ErrStoreNotFound = errors.New("store not found")

// APIError is a non-2xx backend response. The backend reports failures as
// {"detail": "..."}; Detail holds that message when present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty string means unauthenticated.
type TokenSource interface {
	Token() string
}

// Client talks to the storefront backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	// OnUnauthorized runs once per 401 response, before the error is
	// returned. Callers wire it to a full session wipe.
	OnUnauthorized func()
}

// NewClient creates a backend client. tokens may be nil for a purely public
// client.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
}

// SetTimeout overrides the request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// do issues a JSON request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &envelope) == nil {
			apiErr.Detail = envelope.Detail
		}
		if resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ==================== Auth ====================

// Register creates an account and returns the new user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The caller is responsible
// for persisting it.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var token TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ==================== Catalog ====================

// Vouchers lists the globally available vouchers (public endpoint).
func (c *Client) Vouchers(ctx context.Context) ([]Voucher, error) {
	var vouchers []Voucher
	if err := c.do(ctx, http.MethodGet, "/client/vouchers", nil, &vouchers); err != nil {
		return nil, err
	}
	return vouchers, nil
}

// StoreInfo resolves a merchant storefront by slug.
func (c *Client) StoreInfo(ctx context.Context, slug string) (*StoreInfo, error) {
	var info StoreInfo
	err := c.do(ctx, http.MethodGet, "/store/"+url.PathEscape(slug), nil, &info)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return &info, nil
}

// StoreVouchers lists the vouchers scoped to one merchant.
func (c *Client) StoreVouchers(ctx context.Context, slug string) ([]Voucher, error) {
	var vouchers []Voucher
	err := c.do(ctx, http.MethodGet, "/store/"+url.PathEscape(slug)+"/vouchers", nil, &vouchers)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return vouchers, nil
}

// ==================== Orders ====================

// CreateOrder starts a checkout attempt.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/client/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders lists the authenticated user's orders.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/client/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminOrders pages through all orders (admin).
func (c *Client) AdminOrders(ctx context.Context, skip, limit int) ([]Order, error) {
	var orders []Order
	path := "/admin/orders?" + pageQuery(skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ==================== Payments ====================

// MercadoPagoPublicKey fetches the gateway public key used for tokenization.
func (c *Client) MercadoPagoPublicKey(ctx context.Context) (string, error) {
	var resp PublicKeyResponse
	if err := c.do(ctx, http.MethodGet, "/payment/mercadopago/public-key", nil, &resp); err != nil {
		return "", err
	}
	return resp.PublicKey, nil
}

// ProcessPayment settles an order.
func (c *Client) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/payment/process", req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ConfirmPayment confirms a PIX order after out-of-band settlement.
func (c *Client) ConfirmPayment(ctx context.Context, orderID string) (*ConfirmResult, error) {
	var result ConfirmResult
	if err := c.do(ctx, http.MethodPost, "/payment/confirm/"+url.PathEscape(orderID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PaymentStatus returns the current payment record for an order.
func (c *Client) PaymentStatus(ctx context.Context, orderID string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/payment/status/"+url.PathEscape(orderID), nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ==================== Dashboards ====================

// ClientDashboard returns the client-facing aggregates.
func (c *Client) ClientDashboard(ctx context.Context) (*DashboardData, error) {
	var data DashboardData
	if err := c.do(ctx, http.MethodGet, "/client/dashboard", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// AdminDashboard returns the admin-facing aggregates.
func (c *Client) AdminDashboard(ctx context.Context) (*DashboardData, error) {
	var data DashboardData
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ==================== Admin ====================

// Config returns the company and financial profiles.
func (c *Client) Config(ctx context.Context) (*AdminConfig, error) {
	var cfg AdminConfig
	if err := c.do(ctx, http.MethodGet, "/admin/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfig updates the company and/or financial profiles.
func (c *Client) UpdateConfig(ctx context.Context, req UpdateConfigRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPut, "/admin/config", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Users pages through registered users (admin).
func (c *Client) Users(ctx context.Context, skip, limit int) ([]User, error) {
	var users []User
	path := "/admin/users?" + pageQuery(skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateVoucher creates a voucher (admin).
func (c *Client) CreateVoucher(ctx context.Context, req VoucherRequest) (*Voucher, error) {
	var voucher Voucher
	if err := c.do(ctx, http.MethodPost, "/admin/vouchers", req, &voucher); err != nil {
		return nil, err
	}
	return &voucher, nil
}

// UpdateVoucher updates a voucher (admin).
func (c *Client) UpdateVoucher(ctx context.Context, id string, req VoucherRequest) (*Voucher, error) {
	var voucher Voucher
	if err := c.do(ctx, http.MethodPut, "/admin/vouchers/"+url.PathEscape(id), req, &voucher); err != nil {
		return nil, err
	}
	return &voucher, nil
}

// DeleteVoucher deactivates a voucher (admin).
func (c *Client) DeleteVoucher(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/vouchers/"+url.PathEscape(id), nil, nil)
}

func pageQuery(skip, limit int) string {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	return q.Encode()
}
