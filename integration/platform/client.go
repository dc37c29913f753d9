package platform

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

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/ussd"
)

// Config holds platform API connection settings loaded from the environment.
type Config struct {
	BaseURL string        `env:"PLATFORM_BASE_URL,required"`
	APIKey  string        `env:"PLATFORM_API_KEY,required"`
	Timeout time.Duration `env:"PLATFORM_HTTP_TIMEOUT" envDefault:"10s"`
}

var (
	ErrInvalidConfig    = errors.New("invalid platform client config")
	ErrRequestFailed    = errors.New("platform request failed")
	ErrUnexpectedStatus = errors.New("unexpected platform response status")
)

// Client talks to the AgriCredit platform API. It satisfies every
// collaborator interface in core/ussd.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Interface guards.
var (
	_ ussd.LoanService    = (*Client)(nil)
	_ ussd.PaymentService = (*Client)(nil)
	_ ussd.BalanceService = (*Client)(nil)
	_ ussd.DeviceService  = (*Client)(nil)
	_ ussd.MarketService  = (*Client)(nil)
	_ ussd.WeatherService = (*Client)(nil)
)

// New creates a platform API client. Both the base URL and API key are
// required so a misconfigured service fails at startup, not on the first
// subscriber dialog.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: BaseURL is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: BaseURL must be a valid URL", ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// MustNew creates a platform client that panics on invalid config.
func MustNew(cfg Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Services bundles the client into the engine's collaborator set.
func (c *Client) Services() ussd.Services {
	return ussd.Services{
		Loans:    c,
		Payments: c,
		Balances: c,
		Devices:  c,
		Market:   c,
		Weather:  c,
	}
}

// Submit implements ussd.LoanService.
func (c *Client) Submit(ctx context.Context, app ussd.LoanApplication) (ussd.LoanReceipt, error) {
	var out struct {
		ApplicationID string `json:"application_id"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/loans/applications", app.IdempotencyKey, map[string]any{
		"phone_number": app.PhoneNumber,
		"loan_type":    app.LoanType,
		"amount":       app.Amount,
	}, &out)
	if err != nil {
		return ussd.LoanReceipt{}, err
	}
	return ussd.LoanReceipt{ApplicationID: out.ApplicationID}, nil
}

// ListActive implements ussd.LoanService.
func (c *Client) ListActive(ctx context.Context, phoneNumber string) ([]ussd.Loan, error) {
	var out struct {
		Loans []struct {
			Type        string    `json:"type"`
			Amount      int64     `json:"amount"`
			Status      string    `json:"status"`
			NextPayment time.Time `json:"next_payment"`
		} `json:"loans"`
	}
	path := "/v1/loans/active?phone=" + url.QueryEscape(phoneNumber)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	loans := make([]ussd.Loan, len(out.Loans))
	for i, l := range out.Loans {
		loans[i] = ussd.Loan{Type: l.Type, Amount: l.Amount, Status: l.Status, NextPayment: l.NextPayment}
	}
	return loans, nil
}

// PaymentHistory implements ussd.LoanService.
func (c *Client) PaymentHistory(ctx context.Context, phoneNumber string) ([]ussd.PaymentRecord, error) {
	var out struct {
		Payments []struct {
			Amount int64     `json:"amount"`
			PaidAt time.Time `json:"paid_at"`
		} `json:"payments"`
	}
	path := "/v1/loans/payments?phone=" + url.QueryEscape(phoneNumber)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	records := make([]ussd.PaymentRecord, len(out.Payments))
	for i, p := range out.Payments {
		records[i] = ussd.PaymentRecord{Amount: p.Amount, PaidAt: p.PaidAt}
	}
	return records, nil
}

// Process implements ussd.PaymentService.
func (c *Client) Process(ctx context.Context, req ussd.PaymentRequest) (ussd.PaymentReceipt, error) {
	var out struct {
		Reference string `json:"reference"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/payments", req.IdempotencyKey, map[string]any{
		"phone_number": req.PhoneNumber,
		"amount":       req.Amount,
		"method":       req.Method,
	}, &out)
	if err != nil {
		return ussd.PaymentReceipt{}, err
	}
	return ussd.PaymentReceipt{Reference: out.Reference}, nil
}

// GetBalance implements ussd.BalanceService.
func (c *Client) GetBalance(ctx context.Context, phoneNumber string) (ussd.Balance, error) {
	var out struct {
		Available int64 `json:"available"`
		Pending   int64 `json:"pending"`
	}
	path := "/v1/balances?phone=" + url.QueryEscape(phoneNumber)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return ussd.Balance{}, err
	}
	return ussd.Balance{Available: out.Available, Pending: out.Pending}, nil
}

// Register implements ussd.DeviceService.
func (c *Client) Register(ctx context.Context, reg ussd.DeviceRegistration) (ussd.DeviceReceipt, error) {
	var out struct {
		DeviceID string `json:"device_id"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/devices", reg.IdempotencyKey, map[string]any{
		"phone_number":  reg.PhoneNumber,
		"device_type":   reg.DeviceType,
		"location":      reg.Location,
		"serial_number": reg.SerialNumber,
	}, &out)
	if err != nil {
		return ussd.DeviceReceipt{}, err
	}
	return ussd.DeviceReceipt{DeviceID: out.DeviceID}, nil
}

// GetPrice implements ussd.MarketService.
func (c *Client) GetPrice(ctx context.Context, commodity string) (ussd.MarketPrice, error) {
	var out struct {
		Commodity string `json:"commodity"`
		Price     int64  `json:"price"`
		Unit      string `json:"unit"`
		Change    string `json:"change"`
	}
	path := "/v1/market/prices/" + url.PathEscape(commodity)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return ussd.MarketPrice{}, err
	}
	return ussd.MarketPrice{Commodity: out.Commodity, Price: out.Price, Unit: out.Unit, Change: out.Change}, nil
}

// GetWeather implements ussd.WeatherService.
func (c *Client) GetWeather(ctx context.Context, location string) (ussd.WeatherReport, error) {
	var out struct {
		Temperature float64 `json:"temperature"`
		Humidity    int     `json:"humidity"`
		Condition   string  `json:"condition"`
	}
	path := "/v1/weather?location=" + url.QueryEscape(location)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return ussd.WeatherReport{}, err
	}
	return ussd.WeatherReport{Temperature: out.Temperature, Humidity: out.Humidity, Condition: out.Condition}, nil
}

// do executes one API call: JSON in, JSON out, API key and optional
// idempotency key in headers. Non-2xx responses become ErrUnexpectedStatus
// with the status attached.
func (c *Client) do(ctx context.Context, method, path, idempotencyKey string, in any, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Read a little of the body for the log line; the engine only ever
		// shows the subscriber a generic message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return errors.Join(ErrUnexpectedStatus,
			fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	return nil
}
