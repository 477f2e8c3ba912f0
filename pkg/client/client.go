// Package client is a typed HTTP client for the finance tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout      = 10 * time.Second
	correlationIDHeader = "X-Correlation-ID"
)

// Client calls the finance tracker REST API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API served at baseURL, e.g. http://localhost:4000
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type correlationKey struct{}

// WithCorrelationID makes requests issued with ctx carry the given X-Correlation-ID
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func (c *Client) ListMovements(ctx context.Context, opts ListOptions) (*MovementPage, error) {
	var page MovementPage
	if err := c.do(ctx, http.MethodGet, "/api/movements", listQuery(opts), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Type != "" {
		q.Set("type", string(opts.Type))
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	setTime(q, "from", opts.From)
	setTime(q, "to", opts.To)
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	return q
}

// ExportMovements downloads the movements matching opts as "csv" or "xlsx".
// Page and Limit in opts are ignored.
func (c *Client) ExportMovements(ctx context.Context, format string, opts ListOptions) ([]byte, error) {
	q := listQuery(opts)
	q.Del("page")
	q.Del("limit")
	if format != "" {
		q.Set("format", format)
	}

	resp, err := c.send(ctx, http.MethodGet, "/api/movements/export", q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return data, nil
}

func (c *Client) CreateMovement(ctx context.Context, in NewMovement) (*Movement, error) {
	var m Movement
	if err := c.do(ctx, http.MethodPost, "/api/movements", nil, in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMovement(ctx context.Context, id string, in MovementUpdate) (*Movement, error) {
	var m Movement
	if err := c.do(ctx, http.MethodPatch, "/api/movements/"+url.PathEscape(id), nil, in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMovement(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/movements/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.do(ctx, http.MethodGet, "/api/stats/summary", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// BalanceSeries fetches the running balance; nil bounds use the server defaults
func (c *Client) BalanceSeries(ctx context.Context, from, to *time.Time) (*BalanceSeries, error) {
	var s BalanceSeries
	if err := c.do(ctx, http.MethodGet, "/api/stats/balance-series", rangeQuery(from, to), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ExpensesByCategory fetches one month's breakdown; zero year or month use the server's current month
func (c *Client) ExpensesByCategory(ctx context.Context, year, month int) (*ExpensesByCategory, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if month > 0 {
		q.Set("month", strconv.Itoa(month))
	}

	var res ExpensesByCategory
	if err := c.do(ctx, http.MethodGet, "/api/stats/expenses-by-category", q, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ExpensesMonthly(ctx context.Context, from, to *time.Time) ([]MonthlyTotal, error) {
	var res struct {
		Data []MonthlyTotal `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stats/expenses-monthly", rangeQuery(from, to), nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) ExpensesMonthlyByCategory(ctx context.Context, from, to *time.Time) ([]MonthlyCategoryTotal, error) {
	var res struct {
		Data []MonthlyCategoryTotal `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stats/expenses-monthly-by-category", rangeQuery(from, to), nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// do sends one request and decodes a 2xx body into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// send returns the response of a 2xx request; any other status is turned into an *APIError
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		req.Header.Set(correlationIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode:    resp.StatusCode,
		Code:          http.StatusText(resp.StatusCode),
		CorrelationID: resp.Header.Get(correlationIDHeader),
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Field   string `json:"field"`
		} `json:"error"`
		CorrelationID string `json:"correlation_id"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Field = envelope.Error.Field
		if envelope.CorrelationID != "" {
			apiErr.CorrelationID = envelope.CorrelationID
		}
	}
	return apiErr
}

func rangeQuery(from, to *time.Time) url.Values {
	q := url.Values{}
	setTime(q, "from", from)
	setTime(q, "to", to)
	return q
}

func setTime(q url.Values, key string, t *time.Time) {
	if t != nil {
		q.Set(key, t.UTC().Format(time.RFC3339Nano))
	}
}
