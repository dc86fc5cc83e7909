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
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable is returned when the API cannot be reached at all.
var ErrUnavailable = errors.New("cannot connect to the API. Is the service running?")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Message, e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Calculation is the API's answer to a calculate request.
type Calculation struct {
	Operation         string      `json:"operation"`
	InputValue        int64       `json:"input_value"`
	Exponent          *int64      `json:"exponent"`
	Result            json.Number `json:"result"`
	Cached            bool        `json:"cached"`
	ComputationTimeMs float64     `json:"computation_time_ms"`
	Timestamp         time.Time   `json:"timestamp"`
}

// HistoryItem is one recorded calculation.
type HistoryItem struct {
	ID                uint        `json:"id"`
	Operation         string      `json:"operation"`
	InputValue        int64       `json:"input_value"`
	Exponent          *int64      `json:"exponent"`
	Result            json.Number `json:"result"`
	ComputationTimeMs float64     `json:"computation_time_ms"`
	Cached            bool        `json:"cached"`
	CreatedAt         time.Time   `json:"created_at"`
}

// CacheStats mirrors GET /cache/stats.
type CacheStats struct {
	Size        int     `json:"size"`
	MaxSize     int     `json:"max_size"`
	TTLSeconds  float64 `json:"ttl_seconds"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	Expirations uint64  `json:"expirations"`
}

// Client talks to the math operations API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a Client for the API rooted at baseURL (e.g. http://localhost:8000/api/v1).
// A nil httpClient uses a client with a 30s timeout.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Calculate runs op on value; exponent is only sent when non-nil.
func (c *Client) Calculate(ctx context.Context, op string, value int64, exponent *int64) (*Calculation, error) {
	body := map[string]any{"operation": op, "value": value}
	if exponent != nil {
		body["exponent"] = *exponent
	}
	var out Calculation
	if err := c.do(ctx, http.MethodPost, "/calculate", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HistoryPage is one page of history plus the number of matching records.
type HistoryPage struct {
	Items []HistoryItem
	Total int64
}

// History lists recent calculations, optionally filtered by operation.
func (c *Client) History(ctx context.Context, limit int, op string) (*HistoryPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if op != "" {
		q.Set("operation", op)
	}
	page := &HistoryPage{}
	hdr, err := c.doWithHeader(ctx, http.MethodGet, "/history", q, nil, &page.Items)
	if err != nil {
		return nil, err
	}
	if v := hdr.Get("X-Total-Count"); v != "" {
		total, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse X-Total-Count %q: %w", v, err)
		}
		page.Total = total
	} else {
		page.Total = int64(len(page.Items))
	}
	return page, nil
}

// CacheStats fetches the cache snapshot.
func (c *Client) CacheStats(ctx context.Context) (*CacheStats, error) {
	var out CacheStats
	if err := c.do(ctx, http.MethodGet, "/cache/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearCache empties the server cache. Requires a token.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cache", nil, nil, nil)
}

// Login exchanges credentials for an admin token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	_, err := c.doWithHeader(ctx, method, path, query, in, out)
	return err
}

func (c *Client) doWithHeader(ctx context.Context, method, path string, query url.Values, in, out any) (http.Header, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
			apiErr.Detail = e.Detail
		}
		return nil, apiErr
	}

	if out == nil {
		return resp.Header, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return resp.Header, nil
}
