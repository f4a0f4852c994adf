// Package upstream talks to the Frappe-style student-management REST API
// (`/api/resource/<DocType>`) that the portal proxies.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/noah-isme/student-portal-api/pkg/config"
)

const (
	maxBodyBytes     = 10 << 20
	defaultUserAgent = "student-portal-api"
)

// ErrUnavailable marks failures where no HTTP response was obtained from upstream.
var ErrUnavailable = errors.New("upstream unavailable")

// StatusError is returned when upstream answers with a non-2xx status.
type StatusError struct {
	DocType    string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s responded with status %d", e.DocType, e.StatusCode)
}

// Details returns the upstream body as JSON when possible, otherwise as trimmed text.
func (e *StatusError) Details() interface{} {
	trimmed := strings.TrimSpace(string(e.Body))
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return trimmed
}

// Observer receives timing for every upstream round trip. status is 0 when no response was received.
type Observer interface {
	ObserveUpstreamRequest(docType string, status int, duration time.Duration)
}

// Filter is a single `[field, operator, value]` filter triple.
type Filter struct {
	Field    string
	Operator string
	Value    interface{}
}

// MarshalJSON encodes the filter in the array form upstream expects.
func (f Filter) MarshalJSON() ([]byte, error) {
	return encodeParam([]interface{}{f.Field, f.Operator, f.Value})
}

// encodeParam renders v as compact JSON for a query parameter, leaving operators like `>=` unescaped.
func encodeParam(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ListQuery describes a resource listing. A zero Limit requests every row.
type ListQuery struct {
	Filters []Filter
	Fields  []string
	OrderBy string
	Limit   int
}

// Client performs authenticated GETs against the upstream API.
type Client struct {
	baseURL    string
	authHeader string
	userAgent  string
	retries    int
	backoff    time.Duration
	maxBackoff time.Duration
	client     *http.Client
	observer   Observer
}

// New builds a client from configuration. observer may be nil.
func New(cfg config.UpstreamConfig, observer Observer) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	delay := cfg.RetryBackoff
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  defaultUserAgent,
		retries:    retries,
		backoff:    delay,
		maxBackoff: 5 * time.Second,
		client:     &http.Client{Timeout: timeout, Transport: tr},
		observer:   observer,
	}
	if cfg.APIKey != "" || cfg.APISecret != "" {
		c.authHeader = fmt.Sprintf("token %s:%s", cfg.APIKey, cfg.APISecret)
	}
	return c
}

// GetDoc fetches a single document and returns its `data` member.
func (c *Client) GetDoc(ctx context.Context, docType, name string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/api/resource/%s/%s", c.baseURL, url.PathEscape(docType), url.PathEscape(name))
	return c.fetchData(ctx, docType, u)
}

// ListDocs lists documents matching q and returns the `data` array.
func (c *Client) ListDocs(ctx context.Context, docType string, q ListQuery) (json.RawMessage, error) {
	params := url.Values{}
	if len(q.Filters) > 0 {
		raw, err := encodeParam(q.Filters)
		if err != nil {
			return nil, fmt.Errorf("encode filters: %w", err)
		}
		params.Set("filters", string(raw))
	}
	if len(q.Fields) > 0 {
		raw, err := encodeParam(q.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode fields: %w", err)
		}
		params.Set("fields", string(raw))
	}
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
	}
	params.Set("limit_page_length", strconv.Itoa(q.Limit))

	u := fmt.Sprintf("%s/api/resource/%s?%s", c.baseURL, url.PathEscape(docType), params.Encode())
	return c.fetchData(ctx, docType, u)
}

func (c *Client) fetchData(ctx context.Context, docType, u string) (json.RawMessage, error) {
	body, err := c.getWithRetry(ctx, docType, u)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", docType, err)
	}
	if len(envelope.Data) == 0 {
		return json.RawMessage("null"), nil
	}
	return envelope.Data, nil
}

func (c *Client) getWithRetry(ctx context.Context, docType, u string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.backoff
	policy.MaxInterval = c.maxBackoff
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	var body []byte
	err := backoff.Retry(func() error {
		b, retryable, err := c.get(ctx, docType, u)
		if err != nil {
			if !retryable {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retries)), ctx))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, docType, u string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(docType, 0, time.Since(start))
		return nil, true, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(docType, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, retryableStatus(resp.StatusCode), &StatusError{DocType: docType, StatusCode: resp.StatusCode, Body: body}
	}
	return body, false, nil
}

func (c *Client) observe(docType string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstreamRequest(docType, status, d)
	}
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
