// Package gateway is the single choke point for backend access: it resolves
// the base URL, issues requests, normalizes bodies and maps failures to
// *HTTPError. Feature code never touches net/http directly.
package gateway

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

	"bookshelf/internal/logger"
)

const maxBodyBytes = 1 << 20

// Kind tags what a response body turned out to be.
type Kind int

const (
	KindNoContent Kind = iota
	KindJSON
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	default:
		return "no_content"
	}
}

// Result is a normalized response body.
type Result struct {
	Kind   Kind
	Status int
	JSON   json.RawMessage
	Text   string
}

// NoContent reports whether the server answered 204.
func (r Result) NoContent() bool { return r.Kind == KindNoContent }

// Decode unmarshals a JSON result into out. No-content results leave out untouched.
func (r Result) Decode(out any) error {
	switch r.Kind {
	case KindNoContent:
		return nil
	case KindJSON:
		if len(bytes.TrimSpace(r.JSON)) == 0 {
			return nil
		}
		if err := json.Unmarshal(r.JSON, out); err != nil {
			return fmt.Errorf("gateway: decode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("gateway: expected json response, got %s", r.Kind)
	}
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// RequestOptions describe one call. An empty Method means GET.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

// Client talks to the bookshelf backend.
type Client struct {
	http    *http.Client
	baseURL string
	log     *logger.Logger
}

// New resolves the base URL once and builds a client around it.
func New(cfg Config, log *logger.Logger) *Client {
	cfg = cfg.withDefaults()
	log = logger.OrDiscard(log).With("component", "gateway")
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: ResolveBaseURL(cfg, log),
		log:     log,
	}
}

// NewWithHTTPClient skips base URL resolution. Used by tests and the CLI's -api flag.
func NewWithHTTPClient(baseURL string, hc *http.Client, log *logger.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		log:     logger.OrDiscard(log).With("component", "gateway"),
	}
}

// BaseURL returns the resolved backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Request performs one call against a path relative to the base URL.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (Result, error) {
	if c == nil || c.http == nil {
		return Result{}, errors.New("gateway: nil client")
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return Result{}, fmt.Errorf("gateway: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Result{}, fmt.Errorf("gateway: new request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	for k, v := range opts.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return Result{}, fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	res, err := readResult(resp)
	if err != nil {
		return Result{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(res)}
	}
	return res, nil
}

func readResult(resp *http.Response) (Result, error) {
	if resp.StatusCode == http.StatusNoContent {
		return Result{Kind: KindNoContent, Status: resp.StatusCode}, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("gateway: read body: %w", err)
	}

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/json") {
		return Result{Kind: KindJSON, Status: resp.StatusCode, JSON: json.RawMessage(raw)}, nil
	}
	return Result{Kind: KindText, Status: resp.StatusCode, Text: string(raw)}, nil
}

// errorMessage prefers the body's "message" field and falls back to a generic line.
func errorMessage(res Result) string {
	if res.Kind == KindJSON {
		var body struct {
			Message any `json:"message"`
		}
		if err := json.Unmarshal(res.JSON, &body); err == nil {
			if s, ok := body.Message.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("HTTP error %d", res.Status)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	res, err := c.Request(ctx, path, RequestOptions{})
	if err != nil {
		return err
	}
	return res.Decode(out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	res, err := c.Request(ctx, path, RequestOptions{Method: method, Body: in})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.Decode(out)
}
