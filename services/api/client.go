package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reservas/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CredentialProvider supplies the bearer token attached to every call.
// Token returns "" when there is no session; such calls go out anonymous.
// Invalidate is called when the API answers 401.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context)
}

// Options tune a Client. Zero values pick the defaults.
type Options struct {
	Timeout        time.Duration
	RequestsPerSec float64
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Client talks JSON to the reservation API. Every request is a single attempt.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	credentials CredentialProvider
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates an API client rooted at baseURL (e.g. http://host/api).
func NewClient(baseURL string, credentials CredentialProvider, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
			Timeout: timeout,
		}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSec > 0 {
		burst := int(opts.RequestsPerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
		limiter:     limiter,
		logger:      logger.Named("api"),
	}
}

// Get decodes a single JSON object (or any JSON value) into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, jsonDecoder(out))
}

// GetList decodes a list endpoint into out, tolerating the wrappers DecodeList knows.
func (c *Client) GetList(ctx context.Context, path string, query url.Values, out any, keys ...string) error {
	return c.do(ctx, http.MethodGet, path, query, nil, func(body []byte) error {
		return DecodeList(body, out, keys...)
	})
}

// GetItem decodes a single object that may be wrapped in one of keys.
func (c *Client) GetItem(ctx context.Context, path string, out any, keys ...string) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, func(body []byte) error {
		return DecodeItem(body, out, keys...)
	})
}

// Post sends body as JSON and decodes the answer into out (out may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, jsonDecoder(out))
}

// Put sends body as JSON (body may be nil) and decodes the answer into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, jsonDecoder(out))
}

// Delete issues a DELETE and decodes the answer into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, jsonDecoder(out))
}

// Ping checks connectivity to the API.
func (c *Client) Ping(ctx context.Context) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.Get(ctx, "/ping", nil, &resp); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	return &resp, nil
}

// Close cleans up idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func jsonDecoder(out any) func([]byte) error {
	return func(body []byte) error {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		return json.Unmarshal(body, out)
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, decode func([]byte) error) error {
	requestID := uuid.New().String()
	logger := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: rate limiter: %w", method, path, err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.credentials != nil {
		token, err := c.credentials.Token(ctx)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("API network error (no response)", zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	logger = logger.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(method, path, resp.StatusCode, respBody)
		logger.Warn("API error", zap.String("message", apiErr.Message), zap.String("details", apiErr.Details))
		if resp.StatusCode == http.StatusUnauthorized && c.credentials != nil {
			c.credentials.Invalidate(ctx)
		}
		return apiErr
	}

	logger.Debug("API success")

	if err := decode(respBody); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
