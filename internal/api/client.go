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
	"strings"
	"time"

	"bookbnb/internal/config"
	"bookbnb/internal/domain"
	"bookbnb/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const maxBodySize = 4 << 20

// TokenSource supplies the bearer token for authenticated calls and is told when the backend rejects it.
type TokenSource interface {
	Token() string
	Invalidate(ctx context.Context)
}

type authMode int

const (
	authNone authMode = iota
	authRequired
)

var (
	_ domain.API     = (*Client)(nil)
	_ domain.AuthAPI = (*Client)(nil)
)

// Client is the REST client for the bookbnb backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration

	tokens TokenSource
}

// NewClient constructs a client from the api section of the config.
// A zero timeout leaves requests bounded only by their context.
func NewClient(cfg config.APIConfig, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	httpClient := &http.Client{}
	if cfg.TimeoutSeconds > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimit.RPS > 0 {
		burst := cfg.RateLimit.Burst
		if burst <= 0 {
			burst = 5
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// UseRedisCache configures optional Redis caching for public GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// ForSession returns a client sharing transport, limiter and cache that
// authenticates with tokens from src.
func (c *Client) ForSession(src TokenSource) *Client {
	cp := *c
	cp.tokens = src
	return &cp
}

type request struct {
	method   string
	path     string
	query    url.Values
	body     any
	auth     authMode
	endpoint string // metrics label, e.g. "GET /properties/:id"

	// token overrides the token source (used by /auth/me during restore).
	token string
	// credentials marks login/register: any failure is an AuthError.
	credentials bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	token := r.token
	fromSource := false
	if token == "" && r.auth == authRequired {
		if c.tokens != nil {
			token = c.tokens.Token()
			fromSource = true
		}
		if token == "" {
			return &domain.AuthError{Err: domain.ErrUnauthenticated}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.NetworkError{Message: "request was cancelled", Err: err}
		}
	}

	req, err := c.newRequest(ctx, r, token)
	if err != nil {
		return fmt.Errorf("build %s: %w", r.endpoint, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPI(r.endpoint, 0, time.Since(start))
		c.logger.Warn().Err(err).Str("endpoint", r.endpoint).Msg("API request failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &domain.NetworkError{Message: "The request timed out. Please try again.", Err: err}
		}
		return &domain.NetworkError{Message: "Unable to reach the server. Please try again.", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	metrics.ObserveAPI(r.endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return &domain.NetworkError{Status: resp.StatusCode, Message: "Unable to read the server response.", Err: err}
	}

	c.logger.Debug().
		Str("endpoint", r.endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := c.statusError(r, resp.StatusCode, data)
		if fromSource && resp.StatusCode == http.StatusUnauthorized {
			c.tokens.Invalidate(ctx)
		}
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.NetworkError{Status: resp.StatusCode, Message: "Unexpected API response", Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r request, token string) (*http.Request, error) {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) statusError(r request, status int, body []byte) error {
	msg := extractMessage(body)

	switch {
	case r.credentials:
		if msg == "" {
			msg = "Invalid email or password"
		}
		return &domain.AuthError{Status: status, Message: msg}
	case status == http.StatusUnauthorized:
		return &domain.AuthError{Status: status, Message: msg, Err: domain.ErrSessionExpired}
	case status == http.StatusForbidden:
		return &domain.AuthError{Status: status, Message: msg, Err: domain.ErrForbidden}
	}

	if msg == "" {
		msg = domain.FallbackMessage
	}
	return &domain.NetworkError{Status: status, Message: msg}
}

func (c *Client) get(ctx context.Context, path, endpoint string, auth authMode, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, endpoint: endpoint, auth: auth}, out)
}

func (c *Client) send(ctx context.Context, method, path, endpoint string, body, out any) error {
	return c.do(ctx, request{method: method, path: path, endpoint: endpoint, body: body, auth: authRequired}, out)
}
