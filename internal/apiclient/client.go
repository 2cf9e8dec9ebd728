// Package apiclient is the HTTP client for the prepdesk API.
//
// Every request carries the stored access token. When the API answers 401 the
// client refreshes the access token once and replays the request once. When the
// refresh itself fails, both tokens are cleared and the auth-lost handler runs.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Credentials is the token storage the client reads and updates.
type Credentials interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Client talks to the prepdesk API.
type Client struct {
	baseURL    string
	http       *http.Client
	creds      Credentials
	logger     *slog.Logger
	onAuthLost func()
	timeout    time.Duration

	refreshGroup singleflight.Group

	Auth            *AuthService
	Assessments     *AssessmentService
	Evaluation      *EvaluationService
	Recommendations *RecommendationService
	Mentors         *MentorService
	Bookings        *BookingService
	Progress        *ProgressService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every HTTP exchange. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithAuthLostHandler sets fn to run after a failed refresh has cleared the
// tokens. The CLI uses it to route to the sign-in view.
func WithAuthLostHandler(fn func()) Option {
	return func(c *Client) {
		c.onAuthLost = fn
	}
}

// New creates a Client for the API rooted at apiBaseURL (without the /api suffix).
func New(apiBaseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(apiBaseURL, "/") + "/api",
		http:    &http.Client{},
		creds:   creds,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}

	c.Auth = &AuthService{c: c}
	c.Assessments = &AssessmentService{c: c}
	c.Evaluation = &EvaluationService{c: c}
	c.Recommendations = &RecommendationService{c: c}
	c.Mentors = &MentorService{c: c}
	c.Bookings = &BookingService{c: c}
	c.Progress = &ProgressService{c: c}
	return c
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// payload is a fully buffered request body so it can be sent twice.
type payload struct {
	contentType string
	data        []byte
}

func jsonPayload(v any) (*payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &payload{contentType: "application/json", data: data}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := jsonPayload(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, body, out)
}

// do sends the request with the current access token, handling a 401 with at
// most one refresh and one replay.
func (c *Client) do(ctx context.Context, method, path string, body *payload, out any) error {
	token, err := c.creds.AccessToken(ctx)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return decodeResponse(resp, out)
	}

	unauthorized := responseError(resp)
	newToken, err := c.refresh(ctx, token)
	if errors.Is(err, errNoRefreshToken) {
		return unauthorized
	}
	if err != nil {
		return err
	}

	c.logger.Debug("Replaying request with refreshed token", "method", method, "path", path)
	resp, err = c.send(ctx, method, path, body, newToken)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, body *payload, token string) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body.data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		c.logger.Debug("No access token stored, sending request unauthenticated", "path", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

var errNoRefreshToken = errors.New("no refresh token stored")

// refresh returns an access token to replay with. Concurrent callers share one
// refresh call. If the stored token already differs from the one that was
// rejected, another request has refreshed in the meantime and that token is used.
//
// The shared call is detached from ctx: a caller that gives up stops waiting,
// but the refresh carries on for the others.
func (c *Client) refresh(ctx context.Context, rejected string) (string, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.refreshGroup.DoChan("refresh", func() (any, error) {
		current, err := c.creds.AccessToken(shared)
		if err != nil {
			return "", err
		}
		if current != "" && current != rejected {
			return current, nil
		}
		return c.refreshOnce(shared)
	})

	select {
	case <-ctx.Done():
		c.logger.Debug("Stopped waiting for token refresh", "error", ctx.Err())
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("Joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) refreshOnce(ctx context.Context) (string, error) {
	refreshToken, err := c.creds.RefreshToken(ctx)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", errNoRefreshToken
	}

	pair, err := c.Auth.Refresh(ctx, refreshToken)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Aborted, not rejected: the stored tokens stay.
		return "", err
	}
	if err != nil {
		c.logger.Warn("Token refresh failed, clearing credentials", "error", err)
		if clearErr := c.creds.Clear(ctx); clearErr != nil {
			c.logger.Error("Failed to clear credentials", "error", clearErr)
		}
		if c.onAuthLost != nil {
			c.onAuthLost()
		}
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	if err := c.creds.SetAccessToken(ctx, pair.AccessToken); err != nil {
		return "", err
	}
	c.logger.Info("Access token refreshed")
	return pair.AccessToken, nil
}

// sendBare performs a request without the auth handling in do.
func (c *Client) sendBare(ctx context.Context, method, path string, in, out any) error {
	body, err := jsonPayload(in)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, method, path, body, "")
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
