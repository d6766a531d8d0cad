// Package client is a typed HTTP client for the discovery API. Credentials
// are held explicitly and cleared by Logout.
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
	"sync"
	"time"

	"go.uber.org/zap"

	"vibin_discovery/models"
)

const seenTimeout = 5 * time.Second

// Credentials identify the logged in user
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Page selects one discovery page
type Page struct {
	Limit   int
	Page    int
	Exclude []string
}

// Client talks to the discovery API
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	mu    sync.RWMutex
	creds Credentials

	background sync.WaitGroup
}

// New creates a client for baseURL.
func New(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// Login installs the credentials used by every authenticated call
func (c *Client) Login(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

// Logout forgets the credentials
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = Credentials{}
}

// Credentials returns the current credentials and whether the client is logged in
func (c *Client) Credentials() (Credentials, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds, c.creds.Token != ""
}

// Close waits for fire-and-forget requests to finish
func (c *Client) Close() {
	c.background.Wait()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, authenticated bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		creds, ok := c.Credentials()
		if !ok {
			return ErrNoCredentials
		}
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
			apiErr.Code = payload.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// FetchCandidates returns one page of discovery candidates
func (c *Client) FetchCandidates(ctx context.Context, p Page) ([]models.Candidate, error) {
	query := url.Values{}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}
	if len(p.Exclude) > 0 {
		query.Set("exclude", strings.Join(p.Exclude, ","))
	}

	var resp models.DiscoveryResponse
	if err := c.do(ctx, http.MethodGet, "/api/discovery", query, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}

// Swipe sends a like, pass or super like
func (c *Client) Swipe(ctx context.Context, req models.SwipeRequest) (*models.SwipeResponse, error) {
	var resp models.SwipeResponse
	if err := c.do(ctx, http.MethodPost, "/api/discovery/swipe", nil, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Undo asks the server to revert the last swipe
func (c *Client) Undo(ctx context.Context) (bool, error) {
	var resp models.UndoResponse
	if err := c.do(ctx, http.MethodPost, "/api/discovery/undo", nil, nil, &resp, true); err != nil {
		return false, err
	}
	return resp.Undone, nil
}

// MarkSeen records that userID was shown
func (c *Client) MarkSeen(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/discovery/seen", nil, models.SeenRequest{UserID: userID}, nil, true)
}

// MarkSeenAsync records a seen marker in the background and only logs failures
func (c *Client) MarkSeenAsync(userID string) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), seenTimeout)
		defer cancel()
		if err := c.MarkSeen(ctx, userID); err != nil {
			c.log.Debug("mark seen failed", zap.String("candidate", userID), zap.Error(err))
		}
	}()
}

// Matches lists the user's matches
func (c *Client) Matches(ctx context.Context) ([]models.Match, error) {
	var resp struct {
		Matches []models.Match `json:"matches"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/matches", nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

func (c *Client) Preferences(ctx context.Context) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := c.do(ctx, http.MethodGet, "/api/preferences", nil, nil, &prefs, true); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (c *Client) UpdatePreferences(ctx context.Context, prefs models.Preferences) (*models.Preferences, error) {
	var saved models.Preferences
	if err := c.do(ctx, http.MethodPut, "/api/preferences", nil, prefs, &saved, true); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) UpdateLocation(ctx context.Context, loc models.LocationUpdate) error {
	return c.do(ctx, http.MethodPost, "/api/profile/location", nil, loc, nil, true)
}

// RequestToken asks a development server for a token for userID
func (c *Client) RequestToken(ctx context.Context, userID string) (Credentials, error) {
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/api/auth/token", nil, map[string]string{"user_id": userID}, &creds, false)
	return creds, err
}
