// Package api is a small typed client for the sportstore HTTP API.
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
)

type Account struct {
	ID          string    `json:"_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

type Registration struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Password    string `json:"password"`
}

// ProfileUpdate carries the fields to change. Nil fields are left out of
// the request.
type ProfileUpdate struct {
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
}

type LoginResult struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        *Account `json:"user"`
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the API rooted at baseURL
// (e.g. "http://127.0.0.1:8000").
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Health reports the server status. A 503 still decodes the body and
// returns it together with an error matching ErrUnavailable.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", "", nil, &h)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusServiceUnavailable {
		return &h, err
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) Register(ctx context.Context, r Registration) (*Account, error) {
	var a Account
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", r, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Login(ctx context.Context, email string, password []byte) (*LoginResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: string(password)}

	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, u ProfileUpdate) (*Account, error) {
	var a Account
	if err := c.do(ctx, http.MethodPatch, "/api/auth/update-profile", token, u, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Me(ctx context.Context, token string) (*Account, error) {
	var a Account
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &detail) == nil {
			se.Detail = detail.Detail
		}
		// Health reports its state in the body even when unhealthy.
		if out != nil && resp.StatusCode == http.StatusServiceUnavailable {
			_ = json.Unmarshal(data, out)
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
