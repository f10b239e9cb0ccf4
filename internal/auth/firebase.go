// Package auth signs administrators in and out against the Firebase
// Identity Provider and tracks their sessions server-side.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// User is an authenticated administrator account.
type User struct {
	UID         string
	Email       string
	DisplayName string
	IDToken     string
}

// Client talks to the Firebase Identity Toolkit REST API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn authenticates an email and password pair.
func (c *Client) SignIn(ctx context.Context, email, password string) (User, error) {
	resp, err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return User{}, err
	}
	return userFrom(resp), nil
}

// SignUp registers a new account and sets its display name.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (User, error) {
	resp, err := c.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return User{}, err
	}
	u := userFrom(resp)

	if displayName != "" {
		updated, err := c.post(ctx, "accounts:update", map[string]any{
			"idToken":           resp.IDToken,
			"displayName":       displayName,
			"returnSecureToken": true,
		})
		if err != nil {
			// The account exists; a failed profile update is not fatal.
			return u, nil
		}
		u.DisplayName = updated.DisplayName
		if updated.IDToken != "" {
			u.IDToken = updated.IDToken
		}
	}
	return u, nil
}

// ChangePassword re-authenticates with the current password, then sets
// the new one. Failures carry the form field they belong to.
func (c *Client) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	resp, err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          currentPassword,
		"returnSecureToken": true,
	})
	if err != nil {
		var authErr *Error
		if errors.As(err, &authErr) {
			return (&Error{Code: authErr.Code, Message: "Incorrect current password."}).withField("currentPassword")
		}
		return err
	}

	_, err = c.post(ctx, "accounts:update", map[string]any{
		"idToken":           resp.IDToken,
		"password":          newPassword,
		"returnSecureToken": true,
	})
	if err != nil {
		var authErr *Error
		if errors.As(err, &authErr) && authErr.Code == "WEAK_PASSWORD" {
			return (&Error{Code: authErr.Code, Message: "The new password is too weak."}).withField("newPassword")
		}
		return err
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload map[string]any) (authResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return authResponse{}, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return authResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return authResponse{}, &Error{Message: genericAuthMessage}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(httpResp.Body).Decode(&errResp); err != nil {
			return authResponse{}, &Error{Message: genericAuthMessage}
		}
		return authResponse{}, newError(errResp.Error.Message)
	}

	var resp authResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return authResponse{}, &Error{Message: genericAuthMessage}
	}
	return resp, nil
}

func userFrom(resp authResponse) User {
	return User{
		UID:         resp.LocalID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		IDToken:     resp.IDToken,
	}
}
