// Package users talks to the user service: listing shoppers, registering new
// accounts and checking login credentials.
package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultTimeout = 8 * time.Second

var (
	// ErrInvalidUser is returned before any request when a registration is incomplete.
	ErrInvalidUser = errors.New("users: invalid user")
	// ErrNotFound reports an unknown user id.
	ErrNotFound = errors.New("users: not found")
	// ErrEmailTaken reports a registration for an email that already has an account.
	ErrEmailTaken = errors.New("users: email already registered")
	// ErrBadCredentials reports a failed login.
	ErrBadCredentials = errors.New("users: invalid email or password")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// User mirrors the user service representation. Passwords never leave the service.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// Validate returns one message key per invalid field, keyed by form field name.
// An empty map means the request can be sent.
func (r RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	required := map[string]string{
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"email":      r.Email,
		"phone":      r.Phone,
		"password":   r.Password,
	}
	for field, val := range required {
		if strings.TrimSpace(val) == "" {
			errs[field] = "register.error.required"
		}
	}
	if _, missing := errs["email"]; !missing && !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		errs["email"] = "register.error.email"
	}
	return errs
}

func (r RegisterRequest) normalized() RegisterRequest {
	return RegisterRequest{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		Password:  r.Password,
	}
}

// Client issues user calls. When baseURL is empty it keeps accounts in memory.
type Client struct {
	baseURL string
	http    *http.Client
	dir     *directory
}

// NewClient constructs a user client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		dir:     newDirectory(),
	}
}

// Offline reports whether the client serves accounts from memory.
func (c *Client) Offline() bool { return c.baseURL == "" }

// ListUsers returns every user in service order.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	if c.baseURL == "" {
		return c.dir.list(), nil
	}
	var raw []userPayload
	if err := c.do(ctx, http.MethodGet, nil, &raw, "users"); err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	out := make([]User, 0, len(raw))
	for _, u := range raw {
		out = append(out, u.toUser())
	}
	return out, nil
}

// GetUser returns one user or ErrNotFound.
func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	if c.baseURL == "" {
		return c.dir.get(id)
	}
	var raw userPayload
	if err := c.do(ctx, http.MethodGet, nil, &raw, "users", id); err != nil {
		return User{}, fmt.Errorf("users: get %s: %w", id, err)
	}
	return raw.toUser(), nil
}

// Register creates an account and returns it as recorded by the service.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return User{}, fmt.Errorf("%w: %d invalid fields", ErrInvalidUser, len(errs))
	}
	req = req.normalized()
	if c.baseURL == "" {
		return c.dir.register(req, time.Now().UTC())
	}
	body := registerPayload{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	}
	var raw userPayload
	if err := c.do(ctx, http.MethodPost, body, &raw, "users", "register"); err != nil {
		return User{}, fmt.Errorf("users: register: %w", err)
	}
	return raw.toUser(), nil
}

// Login checks credentials and returns the matching user.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, ErrBadCredentials
	}
	if c.baseURL == "" {
		return c.dir.login(email, password)
	}
	var raw userPayload
	body := loginPayload{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, body, &raw, "users", "login"); err != nil {
		return User{}, fmt.Errorf("users: login: %w", err)
	}
	return raw.toUser(), nil
}

func (c *Client) do(ctx context.Context, method string, in, out any, elem ...string) error {
	endpoint, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, drainError(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func statusError(code int, msg string) error {
	var sentinel error
	switch code {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrEmailTaken
	case http.StatusUnauthorized:
		sentinel = ErrBadCredentials
	case http.StatusBadRequest:
		sentinel = ErrInvalidUser
	}
	if sentinel != nil {
		return fmt.Errorf("%w: status %d: %s", sentinel, code, msg)
	}
	return fmt.Errorf("HTTP error: status %d: %s", code, msg)
}

type registerPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (p userPayload) toUser() User {
	return User{
		ID:        strings.TrimSpace(p.UserID),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     strings.TrimSpace(p.Email),
		Phone:     strings.TrimSpace(p.Phone),
		CreatedAt: parseTime(p.CreatedAt),
		UpdatedAt: parseTime(p.UpdatedAt),
	}
}

func drainError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}

func parseTime(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}
