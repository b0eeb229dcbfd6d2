// Package client implements the room-assignment workflow against the dorm
// API. It owns the session credential, classifies every response into a typed
// outcome and tracks the authenticated/unauthenticated state so callers never
// repeat the 401 handling themselves. It performs no rendering and makes no
// navigation decisions; those stay with the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	// ErrInvalidCredentials is returned by Login when the server rejects the
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when the server reports the session as
	// missing or expired, or when a session call is made before Login.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound is returned when a referenced dorm or room does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRoomFull is returned by AssignRoom when the room is at capacity.
	// Rooms fill concurrently, so this is an expected outcome.
	ErrRoomFull = errors.New("room is full")
)

// StatusError reports a response that maps to no sentinel outcome.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Code)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Message)
}

// State is the client's position in the session state machine.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Config holds the explicit construction parameters of a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // Zero means 30 seconds.
	HTTPProxy string
}

// Client talks to the dorm assignment API. The session credential is a
// server-issued cookie held in the client's jar; it rides on every request
// automatically.
type Client struct {
	base   *url.URL
	client *http.Client

	mu    sync.Mutex
	state State
}

// New creates a Client from the given configuration.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		base: base,
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   timeout,
		},
	}, nil
}

// State reports whether the client currently holds a live session.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Login authenticates with the server. On success the session cookie is
// captured by the jar and the client transitions to the authenticated state.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	status, payload, err := c.roundTrip(ctx, http.MethodPost, "/login", body)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		c.setState(StateAuthenticated)
		return nil
	case status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusForbidden:
		return fmt.Errorf("login rejected: %w", ErrInvalidCredentials)
	default:
		return &StatusError{Code: status, Message: errorMessage(payload)}
	}
}

// Logout revokes the session server-side and resets the client to the
// unauthenticated state regardless of the server's answer.
func (c *Client) Logout(ctx context.Context) error {
	defer c.setState(StateUnauthenticated)
	if c.State() != StateAuthenticated {
		return nil
	}
	status, payload, err := c.roundTrip(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	if status >= 200 && status < 300 || status == http.StatusUnauthorized {
		return nil
	}
	return &StatusError{Code: status, Message: errorMessage(payload)}
}

// ListDorms fetches all dorms.
func (c *Client) ListDorms(ctx context.Context) ([]Dorm, error) {
	var payload []dormPayload
	if err := c.get(ctx, "/dorms", &payload); err != nil {
		return nil, err
	}
	dorms := make([]Dorm, len(payload))
	for i, d := range payload {
		dorms[i] = Dorm{ID: d.ID, Name: d.Name}
	}
	return dorms, nil
}

// ListRooms fetches the rooms of one dorm, occupants included. The occupant
// counts are a snapshot: a room can fill between this call and AssignRoom,
// so callers must treat them as a hint only.
func (c *Client) ListRooms(ctx context.Context, dormID string) ([]Room, error) {
	var payload []roomPayload
	if err := c.get(ctx, "/dorms/"+url.PathEscape(dormID)+"/rooms", &payload); err != nil {
		return nil, err
	}
	rooms := make([]Room, len(payload))
	for i, r := range payload {
		occupants := make([]Occupant, len(r.CurrentStudents))
		for j, s := range r.CurrentStudents {
			occupants[j] = Occupant{Name: s.Name}
		}
		rooms[i] = Room{
			ID:        r.ID,
			DormID:    dormID,
			Number:    r.Number,
			Capacity:  r.Capacity,
			Occupants: occupants,
		}
	}
	return rooms, nil
}

// UserInfo fetches the current user, including the assigned room if any.
func (c *Client) UserInfo(ctx context.Context) (UserInfo, error) {
	var payload userInfoPayload
	if err := c.get(ctx, "/user", &payload); err != nil {
		return UserInfo{}, err
	}
	return UserInfo{
		ID:             payload.User.ID,
		Email:          payload.User.Email,
		Name:           payload.User.Name,
		AssignedRoomID: payload.User.AssignedRoom,
	}, nil
}

// AssignRoom assigns the current user to the room. Any prior assignment is
// released by the server.
func (c *Client) AssignRoom(ctx context.Context, roomID string) error {
	return c.post(ctx, "/rooms/"+url.PathEscape(roomID)+"/assign")
}

// UnassignRoom releases the current user's assignment. Unassigning while not
// assigned is not an error; the server acknowledges either way.
func (c *Client) UnassignRoom(ctx context.Context) error {
	return c.post(ctx, "/rooms/unassign")
}

// get performs a session-requiring GET and decodes the success body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	status, payload, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := c.classify(status, payload); err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", path, err)
	}
	return nil
}

// post performs a session-requiring POST that expects an empty ack.
func (c *Client) post(ctx context.Context, path string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	status, payload, err := c.roundTrip(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	return c.classify(status, payload)
}

// requireSession short-circuits session calls made without a live session.
// Once the server reports 401 the state machine demands a fresh Login before
// any further session-requiring call.
func (c *Client) requireSession() error {
	if c.State() != StateAuthenticated {
		return ErrUnauthenticated
	}
	return nil
}

// classify maps a response status onto the typed outcome shared by every
// session-requiring operation. A 401 from any call flips the client to the
// unauthenticated state.
func (c *Client) classify(status int, payload []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		c.setState(StateUnauthenticated)
		return ErrUnauthenticated
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrRoomFull
	default:
		return &StatusError{Code: status, Message: errorMessage(payload)}
	}
}

// roundTrip issues one request and reads the whole response body. Transport
// failures do not change the session state; the server never saw the call.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, payload, nil
}

// errorMessage extracts the server's error field, if the body carries one.
func errorMessage(payload []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(payload, &body) == nil && body.Error != "" {
		return body.Error
	}
	return ""
}
