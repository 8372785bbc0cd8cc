package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"zomatify/storefront-svc/internal/auth"
	"zomatify/storefront-svc/internal/domain"

	"go.uber.org/zap"
)

var (
	_ auth.AuthClient    = (*Client)(nil)
	_ auth.SessionSource = (*Client)(nil)
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Error is a failure reported by the auth platform.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth service returned status %d", e.StatusCode)
}

// Client talks to a GoTrue compatible auth API and holds one user's session.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPClient
	logger  *zap.SugaredLogger
	now     func() time.Time

	mu          sync.Mutex
	session     *domain.Session
	subscribers map[int]*subscriber
	nextID      int
}

func NewClient(baseURL, apiKey string, client HTTPClient, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		client:      client,
		logger:      logger,
		now:         time.Now,
		subscribers: make(map[int]*subscriber),
	}
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         domain.User `json:"user"`
}

func (c *Client) toSession(tok tokenResponse) *domain.Session {
	session := &domain.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		User:         tok.User,
	}
	switch {
	case tok.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(tok.ExpiresAt, 0)
	case tok.ExpiresIn > 0:
		session.ExpiresAt = c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return session
}

// GetSession returns the cached session, refreshing it first when the access
// token has expired.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, nil
	}
	if !session.Expired(c.now()) {
		return session, nil
	}

	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": session.RefreshToken}, &tok)
	if err != nil {
		c.logger.Warnw("session refresh failed", "user_id", session.User.ID, "error", err)
		c.setSession(nil, domain.EventSignedOut)
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	refreshed := c.toSession(tok)
	c.setSession(refreshed, domain.EventTokenRefreshed)
	return refreshed, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &tok)
	if err != nil {
		return nil, err
	}

	session := c.toSession(tok)
	c.setSession(session, domain.EventSignedIn)
	return session, nil
}

// SignUp registers a user. The returned session is nil while the platform
// waits for email confirmation.
func (c *Client) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	metadata := map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"role":       req.Role,
	}
	if req.Phone != "" {
		metadata["phone"] = req.Phone
	}
	body := map[string]interface{}{
		"email":    req.Email,
		"password": req.Password,
		"data":     metadata,
	}

	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, nil
	}

	session := c.toSession(tok)
	c.setSession(session, domain.EventSignedIn)
	return session, nil
}

// SignOut revokes the session remotely. The local session is dropped even when
// the remote call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/auth/v1/logout", session.AccessToken, nil, nil)
	c.setSession(nil, domain.EventSignedOut)
	return err
}

// CurrentSession returns the cached session without refreshing it.
func (c *Client) CurrentSession() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// OnAuthStateChange registers a listener. It receives INITIAL_SESSION right
// away and every later change, in the order the changes happened, on a
// goroutine owned by the subscription.
func (c *Client) OnAuthStateChange(listener func(domain.AuthEvent)) func() {
	sub := newSubscriber(listener)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = sub
	sub.push(domain.AuthEvent{Type: domain.EventInitialSession, Session: c.session})
	c.mu.Unlock()

	go sub.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
			close(sub.done)
		})
	}
}

// setSession queues the event while holding mu so every subscriber sees
// changes in the order they were made.
func (c *Client) setSession(session *domain.Session, eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = session
	event := domain.AuthEvent{Type: eventType, Session: session}
	for _, sub := range c.subscribers {
		sub.push(event)
	}
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call auth service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	return nil
}

// decodeError understands both the OAuth style body and the newer
// {code, error_code, msg} body.
func decodeError(status int, payload []byte) error {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	authErr := &Error{StatusCode: status}
	if err := json.Unmarshal(payload, &body); err != nil {
		return authErr
	}

	authErr.Code = body.ErrorCode
	if authErr.Code == "" {
		authErr.Code = body.Error
	}
	for _, msg := range []string{body.ErrorDescription, body.Msg, body.Message} {
		if msg != "" {
			authErr.Message = msg
			break
		}
	}
	return authErr
}
