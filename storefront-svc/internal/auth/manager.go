package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"zomatify/storefront-svc/internal/domain"

	"go.uber.org/zap"
)

const (
	DefaultDebounceWindow = 300 * time.Millisecond
	DefaultProfileTimeout = 5 * time.Second
	DefaultRole           = "customer"

	errUnexpected = "An unexpected error occurred"
)

type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a snapshot of who is logged in. Session carries tokens and is never
// serialized.
type State struct {
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile"`
	Session *domain.Session `json:"-"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
	Status  Status          `json:"status"`
}

type Options struct {
	DebounceWindow time.Duration
	ProfileTimeout time.Duration
}

// Manager is the single source of truth for one client's login state.
type Manager struct {
	client   AuthClient
	profiles ProfileStore
	logger   *zap.SugaredLogger
	opts     Options

	mu               sync.Mutex
	state            State
	initializing     bool
	mounted          bool
	skipInitialEvent bool
	fetching         map[string]bool
	unsubscribe      func()
	debouncer        *debouncer
}

func NewManager(client AuthClient, profiles ProfileStore, logger *zap.SugaredLogger, opts Options) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = DefaultDebounceWindow
	}
	if opts.ProfileTimeout <= 0 {
		opts.ProfileTimeout = DefaultProfileTimeout
	}
	m := &Manager{
		client:   client,
		profiles: profiles,
		logger:   logger,
		opts:     opts,
		mounted:  true,
		fetching: make(map[string]bool),
	}
	m.debouncer = newDebouncer(opts.DebounceWindow, m.handleEvent)
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Initialize resolves the current session. Calls made while another
// initialization is in flight return immediately.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if !m.mounted || m.initializing {
		m.mu.Unlock()
		return
	}
	m.initializing = true
	m.state.Loading = true
	m.state.Status = StatusLoading
	subscribe := m.unsubscribe == nil
	if subscribe {
		m.skipInitialEvent = true
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.initializing = false
		m.mu.Unlock()
	}()

	if subscribe {
		unsubscribe := m.client.OnAuthStateChange(m.onAuthEvent)
		m.mu.Lock()
		if m.mounted {
			m.unsubscribe = unsubscribe
			unsubscribe = nil
		}
		m.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
			return
		}
	}

	session, err := m.client.GetSession(ctx)
	if err != nil {
		m.logger.Errorw("failed to get session", "error", err)
		m.setState(func(s *State) {
			*s = State{Error: err.Error(), Status: StatusAnonymous}
		})
		return
	}
	m.applySession(ctx, session)
}

func (m *Manager) onAuthEvent(event domain.AuthEvent) {
	m.mu.Lock()
	if !m.mounted {
		m.mu.Unlock()
		return
	}
	if m.skipInitialEvent {
		m.skipInitialEvent = false
		if event.Type == domain.EventInitialSession {
			m.mu.Unlock()
			return
		}
	}
	m.mu.Unlock()

	m.debouncer.Push(event)
}

func (m *Manager) handleEvent(event domain.AuthEvent) {
	m.logger.Debugw("auth state changed", "event", event.Type)

	if m.superseded(event) {
		m.logger.Debugw("dropping superseded auth event", "event", event.Type)
		return
	}

	if event.Type == domain.EventSignedOut || event.Session == nil {
		m.setState(func(s *State) {
			*s = State{Status: StatusAnonymous}
		})
		return
	}

	if event.Type == domain.EventTokenRefreshed || event.Type == domain.EventSignedIn {
		m.mu.Lock()
		sameUser := m.state.User != nil && m.state.User.ID == event.Session.User.ID && m.state.Profile != nil
		if sameUser && m.mounted {
			m.state.Session = event.Session
		}
		m.mu.Unlock()
		if sameUser {
			return
		}
	}

	m.applySession(context.Background(), event.Session)
}

// superseded reports whether the client has already moved past the session an
// event carries. Clients that cannot report their session never supersede.
func (m *Manager) superseded(event domain.AuthEvent) bool {
	src, ok := m.client.(SessionSource)
	if !ok {
		return false
	}
	return accessToken(src.CurrentSession()) != accessToken(event.Session)
}

func accessToken(session *domain.Session) string {
	if session == nil {
		return ""
	}
	return session.AccessToken
}

func (m *Manager) applySession(ctx context.Context, session *domain.Session) {
	if session == nil {
		m.setState(func(s *State) {
			*s = State{Status: StatusAnonymous}
		})
		return
	}

	user := session.User
	m.setState(func(s *State) {
		if m.superseded(domain.AuthEvent{Session: session}) {
			return
		}
		if s.User == nil || s.User.ID != user.ID {
			s.Profile = nil
		}
		s.User = &user
		s.Session = session
		s.Loading = true
		s.Error = ""
		s.Status = StatusLoading
	})

	profile, fetched := m.fetchProfile(ctx, user)
	if !fetched {
		return
	}
	m.setState(func(s *State) {
		if s.User == nil || s.User.ID != user.ID || m.superseded(domain.AuthEvent{Session: session}) {
			return
		}
		s.Profile = profile
		s.Loading = false
		s.Status = StatusAuthenticated
	})
}

// fetchProfile reports fetched=false when another fetch for the same user is
// already running. A nil profile with fetched=true means the lookup failed or
// timed out.
func (m *Manager) fetchProfile(ctx context.Context, user domain.User) (*domain.Profile, bool) {
	m.mu.Lock()
	if m.fetching[user.ID] {
		m.mu.Unlock()
		return nil, false
	}
	m.fetching[user.ID] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.fetching, user.ID)
		m.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, m.opts.ProfileTimeout)
	defer cancel()

	type result struct {
		profile *domain.Profile
		err     error
	}
	done := make(chan result, 1)
	go func() {
		profile, err := m.profiles.GetProfile(ctx, user.ID)
		done <- result{profile, err}
	}()

	select {
	case <-ctx.Done():
		m.logger.Warnw("profile fetch timed out", "user_id", user.ID, "timeout", m.opts.ProfileTimeout)
		return nil, true
	case res := <-done:
		switch {
		case errors.Is(res.err, domain.ErrProfileNotFound):
			return m.createProfile(ctx, user), true
		case res.err != nil:
			m.logger.Errorw("failed to fetch profile", "user_id", user.ID, "error", res.err)
			return nil, true
		}
		return res.profile, true
	}
}

func (m *Manager) createProfile(ctx context.Context, user domain.User) *domain.Profile {
	profile := domain.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.MetaString("first_name"),
		LastName:  user.MetaString("last_name"),
		Phone:     user.MetaString("phone"),
		Role:      user.MetaString("role"),
	}
	if profile.Phone == "" {
		profile.Phone = user.Phone
	}
	if profile.Role == "" {
		profile.Role = DefaultRole
	}

	created, err := m.profiles.CreateProfile(ctx, profile)
	if err != nil {
		m.logger.Errorw("failed to create missing profile", "user_id", user.ID, "error", err)
		return nil
	}
	m.logger.Infow("created missing profile", "user_id", user.ID)
	return created
}

func (m *Manager) setState(update func(*State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.mounted {
		return
	}
	update(&m.state)
}

func (m *Manager) recoverResult(operation string, res *domain.AuthResult) {
	if r := recover(); r != nil {
		m.logger.Errorw("unexpected auth failure", "operation", operation, "panic", r)
		m.setState(func(s *State) { s.Loading = false })
		*res = domain.AuthResult{Error: errUnexpected}
	}
}

func (m *Manager) fail(err error) domain.AuthResult {
	m.setState(func(s *State) {
		s.Loading = false
		s.Error = err.Error()
	})
	return domain.AuthResult{Error: err.Error()}
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (res domain.AuthResult) {
	defer m.recoverResult("sign_in", &res)

	if email == "" || password == "" {
		return domain.AuthResult{Error: "email and password are required"}
	}

	m.setState(func(s *State) {
		s.Loading = true
		s.Error = ""
	})
	session, err := m.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.logger.Warnw("sign in failed", "email", email, "error", err)
		return m.fail(err)
	}
	m.applySession(ctx, session)
	return domain.AuthResult{Success: true}
}

// SignUp registers the identity. The platform creates the profile row.
func (m *Manager) SignUp(ctx context.Context, req domain.SignUpRequest) (res domain.AuthResult) {
	defer m.recoverResult("sign_up", &res)

	if req.Email == "" || req.Password == "" {
		return domain.AuthResult{Error: "email and password are required"}
	}
	if req.Role == "" {
		req.Role = DefaultRole
	}

	m.setState(func(s *State) {
		s.Loading = true
		s.Error = ""
	})
	session, err := m.client.SignUp(ctx, req)
	if err != nil {
		m.logger.Warnw("sign up failed", "email", req.Email, "error", err)
		return m.fail(err)
	}
	if session == nil {
		// confirmation pending
		m.setState(func(s *State) { s.Loading = false })
		return domain.AuthResult{Success: true}
	}
	m.applySession(ctx, session)
	return domain.AuthResult{Success: true}
}

func (m *Manager) SignOut(ctx context.Context) (res domain.AuthResult) {
	defer m.recoverResult("sign_out", &res)

	if err := m.client.SignOut(ctx); err != nil {
		m.logger.Warnw("sign out failed", "error", err)
		return m.fail(err)
	}
	m.setState(func(s *State) {
		*s = State{Status: StatusAnonymous}
	})
	return domain.AuthResult{Success: true}
}

func (m *Manager) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (res domain.AuthResult) {
	defer m.recoverResult("update_profile", &res)

	m.mu.Lock()
	user := m.state.User
	m.mu.Unlock()

	if user == nil {
		return domain.AuthResult{Error: "not authenticated"}
	}
	if patch.Empty() {
		return domain.AuthResult{Error: "no profile fields to update"}
	}

	profile, err := m.profiles.UpdateProfile(ctx, user.ID, patch)
	if err != nil {
		m.logger.Errorw("failed to update profile", "user_id", user.ID, "error", err)
		return domain.AuthResult{Error: err.Error()}
	}
	m.setState(func(s *State) {
		if s.User != nil && s.User.ID == user.ID {
			s.Profile = profile
		}
	})
	return domain.AuthResult{Success: true}
}

// Close stops listening for remote changes. Later state writes are dropped.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.mounted {
		m.mu.Unlock()
		return
	}
	m.mounted = false
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	m.debouncer.Stop()
	if unsubscribe != nil {
		unsubscribe()
	}
}
