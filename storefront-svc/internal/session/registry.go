package session

import (
	"context"
	"sync"
	"time"

	"zomatify/storefront-svc/internal/auth"
	"zomatify/storefront-svc/internal/cart"

	"go.uber.org/zap"
)

const DefaultIdleTTL = 30 * time.Minute

// Session is the server side state of one browser session.
type Session struct {
	ID   string
	Cart *cart.Manager
	Auth *auth.Manager

	lastSeen time.Time
}

type Config struct {
	CartStorage func(sessionID string) cart.Storage
	AuthClient  func(sessionID string) auth.AuthClient
	Profiles    auth.ProfileStore
	AuthOptions auth.Options
	IdleTTL     time.Duration
}

// Registry hands out one Session per id and evicts sessions that have been
// idle longer than IdleTTL. Cart snapshots outlive eviction in CartStorage.
type Registry struct {
	cfg    Config
	logger *zap.SugaredLogger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cfg Config, logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating and initializing it on first use.
// The cart snapshot is loaded outside the registry lock.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	if s := r.touch(id); s != nil {
		return s
	}

	logger := r.logger.With("session_id", id)
	built := &Session{
		ID:   id,
		Cart: cart.NewManager(ctx, r.cfg.CartStorage(id), logger),
		Auth: auth.NewManager(r.cfg.AuthClient(id), r.cfg.Profiles, logger, r.cfg.AuthOptions),
	}

	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		r.mu.Unlock()
		built.Auth.Close()
		return s
	}
	built.lastSeen = r.now()
	r.sessions[id] = built
	r.mu.Unlock()

	logger.Debug("session created")
	built.Auth.Initialize(ctx)
	return built
}

func (r *Registry) touch(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	s.lastSeen = r.now()
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes and drops idle sessions and reports how many were evicted.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Auth.Close()
	}
	if len(idle) > 0 {
		r.logger.Infow("evicted idle sessions", "count", len(idle))
	}
	return len(idle)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.IdleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Auth.Close()
	}
}
