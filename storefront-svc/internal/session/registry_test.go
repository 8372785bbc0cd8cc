package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"zomatify/storefront-svc/internal/auth"
	"zomatify/storefront-svc/internal/cart"
	"zomatify/storefront-svc/internal/domain"
	"zomatify/storefront-svc/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	registry     *Registry
	storages     map[string]*cart.MemoryStorage
	unsubscribed atomic.Int32
	clock        time.Time
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		storages: make(map[string]*cart.MemoryStorage),
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	profiles := mocks.NewProfileStore(t)

	f.registry = NewRegistry(Config{
		CartStorage: func(id string) cart.Storage {
			if s, ok := f.storages[id]; ok {
				return s
			}
			s := cart.NewMemoryStorage(nil)
			f.storages[id] = s
			return s
		},
		AuthClient: func(string) auth.AuthClient {
			client := mocks.NewAuthClient(t)
			client.On("OnAuthStateChange", mock.Anything).Return(func() { f.unsubscribed.Add(1) }).Once()
			client.On("GetSession", mock.Anything).Return(nil, nil).Once()
			return client
		},
		Profiles:    profiles,
		AuthOptions: auth.Options{DebounceWindow: 10 * time.Millisecond},
		IdleTTL:     time.Minute,
	}, nil)
	f.registry.now = func() time.Time { return f.clock }
	t.Cleanup(f.registry.Close)
	return f
}

func TestRegistry_GetReturnsSameManagers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.registry.Get(ctx, "sess-1")
	second := f.registry.Get(ctx, "sess-1")
	other := f.registry.Get(ctx, "sess-2")

	assert.Same(t, first, second)
	assert.Same(t, first.Cart, second.Cart)
	assert.Same(t, first.Auth, second.Auth)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, f.registry.Len())
	assert.Equal(t, auth.StatusAnonymous, first.Auth.State().Status)
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.registry.Get(ctx, "idle")
	f.clock = f.clock.Add(45 * time.Second)
	f.registry.Get(ctx, "active")
	f.clock = f.clock.Add(30 * time.Second)

	evicted := f.registry.Sweep()

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, f.registry.Len())
	assert.Equal(t, int32(1), f.unsubscribed.Load())
}

func TestRegistry_TouchKeepsSessionAlive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.registry.Get(ctx, "sess-1")
	f.clock = f.clock.Add(50 * time.Second)
	f.registry.Get(ctx, "sess-1")
	f.clock = f.clock.Add(50 * time.Second)

	assert.Equal(t, 0, f.registry.Sweep())
}

func TestRegistry_CartSurvivesEviction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.registry.Get(ctx, "sess-1")
	s.Cart.AddItem(ctx, domain.MenuItem{ID: 1, Name: "Dosa", Price: 90}, 2, "", nil)

	f.clock = f.clock.Add(2 * time.Minute)
	require.Equal(t, 1, f.registry.Sweep())

	reloaded := f.registry.Get(ctx, "sess-1")
	assert.NotSame(t, s, reloaded)
	state := reloaded.Cart.State()
	assert.Equal(t, 2, state.TotalItems)
	assert.InDelta(t, 180.0, state.TotalPrice, 1e-9)
}

func TestRegistry_Close(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.registry.Get(ctx, "a")
	f.registry.Get(ctx, "b")
	f.registry.Close()

	assert.Equal(t, 0, f.registry.Len())
	assert.Equal(t, int32(2), f.unsubscribed.Load())
}

type gatedStorage struct {
	cart.Storage
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStorage) Load(ctx context.Context) ([]byte, error) {
	close(g.entered)
	<-g.release
	return g.Storage.Load(ctx)
}

func newLenientRegistry(t *testing.T, storage func(id string) cart.Storage) *Registry {
	registry := NewRegistry(Config{
		CartStorage: storage,
		AuthClient: func(string) auth.AuthClient {
			client := mocks.NewAuthClient(t)
			client.On("OnAuthStateChange", mock.Anything).Return(func() {}).Maybe()
			client.On("GetSession", mock.Anything).Return(nil, nil).Maybe()
			return client
		},
		Profiles:    mocks.NewProfileStore(t),
		AuthOptions: auth.Options{DebounceWindow: 10 * time.Millisecond},
		IdleTTL:     time.Minute,
	}, nil)
	t.Cleanup(registry.Close)
	return registry
}

func TestRegistry_SlowCartLoadDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	gate := &gatedStorage{
		Storage: cart.NewMemoryStorage(nil),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	registry := newLenientRegistry(t, func(id string) cart.Storage {
		if id == "slow" {
			return gate
		}
		return cart.NewMemoryStorage(nil)
	})

	slow := make(chan *Session, 1)
	go func() { slow <- registry.Get(ctx, "slow") }()
	<-gate.entered

	fast := make(chan *Session, 1)
	go func() { fast <- registry.Get(ctx, "fast") }()

	select {
	case s := <-fast:
		assert.Equal(t, "fast", s.ID)
	case <-time.After(time.Second):
		close(gate.release)
		t.Fatal("Get for another session waited on a cart load")
	}

	close(gate.release)
	assert.Equal(t, "slow", (<-slow).ID)
	assert.Equal(t, 2, registry.Len())
}

func TestRegistry_ConcurrentGetsShareOneSession(t *testing.T) {
	ctx := context.Background()
	registry := newLenientRegistry(t, func(string) cart.Storage { return cart.NewMemoryStorage(nil) })

	const callers = 8
	got := make([]*Session, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = registry.Get(ctx, "sess-1")
		}(i)
	}
	wg.Wait()

	for _, s := range got[1:] {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, registry.Len())
}
