package cart

import (
	"context"
	"encoding/json"
	"sync"

	"zomatify/storefront-svc/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageKey names the persisted cart snapshot.
const StorageKey = "zomatify_cart"

type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, snapshot []byte) error
}

// Manager owns one shopping cart. Every mutation recomputes the totals and
// writes the whole snapshot back to storage before returning.
type Manager struct {
	mu      sync.Mutex
	items   []domain.CartItem
	storage Storage
	logger  *zap.SugaredLogger
	newID   func() string
}

func NewManager(ctx context.Context, storage Storage, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	m := &Manager{
		storage: storage,
		logger:  logger,
		newID:   uuid.NewString,
	}
	m.items = m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) []domain.CartItem {
	raw, err := m.storage.Load(ctx)
	if err != nil {
		m.logger.Warnw("failed to load cart snapshot", "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var snapshot domain.CartState
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		m.logger.Warnw("discarding malformed cart snapshot", "error", err)
		return nil
	}
	return snapshot.Items
}

// Totals folds the items into the total price and item count.
func Totals(items []domain.CartItem) (float64, int) {
	var price float64
	var count int
	for _, item := range items {
		price += item.UnitPrice() * float64(item.Quantity)
		count += item.Quantity
	}
	return price, count
}

func (m *Manager) snapshot() domain.CartState {
	items := make([]domain.CartItem, len(m.items))
	for i, item := range m.items {
		items[i] = item
		if item.SelectedOptions != nil {
			items[i].SelectedOptions = append([]domain.MenuOption(nil), item.SelectedOptions...)
		}
	}
	price, count := Totals(items)
	return domain.CartState{Items: items, TotalPrice: price, TotalItems: count}
}

// commit must be called with mu held.
func (m *Manager) commit(ctx context.Context) domain.CartState {
	state := m.snapshot()
	payload, err := json.Marshal(state)
	if err != nil {
		m.logger.Errorw("failed to encode cart snapshot", "error", err)
		return state
	}
	if err := m.storage.Save(ctx, payload); err != nil {
		m.logger.Errorw("failed to persist cart snapshot", "error", err)
	}
	return state
}

func (m *Manager) indexOf(id string) int {
	for i, item := range m.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// AddItem merges by menu item id. Instructions and options replace the stored
// ones only when non-empty.
func (m *Manager) AddItem(ctx context.Context, item domain.MenuItem, quantity int, instructions string, options []domain.MenuOption) domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].MenuItem.ID != item.ID {
			continue
		}
		m.items[i].Quantity += quantity
		if instructions != "" {
			m.items[i].SpecialInstructions = instructions
		}
		if len(options) > 0 {
			m.items[i].SelectedOptions = append([]domain.MenuOption(nil), options...)
		}
		return m.commit(ctx)
	}

	entry := domain.CartItem{
		ID:                  m.newID(),
		MenuItem:            item,
		Quantity:            quantity,
		SpecialInstructions: instructions,
	}
	if len(options) > 0 {
		entry.SelectedOptions = append([]domain.MenuOption(nil), options...)
	}
	m.items = append(m.items, entry)
	return m.commit(ctx)
}

func (m *Manager) RemoveItem(ctx context.Context, id string) domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return m.commit(ctx)
	}
	m.items = append(m.items[:idx:idx], m.items[idx+1:]...)
	return m.commit(ctx)
}

func (m *Manager) UpdateItemQuantity(ctx context.Context, id string, quantity int) domain.CartState {
	if quantity <= 0 {
		return m.RemoveItem(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := m.indexOf(id); idx >= 0 {
		m.items[idx].Quantity = quantity
	}
	return m.commit(ctx)
}

func (m *Manager) UpdateItemInstructions(ctx context.Context, id, instructions string) domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := m.indexOf(id); idx >= 0 {
		m.items[idx].SpecialInstructions = instructions
	}
	return m.commit(ctx)
}

func (m *Manager) ClearCart(ctx context.Context) domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = nil
	return m.commit(ctx)
}

func (m *Manager) GetItemByID(id string) (domain.CartItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return domain.CartItem{}, false
	}
	return m.snapshot().Items[idx], true
}

func (m *Manager) State() domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshot()
}
