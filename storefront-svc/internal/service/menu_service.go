package service

import (
	"context"
	"errors"
	"fmt"

	"zomatify/storefront-svc/internal/domain"
)

var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrUnknownOption       = errors.New("unknown option for menu item")
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	return s.repo.ListMenu(ctx, restaurantID)
}

func (s *MenuService) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrMenuItemNotFound
	}
	return item, err
}

// ResolveSelection loads the picked item and maps option ids to the priced
// options stored for it.
func (s *MenuService) ResolveSelection(ctx context.Context, itemID int, optionIDs []int) (*domain.MenuItem, []domain.MenuOption, error) {
	item, err := s.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if !item.IsAvailable {
		return nil, nil, ErrMenuItemUnavailable
	}

	byID := make(map[int]domain.MenuOption, len(item.Options))
	for _, opt := range item.Options {
		byID[opt.ID] = opt
	}

	var selected []domain.MenuOption
	for _, id := range optionIDs {
		opt, ok := byID[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %d", ErrUnknownOption, id)
		}
		selected = append(selected, opt)
	}
	return item, selected, nil
}
