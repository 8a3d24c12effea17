package shop

import (
	"context"
	"sync"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/logging"
	"sisera-crm/internal/repository/state"

	"go.uber.org/zap"
)

// StorageKey is the state entry holding the selected shop.
const StorageKey = "shop-storage"

type persisted struct {
	SelectedShop domain.Shop `json:"selectedShop"`
}

// Store tracks which storefront the back office is working in.
type Store struct {
	repo   state.Repository
	logger *zap.Logger

	mu       sync.RWMutex
	selected domain.Shop
}

// NewStore restores the last selection from repo. A missing or unreadable
// entry falls back to DefaultShop.
func NewStore(ctx context.Context, repo state.Repository, logger *zap.Logger) *Store {
	s := &Store{repo: repo, logger: logging.OrNop(logger), selected: domain.DefaultShop}

	var p persisted
	ok, err := state.LoadJSON(ctx, repo, StorageKey, &p)
	switch {
	case err != nil:
		s.logger.Warn("restore selected shop", zap.Error(err))
	case ok && p.SelectedShop.Valid():
		s.selected = p.SelectedShop
	case ok:
		s.logger.Warn("ignoring persisted unknown shop", zap.String("shop", string(p.SelectedShop)))
	}
	return s
}

// Selected returns the current storefront.
func (s *Store) Selected() domain.Shop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetSelectedShop switches storefront and persists the choice. Selecting the
// current shop again is a no-op apart from the write.
func (s *Store) SetSelectedShop(ctx context.Context, shop domain.Shop) error {
	if !shop.Valid() {
		return domain.ErrUnknownShop
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := state.SaveJSON(ctx, s.repo, StorageKey, persisted{SelectedShop: shop}); err != nil {
		return err
	}
	s.selected = shop
	s.logger.Info("shop selected", zap.String("shop", string(shop)))
	return nil
}

// DisplayName is the human name of the current storefront.
func (s *Store) DisplayName() string {
	return ShopName(s.Selected())
}

// ShopName maps a storefront to its human name.
func ShopName(shop domain.Shop) string {
	if shop == domain.ShopSisera {
		return "Sisera"
	}
	return "Boss"
}
