package wishlist

import (
	"context"
	"sync"

	"marketgo/internal/catalog"
	"marketgo/internal/logger"
	"marketgo/internal/storage"

	"go.uber.org/zap"
)

const storageKey = "wishlist-storage"

// Store is the wishlist: a set of products keyed by id, in insertion order.
type Store interface {
	// Toggle flips membership and reports whether the product ended up added.
	Toggle(ctx context.Context, p catalog.Product) (added bool)
	Contains(id int64) bool
	Items() []Item
}

type store struct {
	mu    sync.Mutex
	items []Item
	kv    storage.Store
}

func NewStore(ctx context.Context, kv storage.Store) Store {
	s := &store{kv: kv}

	var items []Item
	if _, err := storage.Load(ctx, kv, storageKey, &items); err != nil {
		logger.FromCtx(ctx).Error("failed to load wishlist", zap.Error(err))
	}
	s.items = items
	return s
}

func (s *store) Toggle(ctx context.Context, p catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == p.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return false
		}
	}

	s.items = append(s.items, itemFrom(p))
	s.persistLocked(ctx)
	return true
}

func (s *store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (s *store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Item, len(s.items))
	copy(cp, s.items)
	return cp
}

func (s *store) persistLocked(ctx context.Context) {
	if err := s.kv.Set(ctx, storageKey, s.items); err != nil {
		logger.FromCtx(ctx).Error("failed to persist wishlist", zap.Error(err))
	}
}
