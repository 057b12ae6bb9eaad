package order

import (
	"context"
	"sync"

	"marketgo/internal/logger"
	"marketgo/internal/storage"

	"go.uber.org/zap"
)

const storageKey = "order-storage"

// Store holds order history. No update or delete of individual orders exists;
// Clear is administrative only and is not part of the checkout flow.
type Store interface {
	Add(ctx context.Context, o Order)
	Orders() []Order
	// Get resolves an order by id, as a deep link does. An unknown id is an
	// explicit not-found, never a panic.
	Get(id int64) (Order, error)
	Clear(ctx context.Context)
}

type store struct {
	mu     sync.Mutex
	orders []Order
	kv     storage.Store
}

func NewStore(ctx context.Context, kv storage.Store) Store {
	s := &store{kv: kv}

	var orders []Order
	if _, err := storage.Load(ctx, kv, storageKey, &orders); err != nil {
		logger.FromCtx(ctx).Error("failed to load orders", zap.Error(err))
	}
	s.orders = orders
	return s
}

func (s *store) Add(ctx context.Context, o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append([]Order{o}, s.orders...)
	s.persistLocked(ctx)
}

func (s *store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Order, len(s.orders))
	copy(cp, s.orders)
	return cp
}

func (s *store) Get(id int64) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

func (s *store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	s.persistLocked(ctx)
}

func (s *store) persistLocked(ctx context.Context) {
	if err := s.kv.Set(ctx, storageKey, s.orders); err != nil {
		logger.FromCtx(ctx).Error("failed to persist orders", zap.Error(err))
	}
}
