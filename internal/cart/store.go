package cart

import (
	"context"
	"sync"

	"marketgo/internal/catalog"
	"marketgo/internal/logger"
	"marketgo/internal/storage"

	"go.uber.org/zap"
)

const storageKey = "cart-storage"

// Quantity floors at 1. Reaching zero through the delta path was an earlier
// behavior; removal is explicit via Remove now.
const minQuantity = 1

// Store is the cart state container. Mutations persist the full collection
// before returning, in mutation order, so durable state is never older than
// the last completed write.
type Store interface {
	Add(ctx context.Context, p catalog.Product) Item
	Remove(ctx context.Context, id int64)
	UpdateQuantity(ctx context.Context, id int64, delta int)
	Clear(ctx context.Context)
	Items() []Item
	TotalPrice() float64
	TotalItems() int
	Snapshot() Snapshot
	Subscribe(fn func(Snapshot)) (cancel func())
}

type store struct {
	mu    sync.Mutex
	items []Item
	kv    storage.Store

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore builds the cart, loading any persisted collection. A corrupt or
// unreadable blob is logged and treated as an empty cart.
func NewStore(ctx context.Context, kv storage.Store) Store {
	s := &store{kv: kv, subs: make(map[int]func(Snapshot))}

	var items []Item
	if _, err := storage.Load(ctx, kv, storageKey, &items); err != nil {
		logger.FromCtx(ctx).Error("failed to load cart", zap.Error(err))
	}
	s.items = items
	return s
}

func (s *store) Add(ctx context.Context, p catalog.Product) Item {
	s.mu.Lock()

	var result Item
	found := false
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			result = s.items[i]
			found = true
			break
		}
	}
	if !found {
		result = Item{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		}
		s.items = append(s.items, result)
	}

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(snap)
	return result
}

func (s *store) Remove(ctx context.Context, id int64) {
	s.mu.Lock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(snap)
}

func (s *store) UpdateQuantity(ctx context.Context, id int64, delta int) {
	s.mu.Lock()

	for i := range s.items {
		if s.items[i].ID == id {
			q := s.items[i].Quantity + delta
			if q < minQuantity {
				q = minQuantity
			}
			s.items[i].Quantity = q
			break
		}
	}

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(snap)
}

func (s *store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(snap)
}

func (s *store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Item, len(s.items))
	copy(cp, s.items)
	return cp
}

func (s *store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (s *store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

func (s *store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.items)
}

func (s *store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// persistLocked writes the collection and returns the snapshot taken at write
// time. Persistence failures are logged and swallowed; in-memory state stays
// authoritative for the session.
func (s *store) persistLocked(ctx context.Context) Snapshot {
	if err := s.kv.Set(ctx, storageKey, s.items); err != nil {
		logger.FromCtx(ctx).Error("failed to persist cart", zap.Error(err))
	}
	return snapshotOf(s.items)
}

func (s *store) publish(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
