package review

import (
	"context"
	"sync"
	"time"

	"marketgo/internal/logger"
	"marketgo/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const storageKey = "review-storage"

// Store holds reviews, newest first. Append-only; the store accepts any
// well-typed input and leaves validation to the submitting surface.
type Store interface {
	Add(ctx context.Context, in Input) Review
	All() []Review
	ForProduct(productID int64) []Review
	// Reviewed reports whether a review exists for this exact product/order
	// pair. Reviews of the same product under a different order do not count.
	Reviewed(productID, orderID int64) bool
}

type store struct {
	mu      sync.Mutex
	reviews []Review
	kv      storage.Store
	now     func() time.Time
}

func NewStore(ctx context.Context, kv storage.Store) Store {
	s := &store{kv: kv, now: time.Now}

	var reviews []Review
	if _, err := storage.Load(ctx, kv, storageKey, &reviews); err != nil {
		logger.FromCtx(ctx).Error("failed to load reviews", zap.Error(err))
	}
	s.reviews = reviews
	return s
}

func (s *store) Add(ctx context.Context, in Input) Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Review{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		OrderID:   in.OrderID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Images:    in.Images,
		Date:      s.now(),
	}
	s.reviews = append([]Review{r}, s.reviews...)
	s.persistLocked(ctx)
	return r
}

func (s *store) All() []Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Review, len(s.reviews))
	copy(cp, s.reviews)
	return cp
}

func (s *store) ForProduct(productID int64) []Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Review
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

func (s *store) Reviewed(productID, orderID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reviews {
		if r.ProductID == productID && r.OrderID != nil && *r.OrderID == orderID {
			return true
		}
	}
	return false
}

func (s *store) persistLocked(ctx context.Context) {
	if err := s.kv.Set(ctx, storageKey, s.reviews); err != nil {
		logger.FromCtx(ctx).Error("failed to persist reviews", zap.Error(err))
	}
}
