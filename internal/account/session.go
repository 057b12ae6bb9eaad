package account

import (
	"context"
	"sync"

	"marketgo/internal/logger"
	"marketgo/internal/storage"

	"go.uber.org/zap"
)

const sessionKey = "user-storage"

// Session is the "who is logged in" pointer. It stores only a signed user id;
// the user record itself always comes from the directory, so profile edits
// never have a second copy to chase.
type Session interface {
	SetUser(ctx context.Context, u User)
	// Current resolves the session user through the directory. A guest
	// session, or a session whose account no longer exists, reports false.
	Current() (User, bool)
	Logout(ctx context.Context)
}

type session struct {
	mu     sync.Mutex
	userID int64 // 0 means guest
	kv     storage.Store
	dir    Directory
	secret string
}

type persistedSession struct {
	Token string `json:"token"`
}

// NewSession loads the persisted session. A missing, tampered, or unsignable
// blob degrades to guest; nothing here ever aborts startup.
func NewSession(ctx context.Context, kv storage.Store, dir Directory, secret string) Session {
	s := &session{kv: kv, dir: dir, secret: secret}

	var blob persistedSession
	found, err := storage.Load(ctx, kv, sessionKey, &blob)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load session", zap.Error(err))
		return s
	}
	if !found || blob.Token == "" {
		return s
	}

	userID, err := parseSessionToken(blob.Token, secret)
	if err != nil {
		logger.FromCtx(ctx).Warn("discarding invalid session token", zap.Error(err))
		return s
	}
	s.userID = userID
	return s
}

func (s *session) SetUser(ctx context.Context, u User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = u.ID

	token, err := signSessionToken(u.ID, s.secret)
	if err != nil {
		// Session stays in-memory only for this run.
		logger.FromCtx(ctx).Error("failed to sign session token", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, sessionKey, persistedSession{Token: token}); err != nil {
		logger.FromCtx(ctx).Error("failed to persist session", zap.Error(err))
	}
}

func (s *session) Current() (User, bool) {
	s.mu.Lock()
	id := s.userID
	s.mu.Unlock()

	if id == 0 {
		return User{}, false
	}
	return s.dir.FindByID(id)
}

// Logout clears only the session pointer. Cart, wishlist, and orders are
// device-local, not account-scoped, and survive.
func (s *session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = 0
	if err := s.kv.Remove(ctx, sessionKey); err != nil {
		logger.FromCtx(ctx).Error("failed to clear session", zap.Error(err))
	}
}
