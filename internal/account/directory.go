package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"marketgo/internal/logger"
	"marketgo/internal/storage"
	"marketgo/internal/validate"

	"go.uber.org/zap"
)

const directoryKey = "registered_users"

// Directory is the registered-users collection. Email matching is always
// case-insensitive; password checks go through the Credentials strategy.
type Directory interface {
	Register(ctx context.Context, name, email, password string) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	FindByEmail(email string) (User, bool)
	FindByID(id int64) (User, bool)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdatePassword(ctx context.Context, id int64, current, newPassword string) error
	UpdateProfileImage(ctx context.Context, id int64, uri string) error
}

type directory struct {
	mu    sync.Mutex
	users []User
	kv    storage.Store
	creds Credentials
	now   func() time.Time
}

func NewDirectory(ctx context.Context, kv storage.Store, creds Credentials) Directory {
	d := &directory{kv: kv, creds: creds, now: time.Now}

	var users []User
	if _, err := storage.Load(ctx, kv, directoryKey, &users); err != nil {
		logger.FromCtx(ctx).Error("failed to load user directory", zap.Error(err))
	}
	d.users = users
	return d
}

// Register creates an account. A case-insensitive email collision rejects the
// signup without mutating the directory.
func (d *directory) Register(ctx context.Context, name, email, password string) (User, error) {
	if err := validate.Struct(signupInput{Name: name, Email: email, Password: password}); err != nil {
		return User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return User{}, ErrEmailTaken
		}
	}

	stored, err := d.creds.Hash(password)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:       d.nextIDLocked(),
		Name:     name,
		Email:    email,
		Password: stored,
	}
	d.users = append(d.users, u)
	d.persistLocked(ctx)

	logger.FromCtx(ctx).Info("user registered", zap.Int64("user_id", u.ID))
	return u, nil
}

// Authenticate matches email case-insensitively and verifies the password.
// Both misses come back as the same error so login forms leak nothing.
func (d *directory) Authenticate(ctx context.Context, email, password string) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) && d.creds.Verify(password, u.Password) {
			logger.FromCtx(ctx).Info("login succeeded", zap.Int64("user_id", u.ID))
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

func (d *directory) FindByEmail(email string) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}

func (d *directory) FindByID(id int64) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (d *directory) UpdateName(ctx context.Context, id int64, name string) error {
	return d.patch(ctx, id, func(u *User) error {
		u.Name = name
		return nil
	})
}

func (d *directory) UpdatePassword(ctx context.Context, id int64, current, newPassword string) error {
	return d.patch(ctx, id, func(u *User) error {
		if !d.creds.Verify(current, u.Password) {
			return ErrWrongPassword
		}
		stored, err := d.creds.Hash(newPassword)
		if err != nil {
			return err
		}
		u.Password = stored
		return nil
	})
}

func (d *directory) UpdateProfileImage(ctx context.Context, id int64, uri string) error {
	return d.patch(ctx, id, func(u *User) error {
		u.ProfileImage = uri
		return nil
	})
}

func (d *directory) patch(ctx context.Context, id int64, fn func(*User) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.users {
		if d.users[i].ID == id {
			if err := fn(&d.users[i]); err != nil {
				return err
			}
			d.persistLocked(ctx)
			return nil
		}
	}
	return ErrUserNotFound
}

// nextIDLocked mirrors the order id scheme: a millisecond timestamp, bumped
// past the highest existing id when signups collide.
func (d *directory) nextIDLocked() int64 {
	id := d.now().UnixMilli()
	for _, u := range d.users {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	return id
}

func (d *directory) persistLocked(ctx context.Context) {
	if err := d.kv.Set(ctx, directoryKey, d.users); err != nil {
		logger.FromCtx(ctx).Error("failed to persist user directory", zap.Error(err))
	}
}
