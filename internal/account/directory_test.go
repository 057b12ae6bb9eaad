package account

import (
	"context"
	"testing"

	"marketgo/internal/storage"
	"marketgo/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T) Directory {
	t.Helper()
	return NewDirectory(context.Background(), storage.NewMemStore(), PlainCredentials{})
}

func TestDirectory_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		dir := newDirectory(t)

		u, err := dir.Register(ctx, "Asha", "a@b.com", "secret1")

		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "Asha", u.Name)
		assert.Equal(t, "a@b.com", u.Email)
	})

	t.Run("DuplicateEmailAnyCase", func(t *testing.T) {
		dir := newDirectory(t)
		_, err := dir.Register(ctx, "Asha", "a@b.com", "secret1")
		require.NoError(t, err)

		_, err = dir.Register(ctx, "Impostor", "A@B.com", "other123")

		assert.ErrorIs(t, err, ErrEmailTaken)

		// The rejected signup did not mutate the directory.
		u, ok := dir.FindByEmail("a@b.com")
		assert.True(t, ok)
		assert.Equal(t, "Asha", u.Name)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		dir := newDirectory(t)

		_, err := dir.Register(ctx, "", "not-an-email", "123")

		require.Error(t, err)
		var fe *validate.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Fields(), "Name")
		assert.Contains(t, fe.Fields(), "Email")
		assert.Contains(t, fe.Fields(), "Password")
	})

	t.Run("DistinctIDs", func(t *testing.T) {
		dir := newDirectory(t)

		u1, err := dir.Register(ctx, "A", "a@x.com", "secret1")
		require.NoError(t, err)
		u2, err := dir.Register(ctx, "B", "b@x.com", "secret2")
		require.NoError(t, err)

		assert.NotEqual(t, u1.ID, u2.ID)
	})
}

func TestDirectory_Authenticate(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(t)
	_, err := dir.Register(ctx, "Asha", "a@b.com", "secret1")
	require.NoError(t, err)

	t.Run("CaseInsensitiveEmail", func(t *testing.T) {
		u, err := dir.Authenticate(ctx, "A@B.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "a@b.com", u.Email)
	})

	t.Run("PasswordIsCaseSensitive", func(t *testing.T) {
		_, err := dir.Authenticate(ctx, "a@b.com", "Secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := dir.Authenticate(ctx, "nobody@b.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestDirectory_AuthenticateBcrypt(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory(ctx, storage.NewMemStore(), BcryptCredentials{})

	u, err := dir.Register(ctx, "Asha", "a@b.com", "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = dir.Authenticate(ctx, "a@b.com", "secret1")
	assert.NoError(t, err)

	_, err = dir.Authenticate(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectory_Updates(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(t)
	u, err := dir.Register(ctx, "Asha", "a@b.com", "secret1")
	require.NoError(t, err)

	t.Run("UpdateName", func(t *testing.T) {
		require.NoError(t, dir.UpdateName(ctx, u.ID, "Asha K"))

		got, ok := dir.FindByID(u.ID)
		require.True(t, ok)
		assert.Equal(t, "Asha K", got.Name)
	})

	t.Run("UpdatePassword", func(t *testing.T) {
		err := dir.UpdatePassword(ctx, u.ID, "wrong", "newsecret")
		assert.ErrorIs(t, err, ErrWrongPassword)

		require.NoError(t, dir.UpdatePassword(ctx, u.ID, "secret1", "newsecret"))

		_, err = dir.Authenticate(ctx, "a@b.com", "newsecret")
		assert.NoError(t, err)
	})

	t.Run("UpdateProfileImage", func(t *testing.T) {
		require.NoError(t, dir.UpdateProfileImage(ctx, u.ID, "file:///img/me.jpg"))

		got, _ := dir.FindByID(u.ID)
		assert.Equal(t, "file:///img/me.jpg", got.ProfileImage)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		assert.ErrorIs(t, dir.UpdateName(ctx, 999, "x"), ErrUserNotFound)
	})
}

func TestDirectory_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemStore()

	dir := NewDirectory(ctx, kv, PlainCredentials{})
	u, err := dir.Register(ctx, "Asha", "a@b.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, dir.UpdateProfileImage(ctx, u.ID, "file:///img/me.jpg"))

	// Profile image is durable per-account, not session-only.
	reloaded := NewDirectory(ctx, kv, PlainCredentials{})
	got, ok := reloaded.FindByID(u.ID)
	require.True(t, ok)
	assert.Equal(t, "file:///img/me.jpg", got.ProfileImage)

	_, err = reloaded.Authenticate(ctx, "A@B.COM", "secret1")
	assert.NoError(t, err)
}
