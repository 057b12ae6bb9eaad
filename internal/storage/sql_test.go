package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"name":"x"}`))

		mock.ExpectQuery("SELECT value FROM kv WHERE key = \\$1").
			WithArgs("cart-storage").
			WillReturnRows(rows)

		raw, err := store.Get(context.Background(), "cart-storage")
		assert.NoError(t, err)
		assert.JSONEq(t, `{"name":"x"}`, string(raw))
	})

	t.Run("MissingKey", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv WHERE key = \\$1").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		raw, err := store.Get(context.Background(), "nope")
		assert.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv WHERE key = \\$1").
			WillReturnError(errors.New("db error"))

		_, err := store.Get(context.Background(), "cart-storage")
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrRead)
	})
}

func TestSQLStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv").
			WithArgs("wishlist-storage", []byte(`{"name":"x"}`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Set(context.Background(), "wishlist-storage", map[string]string{"name": "x"})
		assert.NoError(t, err)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv").
			WillReturnError(errors.New("db error"))

		err := store.Set(context.Background(), "wishlist-storage", map[string]string{})
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrWrite)
	})
}

func TestSQLStore_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db)

	mock.ExpectExec("DELETE FROM kv WHERE key = \\$1").
		WithArgs("user-storage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Remove(context.Background(), "user-storage"))
}

func TestSQLStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.EnsureSchema(context.Background()))
}
