package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"marketgo/internal/config"
	"marketgo/internal/logger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// SQLStore persists keys in a Postgres kv table. It is the durable backend
// for deployments that outgrow per-device files.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenPostgres connects using the DB_* config values.
func OpenPostgres(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.L().Info("database connection established", zap.String("host", cfg.DBHost))
	return db, nil
}

// EnsureSchema creates the kv table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value JSONB NOT NULL
		)
	`)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = $1`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("kv get failed", zap.String("key", key), zap.Error(err))
		return nil, errors.Join(ErrRead, err)
	}
	return json.RawMessage(raw), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, data)
	if err != nil {
		logger.FromCtx(ctx).Error("kv set failed", zap.String("key", key), zap.Error(err))
		return errors.Join(ErrWrite, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key)
	if err != nil {
		logger.FromCtx(ctx).Error("kv remove failed", zap.String("key", key), zap.Error(err))
		return errors.Join(ErrRemove, err)
	}
	return nil
}
