package storage

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrEncode = errors.New("failed to encode value")
	ErrDecode = errors.New("failed to decode value")
	ErrWrite  = errors.New("failed to write value")
	ErrRead   = errors.New("failed to read value")
	ErrRemove = errors.New("failed to remove value")
)

// Store is the persistent key-value adapter every domain store saves through.
// Values are JSON blobs keyed by string. Get on a missing key returns
// (nil, nil), not an error. Implementations must make each Set durable before
// returning so writes land in the same order as the mutations that issued them.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// Load reads key into dst. A missing key leaves dst untouched and returns
// (false, nil).
func Load(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errors.Join(ErrDecode, err)
	}
	return true, nil
}
