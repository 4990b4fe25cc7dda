package snapshot

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/redis"
)

// RedisStore keeps one redis key per snapshot slot.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an established redis client.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

// Save overwrites the slot. Snapshots never expire.
func (s *RedisStore) Save(ctx context.Context, kind Kind, data []byte) error {
	if err := s.client.Set(ctx, s.client.SnapshotKey(kind.String()), data, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save snapshot")
	}
	return nil
}

// Load returns the stored slot, reporting absence as ok=false.
func (s *RedisStore) Load(ctx context.Context, kind Kind) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.client.SnapshotKey(kind.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load snapshot")
	}
	return []byte(value), true, nil
}

// Delete clears the slot.
func (s *RedisStore) Delete(ctx context.Context, kind Kind) error {
	if err := s.client.Del(ctx, s.client.SnapshotKey(kind.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete snapshot")
	}
	return nil
}
