package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// Persister loads and saves session snapshots. Implementations must treat a
// missing record as (Snapshot{}, false, nil), not an error.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, bool, error)
}

// FilePersister stores the snapshot as a JSON file, suitable for a
// single-seat deployment
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing <dir>/<key>.json
func NewFilePersister(dir, key string) *FilePersister {
	return &FilePersister{path: filepath.Join(dir, key+".json")}
}

// Save writes the snapshot atomically (temp file + rename)
func (p *FilePersister) Save(_ context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Load reads the snapshot; a missing file yields ok=false
func (p *FilePersister) Load(_ context.Context) (Snapshot, bool, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("failed to read session file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to parse session file: %w", err)
	}
	return snap, true, nil
}

// RedisPersister stores the snapshot in Redis, suitable for deployments
// where several gateway instances share one session
type RedisPersister struct {
	client *redis.Client
	key    string
}

// NewRedisPersister creates a persister using an existing Redis client
func NewRedisPersister(client *redis.Client, key string) *RedisPersister {
	if key == "" {
		key = "auth-storage"
	}
	return &RedisPersister{client: client, key: key}
}

// Save writes the snapshot under the storage key with no expiry
func (p *RedisPersister) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

// Load reads the snapshot; a missing key yields ok=false
func (p *RedisPersister) Load(ctx context.Context) (Snapshot, bool, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("failed to load session from redis: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to parse session from redis: %w", err)
	}
	return snap, true, nil
}

var (
	_ Persister = (*FilePersister)(nil)
	_ Persister = (*RedisPersister)(nil)
)
