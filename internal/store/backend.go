package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
)

// Backend is a key-value store holding whole serialized documents.
// Get returns apperrors.ErrNotFound when the key has never been written.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// FileBackend keeps one JSON file per key inside Dir.
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.Dir, filepath.Base(key)+".json")
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}

		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	return data, nil
}

// Set writes to a temporary file and renames it over the old one, so a
// crash mid-write never leaves a truncated document behind.
func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(b.Dir, strings.TrimSuffix(filepath.Base(b.path(key)), ".json")+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), b.path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}

	return nil
}

// MemoryBackend keeps documents in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailWrites makes every Set fail, e.g. to exercise quota errors.
	FailWrites error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.data[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailWrites != nil {
		return b.FailWrites
	}

	b.data[key] = append([]byte(nil), value...)

	return nil
}

// PostgresBackend stores documents in the app_documents table.
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM app_documents WHERE key = $1`

	var value []byte

	err := b.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}

		return nil, fmt.Errorf("reading document %s: %w", key, err)
	}

	return value, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_documents (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := b.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("writing document %s: %w", key, err)
	}

	return nil
}
