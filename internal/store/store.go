package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

const DefaultKey = "ahorros_app_v1"

// Store owns the in-memory copy of the document and persists every change
// as one full-document write. The in-memory copy only changes after the
// backend accepted the write.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	key      string
	currency string
	now      func() time.Time

	doc    state.Document
	loaded bool
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithCurrency sets the currency stamped on freshly initialized documents.
func WithCurrency(code string) Option {
	return func(s *Store) { s.currency = code }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads the stored document. Missing, corrupt and version-mismatched
// documents are replaced by defaults, which are persisted right away. Any
// other read failure is returned and nothing is written.
func (s *Store) Load(ctx context.Context) (state.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return state.Document{}, err
	}

	return s.doc.Clone(), nil
}

// Snapshot returns a copy of the current document, loading it first if needed.
func (s *Store) Snapshot(ctx context.Context) (state.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			return state.Document{}, err
		}
	}

	return s.doc.Clone(), nil
}

// Update runs fn on a copy of the document and persists the result. If fn
// or the write fails, the stored and in-memory documents are unchanged.
func (s *Store) Update(ctx context.Context, fn func(doc *state.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			return err
		}
	}

	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	return s.saveLocked(ctx, next)
}

// Replace persists doc as the whole new state, e.g. after a backup restore.
func (s *Store) Replace(ctx context.Context, doc state.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(ctx, doc.Clone())
}

// Reset discards the stored document and starts over from defaults.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(ctx, s.defaults())
}

func (s *Store) defaults() state.Document {
	doc := state.Default(s.now())
	if s.currency != "" {
		doc.Meta.Currency = s.currency
	}

	return doc
}

func (s *Store) loadLocked(ctx context.Context) error {
	raw, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.initLocked(ctx)
	}

	if err != nil {
		return fmt.Errorf("reading document %q: %w", s.key, err)
	}

	var doc state.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Error("stored document is corrupt, resetting", "key", s.key, "error", err)
		return s.initLocked(ctx)
	}

	if !doc.Compatible() {
		slog.Warn("stored document version mismatch, resetting",
			"key", s.key, "found", doc.Meta.Version, "expected", state.Version)

		return s.initLocked(ctx)
	}

	s.doc = doc.Clone()
	s.loaded = true

	return nil
}

func (s *Store) initLocked(ctx context.Context) error {
	return s.saveLocked(ctx, s.defaults())
}

func (s *Store) saveLocked(ctx context.Context, doc state.Document) error {
	doc.Meta.UpdatedAt = s.now()

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStorageWriteFailure, err)
	}

	s.doc = doc
	s.loaded = true

	return nil
}

// Transactions exposes the store as a transaction.Repository.
func (s *Store) Transactions() transaction.Repository {
	return transactionRepo{s}
}

// Goals exposes the store as a goal.Repository.
func (s *Store) Goals() goal.Repository {
	return goalRepo{s}
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) ListTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	doc, err := r.s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Transactions, nil
}

func (r transactionRepo) UpdateTransactions(ctx context.Context, fn func([]transaction.Transaction) ([]transaction.Transaction, error)) error {
	return r.s.Update(ctx, func(doc *state.Document) error {
		txs, err := fn(doc.Transactions)
		if err != nil {
			return err
		}

		doc.Transactions = txs

		return nil
	})
}

type goalRepo struct{ s *Store }

func (r goalRepo) ListGoals(ctx context.Context) ([]goal.Goal, error) {
	doc, err := r.s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Goals, nil
}

func (r goalRepo) UpdateGoals(ctx context.Context, fn func([]goal.Goal) ([]goal.Goal, error)) error {
	return r.s.Update(ctx, func(doc *state.Document) error {
		goals, err := fn(doc.Goals)
		if err != nil {
			return err
		}

		doc.Goals = goals

		return nil
	})
}
