// Package todo keeps the tutor's reminder list. The list is read once by
// Init and every change is written through before the call returns.
package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"cantinho/internal/activity"
	"cantinho/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrNotLoaded        = errors.New("reminders not loaded")
	ErrEmptyText        = errors.New("reminder text is empty")
	ErrReminderNotFound = errors.New("reminder not found")
)

type Store struct {
	repo     Repository
	activity *activity.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	items  []Reminder
	loaded bool
}

func NewStore(repo Repository, recorder *activity.Recorder, m *metrics.Metrics, logger *slog.Logger) *Store {
	return &Store{
		repo:     repo,
		activity: recorder,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Init loads the stored list. Later calls are no-ops.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	s.items = items
	s.loaded = true
	s.logger.InfoContext(ctx, "reminders loaded", "count", len(items))
	return nil
}

func (s *Store) List() ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return slices.Clone(s.items), nil
}

func (s *Store) Add(ctx context.Context, text string) (Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reminder{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return Reminder{}, ErrNotLoaded
	}

	r := Reminder{
		ID:        uuid.New(),
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.flush(ctx, append(slices.Clone(s.items), r), "add", r.ID); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

func (s *Store) Toggle(ctx context.Context, id uuid.UUID) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return Reminder{}, ErrNotLoaded
	}

	i := s.index(id)
	if i < 0 {
		return Reminder{}, ErrReminderNotFound
	}
	next := slices.Clone(s.items)
	next[i].Done = !next[i].Done
	if err := s.flush(ctx, next, "toggle", id); err != nil {
		return Reminder{}, err
	}
	return next[i], nil
}

func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	i := s.index(id)
	if i < 0 {
		return ErrReminderNotFound
	}
	next := slices.Delete(slices.Clone(s.items), i, i+1)
	return s.flush(ctx, next, "remove", id)
}

// flush persists next and only then makes it the current list. Callers hold s.mu.
func (s *Store) flush(ctx context.Context, next []Reminder, op string, id uuid.UUID) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to save reminders", "op", op, "error", err)
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	s.items = next
	s.metrics.RecordReminderChange(ctx, op)
	s.activity.Record(ctx, activity.ReminderChanged, id)
	return nil
}

func (s *Store) index(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(r Reminder) bool { return r.ID == id })
}
