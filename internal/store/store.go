// Package store owns the canonical in-memory reading collection. All
// mutation goes through Load, Insert, Update and Delete; every mutation
// is two-phase: the remote repository is tried first, and on failure the
// change is applied locally and reported as provisional.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/glucose-logger/internal/analytics"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	apperrors "github.com/vladimiradmaev/glucose-logger/internal/errors"
	"github.com/vladimiradmaev/glucose-logger/internal/logger"
	"github.com/vladimiradmaev/glucose-logger/internal/seed"
)

// SyncState tags a mutation result as confirmed by the remote store or
// applied to the local collection only.
type SyncState string

const (
	StateCommitted SyncState = "committed"
	StateLocalOnly SyncState = "local_only"
)

// MutationResult reports what happened to a mutation. Reason carries the
// remote failure when State is local_only.
type MutationResult struct {
	Reading domain.Reading
	State   SyncState
	Reason  error
}

// Store is the single-writer container for the canonical collection.
type Store struct {
	mu       sync.RWMutex
	readings []domain.Reading
	repo     domain.ReadingRepository

	// configured is false when no remote store exists for the session;
	// syncAvailable drops to false after a failed load.
	configured    bool
	syncAvailable bool
}

// New creates a store backed by repo. A nil repo means the remote store
// is unconfigured and the session runs local-only from the start.
func New(repo domain.ReadingRepository) *Store {
	return &Store{
		repo:          repo,
		configured:    repo != nil,
		syncAvailable: repo != nil,
	}
}

// Load rebuilds the collection wholesale from the remote store. On
// failure (or when unconfigured) it falls back to the bundled sample
// set and flags sync as unavailable; this is never fatal.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		s.replaceAll(seed.Readings(), false)
		logger.Warn("Remote store unconfigured, using sample readings", apperrors.ErrStoreUnconfigured.LogFields()...)
		return nil
	}

	readings, err := s.repo.List(ctx)
	if err != nil {
		s.replaceAll(seed.Readings(), false)
		logger.Warn("Failed to load readings, using sample set", "error", err)
		return nil
	}

	s.replaceAll(readings, true)
	logger.Info("Readings loaded from remote store", "count", len(readings))
	return nil
}

func (s *Store) replaceAll(readings []domain.Reading, syncAvailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = analytics.SortByTimestampDesc(readings)
	s.syncAvailable = syncAvailable
}

// Readings returns a copy of the collection, most recent first.
func (s *Store) Readings() []domain.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

// SyncAvailable reports whether the last remote round-trip succeeded.
func (s *Store) SyncAvailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncAvailable
}

// Configured reports whether a remote store exists for this session.
func (s *Store) Configured() bool {
	return s.configured
}

// Insert adds a reading, assigning a client-side ID when absent. The
// remote create is attempted first; on failure the reading is kept
// locally and the result is tagged local_only.
func (s *Store) Insert(ctx context.Context, reading domain.Reading) MutationResult {
	if reading.ID == "" {
		reading.ID = uuid.NewString()
	}
	reading.Period = domain.ParsePeriod(string(reading.Period))

	state, reason := s.trySync(func() error {
		return s.repo.Create(ctx, reading)
	})

	s.mu.Lock()
	s.readings = analytics.SortByTimestampDesc(append(s.readings, reading))
	s.mu.Unlock()

	return MutationResult{Reading: reading, State: state, Reason: reason}
}

// Update replaces the reading with the same ID in place.
func (s *Store) Update(ctx context.Context, reading domain.Reading) (MutationResult, error) {
	reading.Period = domain.ParsePeriod(string(reading.Period))

	s.mu.Lock()
	idx := s.indexOf(reading.ID)
	if idx < 0 {
		s.mu.Unlock()
		return MutationResult{}, apperrors.ErrReadingNotFound
	}
	s.mu.Unlock()

	state, reason := s.trySync(func() error {
		return s.repo.Update(ctx, reading)
	})

	s.mu.Lock()
	if idx = s.indexOf(reading.ID); idx >= 0 {
		s.readings[idx] = reading
		s.readings = analytics.SortByTimestampDesc(s.readings)
	}
	s.mu.Unlock()

	return MutationResult{Reading: reading, State: state, Reason: reason}, nil
}

// Delete removes the reading with the given ID.
func (s *Store) Delete(ctx context.Context, id string) (MutationResult, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return MutationResult{}, apperrors.ErrReadingNotFound
	}
	removed := s.readings[idx]
	s.mu.Unlock()

	state, reason := s.trySync(func() error {
		return s.repo.Delete(ctx, id)
	})

	s.mu.Lock()
	if idx = s.indexOf(id); idx >= 0 {
		s.readings = append(s.readings[:idx], s.readings[idx+1:]...)
	}
	s.mu.Unlock()

	return MutationResult{Reading: removed, State: state, Reason: reason}, nil
}

// trySync runs the remote leg of a mutation. The local apply always
// proceeds regardless, so the user is never blocked by store failures.
func (s *Store) trySync(remote func() error) (SyncState, error) {
	if s.repo == nil {
		return StateLocalOnly, apperrors.ErrStoreUnconfigured
	}
	if err := remote(); err != nil {
		logger.Warn("Remote mutation failed, applying locally", "error", err)
		return StateLocalOnly, apperrors.NewDatabaseError(err)
	}
	return StateCommitted, nil
}

// indexOf must be called with the mutex held.
func (s *Store) indexOf(id string) int {
	for i, r := range s.readings {
		if r.ID == id {
			return i
		}
	}
	return -1
}
