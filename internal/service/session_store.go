package service

import (
	"context"
	"sync"
	"time"

	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionStore keeps the live checkout sessions of this process.
type SessionStore interface {
	// Create registers a new session in its initial state.
	Create(locale string) *checkout.Session

	// Get returns the session with id and records activity on it.
	Get(id uuid.UUID) (*checkout.Session, error)

	// Delete drops the session with id. It reports whether it existed.
	Delete(id uuid.UUID) bool

	// Len returns the number of live sessions.
	Len() int

	// Sweep drops sessions idle since before now minus the idle timeout.
	Sweep(now time.Time) int

	// Run sweeps idle sessions every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration)
}

type memorySessionStore struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*checkout.Session
	policy      checkout.Policy
	idleTimeout time.Duration
	logger      zerolog.Logger
}

// NewMemorySessionStore creates an in-memory SessionStore. Sessions use policy
// for pricing and expire after idleTimeout without activity.
func NewMemorySessionStore(policy checkout.Policy, idleTimeout time.Duration, logger zerolog.Logger) SessionStore {
	return &memorySessionStore{
		sessions:    make(map[uuid.UUID]*checkout.Session),
		policy:      policy,
		idleTimeout: idleTimeout,
		logger:      logger.With().Str("component", "session-store").Logger(),
	}
}

func (s *memorySessionStore) Create(locale string) *checkout.Session {
	sess := checkout.NewSession(uuid.New(), s.policy, locale)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	return sess
}

func (s *memorySessionStore) Get(id uuid.UUID) (*checkout.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrSessionNotFound
	}
	sess.Touch()
	return sess, nil
}

func (s *memorySessionStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *memorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep keeps sessions with a submission in flight regardless of idleness.
func (s *memorySessionStore) Sweep(now time.Time) int {
	cutoff := now.Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActive().After(cutoff) || sess.State().IsLoading {
			continue
		}
		delete(s.sessions, id)
		removed++
	}

	if removed > 0 {
		s.logger.Info().
			Int("removed", removed).
			Int("remaining", len(s.sessions)).
			Msg("idle checkout sessions swept")
	}
	return removed
}

func (s *memorySessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
