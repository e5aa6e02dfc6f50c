package draft

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"cvstudio-backend/internal/shared/telemetry"
)

// Session is one open editor: a draft owned by a user.
type Session[D any] struct {
	ID     string
	UserID string

	mu       sync.Mutex
	draft    D
	saving   atomic.Bool
	lastUsed atomic.Int64
}

// With runs fn while holding the session lock.
func (s *Session[D]) With(fn func(d D) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.draft)
}

// BeginSave marks a save as in flight. It returns false when one already is.
func (s *Session[D]) BeginSave() bool {
	return s.saving.CompareAndSwap(false, true)
}

// EndSave clears the in-flight flag.
func (s *Session[D]) EndSave() {
	s.saving.Store(false)
}

func (s *Session[D]) Saving() bool { return s.saving.Load() }

// Store keeps open drafts in memory and evicts idle ones.
type Store[D any] struct {
	TTL   time.Duration
	Now   func() time.Time
	NewID func() string

	mu       sync.RWMutex
	sessions map[string]*Session[D]
}

func NewStore[D any](ttl time.Duration) *Store[D] {
	return &Store[D]{
		TTL:      ttl,
		Now:      time.Now,
		NewID:    uuid.NewString,
		sessions: make(map[string]*Session[D]),
	}
}

// Create opens a session for userID holding d.
func (s *Store[D]) Create(userID string, d D) *Session[D] {
	sess := &Session[D]{ID: s.NewID(), UserID: userID, draft: d}
	sess.lastUsed.Store(s.Now().UnixNano())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session id when userID owns it.
func (s *Store[D]) Get(userID, id string) (*Session[D], error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.UserID != userID {
		return nil, ErrDraftNotFound
	}
	sess.lastUsed.Store(s.Now().UnixNano())
	return sess, nil
}

// Discard closes the session. Unknown ids are ignored.
func (s *Store[D]) Discard(userID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok && sess.UserID == userID {
		delete(s.sessions, id)
	}
}

func (s *Store[D]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than TTL. Sessions with a save in
// flight are kept.
func (s *Store[D]) Evict() int {
	if s.TTL <= 0 {
		return 0
	}
	cutoff := s.Now().Add(-s.TTL).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Load() < cutoff && !sess.Saving() {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (s *Store[D]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				telemetry.Info("draft.evicted", map[string]any{"count": n, "open": s.Len()})
			}
		}
	}
}
