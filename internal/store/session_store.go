package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/intervu-ai/backend/internal/model"
)

// ErrSessionNotFound distinguishes a missing session from a session in the
// wrong state; handlers map it to 404.
var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	session     *model.InterviewSession
	lastTouched time.Time
}

// SessionStore is the process-wide registry of live interview sessions.
// Lookups refresh the last-touched timestamp; the sweeper evicts entries idle
// longer than the TTL, abandoning any that are still in progress so their
// summaries stay consistent.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	ttl           time.Duration
	sweepInterval time.Duration
}

// NewSessionStore builds a store with the given idle TTL and sweep cadence.
// Non-positive values disable expiry.
func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	return &SessionStore{
		sessions:      make(map[string]*entry),
		ttl:           ttl,
		sweepInterval: sweepInterval,
	}
}

// Put registers a session under its identifier.
func (s *SessionStore) Put(session *model.InterviewSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = &entry{session: session, lastTouched: time.Now()}
}

// Get returns the session for the identifier and marks it touched.
func (s *SessionStore) Get(sessionID string) (*model.InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastTouched = time.Now()
	return e.session, nil
}

// Delete removes a session from the registry.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of registered sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper runs the expiry loop until ctx is cancelled. It is a no-op
// when expiry is disabled.
func (s *SessionStore) StartSweeper(ctx context.Context) {
	if s.ttl <= 0 || s.sweepInterval <= 0 {
		log.Info().Msg("Session expiry disabled; sweeper not started")
		return
	}

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.Sweep(time.Now())
			if removed > 0 {
				log.Info().Int("removed", removed).Msg("Swept idle interview sessions")
			}
		}
	}
}

// Sweep evicts every entry idle past the TTL as of now, abandoning those
// still in progress first. Returns the number of evicted sessions.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastTouched) < s.ttl {
			continue
		}
		if e.session.Status() == model.StatusInProgress {
			if err := e.session.Abandon(); err != nil && !errors.Is(err, model.ErrSessionTerminal) {
				log.Warn().Err(err).Str("sessionID", id).Msg("Failed to abandon stale session")
			}
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}
