package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervu-ai/backend/internal/model"
)

func newTestSession(userID string) *model.InterviewSession {
	questions := []model.Question{
		{ID: 1, Question: "Tell me about yourself.", Category: model.CategoryIntroduction},
		{ID: 2, Question: "Describe a recent project.", Category: model.CategoryProject},
	}
	return model.NewSession(userID, nil, questions, nil, nil)
}

func TestSessionStore_PutGetDelete(t *testing.T) {
	s := NewSessionStore(time.Hour, time.Minute)

	session := newTestSession("user-1")
	s.Put(session)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, got)

	s.Delete(session.ID())
	_, err = s.Get(session.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestSessionStore_GetUnknown(t *testing.T) {
	s := NewSessionStore(time.Hour, time.Minute)
	_, err := s.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_SweepAbandonsStaleSessions(t *testing.T) {
	s := NewSessionStore(time.Minute, time.Minute)

	stale := newTestSession("user-stale")
	fresh := newTestSession("user-fresh")
	s.Put(stale)
	s.Put(fresh)

	// Backdate the stale entry past the TTL.
	s.mu.Lock()
	s.sessions[stale.ID()].lastTouched = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	removed := s.Sweep(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, model.StatusAbandoned, stale.Status())
	assert.Equal(t, model.StatusInProgress, fresh.Status())

	_, err := s.Get(stale.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestSessionStore_GetRefreshesIdleClock(t *testing.T) {
	s := NewSessionStore(time.Minute, time.Minute)

	session := newTestSession("user-1")
	s.Put(session)

	s.mu.Lock()
	s.sessions[session.ID()].lastTouched = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	// Touching the session keeps it alive through the next sweep.
	_, err := s.Get(session.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Sweep(time.Now()))
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	s := NewSessionStore(time.Hour, time.Minute)

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		session := newTestSession("user-concurrent")
		ids[i] = session.ID()
		s.Put(session)
	}

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.Get(id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()
	assert.Equal(t, len(ids), s.Len())
}
