// Package session holds per-wizard state for the local HTTP API. Sessions
// live in memory only; a restart starts the wizard over.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/types"
)

var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session survives before a sweep drops it.
const DefaultTTL = 2 * time.Hour

// Session tracks one walk through the search, analyze and download steps.
type Session struct {
	ID          string
	CreatedAt   time.Time
	LastActive  time.Time
	Query       string
	Results     []types.VideoSummary
	Selected    *types.VideoSummary
	Suggestions []types.ClipSuggestion
	Downloaded  []types.DownloadedClip
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		LastActive: now,
	}
	s.sessions[sess.ID] = sess
	return sess.clone()
}

// Get returns a copy of the session, so handlers can read it after the
// store lock is released while concurrent Updates mutate the stored one.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.LastActive = s.now()
	return sess.clone(), nil
}

func (sess *Session) clone() *Session {
	c := *sess
	c.Results = append([]types.VideoSummary(nil), sess.Results...)
	c.Suggestions = append([]types.ClipSuggestion(nil), sess.Suggestions...)
	c.Downloaded = append([]types.DownloadedClip(nil), sess.Downloaded...)
	if sess.Selected != nil {
		v := *sess.Selected
		c.Selected = &v
	}
	return &c
}

// Update applies fn to the session under the store lock so handlers never
// race on the same wizard state.
func (s *Store) Update(id string, fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	fn(sess)
	sess.LastActive = s.now()
	return nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
