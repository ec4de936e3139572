package memory

import (
	"fmt"
	"sync"

	"github.com/dmoretti/bookwise-agent/internal/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
	byUser   map[domain.UserID][]domain.SessionID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
		byUser:   make(map[domain.UserID][]domain.SessionID),
	}
}

func (s *SessionStore) CreateSession(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}

	s.sessions[session.ID] = cloneSession(session)
	s.byUser[session.UserID] = append(s.byUser[session.UserID], session.ID)
	return nil
}

func (s *SessionStore) UpdateSession(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		return domain.ErrSessionNotFound
	}

	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *SessionStore) GetSession(id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return cloneSession(sess), nil
}

// ListSessionsByUser returns the last `limit` sessions for a user, newest
// last. If limit <= 0, returns all.
func (s *SessionStore) ListSessionsByUser(userID domain.UserID, limit int) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	out := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		if sess, ok := s.sessions[id]; ok {
			out = append(out, cloneSession(sess))
		}
	}
	return out, nil
}

// cloneSession deep-copies a session so callers never share mutable state
// with the store. Reads outside the per-session guard (timeline polling)
// stay race-free while a reply is being produced.
func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	c.Profile.Genres = cloneStrings(s.Profile.Genres)
	c.Profile.RecentBooks = cloneStrings(s.Profile.RecentBooks)
	c.Profile.FavoriteBooks = cloneStrings(s.Profile.FavoriteBooks)
	c.Profile.FavoriteAuthors = cloneStrings(s.Profile.FavoriteAuthors)
	c.PendingGenres = cloneStrings(s.PendingGenres)
	c.KnownTitles = cloneStrings(s.KnownTitles)
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
