package memory

import (
	"sync"

	"github.com/google/uuid"
)

// SessionRegistry maps a connection to at most one room membership. It is the
// single source of truth for "which room does this connection act on".
type SessionRegistry interface {
	Bind(connID uuid.UUID, roomID string)
	Unbind(connID uuid.UUID)
	RoomOf(connID uuid.UUID) (string, bool)
}

type sessionRegistry struct {
	sessions map[uuid.UUID]string
	mu       sync.RWMutex
}

func NewSessionRegistry() SessionRegistry {
	return &sessionRegistry{
		sessions: make(map[uuid.UUID]string),
	}
}

func (s *sessionRegistry) Bind(connID uuid.UUID, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[connID] = roomID
}

func (s *sessionRegistry) Unbind(connID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, connID)
}

func (s *sessionRegistry) RoomOf(connID uuid.UUID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roomID, ok := s.sessions[connID]

	return roomID, ok
}
