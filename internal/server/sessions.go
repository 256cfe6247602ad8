package server

import (
	"sync"

	"github.com/desertthunder/muse/internal/memory"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/repositories"
)

// SessionRegistry maps live sessions to their seen-memory.
//
// Memories are created lazily and hydrated from persisted history, so a
// session resumed after a restart still avoids repeating old recommendations.
type SessionRegistry struct {
	mu       sync.Mutex
	memories map[string]*memory.SeenMemory

	sessions *repositories.SessionRepository
	history  *repositories.HistoryAdapter
	capacity int
}

// NewSessionRegistry creates a registry backed by the given repositories.
func NewSessionRegistry(sessions *repositories.SessionRepository, history *repositories.HistoryAdapter, capacity int) *SessionRegistry {
	return &SessionRegistry{
		memories: make(map[string]*memory.SeenMemory),
		sessions: sessions,
		history:  history,
		capacity: capacity,
	}
}

// Create starts a new session and returns it.
func (r *SessionRegistry) Create(label string) (*models.Session, error) {
	session := models.NewSession(0, label)
	if err := r.sessions.Create(session); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.memories[session.ID()] = memory.NewSeenMemory(r.capacity)
	r.mu.Unlock()

	return session, nil
}

// Get verifies a session exists and returns it.
func (r *SessionRegistry) Get(sessionID string) (*models.Session, error) {
	return r.sessions.Get(sessionID)
}

// MemoryFor returns the session's seen-memory, hydrating it from persisted
// history on first access.
func (r *SessionRegistry) MemoryFor(sessionID string) (*memory.SeenMemory, error) {
	r.mu.Lock()
	if mem, ok := r.memories[sessionID]; ok {
		r.mu.Unlock()
		return mem, nil
	}
	r.mu.Unlock()

	if _, err := r.sessions.Get(sessionID); err != nil {
		return nil, err
	}

	keys, err := r.history.SeenKeys(sessionID)
	if err != nil {
		return nil, err
	}

	mem := memory.NewSeenMemory(r.capacity)
	for _, key := range keys {
		mem.RememberKey(key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have hydrated concurrently; keep the first one
	if existing, ok := r.memories[sessionID]; ok {
		return existing, nil
	}
	r.memories[sessionID] = mem
	return mem, nil
}
