// package memory implements per-session seen-track memory for recommendation filtering.
package memory

import (
	"sync"

	"github.com/desertthunder/muse/internal/shared"
)

// DefaultCap is the number of keys a SeenMemory retains before evicting the oldest.
const DefaultCap = 50

// SeenMemory tracks which songs a session has already been recommended.
//
// Keys are normalized title|artist strings so the same song reported with
// different casing or punctuation still counts as seen. All methods are safe
// for concurrent use. When the memory grows past its cap the oldest entries
// are evicted, letting long sessions rediscover early recommendations.
type SeenMemory struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
	cap   int
}

// NewSeenMemory creates an empty SeenMemory with the given eviction cap.
// A cap of zero or less falls back to DefaultCap.
func NewSeenMemory(capacity int) *SeenMemory {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &SeenMemory{
		seen: make(map[string]struct{}),
		cap:  capacity,
	}
}

// Remember records a title and artist as seen.
func (m *SeenMemory) Remember(title, artist string) {
	key := shared.NormalizeTrackKey(title, artist)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(key)
}

// RememberKey records an already-normalized key as seen.
// Used when hydrating memory from persisted history.
func (m *SeenMemory) RememberKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(key)
}

// Seen reports whether a title and artist have been recommended before.
func (m *SeenMemory) Seen(title, artist string) bool {
	key := shared.NormalizeTrackKey(title, artist)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[key]
	return ok
}

// Claim atomically checks and records a key. It returns true when the key was
// unseen and is now recorded, false when the key was already present.
//
// Selection uses Claim so two concurrent recommendations cannot both deliver
// the same song to one session.
func (m *SeenMemory) Claim(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[key]; ok {
		return false
	}
	m.add(key)
	return true
}

// Len returns the number of remembered keys.
func (m *SeenMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

// Keys returns the remembered keys in insertion order.
func (m *SeenMemory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys
}

// add inserts a key and evicts the oldest entries past the cap.
// Callers must hold the mutex.
func (m *SeenMemory) add(key string) {
	if _, ok := m.seen[key]; ok {
		return
	}
	m.seen[key] = struct{}{}
	m.order = append(m.order, key)

	for len(m.order) > m.cap {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.seen, oldest)
	}
}
