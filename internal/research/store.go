package research

import "sync"

// SessionStore owns all session records. The orchestrator is the only
// writer; pollers read snapshots. Sessions are memory-resident and live for
// the process lifetime.
type SessionStore interface {
	// Create allocates a new session with a fresh monotonically increasing id.
	Create() int
	// Get returns a consistent snapshot of the session, or false when unknown.
	Get(id int) (Session, bool)
	// Update applies fn to the stored record atomically. Returns false when
	// the session is unknown.
	Update(id int, fn func(*Session)) bool
}

// MemorySessionStore is a mutex-guarded in-memory session map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	nextID   int
	sessions map[int]*Session
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		nextID:   1,
		sessions: make(map[int]*Session),
	}
}

func (s *MemorySessionStore) Create() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	s.sessions[id] = &Session{
		ID:     id,
		Status: StatusCreated,
	}

	return id
}

func (s *MemorySessionStore) Get(id int) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}

	// Copy so a reader never observes a partial write. Slices are cloned;
	// the report pointer is written once on completion and never mutated
	// afterwards, so sharing it is safe.
	snapshot := *stored
	snapshot.ResearchQueries = append([]string(nil), stored.ResearchQueries...)
	snapshot.Sources = append([]string(nil), stored.Sources...)

	return snapshot, true
}

func (s *MemorySessionStore) Update(id int, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[id]
	if !ok {
		return false
	}

	fn(stored)
	return true
}
