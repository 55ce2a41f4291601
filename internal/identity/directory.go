package identity

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryDirectory tracks live sessions in process memory. The node agent
// uses it for its local sessions; tests use it as the directory fake.
type MemoryDirectory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Player
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{sessions: make(map[uuid.UUID]Player)}
}

// Connect registers or replaces the session for p.ID.
func (d *MemoryDirectory) Connect(p Player) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[p.ID] = p
}

// Disconnect drops the session, if any.
func (d *MemoryDirectory) Disconnect(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, id)
}

func (d *MemoryDirectory) Lookup(id uuid.UUID) (Player, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.sessions[id]
	return p, ok
}
