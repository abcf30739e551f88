package rooms

import "sync"

// Registry maps a live connection to the single room it has joined.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]string // connectionID -> roomID
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]string)}
}

// Bind overwrites any previous association of connectionID.
func (r *Registry) Bind(connectionID, roomID string) {
	r.mu.Lock()
	r.rooms[connectionID] = roomID
	r.mu.Unlock()
}

func (r *Registry) Lookup(connectionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomID, ok := r.rooms[connectionID]
	return roomID, ok
}

func (r *Registry) Unbind(connectionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.rooms[connectionID]
	if ok {
		delete(r.rooms, connectionID)
	}
	return roomID, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
