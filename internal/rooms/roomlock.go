package rooms

import "sync"

// roomLocks hands out one mutex per room id, ref-counted so entries for
// idle rooms are dropped instead of accumulating forever.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*lockEntry)}
}

// lock blocks until roomID is held and returns the matching unlock.
func (l *roomLocks) lock(roomID string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.locks[roomID]
	if !ok {
		e = &lockEntry{}
		l.locks[roomID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, roomID)
		}
		l.mu.Unlock()
	}
}

func (l *roomLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
