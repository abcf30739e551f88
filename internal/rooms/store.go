package rooms

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrIDExhausted  = errors.New("could not allocate a unique meeting id")
)

// Participant is one live connection's membership record in a room.
type Participant struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
}

// Room is a snapshot of a meeting room. CreatedAt never changes once set.
type Room struct {
	ID        string
	CreatedAt time.Time

	participants map[string]Participant
}

// Store is the in-memory registry of rooms and their participants.
// Every method is safe for concurrent use; composite read-modify-write
// sequences must be serialised per room by the caller (see Manager).
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room), now: time.Now}
}

// EnsureRoom returns the existing room or creates an empty one.
// created reports whether this call inserted it.
func (s *Store) EnsureRoom(roomID string) (room Room, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		r = &Room{ID: roomID, CreatedAt: s.now(), participants: make(map[string]Participant)}
		s.rooms[roomID] = r
	}
	return Room{ID: r.ID, CreatedAt: r.CreatedAt}, !ok
}

// Room returns a snapshot of roomID without its participants.
func (s *Store) Room(roomID string) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return Room{}, false
	}
	return Room{ID: r.ID, CreatedAt: r.CreatedAt}, true
}

func (s *Store) Exists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok
}

// AddParticipant inserts or overwrites the participant keyed by connectionID.
func (s *Store) AddParticipant(roomID, connectionID string, p Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	p.ConnectionID = connectionID
	r.participants[connectionID] = p
	return nil
}

func (s *Store) RemoveParticipant(roomID, connectionID string) (Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return Participant{}, false
	}
	p, ok := r.participants[connectionID]
	if ok {
		delete(r.participants, connectionID)
	}
	return p, ok
}

func (s *Store) Participant(roomID, connectionID string) (Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return Participant{}, false
	}
	p, ok := r.participants[connectionID]
	return p, ok
}

func (s *Store) ParticipantCount(roomID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.rooms[roomID]; ok {
		return len(r.participants)
	}
	return 0
}

// ListParticipants returns every participant of roomID except the one bound
// to excluding. Pass "" to list everyone.
func (s *Store) ListParticipants(roomID, excluding string) []Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return []Participant{}
	}
	out := make([]Participant, 0, len(r.participants))
	for id, p := range r.participants {
		if id == excluding {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DeleteRoomIfEmpty removes the room only when it exists and has no participants.
func (s *Store) DeleteRoomIfEmpty(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok || len(r.participants) != 0 {
		return false
	}
	delete(s.rooms, roomID)
	return true
}

// Stats returns the number of rooms and the total participant count.
func (s *Store) Stats() (rooms, participants int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms = len(s.rooms)
	for _, r := range s.rooms {
		participants += len(r.participants)
	}
	return rooms, participants
}
