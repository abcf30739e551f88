package rooms

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultGracePeriod     = 5 * time.Minute
	DefaultMeetingIDLength = 8

	maxMeetingIDAttempts = 5
	defaultNamePrefixLen = 6
)

// JoinResult is what a joiner needs to start peer connections.
type JoinResult struct {
	RoomID      string
	Participant Participant
	Existing    []Participant
	Count       int
}

type LeaveResult struct {
	RoomID      string
	Participant Participant
	Count       int
}

type afterFunc func(d time.Duration, f func()) (stop func() bool)

type pendingDeletion struct {
	id   uint64
	stop func() bool
}

// Manager runs the composite join/leave protocol on top of Store and
// Registry. All mutations of one room happen under that room's lock, and
// presence notifications are enqueued before the lock is released so every
// member observes the same order.
type Manager struct {
	store    *Store
	registry *Registry
	presence Presence
	events   EventSink

	gracePeriod time.Duration
	idLength    int
	after       afterFunc
	newID       func() string

	locks *roomLocks

	mu      sync.Mutex
	seq     uint64
	pending map[string]*pendingDeletion
}

type Option func(*Manager)

func WithGracePeriod(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.gracePeriod = d
		}
	}
}

func WithMeetingIDLength(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.idLength = n
		}
	}
}

func WithEventSink(sink EventSink) Option {
	return func(m *Manager) {
		if sink != nil {
			m.events = sink
		}
	}
}

func NewManager(store *Store, registry *Registry, presence Presence, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		registry:    registry,
		presence:    nopPresence{},
		events:      nopSink{},
		gracePeriod: DefaultGracePeriod,
		idLength:    DefaultMeetingIDLength,
		after: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		newID:   uuid.NewString,
		locks:   newRoomLocks(),
		pending: make(map[string]*pendingDeletion),
	}
	if presence != nil {
		m.presence = presence
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DisplayName returns userName, or "User-" plus the first six characters of userID.
func DisplayName(userID, userName string) string {
	if userName != "" {
		return userName
	}
	prefix := userID
	if r := []rune(userID); len(r) > defaultNamePrefixLen {
		prefix = string(r[:defaultNamePrefixLen])
	}
	return "User-" + prefix
}

// JoinRoom binds connectionID to roomID, creating the room on demand.
// A connection bound to a different room leaves it first.
func (m *Manager) JoinRoom(roomID, connectionID, userID, userName string) (JoinResult, error) {
	if prev, ok := m.registry.Lookup(connectionID); ok && prev != roomID {
		m.LeaveRoom(connectionID)
	}

	unlock := m.locks.lock(roomID)
	defer unlock()

	m.cancelDeletion(roomID)

	_, created := m.store.EnsureRoom(roomID)
	if created {
		zap.L().Info("room.created", zap.String("room_id", roomID))
		m.emit(EventRoomCreated, roomID, 0)
	}

	p := Participant{
		ConnectionID: connectionID,
		UserID:       userID,
		UserName:     DisplayName(userID, userName),
	}
	if err := m.store.AddParticipant(roomID, connectionID, p); err != nil {
		zap.L().Error("room.add_participant", zap.String("room_id", roomID), zap.Error(err))
		return JoinResult{}, err
	}
	m.registry.Bind(connectionID, roomID)

	existing := m.store.ListParticipants(roomID, connectionID)
	count := m.store.ParticipantCount(roomID)

	m.presence.NotifyJoined(roomID, connectionID, p)
	m.presence.NotifyExisting(connectionID, existing)
	m.presence.BroadcastCount(roomID, count)
	m.emit(EventParticipantJoined, roomID, count)

	zap.L().Debug("room.joined",
		zap.String("room_id", roomID),
		zap.String("connection_id", connectionID),
		zap.Int("participants", count),
	)
	return JoinResult{
		RoomID:      roomID,
		Participant: p,
		Existing:    existing,
		Count:       count,
	}, nil
}

// LeaveRoom unbinds connectionID and removes its participant. It reports
// false when the connection was not bound to a room.
func (m *Manager) LeaveRoom(connectionID string) (LeaveResult, bool) {
	roomID, ok := m.registry.Unbind(connectionID)
	if !ok {
		return LeaveResult{}, false
	}

	unlock := m.locks.lock(roomID)
	defer unlock()

	p, ok := m.store.RemoveParticipant(roomID, connectionID)
	if !ok {
		return LeaveResult{}, false
	}
	count := m.store.ParticipantCount(roomID)

	m.presence.NotifyLeft(roomID, connectionID, p.UserID)
	m.presence.BroadcastCount(roomID, count)
	m.emit(EventParticipantLeft, roomID, count)

	if count == 0 {
		m.scheduleDeletion(roomID)
	}

	zap.L().Debug("room.left",
		zap.String("room_id", roomID),
		zap.String("connection_id", connectionID),
		zap.Int("participants", count),
	)
	return LeaveResult{RoomID: roomID, Participant: p, Count: count}, true
}

// CreateMeeting pre-creates a room under a fresh id. A room nobody joins is
// reaped after the grace period like any other empty room.
func (m *Manager) CreateMeeting() (string, error) {
	for i := 0; i < maxMeetingIDAttempts; i++ {
		id := m.newID()
		if len(id) > m.idLength {
			id = id[:m.idLength]
		}
		if m.createIfAbsent(id) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func (m *Manager) createIfAbsent(roomID string) bool {
	unlock := m.locks.lock(roomID)
	defer unlock()

	if _, created := m.store.EnsureRoom(roomID); !created {
		return false
	}
	zap.L().Info("room.created", zap.String("room_id", roomID))
	m.emit(EventRoomCreated, roomID, 0)
	m.scheduleDeletion(roomID)
	return true
}

func (m *Manager) Exists(roomID string) bool { return m.store.Exists(roomID) }

func (m *Manager) Room(roomID string) (Room, bool) { return m.store.Room(roomID) }

// RoomOf returns the room connectionID is bound to.
func (m *Manager) RoomOf(connectionID string) (string, bool) {
	return m.registry.Lookup(connectionID)
}

func (m *Manager) Participants(roomID, excluding string) []Participant {
	return m.store.ListParticipants(roomID, excluding)
}

func (m *Manager) Participant(roomID, connectionID string) (Participant, bool) {
	return m.store.Participant(roomID, connectionID)
}

func (m *Manager) Count(roomID string) int { return m.store.ParticipantCount(roomID) }

func (m *Manager) Stats() (rooms, participants int) { return m.store.Stats() }

// Close stops every scheduled deletion.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for roomID, pd := range m.pending {
		pd.stop()
		delete(m.pending, roomID)
	}
}

// scheduleDeletion replaces any pending deletion of roomID. Caller holds the room lock.
func (m *Manager) scheduleDeletion(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pd, ok := m.pending[roomID]; ok {
		pd.stop()
	}
	m.seq++
	id := m.seq
	stop := m.after(m.gracePeriod, func() { m.expire(roomID, id) })
	m.pending[roomID] = &pendingDeletion{id: id, stop: stop}
}

// cancelDeletion drops the pending deletion of roomID. Caller holds the room lock.
func (m *Manager) cancelDeletion(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pd, ok := m.pending[roomID]; ok {
		pd.stop()
		delete(m.pending, roomID)
		zap.L().Debug("room.deletion_cancelled", zap.String("room_id", roomID))
	}
}

func (m *Manager) hasPendingDeletion(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[roomID]
	return ok
}

// expire runs when a grace period elapses. A timer that lost the race with
// cancel or reschedule finds a different id and does nothing.
func (m *Manager) expire(roomID string, id uint64) {
	unlock := m.locks.lock(roomID)
	defer unlock()

	m.mu.Lock()
	pd, ok := m.pending[roomID]
	if !ok || pd.id != id {
		m.mu.Unlock()
		return
	}
	delete(m.pending, roomID)
	m.mu.Unlock()

	if m.store.DeleteRoomIfEmpty(roomID) {
		zap.L().Info("room.deleted", zap.String("room_id", roomID))
		m.emit(EventRoomDeleted, roomID, 0)
	}
}

func (m *Manager) emit(kind EventKind, roomID string, count int) {
	m.events.Emit(Event{Kind: kind, RoomID: roomID, Count: count, At: time.Now().UTC()})
}
