package rooms

import "time"

type EventKind string

const (
	EventRoomCreated       EventKind = "room.created"
	EventRoomDeleted       EventKind = "room.deleted"
	EventParticipantJoined EventKind = "participant.joined"
	EventParticipantLeft   EventKind = "participant.left"
)

// Event describes a room lifecycle change. Count is the participant count
// right after the change.
type Event struct {
	Kind   EventKind `json:"kind"`
	RoomID string    `json:"roomId"`
	Count  int       `json:"count"`
	At     time.Time `json:"at"`
}

// EventSink receives lifecycle events. Emit is called while the room is
// locked and must not block.
type EventSink interface {
	Emit(ev Event)
}

// Presence delivers membership changes to the connections of a room.
// Implementations must only enqueue; delivery happens asynchronously.
type Presence interface {
	NotifyJoined(roomID, connectionID string, p Participant)
	NotifyExisting(connectionID string, participants []Participant)
	NotifyLeft(roomID, connectionID, userID string)
	BroadcastCount(roomID string, count int)
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

type nopPresence struct{}

func (nopPresence) NotifyJoined(string, string, Participant) {}
func (nopPresence) NotifyExisting(string, []Participant) {}
func (nopPresence) NotifyLeft(string, string, string) {}
func (nopPresence) BroadcastCount(string, int) {}
