package ws

import (
	"wichat/internal/rooms"

	"go.uber.org/zap"
)

// Members lists the participants of a room.
type Members interface {
	ListParticipants(roomID, excluding string) []rooms.Participant
}

// PresenceBroadcaster turns membership changes into frames for room members.
type PresenceBroadcaster struct {
	members Members
	out     Sender
}

var _ rooms.Presence = (*PresenceBroadcaster)(nil)

func NewPresenceBroadcaster(members Members, out Sender) *PresenceBroadcaster {
	return &PresenceBroadcaster{members: members, out: out}
}

// NotifyJoined tells everyone except the joiner about the new participant.
func (b *PresenceBroadcaster) NotifyJoined(roomID, connectionID string, p rooms.Participant) {
	b.fanout(roomID, connectionID, EventUserJoined, participantBody(p))
}

// NotifyExisting sends the joiner the snapshot of who was already present.
func (b *PresenceBroadcaster) NotifyExisting(connectionID string, participants []rooms.Participant) {
	list := make([]ParticipantBody, 0, len(participants))
	for _, p := range participants {
		list = append(list, participantBody(p))
	}
	frame, err := encodeFrame(EventExistingParticipants, list)
	if err != nil {
		zap.L().Error("ws.encode", zap.String("event", EventExistingParticipants), zap.Error(err))
		return
	}
	b.out.Send(connectionID, frame)
}

func (b *PresenceBroadcaster) NotifyLeft(roomID, connectionID, userID string) {
	b.fanout(roomID, connectionID, EventUserLeft, UserLeftBody{ConnectionID: connectionID, UserID: userID})
}

// BroadcastCount reaches every member, the triggering connection included.
func (b *PresenceBroadcaster) BroadcastCount(roomID string, count int) {
	b.fanout(roomID, "", EventParticipantCount, count)
}

func (b *PresenceBroadcaster) fanout(roomID, excluding, event string, body any) int {
	frame, err := encodeFrame(event, body)
	if err != nil {
		zap.L().Error("ws.encode", zap.String("event", event), zap.Error(err))
		return 0
	}
	return broadcast(b.out, b.members.ListParticipants(roomID, excluding), frame)
}

func broadcast(out Sender, to []rooms.Participant, frame []byte) int {
	delivered := 0
	for _, p := range to {
		if out.Send(p.ConnectionID, frame) {
			delivered++
		}
	}
	return delivered
}

func participantBody(p rooms.Participant) ParticipantBody {
	return ParticipantBody{UserID: p.UserID, UserName: p.UserName, ConnectionID: p.ConnectionID}
}
