package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Binder resolves the room a connection is bound to.
type Binder interface {
	RoomOf(connectionID string) (string, bool)
}

// SignalingRelay forwards offers, answers and ICE candidates between two
// connections of the same room. Payloads are never inspected.
type SignalingRelay struct {
	rooms Binder
	out   Sender
}

func NewSignalingRelay(rooms Binder, out Sender) *SignalingRelay {
	return &SignalingRelay{rooms: rooms, out: out}
}

func isSignalKind(kind string) bool {
	switch kind {
	case EventOffer, EventAnswer, EventICECandidate:
		return true
	}
	return false
}

// Relay reports whether the frame was queued for the target. A target that
// is gone or in another room is dropped silently.
func (s *SignalingRelay) Relay(kind string, payload json.RawMessage, senderID, targetID string) bool {
	if !isSignalKind(kind) {
		return false
	}
	senderRoom, ok := s.rooms.RoomOf(senderID)
	if !ok {
		return false
	}
	targetRoom, ok := s.rooms.RoomOf(targetID)
	if !ok || targetRoom != senderRoom {
		zap.L().Debug("ws.signal_dropped",
			zap.String("event", kind),
			zap.String("sender", senderID),
			zap.String("target", targetID),
		)
		return false
	}

	frame, err := encodeFrame(kind, SignalBody{Payload: payload, SenderConnectionID: senderID})
	if err != nil {
		zap.L().Warn("ws.encode", zap.String("event", kind), zap.Error(err))
		return false
	}
	return s.out.Send(targetID, frame)
}
