package ws

import "encoding/json"

// Envelope wraps every WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "join-room"
	Body  json.RawMessage `json:"body,omitempty"` // event specific JSON
}

const (
	EventJoinRoom             = "join-room"
	EventLeaveRoom            = "leave-room"
	EventExistingParticipants = "existing-participants"
	EventUserJoined           = "user-joined"
	EventUserLeft             = "user-left"
	EventParticipantCount     = "participant-count"
	EventOffer                = "offer"
	EventAnswer               = "answer"
	EventICECandidate         = "ice-candidate"
	EventChatMessage          = "chat-message"
)

// ──────────────────────────── client → server ────────────────────────────────

type JoinRoomRequest struct {
	RoomID   string `json:"roomId"   validate:"required,max=64"`
	UserID   string `json:"userId"   validate:"required,max=128"`
	UserName string `json:"userName" validate:"max=128"`
}

type LeaveRoomRequest struct{}

// SignalRequest carries an offer, answer or ICE candidate. Payload is opaque.
type SignalRequest struct {
	Payload            json.RawMessage `json:"payload"            validate:"required"`
	TargetConnectionID string          `json:"targetConnectionId" validate:"required"`
}

type ChatMessageRequest struct {
	RoomID   string `json:"roomId"`
	Message  string `json:"message"  validate:"required,max=4096"`
	UserName string `json:"userName" validate:"max=128"`
	UserID   string `json:"userId"   validate:"max=128"`
}

// ──────────────────────────── server → client ────────────────────────────────

type ParticipantBody struct {
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	ConnectionID string `json:"connectionId"`
}

type UserLeftBody struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
}

type SignalBody struct {
	Payload            json.RawMessage `json:"payload"`
	SenderConnectionID string          `json:"senderConnectionId"`
}

type ChatMessageBody struct {
	Message   string `json:"message"`
	UserName  string `json:"userName"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

func encodeFrame(event string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Body: raw})
}
