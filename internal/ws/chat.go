package ws

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// ChatRelay stamps chat messages and delivers them to the whole room,
// sender included, so the server fixes a single message order.
type ChatRelay struct {
	mu      sync.Mutex // orders stamp+fanout across senders
	members Members
	out     Sender
	now     func() time.Time
}

func NewChatRelay(members Members, out Sender) *ChatRelay {
	return &ChatRelay{members: members, out: out, now: time.Now}
}

// SendMessage returns the number of connections the message was queued for.
func (c *ChatRelay) SendMessage(roomID, message, userName, userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	body := ChatMessageBody{
		Message:   message,
		UserName:  userName,
		UserID:    userID,
		Timestamp: c.now().UTC().Format(isoMillis),
	}
	frame, err := encodeFrame(EventChatMessage, body)
	if err != nil {
		zap.L().Warn("ws.encode", zap.String("event", EventChatMessage), zap.Error(err))
		return 0
	}
	return broadcast(c.out, c.members.ListParticipants(roomID, ""), frame)
}
