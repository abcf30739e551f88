package roomevents

import (
	"context"
	"encoding/json"
	"time"

	"wichat/internal/rooms"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultBuffer  = 1024
	publishTimeout = 2 * time.Second
)

// Channel is the pub/sub channel carrying lifecycle events of one room.
func Channel(roomID string) string {
	return "meeting:" + roomID + ":events"
}

// Publisher mirrors room lifecycle events to Redis pub/sub. Emit only
// queues; Run drains the queue. Events are dropped when the queue is full.
type Publisher struct {
	rdb   *redis.Client
	queue chan rooms.Event
}

var _ rooms.EventSink = (*Publisher)(nil)

func NewPublisher(rdb *redis.Client, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Publisher{rdb: rdb, queue: make(chan rooms.Event, buffer)}
}

func (p *Publisher) Emit(ev rooms.Event) {
	select {
	case p.queue <- ev:
	default:
		zap.L().Warn("roomevents.dropped", zap.String("room_id", ev.RoomID), zap.String("kind", string(ev.Kind)))
	}
}

// Run publishes queued events until ctx is done.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.queue:
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := p.publish(pubCtx, ev); err != nil {
				zap.L().Warn("roomevents.publish", zap.String("room_id", ev.RoomID), zap.Error(err))
			}
			cancel()
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ev rooms.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(ev.RoomID), string(payload)).Err()
}
