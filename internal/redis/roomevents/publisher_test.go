package roomevents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wichat/internal/rooms"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadOf(t *testing.T, ev rooms.Event) string {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return string(b)
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "meeting:abcd1234:events", Channel("abcd1234"))
}

func TestPublisher_Publish(t *testing.T) {
	db, mock := redismock.NewClientMock()
	p := NewPublisher(db, 4)

	ev := rooms.Event{Kind: rooms.EventRoomCreated, RoomID: "r1", At: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	mock.ExpectPublish("meeting:r1:events", payloadOf(t, ev)).SetVal(1)

	require.NoError(t, p.publish(context.Background(), ev))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublisher_PublishError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	p := NewPublisher(db, 4)

	ev := rooms.Event{Kind: rooms.EventRoomDeleted, RoomID: "r1"}
	mock.ExpectPublish("meeting:r1:events", payloadOf(t, ev)).SetErr(errors.New("down"))

	assert.EqualError(t, p.publish(context.Background(), ev), "down")
}

func TestPublisher_RunDrainsQueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	p := NewPublisher(db, 4)

	evs := []rooms.Event{
		{Kind: rooms.EventParticipantJoined, RoomID: "r1", Count: 1},
		{Kind: rooms.EventParticipantLeft, RoomID: "r1", Count: 0},
	}
	for _, ev := range evs {
		mock.ExpectPublish("meeting:r1:events", payloadOf(t, ev)).SetVal(1)
		p.Emit(ev)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestPublisher_EmitDropsWhenFull(t *testing.T) {
	db, _ := redismock.NewClientMock()
	p := NewPublisher(db, 1)

	p.Emit(rooms.Event{RoomID: "a"})
	p.Emit(rooms.Event{RoomID: "b"}) // must not block

	assert.Len(t, p.queue, 1)
}
