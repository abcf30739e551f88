package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Dispatch(t *testing.T) {
	r := NewRouter()

	var got JoinRoomRequest
	Register(r, EventJoinRoom, func(_ context.Context, cc *ConnContext, req JoinRoomRequest) error {
		assert.Equal(t, "c1", cc.ConnID)
		got = req
		return nil
	})

	tests := []struct {
		name    string
		env     Envelope
		wantErr error
	}{
		{
			name: "valid body",
			env:  Envelope{Event: EventJoinRoom, Body: json.RawMessage(`{"roomId":"r1","userId":"u1","userName":"Alice"}`)},
		},
		{
			name:    "unknown event",
			env:     Envelope{Event: "bogus"},
			wantErr: ErrUnknownEvent,
		},
		{
			name:    "malformed body",
			env:     Envelope{Event: EventJoinRoom, Body: json.RawMessage(`{"roomId":`)},
			wantErr: ErrInvalidBody,
		},
		{
			name:    "missing required field",
			env:     Envelope{Event: EventJoinRoom, Body: json.RawMessage(`{"roomId":"r1"}`)},
			wantErr: ErrInvalidBody,
		},
		{
			name:    "empty body fails validation",
			env:     Envelope{Event: EventJoinRoom},
			wantErr: ErrInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.dispatch(context.Background(), &ConnContext{ConnID: "c1"}, tt.env)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, JoinRoomRequest{RoomID: "r1", UserID: "u1", UserName: "Alice"}, got)
		})
	}
}

func TestRouter_SignalPayloadStaysRaw(t *testing.T) {
	r := NewRouter()

	var got SignalRequest
	Register(r, EventOffer, func(_ context.Context, _ *ConnContext, req SignalRequest) error {
		got = req
		return nil
	})

	body := `{"payload":{"type":"offer","sdp":"v=0"},"targetConnectionId":"B"}`
	err := r.dispatch(context.Background(), &ConnContext{ConnID: "A"}, Envelope{Event: EventOffer, Body: json.RawMessage(body)})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"offer","sdp":"v=0"}`, string(got.Payload))
	assert.Equal(t, "B", got.TargetConnectionID)

	err = r.dispatch(context.Background(), &ConnContext{ConnID: "A"},
		Envelope{Event: EventOffer, Body: json.RawMessage(`{"targetConnectionId":"B"}`)})
	assert.ErrorIs(t, err, ErrInvalidBody, "payload is required")
}

func TestRegister_EmptyEventPanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(NewRouter(), "", func(context.Context, *ConnContext, LeaveRoomRequest) error { return nil })
	})
}
