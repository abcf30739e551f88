package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"wichat/internal/rooms"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be < pongWait
)

var (
	errNotInRoom    = errors.New("not_in_room")
	errRoomMismatch = errors.New("room_mismatch")
)

// Options tunes per-connection limits.
type Options struct {
	ReadLimit  int64
	SendBuffer int
}

type WsServer struct {
	hub       *Hub
	router    *Router
	manager   *rooms.Manager
	signaling *SignalingRelay
	chat      *ChatRelay
	upgrader  websocket.Upgrader
	opts      Options
}

func NewWsServer(h *Hub, manager *rooms.Manager, members Members, opts Options) *WsServer {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = 64 << 10
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 256
	}
	srv := &WsServer{
		hub:       h,
		router:    NewRouter(),
		manager:   manager,
		signaling: NewSignalingRelay(manager, h),
		chat:      NewChatRelay(members, h),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		opts: opts,
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}

	conn := newClientConn(uuid.NewString(), rawConn, s.opts.SendBuffer)
	s.hub.Add(conn)
	zap.L().Debug("ws.connected", zap.String("connection_id", conn.id))

	go conn.writePump()
	go s.reader(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 join-room / leave-room ----------------------------------------------
	Register(s.router, EventJoinRoom,
		func(_ context.Context, cc *ConnContext, req JoinRoomRequest) error {
			_, err := s.manager.JoinRoom(req.RoomID, cc.ConnID, req.UserID, req.UserName)
			return err
		},
	)
	Register(s.router, EventLeaveRoom,
		func(_ context.Context, cc *ConnContext, _ LeaveRoomRequest) error {
			s.manager.LeaveRoom(cc.ConnID)
			return nil
		},
	)

	// 🔹 offer / answer / ice-candidate --------------------------------------
	for _, kind := range []string{EventOffer, EventAnswer, EventICECandidate} {
		Register(s.router, kind,
			func(_ context.Context, cc *ConnContext, req SignalRequest) error {
				s.signaling.Relay(kind, req.Payload, cc.ConnID, req.TargetConnectionID)
				return nil
			},
		)
	}

	// 🔹 chat-message ---------------------------------------------------------
	Register(s.router, EventChatMessage,
		func(_ context.Context, cc *ConnContext, req ChatMessageRequest) error {
			roomID, ok := s.manager.RoomOf(cc.ConnID)
			if !ok {
				return errNotInRoom
			}
			if req.RoomID != "" && req.RoomID != roomID {
				return errRoomMismatch
			}
			if req.UserID == "" || req.UserName == "" {
				if p, ok := s.manager.Participant(roomID, cc.ConnID); ok {
					if req.UserID == "" {
						req.UserID = p.UserID
					}
					if req.UserName == "" {
						req.UserName = p.UserName
					}
				}
			}
			s.chat.SendMessage(roomID, req.Message, req.UserName, req.UserID)
			return nil
		},
	)
}

func (s *WsServer) reader(conn *clientConn) {
	defer func() {
		s.manager.LeaveRoom(conn.id)
		s.hub.Remove(conn.id)
		conn.close()
		zap.L().Debug("ws.disconnected", zap.String("connection_id", conn.id))
	}()

	raw := conn.rawConn
	raw.SetReadLimit(s.opts.ReadLimit)
	_ = raw.SetReadDeadline(time.Now().Add(pongWait))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{ConnID: conn.id}

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("ws.read", zap.String("connection_id", conn.id), zap.Error(err))
			}
			return // client closed or errored
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			zap.L().Warn("ws.bad_frame", zap.String("connection_id", conn.id), zap.Error(err))
			continue
		}

		err = s.router.dispatch(context.Background(), cc, env)

		// The protocol has no error frames; failures are dropped.
		if err != nil {
			lvl := zap.DebugLevel
			if errors.Is(err, ErrUnknownEvent) || errors.Is(err, ErrInvalidBody) {
				lvl = zap.WarnLevel
			}
			if ce := zap.L().Check(lvl, "ws.dispatch"); ce != nil {
				ce.Write(
					zap.String("connection_id", conn.id),
					zap.String("event", env.Event),
					zap.Error(err),
				)
			}
		}
	}
}
