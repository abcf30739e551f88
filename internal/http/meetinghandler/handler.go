package meetinghandler

import (
	"net/http"

	"wichat/internal/rooms"
	"wichat/internal/services/streamtoken"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Meetings is the room side of the REST API.
type Meetings interface {
	CreateMeeting() (string, error)
	Room(meetingID string) (rooms.Room, bool)
	Stats() (rooms, participants int)
}

// Connections counts live websocket connections.
type Connections interface {
	Len() int
}

type Handler struct {
	meetings Meetings
	tokens   streamtoken.IIssuer
	conns    Connections
}

func New(meetings Meetings, tokens streamtoken.IIssuer, conns Connections) *Handler {
	return &Handler{meetings: meetings, tokens: tokens, conns: conns}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/api/meeting/create", h.create)
	r.GET("/api/meeting/:meetingId", h.exists)
	r.POST("/api/stream/token", h.streamToken)
	r.GET("/health", h.health)
	r.GET("/stats", h.stats)
}

// @Summary		Create a meeting
// @Description	Allocates a fresh meeting id and pre-creates its room.
// @Tags			Meetings
// @Success		200	{object}	CreateMeetingResponse
// @Failure		500	{object}	ErrorResponse
// @Router			/api/meeting/create [post]
func (h *Handler) create(c *gin.Context) {
	id, err := h.meetings.CreateMeeting()
	if err != nil {
		zap.L().Error("meeting.create", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create meeting", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, CreateMeetingResponse{MeetingID: id})
}

// @Summary		Check a meeting
// @Description	Reports whether a room with this id currently exists and when it was created.
// @Tags			Meetings
// @Param			meetingId	path		string	true	"Meeting ID"	default(abcd1234)
// @Success		200			{object}	MeetingExistsResponse
// @Router			/api/meeting/{meetingId} [get]
func (h *Handler) exists(c *gin.Context) {
	room, ok := h.meetings.Room(c.Param("meetingId"))
	resp := MeetingExistsResponse{Exists: ok}
	if ok {
		resp.CreatedAt = room.CreatedAt.UTC().Format(timestampLayout)
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary		Issue a stream token
// @Description	Signs a short-lived token for the third-party video SDK.
// @Tags			Tokens
// @Param			body	body		StreamTokenBody	true	"User payload"
// @Success		200		{object}	StreamTokenResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		500		{object}	ErrorResponse
// @Router			/api/stream/token [post]
func (h *Handler) streamToken(c *gin.Context) {
	var body StreamTokenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userId and userName are required"})
		return
	}

	token, err := h.tokens.Issue(body.UserID, body.UserName)
	if err != nil {
		zap.L().Error("stream_token", zap.String("user_id", body.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token", Details: err.Error()})
		return
	}
	zap.L().Debug("stream_token.issued", zap.String("user_id", body.UserID))
	c.JSON(http.StatusOK, StreamTokenResponse{Token: token})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary		Server statistics
// @Tags			Ops
// @Success		200	{object}	StatsResponse
// @Router			/stats [get]
func (h *Handler) stats(c *gin.Context) {
	rooms, participants := h.meetings.Stats()
	c.JSON(http.StatusOK, StatsResponse{
		Rooms:        rooms,
		Participants: participants,
		Connections:  h.conns.Len(),
	})
}
