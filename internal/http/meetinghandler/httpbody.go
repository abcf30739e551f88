package meetinghandler

type CreateMeetingResponse struct {
	MeetingID string `json:"meetingId" example:"1f0c9a2b"`
} // @name CreateMeetingResponse

type MeetingExistsResponse struct {
	Exists    bool   `json:"exists"`
	CreatedAt string `json:"createdAt,omitempty" example:"2025-03-04T04:06:07.891Z"`
} // @name MeetingExistsResponse

type StreamTokenBody struct {
	UserID   string `json:"userId"   binding:"required" example:"u1"`
	UserName string `json:"userName" binding:"required" example:"Alice"`
} // @name StreamTokenRequest

type StreamTokenResponse struct {
	Token string `json:"token"`
} // @name StreamTokenResponse

type StatsResponse struct {
	Rooms        int `json:"rooms"`
	Participants int `json:"participants"`
	Connections  int `json:"connections"`
} // @name StatsResponse

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
} // @name ErrorResponse
