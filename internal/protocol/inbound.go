package protocol

import "github.com/sharetube/client/internal/domain"

// Inbound is a message sent by the server. The set of implementations is closed;
// anything the client does not know decodes to Unknown.
type Inbound interface {
	Tag() string
	inbound()
}

// RoomState bootstraps (or resyncs) the client.
type RoomState struct {
	UserID        domain.UserID            `json:"user_id"`
	Participants  []domain.ParticipantInfo `json:"participants"`
	CurrentStream *domain.StreamInfo       `json:"current_stream"`
}

// RoomUpdate is the periodic broadcast of every participant's reported state.
type RoomUpdate struct {
	Participants []domain.ParticipantUpdate `json:"participants" validate:"dive"`
}

// Ping asks the client for a State report.
type Ping struct{}

type NewParticipant struct {
	UserID domain.UserID    `json:"user_id"`
	Name   string           `json:"name"`
	Avatar domain.BadgeID   `json:"avatar"`
	Badges []domain.BadgeID `json:"badges"`
}

type ByeParticipant struct {
	UserID domain.UserID `json:"user_id"`
}

// DoSeek tells the client that User seeked to Duration seconds.
type DoSeek struct {
	User     domain.UserID `json:"user"`
	Duration float64       `json:"duration" validate:"gte=0"`
}

// SetState tells the client that User changed the play state. State is not
// validated here: values outside Play/Pause are reported by the room.
type SetState struct {
	User  domain.UserID    `json:"user"`
	State domain.PlayState `json:"state"`
}

// NewStream replaces the stream the room is watching.
type NewStream struct {
	Stream domain.StreamInfo
}

type ChatMessage struct {
	From domain.UserID `json:"from"`
	Msg  string        `json:"msg"`
}

// ServerError is the server's Error variant.
type ServerError struct {
	Message string
}

// Unknown is any well-formed message with a tag this client does not handle.
type Unknown struct {
	Name string
}

func (RoomState) Tag() string      { return "RoomState" }
func (RoomUpdate) Tag() string     { return "RoomUpdate" }
func (Ping) Tag() string           { return "Ping" }
func (NewParticipant) Tag() string { return "NewParticipant" }
func (ByeParticipant) Tag() string { return "ByeParticipant" }
func (DoSeek) Tag() string         { return "DoSeek" }
func (SetState) Tag() string       { return "SetState" }
func (NewStream) Tag() string      { return "NewStream" }
func (ChatMessage) Tag() string    { return "ChatMessage" }
func (ServerError) Tag() string    { return "Error" }
func (u Unknown) Tag() string      { return u.Name }

func (RoomState) inbound()      {}
func (RoomUpdate) inbound()     {}
func (Ping) inbound()           {}
func (NewParticipant) inbound() {}
func (ByeParticipant) inbound() {}
func (DoSeek) inbound()         {}
func (SetState) inbound()       {}
func (NewStream) inbound()      {}
func (ChatMessage) inbound()    {}
func (ServerError) inbound()    {}
func (Unknown) inbound()        {}
