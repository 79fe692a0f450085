package protocol

import "github.com/sharetube/client/internal/domain"

// Outbound is a message sent by the client.
type Outbound interface {
	Tag() string
}

// Hello is the first message sent on a connection.
type Hello struct {
	Name   string         `json:"name"`
	Avatar domain.BadgeID `json:"avatar"`
	Time   domain.Time    `json:"time"`
}

// StateChange is the wire SetState request: the user wants the room to play or pause.
type StateChange struct {
	State domain.PlayState `json:"state"`
	Time  domain.Time      `json:"time"`
}

// SeekRequest is the wire Seek request.
type SeekRequest struct {
	Duration float64     `json:"duration"`
	Time     domain.Time `json:"time"`
}

// StateReport is the wire State message, the client's own player as last sampled.
type StateReport struct {
	Duration     float64          `json:"duration"`
	DurationTime domain.Time      `json:"duration_time"`
	State        domain.PlayState `json:"state"`
	StateTime    domain.Time      `json:"state_time"`
	Buffered     float64          `json:"buffered"`
	Time         domain.Time      `json:"time"`
}

// Goodbye announces a clean leave.
type Goodbye struct{}

func (Hello) Tag() string       { return "Hello" }
func (StateChange) Tag() string { return "SetState" }
func (SeekRequest) Tag() string { return "Seek" }
func (StateReport) Tag() string { return "State" }
func (Goodbye) Tag() string     { return "Goodbye" }
