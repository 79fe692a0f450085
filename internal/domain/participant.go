package domain

import "slices"

// UserID is handed out by the server.
type UserID uint32

type ParticipantInfo struct {
	UserID UserID    `json:"user_id"`
	Name   string    `json:"name"`
	Avatar BadgeID   `json:"avatar"`
	Badges []BadgeID `json:"badges"`
}

// ParticipantUpdate is one participant's entry of a periodic room update.
type ParticipantUpdate struct {
	UserID   UserID    `json:"user_id"`
	Duration float64   `json:"duration" validate:"gte=0"`
	Buffered float64   `json:"buffered" validate:"gte=0"`
	State    PlayState `json:"state"`
	Badges   []BadgeID `json:"badges"`
}

// SameBadges compares two badge sets by value.
func SameBadges(a, b []BadgeID) bool {
	return slices.Equal(a, b)
}
