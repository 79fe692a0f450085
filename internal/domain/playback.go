package domain

import (
	"time"

	"github.com/sharetube/client/pkg/mediatime"
)

// PlayState is the playing state of a media player as it appears on the wire.
type PlayState string

const (
	Play  PlayState = "Play"
	Pause PlayState = "Pause"
)

func (s PlayState) Valid() bool {
	return s == Play || s == Pause
}

// PlayStateOf maps a paused flag to a PlayState.
func PlayStateOf(paused bool) PlayState {
	if paused {
		return Pause
	}

	return Play
}

// Time is milliseconds since the UNIX epoch.
type Time int64

func TimeOf(t time.Time) Time {
	return Time(t.UnixMilli())
}

func (t Time) Std() time.Time {
	return time.UnixMilli(int64(t))
}

// PlaybackState is a sample of a player: where it is, how much is buffered past that
// point and whether it is playing.
type PlaybackState struct {
	Position      float64   `json:"position"`
	BufferedAhead float64   `json:"buffered_ahead"`
	State         PlayState `json:"state"`
	ObservedAt    time.Time `json:"observed_at"`
}

// Normalize enforces non-negative, finite position and buffered values.
func (p PlaybackState) Normalize() PlaybackState {
	p.Position = mediatime.ClampSeconds(p.Position)
	p.BufferedAhead = mediatime.ClampSeconds(p.BufferedAhead)
	return p
}
