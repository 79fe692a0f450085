package domain

import (
	"errors"
	"path"
)

var ErrNoStreams = errors.New("stream has no playlists")

// Stream is one quality variant of a media stream and its HLS playlist file name.
type Stream struct {
	Quality  uint32 `json:"quality"`
	Playlist string `json:"playlist" validate:"required"`
}

// StreamInfo describes what the room is watching and where playback should start.
type StreamInfo struct {
	Slug     string    `json:"slug" validate:"required"`
	Name     string    `json:"name"`
	Streams  []Stream  `json:"streams" validate:"dive"`
	Duration float64   `json:"duration" validate:"gte=0"`
	State    PlayState `json:"state"`
}

// SourcePath is the media source path of the given variant, /static/data/{slug}/{playlist}.
// Out of range variants fall back to the closest available one.
func (s StreamInfo) SourcePath(variant int) (string, error) {
	if len(s.Streams) == 0 {
		return "", ErrNoStreams
	}

	variant = max(0, min(variant, len(s.Streams)-1))

	return path.Join("/static/data", s.Slug, s.Streams[variant].Playlist), nil
}
