package room

import "errors"

var (
	ErrNotConnected    = errors.New("not connected")
	ErrInvalidPosition = errors.New("invalid seek position")
	ErrStopped         = errors.New("room loop stopped")
	ErrPlayerClosed    = errors.New("player closed")
)
