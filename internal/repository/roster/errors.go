package roster

import "errors"

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrSelfNotFound        = errors.New("no unassigned self entry")
)
