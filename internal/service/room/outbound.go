package room

import (
	"fmt"
	"math"

	"github.com/sharetube/client/internal/domain"
	"github.com/sharetube/client/internal/protocol"
	"github.com/sharetube/client/pkg/mediatime"
)

// RequestPlay asks the room to play and optimistically shows everyone as playing.
// It does not touch the local player.
func (r *Room) RequestPlay() error {
	return r.requestState(domain.Play)
}

// RequestPause is RequestPlay's counterpart.
func (r *Room) RequestPause() error {
	return r.requestState(domain.Pause)
}

func (r *Room) requestState(state domain.PlayState) error {
	err := r.send(protocol.StateChange{State: state, Time: domain.TimeOf(r.now())})
	r.roster.SetAllStates(state)

	if err != nil {
		return err
	}

	r.logger.Info("sent state event", "state", state)
	return nil
}

// RequestSeek asks the room to seek and seeks the local player right away. The
// player's seeked event for this seek is not sent again. Before the source has
// loaded it moves the starting point instead.
func (r *Room) RequestSeek(position float64) error {
	if math.IsNaN(position) || math.IsInf(position, 0) || position < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, position)
	}

	err := r.send(protocol.SeekRequest{Duration: position, Time: domain.TimeOf(r.now())})
	if err == nil {
		r.logger.Info("sent seek event", "duration", position)
	}

	if r.starting != nil {
		r.starting.position = position
		return err
	}

	r.guards.seek.Arm()
	if serr := r.player.Seek(position); serr != nil {
		r.guards.seek.Reset()
		return fmt.Errorf("failed to seek: %w", serr)
	}

	return err
}

// PlayIntent is the user asking to play: the request goes to the room and the local
// player follows without its echo being sent again.
func (r *Room) PlayIntent() error {
	return r.intent(domain.Play)
}

func (r *Room) PauseIntent() error {
	return r.intent(domain.Pause)
}

// Toggle plays when the player is paused and pauses otherwise. Before the source
// has loaded the pending starting state decides.
func (r *Room) Toggle() error {
	paused := r.player.Paused()
	if r.starting != nil {
		paused = r.starting.state != domain.Play
	}

	if paused {
		return r.PlayIntent()
	}

	return r.PauseIntent()
}

func (r *Room) intent(state domain.PlayState) error {
	err := r.requestState(state)

	if r.starting != nil {
		r.starting.state = state
		return err
	}

	if lerr := r.applyLocal(state); lerr != nil {
		return fmt.Errorf("failed to apply %s locally: %w", state, lerr)
	}

	return err
}

// Report samples the local player, refreshes the local entry and sends a State report.
func (r *Room) Report() error {
	pos := r.player.Position()
	buffered := mediatime.ClampSeconds(mediatime.BufferedAhead(r.player.Buffered(), pos))

	r.updateSelf()

	return r.send(protocol.StateReport{
		Duration:     mediatime.ClampSeconds(r.currentTime),
		DurationTime: r.currentTimeSet,
		State:        r.currentState,
		StateTime:    r.currentStateSet,
		Buffered:     buffered,
		Time:         domain.TimeOf(r.now()),
	})
}

func (r *Room) updateSelf() {
	self := r.roster.Self()
	if self == nil {
		return
	}

	pos := r.player.Position()
	self.UpdateSelf(domain.PlaybackState{
		Position:      pos,
		BufferedAhead: mediatime.BufferedAhead(r.player.Buffered(), pos),
		State:         r.currentState,
		ObservedAt:    r.now(),
	})
}
