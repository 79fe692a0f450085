package room

import (
	"github.com/sharetube/client/internal/domain"
	"github.com/sharetube/client/internal/player"
	"github.com/sharetube/client/internal/protocol"
)

// HandlePlayerEvent reacts to a native player event. Echoes of actions the client
// triggered itself are swallowed; anything else after the source has loaded is the
// local user acting on the player and goes to the room.
func (r *Room) HandlePlayerEvent(ev player.Event) {
	switch ev.Kind {
	case player.EventPlay:
		r.setState(domain.Play)
		if r.guards.play.Consume() {
			r.logger.Debug("suppressed own play echo")
			break
		}
		if r.loaded {
			if err := r.RequestPlay(); err != nil {
				r.logger.Warn("failed to forward play", "error", err)
			}
		}
	case player.EventPause:
		r.setState(domain.Pause)
		if r.guards.pause.Consume() {
			r.logger.Debug("suppressed own pause echo")
			break
		}
		if r.loaded {
			if err := r.RequestPause(); err != nil {
				r.logger.Warn("failed to forward pause", "error", err)
			}
		}
	case player.EventSeeking:
		r.logger.Debug("player seeking", "position", ev.Position)
	case player.EventSeeked:
		r.setTime(ev.Position)
		if r.guards.seek.Consume() {
			r.logger.Debug("suppressed own seek echo", "position", ev.Position)
			break
		}
		if r.loaded {
			if err := r.forwardSeek(ev.Position); err != nil {
				r.logger.Warn("failed to forward seek", "error", err)
			}
		}
	case player.EventTimeUpdate:
		r.setTime(ev.Position)
	case player.EventLoaded:
		r.onLoaded()
	case player.EventError:
		r.logger.Error("media engine error", "error", ev.Err)
	}

	r.updateSelf()
}

func (r *Room) forwardSeek(position float64) error {
	return r.send(protocol.SeekRequest{Duration: position, Time: domain.TimeOf(r.now())})
}

// onLoaded applies the starting position and state recorded when the source was
// requested. Both need the loaded source, so neither is applied earlier.
func (r *Room) onLoaded() {
	r.loaded = true

	s := r.starting
	r.starting = nil
	if s == nil {
		return
	}

	r.logger.Info("video loaded", "starting_time", s.position, "starting_state", s.state)

	r.guards.seek.Arm()
	if err := r.player.Seek(s.position); err != nil {
		r.guards.seek.Reset()
		r.logger.Error("failed to seek to starting time", "error", err)
	}

	if s.state == domain.Play {
		if err := r.applyLocal(domain.Play); err != nil {
			r.logger.Error("failed to start playback", "error", err)
		}
	}
}
