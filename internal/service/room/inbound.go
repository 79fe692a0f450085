package room

import (
	"github.com/sharetube/client/internal/domain"
	"github.com/sharetube/client/internal/protocol"
	"github.com/sharetube/client/internal/repository/roster"
	"github.com/sharetube/client/pkg/mediatime"
)

// Handle applies one server message.
func (r *Room) Handle(msg protocol.Inbound) {
	switch m := msg.(type) {
	case protocol.RoomState:
		r.handleRoomState(m)
	case protocol.RoomUpdate:
		r.handleRoomUpdate(m)
	case protocol.Ping:
		if err := r.Report(); err != nil {
			r.logger.Warn("failed to answer ping", "error", err)
		}
	case protocol.NewParticipant:
		r.handleNewParticipant(m)
	case protocol.ByeParticipant:
		r.handleByeParticipant(m)
	case protocol.DoSeek:
		r.handleDoSeek(m)
	case protocol.SetState:
		r.handleSetState(m)
	case protocol.NewStream:
		r.loadStream(m.Stream)
		r.log(nil, "Now watching "+m.Stream.Name+".", "")
	case protocol.ChatMessage:
		src, _ := r.roster.Get(m.From)
		r.log(src, "{} says:", m.Msg)
	case protocol.ServerError:
		r.logger.Warn("server reported an error", "error", m.Message)
		r.log(nil, "The server reported an error.", m.Message)
	case protocol.Unknown:
		r.logger.Debug("ignoring unrecognized message", "tag", m.Name)
	default:
		r.logger.Debug("ignoring unhandled message", "tag", msg.Tag())
	}
}

func (r *Room) handleRoomState(m protocol.RoomState) {
	if m.CurrentStream != nil {
		r.loadStream(*m.CurrentStream)
	}

	r.setTime(0)
	r.setState(domain.Pause)

	if err := r.roster.AssignSelfID(m.UserID); err != nil && !r.isSelf(m.UserID) {
		r.logger.Warn("failed to assign own user id", "user_id", m.UserID, "error", err)
	}

	for _, p := range m.Participants {
		if p.UserID == m.UserID {
			continue
		}
		r.roster.Add(p)
	}
}

// loadStream hands the stream to the player. Where playback starts is only applied
// once the player reports the source as loaded.
func (r *Room) loadStream(s domain.StreamInfo) {
	path, err := s.SourcePath(r.cfg.StreamVariant)
	if err != nil {
		r.logger.Warn("cannot load stream", "slug", s.Slug, "error", err)
		return
	}

	r.loaded = false
	r.guards.reset()
	r.starting = &startingPoint{
		position: mediatime.ClampSeconds(s.Duration),
		state:    s.State,
	}

	r.logger.Info("loading stream", "url", path)
	if err := r.player.Load(path); err != nil {
		r.logger.Error("failed to load stream", "url", path, "error", err)
	}
}

func (r *Room) handleRoomUpdate(m protocol.RoomUpdate) {
	now := r.now()
	for _, u := range m.Participants {
		e, ok := r.roster.Get(u.UserID)
		if !ok {
			continue
		}

		// the local entry is only refreshed from local samples
		if e.IsSelf() {
			continue
		}

		e.Update(u, now)
	}
}

func (r *Room) handleNewParticipant(m protocol.NewParticipant) {
	e := r.roster.Add(domain.ParticipantInfo{
		UserID: m.UserID,
		Name:   m.Name,
		Avatar: m.Avatar,
		Badges: m.Badges,
	})

	if e != nil {
		r.log(e, "{} has joined the room!", "")
	}
}

func (r *Room) handleByeParticipant(m protocol.ByeParticipant) {
	e, _ := r.roster.Get(m.UserID)
	if err := r.roster.Remove(m.UserID); err != nil {
		r.logger.Warn("failed to find existing user for leaving user id", "user_id", m.UserID)
		return
	}

	r.log(e, "{} has left the room.", "")
}

func (r *Room) handleDoSeek(m protocol.DoSeek) {
	r.logger.Info("received seek message", "user", m.User, "duration", m.Duration)

	src := r.source(m.User)
	r.log(src, "{} requested to seek to "+mediatime.FormatDuration(m.Duration)+".", "")

	if r.starting != nil {
		r.starting.position = m.Duration
		return
	}

	r.guards.seek.Arm()
	if err := r.player.Seek(m.Duration); err != nil {
		r.guards.seek.Reset()
		r.logger.Error("failed to seek", "error", err)
	}
}

func (r *Room) handleSetState(m protocol.SetState) {
	r.logger.Info("received state message", "user", m.User, "state", m.State)

	src := r.source(m.User)
	switch m.State {
	case domain.Play:
		r.log(src, "{} requested to play.", "")
		r.applyRemoteState(domain.Play)
	case domain.Pause:
		r.log(src, "{} requested to pause.", "")
		r.applyRemoteState(domain.Pause)
	default:
		r.logger.Warn("unknown video state", "state", m.State)
	}
}

func (r *Room) applyRemoteState(state domain.PlayState) {
	if r.starting != nil {
		r.starting.state = state
		return
	}

	if err := r.applyLocal(state); err != nil {
		r.logger.Error("failed to apply state", "state", state, "error", err)
	}
}

// applyLocal plays or pauses the player with the matching guard armed. Nothing is
// done when the player is already in that state, since no event would follow.
func (r *Room) applyLocal(state domain.PlayState) error {
	if r.player.Paused() == (state == domain.Pause) {
		return nil
	}

	if state == domain.Play {
		r.guards.play.Arm()
		if err := r.player.Play(); err != nil {
			r.guards.play.Reset()
			return err
		}
		return nil
	}

	r.guards.pause.Arm()
	if err := r.player.Pause(); err != nil {
		r.guards.pause.Reset()
		return err
	}
	return nil
}

func (r *Room) isSelf(id domain.UserID) bool {
	e, ok := r.roster.Get(id)
	return ok && e.IsSelf()
}

func (r *Room) source(id domain.UserID) *roster.Entry {
	e, ok := r.roster.Get(id)
	if !ok {
		return nil
	}

	return e
}
