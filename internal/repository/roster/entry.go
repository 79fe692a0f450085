package roster

import (
	"slices"
	"time"

	"github.com/sharetube/client/internal/domain"
	"github.com/sharetube/client/pkg/mediatime"
)

// Scheduler runs fn every interval until the returned cancel is called.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

type task struct {
	cancel func()
}

// Entry is one participant as this client sees it.
type Entry struct {
	id     domain.UserID
	hasID  bool
	name   string
	avatar domain.BadgeID
	badges []domain.BadgeID
	state  domain.PlaybackState
	isSelf bool

	view     View
	sched    Scheduler
	interval time.Duration
	task     *task
	removed  bool
}

func newEntry(info domain.ParticipantInfo, hasID, isSelf bool, view View, sched Scheduler, interval time.Duration) *Entry {
	e := &Entry{
		id:       info.UserID,
		hasID:    hasID,
		name:     info.Name,
		avatar:   info.Avatar,
		badges:   slices.Clone(info.Badges),
		isSelf:   isSelf,
		view:     view,
		sched:    sched,
		interval: interval,
	}

	e.view.RenderBadges(e.badges)
	e.render()

	return e
}

// ID returns the server-assigned id; ok is false for the self entry before the
// server has assigned one.
func (e *Entry) ID() (id domain.UserID, ok bool) {
	return e.id, e.hasID
}

func (e *Entry) Name() string                { return e.name }
func (e *Entry) Avatar() domain.BadgeID      { return e.avatar }
func (e *Entry) Badges() []domain.BadgeID    { return slices.Clone(e.badges) }
func (e *Entry) State() domain.PlaybackState { return e.state }
func (e *Entry) IsSelf() bool                { return e.isSelf }
func (e *Entry) Removed() bool               { return e.removed }

// Extrapolating reports whether the per-second task is currently scheduled.
func (e *Entry) Extrapolating() bool {
	return e.task != nil
}

// Update applies an authoritative server update. Any extrapolated time is discarded.
func (e *Entry) Update(u domain.ParticipantUpdate, now time.Time) {
	if e.removed {
		return
	}

	e.stopTask()

	oldBadges := e.badges
	e.badges = slices.Clone(u.Badges)
	e.state = domain.PlaybackState{
		Position:      u.Duration,
		BufferedAhead: u.Buffered,
		State:         u.State,
		ObservedAt:    now,
	}.Normalize()

	if !domain.SameBadges(oldBadges, e.badges) {
		e.view.RenderBadges(e.badges)
	}
	e.render()

	e.syncTask()
}

// UpdateSelf applies a local sample of this client's own player.
func (e *Entry) UpdateSelf(s domain.PlaybackState) {
	if e.removed {
		return
	}

	e.state = s.Normalize()
	e.render()
}

// SetOptimisticState marks the entry as playing or paused ahead of the next update.
func (e *Entry) SetOptimisticState(state domain.PlayState) {
	if e.removed || e.state.State == state {
		return
	}

	e.state.State = state
	e.render()
	e.syncTask()
}

// Remove cancels the extrapolation task and removes the row. Calling it again is a no-op.
func (e *Entry) Remove() {
	if e.removed {
		return
	}

	e.removed = true
	e.stopTask()
	e.view.Remove()
}

// Row is the entry as displayed.
func (e *Entry) Row() Row {
	var id *domain.UserID
	if e.hasID {
		v := e.id
		id = &v
	}

	badges := make([]string, 0, len(e.badges))
	for _, b := range e.badges {
		badges = append(badges, domain.Badge(b).Name)
	}

	return Row{
		UserID:   id,
		Name:     e.name,
		Avatar:   domain.Badge(e.avatar).Name,
		Time:     mediatime.FormatDuration(mediatime.ClampSeconds(e.state.Position)),
		Buffered: mediatime.FormatDuration(mediatime.ClampSeconds(e.state.BufferedAhead)),
		State:    domain.Badge(domain.StateBadge(e.state.State)).Name,
		Badges:   badges,
		IsSelf:   e.isSelf,
	}
}

func (e *Entry) render() {
	e.view.RenderRow(e.Row())
}

// syncTask keeps a task running exactly while a remote entry is playing.
func (e *Entry) syncTask() {
	shouldRun := !e.isSelf && !e.removed && e.state.State == domain.Play && e.sched != nil
	switch {
	case shouldRun && e.task == nil:
		t := &task{}
		t.cancel = e.sched.Every(e.interval, func() { e.tick(t) })
		e.task = t
	case !shouldRun && e.task != nil:
		e.stopTask()
	}
}

func (e *Entry) stopTask() {
	if e.task == nil {
		return
	}

	t := e.task
	e.task = nil
	t.cancel()
}

func (e *Entry) tick(t *task) {
	// ticks already queued when their task was stopped are dropped
	if e.removed || e.task != t || e.state.State != domain.Play {
		return
	}

	e.state.Position += e.interval.Seconds()
	e.render()
}
