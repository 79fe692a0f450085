package roster

import (
	"log/slog"
	"slices"
	"time"

	"github.com/sharetube/client/internal/domain"
	"golang.org/x/exp/maps"
)

// Roster holds every participant of the room, the local one included. It is not safe
// for concurrent use: the room's event loop is its only user.
type Roster struct {
	entries  []*Entry
	byID     map[domain.UserID]*Entry
	renderer Renderer
	sched    Scheduler
	interval time.Duration
	logger   *slog.Logger
}

func New(renderer Renderer, sched Scheduler, interval time.Duration, logger *slog.Logger) *Roster {
	return &Roster{
		byID:     make(map[domain.UserID]*Entry),
		renderer: renderer,
		sched:    sched,
		interval: interval,
		logger:   logger,
	}
}

// AddSelf creates the local entry without an id. An existing self entry is returned as is.
func (r *Roster) AddSelf(name string, avatar domain.BadgeID, badges []domain.BadgeID) *Entry {
	funcName := "roster.AddSelf"
	if self := r.Self(); self != nil {
		r.logger.Debug(funcName, "result", "already present")
		return self
	}

	e := newEntry(domain.ParticipantInfo{Name: name, Avatar: avatar, Badges: badges}, false, true, r.renderer.NewView(), nil, r.interval)
	r.entries = append(r.entries, e)

	r.logger.Debug(funcName, "name", name)
	return e
}

// Add creates a remote entry. It returns nil when the id is already in the roster.
func (r *Roster) Add(info domain.ParticipantInfo) *Entry {
	funcName := "roster.Add"
	if _, ok := r.byID[info.UserID]; ok {
		r.logger.Debug(funcName, "user_id", info.UserID, "result", "already present")
		return nil
	}

	e := newEntry(info, true, false, r.renderer.NewView(), r.sched, r.interval)
	r.entries = append(r.entries, e)
	r.byID[info.UserID] = e

	r.logger.Debug(funcName, "user_id", info.UserID, "name", info.Name)
	return e
}

func (r *Roster) Get(id domain.UserID) (*Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

func (r *Roster) Self() *Entry {
	for _, e := range r.entries {
		if e.isSelf {
			return e
		}
	}

	return nil
}

// AssignSelfID gives the unassigned self entry its server id. A remote entry already
// holding that id is dropped to keep ids unique.
func (r *Roster) AssignSelfID(id domain.UserID) error {
	funcName := "roster.AssignSelfID"
	idx := slices.IndexFunc(r.entries, func(e *Entry) bool { return !e.hasID })
	if idx < 0 {
		r.logger.Info(funcName, "error", ErrSelfNotFound)
		return ErrSelfNotFound
	}

	if other, ok := r.byID[id]; ok && other != r.entries[idx] {
		r.logger.Warn(funcName, "user_id", id, "result", "dropping stale entry with same id")
		if err := r.Remove(id); err != nil {
			return err
		}
		idx = slices.IndexFunc(r.entries, func(e *Entry) bool { return !e.hasID })
	}

	e := r.entries[idx]
	e.id = id
	e.hasID = true
	r.byID[id] = e
	e.render()

	r.logger.Debug(funcName, "user_id", id)
	return nil
}

// Remove deletes the entry and cancels its extrapolation.
func (r *Roster) Remove(id domain.UserID) error {
	funcName := "roster.Remove"
	e, ok := r.byID[id]
	if !ok {
		r.logger.Info(funcName, "user_id", id, "error", ErrParticipantNotFound)
		return ErrParticipantNotFound
	}

	delete(r.byID, id)
	r.entries = slices.DeleteFunc(r.entries, func(x *Entry) bool { return x == e })
	e.Remove()

	r.logger.Debug(funcName, "user_id", id, "name", e.name)
	return nil
}

// Clear removes every entry, the local one included.
func (r *Roster) Clear() {
	for _, e := range r.entries {
		e.Remove()
	}

	r.entries = nil
	maps.Clear(r.byID)
}

func (r *Roster) SetAllStates(state domain.PlayState) {
	for _, e := range r.entries {
		e.SetOptimisticState(state)
	}
}

func (r *Roster) Entries() []*Entry {
	return slices.Clone(r.entries)
}

// IDs returns the assigned ids in ascending order.
func (r *Roster) IDs() []domain.UserID {
	ids := maps.Keys(r.byID)
	slices.Sort(ids)
	return ids
}

func (r *Roster) Rows() []Row {
	rows := make([]Row, 0, len(r.entries))
	for _, e := range r.entries {
		rows = append(rows, e.Row())
	}

	return rows
}

func (r *Roster) Len() int {
	return len(r.entries)
}
