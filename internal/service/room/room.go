package room

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sharetube/client/internal/domain"
	"github.com/sharetube/client/internal/player"
	"github.com/sharetube/client/internal/protocol"
	"github.com/sharetube/client/internal/repository/roster"
)

// Sender delivers messages to the server.
type Sender interface {
	Send(msg protocol.Outbound) error
}

type Config struct {
	Name   string
	Avatar domain.BadgeID
	Badges []domain.BadgeID
	// StreamVariant picks which of the stream's playlists is loaded.
	StreamVariant int
	// ReportInterval adds local self reports on top of the server's pings. Zero disables it.
	ReportInterval time.Duration
	// ExtrapolateInterval is how often remote participants' times advance between updates.
	// Zero means once a second.
	ExtrapolateInterval time.Duration
	ActivitySize        int
}

type Option func(*Room)

// WithScheduler replaces the loop's own timer scheduling for roster extrapolation.
func WithScheduler(s roster.Scheduler) Option {
	return func(r *Room) { r.sched = s }
}

func WithClock(now func() time.Time) Option {
	return func(r *Room) { r.now = now }
}

type startingPoint struct {
	position float64
	state    domain.PlayState
}

// Room is the synchronization core. It owns the local player, the roster and the
// connection to the server. Everything except Run, Submit, Do and Deliver must be
// called from the goroutine running Run.
type Room struct {
	cfg    *Config
	logger *slog.Logger
	player player.Player
	sender Sender
	now    func() time.Time
	sched  roster.Scheduler

	roster   *roster.Roster
	table    *roster.Table
	activity *activity
	guards   guards

	loaded   bool
	starting *startingPoint

	currentTime     float64
	currentTimeSet  domain.Time
	currentState    domain.PlayState
	currentStateSet domain.Time

	calls   chan func()
	stopped chan struct{}
}

func New(p player.Player, cfg *Config, logger *slog.Logger, opts ...Option) *Room {
	extrapolate := cfg.ExtrapolateInterval
	if extrapolate <= 0 {
		extrapolate = time.Second
	}

	r := &Room{
		cfg:          cfg,
		logger:       logger,
		player:       p,
		now:          time.Now,
		table:        roster.NewTable(),
		activity:     newActivity(cfg.ActivitySize),
		currentState: domain.Pause,
		calls:        make(chan func()),
		stopped:      make(chan struct{}),
	}
	r.sched = r

	for _, opt := range opts {
		opt(r)
	}

	r.roster = roster.New(r.table, r.sched, extrapolate, logger)

	return r
}

// Connect starts a session on a new connection: the roster is reset to the local
// entry alone, without an id until the server's RoomState assigns one, and Hello is sent.
func (r *Room) Connect(s Sender) error {
	r.roster.Clear()
	r.guards.reset()
	r.sender = s

	r.roster.AddSelf(r.cfg.Name, r.cfg.Avatar, r.cfg.Badges)
	r.updateSelf()

	if err := r.send(protocol.Hello{
		Name:   r.cfg.Name,
		Avatar: r.cfg.Avatar,
		Time:   domain.TimeOf(r.now()),
	}); err != nil {
		r.sender = nil
		r.roster.Clear()
		return fmt.Errorf("failed to send hello: %w", err)
	}

	r.logger.Info("connected to room", "name", r.cfg.Name)
	return nil
}

// Disconnect drops the connection and every roster entry with it.
func (r *Room) Disconnect() {
	r.sender = nil
	r.roster.Clear()
	r.guards.reset()

	r.logger.Info("disconnected from room")
}

func (r *Room) Connected() bool {
	return r.sender != nil
}

func (r *Room) Roster() *roster.Roster {
	return r.roster
}

// Table is safe to read from any goroutine.
func (r *Room) Table() *roster.Table {
	return r.table
}

func (r *Room) Guards() (play, pause, seek GuardState) {
	return r.guards.play.State(), r.guards.pause.State(), r.guards.seek.State()
}

type Snapshot struct {
	Connected    bool                 `json:"connected"`
	Loaded       bool                 `json:"loaded"`
	SelfID       *domain.UserID       `json:"self_id"`
	Self         domain.PlaybackState `json:"self"`
	Participants []roster.Row         `json:"participants"`
	Activity     []ActivityLine       `json:"activity"`
}

func (r *Room) Snapshot() Snapshot {
	s := Snapshot{
		Connected:    r.Connected(),
		Loaded:       r.loaded,
		Participants: r.roster.Rows(),
		Activity:     r.activity.snapshot(),
	}

	if self := r.roster.Self(); self != nil {
		s.Self = self.State()
		if id, ok := self.ID(); ok {
			s.SelfID = &id
		}
	}

	return s
}

func (r *Room) send(msg protocol.Outbound) error {
	if r.sender == nil {
		r.logger.Warn("dropping message, not connected", "message", msg.Tag())
		return ErrNotConnected
	}

	if err := r.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Tag(), err)
	}

	return nil
}

func (r *Room) log(src *roster.Entry, template, detail string) {
	line := r.activity.add(r.now(), src, template, detail)
	r.logger.Info("activity", "name", line.Name, "text", line.Text, "detail", line.Detail)
}

func (r *Room) setTime(position float64) {
	r.currentTime = position
	r.currentTimeSet = domain.TimeOf(r.now())
}

func (r *Room) setState(state domain.PlayState) {
	r.currentState = state
	r.currentStateSet = domain.TimeOf(r.now())
}
