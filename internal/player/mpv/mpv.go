package mpv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/dexterlb/mpvipc"

	"github.com/sharetube/client/internal/player"
	"github.com/sharetube/client/pkg/mediatime"
)

var (
	ErrClosed   = errors.New("mpv connection closed")
	ErrPlayback = errors.New("mpv failed to play the file")
)

const (
	observePause = iota + 1
	observeTimePos
	observeCacheState
)

type Config struct {
	// SocketPath is mpv's --input-ipc-server path.
	SocketPath string
	// BaseURL is prepended to the paths given to Load.
	BaseURL string
}

// Player drives an mpv instance over its JSON IPC socket.
type Player struct {
	conn    *mpvipc.Connection
	baseURL *url.URL
	logger  *slog.Logger

	mu       sync.RWMutex
	paused   bool
	position float64
	buffered []mediatime.Range
	seeking  bool

	events     chan player.Event
	stopListen chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

func Dial(ctx context.Context, cfg *Config, logger *slog.Logger) (*Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn := mpvipc.NewConnection(cfg.SocketPath)
	if err := conn.Open(); err != nil {
		return nil, fmt.Errorf("failed to open mpv socket: %w", err)
	}

	p, err := New(conn, cfg.BaseURL, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return p, nil
}

// New wraps an open IPC connection and subscribes to the properties the player
// reports on.
func New(conn *mpvipc.Connection, baseURL string, logger *slog.Logger) (*Player, error) {
	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse media base url: %w", err)
		}
		base = u
	}

	listener, stop := conn.NewEventListener()
	p := &Player{
		conn:       conn,
		baseURL:    base,
		logger:     logger,
		paused:     true,
		events:     make(chan player.Event, 64),
		stopListen: stop,
		done:       make(chan struct{}),
	}

	lost := make(chan struct{})
	go func() {
		conn.WaitUntilClosed()
		close(lost)
	}()
	go p.pump(listener, lost)

	for _, prop := range []struct {
		id   int
		name string
	}{
		{observePause, "pause"},
		{observeTimePos, "time-pos"},
		{observeCacheState, "demuxer-cache-state"},
	} {
		if _, err := conn.Call("observe_property", prop.id, prop.name); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to observe %s: %w", prop.name, err)
		}
	}

	return p, nil
}

func (p *Player) Events() <-chan player.Event {
	return p.events
}

func (p *Player) Paused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.paused
}

func (p *Player) Position() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.position
}

func (p *Player) Buffered() []mediatime.Range {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]mediatime.Range(nil), p.buffered...)
}

// Load pauses mpv and replaces the current file, so a freshly loaded source stays
// paused until told otherwise.
func (p *Player) Load(path string) error {
	target := path
	if p.baseURL != nil {
		ref, err := url.Parse(path)
		if err != nil {
			return fmt.Errorf("failed to parse media path: %w", err)
		}
		target = p.baseURL.ResolveReference(ref).String()
	}

	p.mu.Lock()
	p.position = 0
	p.buffered = nil
	p.seeking = false
	p.mu.Unlock()

	if err := p.set("pause", true); err != nil {
		return fmt.Errorf("failed to pause before load: %w", err)
	}

	if err := p.call("loadfile", target, "replace"); err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}

	p.logger.Debug("mpv.Load", "url", target)
	return nil
}

func (p *Player) Play() error {
	return p.set("pause", false)
}

func (p *Player) Pause() error {
	return p.set("pause", true)
}

func (p *Player) Seek(position float64) error {
	return p.call("seek", position, "absolute")
}

func (p *Player) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		close(p.stopListen)
		err = p.conn.Close()
	})

	return err
}

func (p *Player) call(args ...any) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	if _, err := p.conn.Call(args...); err != nil {
		return fmt.Errorf("mpv %v: %w", args[0], err)
	}

	return nil
}

func (p *Player) set(property string, value any) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	if err := p.conn.Set(property, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", property, err)
	}

	return nil
}

func (p *Player) pump(events <-chan *mpvipc.Event, lost <-chan struct{}) {
	defer close(p.events)

	for {
		select {
		case <-p.done:
			return
		case <-lost:
			select {
			case <-p.done:
			default:
				p.logger.Warn("mpv connection lost")
				p.emit(player.Event{Kind: player.EventError, Err: ErrClosed})
			}
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p.handle(ev)
		}
	}
}

func (p *Player) handle(ev *mpvipc.Event) {
	switch ev.Name {
	case "property-change":
		p.handleProperty(ev)
	case "seek":
		p.mu.Lock()
		p.seeking = true
		pos := p.position
		p.mu.Unlock()

		p.emit(player.Event{Kind: player.EventSeeking, Position: pos})
	case "playback-restart":
		// also fired after loadfile; only a restart that ends a seek is a seeked event
		p.mu.Lock()
		wasSeeking := p.seeking
		p.seeking = false
		pos := p.position
		p.mu.Unlock()

		if wasSeeking {
			p.emit(player.Event{Kind: player.EventSeeked, Position: pos})
		}
	case "file-loaded":
		p.emit(player.Event{Kind: player.EventLoaded})
	case "end-file":
		if ev.Reason == "error" {
			p.emit(player.Event{Kind: player.EventError, Err: ErrPlayback})
		}
	}
}

func (p *Player) handleProperty(ev *mpvipc.Event) {
	switch ev.ID {
	case observePause:
		paused, ok := ev.Data.(bool)
		if !ok {
			return
		}

		p.mu.Lock()
		p.paused = paused
		p.mu.Unlock()

		kind := player.EventPlay
		if paused {
			kind = player.EventPause
		}
		p.emit(player.Event{Kind: kind, Position: p.Position()})
	case observeTimePos:
		pos, ok := ev.Data.(float64)
		if !ok {
			return
		}

		p.mu.Lock()
		p.position = pos
		p.mu.Unlock()

		p.emit(player.Event{Kind: player.EventTimeUpdate, Position: pos})
	case observeCacheState:
		state, ok := ev.Data.(map[string]any)
		if !ok {
			return
		}

		p.mu.Lock()
		p.buffered = seekableRanges(state)
		p.mu.Unlock()
	}
}

func seekableRanges(state map[string]any) []mediatime.Range {
	raw, _ := state["seekable-ranges"].([]any)

	ranges := make([]mediatime.Range, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		start, sok := m["start"].(float64)
		end, eok := m["end"].(float64)
		if !sok || !eok {
			continue
		}
		ranges = append(ranges, mediatime.Range{Start: start, End: end})
	}

	return ranges
}

// emit drops time updates nobody is reading; every other event waits for a reader.
func (p *Player) emit(ev player.Event) {
	if ev.Kind == player.EventTimeUpdate {
		select {
		case p.events <- ev:
		default:
			p.logger.Debug("mpv.emit", "dropped", ev.Kind.String())
		}
		return
	}

	select {
	case p.events <- ev:
	case <-p.done:
	}
}
