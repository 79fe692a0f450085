package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sharetube/client/internal/player"
	"github.com/sharetube/client/pkg/mediatime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMPV answers every IPC command with success and lets tests push events.
type fakeMPV struct {
	t        *testing.T
	socket   string
	commands chan []any

	mu   sync.Mutex
	conn net.Conn
	up   chan struct{}
}

func newFakeMPV(t *testing.T) *fakeMPV {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	f := &fakeMPV{t: t, socket: socket, commands: make(chan []any, 32), up: make(chan struct{})}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.conn = conn
		f.mu.Unlock()
		close(f.up)

		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadBytes('\n')
			if err != nil {
				return
			}

			var req struct {
				Command   []any `json:"command"`
				RequestID int64 `json:"request_id"`
			}
			if err := json.Unmarshal(line, &req); err != nil {
				continue
			}

			f.commands <- req.Command
			f.write(fmt.Sprintf(`{"request_id":%d,"error":"success","data":null}`, req.RequestID))
		}
	}()

	return f
}

func (f *fakeMPV) write(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.conn.Write([]byte(msg + "\n"))
}

func (f *fakeMPV) send(msg string) {
	<-f.up
	f.write(msg)
}

func (f *fakeMPV) next() []any {
	select {
	case cmd := <-f.commands:
		return cmd
	case <-time.After(time.Second):
		f.t.Fatal("no command received")
		return nil
	}
}

func nextEvent(t *testing.T, p *Player) player.Event {
	select {
	case ev := <-p.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return player.Event{}
	}
}

func newTestPlayer(t *testing.T) (*fakeMPV, *Player) {
	f := newFakeMPV(t)
	p, err := Dial(context.Background(), &Config{SocketPath: f.socket, BaseURL: "http://media.local:8080"}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	observed := map[string]bool{}
	for i := 0; i < 3; i++ {
		cmd := f.next()
		require.Equal(t, "observe_property", cmd[0])
		observed[cmd[2].(string)] = true
	}
	assert.Equal(t, map[string]bool{"pause": true, "time-pos": true, "demuxer-cache-state": true}, observed)

	return f, p
}

func TestLoadResolvesAgainstBaseURL(t *testing.T) {
	f, p := newTestPlayer(t)

	require.NoError(t, p.Load("/static/data/movie/720.m3u8"))
	assert.Equal(t, []any{"set_property", "pause", true}, f.next())
	assert.Equal(t, []any{"loadfile", "http://media.local:8080/static/data/movie/720.m3u8", "replace"}, f.next())
}

func TestCommands(t *testing.T) {
	f, p := newTestPlayer(t)

	require.NoError(t, p.Play())
	assert.Equal(t, []any{"set_property", "pause", false}, f.next())

	require.NoError(t, p.Pause())
	assert.Equal(t, []any{"set_property", "pause", true}, f.next())

	require.NoError(t, p.Seek(42))
	assert.Equal(t, []any{"seek", float64(42), "absolute"}, f.next())
}

func TestPropertyEvents(t *testing.T) {
	f, p := newTestPlayer(t)

	f.send(`{"event":"property-change","id":2,"name":"time-pos","data":12.5}`)
	ev := nextEvent(t, p)
	assert.Equal(t, player.EventTimeUpdate, ev.Kind)
	assert.Equal(t, 12.5, p.Position())

	f.send(`{"event":"property-change","id":1,"name":"pause","data":false}`)
	assert.Equal(t, player.EventPlay, nextEvent(t, p).Kind)
	assert.False(t, p.Paused())

	f.send(`{"event":"property-change","id":1,"name":"pause","data":true}`)
	assert.Equal(t, player.EventPause, nextEvent(t, p).Kind)
	assert.True(t, p.Paused())

	f.send(`{"event":"property-change","id":3,"name":"demuxer-cache-state","data":{"seekable-ranges":[{"start":0,"end":30}]}}`)
	f.send(`{"event":"file-loaded"}`)
	assert.Equal(t, player.EventLoaded, nextEvent(t, p).Kind)
	assert.Equal(t, []mediatime.Range{{Start: 0, End: 30}}, p.Buffered())
}

func TestSeekedOnlyAfterSeek(t *testing.T) {
	f, p := newTestPlayer(t)

	f.send(`{"event":"playback-restart"}`)
	f.send(`{"event":"seek"}`)
	assert.Equal(t, player.EventSeeking, nextEvent(t, p).Kind)

	f.send(`{"event":"property-change","id":2,"name":"time-pos","data":42}`)
	assert.Equal(t, player.EventTimeUpdate, nextEvent(t, p).Kind)

	f.send(`{"event":"playback-restart"}`)
	ev := nextEvent(t, p)
	assert.Equal(t, player.EventSeeked, ev.Kind)
	assert.Equal(t, 42.0, ev.Position)
}

func TestEndFileError(t *testing.T) {
	f, p := newTestPlayer(t)

	f.send(`{"event":"end-file","reason":"eof"}`)
	f.send(`{"event":"end-file","reason":"error"}`)

	ev := nextEvent(t, p)
	assert.Equal(t, player.EventError, ev.Kind)
	assert.ErrorIs(t, ev.Err, ErrPlayback)
}

func TestClosedPlayerRejectsCommands(t *testing.T) {
	_, p := newTestPlayer(t)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Play(), ErrClosed)
	assert.ErrorIs(t, p.Seek(1), ErrClosed)
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), &Config{SocketPath: filepath.Join(t.TempDir(), "missing.sock")}, slog.Default())
	assert.ErrorContains(t, err, "failed to open mpv socket")
}
