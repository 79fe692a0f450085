package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sharetube/client/internal/service/room"
	"github.com/sharetube/client/internal/transport/ws"
	"github.com/sharetube/client/pkg/ctxlogger"
)

// stableAfter is how long a connection has to stay up before the reconnect delay
// starts over from its minimum.
const stableAfter = 30 * time.Second

// stayConnected keeps the room connected until ctx is done, reconnecting with
// exponential backoff whenever the connection fails or cannot be made.
func stayConnected(ctx context.Context, roomURL string, r *room.Room, b backoff.BackOff, logger *slog.Logger) error {
	for {
		connCtx := ctxlogger.AppendCtx(ctx, slog.String("connection_id", uuid.NewString()))

		start := time.Now()
		err := session(connCtx, roomURL, r, logger)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, room.ErrStopped) {
			return err
		}

		if time.Since(start) >= stableAfter {
			b.Reset()
		}
		delay := b.NextBackOff()
		logger.WarnContext(connCtx, "connection lost", "error", err, "retry_in", delay.String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// session runs one connection: it starts the room session, feeds the room every
// server message and ends the room session when the connection goes away.
func session(ctx context.Context, roomURL string, r *room.Room, logger *slog.Logger) error {
	logger.InfoContext(ctx, "connecting", "url", roomURL)

	conn, err := ws.Dial(ctx, roomURL, logger)
	if err != nil {
		return err
	}

	if err := r.Do(ctx, func() error { return r.Connect(conn) }); err != nil {
		conn.Close()
		return err
	}
	defer r.Do(context.WithoutCancel(ctx), func() error {
		r.Disconnect()
		return nil
	})

	readErr := make(chan error, 1)
	go func() {
		readErr <- conn.ReadLoop(ctx, r.Deliver)
	}()

	select {
	case err := <-readErr:
		conn.Close()
		return err
	case <-ctx.Done():
		if err := conn.Shutdown(); err != nil {
			logger.DebugContext(ctx, "failed to close connection", "error", err)
		}
		<-readErr
		return ctx.Err()
	}
}
