package room

import (
	"context"
	"sync"
	"time"

	"github.com/sharetube/client/internal/protocol"
)

// Run is the room's event loop. Inbound messages, player events, local intents and
// timer ticks are all handled here one at a time, so none of the handlers need locks.
func (r *Room) Run(ctx context.Context) error {
	defer close(r.stopped)
	defer r.roster.Clear()

	var report <-chan time.Time
	if r.cfg.ReportInterval > 0 {
		ticker := time.NewTicker(r.cfg.ReportInterval)
		defer ticker.Stop()
		report = ticker.C
	}

	events := r.player.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-r.calls:
			fn()
		case ev, ok := <-events:
			if !ok {
				return ErrPlayerClosed
			}
			r.HandlePlayerEvent(ev)
		case <-report:
			if r.Connected() {
				if err := r.Report(); err != nil {
					r.logger.Warn("failed to report state", "error", err)
				}
			}
		}
	}
}

// Submit queues fn on the loop without waiting for it to run.
func (r *Room) Submit(ctx context.Context, fn func()) error {
	select {
	case r.calls <- fn:
		return nil
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop and waits for its result.
func (r *Room) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := r.Submit(ctx, func() { result <- fn() }); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver hands an inbound message to the loop.
func (r *Room) Deliver(ctx context.Context, msg protocol.Inbound) error {
	return r.Submit(ctx, func() { r.Handle(msg) })
}

// Every implements roster.Scheduler on top of the loop: fn always runs on the loop.
func (r *Room) Every(interval time.Duration, fn func()) func() {
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-r.stopped:
				return
			case <-ticker.C:
				select {
				case r.calls <- fn:
				case <-stop:
					return
				case <-r.stopped:
					return
				}
			}
		}
	}()

	return func() { once.Do(func() { close(stop) }) }
}
