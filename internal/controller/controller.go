package controller

import (
	"context"
	"log/slog"

	"github.com/sharetube/client/internal/repository/roster"
	"github.com/sharetube/client/internal/service/room"
	"github.com/sharetube/client/pkg/validator"
)

// iRoom is the part of the room the local controls need. Everything except Do and
// Table must be called from inside Do.
type iRoom interface {
	Do(ctx context.Context, fn func() error) error
	Table() *roster.Table
	Snapshot() room.Snapshot
	PlayIntent() error
	PauseIntent() error
	Toggle() error
	RequestSeek(position float64) error
}

type controller struct {
	room     iRoom
	logger   *slog.Logger
	validate *validator.Validator
}

func NewController(r iRoom, logger *slog.Logger) *controller {
	return &controller{
		room:     r,
		logger:   logger,
		validate: validator.NewValidator(),
	}
}

func (c controller) snapshot(ctx context.Context) (room.Snapshot, error) {
	var s room.Snapshot
	err := c.room.Do(ctx, func() error {
		s = c.room.Snapshot()
		return nil
	})

	return s, err
}
