package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sharetube/client/internal/controller"
	"github.com/sharetube/client/internal/player/mpv"
	"github.com/sharetube/client/internal/service/room"
)

const shutdownTimeout = 5 * time.Second

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	logger := newLogger(os.Stdout)

	roomURL, err := cfg.RoomURL()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	player, err := mpv.Dial(ctx, &mpv.Config{
		SocketPath: cfg.MPVSocket,
		BaseURL:    cfg.MediaBaseURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to mpv: %w", err)
	}
	defer player.Close()

	r := room.New(player, &room.Config{
		Name:           cfg.Name,
		Avatar:         cfg.Avatar,
		StreamVariant:  cfg.StreamVariant,
		ReportInterval: cfg.ReportInterval,
		ActivitySize:   cfg.ActivitySize,
	}, logger)
	ctrl := controller.NewController(r, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.Run(gctx)
	})

	g.Go(func() error {
		return stayConnected(gctx, roomURL, r, newBackoff(cfg.ReconnectMin, cfg.ReconnectMax), logger)
	})

	if cfg.HTTPAddr != "" {
		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           ctrl.GetMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.InfoContext(gctx, "starting control api", "address", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to serve control api: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		})
	}

	if cfg.Console {
		console, err := ctrl.NewConsole(cfg.Name + "> ")
		if err != nil {
			return err
		}

		g.Go(func() error {
			return console.Run(gctx)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, controller.ErrQuit) {
		logger.Info("left the room")
		return nil
	}

	return err
}
