package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/holdem-advisor/internal/server"
	"github.com/lox/holdem-advisor/internal/session"
)

// ServeCmd runs the HTTP and websocket advisor server.
type ServeCmd struct {
	Config string `kong:"default='advisor.hcl',help='Path to HCL configuration file'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic equity sampling seed (optional)'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sessCfg := cfg.SessionConfig()
	if c.Seed != nil {
		sessCfg.Seed = *c.Seed
	}

	sess, err := session.New(sessCfg, logger, nil)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg, sess, logger)

	logger.Info("starting advisor",
		"addr", cfg.Addr(),
		"players", cfg.Table.NumPlayers,
		"blinds", fmt.Sprintf("%d/%d", cfg.Table.SmallBlind, cfg.Table.BigBlind),
		"profile", cfg.Server.Aggression)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
