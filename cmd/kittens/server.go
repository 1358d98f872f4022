package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	rand "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lox/kittens/cmd/kittens/shared"
	"github.com/lox/kittens/internal/randutil"
	"github.com/lox/kittens/internal/server"
)

// ServerCmd contains core server configuration.
type ServerCmd struct {
	Addr   string `kong:"default='',help='Listen address, overrides the config file'"`
	Config string `kong:"default='kittens.hcl',help='HCL configuration file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for the server (optional)'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	logger := shared.SetupLoggerWithLevel(cfg.Server.LogLevel)
	if c.Debug {
		logger = shared.SetupLogger(true)
	}

	modes, err := cfg.GameModes()
	if err != nil {
		return err
	}

	var rng *rand.Rand
	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}
	rng = randutil.New(seed)

	addr := c.Addr
	if addr == "" {
		addr = cfg.ListenAddr()
	}

	s := server.NewServer(logger, rng, modes)
	logger.Info("starting kittens server", "addr", addr, "modes", 1+len(modes))

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
