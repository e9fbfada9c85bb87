// Package main provides the match server binary: it loads configuration
// and boards, wires the match engine, and runs it under the lifecycle
// manager until a termination signal.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/action"
	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/game/vp"
	"github.com/cory-johannsen/skirmish/internal/matchserver"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	boardsDir := flag.String("boards", "", "path to board YAML files directory; overrides maps.dir")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *boardsDir != "" {
		cfg.Maps.Dir = *boardsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	boardStart := time.Now()
	boards, err := board.LoadFromDir(cfg.Maps.Dir)
	if err != nil {
		logger.Fatal("loading boards", zap.Error(err))
	}
	logger.Info("boards loaded",
		zap.Int("count", len(boards)),
		zap.String("dir", cfg.Maps.Dir),
		zap.Duration("elapsed", time.Since(boardStart)),
	)

	cryptoSrc := dice.NewCryptoSource()
	roller := dice.NewLoggedRoller(cryptoSrc, logger)

	store := session.NewMemoryStore()
	bus := event.NewBus(logger)
	resolver := action.NewResolver(bus, roller, logger, cfg.Match.ActionsPerTurn)
	strategist := vp.NewStrategist(store, resolver, bus, cryptoSrc, logger, vp.Config{
		MinInitialDelay: cfg.Virtual.MinDelay,
		MaxInitialDelay: cfg.Virtual.MaxDelay,
		StepDelay:       cfg.Virtual.StepDelay,
	})
	svc := matchserver.NewService(cfg.Match, store, bus, resolver, strategist, roller, boards, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("matchserver", svc)

	logger.Info("match server starting",
		zap.Duration("startup", time.Since(start)),
	)
	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}
