// Package main is the headless simulation runner. It steps every scene
// named in the config or on the command line and logs the final state of
// each body.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/my3d/internal/config"
	"github.com/Faultbox/my3d/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	cfg.Simulation.Scenes = append(cfg.Simulation.Scenes, config.Args()...)

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(cfg.Simulation.Scenes) == 0 {
		logger.Log.Error("no scenes given; pass -scene or list scene files as arguments")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, err := runAll(ctx, cfg, logger.Named("simulate"))
	for _, s := range summaries {
		s.log(logger.Log)
	}
	if err != nil {
		logger.Log.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}
