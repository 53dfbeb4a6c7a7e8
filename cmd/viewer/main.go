// Package main is the interactive viewer: it loads one scene, steps it in
// real time and draws debug wireframes over SDL2 + OpenGL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/my3d/internal/config"
	"github.com/Faultbox/my3d/internal/input"
	"github.com/Faultbox/my3d/internal/input/sdlinput"
	"github.com/Faultbox/my3d/internal/logger"
	"github.com/Faultbox/my3d/internal/render"
	"github.com/Faultbox/my3d/internal/scene"
	"github.com/Faultbox/my3d/internal/window"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Log.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	scenes := append(cfg.Simulation.Scenes, config.Args()...)
	if len(scenes) == 0 {
		return errors.New("no scene given; pass -scene or a scene file")
	}

	sc, err := scene.Load(scenes[0], scene.Options{
		Octree:  cfg.Octree,
		Physics: cfg.Physics.Params(),
		Body:    cfg.Body,
	}, logger.Named("scene"))
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:  "my3d - " + sc.Name(),
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		VSync:  cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return err
	}
	defer win.Close()

	if err := render.Init(); err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}
	lines, err := render.NewLineRenderer()
	if err != nil {
		return fmt.Errorf("building line renderer: %w", err)
	}
	defer lines.Close()

	var keys input.KeyState
	queue := input.NewQueue(input.DefaultQueueSize)
	poller := input.NewPoller(sdlinput.NewSource(nil), &keys, queue, input.DefaultPollInterval, logger.Named("input"))

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(ctx) })

	v := newViewer(cfg, sc, win, lines, queue, logger.Named("viewer"))
	v.loop(ctx)

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if d := queue.Dropped(); d > 0 {
		logger.Log.Warn("input commands dropped", zap.Uint64("count", d))
	}

	if g := v.graphics(); g != cfg.Graphics {
		path := config.SavePath()
		if err := config.SaveGraphics(path, g); err != nil {
			logger.Log.Warn("saving graphics settings failed", zap.String("path", path), zap.Error(err))
		} else {
			logger.Log.Info("graphics settings saved", zap.String("path", path))
		}
	}
	return nil
}
