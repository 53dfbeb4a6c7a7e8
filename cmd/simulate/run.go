package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/my3d/internal/config"
	"github.com/Faultbox/my3d/internal/scene"
	"github.com/Faultbox/my3d/internal/trace"
	"github.com/Faultbox/my3d/pkg/math"
)

type bodySummary struct {
	Name     string
	Position math.Vec3
	Velocity math.Vec3
	Grounded bool
	AirTime  float32
}

type summary struct {
	Scene    string
	Steps    int
	Contacts int
	Trace    string
	Elapsed  time.Duration
	Bodies   []bodySummary
}

func (s summary) log(l *zap.Logger) {
	l.Info("scene finished",
		zap.String("scene", s.Scene),
		zap.Int("steps", s.Steps),
		zap.Int("contacts", s.Contacts),
		zap.String("trace", s.Trace),
		zap.Duration("elapsed", s.Elapsed))
	for _, b := range s.Bodies {
		l.Info("body",
			zap.String("scene", s.Scene),
			zap.String("body", b.Name),
			zap.Stringer("position", b.Position),
			zap.Stringer("velocity", b.Velocity),
			zap.Bool("grounded", b.Grounded),
			zap.Float32("air", b.AirTime))
	}
}

// runAll runs every scene with at most cfg.Simulation.Parallel at once.
// Summaries keep the order of cfg.Simulation.Scenes; scenes that failed
// are left zero.
func runAll(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]summary, error) {
	scenes := cfg.Simulation.Scenes
	out := make([]summary, len(scenes))

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Simulation.Parallel > 0 {
		g.SetLimit(cfg.Simulation.Parallel)
	}
	for i, path := range scenes {
		g.Go(func() error {
			s, err := runScene(ctx, path, cfg, log)
			if err != nil {
				return fmt.Errorf("scene %s: %w", path, err)
			}
			out[i] = s
			return nil
		})
	}
	err := g.Wait()

	done := out[:0]
	for _, s := range out {
		if s.Scene != "" {
			done = append(done, s)
		}
	}
	return done, err
}

func runScene(ctx context.Context, path string, cfg *config.Config, log *zap.Logger) (summary, error) {
	opts := scene.Options{
		Octree:  cfg.Octree,
		Physics: cfg.Physics.Params(),
		Body:    cfg.Body,
	}
	sc, err := scene.Load(path, opts, log)
	if err != nil {
		return summary{}, err
	}

	var rec *trace.Recorder
	if cfg.Simulation.Trace != "" {
		if rec, err = trace.Create(cfg.Simulation.Trace, path); err != nil {
			return summary{}, err
		}
		defer func() {
			if rec != nil {
				_ = rec.Close()
			}
		}()
		log.Info("tracing", zap.String("scene", sc.Name()), zap.Stringer("run", rec.Run()))
	}

	res := summary{Scene: sc.Name()}
	dt := cfg.Simulation.TimeStep
	start := time.Now()
	for step := 0; step < cfg.Simulation.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return summary{}, err
		}
		reports := sc.Advance(dt)
		for _, r := range reports {
			res.Contacts += r.Contacts
		}
		if rec != nil {
			if err := rec.Record(step, float32(step+1)*dt, sc.World(), reports); err != nil {
				return summary{}, err
			}
		}
	}
	res.Steps = sc.StepCount()
	res.Elapsed = time.Since(start)
	if rec != nil {
		res.Trace = rec.Run().String()
		err := rec.Close()
		rec = nil
		if err != nil {
			return summary{}, err
		}
	}

	for _, b := range sc.World().Bodies() {
		res.Bodies = append(res.Bodies, bodySummary{
			Name:     b.Name(),
			Position: b.Position(),
			Velocity: b.Velocity(),
			Grounded: b.Grounded(),
			AirTime:  b.AirTime(),
		})
	}
	return res, nil
}
