package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/my3d/internal/config"
)

const dropScene = `
name: drop
environment:
  - name: floor
    shape: {type: quad, half: 2}
bodies:
  - name: crate
    shape: {type: box, half_extents: [0.25, 0.25, 0.25]}
    position: [0, 1, 0]
`

func writeScene(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Simulation.Steps = 120
	cfg.Simulation.Parallel = 2
	cfg.Simulation.Trace = filepath.Join(dir, "traces")
	cfg.Simulation.Scenes = []string{
		writeScene(t, dir, "a.yaml", dropScene),
		writeScene(t, dir, "b.yaml", dropScene),
	}

	summaries, err := runAll(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	for _, s := range summaries {
		assert.Equal(t, "drop", s.Scene)
		assert.Equal(t, 120, s.Steps)
		assert.Positive(t, s.Contacts, "crate should reach the floor within two seconds")
		assert.NotEmpty(t, s.Trace)
		require.Len(t, s.Bodies, 1)
		y := s.Bodies[0].Position.Y
		assert.GreaterOrEqual(t, y, float32(0.24))
		assert.Less(t, y, float32(1))
	}

	traces, err := os.ReadDir(cfg.Simulation.Trace)
	require.NoError(t, err)
	assert.Len(t, traces, 2)
}

func TestRunAllReportsBadScene(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Simulation.Steps = 10
	cfg.Simulation.Scenes = []string{
		writeScene(t, dir, "good.yaml", dropScene),
		writeScene(t, dir, "bad.yaml", "bodies: [{name: x, shape: {type: cone}}]"),
	}

	_, err := runAll(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestRunSceneStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Simulation.Steps = 1000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runScene(ctx, writeScene(t, dir, "a.yaml", dropScene), cfg, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
