package input

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/my3d/internal/physics"
)

func TestKeyState(t *testing.T) {
	var s KeyState
	assert.False(t, s.Pressed(KeyBodyForward))

	s.Set(KeyBodyForward, true)
	s.Set(KeyExit, true)
	assert.True(t, s.Pressed(KeyBodyForward))
	assert.True(t, s.Pressed(KeyExit))
	assert.False(t, s.Pressed(KeyBodyBackward))

	s.Set(KeyBodyForward, false)
	assert.False(t, s.Pressed(KeyBodyForward))
	assert.Equal(t, uint64(1)<<uint(KeyExit), s.Snapshot())

	s.Set(KeyCount, true)
	assert.False(t, s.Pressed(KeyCount))

	s.Reset()
	assert.Zero(t, s.Snapshot())
}

func TestKeyStateConcurrentWriters(t *testing.T) {
	var s KeyState
	var g errgroup.Group
	for k := Key(0); k < KeyCount; k++ {
		g.Go(func() error {
			for i := 0; i < 1000; i++ {
				s.Set(k, i%2 == 0)
			}
			s.Set(k, true)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, uint64(1)<<uint(KeyCount)-1, s.Snapshot())
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Push(Command{Action: ActionMoveBody, Direction: physics.Forward}))
	assert.True(t, q.Push(Command{Action: ActionMoveBody, Direction: physics.Left}))
	assert.False(t, q.Push(Command{Action: ActionQuit}))
	assert.Equal(t, uint64(1), q.Dropped())
	assert.Equal(t, 2, q.Len())

	var got []physics.Direction
	n := q.Drain(func(c Command) { got = append(got, c.Direction) })
	assert.Equal(t, 2, n)
	assert.Equal(t, []physics.Direction{physics.Forward, physics.Left}, got)
	assert.Zero(t, q.Drain(func(Command) {}))
}

func TestCommandFor(t *testing.T) {
	c, ok := CommandFor(KeyBodyUp)
	require.True(t, ok)
	assert.Equal(t, Command{Action: ActionMoveBody, Direction: physics.Up}, c)

	c, ok = CommandFor(KeyCameraLeft)
	require.True(t, ok)
	assert.Equal(t, ActionMoveCamera, c.Action)

	_, ok = CommandFor(KeyCount)
	assert.False(t, ok)
}

func TestPollerTickEdges(t *testing.T) {
	var state KeyState
	held := []Key{KeyExit, KeyBodyRight}
	source := KeySourceFunc(func(s *KeyState) {
		for _, k := range held {
			s.Set(k, true)
		}
	})
	q := NewQueue(16)
	p := NewPoller(source, &state, q, 0, nil)

	prev := p.Tick(0)
	prev = p.Tick(prev)

	var actions []Action
	q.Drain(func(c Command) { actions = append(actions, c.Action) })
	// Quit fires once, movement repeats every tick.
	assert.Equal(t, []Action{ActionQuit, ActionMoveBody, ActionMoveBody}, actions)
	assert.NotZero(t, prev)
}

func TestEdgeOnlyActions(t *testing.T) {
	assert.False(t, ActionMoveBody.EdgeOnly())
	assert.False(t, ActionMoveCamera.EdgeOnly())
	for _, a := range []Action{ActionQuit, ActionToggleCursor, ActionScreenshot, ActionToggleOverlay} {
		assert.True(t, a.EdgeOnly(), "action %d", a)
	}
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	var polls atomic.Int32
	source := KeySourceFunc(func(s *KeyState) {
		polls.Add(1)
		s.Set(KeyBodyForward, true)
	})
	var state KeyState
	q := NewQueue(1024)
	p := NewPoller(source, &state, q, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return polls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	assert.Positive(t, q.Len())
}
