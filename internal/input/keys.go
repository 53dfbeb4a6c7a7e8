// Package input turns key state sampled on a polling goroutine into
// commands the main loop applies before each physics step.
package input

import (
	"sync/atomic"

	"github.com/Faultbox/my3d/internal/physics"
)

// Key is a logical key, independent of the windowing backend.
type Key int

// Logical keys. The camera moves with the first group and the controlled
// body with the second.
const (
	KeyExit Key = iota
	KeyCursor
	KeyCameraForward
	KeyCameraBackward
	KeyCameraLeft
	KeyCameraRight
	KeyCameraUp
	KeyCameraDown
	KeyBodyForward
	KeyBodyBackward
	KeyBodyLeft
	KeyBodyRight
	KeyBodyUp
	KeyBodyDown
	KeyScreenshot
	KeyOverlay
	KeyCount
)

var keyNames = [KeyCount]string{
	"exit", "cursor",
	"camera_forward", "camera_backward", "camera_left", "camera_right", "camera_up", "camera_down",
	"body_forward", "body_backward", "body_left", "body_right", "body_up", "body_down",
	"screenshot", "overlay",
}

func (k Key) String() string {
	if k < 0 || k >= KeyCount {
		return "unknown"
	}
	return keyNames[k]
}

// KeyState is a lock-free bit-per-key set. The zero value has every key up.
type KeyState struct {
	bits atomic.Uint64
}

// Set marks k as held or released.
func (s *KeyState) Set(k Key, down bool) {
	if k < 0 || k >= KeyCount {
		return
	}
	mask := uint64(1) << uint(k)
	for {
		old := s.bits.Load()
		next := old &^ mask
		if down {
			next = old | mask
		}
		if next == old || s.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Pressed reports whether k is held.
func (s *KeyState) Pressed(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return s.bits.Load()&(uint64(1)<<uint(k)) != 0
}

// Snapshot returns the raw bits.
func (s *KeyState) Snapshot() uint64 {
	return s.bits.Load()
}

// Reset releases every key.
func (s *KeyState) Reset() {
	s.bits.Store(0)
}

// Action is what a command asks the main loop to do.
type Action int

// Command actions.
const (
	ActionMoveBody Action = iota
	ActionMoveCamera
	ActionQuit
	ActionToggleCursor
	ActionScreenshot
	ActionToggleOverlay
)

// EdgeOnly reports whether the action fires once per key press rather than
// on every poll while the key is held.
func (a Action) EdgeOnly() bool {
	return a != ActionMoveBody && a != ActionMoveCamera
}

// Command is one unit of work produced by the poller.
type Command struct {
	Action    Action
	Direction physics.Direction
}

var keyCommands = map[Key]Command{
	KeyExit:           {Action: ActionQuit},
	KeyCursor:         {Action: ActionToggleCursor},
	KeyCameraForward:  {Action: ActionMoveCamera, Direction: physics.Forward},
	KeyCameraBackward: {Action: ActionMoveCamera, Direction: physics.Backward},
	KeyCameraLeft:     {Action: ActionMoveCamera, Direction: physics.Left},
	KeyCameraRight:    {Action: ActionMoveCamera, Direction: physics.Right},
	KeyCameraUp:       {Action: ActionMoveCamera, Direction: physics.Up},
	KeyCameraDown:     {Action: ActionMoveCamera, Direction: physics.Down},
	KeyBodyForward:    {Action: ActionMoveBody, Direction: physics.Forward},
	KeyBodyBackward:   {Action: ActionMoveBody, Direction: physics.Backward},
	KeyBodyLeft:       {Action: ActionMoveBody, Direction: physics.Left},
	KeyBodyRight:      {Action: ActionMoveBody, Direction: physics.Right},
	KeyBodyUp:         {Action: ActionMoveBody, Direction: physics.Up},
	KeyBodyDown:       {Action: ActionMoveBody, Direction: physics.Down},
	KeyScreenshot:     {Action: ActionScreenshot},
	KeyOverlay:        {Action: ActionToggleOverlay},
}

// CommandFor returns the command a held key produces.
func CommandFor(k Key) (Command, bool) {
	c, ok := keyCommands[k]
	return c, ok
}
