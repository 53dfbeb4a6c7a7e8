package input

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the poller samples keys.
const DefaultPollInterval = 5 * time.Millisecond

// KeySource refreshes a KeyState from a backend.
type KeySource interface {
	Poll(state *KeyState)
}

// KeySourceFunc adapts a function to KeySource.
type KeySourceFunc func(state *KeyState)

// Poll calls f(state).
func (f KeySourceFunc) Poll(state *KeyState) { f(state) }

// Poller samples a KeySource at a fixed interval on its own goroutine and
// pushes one command per held key per tick. Actions other than movement
// are pushed on the press edge only.
type Poller struct {
	source   KeySource
	state    *KeyState
	queue    *Queue
	interval time.Duration
	log      *zap.Logger
}

// NewPoller creates a poller. A zero interval uses DefaultPollInterval and a
// nil logger disables logging.
func NewPoller(source KeySource, state *KeyState, queue *Queue, interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{source: source, state: state, queue: queue, interval: interval, log: log}
}

// Run polls until ctx is cancelled and returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Debug("input poller started", zap.Duration("interval", p.interval))
	var prev uint64
	for {
		select {
		case <-ctx.Done():
			p.log.Debug("input poller stopped", zap.Uint64("dropped", p.queue.Dropped()))
			return ctx.Err()
		case <-ticker.C:
			prev = p.Tick(prev)
		}
	}
}

// Tick performs one poll and returns the key bits it saw. prev is the
// result of the previous tick, used for edge detection.
func (p *Poller) Tick(prev uint64) uint64 {
	p.source.Poll(p.state)
	bits := p.state.Snapshot()
	for k := Key(0); k < KeyCount; k++ {
		mask := uint64(1) << uint(k)
		if bits&mask == 0 {
			continue
		}
		cmd, ok := CommandFor(k)
		if !ok {
			continue
		}
		if cmd.Action.EdgeOnly() && prev&mask != 0 {
			continue
		}
		if !p.queue.Push(cmd) {
			p.log.Debug("command dropped", zap.Stringer("key", k))
		}
	}
	return bits
}
