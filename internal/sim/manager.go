package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Manager advances every registered driver on a fixed step. All drivers see
// the same simulation clock within a tick.
type Manager struct {
	drivers     sync.Map // map[uint32]*Driver, character id → driver
	driverCount atomic.Int32

	interval time.Duration
	dt       float64
	duration float64 // simulation seconds, 0 is unbounded

	ticks    atomic.Uint64
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewManager creates a manager ticking every interval. A positive duration
// ends Start once that much simulation time has elapsed.
func NewManager(interval, duration time.Duration) *Manager {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Manager{
		interval: interval,
		dt:       interval.Seconds(),
		duration: duration.Seconds(),
		stopCh:   make(chan struct{}),
	}
}

// Register adds a driver. Registering the same character twice replaces it.
func (m *Manager) Register(d *Driver) {
	if _, loaded := m.drivers.Swap(d.ID(), d); !loaded {
		m.driverCount.Add(1)
	}
	slog.Debug("driver registered", "character", d.ID())
}

// Unregister removes the driver of a character.
func (m *Manager) Unregister(id uint32) {
	if _, ok := m.drivers.LoadAndDelete(id); !ok {
		return
	}
	m.driverCount.Add(-1)
	slog.Debug("driver unregistered", "character", id)
}

// Count returns the number of registered drivers.
func (m *Manager) Count() int {
	return int(m.driverCount.Load())
}

// Driver returns the driver of a character.
func (m *Manager) Driver(id uint32) (*Driver, error) {
	value, ok := m.drivers.Load(id)
	if !ok {
		return nil, fmt.Errorf("driver not found for character %d", id)
	}
	return value.(*Driver), nil
}

// Ticks returns the number of completed ticks.
func (m *Manager) Ticks() uint64 {
	return m.ticks.Load()
}

// Now returns the simulation time of the last completed tick.
func (m *Manager) Now() float64 {
	return float64(m.ticks.Load()) * m.dt
}

// Dt returns the fixed step in seconds.
func (m *Manager) Dt() float64 { return m.dt }

// Start runs the tick loop until ctx is canceled, Stop is called or the
// configured duration elapses. Only the context ending returns an error.
func (m *Manager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("simulation started", "interval", m.interval, "drivers", m.Count())

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "ticks", m.Ticks())
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("simulation stopped", "ticks", m.Ticks())
			return nil

		case <-ticker.C:
			m.Advance()
			if m.duration > 0 && m.Now() >= m.duration {
				slog.Info("simulation finished", "ticks", m.Ticks(), "seconds", m.Now())
				return nil
			}
		}
	}
}

// Stop ends the tick loop. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Advance runs one tick synchronously and returns the new simulation time.
func (m *Manager) Advance() float64 {
	now := float64(m.ticks.Load()+1) * m.dt

	count := 0
	m.drivers.Range(func(_, value any) bool {
		value.(*Driver).Step(now, m.dt)
		count++
		return true
	})
	m.ticks.Add(1)

	if count > 0 && IsDebugEnabled() {
		slog.Debug("simulation tick completed", "drivers", count, "now", now)
	}
	return now
}
