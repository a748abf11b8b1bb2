// Package sim advances characters on a fixed simulation step.
package sim

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/udisondev/fpsim/internal/character"
	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/input"
)

// Stats are running totals of what a driven character did.
type Stats struct {
	Ticks     uint64
	Shots     uint64
	Reloads   uint64
	Jumps     uint64
	Footsteps uint64
	Switches  uint64
	Deaths    uint64
}

// Driver feeds one character from its input source.
// Step must be called from a single goroutine; Stats and Snapshot may be read
// from any goroutine.
type Driver struct {
	char   *character.Character
	source Source

	ticks     atomic.Uint64
	shots     atomic.Uint64
	reloads   atomic.Uint64
	jumps     atomic.Uint64
	footsteps atomic.Uint64
	switches  atomic.Uint64
	deaths    atomic.Uint64

	mu   sync.RWMutex
	last character.Snapshot
}

// NewDriver attaches a driver to c. A nil source leaves the character idle.
func NewDriver(c *character.Character, source Source) *Driver {
	d := &Driver{char: c, source: source}

	hub := c.Events()
	hub.ShotFired.Subscribe(func(event.ShotFired) { d.shots.Add(1) })
	hub.Reloaded.Subscribe(func(event.Reloaded) { d.reloads.Add(1) })
	hub.Jumped.Subscribe(func(event.Jumped) { d.jumps.Add(1) })
	hub.Footstep.Subscribe(func(event.Footstep) { d.footsteps.Add(1) })
	hub.WeaponSwitched.Subscribe(func(event.WeaponSwitched) { d.switches.Add(1) })
	hub.Died.Subscribe(func(event.Died) { d.deaths.Add(1) })
	return d
}

// ID returns the driven character's id.
func (d *Driver) ID() uint32 { return d.char.ID() }

// Character returns the driven character.
func (d *Driver) Character() *character.Character { return d.char }

// Step advances the character by dt seconds ending at now.
func (d *Driver) Step(now, dt float64) character.Snapshot {
	var snap character.Snapshot
	if d.source != nil {
		snap = d.char.Tick(now, dt, d.source.Next(now))
	} else {
		snap = d.char.Tick(now, dt, input.Frame{})
	}
	d.ticks.Add(1)

	d.mu.Lock()
	d.last = snap
	d.mu.Unlock()

	if IsDebugEnabled() {
		p := snap.Locomotion.Position
		slog.Debug("character tick",
			"character", d.char.ID(),
			"now", now,
			"x", p.X(), "y", p.Y(), "z", p.Z(),
			"grounded", snap.Locomotion.Grounded,
			"switch", snap.Switch.String())
	}
	return snap
}

// Snapshot returns the state after the last Step.
func (d *Driver) Snapshot() character.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last
}

// Stats returns the running totals.
func (d *Driver) Stats() Stats {
	return Stats{
		Ticks:     d.ticks.Load(),
		Shots:     d.shots.Load(),
		Reloads:   d.reloads.Load(),
		Jumps:     d.jumps.Load(),
		Footsteps: d.footsteps.Load(),
		Switches:  d.switches.Load(),
		Deaths:    d.deaths.Load(),
	}
}
