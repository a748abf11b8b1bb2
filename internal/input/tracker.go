package input

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/weapon"
)

// mouseScale converts raw mouse counts into look units.
const mouseScale = 0.01

// Raw is the level state of every control at one instant.
type Raw struct {
	Move       mgl64.Vec2
	Look       mgl64.Vec2 // raw mouse delta
	Jump       bool
	Crouch     bool
	Sprint     bool
	Fire       bool
	Aim        bool
	Reload     bool
	SelectSlot int
	Scroll     int
}

// Settings tune how raw look input is scaled.
type Settings struct {
	LookSensitivity float64 `yaml:"look_sensitivity"`
	InvertX         bool    `yaml:"invert_x"`
	InvertY         bool    `yaml:"invert_y"`
}

// DefaultSettings returns sensitivity 1 with no inversion.
func DefaultSettings() Settings {
	return Settings{LookSensitivity: 1}
}

// Tracker derives press and release edges from consecutive Raw samples.
// Not safe for concurrent use; one tracker belongs to one character.
type Tracker struct {
	settings Settings
	prev     Raw
}

// NewTracker creates a tracker with nothing held.
func NewTracker(settings Settings) *Tracker {
	return &Tracker{settings: settings}
}

// Next consumes one sample and returns the frame for this tick.
func (t *Tracker) Next(raw Raw) Frame {
	look := raw.Look.Mul(t.settings.LookSensitivity * mouseScale)
	if t.settings.InvertX {
		look[0] = -look[0]
	}
	if t.settings.InvertY {
		look[1] = -look[1]
	}

	f := Frame{
		Move:         raw.Move,
		Look:         look,
		Jump:         raw.Jump && !t.prev.Jump,
		CrouchToggle: raw.Crouch && !t.prev.Crouch,
		Sprint:       raw.Sprint,
		Fire: weapon.Trigger{
			Down: raw.Fire && !t.prev.Fire,
			Held: raw.Fire,
			Up:   !raw.Fire && t.prev.Fire,
		},
		Aim:    raw.Aim,
		Reload: raw.Reload && !t.prev.Reload,
	}
	if raw.SelectSlot != t.prev.SelectSlot {
		f.SelectSlot = raw.SelectSlot
	}
	if raw.Scroll != t.prev.Scroll {
		f.Scroll = raw.Scroll
	}

	t.prev = raw
	return f.Normalized()
}

// Reset forgets held state, as if every control was released.
func (t *Tracker) Reset() {
	t.prev = Raw{}
}
