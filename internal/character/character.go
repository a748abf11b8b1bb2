// Package character composes locomotion, weapons and health into one
// first-person character advanced by a single Tick.
package character

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/ids"
	"github.com/udisondev/fpsim/internal/input"
	"github.com/udisondev/fpsim/internal/loadout"
	"github.com/udisondev/fpsim/internal/locomotion"
	"github.com/udisondev/fpsim/internal/physics"
	"github.com/udisondev/fpsim/internal/weapon"
)

// Options configure a new Character. Zero collaborators degrade to no-ops:
// no physics means empty space, no Health means no damage and no death.
type Options struct {
	Name       string
	Locomotion locomotion.Config
	Loadout    loadout.Config

	// Self is the character's own collider; zero uses the character id.
	Self physics.ColliderID

	Physics physics.Collider
	Health  Health
	Spawner weapon.Spawner
	Events  *event.Hub
	IDs     *ids.Generator
	Seed    uint64

	Position mgl64.Vec3
	Yaw      float64

	// StartingWeapons are added in order at spawn; the first one is raised.
	StartingWeapons []*weapon.Definition
}

// Snapshot is the character state after a tick.
type Snapshot struct {
	Locomotion locomotion.State
	Pose       loadout.Pose
	Switch     loadout.SwitchState
	Weapon     *weapon.Instance
	Aiming     bool
}

// Character is one simulated first-person actor.
// Not safe for concurrent use: one goroutine drives Tick.
type Character struct {
	id     uint32
	name   string
	events *event.Hub
	health Health

	loc *locomotion.Controller
	lo  *loadout.Loadout

	now  float64
	dead bool
}

// New wires the components of a character and equips its starting weapons.
func New(opts Options) *Character {
	gen := opts.IDs
	if gen == nil {
		gen = ids.Global()
	}
	hub := opts.Events
	if hub == nil {
		hub = event.NewHub()
	}

	c := &Character{
		id:     gen.NextCharacterID(),
		name:   opts.Name,
		events: hub,
		health: opts.Health,
	}
	c.lo = loadout.New(opts.Loadout, c.id, gen, opts.Seed, hub, opts.Spawner)

	self := opts.Self
	if self == 0 {
		self = physics.ColliderID(c.id)
	}
	deps := locomotion.Deps{
		Physics: opts.Physics,
		Events:  hub,
		Aiming:  c.lo.Aiming,
		Self:    self,
	}
	if opts.Health != nil {
		deps.Health = opts.Health
		opts.Health.OnDeath(c.die)
	}
	c.loc = locomotion.NewController(opts.Locomotion, deps, opts.Position, opts.Yaw)

	for _, def := range opts.StartingWeapons {
		if _, _, ok := c.lo.AddWeapon(0, def); !ok {
			slog.Warn("starting weapon rejected", "character", c.id, "weapon", def.ID)
		}
	}
	return c
}

// ID returns the character object id.
func (c *Character) ID() uint32 { return c.id }

// Name returns the display name.
func (c *Character) Name() string { return c.name }

// Events returns the hub every component of the character publishes to.
func (c *Character) Events() *event.Hub { return c.events }

// Health returns the damage collaborator, or nil.
func (c *Character) Health() Health { return c.health }

// Locomotion returns the movement controller.
func (c *Character) Locomotion() *locomotion.Controller { return c.loc }

// Loadout returns the weapon loadout.
func (c *Character) Loadout() *loadout.Loadout { return c.lo }

// Dead reports whether the death notification has been handled.
func (c *Character) Dead() bool { return c.dead }

// AddWeapon gives the character a weapon at simulation time now.
func (c *Character) AddWeapon(now float64, def *weapon.Definition) (*weapon.Instance, int, bool) {
	return c.lo.AddWeapon(now, def)
}

// RemoveWeapon takes w away at simulation time now.
func (c *Character) RemoveWeapon(now float64, w *weapon.Instance) bool {
	return c.lo.RemoveWeapon(now, w)
}

// Tick advances the character by dt seconds ending at now.
//
// Order: locomotion, then weapon input (firing, reloading, switching), then
// pose blending. Every component sees the same now.
func (c *Character) Tick(now, dt float64, f input.Frame) Snapshot {
	c.now = now

	st := c.loc.Tick(now, dt, f)

	eye := c.loc.CameraPosition()
	c.lo.Update(now, dt, f, weapon.Aim{Origin: eye, Direction: c.loc.LookDirection()})

	cfg := c.loc.Config()
	body := loadout.Body{
		Position: st.Position,
		Grounded: st.Grounded,
		MaxSpeed: cfg.MaxSpeedOnGround * cfg.SprintSpeedModifier,
	}
	pose := c.lo.UpdatePose(now, dt, body, eye, st.Yaw)

	return Snapshot{
		Locomotion: st,
		Pose:       pose,
		Switch:     c.lo.Sequencer().State(),
		Weapon:     c.lo.Active(),
		Aiming:     c.lo.Aiming(),
	}
}

// die runs on the health collaborator's death notification.
func (c *Character) die() {
	if c.dead {
		return
	}
	c.dead = true
	c.loc.HandleDeath()
	c.lo.HandleDeath(c.now)

	st := c.loc.State()
	slog.Debug("character died", "character", c.id, "name", c.name, "killplane", st.KilledByPlane)
	c.events.Died.Publish(event.Died{Position: st.Position, KillPlane: st.KilledByPlane})
}
