// Package locomotion moves a first-person character capsule through a physics
// world: ground detection, slope-aware velocity, crouch, jump and fall damage.
package locomotion

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/input"
	"github.com/udisondev/fpsim/internal/physics"
	"github.com/udisondev/fpsim/internal/vecmath"
)

// minMove is the motion length below which a slide step is skipped.
const minMove = 1e-7

// DamageSourceFall is the source passed to Health.TakeDamage for landings.
const DamageSourceFall = "fall"

// Health is the damage collaborator. A nil Health takes no damage and never dies.
type Health interface {
	TakeDamage(amount float64, source string)
	Kill()
}

// Deps are the collaborators of a Controller. Every field may be nil.
type Deps struct {
	Physics physics.Collider
	Health  Health
	Events  *event.Hub
	// Aiming reports whether the weapon is aimed; look speed is reduced while it is.
	Aiming func() bool
	// Self is the character's own collider; overlap results equal to it are ignored.
	Self physics.ColliderID
}

// State is the locomotion state after a tick.
type State struct {
	Position     mgl64.Vec3 // feet
	Velocity     mgl64.Vec3
	Grounded     bool
	GroundNormal mgl64.Vec3
	LastJump     float64 // simulation seconds, -Inf before the first jump
	LastImpact   mgl64.Vec3

	Height       float64
	TargetHeight float64
	CameraHeight float64    // camera offset above the feet
	AimPoint     mgl64.Vec3 // local, capsule center

	Yaw   float64 // degrees, 0 faces +Z
	Pitch float64 // degrees, positive looks down

	Crouching      bool
	Sprinting      bool
	Dead           bool
	JumpedThisTick bool
	KilledByPlane  bool
}

// Controller owns the locomotion state of one character.
// Not safe for concurrent use; it is driven from the character's tick.
type Controller struct {
	cfg   Config
	deps  Deps
	probe GroundProbe
	state State

	footstepDistance float64
	killRequested    bool
}

// NewController spawns a standing character at pos facing yawDeg.
func NewController(cfg Config, deps Deps, pos mgl64.Vec3, yawDeg float64) *Controller {
	if deps.Physics == nil {
		deps.Physics = physics.NewStaticWorld()
	}
	c := &Controller{
		cfg:   cfg,
		deps:  deps,
		probe: NewGroundProbe(deps.Physics, cfg.SlopeLimit),
		state: State{
			Position:     pos,
			GroundNormal: vecmath.Up,
			LastJump:     math.Inf(-1),
			TargetHeight: cfg.CapsuleHeightStanding,
			Yaw:          yawDeg,
		},
	}
	c.updateHeight(0, true)
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// Config returns the tuning the controller runs with.
func (c *Controller) Config() Config { return c.cfg }

// Capsule returns the current collision capsule.
func (c *Controller) Capsule() physics.Capsule {
	return physics.CapsuleAt(c.state.Position, c.state.Height, c.cfg.CapsuleRadius)
}

// CameraPosition returns the world position of the eyes.
func (c *Controller) CameraPosition() mgl64.Vec3 {
	return c.state.Position.Add(vecmath.Up.Mul(c.state.CameraHeight))
}

// LookDirection returns the unit camera forward vector.
func (c *Controller) LookDirection() mgl64.Vec3 {
	return vecmath.LookDirection(c.state.Yaw, c.state.Pitch)
}

// HandleDeath stops the character from acting on input. Gravity still applies.
func (c *Controller) HandleDeath() {
	c.state.Dead = true
	c.state.Sprinting = false
}

// Tick advances the character by dt seconds ending at now.
//
// Order: kill plane, ground check, landing, crouch toggle, height blend,
// movement with obstruction sliding. A death during the first three steps
// discards the rest of the tick's input.
func (c *Controller) Tick(now, dt float64, f input.Frame) State {
	if dt < 0 {
		dt = 0
	}
	c.state.JumpedThisTick = false
	if c.state.Dead {
		f = input.Frame{}
	}
	f = f.Normalized()

	c.checkKillPlane()

	wasGrounded := c.state.Grounded
	c.groundCheck(now)
	if c.state.Grounded && !wasGrounded {
		c.land()
	}
	// The kill plane or a lethal landing may have killed us this tick.
	if c.state.Dead {
		f = input.Frame{}
	}

	if f.CrouchToggle {
		c.SetCrouching(!c.state.Crouching, false)
	}
	c.updateHeight(dt, false)
	c.move(now, dt, f)

	return c.state
}

// SetCrouching changes the target height.
// Standing up is refused (returns false, state unchanged) when the standing
// capsule would overlap anything but the character itself, unless
// ignoreObstructions is set.
func (c *Controller) SetCrouching(crouched, ignoreObstructions bool) bool {
	if crouched {
		c.state.TargetHeight = c.cfg.CapsuleHeightCrouching
	} else {
		if !ignoreObstructions && c.standingBlocked() {
			return false
		}
		c.state.TargetHeight = c.cfg.CapsuleHeightStanding
	}

	if c.state.Crouching != crouched {
		c.state.Crouching = crouched
		if c.deps.Events != nil {
			c.deps.Events.StanceChanged.Publish(event.StanceChanged{Crouching: crouched})
		}
	}
	return true
}

func (c *Controller) standingBlocked() bool {
	standing := physics.CapsuleAt(c.state.Position, c.cfg.CapsuleHeightStanding, c.cfg.CapsuleRadius)
	for _, id := range c.deps.Physics.OverlapCapsule(standing) {
		if id != c.deps.Self {
			return true
		}
	}
	return false
}

func (c *Controller) checkKillPlane() {
	if c.state.Dead || c.killRequested || c.state.Position.Y() >= c.cfg.KillHeight {
		return
	}
	c.killRequested = true
	c.state.KilledByPlane = true
	slog.Debug("character below kill height", "y", c.state.Position.Y(), "kill_height", c.cfg.KillHeight)
	if c.deps.Health != nil {
		c.deps.Health.Kill()
	}
}

func (c *Controller) groundCheck(now float64) {
	distance := c.cfg.GroundCheckDistanceInAir
	if c.state.Grounded {
		distance = c.cfg.SkinWidth + c.cfg.GroundCheckDistance
	}

	c.state.Grounded = false
	c.state.GroundNormal = vecmath.Up

	// Right after a jump the capsule is still within probe range of the ground.
	if now < c.state.LastJump+c.cfg.JumpGroundingPreventionTime {
		return
	}

	res := c.probe.Probe(c.Capsule(), distance)
	if !res.Grounded {
		return
	}
	c.state.Grounded = true
	c.state.GroundNormal = res.Normal
	if res.Distance > c.cfg.SkinWidth {
		c.state.Position = c.state.Position.Add(down.Mul(res.Distance - c.cfg.SkinWidth))
	}
}

func (c *Controller) land() {
	fallSpeed := -math.Min(c.state.Velocity.Y(), c.state.LastImpact.Y())
	pos := c.state.Position

	if damage, ok := c.cfg.FallDamage(fallSpeed); ok {
		slog.Debug("fall damage", "speed", fallSpeed, "damage", damage)
		if c.deps.Health != nil {
			c.deps.Health.TakeDamage(damage, DamageSourceFall)
		}
		if c.deps.Events != nil {
			c.deps.Events.FallDamaged.Publish(event.FallDamaged{Position: pos, FallSpeed: fallSpeed, Damage: damage})
		}
		return
	}

	if c.deps.Events != nil {
		c.deps.Events.Landed.Publish(event.Landed{Position: pos, FallSpeed: fallSpeed})
	}
}

// updateHeight blends height and camera toward the target. force snaps.
func (c *Controller) updateHeight(dt float64, force bool) {
	t := 1.0
	if !force {
		t = c.cfg.CrouchingSharpness * dt
	}
	c.state.Height = vecmath.Lerp(c.state.Height, c.state.TargetHeight, t)
	c.state.CameraHeight = vecmath.Lerp(c.state.CameraHeight, c.state.TargetHeight*c.cfg.CameraHeightRatio, t)
	c.state.AimPoint = mgl64.Vec3{0, c.state.Height * 0.5, 0}
}

func (c *Controller) move(now, dt float64, f input.Frame) {
	c.look(f.Look)

	sprinting := f.Sprint
	if sprinting {
		sprinting = c.SetCrouching(false, false)
	}
	c.state.Sprinting = sprinting

	speedModifier := 1.0
	if sprinting {
		speedModifier = c.cfg.SprintSpeedModifier
	}

	worldMove := vecmath.YawRotate(mgl64.Vec3{f.Move.X(), 0, f.Move.Y()}, c.state.Yaw)

	if c.state.Grounded {
		target := worldMove.Mul(c.cfg.MaxSpeedOnGround * speedModifier)
		if c.state.Crouching {
			target = target.Mul(c.cfg.MaxSpeedCrouchedRatio)
		}
		speed := target.Len()
		target = vecmath.ReorientOnSlope(vecmath.SafeNormalize(target), c.state.GroundNormal).Mul(speed)
		c.state.Velocity = vecmath.LerpVec3(c.state.Velocity, target, c.cfg.MovementSharpnessOnGround*dt)

		if f.Jump && c.SetCrouching(false, false) {
			c.jump(now)
		}
		c.footsteps(dt, sprinting)
	} else {
		vel := c.state.Velocity.Add(worldMove.Mul(c.cfg.AccelerationSpeedInAir * dt))
		horizontal := vecmath.ClampMagnitude(vecmath.Horizontal(vel), c.cfg.MaxSpeedInAir*speedModifier)
		c.state.Velocity = horizontal.Add(vecmath.Up.Mul(vel.Y() - c.cfg.Gravity*dt))
	}

	c.slide(dt)
}

func (c *Controller) look(delta mgl64.Vec2) {
	multiplier := 1.0
	if c.deps.Aiming != nil && c.deps.Aiming() {
		multiplier = c.cfg.AimingRotationMultiplier
	}
	c.state.Yaw = math.Mod(c.state.Yaw+delta.X()*c.cfg.RotationSpeed*multiplier, 360)
	c.state.Pitch = mgl64.Clamp(c.state.Pitch+delta.Y()*c.cfg.RotationSpeed*multiplier, -c.cfg.MaxPitch, c.cfg.MaxPitch)
}

func (c *Controller) jump(now float64) {
	v := c.state.Velocity
	c.state.Velocity = mgl64.Vec3{v.X(), c.cfg.JumpForce, v.Z()}
	c.state.LastJump = now
	c.state.JumpedThisTick = true
	c.state.Grounded = false
	c.state.GroundNormal = vecmath.Up

	if c.deps.Events != nil {
		c.deps.Events.Jumped.Publish(event.Jumped{Position: c.state.Position})
	}
}

func (c *Controller) footsteps(dt float64, sprinting bool) {
	frequency := c.cfg.FootstepFrequency
	if sprinting {
		frequency = c.cfg.FootstepFrequencyWhileSprinting
	}
	if c.footstepDistance >= 1/frequency {
		c.footstepDistance = 0
		if c.deps.Events != nil {
			c.deps.Events.Footstep.Publish(event.Footstep{Position: c.state.Position, Sprinting: sprinting})
		}
	}
	c.footstepDistance += c.state.Velocity.Len() * dt
}

// slide moves the capsule along the velocity. On contact it stops a skin width
// short, records the pre-collision velocity as the impact, and continues with
// velocity and remaining motion projected onto the obstruction plane.
func (c *Controller) slide(dt float64) {
	c.state.LastImpact = mgl64.Vec3{}
	impacted := false
	motion := c.state.Velocity.Mul(dt)

	for range c.cfg.MaxSlideIterations {
		dist := motion.Len()
		if dist < minMove {
			return
		}
		dir := motion.Mul(1 / dist)

		hit, ok := c.deps.Physics.SweepCapsule(c.Capsule(), dir, dist)
		if !ok {
			c.state.Position = c.state.Position.Add(motion)
			return
		}

		advance := math.Max(hit.Distance-c.cfg.SkinWidth, 0)
		c.state.Position = c.state.Position.Add(dir.Mul(advance))
		if !impacted {
			c.state.LastImpact = c.state.Velocity
			impacted = true
		}
		c.state.Velocity = vecmath.ProjectOnPlane(c.state.Velocity, hit.Normal)
		motion = vecmath.ProjectOnPlane(motion.Sub(dir.Mul(advance)), hit.Normal)
	}
}
