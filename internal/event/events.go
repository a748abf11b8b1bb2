package event

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/weapon"
)

// WeaponSwitched is published when a slot becomes the active one.
// Weapon is nil when the new slot is empty (for example, lowering on death).
type WeaponSwitched struct {
	Weapon *weapon.Instance
	Slot   int
}

// WeaponAdded is published when an instance lands in an inventory slot.
type WeaponAdded struct {
	Weapon *weapon.Instance
	Slot   int
}

// WeaponRemoved is published when an instance leaves its inventory slot.
type WeaponRemoved struct {
	Weapon *weapon.Instance
	Slot   int
}

// StanceChanged is published when the crouch state flips.
type StanceChanged struct {
	Crouching bool
}

// ShotFired is published once per trigger pull that fired.
type ShotFired struct {
	Weapon      *weapon.Instance
	Projectiles int
	Charge      float64
	Origin      mgl64.Vec3
	Direction   mgl64.Vec3
}

// Reloaded is published when ammo moved from reserve into the charger.
type Reloaded struct {
	Weapon *weapon.Instance
	Amount float64
}

// Died is published once when the character dies.
type Died struct {
	Position mgl64.Vec3
	// KillPlane is true when death came from falling below the kill height.
	KillPlane bool
}

// Jumped is published on the tick a jump starts.
type Jumped struct {
	Position mgl64.Vec3
}

// Landed is published when ground is re-acquired without fall damage.
type Landed struct {
	Position  mgl64.Vec3
	FallSpeed float64
}

// FallDamaged is published when a landing deals damage.
type FallDamaged struct {
	Position  mgl64.Vec3
	FallSpeed float64
	Damage    float64
}

// Footstep is published each time the grounded stride distance is covered.
type Footstep struct {
	Position  mgl64.Vec3
	Sprinting bool
}

// Hub groups every output event stream of one character.
type Hub struct {
	WeaponSwitched *Bus[WeaponSwitched]
	WeaponAdded    *Bus[WeaponAdded]
	WeaponRemoved  *Bus[WeaponRemoved]
	StanceChanged  *Bus[StanceChanged]
	ShotFired      *Bus[ShotFired]
	Reloaded       *Bus[Reloaded]
	Died           *Bus[Died]
	Jumped         *Bus[Jumped]
	Landed         *Bus[Landed]
	FallDamaged    *Bus[FallDamaged]
	Footstep       *Bus[Footstep]
}

// NewHub creates a hub with empty buses.
func NewHub() *Hub {
	return &Hub{
		WeaponSwitched: NewBus[WeaponSwitched](),
		WeaponAdded:    NewBus[WeaponAdded](),
		WeaponRemoved:  NewBus[WeaponRemoved](),
		StanceChanged:  NewBus[StanceChanged](),
		ShotFired:      NewBus[ShotFired](),
		Reloaded:       NewBus[Reloaded](),
		Died:           NewBus[Died](),
		Jumped:         NewBus[Jumped](),
		Landed:         NewBus[Landed](),
		FallDamaged:    NewBus[FallDamaged](),
		Footstep:       NewBus[Footstep](),
	}
}
