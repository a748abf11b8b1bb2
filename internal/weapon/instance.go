package weapon

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// AmmoState is the per-instance ammo and charge bookkeeping.
//
// Invariants (enforced at every mutation):
//   - 0 <= Charger <= Definition.MaxChargerAmmo
//   - 0 <= Reserve
//   - 0 <= Charge <= 1, and Charge == 0 whenever Charging is false
type AmmoState struct {
	Charger  float64
	Reserve  float64
	Charge   float64
	Charging bool
	LastShot float64 // simulation seconds; -Inf before the first use
}

// Instance is one weapon held by a character, created from a Definition.
type Instance struct {
	id      uint32
	ownerID uint32
	def     *Definition

	ammo    AmmoState
	visible bool
	rng     *rand.Rand

	muzzle         mgl64.Vec3
	muzzleVelocity mgl64.Vec3
	muzzleTracked  bool
}

// NewInstance creates a fully loaded instance of def.
// seed drives the spread sampling so runs are reproducible.
func NewInstance(id, ownerID uint32, def *Definition, seed uint64) *Instance {
	return &Instance{
		id:      id,
		ownerID: ownerID,
		def:     def,
		ammo: AmmoState{
			Charger:  def.MaxChargerAmmo,
			Reserve:  def.MaxAmmo,
			LastShot: math.Inf(-1),
		},
		rng: rand.New(rand.NewPCG(seed, uint64(id))),
	}
}

// ID returns the unique instance ID.
func (w *Instance) ID() uint32 { return w.id }

// OwnerID returns the ID of the character holding the weapon.
func (w *Instance) OwnerID() uint32 { return w.ownerID }

// Definition returns the prototype the instance was created from.
func (w *Instance) Definition() *Definition { return w.def }

// Ammo returns a copy of the ammo state.
func (w *Instance) Ammo() AmmoState { return w.ammo }

// Charging reports whether the weapon is mid-charge.
func (w *Instance) Charging() bool { return w.ammo.Charging }

// ChargeRatio returns the current charge in [0, 1].
func (w *Instance) ChargeRatio() float64 { return w.ammo.Charge }

// AmmoRatio returns the charger fill level in [0, 1].
func (w *Instance) AmmoRatio() float64 {
	if math.IsInf(w.def.MaxChargerAmmo, 1) {
		return 1
	}
	return w.ammo.Charger / w.def.MaxChargerAmmo
}

// AmmoNeededToShoot returns the fraction of the charger one trigger pull costs.
func (w *Instance) AmmoNeededToShoot() float64 {
	if w.def.Mode == ShootCharge {
		return w.def.AmmoUsedOnStartCharge / w.def.MaxChargerAmmo
	}
	return 1 / w.def.MaxChargerAmmo
}

// Visible reports whether the weapon is currently shown.
func (w *Instance) Visible() bool { return w.visible }

// Show toggles visibility. The switch sequencer hides the outgoing weapon and
// shows the incoming one.
func (w *Instance) Show(show bool) { w.visible = show }

// TrackMuzzle records the muzzle position for this tick and derives its world
// velocity, which spawned projectiles inherit.
func (w *Instance) TrackMuzzle(pos mgl64.Vec3, dt float64) {
	if w.muzzleTracked && dt > 0 {
		w.muzzleVelocity = pos.Sub(w.muzzle).Mul(1 / dt)
	}
	w.muzzle = pos
	w.muzzleTracked = true
}

// MuzzleVelocity returns the last derived muzzle velocity.
func (w *Instance) MuzzleVelocity() mgl64.Vec3 { return w.muzzleVelocity }

// useAmmo removes amount from the charger and stamps the use time.
func (w *Instance) useAmmo(now, amount float64) {
	w.ammo.Charger = mgl64.Clamp(w.ammo.Charger-amount, 0, w.def.MaxChargerAmmo)
	w.ammo.LastShot = now
}
