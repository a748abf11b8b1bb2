package weapon

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/vecmath"
)

// emptyEpsilon is the charger level treated as empty.
const emptyEpsilon = 1e-9

// Trigger is the fire input of one tick.
type Trigger struct {
	Down bool // pressed this tick
	Held bool
	Up   bool // released this tick
}

// Aim is where shots leave from and point to.
type Aim struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// Projectile is handed to the spawner for every bullet of a shot.
type Projectile struct {
	Weapon            *Instance
	OwnerID           uint32
	Kind              string
	Origin            mgl64.Vec3
	Direction         mgl64.Vec3
	InheritedVelocity mgl64.Vec3
	Charge            float64
}

// Spawner receives projectiles. Delivery is fire-and-forget.
type Spawner interface {
	Spawn(p Projectile)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(p Projectile)

// Spawn implements Spawner.
func (f SpawnerFunc) Spawn(p Projectile) { f(p) }

// Shot summarizes a trigger pull that fired.
type Shot struct {
	Projectiles int
	Charge      float64
	Direction   mgl64.Vec3 // direction of the first projectile
}

// HandleShootInputs runs the shoot state machine for one tick.
// spawner may be nil; the shot still consumes ammo and is reported.
//
// Returns:
//   - Shot: what fired (zero value if nothing did)
//   - bool: true if a shot fired this tick
func (w *Instance) HandleShootInputs(now float64, trig Trigger, aim Aim, spawner Spawner) (Shot, bool) {
	switch w.def.Mode {
	case ShootManual:
		if trig.Down {
			return w.tryShoot(now, aim, spawner)
		}
	case ShootAutomatic:
		if trig.Held {
			return w.tryShoot(now, aim, spawner)
		}
	case ShootCharge:
		if trig.Held {
			w.tryBeginCharge(now)
		}
		if trig.Up {
			return w.tryReleaseCharge(now, aim, spawner)
		}
	}
	return Shot{}, false
}

// Tick advances charge accrual and the automatic reload.
// Returns the amount reloaded this tick.
func (w *Instance) Tick(now, dt float64) float64 {
	w.updateCharge(now, dt)
	if w.ammo.Charger <= emptyEpsilon {
		return w.Reload()
	}
	return 0
}

// ManualReload reloads if the charger is not full and reserve remains.
// Returns the amount moved into the charger.
func (w *Instance) ManualReload() float64 {
	if w.ammo.Charger >= w.def.MaxChargerAmmo || w.ammo.Reserve <= 0 {
		return 0
	}
	return w.Reload()
}

// Reload moves min(charger deficit, reserve) from reserve into the charger.
// Calling it again with a full charger or an empty reserve is a no-op.
func (w *Instance) Reload() float64 {
	if w.ammo.Reserve <= 0 {
		return 0
	}
	deficit := math.Max(w.def.MaxChargerAmmo-w.ammo.Charger, 0)
	amount := math.Min(deficit, w.ammo.Reserve)
	if amount <= 0 {
		return 0
	}
	w.ammo.Charger = mgl64.Clamp(w.ammo.Charger+amount, 0, w.def.MaxChargerAmmo)
	w.ammo.Reserve = math.Max(w.ammo.Reserve-amount, 0)
	return amount
}

func (w *Instance) ready(now float64) bool {
	return w.ammo.LastShot+w.def.DelayBetweenShots < now
}

func (w *Instance) tryShoot(now float64, aim Aim, spawner Spawner) (Shot, bool) {
	if w.ammo.Charger < 1 || !w.ready(now) {
		return Shot{}, false
	}
	shot := w.shoot(now, aim, spawner, 0)
	w.useAmmo(now, 1)
	return shot, true
}

func (w *Instance) tryBeginCharge(now float64) bool {
	if w.ammo.Charging || w.ammo.Charger < w.def.AmmoUsedOnStartCharge || !w.ready(now) {
		return false
	}
	w.useAmmo(now, w.def.AmmoUsedOnStartCharge)
	w.ammo.Charging = true
	return true
}

func (w *Instance) tryReleaseCharge(now float64, aim Aim, spawner Spawner) (Shot, bool) {
	if !w.ammo.Charging {
		return Shot{}, false
	}
	shot := w.shoot(now, aim, spawner, w.ammo.Charge)
	w.ammo.Charge = 0
	w.ammo.Charging = false
	return shot, true
}

// CancelCharge drops a charge in progress without firing.
// The ammo already spent on it is not refunded.
func (w *Instance) CancelCharge() {
	w.ammo.Charge = 0
	w.ammo.Charging = false
}

func (w *Instance) updateCharge(now, dt float64) {
	if !w.ammo.Charging {
		w.ammo.Charge = 0
		return
	}
	if w.ammo.Charge >= 1 || dt <= 0 {
		return
	}

	left := 1 - w.ammo.Charge
	added := left
	if w.def.MaxChargeDuration > 0 {
		added = mgl64.Clamp(dt/w.def.MaxChargeDuration, 0, left)
	}

	w.useAmmo(now, added*w.def.AmmoUsageRateWhileCharging)
	w.ammo.Charge = vecmath.Clamp01(w.ammo.Charge + added)
}

// shoot spawns every projectile of one trigger pull.
func (w *Instance) shoot(now float64, aim Aim, spawner Spawner, charge float64) Shot {
	shot := Shot{Projectiles: w.def.BulletsPerShot, Charge: charge}
	for i := range w.def.BulletsPerShot {
		dir := w.SpreadDirection(aim.Direction)
		if i == 0 {
			shot.Direction = dir
		}
		if spawner == nil {
			continue
		}
		spawner.Spawn(Projectile{
			Weapon:            w,
			OwnerID:           w.ownerID,
			Kind:              w.def.Projectile,
			Origin:            aim.Origin,
			Direction:         dir,
			InheritedVelocity: w.muzzleVelocity,
			Charge:            charge,
		})
	}
	w.ammo.LastShot = now
	return shot
}

// SpreadDirection returns forward deviated by a uniform random angle within
// the spread cone.
func (w *Instance) SpreadDirection(forward mgl64.Vec3) mgl64.Vec3 {
	angle := w.rng.Float64() * w.def.SpreadAngle
	roll := w.rng.Float64() * 2 * math.Pi
	return vecmath.ConeDirection(forward, angle, roll)
}
