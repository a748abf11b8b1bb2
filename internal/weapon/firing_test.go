package weapon

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/fpsim/internal/vecmath"
)

var forwardAim = Aim{Origin: mgl64.Vec3{0, 1.6, 0}, Direction: mgl64.Vec3{0, 0, 1}}

func newTestInstance(mutate func(d *Definition)) *Instance {
	def := DefaultDefinition("pistol")
	if mutate != nil {
		mutate(&def)
	}
	return NewInstance(1, 7, &def, 42)
}

type recordingSpawner struct {
	projectiles []Projectile
}

func (r *recordingSpawner) Spawn(p Projectile) {
	r.projectiles = append(r.projectiles, p)
}

func TestNewInstanceIsFullyLoaded(t *testing.T) {
	w := newTestInstance(nil)
	ammo := w.Ammo()
	assert.Equal(t, 8.0, ammo.Charger)
	assert.Equal(t, 68.0, ammo.Reserve)
	assert.False(t, ammo.Charging)
	assert.Equal(t, 0.0, ammo.Charge)
	assert.Equal(t, 1.0, w.AmmoRatio())
	assert.InDelta(t, 1.0/8, w.AmmoNeededToShoot(), 1e-12)
	assert.Equal(t, uint32(7), w.OwnerID())
}

func TestReloadFromEmptyCharger(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.MaxAmmo = 20 })
	w.ammo.Charger = 0

	moved := w.Reload()
	assert.Equal(t, 8.0, moved)
	assert.Equal(t, 8.0, w.Ammo().Charger)
	assert.Equal(t, 12.0, w.Ammo().Reserve)
}

func TestReloadPartialReserve(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.MaxAmmo = 3 })
	w.ammo.Charger = 2

	assert.Equal(t, 3.0, w.Reload())
	assert.Equal(t, 5.0, w.Ammo().Charger)
	assert.Equal(t, 0.0, w.Ammo().Reserve)

	assert.Equal(t, 0.0, w.Reload(), "empty reserve is a no-op")
	assert.Equal(t, 5.0, w.Ammo().Charger)
}

func TestAutoAndManualReloadSameTickIsSafe(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.MaxAmmo = 20 })
	w.ammo.Charger = 0

	auto := w.Tick(1, 0.016)
	manual := w.ManualReload()
	assert.Equal(t, 8.0, auto)
	assert.Equal(t, 0.0, manual)
	assert.Equal(t, 12.0, w.Ammo().Reserve)
}

func TestManualReloadRequiresDeficit(t *testing.T) {
	w := newTestInstance(nil)
	assert.Equal(t, 0.0, w.ManualReload(), "full charger")

	w.ammo.Charger = 5
	assert.Equal(t, 3.0, w.ManualReload())
	assert.Equal(t, 65.0, w.Ammo().Reserve)
}

func TestManualFiresOnRisingEdgeOnly(t *testing.T) {
	w := newTestInstance(nil)
	sp := &recordingSpawner{}

	_, fired := w.HandleShootInputs(1, Trigger{Held: true}, forwardAim, sp)
	assert.False(t, fired, "held without press does not fire")

	shot, fired := w.HandleShootInputs(1, Trigger{Down: true, Held: true}, forwardAim, sp)
	require.True(t, fired)
	assert.Equal(t, 1, shot.Projectiles)
	assert.Equal(t, 7.0, w.Ammo().Charger)
	assert.Equal(t, 1.0, w.Ammo().LastShot)
	require.Len(t, sp.projectiles, 1)
	assert.Equal(t, "bullet", sp.projectiles[0].Kind)
	assert.Equal(t, uint32(7), sp.projectiles[0].OwnerID)
}

func TestShotDelayGate(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.Mode = ShootAutomatic; d.DelayBetweenShots = 0.1 })
	trig := Trigger{Held: true}

	_, fired := w.HandleShootInputs(1.00, trig, forwardAim, nil)
	assert.True(t, fired)
	_, fired = w.HandleShootInputs(1.05, trig, forwardAim, nil)
	assert.False(t, fired, "inside delay")
	_, fired = w.HandleShootInputs(1.10, trig, forwardAim, nil)
	assert.False(t, fired, "delay boundary is exclusive")
	_, fired = w.HandleShootInputs(1.11, trig, forwardAim, nil)
	assert.True(t, fired)
	assert.Equal(t, 6.0, w.Ammo().Charger)
}

func TestAutomaticStopsWhenEmpty(t *testing.T) {
	w := newTestInstance(func(d *Definition) {
		d.Mode = ShootAutomatic
		d.DelayBetweenShots = 0
		d.MaxChargerAmmo = 3
		d.MaxAmmo = 0
	})
	shots := 0
	for i := range 10 {
		if _, fired := w.HandleShootInputs(float64(i+1), Trigger{Held: true}, forwardAim, nil); fired {
			shots++
		}
	}
	assert.Equal(t, 3, shots)
	assert.Equal(t, 0.0, w.Ammo().Charger)
}

func TestMultipleBulletsPerShot(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.BulletsPerShot = 6; d.SpreadAngle = 8 })
	sp := &recordingSpawner{}

	shot, fired := w.HandleShootInputs(1, Trigger{Down: true}, forwardAim, sp)
	require.True(t, fired)
	assert.Equal(t, 6, shot.Projectiles)
	require.Len(t, sp.projectiles, 6)
	assert.Equal(t, 7.0, w.Ammo().Charger, "one ammo per trigger pull")
	for _, p := range sp.projectiles {
		assert.LessOrEqual(t, vecmath.AngleDeg(forwardAim.Direction, p.Direction), 8.0+1e-6)
	}
}

func TestChargeLifecycle(t *testing.T) {
	w := newTestInstance(func(d *Definition) {
		d.Mode = ShootCharge
		d.MaxChargeDuration = 1
		d.AmmoUsedOnStartCharge = 1
		d.AmmoUsageRateWhileCharging = 2
	})
	sp := &recordingSpawner{}

	_, fired := w.HandleShootInputs(1, Trigger{Down: true, Held: true}, forwardAim, sp)
	assert.False(t, fired)
	require.True(t, w.Charging())
	assert.Equal(t, 7.0, w.Ammo().Charger, "start cost consumed")

	prev := w.ChargeRatio()
	now := 1.0
	for range 5 {
		now += 0.1
		w.HandleShootInputs(now, Trigger{Held: true}, forwardAim, sp)
		w.Tick(now, 0.1)
		assert.Greater(t, w.ChargeRatio(), prev, "charge strictly increases while charging")
		prev = w.ChargeRatio()
	}
	assert.InDelta(t, 0.5, w.ChargeRatio(), 1e-9)
	assert.InDelta(t, 6.0, w.Ammo().Charger, 1e-9, "ammo consumed proportionally to charge gained")

	shot, fired := w.HandleShootInputs(now+0.1, Trigger{Up: true}, forwardAim, sp)
	require.True(t, fired)
	assert.InDelta(t, 0.5, shot.Charge, 1e-9)
	assert.False(t, w.Charging())
	assert.Equal(t, 0.0, w.ChargeRatio())
	require.Len(t, sp.projectiles, 1)
	assert.InDelta(t, 0.5, sp.projectiles[0].Charge, 1e-9)
}

func TestChargeCapsAtFull(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.Mode = ShootCharge; d.MaxChargeDuration = 0.5 })
	w.HandleShootInputs(1, Trigger{Held: true}, forwardAim, nil)
	for i := range 20 {
		w.Tick(1+float64(i)*0.1, 0.1)
	}
	assert.InDelta(t, 1.0, w.ChargeRatio(), 1e-12)
	assert.LessOrEqual(t, w.ChargeRatio(), 1.0)
}

func TestCancelChargeStopsAccrual(t *testing.T) {
	w := newTestInstance(func(d *Definition) {
		d.Mode = ShootCharge
		d.MaxChargeDuration = 1
		d.AmmoUsedOnStartCharge = 1
		d.AmmoUsageRateWhileCharging = 2
	})
	w.HandleShootInputs(1, Trigger{Down: true, Held: true}, forwardAim, nil)
	w.Tick(1.1, 0.1)
	require.True(t, w.Charging())
	spent := w.Ammo().Charger

	w.CancelCharge()
	assert.False(t, w.Charging())
	assert.Equal(t, 0.0, w.ChargeRatio())

	for i := range 20 {
		w.Tick(1.2+float64(i)*0.1, 0.1)
	}
	assert.Equal(t, spent, w.Ammo().Charger, "no ammo drawn after cancel")
	_, fired := w.HandleShootInputs(4, Trigger{Up: true}, forwardAim, nil)
	assert.False(t, fired, "cancelled charge cannot be released")
}

func TestChargeReleaseWithoutChargingDoesNothing(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.Mode = ShootCharge })
	_, fired := w.HandleShootInputs(1, Trigger{Up: true}, forwardAim, nil)
	assert.False(t, fired)
}

func TestChargeRequiresStartCost(t *testing.T) {
	w := newTestInstance(func(d *Definition) { d.Mode = ShootCharge; d.AmmoUsedOnStartCharge = 3 })
	w.ammo.Charger = 2
	w.HandleShootInputs(1, Trigger{Held: true}, forwardAim, nil)
	assert.False(t, w.Charging())
}

func TestAmmoInvariantsUnderRandomOperations(t *testing.T) {
	for _, mode := range []ShootMode{ShootManual, ShootAutomatic, ShootCharge} {
		w := newTestInstance(func(d *Definition) {
			d.Mode = mode
			d.DelayBetweenShots = 0.05
			d.MaxChargeDuration = 0.3
			d.AmmoUsageRateWhileCharging = 4
		})
		r := rand.New(rand.NewPCG(1, uint64(mode)))
		now := 0.0
		for range 2000 {
			now += 0.016
			trig := Trigger{Down: r.IntN(4) == 0, Held: r.IntN(2) == 0, Up: r.IntN(5) == 0}
			w.HandleShootInputs(now, trig, forwardAim, nil)
			w.Tick(now, 0.016)
			if r.IntN(20) == 0 {
				w.ManualReload()
			}

			ammo := w.Ammo()
			require.GreaterOrEqual(t, ammo.Charger, 0.0, mode.String())
			require.LessOrEqual(t, ammo.Charger, w.Definition().MaxChargerAmmo, mode.String())
			require.GreaterOrEqual(t, ammo.Reserve, 0.0, mode.String())
			require.GreaterOrEqual(t, ammo.Charge, 0.0, mode.String())
			require.LessOrEqual(t, ammo.Charge, 1.0, mode.String())
			if !ammo.Charging {
				require.Equal(t, 0.0, ammo.Charge, mode.String())
			}
		}
	}
}

func TestMuzzleVelocityInherited(t *testing.T) {
	w := newTestInstance(nil)
	sp := &recordingSpawner{}
	w.TrackMuzzle(mgl64.Vec3{0, 0, 0}, 0.1)
	w.TrackMuzzle(mgl64.Vec3{1, 0, 0}, 0.1)

	_, fired := w.HandleShootInputs(1, Trigger{Down: true}, forwardAim, sp)
	require.True(t, fired)
	assert.InDelta(t, 0, sp.projectiles[0].InheritedVelocity.Sub(mgl64.Vec3{10, 0, 0}).Len(), 1e-9)
}

func TestSpawnerFunc(t *testing.T) {
	calls := 0
	w := newTestInstance(nil)
	w.HandleShootInputs(1, Trigger{Down: true}, forwardAim, SpawnerFunc(func(Projectile) { calls++ }))
	assert.Equal(t, 1, calls)
}
