package loadout

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/ids"
	"github.com/udisondev/fpsim/internal/input"
	"github.com/udisondev/fpsim/internal/testutil"
	"github.com/udisondev/fpsim/internal/weapon"
)

var testAim = weapon.Aim{Origin: mgl64.Vec3{0, 1.6, 0}, Direction: mgl64.Vec3{0, 0, 1}}

type loadoutHarness struct {
	l       *Loadout
	events  *loadoutEvents
	spawner *testutil.RecordingSpawner
	now     float64
}

func newLoadoutHarness(t *testing.T) *loadoutHarness {
	t.Helper()
	hub := event.NewHub()
	rec := recordLoadoutEvents(hub)
	sp := &testutil.RecordingSpawner{}
	l := New(DefaultConfig(), 1, ids.NewGenerator(), 3, hub, sp)
	return &loadoutHarness{l: l, events: rec, spawner: sp}
}

func (h *loadoutHarness) step(f input.Frame) {
	h.now += poseDt
	h.l.Update(h.now, poseDt, f, testAim)
	h.l.UpdatePose(h.now, poseDt, Body{Grounded: true, MaxSpeed: 20}, testAim.Origin, 0)
}

// settle runs idle ticks until no switch is in progress.
func (h *loadoutHarness) settle(t *testing.T) {
	t.Helper()
	for range 1000 {
		if h.l.Sequencer().Idle() {
			return
		}
		h.step(input.Frame{})
	}
	t.Fatal("switch did not finish")
}

func (h *loadoutHarness) add(t *testing.T, def weapon.Definition) *weapon.Instance {
	t.Helper()
	w, _, ok := h.l.AddWeapon(h.now, testutil.Definition(def))
	require.True(t, ok)
	return w
}

func TestAddWeaponAutoEquips(t *testing.T) {
	h := newLoadoutHarness(t)
	pistol := h.add(t, testutil.Fixtures.Pistol)

	assert.Equal(t, StatePuttingUpNew, h.l.Sequencer().State())
	assert.Same(t, pistol, h.l.Active())
	require.Len(t, h.events.switched, 1)
	assert.Equal(t, 0, h.events.switched[0].Slot)

	rifle := h.add(t, testutil.Fixtures.Rifle)
	assert.Same(t, pistol, h.l.Active(), "second weapon does not steal the slot")
	assert.False(t, rifle.Visible())

	h.settle(t)
	assert.Equal(t, StateUp, h.l.Sequencer().State())
	for range 60 {
		h.step(input.Frame{})
	}
	assert.InDelta(t, 0, h.l.Pose().Main.Sub(DefaultPoseConfig().DefaultPosition).Len(), 1e-3)
}

func TestFireOnlyWhenUp(t *testing.T) {
	h := newLoadoutHarness(t)
	pistol := h.add(t, testutil.Fixtures.Pistol)

	h.step(input.Frame{Fire: weapon.Trigger{Down: true, Held: true}})
	assert.Empty(t, h.events.shots, "weapon still being raised")

	h.settle(t)
	h.step(input.Frame{Fire: weapon.Trigger{Down: true, Held: true}})
	require.Len(t, h.events.shots, 1)
	assert.Same(t, pistol, h.events.shots[0].Weapon)
	assert.Equal(t, testAim.Origin, h.events.shots[0].Origin)
	assert.Len(t, h.spawner.Projectiles(), 1)
	assert.Less(t, h.l.pose.Accumulated().Z(), 0.0, "shot kicks the weapon back")
	assert.Equal(t, 7.0, pistol.Ammo().Charger)
}

func TestManualAndAutomaticReload(t *testing.T) {
	h := newLoadoutHarness(t)
	pistol := h.add(t, testutil.Fixtures.Pistol)
	h.settle(t)

	h.step(input.Frame{Fire: weapon.Trigger{Down: true, Held: true}})
	h.step(input.Frame{Reload: true})
	require.Len(t, h.events.reloads, 1)
	assert.Equal(t, 1.0, h.events.reloads[0].Amount)
	assert.Equal(t, 8.0, pistol.Ammo().Charger)

	h.step(input.Frame{Reload: true})
	assert.Len(t, h.events.reloads, 1, "full charger does not reload")

	// Empty the charger; the automatic reload refills it.
	for range 200 {
		h.step(input.Frame{Fire: weapon.Trigger{Down: true, Held: true}})
		h.step(input.Frame{})
	}
	assert.Greater(t, len(h.events.reloads), 1)
	assert.GreaterOrEqual(t, pistol.Ammo().Charger, 0.0)
	assert.LessOrEqual(t, pistol.Ammo().Charger, 8.0)
}

func TestScrollAndSelectSwitching(t *testing.T) {
	h := newLoadoutHarness(t)
	h.add(t, testutil.Fixtures.Pistol)
	h.add(t, testutil.Fixtures.Rifle)
	h.settle(t)

	h.step(input.Frame{SelectSlot: 5})
	assert.Equal(t, StateUp, h.l.Sequencer().State(), "empty slot is not selectable")

	h.step(input.Frame{SelectSlot: 2})
	assert.Equal(t, StatePuttingDownPrevious, h.l.Sequencer().State())
	assert.Equal(t, 1, h.l.Sequencer().PendingSlot())
	h.settle(t)
	assert.Equal(t, 1, h.l.Sequencer().ActiveSlot())

	h.step(input.Frame{Scroll: 1})
	assert.Equal(t, 0, h.l.Sequencer().PendingSlot(), "ascending wraps around")
	h.step(input.Frame{Scroll: -1})
	assert.Equal(t, 0, h.l.Sequencer().PendingSlot(), "requests ignored mid-switch")
}

func TestSwitchBlockedWhileAiming(t *testing.T) {
	h := newLoadoutHarness(t)
	h.add(t, testutil.Fixtures.Pistol)
	h.add(t, testutil.Fixtures.Rifle)
	h.settle(t)

	h.step(input.Frame{Aim: true, Scroll: 1})
	assert.True(t, h.l.Aiming())
	assert.Equal(t, StateUp, h.l.Sequencer().State())
}

func TestSwitchBlockedWhileCharging(t *testing.T) {
	h := newLoadoutHarness(t)
	launcher := h.add(t, testutil.Fixtures.Launcher)
	h.add(t, testutil.Fixtures.Pistol)
	h.settle(t)

	h.step(input.Frame{Fire: weapon.Trigger{Down: true, Held: true}, Scroll: 1})
	require.True(t, launcher.Charging())
	assert.Equal(t, StateUp, h.l.Sequencer().State())
	assert.Equal(t, 0, h.l.Sequencer().ActiveSlot())

	h.step(input.Frame{Fire: weapon.Trigger{Held: true}, SelectSlot: 2})
	assert.Equal(t, StateUp, h.l.Sequencer().State())

	h.step(input.Frame{Fire: weapon.Trigger{Up: true}})
	require.Len(t, h.events.shots, 1)
	assert.Greater(t, h.events.shots[0].Charge, 0.0)
	assert.False(t, launcher.Charging())

	h.step(input.Frame{Scroll: 1})
	assert.Equal(t, StatePuttingDownPrevious, h.l.Sequencer().State())
}

func TestAimingClearedWhenNotUp(t *testing.T) {
	h := newLoadoutHarness(t)
	h.add(t, testutil.Fixtures.Pistol)

	h.step(input.Frame{Aim: true})
	assert.False(t, h.l.Aiming(), "cannot aim a weapon being raised")

	h.settle(t)
	h.step(input.Frame{Aim: true})
	assert.True(t, h.l.Aiming())
	h.step(input.Frame{})
	assert.False(t, h.l.Aiming())
}

func TestRemoveActiveWeaponRaisesNext(t *testing.T) {
	h := newLoadoutHarness(t)
	pistol := h.add(t, testutil.Fixtures.Pistol)
	rifle := h.add(t, testutil.Fixtures.Rifle)
	h.settle(t)

	require.True(t, h.l.RemoveWeapon(h.now, pistol))
	assert.Same(t, rifle, h.l.Active())
	assert.Equal(t, StatePuttingUpNew, h.l.Sequencer().State())
	assert.False(t, h.l.RemoveWeapon(h.now, pistol), "second removal is a no-op")

	h.settle(t)
	require.True(t, h.l.RemoveWeapon(h.now, rifle))
	assert.Nil(t, h.l.Active())
	assert.Equal(t, StateDown, h.l.Sequencer().State())
	last := h.events.switched[len(h.events.switched)-1]
	assert.Nil(t, last.Weapon)
}

func TestRemoveInactiveWeaponKeepsActive(t *testing.T) {
	h := newLoadoutHarness(t)
	pistol := h.add(t, testutil.Fixtures.Pistol)
	rifle := h.add(t, testutil.Fixtures.Rifle)
	h.settle(t)

	require.True(t, h.l.RemoveWeapon(h.now, rifle))
	assert.Same(t, pistol, h.l.Active())
	assert.Equal(t, StateUp, h.l.Sequencer().State())
}

func TestHandleDeathLowersWeapon(t *testing.T) {
	h := newLoadoutHarness(t)
	h.add(t, testutil.Fixtures.Pistol)
	h.settle(t)

	h.l.HandleDeath(h.now)
	assert.Equal(t, StatePuttingDownPrevious, h.l.Sequencer().State())
	h.settle(t)
	assert.Equal(t, StateDown, h.l.Sequencer().State())
	assert.Nil(t, h.l.Active())

	h.step(input.Frame{Scroll: 1, SelectSlot: 1})
	assert.Nil(t, h.l.Active(), "dead characters ignore input")

	h.add(t, testutil.Fixtures.Rifle)
	assert.Nil(t, h.l.Active(), "no auto-equip after death")
}

func TestHandleDeathDropsCharge(t *testing.T) {
	h := newLoadoutHarness(t)
	launcher := h.add(t, testutil.Fixtures.Launcher)
	h.settle(t)

	h.step(input.Frame{Fire: weapon.Trigger{Down: true, Held: true}})
	h.step(input.Frame{Fire: weapon.Trigger{Held: true}})
	require.True(t, launcher.Charging())

	h.l.HandleDeath(h.now)
	assert.False(t, launcher.Charging())
	charger := launcher.Ammo().Charger

	for range 600 {
		h.step(input.Frame{Fire: weapon.Trigger{Held: true}})
	}
	assert.False(t, launcher.Charging())
	assert.Equal(t, 0.0, launcher.ChargeRatio())
	assert.Equal(t, charger, launcher.Ammo().Charger, "lowered weapon draws no charge ammo")
	assert.Empty(t, h.events.shots)
}

func TestMuzzleVelocityTracked(t *testing.T) {
	h := newLoadoutHarness(t)
	pistol := h.add(t, testutil.Fixtures.Pistol)
	h.settle(t)

	for i := range 5 {
		h.now += poseDt
		eye := mgl64.Vec3{float64(i) * 0.16, 1.6, 0}
		h.l.Update(h.now, poseDt, input.Frame{}, testAim)
		h.l.UpdatePose(h.now, poseDt, Body{}, eye, 0)
	}
	assert.InDelta(t, 10, pistol.MuzzleVelocity().X(), 1e-6)
}
