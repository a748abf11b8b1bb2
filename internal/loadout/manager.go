package loadout

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/ids"
	"github.com/udisondev/fpsim/internal/input"
	"github.com/udisondev/fpsim/internal/vecmath"
	"github.com/udisondev/fpsim/internal/weapon"
)

// Config tunes switching and weapon posing.
type Config struct {
	SwitchDelay float64
	Pose        PoseConfig
}

// DefaultConfig returns a one second switch phase and the stock pose.
func DefaultConfig() Config {
	return Config{SwitchDelay: 1, Pose: DefaultPoseConfig()}
}

// Loadout runs a character's weapons each tick: firing, reloading, switch
// requests and posing.
// Not safe for concurrent use; it is driven from the character's tick.
type Loadout struct {
	inv     *Inventory
	seq     *Sequencer
	pose    *PoseBlender
	events  *event.Hub
	spawner weapon.Spawner

	ownerID uint32
	aiming  bool
	dead    bool
}

// New creates an empty loadout. hub and spawner may be nil.
func New(cfg Config, ownerID uint32, gen *ids.Generator, seed uint64, hub *event.Hub, spawner weapon.Spawner) *Loadout {
	inv := NewInventory(ownerID, gen, seed, hub)
	return &Loadout{
		inv:     inv,
		seq:     NewSequencer(inv, cfg.SwitchDelay, hub),
		pose:    NewPoseBlender(cfg.Pose),
		events:  hub,
		spawner: spawner,
		ownerID: ownerID,
	}
}

// Inventory returns the slot inventory.
func (l *Loadout) Inventory() *Inventory { return l.inv }

// Sequencer returns the switch sequencer.
func (l *Loadout) Sequencer() *Sequencer { return l.seq }

// Active returns the weapon in the active slot, or nil.
func (l *Loadout) Active() *weapon.Instance { return l.seq.Active() }

// Aiming reports whether the raised weapon is aimed this tick.
func (l *Loadout) Aiming() bool { return l.aiming }

// Pose returns the last composed weapon pose.
func (l *Loadout) Pose() Pose { return l.pose.Pose() }

// AddWeapon puts an instance of def in the first free slot and raises it when
// nothing else is held.
func (l *Loadout) AddWeapon(now float64, def *weapon.Definition) (*weapon.Instance, int, bool) {
	w, slot, ok := l.inv.Add(def)
	if !ok {
		return nil, -1, false
	}
	if !l.dead && l.seq.Active() == nil && l.seq.Idle() {
		l.seq.RequestSwitch(now, true)
	}
	return w, slot, true
}

// RemoveWeapon drops w. If it was active the next weapon up is raised, or the
// hands are lowered when nothing is left.
func (l *Loadout) RemoveWeapon(now float64, w *weapon.Instance) bool {
	slot, ok := l.inv.Remove(w)
	if !ok {
		return false
	}
	if slot == l.seq.ActiveSlot() {
		if !l.seq.RequestSwitch(now, true) {
			l.seq.RequestSwitchToIndex(now, NoSlot, true)
		}
	}
	return true
}

// HandleDeath drops any charge, lowers the active weapon and stops taking
// input.
func (l *Loadout) HandleDeath(now float64) {
	if l.dead {
		return
	}
	l.dead = true
	l.aiming = false
	if active := l.seq.Active(); active != nil {
		active.CancelCharge()
	}
	l.seq.RequestSwitchToIndex(now, NoSlot, true)
}

// Update handles fire, reload and switch input for one tick, then advances
// every held weapon's charge and automatic reload.
func (l *Loadout) Update(now, dt float64, f input.Frame, aim weapon.Aim) {
	if l.dead {
		f = input.Frame{}
	}

	active := l.seq.Active()
	l.aiming = false
	if active != nil && l.seq.State() == StateUp {
		l.aiming = f.Aim
		if shot, fired := active.HandleShootInputs(now, f.Fire, aim, l.spawner); fired {
			l.pose.AddRecoil(active.Definition().RecoilForce)
			if l.events != nil {
				l.events.ShotFired.Publish(event.ShotFired{
					Weapon:      active,
					Projectiles: shot.Projectiles,
					Charge:      shot.Charge,
					Origin:      aim.Origin,
					Direction:   shot.Direction,
				})
			}
		}
		if f.Reload {
			l.reloaded(active, active.ManualReload())
		}
	}

	for _, slot := range l.inv.Occupied() {
		w := l.inv.Get(slot)
		l.reloaded(w, w.Tick(now, dt))
	}

	if l.aiming || (active != nil && active.Charging()) || !l.seq.Idle() {
		return
	}
	switch {
	case f.Scroll != 0:
		l.seq.RequestSwitch(now, f.Scroll > 0)
	case f.SelectSlot > 0:
		if idx := f.SelectSlot - 1; l.inv.Get(idx) != nil {
			l.seq.RequestSwitchToIndex(now, idx, false)
		}
	}
}

// UpdatePose blends aim, bob and recoil, then advances the switch sequence and
// applies its override. eye and yawDeg place the muzzle in the world for
// projectile velocity inheritance.
func (l *Loadout) UpdatePose(now, dt float64, body Body, eye mgl64.Vec3, yawDeg float64) Pose {
	if l.seq.State() == StateUp {
		l.pose.UpdateAim(dt, l.aiming, l.seq.Active())
	}
	l.pose.UpdateBob(now, dt, l.aiming, body)
	l.pose.UpdateRecoil(dt)

	state, factor := l.seq.Update(now)
	l.pose.ApplySwitch(state, factor)

	pose := l.pose.Pose()
	if active := l.seq.Active(); active != nil {
		active.TrackMuzzle(eye.Add(vecmath.YawRotate(pose.Socket, yawDeg)), dt)
	}
	return pose
}

func (l *Loadout) reloaded(w *weapon.Instance, amount float64) {
	if amount <= 0 {
		return
	}
	slog.Debug("weapon reloaded", "owner", l.ownerID, "weapon", w.Definition().ID, "amount", amount)
	if l.events != nil {
		l.events.Reloaded.Publish(event.Reloaded{Weapon: w, Amount: amount})
	}
}
