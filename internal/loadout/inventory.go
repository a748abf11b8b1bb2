// Package loadout holds a character's weapons: the slot inventory, the switch
// sequencer, the pose blender and the per-tick orchestration tying them together.
package loadout

import (
	"log/slog"

	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/ids"
	"github.com/udisondev/fpsim/internal/weapon"
)

// SlotCount is the number of weapon slots.
const SlotCount = 9

// Inventory is a fixed array of weapon slots holding at most one instance per
// definition ID.
type Inventory struct {
	ownerID uint32
	seed    uint64
	gen     *ids.Generator
	events  *event.Hub

	slots [SlotCount]*weapon.Instance
}

// NewInventory creates an empty inventory. gen issues instance IDs; a nil gen
// falls back to the process-wide generator. seed feeds every instance's spread
// sampling. hub may be nil.
func NewInventory(ownerID uint32, gen *ids.Generator, seed uint64, hub *event.Hub) *Inventory {
	if gen == nil {
		gen = ids.Global()
	}
	return &Inventory{ownerID: ownerID, seed: seed, gen: gen, events: hub}
}

// Add creates an instance of def in the first free slot.
// Fails if an instance of the same definition is already held or every slot is taken.
//
// Returns:
//   - *weapon.Instance: the new, hidden instance (nil on failure)
//   - int: its slot (-1 on failure)
//   - bool: true on success
func (inv *Inventory) Add(def *weapon.Definition) (*weapon.Instance, int, bool) {
	if def == nil || inv.Has(def) {
		return nil, -1, false
	}

	for i, w := range inv.slots {
		if w != nil {
			continue
		}
		inst := weapon.NewInstance(inv.gen.NextWeaponID(), inv.ownerID, def, inv.seed)
		inst.Show(false)
		inv.slots[i] = inst

		slog.Debug("weapon added", "owner", inv.ownerID, "weapon", def.ID, "slot", i)
		if inv.events != nil {
			inv.events.WeaponAdded.Publish(event.WeaponAdded{Weapon: inst, Slot: i})
		}
		return inst, i, true
	}
	return nil, -1, false
}

// Remove frees the slot holding w. Removing an instance that is not held is a
// no-op failure.
func (inv *Inventory) Remove(w *weapon.Instance) (int, bool) {
	slot := inv.SlotOf(w)
	if slot < 0 {
		return -1, false
	}
	inv.slots[slot] = nil
	w.Show(false)

	slog.Debug("weapon removed", "owner", inv.ownerID, "weapon", w.Definition().ID, "slot", slot)
	if inv.events != nil {
		inv.events.WeaponRemoved.Publish(event.WeaponRemoved{Weapon: w, Slot: slot})
	}
	return slot, true
}

// Get returns the instance in slot, or nil for an empty or out-of-range slot.
func (inv *Inventory) Get(slot int) *weapon.Instance {
	if slot < 0 || slot >= SlotCount {
		return nil
	}
	return inv.slots[slot]
}

// Has reports whether an instance of def (by ID) is held.
func (inv *Inventory) Has(def *weapon.Definition) bool {
	for _, w := range inv.slots {
		if w != nil && w.Definition().ID == def.ID {
			return true
		}
	}
	return false
}

// SlotOf returns the slot holding w, or -1.
func (inv *Inventory) SlotOf(w *weapon.Instance) int {
	if w == nil {
		return -1
	}
	for i, held := range inv.slots {
		if held == w {
			return i
		}
	}
	return -1
}

// Count returns the number of occupied slots.
func (inv *Inventory) Count() int {
	n := 0
	for _, w := range inv.slots {
		if w != nil {
			n++
		}
	}
	return n
}

// Occupied returns the occupied slot indices in ascending order.
func (inv *Inventory) Occupied() []int {
	out := make([]int, 0, SlotCount)
	for i, w := range inv.slots {
		if w != nil {
			out = append(out, i)
		}
	}
	return out
}
