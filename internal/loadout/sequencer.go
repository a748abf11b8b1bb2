package loadout

import (
	"fmt"
	"math"

	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/vecmath"
	"github.com/udisondev/fpsim/internal/weapon"
)

// NoSlot is the active slot index when no weapon is held up.
const NoSlot = -1

// SwitchState is the phase of the weapon switch animation.
type SwitchState uint8

const (
	// StateUp: the active weapon is raised and usable.
	StateUp SwitchState = iota
	// StateDown: no weapon is raised.
	StateDown
	// StatePuttingDownPrevious: lowering the old weapon.
	StatePuttingDownPrevious
	// StatePuttingUpNew: raising the new weapon.
	StatePuttingUpNew
)

func (s SwitchState) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDown:
		return "down"
	case StatePuttingDownPrevious:
		return "putting_down_previous"
	case StatePuttingUpNew:
		return "putting_up_new"
	default:
		return fmt.Sprintf("SwitchState(%d)", s)
	}
}

// Distance is the number of slot steps from one slot to another walking in the
// given direction, wrapping around SlotCount. from may be NoSlot.
func Distance(from, to int, ascending bool) int {
	d := to - from
	if !ascending {
		d = -d
	}
	if d < 0 {
		d += SlotCount
	}
	return d
}

// Sequencer drives the timed put-down / put-up sequence between slots.
// It is the only place the active slot changes.
type Sequencer struct {
	inv    *Inventory
	delay  float64
	events *event.Hub

	state       SwitchState
	active      int
	pending     int
	switchStart float64
}

// NewSequencer creates a sequencer with nothing raised.
// delay is the duration of each phase in seconds.
func NewSequencer(inv *Inventory, delay float64, hub *event.Hub) *Sequencer {
	return &Sequencer{
		inv:     inv,
		delay:   math.Max(delay, 0),
		events:  hub,
		state:   StateDown,
		active:  NoSlot,
		pending: NoSlot,
	}
}

// State returns the current phase.
func (s *Sequencer) State() SwitchState { return s.state }

// ActiveSlot returns the active slot index or NoSlot.
func (s *Sequencer) ActiveSlot() int { return s.active }

// PendingSlot returns the slot being switched to.
func (s *Sequencer) PendingSlot() int { return s.pending }

// Active returns the instance in the active slot, or nil.
func (s *Sequencer) Active() *weapon.Instance { return s.inv.Get(s.active) }

// Idle reports whether no switch is in progress (Up or Down).
func (s *Sequencer) Idle() bool {
	return s.state == StateUp || s.state == StateDown
}

// RequestSwitch switches to the nearest occupied slot other than the active
// one, walking up or down. Returns false when there is no such slot.
func (s *Sequencer) RequestSwitch(now float64, ascending bool) bool {
	target := NoSlot
	closest := math.MaxInt
	for _, i := range s.inv.Occupied() {
		if i == s.active {
			continue
		}
		if d := Distance(s.active, i, ascending); d < closest {
			closest = d
			target = i
		}
	}
	return s.RequestSwitchToIndex(now, target, false)
}

// RequestSwitchToIndex starts switching to index. Unless forced, requests for
// the active slot or an index outside the slots are ignored. A forced request
// outside the slots lowers the active weapon.
func (s *Sequencer) RequestSwitchToIndex(now float64, index int, force bool) bool {
	outside := index < 0 || index >= SlotCount
	if !force && (index == s.active || outside) {
		return false
	}
	if outside {
		index = NoSlot
	}

	s.pending = index
	s.switchStart = now

	if s.Active() != nil {
		s.state = StatePuttingDownPrevious
		return true
	}

	s.active = index
	next := s.inv.Get(index)
	s.announce(next)
	if next != nil {
		s.state = StatePuttingUpNew
	} else {
		s.state = StateDown
	}
	return true
}

// Update advances the timed phases. It returns the phase and its progress in
// [0, 1]; the progress is 0 outside the two switching phases.
func (s *Sequencer) Update(now float64) (SwitchState, float64) {
	if s.Idle() {
		return s.state, 0
	}

	factor := 1.0
	if s.delay > 0 {
		factor = vecmath.Clamp01((now - s.switchStart) / s.delay)
	}
	if factor < 1 {
		return s.state, factor
	}

	switch s.state {
	case StatePuttingDownPrevious:
		if old := s.Active(); old != nil {
			old.Show(false)
		}
		s.active = s.pending
		next := s.Active()
		s.announce(next)
		if next != nil {
			s.switchStart = now
			s.state = StatePuttingUpNew
		} else {
			s.state = StateDown
		}
		return s.state, 0

	case StatePuttingUpNew:
		s.state = StateUp
		return s.state, 1
	}
	return s.state, factor
}

func (s *Sequencer) announce(w *weapon.Instance) {
	if w != nil {
		w.Show(true)
	}
	if s.events != nil {
		s.events.WeaponSwitched.Publish(event.WeaponSwitched{Weapon: w, Slot: s.active})
	}
}
