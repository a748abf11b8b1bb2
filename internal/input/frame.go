// Package input turns raw device levels into per-tick simulation input.
package input

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/vecmath"
	"github.com/udisondev/fpsim/internal/weapon"
)

// SlotCount is the number of selectable weapon slots (keys 1..9).
const SlotCount = 9

// Frame is one tick of character input.
type Frame struct {
	Move mgl64.Vec2 // x = strafe, y = forward; magnitude <= 1
	Look mgl64.Vec2 // x = yaw delta, y = pitch delta, already scaled

	Jump         bool // pressed this tick
	CrouchToggle bool // pressed this tick
	Sprint       bool

	Fire   weapon.Trigger
	Aim    bool
	Reload bool // pressed this tick

	SelectSlot int // 1..9, 0 when none
	Scroll     int // -1, 0 or +1
}

// Normalized returns a copy with every field inside its documented range.
func (f Frame) Normalized() Frame {
	f.Move = vecmath.ClampMagnitude2(f.Move, 1)
	if f.SelectSlot < 0 || f.SelectSlot > SlotCount {
		f.SelectSlot = 0
	}
	switch {
	case f.Scroll > 0:
		f.Scroll = 1
	case f.Scroll < 0:
		f.Scroll = -1
	}
	return f
}
