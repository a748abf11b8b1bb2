package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/physics"
	"github.com/udisondev/fpsim/internal/vecmath"
)

var down = mgl64.Vec3{0, -1, 0}

// ProbeResult is the outcome of one ground check. It is only meaningful for
// the tick that produced it.
type ProbeResult struct {
	Grounded bool
	Normal   mgl64.Vec3 // up when nothing walkable was hit
	Distance float64
	Collider physics.ColliderID
	Hit      bool // something was hit, walkable or not
}

// GroundProbe decides whether a capsule stands on walkable ground.
type GroundProbe struct {
	physics    physics.Collider
	slopeLimit float64
}

// NewGroundProbe creates a probe over the physics collaborator.
// slopeLimit is the steepest walkable incline in degrees.
func NewGroundProbe(p physics.Collider, slopeLimit float64) GroundProbe {
	return GroundProbe{physics: p, slopeLimit: slopeLimit}
}

// Probe sweeps c straight down by distance.
// A hit counts as ground only if its normal faces up and the incline is within
// the slope limit.
func (g GroundProbe) Probe(c physics.Capsule, distance float64) ProbeResult {
	res := ProbeResult{Normal: vecmath.Up}
	if g.physics == nil || distance <= 0 {
		return res
	}

	hit, ok := g.physics.SweepCapsule(c, down, distance)
	if !ok {
		return res
	}
	res.Hit = true
	res.Distance = hit.Distance
	res.Collider = hit.Collider
	if hit.Normal.Dot(vecmath.Up) > 0 && g.Walkable(hit.Normal) {
		res.Grounded = true
		res.Normal = hit.Normal
	}
	return res
}

// Walkable reports whether a surface with this normal is within the slope limit.
func (g GroundProbe) Walkable(normal mgl64.Vec3) bool {
	return vecmath.AngleDeg(vecmath.Up, normal) <= g.slopeLimit
}
