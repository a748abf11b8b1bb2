package physics

import "github.com/go-gl/mathgl/mgl64"

// ColliderID identifies a blocking object reported by a physics query.
// 0 is never assigned to a real collider.
type ColliderID uint32

// Capsule is a swept sphere between two hemisphere centers.
type Capsule struct {
	Bottom mgl64.Vec3
	Top    mgl64.Vec3
	Radius float64
}

// Hit is the first contact reported by a sweep.
type Hit struct {
	Normal   mgl64.Vec3
	Distance float64
	Collider ColliderID
}

// Collider is the physics collaborator consumed by the character core.
// Queries are synchronous; results are only valid for the tick that issued them.
type Collider interface {
	// SweepCapsule moves c along the unit direction dir up to maxDistance and
	// reports the first blocking contact.
	SweepCapsule(c Capsule, dir mgl64.Vec3, maxDistance float64) (Hit, bool)

	// OverlapCapsule returns every blocking collider intersecting c.
	OverlapCapsule(c Capsule) []ColliderID
}

// CapsuleAt builds the capsule of a character standing at feet position pos.
func CapsuleAt(pos mgl64.Vec3, height, radius float64) Capsule {
	if height < 2*radius {
		height = 2 * radius
	}
	return Capsule{
		Bottom: pos.Add(mgl64.Vec3{0, radius, 0}),
		Top:    pos.Add(mgl64.Vec3{0, height - radius, 0}),
		Radius: radius,
	}
}

// Translate returns c moved by delta.
func (c Capsule) Translate(delta mgl64.Vec3) Capsule {
	return Capsule{Bottom: c.Bottom.Add(delta), Top: c.Top.Add(delta), Radius: c.Radius}
}
