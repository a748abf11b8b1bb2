package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/fpsim/internal/vecmath"
)

const (
	// contactTolerance is the gap under which two shapes count as touching.
	contactTolerance = 1e-4

	// maxAdvanceIterations bounds conservative advancement against boxes.
	maxAdvanceIterations = 64

	// segmentSearchIterations is the ternary search depth on a capsule segment.
	segmentSearchIterations = 60
)

// Plane is an infinite half-space: points p with Normal·p < Offset are solid.
type Plane struct {
	ID     ColliderID
	Name   string
	Normal mgl64.Vec3
	Offset float64
}

// Box is a solid axis-aligned box.
type Box struct {
	ID   ColliderID
	Name string
	Min  mgl64.Vec3
	Max  mgl64.Vec3
}

// StaticWorld is an immutable set of planes and boxes answering capsule
// queries analytically. It implements Collider.
//
// Thread-safe once built: queries never mutate the world, so one instance can
// be shared by every character driver.
type StaticWorld struct {
	planes []Plane
	boxes  []Box
	nextID ColliderID
}

// NewStaticWorld creates an empty world.
func NewStaticWorld() *StaticWorld {
	return &StaticWorld{nextID: 1}
}

// NewFlatWorld creates a world with a single ground plane at height y.
func NewFlatWorld(y float64) *StaticWorld {
	w := NewStaticWorld()
	w.AddPlane("ground", vecmath.Up, y)
	return w
}

// AddPlane adds a half-space and returns its collider ID.
// Must not be called after the world is shared between goroutines.
func (w *StaticWorld) AddPlane(name string, normal mgl64.Vec3, offset float64) ColliderID {
	id := w.nextID
	w.nextID++
	w.planes = append(w.planes, Plane{ID: id, Name: name, Normal: vecmath.SafeNormalize(normal), Offset: offset})
	return id
}

// AddSlope adds a ground plane through point at the given incline (degrees),
// rising toward +Z.
func (w *StaticWorld) AddSlope(name string, point mgl64.Vec3, angleDeg float64) ColliderID {
	rad := mgl64.DegToRad(angleDeg)
	normal := mgl64.Vec3{0, math.Cos(rad), -math.Sin(rad)}
	return w.AddPlane(name, normal, normal.Dot(point))
}

// AddBox adds a solid box and returns its collider ID.
// Must not be called after the world is shared between goroutines.
func (w *StaticWorld) AddBox(name string, minCorner, maxCorner mgl64.Vec3) ColliderID {
	id := w.nextID
	w.nextID++
	lo := mgl64.Vec3{math.Min(minCorner.X(), maxCorner.X()), math.Min(minCorner.Y(), maxCorner.Y()), math.Min(minCorner.Z(), maxCorner.Z())}
	hi := mgl64.Vec3{math.Max(minCorner.X(), maxCorner.X()), math.Max(minCorner.Y(), maxCorner.Y()), math.Max(minCorner.Z(), maxCorner.Z())}
	w.boxes = append(w.boxes, Box{ID: id, Name: name, Min: lo, Max: hi})
	return id
}

// ColliderCount returns the number of planes and boxes.
func (w *StaticWorld) ColliderCount() int {
	return len(w.planes) + len(w.boxes)
}

// SweepCapsule implements Collider.
func (w *StaticWorld) SweepCapsule(c Capsule, dir mgl64.Vec3, maxDistance float64) (Hit, bool) {
	dir = vecmath.SafeNormalize(dir)
	if dir.LenSqr() == 0 || maxDistance < 0 {
		return Hit{}, false
	}

	best := Hit{Distance: math.Inf(1)}
	found := false
	for i := range w.planes {
		if h, ok := w.planes[i].sweep(c, dir, maxDistance); ok && h.Distance < best.Distance {
			best, found = h, true
		}
	}
	for i := range w.boxes {
		if h, ok := w.boxes[i].sweep(c, dir, maxDistance); ok && h.Distance < best.Distance {
			best, found = h, true
		}
	}
	return best, found
}

// OverlapCapsule implements Collider.
func (w *StaticWorld) OverlapCapsule(c Capsule) []ColliderID {
	var ids []ColliderID
	for i := range w.planes {
		if w.planes[i].gap(c) < -contactTolerance {
			ids = append(ids, w.planes[i].ID)
		}
	}
	for i := range w.boxes {
		d, _, _ := segmentBoxDistance(c.Bottom, c.Top, w.boxes[i])
		if d-c.Radius < -contactTolerance {
			ids = append(ids, w.boxes[i].ID)
		}
	}
	return ids
}

// gap returns the signed distance between the capsule surface and the plane.
func (p Plane) gap(c Capsule) float64 {
	return math.Min(p.Normal.Dot(c.Bottom), p.Normal.Dot(c.Top)) - p.Offset - c.Radius
}

func (p Plane) sweep(c Capsule, dir mgl64.Vec3, maxDistance float64) (Hit, bool) {
	approach := -p.Normal.Dot(dir)
	if approach <= 1e-9 {
		return Hit{}, false
	}
	dist := math.Max(p.gap(c), 0) / approach
	if dist > maxDistance {
		return Hit{}, false
	}
	return Hit{Normal: p.Normal, Distance: dist, Collider: p.ID}, true
}

func (b Box) sweep(c Capsule, dir mgl64.Vec3, maxDistance float64) (Hit, bool) {
	t := 0.0
	for range maxAdvanceIterations {
		moved := c.Translate(dir.Mul(t))
		d, segPt, boxPt := segmentBoxDistance(moved.Bottom, moved.Top, b)
		gap := d - c.Radius
		if gap <= contactTolerance {
			normal := b.contactNormal(segPt, boxPt, d)
			if normal.Dot(dir) >= 0 {
				// Touching but moving away.
				return Hit{}, false
			}
			return Hit{Normal: normal, Distance: t, Collider: b.ID}, true
		}
		t += gap
		if t > maxDistance {
			return Hit{}, false
		}
	}
	return Hit{}, false
}

// contactNormal points from the box toward the capsule segment.
func (b Box) contactNormal(segPt, boxPt mgl64.Vec3, dist float64) mgl64.Vec3 {
	if dist > 1e-9 {
		return vecmath.SafeNormalize(segPt.Sub(boxPt))
	}
	// Segment inside the box: leave through the nearest face.
	best := math.Inf(1)
	var normal mgl64.Vec3
	for axis := range 3 {
		if d := segPt[axis] - b.Min[axis]; d < best {
			best = d
			normal = mgl64.Vec3{}
			normal[axis] = -1
		}
		if d := b.Max[axis] - segPt[axis]; d < best {
			best = d
			normal = mgl64.Vec3{}
			normal[axis] = 1
		}
	}
	return normal
}

func (b Box) closestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), b.Min.X(), b.Max.X()),
		mgl64.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
		mgl64.Clamp(p.Z(), b.Min.Z(), b.Max.Z()),
	}
}

// segmentBoxDistance returns the distance between segment ab and the box with
// the closest points on both. Distance to a convex set is convex along a line,
// so a ternary search over the segment parameter converges to the minimum.
func segmentBoxDistance(a, bEnd mgl64.Vec3, box Box) (float64, mgl64.Vec3, mgl64.Vec3) {
	ab := bEnd.Sub(a)
	at := func(s float64) mgl64.Vec3 { return a.Add(ab.Mul(s)) }
	dist := func(s float64) float64 {
		p := at(s)
		return p.Sub(box.closestPoint(p)).Len()
	}

	lo, hi := 0.0, 1.0
	for range segmentSearchIterations {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if dist(m1) <= dist(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	s := (lo + hi) / 2
	p := at(s)
	q := box.closestPoint(p)
	return p.Sub(q).Len(), p, q
}
