package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis. The simulation is Y-up, Z-forward.
var Up = mgl64.Vec3{0, 1, 0}

// Back is the local weapon-space backward axis used for recoil.
var Back = mgl64.Vec3{0, 0, -1}

// epsilon below which a vector is treated as zero length.
const epsilon = 1e-9

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// Lerp interpolates between a and b, clamping t to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// LerpVec3 interpolates between a and b, clamping t to [0, 1].
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(Clamp01(t)))
}

// SafeNormalize returns v with unit length, or the zero vector if v is (almost) zero.
// mgl64.Vec3.Normalize produces NaN for zero input.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ProjectOnPlane removes the component of v along the plane normal n.
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	n = SafeNormalize(n)
	return v.Sub(n.Mul(v.Dot(n)))
}

// ClampMagnitude shortens v to at most maxLen.
func ClampMagnitude(v mgl64.Vec3, maxLen float64) mgl64.Vec3 {
	l := v.Len()
	if l <= maxLen || l < epsilon {
		return v
	}
	return v.Mul(maxLen / l)
}

// ClampMagnitude2 shortens a 2D vector to at most maxLen.
func ClampMagnitude2(v mgl64.Vec2, maxLen float64) mgl64.Vec2 {
	l := v.Len()
	if l <= maxLen || l < epsilon {
		return v
	}
	return v.Mul(maxLen / l)
}

// Horizontal returns v with its vertical component removed.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// AngleDeg returns the unsigned angle between a and b in degrees.
func AngleDeg(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < epsilon || lb < epsilon {
		return 0
	}
	cos := mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// ReorientOnSlope turns a horizontal direction so that it runs tangent to the
// slope described by normal, keeping its heading.
func ReorientOnSlope(direction, normal mgl64.Vec3) mgl64.Vec3 {
	right := direction.Cross(Up)
	return SafeNormalize(normal.Cross(right))
}

// YawRotate rotates a local (right, up, forward) vector around the up axis by
// yaw degrees. Yaw 0 faces +Z, positive yaw turns toward +X.
func YawRotate(local mgl64.Vec3, yawDeg float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(yawDeg)
	sin, cos := math.Sincos(rad)
	return mgl64.Vec3{
		local.X()*cos + local.Z()*sin,
		local.Y(),
		-local.X()*sin + local.Z()*cos,
	}
}

// LookDirection returns the unit forward vector for the given yaw and pitch in
// degrees. Positive pitch looks down.
func LookDirection(yawDeg, pitchDeg float64) mgl64.Vec3 {
	yaw, pitch := mgl64.DegToRad(yawDeg), mgl64.DegToRad(pitchDeg)
	xz := math.Cos(pitch)
	return mgl64.Vec3{xz * math.Sin(yaw), -math.Sin(pitch), xz * math.Cos(yaw)}
}

// Perpendicular returns a unit vector orthogonal to v.
func Perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	axis := Up
	if math.Abs(SafeNormalize(v).Dot(Up)) > 0.99 {
		axis = mgl64.Vec3{1, 0, 0}
	}
	return SafeNormalize(v.Cross(axis))
}

// ConeDirection deviates forward by angleDeg around an axis picked by roll
// (radians) on the plane orthogonal to forward.
func ConeDirection(forward mgl64.Vec3, angleDeg, roll float64) mgl64.Vec3 {
	forward = SafeNormalize(forward)
	if angleDeg == 0 {
		return forward
	}
	perp := Perpendicular(forward)
	axis := mgl64.QuatRotate(roll, forward).Rotate(perp)
	return SafeNormalize(mgl64.QuatRotate(mgl64.DegToRad(angleDeg), axis).Rotate(forward))
}
