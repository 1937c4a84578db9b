package rom

import (
	"math"

	"github.com/sreevidya/handrom/internal/landmark"
)

// epsilon guards normalization and sign computations against degenerate
// (near-zero-length or coincident-point) geometry. Degenerate inputs produce
// a deterministic angle of 0 rather than NaN.
const epsilon = 1e-9

type vec3 struct {
	x, y, z float64
}

// sub returns the vector from b to a (a − b).
func sub(a, b landmark.Point) vec3 {
	return vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func dot(a, b vec3) float64 {
	return a.x*b.x + a.y*b.y + a.z*b.z
}

func cross(a, b vec3) vec3 {
	return vec3{
		a.y*b.z - a.z*b.y,
		a.z*b.x - a.x*b.z,
		a.x*b.y - a.y*b.x,
	}
}

func (v vec3) norm() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
}

// unit normalizes v. Near-zero-length vectors return the zero vector.
func unit(v vec3) vec3 {
	n := v.norm()
	if n < epsilon {
		return vec3{}
	}
	return vec3{v.x / n, v.y / n, v.z / n}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// angleDeg returns the angle between a and b in degrees, in [0, 180].
// Degenerate vectors yield 0.
func angleDeg(a, b vec3) float64 {
	ua, ub := unit(a), unit(b)
	if ua == (vec3{}) || ub == (vec3{}) {
		return 0
	}
	return math.Acos(clamp(dot(ua, ub), -1, 1)) * 180 / math.Pi
}

// pointDistance returns the Euclidean distance between two landmarks.
func pointDistance(a, b landmark.Point) float64 {
	return sub(a, b).norm()
}
