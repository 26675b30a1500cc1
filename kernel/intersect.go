package kernel

import (
	"math"

	"github.com/lumen-render/lumen/types"
)

// Ray with origin and direction. The direction is not kept unit-length
// between construction sites; code that depends on unit length
// normalizes at the point of use.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Hit describes the closest intersection found by Scene.Intersect.
// Transient; produced and consumed within a single bounce.
type Hit struct {
	T        float32
	Point    types.Vec3
	Normal   types.Vec3
	Material Material
}

// intersect solves the sphere quadratic and returns the closest root
// inside (tMin, tMax), preferring the near root over the far one.
func (s *Sphere) intersect(r Ray, tMin, tMax float32) (float32, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc <= 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := (-b - sqrtDisc) / (2 * a)
	if t <= tMin || t >= tMax {
		t = (-b + sqrtDisc) / (2 * a)
		if t <= tMin || t >= tMax {
			return 0, false
		}
	}
	return t, true
}

// Intersect tests the ray against every primitive in order, shrinking
// the search interval to the closest hit found so far. The returned
// normal is (point - center) / radius, so negative-radius primitives
// report an inward-facing normal.
func (sc Scene) Intersect(r Ray, tMin, tMax float32) (Hit, bool) {
	var hit Hit
	found := false
	closest := tMax

	for i := range sc {
		t, ok := sc[i].intersect(r, tMin, closest)
		if !ok {
			continue
		}
		found = true
		closest = t

		point := r.At(t)
		hit = Hit{
			T:        t,
			Point:    point,
			Normal:   point.Sub(sc[i].Center).Mul(1 / sc[i].Radius),
			Material: sc[i].Material,
		}
	}

	return hit, found
}
