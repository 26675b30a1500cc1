package kernel

import (
	"math"

	"github.com/lumen-render/lumen/types"
)

const (
	// Hard bounce cap. Guarantees every invocation terminates even in
	// degenerate all-mirror configurations.
	maxBounces = 50

	// Offset applied to secondary ray origins to avoid self-shadowing
	// re-intersection with the surface just left.
	rayEpsilon float32 = 0.001
)

var (
	skyHorizon = types.XYZ(1, 1, 1)
	skyZenith  = types.XYZ(0.5, 0.7, 1.0)
)

// TracePath performs one bounded random walk through the scene and
// returns a single radiance sample. Throughput accumulates each
// bounce's attenuation multiplicatively; escaped rays pick up the sky
// color, exhausted or absorbed paths return black.
func TracePath(sc Scene, r Ray, rng *Rng) types.Vec3 {
	throughput := types.XYZ(1, 1, 1)

	for bounce := 0; bounce < maxBounces; bounce++ {
		hit, ok := sc.Intersect(r, rayEpsilon, math.MaxFloat32)
		if !ok {
			return throughput.MulVec(SkyColor(r.Dir))
		}

		scattered, attenuation, alive := Scatter(r, hit, rng)
		if !alive {
			return types.Vec3{}
		}

		throughput = throughput.MulVec(attenuation)
		r = scattered
	}

	return types.Vec3{}
}

// SkyColor blends white into light blue by the vertical component of
// the escaping ray direction.
func SkyColor(dir types.Vec3) types.Vec3 {
	unit := dir.Normalize()
	t := 0.5 * (unit[1] + 1)
	return skyHorizon.Mul(1 - t).Add(skyZenith.Mul(t))
}
