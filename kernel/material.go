package kernel

import (
	"math"

	"github.com/lumen-render/lumen/types"
)

const glassIOR float32 = 1.5

var (
	metalTint    = types.XYZ(0.7, 0.6, 0.5)
	diffuseTint  = types.XYZ(0.7, 0.3, 0.3)
	glassTint    = types.XYZ(1, 1, 1)
	checkerLight = types.XYZ(0.8, 0.8, 0.8)
	checkerDark  = types.XYZ(0.3, 0.3, 0.3)
)

// Scatter produces the next ray and attenuation color for a hit. A
// false return forces the path to terminate to black (a metal bounce
// that would re-enter the surface).
func Scatter(r Ray, hit Hit, rng *Rng) (Ray, types.Vec3, bool) {
	switch hit.Material {
	case MatCheckerDiffuse:
		dir := hit.Normal.Add(rng.InUnitSphere())
		return Ray{Origin: hit.Point, Dir: dir}, checkerColor(hit.Point), true

	case MatDiffuse:
		dir := hit.Normal.Add(rng.InUnitSphere())
		return Ray{Origin: hit.Point, Dir: dir}, diffuseTint, true

	case MatMetal:
		scattered := reflect(r.Dir.Normalize(), hit.Normal)
		if scattered.Dot(hit.Normal) <= 0 {
			return Ray{}, types.Vec3{}, false
		}
		return Ray{Origin: hit.Point, Dir: scattered}, metalTint, true

	case MatGlass:
		return scatterGlass(r, hit, rng)
	}

	return Ray{}, types.Vec3{}, false
}

// checkerColor selects between the two ground tones with a 2D checker
// in the xz plane.
func checkerColor(p types.Vec3) types.Vec3 {
	if sinf(3*p[0])*sinf(3*p[2]) > 0 {
		return checkerLight
	}
	return checkerDark
}

// scatterGlass handles the dielectric shell: reflect on total internal
// reflection or with Schlick probability, refract otherwise. Clear
// glass absorbs nothing.
func scatterGlass(r Ray, hit Hit, rng *Rng) (Ray, types.Vec3, bool) {
	unitDir := r.Dir.Normalize()

	outward := hit.Normal
	etaRatio := 1 / glassIOR
	if unitDir.Dot(hit.Normal) > 0 {
		// Leaving the medium.
		outward = hit.Normal.Neg()
		etaRatio = glassIOR
	}

	cosTheta := minf(outward.Dot(unitDir.Neg()), 1)
	sinTheta := sqrtf(1 - cosTheta*cosTheta)

	var dir types.Vec3
	if etaRatio*sinTheta > 1 || schlick(cosTheta, etaRatio) > rng.Float() {
		dir = reflect(unitDir, outward)
	} else {
		dir = refract(unitDir, outward, etaRatio)
	}

	return Ray{Origin: hit.Point, Dir: dir}, glassTint, true
}

// reflect mirrors v about the normal n. Assumes v is unit-length.
func reflect(v, n types.Vec3) types.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// refract bends the unit direction uv through a surface with normal n
// using the perpendicular/parallel decomposition of Snell's law.
func refract(uv, n types.Vec3, etaRatio float32) types.Vec3 {
	cosTheta := minf(n.Dot(uv.Neg()), 1)
	perp := uv.Add(n.Mul(cosTheta)).Mul(etaRatio)
	parallel := n.Mul(-sqrtf(absf(1 - perp.LenSq())))
	return perp.Add(parallel)
}

// schlick approximates the Fresnel reflectance at the given incidence.
func schlick(cosine, etaRatio float32) float32 {
	r0 := (1 - etaRatio) / (1 + etaRatio)
	r0 *= r0
	return r0 + (1-r0)*powf(1-cosine, 5)
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
