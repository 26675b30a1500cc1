package kernel

import (
	"github.com/lumen-render/lumen/types"
)

const (
	// Seed scrambler applied to the frame index so that consecutive
	// frames decorrelate each pixel's random stream.
	seedScramble uint32 = 2654435769

	// Rejection sampling attempts before falling back to a normalized
	// candidate. Bounds the worst-case cost of a single scatter.
	maxSphereSampleTries = 10
)

// Rng is a per-invocation pseudo-random stream. Each pixel owns one
// instance per frame; instances are never shared between pixels.
type Rng struct {
	state uint32
}

// SeedRng derives the deterministic per-pixel stream for a frame.
func SeedRng(x, y, width, frame uint32) Rng {
	return Rng{state: (x + y*width) ^ (frame * seedScramble)}
}

// Float advances the state with a 32-bit PCG-style permutation and
// returns the next value in [0, 1]. The sequence is bit-reproducible
// for a given seed.
func (r *Rng) Float() float32 {
	r.state = r.state*747796405 + 2891336453
	word := ((r.state >> ((r.state >> 28) + 4)) ^ r.state) * 277803737
	r.state = (word >> 22) ^ word
	return float32(r.state) / 4294967295.0
}

// InUnitSphere rejection-samples a point inside the unit sphere. After
// maxSphereSampleTries consecutive rejections the last candidate is
// normalized and returned instead; slightly biased but bounded.
func (r *Rng) InUnitSphere() types.Vec3 {
	var p types.Vec3
	for i := 0; i < maxSphereSampleTries; i++ {
		p = types.XYZ(2*r.Float()-1, 2*r.Float()-1, 2*r.Float()-1)
		if p.LenSq() < 1 {
			return p
		}
	}
	return p.Normalize()
}
