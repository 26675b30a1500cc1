package kernel

import (
	"github.com/lumen-render/lumen/types"
)

// ACES filmic curve constants.
const (
	acesA float32 = 2.51
	acesB float32 = 0.03
	acesC float32 = 2.43
	acesD float32 = 0.59
	acesE float32 = 0.14
)

// ScrubNaN replaces a sample containing any NaN component with black.
// A NaN summed into an accumulation cell would poison every subsequent
// frame, so it must never reach the buffer.
func ScrubNaN(c types.Vec3) types.Vec3 {
	if c[0] != c[0] || c[1] != c[1] || c[2] != c[2] {
		return types.Vec3{}
	}
	return c
}

// Accumulate folds one radiance sample into a pixel's cell and returns
// the updated running sum. The previous contents are ignored on the
// first frame, so the host never needs to zero the buffer explicitly.
func Accumulate(cell []float32, sample types.Vec3, frameCount uint32) types.Vec4 {
	sample = ScrubNaN(sample)

	var prev types.Vec4
	if frameCount > 1 {
		prev = types.XYZW(cell[0], cell[1], cell[2], cell[3])
	}

	sum := prev.Add(sample.Vec4(1))
	cell[0], cell[1], cell[2], cell[3] = sum[0], sum[1], sum[2], sum[3]
	return sum
}

// ToneMapACES compresses linear radiance into [0,1] per channel.
func ToneMapACES(c types.Vec3) types.Vec3 {
	return types.XYZ(acesChannel(c[0]), acesChannel(c[1]), acesChannel(c[2]))
}

func acesChannel(x float32) float32 {
	v := (x * (acesA*x + acesB)) / (x*(acesC*x+acesD) + acesE)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GammaCorrect applies the display gamma of 2.2.
func GammaCorrect(c types.Vec3) types.Vec3 {
	const invGamma = 1 / 2.2
	return types.XYZ(powf(c[0], invGamma), powf(c[1], invGamma), powf(c[2], invGamma))
}

// DisplayColor converts a running radiance sum into the displayable
// pixel color: average, tone-map, gamma. Alpha is fixed at 1.
func DisplayColor(sum types.Vec4, frameCount uint32) types.Vec4 {
	avg := sum.Vec3().Mul(1 / float32(frameCount))
	return GammaCorrect(ToneMapACES(avg)).Vec4(1)
}
