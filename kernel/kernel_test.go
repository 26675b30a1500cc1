package kernel

import (
	"testing"

	"github.com/lumen-render/lumen/types"
)

// testUniforms builds a frame state with the camera at the origin
// looking down -z across a square 90 degree frustum.
func testUniforms(w, h, frame uint32) *Uniforms {
	return &Uniforms{
		Width:      w,
		Height:     h,
		FrameCount: frame,
		Camera: Basis{
			Origin: types.XYZ(0, 0, 0),
			U:      types.XYZ(1, 0, 0),
			V:      types.XYZ(0, 1, 0),
			W:      types.XYZ(0, 0, -1),
		},
	}
}

func TestTracePixelDeterministic(t *testing.T) {
	u := testUniforms(8, 8, 1)

	accum1 := make([]float32, 8*8*4)
	accum2 := make([]float32, 8*8*4)

	for y := uint32(0); y < 8; y++ {
		for x := uint32(0); x < 8; x++ {
			c1 := TracePixel(u, DefaultScene, accum1, x, y)
			c2 := TracePixel(u, DefaultScene, accum2, x, y)
			if c1 != c2 {
				t.Fatalf("pixel (%d,%d) not reproducible: %v != %v", x, y, c1, c2)
			}
		}
	}

	for i := range accum1 {
		if accum1[i] != accum2[i] {
			t.Fatalf("accumulation cells diverged at %d: %v != %v", i, accum1[i], accum2[i])
		}
	}
}

func TestTracePixelOutputRange(t *testing.T) {
	const w, h = 4, 4
	u := testUniforms(w, h, 1)
	accum := make([]float32, w*h*4)

	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			c := TracePixel(u, DefaultScene, accum, x, y)
			for ch := 0; ch < 3; ch++ {
				if c[ch] < 0 || c[ch] > 1 {
					t.Fatalf("pixel (%d,%d) channel %d out of range: %v", x, y, ch, c[ch])
				}
			}
			if c[3] != 1 {
				t.Fatalf("pixel (%d,%d) alpha %v; expected 1", x, y, c[3])
			}
		}
	}

	// The raw accumulated radiance is finite and non-negative.
	for i, v := range accum {
		if v != v || v < 0 {
			t.Fatalf("accumulation cell %d invalid: %v", i, v)
		}
	}
}

func TestTracePixelAccumulatesAcrossFrames(t *testing.T) {
	const w, h = 4, 4
	const x, y = 2, 2
	accum := make([]float32, w*h*4)

	TracePixel(testUniforms(w, h, 1), DefaultScene, accum, x, y)

	cellIdx := (y*w + x) * 4
	frame1 := types.XYZ(accum[cellIdx], accum[cellIdx+1], accum[cellIdx+2])

	// Independently recompute frame 2's sample the way the kernel
	// derives it, then check the cell is the exact two-frame sum.
	u2 := testUniforms(w, h, 2)
	rng := SeedRng(x, y, w, 2)
	ray := PrimaryRay(u2, x, y, &rng)
	sample2 := ScrubNaN(TracePath(DefaultScene, ray, &rng))

	TracePixel(u2, DefaultScene, accum, x, y)

	exp := frame1.Add(sample2)
	got := types.XYZ(accum[cellIdx], accum[cellIdx+1], accum[cellIdx+2])
	if got != exp {
		t.Fatalf("expected cell sum %v after frame 2; got %v", exp, got)
	}
	if accum[cellIdx+3] != 2 {
		t.Fatalf("expected 2 samples recorded; got %v", accum[cellIdx+3])
	}
}

func TestCenterPixelHitsScene(t *testing.T) {
	// The camera looks straight at the matte sphere at z=-1; the center
	// pixel must accumulate something darker than raw sky.
	const w, h = 64, 64
	u := testUniforms(w, h, 1)
	accum := make([]float32, w*h*4)

	TracePixel(u, DefaultScene, accum, w/2, h/2)

	cellIdx := ((h/2)*w + w/2) * 4
	radiance := types.XYZ(accum[cellIdx], accum[cellIdx+1], accum[cellIdx+2])
	if radiance != radiance {
		t.Fatalf("non-finite center radiance %v", radiance)
	}
	sky := SkyColor(types.XYZ(0, 0, -1))
	if radiance == sky {
		t.Fatal("center pixel saw raw sky; expected a surface hit")
	}
}
