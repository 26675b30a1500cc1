package kernel

import (
	"math"
	"testing"

	"github.com/lumen-render/lumen/types"
)

var nan32 = float32(math.NaN())

func TestScrubNaN(t *testing.T) {
	type spec struct {
		in  types.Vec3
		exp types.Vec3
	}
	specs := []spec{
		{types.XYZ(0.1, 0.2, 0.3), types.XYZ(0.1, 0.2, 0.3)},
		{types.XYZ(nan32, 0.2, 0.3), types.Vec3{}},
		{types.XYZ(0.1, nan32, 0.3), types.Vec3{}},
		{types.XYZ(0.1, 0.2, nan32), types.Vec3{}},
	}

	for index, s := range specs {
		if got := ScrubNaN(s.in); got != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}
}

func TestAccumulateIgnoresGarbageOnFirstFrame(t *testing.T) {
	// The buffer contents are undefined before the first frame; frame 1
	// must overwrite rather than extend them.
	cell := []float32{99, -42, nan32, 7}

	sum := Accumulate(cell, types.XYZ(0.5, 0.25, 0.125), 1)

	exp := types.XYZW(0.5, 0.25, 0.125, 1)
	if sum != exp {
		t.Fatalf("expected first-frame sum %v; got %v", exp, sum)
	}
	if cell[0] != 0.5 || cell[1] != 0.25 || cell[2] != 0.125 || cell[3] != 1 {
		t.Fatalf("expected cell rewritten; got %v", cell)
	}
}

func TestAccumulateLinearity(t *testing.T) {
	samples := []types.Vec3{
		types.XYZ(0.5, 0.1, 0.9),
		types.XYZ(0.25, 0.75, 0.0),
		types.XYZ(1.5, 2.0, 0.5),
		types.XYZ(0.0, 0.0, 1.0),
	}

	cell := make([]float32, 4)
	var expSum types.Vec3
	for i, sample := range samples {
		Accumulate(cell, sample, uint32(i+1))
		expSum = expSum.Add(sample)
	}

	got := types.XYZ(cell[0], cell[1], cell[2])
	if got.Sub(expSum).Len() > 1e-5 {
		t.Fatalf("expected accumulated sum %v; got %v", expSum, got)
	}
	if cell[3] != float32(len(samples)) {
		t.Fatalf("expected %d samples recorded; got %v", len(samples), cell[3])
	}
}

func TestAccumulateNaNGuard(t *testing.T) {
	cell := make([]float32, 4)
	Accumulate(cell, types.XYZ(0.5, 0.5, 0.5), 1)
	Accumulate(cell, types.XYZ(nan32, nan32, nan32), 2)

	for i, v := range cell {
		if v != v {
			t.Fatalf("NaN leaked into accumulation cell component %d", i)
		}
		if v < 0 {
			t.Fatalf("negative cell component %d: %v", i, v)
		}
	}
	if cell[0] != 0.5 {
		t.Fatalf("expected poisoned sample to contribute zero; got %v", cell[0])
	}
}

func TestToneMapBounded(t *testing.T) {
	inputs := []types.Vec3{
		{0, 0, 0},
		{0.18, 0.18, 0.18},
		{1, 1, 1},
		{10, 100, 1000},
		{1e30, 1e30, 1e30},
	}

	for index, in := range inputs {
		got := ToneMapACES(in)
		for c := 0; c < 3; c++ {
			if got[c] < 0 || got[c] > 1 {
				t.Fatalf("[input %d] channel %d out of range: %v", index, c, got[c])
			}
		}
	}
}

func TestToneMapMonotonicOnGrays(t *testing.T) {
	prev := float32(-1)
	for x := float32(0); x <= 4; x += 0.05 {
		v := acesChannel(x)
		if v < prev {
			t.Fatalf("tone curve decreased at %v: %v < %v", x, v, prev)
		}
		prev = v
	}
}

func TestDisplayColor(t *testing.T) {
	// Four accumulated white samples average to 1.0, which the ACES
	// curve maps to ~0.804 and gamma lifts to ~0.906.
	sum := types.XYZW(4, 4, 4, 4)
	got := DisplayColor(sum, 4)

	exp := powf(2.54/3.16, 1/2.2)
	for c := 0; c < 3; c++ {
		if absf(got[c]-exp) > 1e-3 {
			t.Fatalf("channel %d: expected ~%v; got %v", c, exp, got[c])
		}
	}
	if got[3] != 1 {
		t.Fatalf("expected alpha 1; got %v", got[3])
	}
}
