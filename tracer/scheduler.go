package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling
// algorithms. Schedule splits a frame into per-tracer block heights;
// the returned slice is index-aligned with the tracer list and always
// sums to frameH.
type BlockScheduler interface {
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler distributes rows proportionally to each tracer's
// static speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	return assignBySpeed(tracers, frameH)
}

// The perfect scheduler assumes the tracing workload of two subsequent
// frames is approximately equal and uses each tracer's measured
// rows-per-nanosecond rate from the previous frame to assign the next
// one. The first invocation falls back to static speed estimates.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// First schedule, or the tracer pool changed: no feedback yet.
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = assignBySpeed(tracers, frameH)
		return sch.blockAssignment
	}

	var total float64
	for _, tr := range tracers {
		stats := tr.Stats()
		total += float64(stats.BlockH) / float64(stats.RenderTime)
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, tr := range tracers {
		stats := tr.Stats()
		rate := float64(stats.BlockH) / float64(stats.RenderTime)
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(rate*scaler)))
		scheduledRows += sch.blockAssignment[idx]
	}

	// In case rows don't add up to the frame height append the missing
	// ones to the first tracer.
	sch.blockAssignment[0] += frameH - scheduledRows

	return sch.blockAssignment
}

func assignBySpeed(tracers []Tracer, frameH uint32) []uint32 {
	var total float64
	for _, tr := range tracers {
		total += float64(tr.Speed())
	}

	scaler := float64(frameH) / total
	assignment := make([]uint32, len(tracers))
	var scheduledRows uint32
	for idx, tr := range tracers {
		assignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.Speed())*scaler)))
		scheduledRows += assignment[idx]
	}

	assignment[0] += frameH - scheduledRows

	return assignment
}
