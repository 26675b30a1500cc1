package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of progressive frames to accumulate. Zero means no
	// budget: interactive renderers keep refining until closed.
	SamplesPerPixel uint32
}
