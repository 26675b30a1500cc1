package renderer

type Renderer interface {
	// Render frame(s). For the default renderer this renders a single
	// progressive frame; interactive renderers block until the view is
	// closed.
	Render() error

	// Shutdown renderer and any attached tracers.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
