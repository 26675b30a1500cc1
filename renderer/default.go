// Package renderer drives frames through the attached tracers: it owns
// the persistent accumulation buffer, the display frame buffer and the
// frame counter, splits each frame into blocks via a scheduler and
// dispatches frames strictly one after another so per-pixel
// accumulation stays ordered across frame boundaries.
package renderer

import (
	"image"
	"time"

	"github.com/lumen-render/lumen/log"
	"github.com/lumen-render/lumen/scene"
	"github.com/lumen-render/lumen/tracer"
)

// Default is the offline progressive renderer. Each Render call
// accumulates one more sample per pixel into the shared buffers.
type Default struct {
	logger  log.Logger
	options Options

	camera    *scene.Camera
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer

	// Persistent per-pixel radiance sums (RGBA float32 per pixel) and
	// the displayable output (RGBA bytes per pixel). Shared with all
	// tracers; block assignments keep their writes disjoint.
	accumBuffer []float32
	frameBuffer []uint8

	// Frames accumulated since the last reset. The kernel treats the
	// first frame after a reset as an overwrite, so the buffers never
	// need explicit zeroing.
	frameCount uint32

	blockAssignments []uint32
	doneChan         chan uint32
	errChan          chan error

	stats FrameStats
}

// NewDefault creates a renderer over the given camera and tracer pool.
// The tracers are initialized against the renderer's shared buffers
// and primed with the camera's current basis.
func NewDefault(cam *scene.Camera, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (*Default, error) {
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if cam == nil {
		return nil, ErrCameraNotDefined
	}

	r := &Default{
		logger:      log.New("renderer"),
		options:     opts,
		camera:      cam,
		scheduler:   scheduler,
		tracers:     tracers,
		accumBuffer: make([]float32, opts.FrameW*opts.FrameH*4),
		frameBuffer: make([]uint8, opts.FrameW*opts.FrameH*4),
		doneChan:    make(chan uint32, len(tracers)),
		errChan:     make(chan error, len(tracers)),
	}

	for _, tr := range tracers {
		if err := tr.Init(opts.FrameW, opts.FrameH, r.accumBuffer, r.frameBuffer); err != nil {
			return nil, err
		}
	}
	r.pushCamera()

	return r, nil
}

// Render one progressive frame: schedule blocks across the tracer
// pool, dispatch them and wait for every row to complete.
func (r *Default) Render() error {
	start := time.Now()
	r.frameCount++

	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	var blockY, pendingRows uint32
	for idx, tr := range r.tracers {
		tr.Enqueue(tracer.BlockRequest{
			BlockY:     blockY,
			BlockH:     r.blockAssignments[idx],
			FrameCount: r.frameCount,
			DoneChan:   r.doneChan,
			ErrChan:    r.errChan,
		})
		blockY += r.blockAssignments[idx]
		pendingRows += r.blockAssignments[idx]
	}

	var completedRows uint32
	for completedRows < pendingRows {
		select {
		case rows := <-r.doneChan:
			completedRows += rows
		case err := <-r.errChan:
			return err
		}
	}

	r.collectStats(time.Since(start))
	return nil
}

// Shutdown renderer and all attached tracers.
func (r *Default) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
}

// Get statistics for the last rendered frame.
func (r *Default) Stats() FrameStats {
	return r.stats
}

// FrameCount returns the number of frames accumulated since the last
// reset.
func (r *Default) FrameCount() uint32 {
	return r.frameCount
}

// Camera returns the camera controlling this renderer's viewpoint.
func (r *Default) Camera() *scene.Camera {
	return r.camera
}

// UpdateCamera pushes the camera's current basis to all tracers and
// restarts accumulation; samples taken from the old viewpoint would
// ghost into the new one otherwise.
func (r *Default) UpdateCamera() {
	r.pushCamera()
	r.ResetAccumulation()
}

// ResetAccumulation discards all accumulated samples. The next frame
// renders as frame 1 and overwrites the stale buffer contents.
func (r *Default) ResetAccumulation() {
	r.frameCount = 0
}

// FrameImage copies the current display buffer into an image.
func (r *Default) FrameImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(r.options.FrameW), int(r.options.FrameH)))
	copy(img.Pix, r.frameBuffer)
	return img
}

// FrameBuffer exposes the raw display bytes for texture uploads.
func (r *Default) FrameBuffer() []uint8 {
	return r.frameBuffer
}

func (r *Default) pushCamera() {
	basis := r.camera.Basis()
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateCamera, basis)
	}
}

func (r *Default) collectStats(frameTime time.Duration) {
	r.stats.Tracers = r.stats.Tracers[:0]
	for idx, tr := range r.tracers {
		trStats := tr.Stats()
		r.stats.Tracers = append(r.stats.Tracers, TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockH:       trStats.BlockH,
			FramePercent: 100 * float32(trStats.BlockH) / float32(r.options.FrameH),
			RenderTime:   trStats.RenderTime,
		})
	}
	r.stats.AccumulatedSamples = r.frameCount
	r.stats.RenderTime = frameTime
}
