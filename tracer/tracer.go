// Package tracer defines the contract between the renderer and the
// compute backends that execute the per-pixel kernel. A renderer splits
// each frame into horizontal blocks and enqueues one block request per
// attached tracer; tracers process requests asynchronously and signal
// completion through the request's channels.
package tracer

import "time"

// UpdateType tags buffered tracer state updates.
type UpdateType uint8

const (
	// UpdateCamera carries a kernel.Basis payload.
	UpdateCamera UpdateType = iota
)

// Tracer capability flags.
type Flag uint8

const (
	// Local tracers run in-process and share the host address space.
	Local Flag = 1 << iota
)

// BlockRequest is a unit of work processed by a tracer: a horizontal
// band of BlockH rows starting at row BlockY.
type BlockRequest struct {
	BlockY uint32
	BlockH uint32

	// Number of sequential frames rendered from the current camera
	// position, including this one. Seeds the per-pixel random streams
	// and scales the accumulated average.
	FrameCount uint32

	// A channel to signal on block completion with the number of
	// completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Stats describes the last block processed by a tracer. The scheduler
// feeds these back into the next frame's block assignment.
type Stats struct {
	BlockH     uint32
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get tracer capability flags.
	Flags() Flag

	// Get a relative computation speed estimate used for the initial
	// block assignment before any timing feedback exists.
	Speed() uint32

	// Setup the tracer for a frame size. The accumulation and frame
	// buffers are shared with the renderer and other tracers; each
	// tracer only ever touches the rows it is assigned.
	Init(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer. Changes are
	// grouped by type and the latest update of a type wins; they are
	// applied before the next enqueued block is processed.
	Update(UpdateType, interface{})

	// Retrieve last block statistics.
	Stats() *Stats
}
