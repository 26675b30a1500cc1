// Package cpu implements a tracer that executes the path tracing
// kernel on the host CPU, fanning frame rows out to a pool of worker
// goroutines. Each pixel invocation owns its random stream and its
// accumulation cell, so workers never contend on shared state.
package cpu

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/lumen-render/lumen/kernel"
	"github.com/lumen-render/lumen/log"
	"github.com/lumen-render/lumen/tracer"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex

	// The tracer id.
	id string

	// Number of worker goroutines a block is split across.
	numWorkers int

	// Read-only per-frame state passed to every invocation.
	uniforms kernel.Uniforms

	// The primitive list traced by this tracer.
	scene kernel.Scene

	// Shared buffers owned by the renderer. This tracer only writes
	// the rows assigned by its block requests.
	accumBuffer []float32
	frameBuffer []uint8

	// A buffer for queuing updates. Updates are grouped by type and
	// the latest update always overwrites the previous one.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the request worker to exit.
	closeChan chan struct{}

	// Statistics for the last rendered block.
	stats *tracer.Stats
}

// NewTracer creates a tracer that renders blocks with numWorkers
// goroutines. A numWorkers value <= 0 selects one worker per logical
// CPU.
func NewTracer(id string, numWorkers int) tracer.Tracer {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		numWorkers:   numWorkers,
		scene:        kernel.DefaultScene,
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		// Small buffer so a renderer enqueueing the next frame right
		// after completion never races the worker back to its select.
		blockReqChan: make(chan tracer.BlockRequest, 4),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get tracer capability flags.
func (tr *cpuTracer) Flags() tracer.Flag {
	return tracer.Local
}

// Get the relative computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return uint32(tr.numWorkers)
}

// Setup the tracer for a frame size and attach the shared buffers.
func (tr *cpuTracer) Init(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error {
	tr.Lock()
	defer tr.Unlock()

	if frameW == 0 || frameH == 0 {
		return fmt.Errorf("cpu tracer: invalid frame dimensions %dx%d", frameW, frameH)
	}
	if uint32(len(accumBuffer)) != frameW*frameH*4 {
		return fmt.Errorf("cpu tracer: accumulation buffer size %d does not match %dx%d frame", len(accumBuffer), frameW, frameH)
	}
	if uint32(len(frameBuffer)) != frameW*frameH*4 {
		return fmt.Errorf("cpu tracer: frame buffer size %d does not match %dx%d frame", len(frameBuffer), frameW, frameH)
	}

	tr.uniforms.Width = frameW
	tr.uniforms.Height = frameH
	tr.accumBuffer = accumBuffer
	tr.frameBuffer = frameBuffer

	if tr.closeChan == nil {
		tr.closeChan = make(chan struct{})
		go tr.processRequests(tr.closeChan)
	}

	tr.logger.Infof("initialized for %dx%d frame with %d workers", frameW, frameH, tr.numWorkers)
	return nil
}

// Shutdown and cleanup tracer. The lock is released while waiting for
// the request worker's ack; the worker takes it to apply pending
// changes and must be able to make progress.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	if closeChan == nil {
		return
	}

	closeChan <- struct{}{}
	<-closeChan
	close(closeChan)
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// Drop the request if the worker is not listening.
		tr.logger.Error("request processor did not receive block request")
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()

	tr.updateBuffer[updateType] = data
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// processRequests is the request worker loop. Blocks are processed
// strictly in arrival order so a frame's accumulation writes are fully
// ordered after the previous frame's.
func (tr *cpuTracer) processRequests(closeChan chan struct{}) {
	for {
		select {
		case <-closeChan:
			closeChan <- struct{}{}
			return
		case blockReq := <-tr.blockReqChan:
			start := time.Now()

			if err := tr.validateRequest(blockReq); err != nil {
				blockReq.ErrChan <- err
				continue
			}

			tr.applyPendingChanges()
			tr.uniforms.FrameCount = blockReq.FrameCount
			tr.renderBlock(blockReq)

			tr.stats.BlockH = blockReq.BlockH
			tr.stats.RenderTime = time.Since(start)
			blockReq.DoneChan <- blockReq.BlockH
		}
	}
}

func (tr *cpuTracer) validateRequest(blockReq tracer.BlockRequest) error {
	if blockReq.BlockY+blockReq.BlockH > tr.uniforms.Height {
		return fmt.Errorf("cpu tracer: block [%d, %d) exceeds frame height %d",
			blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.uniforms.Height)
	}
	if blockReq.FrameCount == 0 {
		return fmt.Errorf("cpu tracer: frame count must start at 1")
	}
	return nil
}

// applyPendingChanges drains the update buffer into the uniforms.
func (tr *cpuTracer) applyPendingChanges() {
	tr.Lock()
	defer tr.Unlock()

	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateCamera:
			tr.uniforms.Camera = data.(kernel.Basis)
		}
		delete(tr.updateBuffer, updateType)
	}
}

// renderBlock fans the block's rows out to the worker pool. Rows are
// disjoint so workers share the output buffers without synchronization.
func (tr *cpuTracer) renderBlock(blockReq tracer.BlockRequest) {
	rows := make(chan uint32, blockReq.BlockH)
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		rows <- y
	}
	close(rows)

	uniforms := tr.uniforms

	var wg sync.WaitGroup
	for i := 0; i < tr.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				tr.renderRow(&uniforms, y)
			}
		}()
	}
	wg.Wait()
}

func (tr *cpuTracer) renderRow(uniforms *kernel.Uniforms, y uint32) {
	for x := uint32(0); x < uniforms.Width; x++ {
		color := kernel.TracePixel(uniforms, tr.scene, tr.accumBuffer, x, y)

		idx := (y*uniforms.Width + x) * 4
		tr.frameBuffer[idx] = uint8(color[0]*255 + 0.5)
		tr.frameBuffer[idx+1] = uint8(color[1]*255 + 0.5)
		tr.frameBuffer[idx+2] = uint8(color[2]*255 + 0.5)
		tr.frameBuffer[idx+3] = 255
	}
}
