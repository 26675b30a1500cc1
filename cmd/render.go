package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/lumen-render/lumen/renderer"
	"github.com/lumen-render/lumen/scene"
	"github.com/lumen-render/lumen/tracer"
	"github.com/lumen-render/lumen/tracer/cpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Create the tracer pool described by the cli flags. Each tracer gets
// its own worker pool; a zero worker count lets the tracer size its
// pool to the machine.
func setupTracers(ctx *cli.Context) []tracer.Tracer {
	numTracers := ctx.Int("tracers")
	if numTracers <= 0 {
		numTracers = 1
	}

	tracers := make([]tracer.Tracer, 0, numTracers)
	for i := 0; i < numTracers; i++ {
		tracers = append(tracers, cpu.NewTracer(fmt.Sprintf("cpu-%02d", i), ctx.Int("workers")))
	}
	return tracers
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
	}
	if opts.SamplesPerPixel == 0 {
		opts.SamplesPerPixel = 1
	}

	r, err := renderer.NewDefault(scene.Default(), tracer.NaiveScheduler(), setupTracers(ctx), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame at %d samples per pixel", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	start := time.Now()
	for r.FrameCount() < opts.SamplesPerPixel {
		if err = r.Render(); err != nil {
			return err
		}
	}
	logger.Noticef("rendered frame in %d ms", time.Since(start).Nanoseconds()/1e6)

	displayFrameStats(r.Stats())

	return saveFrame(r, ctx.String("out"))
}

// Render a continuously refining view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
	}

	r, err := renderer.NewInteractive(scene.Default(), tracer.PerfectScheduler(), setupTracers(ctx), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Render()
}

func saveFrame(r *renderer.Default, imgFile string) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, r.FrameImage()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Primary", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
