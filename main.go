package main

import (
	"os"

	"github.com/lumen-render/lumen/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	tracerFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "tracers",
			Value: 1,
			Usage: "number of tracers to attach",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "workers per tracer; 0 uses all logical CPUs",
		},
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "progressive path tracer for an analytic sphere scene"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "list the tracers that would be attached for a render",
			Flags:  tracerFlags,
			Action: cmd.Info,
		},
		{
			Name:   "render",
			Usage:  "render scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Accumulate the requested number of samples per pixel, tone-map the
result and write it out as a png image.`,
					Flags: append([]cli.Flag{
						cli.IntFlag{
							Name:  "width",
							Value: 512,
							Usage: "frame width",
						},
						cli.IntFlag{
							Name:  "height",
							Value: 512,
							Usage: "frame height",
						},
						cli.IntFlag{
							Name:  "spp",
							Value: 16,
							Usage: "samples per pixel",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					}, tracerFlags...),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive view of the scene",
					Description: `
Open an opengl window that progressively refines the image. Camera
motion (WASD, mouse drag, scroll or Z/X to zoom) restarts accumulation.`,
					Flags: append([]cli.Flag{
						cli.IntFlag{
							Name:  "width",
							Value: 512,
							Usage: "frame width",
						},
						cli.IntFlag{
							Name:  "height",
							Value: 512,
							Usage: "frame height",
						},
						cli.IntFlag{
							Name:  "spp",
							Value: 0,
							Usage: "sample budget per viewpoint; 0 refines until closed",
						},
					}, tracerFlags...),
					Action: cmd.RenderInteractive,
				},
			},
		},
	}

	app.Run(os.Args)
}
