package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/urfave/cli"
)

// Info lists the tracers that would be attached for a render using the
// current cli flags.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	tracers := setupTracers(ctx)
	buf.WriteString(fmt.Sprintf("\nSystem provides %d logical CPU(s); attaching %d tracer(s):\n\n", runtime.NumCPU(), len(tracers)))
	for idx, tr := range tracers {
		buf.WriteString(fmt.Sprintf("  [Tracer %02d]\n    Id      %s\n    Flags   %d\n    Speed   %d\n\n", idx, tr.Id(), tr.Flags(), tr.Speed()))
	}

	logger.Notice(buf.String())
	return nil
}
