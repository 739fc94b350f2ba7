package launcher

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Launch runs inv with runner and, when recorder is not nil, persists the
// outcome. The returned error is the runner's error; a failure to write the
// record is logged and does not mask it.
func Launch(ctx context.Context, runner Runner, inv *Invocation, recorder *Recorder) error {
	log.Info("Launching training run",
		"runId", inv.RunID,
		"profile", inv.Profile,
		inv.DeviceEnv, inv.Devices,
		"genotype", inv.Genotype,
	)
	log.Debug("Command line", "runId", inv.RunID, "cmd", inv.CommandLine())

	started := time.Now()
	err := runner.Run(ctx, inv)
	finished := time.Now()

	if err != nil {
		log.Error("Training run failed", "runId", inv.RunID, "exitCode", ExitCode(err), "error", err)
	} else {
		log.Info("Training run finished", "runId", inv.RunID, "duration", finished.Sub(started).Round(time.Second))
	}

	if recorder != nil && recorder.Dir != "" {
		path, werr := recorder.Write(newRecord(inv, runnerName(runner), started, finished, err))
		if werr != nil {
			log.Error("Failed to write run record", "runId", inv.RunID, "error", werr)
		} else {
			log.Debug("Wrote run record", "path", path)
		}
	}

	return err
}

// Named is implemented by runners that want a readable name in run records.
type Named interface {
	Name() string
}

func runnerName(r Runner) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}

func (r *LocalRunner) Name() string {
	if r.PTY {
		return "local-pty"
	}
	return "local"
}
