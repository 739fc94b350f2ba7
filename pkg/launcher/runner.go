package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gnasmp/gnasctl/internal/ptyrun"
)

// Runner executes an invocation and blocks until it finishes.
type Runner interface {
	Run(ctx context.Context, inv *Invocation) error
}

// ExitError reports that the training program exited with a non-zero code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("training program exited with code %d", e.Code)
}

// ExitCode maps the result of a run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

const DefaultGracePeriod = 10 * time.Second

var _ Runner = &LocalRunner{}

// LocalRunner runs the training program as a child of this process.
type LocalRunner struct {
	Stdout io.Writer
	Stderr io.Writer

	// PTY attaches the child to a pseudo-terminal; stdout and stderr are then
	// merged into Stdout.
	PTY bool

	// GracePeriod is how long the child gets to exit after an interrupt
	// before it is killed.
	GracePeriod time.Duration
}

func (r *LocalRunner) Run(ctx context.Context, inv *Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Env = inv.Env
	cmd.Dir = inv.Dir
	cmd.Cancel = func() error {
		log.Warn("Interrupting training program", "runId", inv.RunID, "pid", cmd.Process.Pid)
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.GracePeriod
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var err error
	if r.PTY {
		err = ptyrun.Run(cmd, stdout, ptyrun.WithSizeOf(os.Stdout))
	} else {
		// Stdin stays closed: a background process group reading the terminal
		// would be stopped.
		ownProcessGroup(cmd)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err = cmd.Start(); err != nil {
			return fmt.Errorf("failed to start %s: %w", inv.Program, err)
		}
		err = cmd.Wait()
	}

	return classify(err)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			code = 128 + int(status.Signal())
		}
		if code < 0 {
			code = 1
		}
		return &ExitError{Code: code}
	}
	return err
}
