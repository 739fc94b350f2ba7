// Package ptyrun runs a child process attached to a pseudo-terminal so that
// programs which only draw progress output on a tty still do so when their
// output is captured.
package ptyrun

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"github.com/gnasmp/gnasctl/internal/options"
	"github.com/moby/term"
)

type config struct {
	size *pty.Winsize
}

type Option = options.Option[config]

// WithSize sets the terminal size. Zero dimensions are ignored.
func WithSize(rows, cols uint16) Option {
	return options.OptionFunc[config](func(c *config) {
		if rows == 0 || cols == 0 {
			return
		}
		c.size = &pty.Winsize{Rows: rows, Cols: cols}
	})
}

// WithSizeOf copies the terminal size of f when f is a terminal.
func WithSizeOf(f *os.File) Option {
	return options.OptionFunc[config](func(c *config) {
		fd, isTerminal := term.GetFdInfo(f)
		if !isTerminal {
			return
		}
		ws, err := term.GetWinsize(fd)
		if err != nil {
			log.Debug("Failed to read terminal size", "error", err)
			return
		}
		if ws.Height == 0 || ws.Width == 0 {
			return
		}
		c.size = &pty.Winsize{Rows: ws.Height, Cols: ws.Width}
	})
}

// Run starts cmd on a new pseudo-terminal, copies everything it writes to
// out and waits for it to exit. cmd.Stdin, cmd.Stdout and cmd.Stderr are
// replaced by the terminal.
func Run(cmd *exec.Cmd, out io.Writer, opts ...Option) error {
	cfg := options.ApplyAll(&config{}, opts...)

	ptmx, err := pty.StartWithSize(cmd, cfg.size)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}
	defer ptmx.Close()

	copied := make(chan error, 1)
	go func() {
		_, err := io.Copy(out, ptmx)
		copied <- err
	}()

	waitErr := cmd.Wait()

	// The read side reports EIO once the child and all its descendants have
	// closed the terminal.
	if err := <-copied; err != nil && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
		log.Debug("PTY read error", "error", err)
	}
	return waitErr
}
