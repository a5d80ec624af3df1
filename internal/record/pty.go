package record

import (
	"context"
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// Size is the pseudo-terminal geometry handed to the capture command.
type Size struct {
	Rows uint16
	Cols uint16
}

// Runner spawns a command inside a PTY. Implementations can be swapped
// (creack/pty in production, a fake in tests).
type Runner interface {
	Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error)
}

// CreackPTY implements Runner using github.com/creack/pty.
type CreackPTY struct{}

var _ Runner = (*CreackPTY)(nil)

// Start spawns cmd in a PTY with the given size. The caller stops the
// command by signalling it and closing the returned ReadWriteCloser.
func (c *CreackPTY) Start(_ context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error) {
	ws := &pty.Winsize{Rows: size.Rows, Cols: size.Cols}
	return pty.StartWithSize(cmd, ws)
}
