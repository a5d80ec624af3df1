// Package record captures microphone audio by driving an external capture
// command (sox by default) inside a pseudo-terminal. The PTY keeps the
// command's level meter flowing so the UI can show recording feedback.
package record

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"prism/internal/config"
)

// OutputPlaceholder marks where the capture file path goes in the
// configured argument list.
const OutputPlaceholder = "{output}"

const meterRows = 24
const meterCols = 80

// Recorder runs one capture command at a time and hands its meter output
// to the UI line by line.
type Recorder struct {
	runner  Runner
	command string
	args    []string
	dir     string

	mu      sync.Mutex
	cmd     *exec.Cmd
	ptmx    io.ReadWriteCloser
	path    string
	running bool
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithRunner swaps the PTY implementation. Tests inject a fake here.
func WithRunner(runner Runner) Option {
	return func(r *Recorder) { r.runner = runner }
}

// WithDir overrides where capture files are written.
func WithDir(dir string) Option {
	return func(r *Recorder) { r.dir = dir }
}

// New builds a recorder from the configured capture command.
func New(cfg config.RecorderConfig, opts ...Option) *Recorder {
	r := &Recorder{
		runner:  &CreackPTY{},
		command: cfg.Command,
		args:    cfg.Args,
		dir:     filepath.Join(os.TempDir(), "prism"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the capture command writing to a fresh file. The returned
// channel carries meter lines and closes when the command exits.
func (r *Recorder) Start(ctx context.Context) (<-chan string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil, errors.New("recorder is already running")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}

	path := filepath.Join(r.dir, uuid.NewString()+".wav")
	args := make([]string, len(r.args))
	for i, arg := range r.args {
		args[i] = strings.ReplaceAll(arg, OutputPlaceholder, path)
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	ptmx, err := r.runner.Start(ctx, cmd, Size{Rows: meterRows, Cols: meterCols})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", r.command, err)
	}

	lines := make(chan string, 64)
	go readMeter(ptmx, lines)

	r.cmd = cmd
	r.ptmx = ptmx
	r.path = path
	r.running = true
	return lines, nil
}

// Stop interrupts the capture command and returns the capture file path.
// SIGINT rather than SIGKILL so the command can finalize the file header.
func (r *Recorder) Stop() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return "", errors.New("recorder is not running")
	}

	if r.cmd != nil && r.cmd.Process != nil {
		_ = r.cmd.Process.Signal(os.Interrupt)
		// Wait errs with the interrupt status; that is the expected exit.
		_ = r.cmd.Wait()
	}
	if r.ptmx != nil {
		_ = r.ptmx.Close()
	}

	r.cmd = nil
	r.ptmx = nil
	r.running = false
	return r.path, nil
}

// Running reports whether a capture is in progress.
func (r *Recorder) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// OutputPath returns the file the current (or last) capture writes to.
func (r *Recorder) OutputPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// readMeter forwards meter lines until the PTY hits EOF. Capture meters
// redraw in place with carriage returns, so both \r and \n delimit lines.
// The channel drops lines when the UI falls behind rather than blocking.
func readMeter(ptmx io.Reader, lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(ptmx)
	scanner.Split(scanMeterLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case lines <- line:
		default:
		}
	}
}

func scanMeterLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
