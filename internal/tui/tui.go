// Package tui draws a live preview of the bar in a terminal.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/1broseidon/limbo/internal/bar"
	"github.com/1broseidon/limbo/internal/compositor"
)

// Daemon is the part of the IPC client the viewer uses.
type Daemon interface {
	Subscribe(ctx context.Context, fn func([]bar.Frame) error) error
	FocusWorkspace(id compositor.WorkspaceID) error
	CycleWorkspace(forward bool) error
}

// TUI represents the terminal user interface state.
type TUI struct {
	daemon Daemon
	output string // only this output when set
	out    io.Writer

	mu        sync.Mutex
	frames    []bar.Frame
	lastError string

	// Terminal state
	oldState *term.State
	width    int
	height   int
}

// New creates a viewer. An empty output shows every output.
func New(daemon Daemon, output string) *TUI {
	return &TUI{
		daemon: daemon,
		output: output,
		out:    os.Stdout,
		width:  80,
		height: 24,
	}
}

// Run draws frames as the daemon renders them until the user quits, ctx is
// cancelled, or the subscription ends.
func (t *TUI) Run(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	t.oldState = oldState
	defer t.restore()

	t.updateSize()
	fmt.Fprint(t.out, "\x1b[?25l") // hide cursor

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	subErr := make(chan error, 1)
	go func() {
		subErr <- t.daemon.Subscribe(ctx, func(frames []bar.Frame) error {
			t.setFrames(frames)
			t.draw()
			return nil
		})
	}()

	// The reader goroutine stays blocked on stdin after Run returns; the
	// process exits right after.
	keys := make(chan []byte)
	go readKeys(os.Stdin, keys)

	t.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-subErr:
			if err != nil {
				return err
			}
			return nil
		case key, ok := <-keys:
			if !ok || t.handleInput(key) {
				return nil
			}
			t.updateSize()
			t.draw()
		}
	}
}

func readKeys(r io.Reader, keys chan<- []byte) {
	defer close(keys)
	buf := make([]byte, 32)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		key := make([]byte, n)
		copy(key, buf[:n])
		keys <- key
	}
}

func (t *TUI) restore() {
	if t.oldState != nil {
		term.Restore(int(os.Stdin.Fd()), t.oldState)
	}
	fmt.Fprint(t.out, "\x1b[0m")   // reset
	fmt.Fprint(t.out, "\x1b[?25h") // show cursor
	fmt.Fprint(t.out, "\x1b[2J")   // clear screen
	fmt.Fprint(t.out, "\x1b[H")    // home cursor
}

func (t *TUI) updateSize() {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.width = 80
		t.height = 24
		return
	}
	t.width = w
	t.height = h
}

func (t *TUI) setFrames(frames []bar.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = frames
}

func (t *TUI) setError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		t.lastError = ""
		return
	}
	t.lastError = err.Error()
}

func (t *TUI) draw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, "\x1b[H\x1b[2J"+rawLines(t.view()))
}

// handleInput processes one key read and reports whether to quit.
func (t *TUI) handleInput(key []byte) bool {
	switch string(key) {
	case "q", "\x03", "\x1b":
		return true
	case "l", "\x1b[C":
		t.setError(t.daemon.CycleWorkspace(true))
	case "h", "\x1b[D":
		t.setError(t.daemon.CycleWorkspace(false))
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			t.focusIdx(int(key[0] - '0'))
		}
	}
	return false
}

// focusIdx focuses the workspace at display position idx on the first
// shown output.
func (t *TUI) focusIdx(idx int) {
	t.mu.Lock()
	frames := t.visibleFrames()
	t.mu.Unlock()
	if len(frames) == 0 {
		return
	}
	for _, pill := range frames[0].Pills {
		if pill.Idx == idx {
			t.setError(t.daemon.FocusWorkspace(pill.ID))
			return
		}
	}
	t.setError(fmt.Errorf("no workspace %d on %s", idx, frames[0].Output))
}
