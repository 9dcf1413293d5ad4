package daemon

import (
	"context"
	"slices"
	"time"

	"github.com/1broseidon/limbo/internal/bar"
	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/ipc"
)

var _ ipc.Controller = (*Loop)(nil)

// do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.requests <- wrapped:
	case <-l.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	// Once accepted the closure always runs; Run does not return mid-request.
	<-finished
	return nil
}

// Status implements ipc.Controller.
func (l *Loop) Status(ctx context.Context) (ipc.StatusData, error) {
	var status ipc.StatusData
	err := l.do(ctx, func() {
		status = ipc.StatusData{
			Backend:        l.backend,
			Outputs:        l.manager.Outputs(),
			WorkspaceCount: len(l.infos),
			Animating:      l.manager.Running(),
			UptimeSeconds:  int64(time.Since(l.started).Seconds()),
			DaemonRunning:  true,
		}
		if l.reading != nil {
			r := *l.reading
			status.System = &r
		}
	})
	return status, err
}

// Workspaces implements ipc.Controller.
func (l *Loop) Workspaces(ctx context.Context) ([]compositor.WorkspaceInfo, error) {
	var infos []compositor.WorkspaceInfo
	err := l.do(ctx, func() {
		infos = slices.Clone(l.infos)
	})
	return infos, err
}

// Frames implements ipc.Controller.
func (l *Loop) Frames(ctx context.Context) ([]bar.Frame, error) {
	var frames []bar.Frame
	err := l.do(ctx, func() {
		frames = l.frames()
	})
	return frames, err
}

// Reload implements ipc.Controller.
func (l *Loop) Reload(ctx context.Context) error {
	var reloadErr error
	if err := l.do(ctx, func() {
		reloadErr = l.reloadStyle()
	}); err != nil {
		return err
	}
	return reloadErr
}

// FocusWorkspace implements ipc.Controller. It runs on the caller's
// goroutine; the facade is safe for concurrent use.
func (l *Loop) FocusWorkspace(ctx context.Context, id compositor.WorkspaceID) error {
	if err := l.desktop.FocusWorkspace(id); err != nil {
		l.logger.Warn("focus workspace failed", "id", id, "error", err)
		return err
	}
	return nil
}

// CycleWorkspace implements ipc.Controller.
func (l *Loop) CycleWorkspace(ctx context.Context, forward bool) error {
	if err := l.desktop.CycleWorkspace(forward); err != nil {
		l.logger.Warn("cycle workspace failed", "forward", forward, "error", err)
		return err
	}
	return nil
}
