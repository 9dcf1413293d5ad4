// Package desktop selects the running compositor and exposes one interface
// over whichever backend was found.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/compositor/hyprland"
	"github.com/1broseidon/limbo/internal/compositor/niri"
)

// ErrNoCompatibleEnvironment is returned when neither Hyprland nor niri
// answers.
var ErrNoCompatibleEnvironment = errors.New("no compatible compositor found (need Hyprland or niri)")

// Kind identifies the active backend.
type Kind int

const (
	KindHyprland Kind = iota + 1
	KindNiri
)

func (k Kind) String() string {
	switch k {
	case KindHyprland:
		return "hyprland"
	case KindNiri:
		return "niri"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Desktop wraps exactly one backend, chosen once at startup.
type Desktop struct {
	kind     Kind
	hyprland *hyprland.Client
	niri     *niri.Client
	logger   *slog.Logger
}

// New probes Hyprland first, then niri.
func New(ctx context.Context, logger *slog.Logger) (*Desktop, error) {
	if logger == nil {
		logger = slog.Default()
	}

	hc, err := hyprland.New(logger)
	if err == nil {
		v, probeErr := hc.Probe(ctx)
		if probeErr == nil {
			logger.Info("using hyprland backend", "version", v.Tag)
			return FromHyprland(hc, logger), nil
		}
		err = probeErr
	}
	logger.Debug("hyprland unavailable", "error", err)

	nc, err := niri.Dial(logger)
	if err == nil {
		logger.Info("using niri backend")
		return FromNiri(nc, logger), nil
	}
	logger.Debug("niri unavailable", "error", err)

	return nil, ErrNoCompatibleEnvironment
}

// FromHyprland wraps an existing Hyprland client.
func FromHyprland(c *hyprland.Client, logger *slog.Logger) *Desktop {
	return &Desktop{kind: KindHyprland, hyprland: c, logger: loggerOrDefault(logger)}
}

// FromNiri wraps an existing niri client.
func FromNiri(c *niri.Client, logger *slog.Logger) *Desktop {
	return &Desktop{kind: KindNiri, niri: c, logger: loggerOrDefault(logger)}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Kind reports the active backend.
func (d *Desktop) Kind() Kind {
	return d.kind
}

// FocusWorkspace switches to the workspace with the given id.
func (d *Desktop) FocusWorkspace(id compositor.WorkspaceID) error {
	switch d.kind {
	case KindHyprland:
		return d.hyprland.FocusWorkspace(id)
	case KindNiri:
		return d.niri.FocusWorkspace(id)
	default:
		panic(fmt.Sprintf("desktop: unknown backend %v", d.kind))
	}
}

// CycleWorkspace moves to the next (forward) or previous workspace.
func (d *Desktop) CycleWorkspace(forward bool) error {
	switch d.kind {
	case KindHyprland:
		return d.hyprland.CycleWorkspace(forward)
	case KindNiri:
		return d.niri.CycleWorkspace(forward)
	default:
		panic(fmt.Sprintf("desktop: unknown backend %v", d.kind))
	}
}

// Subscribe opens one event stream on the backend. The channel closes when
// the stream ends.
func (d *Desktop) Subscribe(ctx context.Context) <-chan compositor.Event {
	switch d.kind {
	case KindHyprland:
		return d.hyprland.Subscribe(ctx)
	case KindNiri:
		return d.niri.Subscribe(ctx)
	default:
		panic(fmt.Sprintf("desktop: unknown backend %v", d.kind))
	}
}

// Close releases backend connections.
func (d *Desktop) Close() error {
	switch d.kind {
	case KindHyprland:
		return nil
	case KindNiri:
		return d.niri.Close()
	default:
		panic(fmt.Sprintf("desktop: unknown backend %v", d.kind))
	}
}
