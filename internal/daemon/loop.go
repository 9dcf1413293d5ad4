// Package daemon runs the event loop that keeps bars in sync with the
// compositor and drives their animations.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/limbo/internal/animation"
	"github.com/1broseidon/limbo/internal/bar"
	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/sysmon"
	"github.com/1broseidon/limbo/internal/workspaces"
)

// ErrStreamClosed is returned by Run when the compositor event stream ends
// for good.
var ErrStreamClosed = errors.New("compositor event stream closed")

// ErrNotRunning is returned by control calls made after Run has returned.
var ErrNotRunning = errors.New("daemon loop is not running")

// Desktop is the part of the compositor facade the loop forwards user
// actions to.
type Desktop interface {
	FocusWorkspace(id compositor.WorkspaceID) error
	CycleWorkspace(forward bool) error
}

// StyleLoader re-reads the configuration and returns the new style.
type StyleLoader func() (workspaces.Style, error)

// Config holds configuration for the loop.
type Config struct {
	// Backend names the compositor, for status reports.
	Backend string
	// Events is the supervised compositor stream.
	Events  <-chan compositor.Event
	Desktop Desktop
	Style   workspaces.Style
	// Reload is called for RELOAD requests and config file changes. Nil
	// disables reloading.
	Reload StyleLoader
	// ConfigChanges carries config file change notifications. May be nil.
	ConfigChanges <-chan string
	// System carries system load samples. May be nil.
	System <-chan sysmon.Reading
	// SystemFormat turns samples into the segments added to every frame.
	SystemFormat sysmon.Formatter
	Renderers    []bar.Renderer
	// TickInterval defaults to animation.TickInterval.
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Loop owns all bar state. Only the goroutine running Run touches it; other
// goroutines reach it through closures sent on requests.
type Loop struct {
	backend       string
	events        <-chan compositor.Event
	desktop       Desktop
	reload        StyleLoader
	configChanges <-chan string
	system        <-chan sysmon.Reading
	systemFormat  sysmon.Formatter
	renderers     []bar.Renderer
	tickInterval  time.Duration
	logger        *slog.Logger

	manager   *bar.Manager
	infos     []compositor.WorkspaceInfo
	reading   *sysmon.Reading
	started   time.Time
	lastEvent time.Time

	requests chan func()
	done     chan struct{}
}

// New creates a loop. Call AddRenderer before Run if needed.
func New(cfg Config) *Loop {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = animation.TickInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loop{
		backend:       cfg.Backend,
		events:        cfg.Events,
		desktop:       cfg.Desktop,
		reload:        cfg.Reload,
		configChanges: cfg.ConfigChanges,
		system:        cfg.System,
		systemFormat:  cfg.SystemFormat,
		renderers:     append([]bar.Renderer(nil), cfg.Renderers...),
		tickInterval:  interval,
		logger:        logger,
		manager:       bar.NewManager(cfg.Style),
		requests:      make(chan func()),
		done:          make(chan struct{}),
	}
}

// AddRenderer registers another renderer. It must be called before Run.
func (l *Loop) AddRenderer(r bar.Renderer) {
	l.renderers = append(l.renderers, r)
}

// Run processes events until ctx is cancelled (nil) or the event stream
// closes (ErrStreamClosed).
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.started = time.Now()

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	l.logger.Info("event loop started", "backend", l.backend)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopped")
			return nil

		case ev, ok := <-l.events:
			if !ok {
				l.logger.Error("compositor event stream closed")
				return ErrStreamClosed
			}
			l.handleEvent(ev)

		case <-tick:
			l.manager.Tick()
			l.render()

		case r, ok := <-l.system:
			if !ok {
				l.system = nil
				break
			}
			l.reading = &r
			l.render()

		case fn := <-l.requests:
			fn()

		case path := <-l.configChanges:
			l.logger.Info("config file changed, reloading", "path", path)
			if err := l.reloadStyle(); err != nil {
				l.logger.Warn("config reload failed, keeping previous style", "error", err)
			}
		}

		// Tick only while something is animating.
		switch running := l.manager.Running(); {
		case running && ticker == nil:
			ticker = time.NewTicker(l.tickInterval)
			tick = ticker.C
			l.logger.Debug("animation ticker started")
		case !running && ticker != nil:
			ticker.Stop()
			ticker, tick = nil, nil
			l.logger.Debug("animation ticker stopped")
		}
	}
}

func (l *Loop) handleEvent(ev compositor.Event) {
	switch ev := ev.(type) {
	case compositor.WorkspacesChanged:
		l.infos = ev.Workspaces
		l.lastEvent = time.Now()
		l.manager.Apply(ev.Workspaces)
		l.logger.Debug("workspaces changed", "event", ev.Kind(), "count", len(ev.Workspaces))
		l.render()
	default:
		l.logger.Debug("ignoring event", "event", ev.Kind())
	}
}

func (l *Loop) reloadStyle() error {
	if l.reload == nil {
		return errors.New("reload not configured")
	}
	style, err := l.reload()
	if err != nil {
		return err
	}
	l.manager.SetStyle(style, l.infos)
	l.render()
	l.logger.Info("style reloaded")
	return nil
}

func (l *Loop) render() {
	if len(l.renderers) == 0 {
		return
	}
	frames := l.frames()
	for _, r := range l.renderers {
		if err := r.Render(frames); err != nil {
			l.logger.Debug("render failed", "error", err)
		}
	}
}

// frames snapshots every bar with the latest system load attached.
func (l *Loop) frames() []bar.Frame {
	frames := l.manager.Frames()
	if l.reading == nil {
		return frames
	}
	items := l.systemFormat.Format(*l.reading)
	for i := range frames {
		frames[i].System = items
	}
	return frames
}
