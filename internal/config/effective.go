package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Theme != nil {
		for name, hex := range raw.Theme.Colors {
			cfg.Theme.Colors[name] = hex
		}
	}
	if ws := raw.Workspaces; ws != nil {
		if c := ws.Colors; c != nil {
			apply(&cfg.Workspaces.Colors.Normal, c.Normal)
			apply(&cfg.Workspaces.Colors.HasWindows, c.HasWindows)
			apply(&cfg.Workspaces.Colors.Active, c.Active)
		}
		if w := ws.Width; w != nil {
			apply(&cfg.Workspaces.Width.Inactive, w.Inactive)
			apply(&cfg.Workspaces.Width.Active, w.Active)
		}
	}
	if a := raw.Animation; a != nil {
		apply(&cfg.Animation.WidthDurationMs, a.WidthDurationMs)
		apply(&cfg.Animation.WidthEasing, a.WidthEasing)
		apply(&cfg.Animation.ColorDurationMs, a.ColorDurationMs)
		apply(&cfg.Animation.ColorEasing, a.ColorEasing)
	}
	if r := raw.Reconnect; r != nil {
		apply(&cfg.Reconnect.InitialIntervalMs, r.InitialIntervalMs)
		apply(&cfg.Reconnect.MaxIntervalMs, r.MaxIntervalMs)
		apply(&cfg.Reconnect.MaxElapsedMs, r.MaxElapsedMs)
	}
	if sm := raw.Sysmon; sm != nil {
		apply(&cfg.Sysmon.IntervalMs, sm.IntervalMs)
		apply(&cfg.Sysmon.Precision, sm.Precision)
		apply(&cfg.Sysmon.Segments, sm.Segments)
	}
	if o := raw.Output; o != nil {
		apply(&cfg.Output.Stdout, o.Stdout)
	}
	return cfg
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
