package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/limbo/internal/animation"
	"github.com/1broseidon/limbo/internal/colors"
	"github.com/1broseidon/limbo/internal/desktop"
	"github.com/1broseidon/limbo/internal/sysmon"
	"github.com/1broseidon/limbo/internal/workspaces"
)

// Theme holds the named color palette other settings refer to.
type Theme struct {
	Colors map[string]string `yaml:"colors"`
}

// WorkspaceColors are palette names or hex colors for the three pill states.
type WorkspaceColors struct {
	Normal     string `yaml:"normal"`
	HasWindows string `yaml:"has_windows"`
	Active     string `yaml:"active"`
}

// WorkspaceWidths are pill widths in padding units.
type WorkspaceWidths struct {
	Inactive float32 `yaml:"inactive"`
	Active   float32 `yaml:"active"`
}

// WorkspacesConfig configures the workspace pills.
type WorkspacesConfig struct {
	Colors WorkspaceColors `yaml:"colors"`
	Width  WorkspaceWidths `yaml:"width"`
}

// AnimationConfig configures pill transitions.
type AnimationConfig struct {
	WidthDurationMs int    `yaml:"width_duration_ms"`
	WidthEasing     string `yaml:"width_easing"`
	ColorDurationMs int    `yaml:"color_duration_ms"`
	ColorEasing     string `yaml:"color_easing"`
}

// ReconnectConfig configures re-subscription after the compositor stream
// drops. MaxElapsedMs of 0 retries forever.
type ReconnectConfig struct {
	InitialIntervalMs int `yaml:"initial_interval_ms"`
	MaxIntervalMs     int `yaml:"max_interval_ms"`
	MaxElapsedMs      int `yaml:"max_elapsed_ms"`
}

// OutputConfig selects the built-in renderers.
type OutputConfig struct {
	// Stdout writes every frame as a JSON line on stdout.
	Stdout bool `yaml:"stdout"`
}

// SysmonConfig configures the system load segments. An empty segment list
// turns sampling off.
type SysmonConfig struct {
	IntervalMs int      `yaml:"probe_interval_ms"`
	Precision  int      `yaml:"precision"`
	Segments   []string `yaml:"segments"`
}

// Config is the effective daemon configuration.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Theme      Theme            `yaml:"theme"`
	Workspaces WorkspacesConfig `yaml:"workspaces"`
	Animation  AnimationConfig  `yaml:"animation"`
	Reconnect  ReconnectConfig  `yaml:"reconnect"`
	Sysmon     SysmonConfig     `yaml:"sysmon"`
	Output     OutputConfig     `yaml:"output"`
}

// DefaultPalette returns the built-in catppuccin-based palette.
func DefaultPalette() map[string]string {
	return map[string]string{
		"crust":        "#11111b",
		"mantle":       "#181825",
		"base":         "#1e1e2e",
		"core":         "#2c2c3f",
		"surface0":     "#313244",
		"surface1":     "#45475a",
		"surface2":     "#585b70",
		"overlay0":     "#6c7086",
		"overlay1":     "#7f849c",
		"overlay2":     "#9399b2",
		"subtext0":     "#a6adc8",
		"subtext1":     "#bac2de",
		"subtext2":     "#cdd6f4",
		"text":         "#f0f4ff",
		"lavender":     "#b4befe",
		"lavenderDark": "#7f8cfe",
		"blue":         "#89b4fa",
		"blueDark":     "#5f8cfb",
		"sapphire":     "#74c7ec",
		"sapphireDark": "#4a9edc",
		"sky":          "#89dceb",
		"skyDark":      "#5f9edc",
		"teal":         "#94e2d5",
		"tealDark":     "#5fb9a8",
		"green":        "#a6e3a1",
		"greenDark":    "#5fbf6b",
		"yellow":       "#f9e2af",
		"yellowDark":   "#f5c77b",
		"peach":        "#fab387",
		"peachDark":    "#f5a87b",
		"maroon":       "#eba0ac",
		"maroonDark":   "#c97b84",
		"red":          "#f38ba8",
		"redDark":      "#c97b84",
		"mauve":        "#cba6f7",
		"mauveDark":    "#a17be3",
		"pink":         "#f5c2e7",
		"flamingo":     "#f2cdcd",
		"rosewater":    "#f5e0dc",
		"cyan":         "#bee4ed",
	}
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Theme:    Theme{Colors: DefaultPalette()},
		Workspaces: WorkspacesConfig{
			Colors: WorkspaceColors{
				Normal:     "surface2",
				HasWindows: "blue",
				Active:     "blue",
			},
			Width: WorkspaceWidths{
				Inactive: 5,
				Active:   12,
			},
		},
		Animation: AnimationConfig{
			WidthDurationMs: 100,
			WidthEasing:     "linear",
			ColorDurationMs: 100,
			ColorEasing:     "smoothstep",
		},
		Reconnect: ReconnectConfig{
			InitialIntervalMs: 500,
			MaxIntervalMs:     10000,
			MaxElapsedMs:      0,
		},
		Sysmon: SysmonConfig{
			IntervalMs: 5000,
			Precision:  1,
			Segments:   segmentNames(sysmon.DefaultSegments),
		},
	}
}

// ResolveColor looks ref up in the palette, or parses it as a hex color when
// it starts with '#'.
func (c *Config) ResolveColor(ref string) (colors.Color, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "#") {
		return colors.Parse(ref)
	}
	hex, ok := c.Theme.Colors[ref]
	if !ok {
		return colors.Color{}, fmt.Errorf("unknown color %q", ref)
	}
	return colors.Parse(hex)
}

// Style resolves the workspace pill settings.
func (c *Config) Style() (workspaces.Style, error) {
	var style workspaces.Style

	refs := []struct {
		idx  int
		path string
		ref  string
	}{
		{workspaces.ColorNormal, "workspaces.colors.normal", c.Workspaces.Colors.Normal},
		{workspaces.ColorHasWindows, "workspaces.colors.has_windows", c.Workspaces.Colors.HasWindows},
		{workspaces.ColorActive, "workspaces.colors.active", c.Workspaces.Colors.Active},
	}
	for _, r := range refs {
		col, err := c.ResolveColor(r.ref)
		if err != nil {
			return style, &ValidationError{Path: r.path, Err: err}
		}
		style.Colors[r.idx] = col
	}

	style.Widths[workspaces.WidthInactive] = c.Workspaces.Width.Inactive
	style.Widths[workspaces.WidthActive] = c.Workspaces.Width.Active

	var err error
	if style.WidthEasing, err = animation.ParseEasing(c.Animation.WidthEasing); err != nil {
		return style, &ValidationError{Path: "animation.width_easing", Err: err}
	}
	if style.ColorEasing, err = animation.ParseEasing(c.Animation.ColorEasing); err != nil {
		return style, &ValidationError{Path: "animation.color_easing", Err: err}
	}
	style.WidthDuration = time.Duration(c.Animation.WidthDurationMs) * time.Millisecond
	style.ColorDuration = time.Duration(c.Animation.ColorDurationMs) * time.Millisecond
	return style, nil
}

// ReconnectPolicy converts the reconnect settings.
func (c *Config) ReconnectPolicy() desktop.ReconnectPolicy {
	return desktop.ReconnectPolicy{
		InitialInterval: time.Duration(c.Reconnect.InitialIntervalMs) * time.Millisecond,
		MaxInterval:     time.Duration(c.Reconnect.MaxIntervalMs) * time.Millisecond,
		MaxElapsed:      time.Duration(c.Reconnect.MaxElapsedMs) * time.Millisecond,
	}
}

func segmentNames(segs []sysmon.Segment) []string {
	names := make([]string, len(segs))
	for i, seg := range segs {
		names[i] = string(seg)
	}
	return names
}

// SysmonInterval is the system load sampling period.
func (c *Config) SysmonInterval() time.Duration {
	return time.Duration(c.Sysmon.IntervalMs) * time.Millisecond
}

// SysmonFormatter resolves the segment list and precision.
func (c *Config) SysmonFormatter() (sysmon.Formatter, error) {
	f := sysmon.Formatter{Precision: c.Sysmon.Precision}
	seen := make(map[sysmon.Segment]bool, len(c.Sysmon.Segments))
	for _, name := range c.Sysmon.Segments {
		seg, err := sysmon.ParseSegment(name)
		if err != nil {
			return f, &ValidationError{Path: "sysmon.segments", Err: err}
		}
		if seen[seg] {
			return f, &ValidationError{Path: "sysmon.segments", Err: fmt.Errorf("segment %q listed twice", seg)}
		}
		seen[seg] = true
		f.Segments = append(f.Segments, seg)
	}
	return f, nil
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	names := make([]string, 0, len(c.Theme.Colors))
	for name := range c.Theme.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "theme.colors", Err: fmt.Errorf("palette contains an empty color name")}
		}
		if _, err := colors.Parse(c.Theme.Colors[name]); err != nil {
			return &ValidationError{Path: "theme.colors." + name, Err: err}
		}
	}

	if c.Workspaces.Width.Inactive < 0 {
		return &ValidationError{Path: "workspaces.width.inactive", Err: fmt.Errorf("width must be >= 0")}
	}
	if c.Workspaces.Width.Active < 0 {
		return &ValidationError{Path: "workspaces.width.active", Err: fmt.Errorf("width must be >= 0")}
	}
	if c.Animation.WidthDurationMs <= 0 {
		return &ValidationError{Path: "animation.width_duration_ms", Err: fmt.Errorf("duration must be > 0")}
	}
	if c.Animation.ColorDurationMs <= 0 {
		return &ValidationError{Path: "animation.color_duration_ms", Err: fmt.Errorf("duration must be > 0")}
	}
	if _, err := c.Style(); err != nil {
		return err
	}

	if c.Reconnect.InitialIntervalMs <= 0 {
		return &ValidationError{Path: "reconnect.initial_interval_ms", Err: fmt.Errorf("initial_interval_ms must be > 0")}
	}
	if c.Reconnect.MaxIntervalMs < c.Reconnect.InitialIntervalMs {
		return &ValidationError{Path: "reconnect.max_interval_ms", Err: fmt.Errorf("max_interval_ms must be >= initial_interval_ms")}
	}
	if c.Reconnect.MaxElapsedMs < 0 {
		return &ValidationError{Path: "reconnect.max_elapsed_ms", Err: fmt.Errorf("max_elapsed_ms must be >= 0")}
	}

	if c.Sysmon.IntervalMs <= 0 {
		return &ValidationError{Path: "sysmon.probe_interval_ms", Err: fmt.Errorf("probe_interval_ms must be > 0")}
	}
	if c.Sysmon.Precision < 0 || c.Sysmon.Precision > sysmon.MaxPrecision {
		return &ValidationError{Path: "sysmon.precision", Err: fmt.Errorf("precision must be between 0 and %d", sysmon.MaxPrecision)}
	}
	if _, err := c.SysmonFormatter(); err != nil {
		return err
	}
	return nil
}
