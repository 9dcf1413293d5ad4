package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a dotted path and where it came
// from. Supported paths:
//
//	log_level
//	theme.colors.<name>
//	workspaces.colors.{normal,has_windows,active}
//	workspaces.width.{inactive,active}
//	animation.{width_duration_ms,width_easing,color_duration_ms,color_easing}
//	reconnect.{initial_interval_ms,max_interval_ms,max_elapsed_ms}
//	sysmon.{probe_interval_ms,precision,segments}
//	output.stdout
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	unknown := fmt.Errorf("unknown path: %s", path)
	parts := strings.Split(path, ".")

	switch parts[0] {
	case "log_level":
		if len(parts) == 1 {
			return cfg.LogLevel, nil
		}
	case "theme":
		if len(parts) == 3 && parts[1] == "colors" {
			if hex, ok := cfg.Theme.Colors[parts[2]]; ok {
				return hex, nil
			}
		}
	case "workspaces":
		if len(parts) != 3 {
			return nil, unknown
		}
		switch parts[1] + "." + parts[2] {
		case "colors.normal":
			return cfg.Workspaces.Colors.Normal, nil
		case "colors.has_windows":
			return cfg.Workspaces.Colors.HasWindows, nil
		case "colors.active":
			return cfg.Workspaces.Colors.Active, nil
		case "width.inactive":
			return cfg.Workspaces.Width.Inactive, nil
		case "width.active":
			return cfg.Workspaces.Width.Active, nil
		}
	case "animation":
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "width_duration_ms":
			return cfg.Animation.WidthDurationMs, nil
		case "width_easing":
			return cfg.Animation.WidthEasing, nil
		case "color_duration_ms":
			return cfg.Animation.ColorDurationMs, nil
		case "color_easing":
			return cfg.Animation.ColorEasing, nil
		}
	case "reconnect":
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "initial_interval_ms":
			return cfg.Reconnect.InitialIntervalMs, nil
		case "max_interval_ms":
			return cfg.Reconnect.MaxIntervalMs, nil
		case "max_elapsed_ms":
			return cfg.Reconnect.MaxElapsedMs, nil
		}
	case "sysmon":
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "probe_interval_ms":
			return cfg.Sysmon.IntervalMs, nil
		case "precision":
			return cfg.Sysmon.Precision, nil
		case "segments":
			return cfg.Sysmon.Segments, nil
		}
	case "output":
		if len(parts) == 2 && parts[1] == "stdout" {
			return cfg.Output.Stdout, nil
		}
	}
	return nil, unknown
}
