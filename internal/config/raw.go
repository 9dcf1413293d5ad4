package config

// Raw* mirror Config with pointer fields so a file can leave any key unset
// and overlays only replace what they name.

type RawTheme struct {
	Colors map[string]string `yaml:"colors"`
}

type RawWorkspaceColors struct {
	Normal     *string `yaml:"normal"`
	HasWindows *string `yaml:"has_windows"`
	Active     *string `yaml:"active"`
}

type RawWorkspaceWidths struct {
	Inactive *float32 `yaml:"inactive"`
	Active   *float32 `yaml:"active"`
}

type RawWorkspaces struct {
	Colors *RawWorkspaceColors `yaml:"colors"`
	Width  *RawWorkspaceWidths `yaml:"width"`
}

type RawAnimation struct {
	WidthDurationMs *int    `yaml:"width_duration_ms"`
	WidthEasing     *string `yaml:"width_easing"`
	ColorDurationMs *int    `yaml:"color_duration_ms"`
	ColorEasing     *string `yaml:"color_easing"`
}

type RawReconnect struct {
	InitialIntervalMs *int `yaml:"initial_interval_ms"`
	MaxIntervalMs     *int `yaml:"max_interval_ms"`
	MaxElapsedMs      *int `yaml:"max_elapsed_ms"`
}

type RawSysmon struct {
	IntervalMs *int      `yaml:"probe_interval_ms"`
	Precision  *int      `yaml:"precision"`
	Segments   *[]string `yaml:"segments"`
}

type RawOutput struct {
	Stdout *bool `yaml:"stdout"`
}

type RawConfig struct {
	LogLevel   *string        `yaml:"log_level"`
	Theme      *RawTheme      `yaml:"theme"`
	Workspaces *RawWorkspaces `yaml:"workspaces"`
	Animation  *RawAnimation  `yaml:"animation"`
	Reconnect  *RawReconnect  `yaml:"reconnect"`
	Sysmon     *RawSysmon     `yaml:"sysmon"`
	Output     *RawOutput     `yaml:"output"`
}

// merge returns r with every field set in overlay replaced. Palette entries
// merge by name.
func (r RawConfig) merge(overlay RawConfig) RawConfig {
	out := r
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Theme != nil {
		theme := RawTheme{Colors: map[string]string{}}
		if out.Theme != nil {
			for k, v := range out.Theme.Colors {
				theme.Colors[k] = v
			}
		}
		for k, v := range overlay.Theme.Colors {
			theme.Colors[k] = v
		}
		out.Theme = &theme
	}
	if overlay.Workspaces != nil {
		ws := RawWorkspaces{}
		if out.Workspaces != nil {
			ws = *out.Workspaces
		}
		if c := overlay.Workspaces.Colors; c != nil {
			colors := RawWorkspaceColors{}
			if ws.Colors != nil {
				colors = *ws.Colors
			}
			setIf(&colors.Normal, c.Normal)
			setIf(&colors.HasWindows, c.HasWindows)
			setIf(&colors.Active, c.Active)
			ws.Colors = &colors
		}
		if w := overlay.Workspaces.Width; w != nil {
			width := RawWorkspaceWidths{}
			if ws.Width != nil {
				width = *ws.Width
			}
			setIf(&width.Inactive, w.Inactive)
			setIf(&width.Active, w.Active)
			ws.Width = &width
		}
		out.Workspaces = &ws
	}
	if a := overlay.Animation; a != nil {
		anim := RawAnimation{}
		if out.Animation != nil {
			anim = *out.Animation
		}
		setIf(&anim.WidthDurationMs, a.WidthDurationMs)
		setIf(&anim.WidthEasing, a.WidthEasing)
		setIf(&anim.ColorDurationMs, a.ColorDurationMs)
		setIf(&anim.ColorEasing, a.ColorEasing)
		out.Animation = &anim
	}
	if rc := overlay.Reconnect; rc != nil {
		rec := RawReconnect{}
		if out.Reconnect != nil {
			rec = *out.Reconnect
		}
		setIf(&rec.InitialIntervalMs, rc.InitialIntervalMs)
		setIf(&rec.MaxIntervalMs, rc.MaxIntervalMs)
		setIf(&rec.MaxElapsedMs, rc.MaxElapsedMs)
		out.Reconnect = &rec
	}
	if sm := overlay.Sysmon; sm != nil {
		sys := RawSysmon{}
		if out.Sysmon != nil {
			sys = *out.Sysmon
		}
		setIf(&sys.IntervalMs, sm.IntervalMs)
		setIf(&sys.Precision, sm.Precision)
		setIf(&sys.Segments, sm.Segments)
		out.Sysmon = &sys
	}
	if o := overlay.Output; o != nil {
		output := RawOutput{}
		if out.Output != nil {
			output = *out.Output
		}
		setIf(&output.Stdout, o.Stdout)
		out.Output = &output
	}
	return out
}

func setIf[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}
