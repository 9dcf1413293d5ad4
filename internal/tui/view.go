package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/limbo/internal/bar"
	"github.com/1broseidon/limbo/internal/sysmon"
)

// unitsPerCell is how many pill width units one terminal cell shows.
const unitsPerCell = 2

// visibleFrames filters frames by t.output. Callers hold t.mu.
func (t *TUI) visibleFrames() []bar.Frame {
	if t.output == "" {
		return t.frames
	}
	for _, f := range t.frames {
		if f.Output == t.output {
			return []bar.Frame{f}
		}
	}
	return nil
}

// view renders the current state. Callers hold t.mu.
func (t *TUI) view() string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(12)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	b.WriteString(header.Render("limbo"))
	b.WriteString("\n\n")

	frames := t.visibleFrames()
	if len(frames) == 0 {
		if t.output != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("waiting for output %s...", t.output)))
		} else {
			b.WriteString(dimStyle.Render("waiting for workspaces..."))
		}
		b.WriteString("\n")
	}
	for _, f := range frames {
		label := f.Output
		if f.Transparent {
			label += " ~"
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(renderPills(f.Pills))
		b.WriteString("\n")
	}
	if len(frames) > 0 && len(frames[0].System) > 0 {
		b.WriteString(labelStyle.Render("system"))
		b.WriteString(renderSystem(frames[0].System))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("h/l cycle  1-9 focus  q quit"))
	b.WriteString("\n")
	if t.lastError != "" {
		b.WriteString(errStyle.Render(t.lastError))
		b.WriteString("\n")
	}
	return b.String()
}

func renderPills(pills []bar.Pill) string {
	parts := make([]string, 0, len(pills))
	for _, p := range pills {
		parts = append(parts, lipgloss.NewStyle().
			Background(lipgloss.Color(p.Color)).
			Width(cellsFor(p.Width)).
			Render(""))
	}
	return strings.Join(parts, " ")
}

func renderSystem(items []sysmon.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Text)
	}
	return strings.Join(parts, "  ")
}

// cellsFor converts a pill width to terminal cells, at least one.
func cellsFor(width float32) int {
	return max(1, int(math.Round(float64(width)/unitsPerCell)))
}

// rawLines converts newlines for a terminal in raw mode.
func rawLines(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}
