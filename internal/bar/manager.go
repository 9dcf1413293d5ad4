package bar

import (
	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/workspaces"
)

// Manager owns one Bar per output seen in the workspace list. It is not safe
// for concurrent use.
type Manager struct {
	style   workspaces.Style
	bars    map[string]*Bar
	outputs []string
}

// NewManager returns a manager with no bars.
func NewManager(style workspaces.Style) *Manager {
	return &Manager{
		style: style,
		bars:  make(map[string]*Bar),
	}
}

// Apply reconciles every bar against a fresh workspace list. Bars are created
// for new outputs and dropped for outputs that disappeared.
func (m *Manager) Apply(infos []compositor.WorkspaceInfo) {
	outputs := compositor.Outputs(infos)
	bars := make(map[string]*Bar, len(outputs))
	for _, output := range outputs {
		b, ok := m.bars[output]
		if !ok {
			b = newBar(output)
		}
		b.apply(infos, m.style)
		bars[output] = b
	}
	m.bars = bars
	m.outputs = outputs
}

// SetStyle switches to a new style and rebuilds every bar from infos. Pills
// start settled at the new style's targets.
func (m *Manager) SetStyle(style workspaces.Style, infos []compositor.WorkspaceInfo) {
	m.style = style
	m.bars = make(map[string]*Bar)
	m.Apply(infos)
}

// Style returns the style in use.
func (m *Manager) Style() workspaces.Style {
	return m.style
}

// Tick advances every animation by one step.
func (m *Manager) Tick() {
	for _, b := range m.bars {
		b.tick()
	}
}

// Running reports whether any bar is animating.
func (m *Manager) Running() bool {
	for _, b := range m.bars {
		if b.Running() {
			return true
		}
	}
	return false
}

// Outputs returns the outputs with a bar, in compositor order.
func (m *Manager) Outputs() []string {
	return append([]string(nil), m.outputs...)
}

// Bar returns the bar on output.
func (m *Manager) Bar(output string) (*Bar, bool) {
	b, ok := m.bars[output]
	return b, ok
}

// Frames snapshots every bar in output order.
func (m *Manager) Frames() []Frame {
	frames := make([]Frame, 0, len(m.outputs))
	for _, output := range m.outputs {
		frames = append(frames, m.bars[output].Frame())
	}
	return frames
}
