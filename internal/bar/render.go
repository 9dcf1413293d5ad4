package bar

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/sysmon"
)

// Frame is what a renderer draws for one output.
type Frame struct {
	Output      string `json:"output"`
	Transparent bool   `json:"transparent"`
	Pills       []Pill `json:"pills"`

	// System holds the system load segments, empty until the first sample.
	System []sysmon.Item `json:"system,omitempty"`
}

// Pill is one workspace indicator. Width is in padding units, Color a hex
// string.
type Pill struct {
	ID         compositor.WorkspaceID `json:"id"`
	Idx        int                    `json:"idx"`
	Active     bool                   `json:"active"`
	HasWindows bool                   `json:"has_windows"`
	Width      float32                `json:"width"`
	Color      string                 `json:"color"`
}

// Renderer draws frames. Render is called from the daemon loop after every
// state change and animation tick.
type Renderer interface {
	Render(frames []Frame) error
}

// JSONRenderer writes each render as one JSON array on its own line.
type JSONRenderer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONRenderer returns a renderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(frames []Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(frames)
}
