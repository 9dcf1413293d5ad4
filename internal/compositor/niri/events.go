package niri

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errUnknownEvent = errors.New("unknown niri event")

// event is one decoded line of the event stream.
type event interface {
	apply(s *State)
}

type workspacesChanged struct {
	Workspaces []Workspace `json:"workspaces"`
}

type workspaceActivated struct {
	ID      uint64 `json:"id"`
	Focused bool   `json:"focused"`
}

type workspaceActiveWindowChanged struct {
	WorkspaceID    uint64  `json:"workspace_id"`
	ActiveWindowID *uint64 `json:"active_window_id"`
}

type windowsChanged struct {
	Windows []Window `json:"windows"`
}

type windowOpenedOrChanged struct {
	Window Window `json:"window"`
}

type windowClosed struct {
	ID uint64 `json:"id"`
}

type windowFocusChanged struct {
	ID *uint64 `json:"id"`
}

type overviewOpenedOrClosed struct {
	IsOpen bool `json:"is_open"`
}

// decodeEvent parses an externally tagged event such as
// {"WorkspaceActivated":{"id":3,"focused":true}}. Variants limbo does not
// track return errUnknownEvent.
func decodeEvent(line []byte) (event, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(line, &tagged); err != nil {
		return nil, fmt.Errorf("malformed event: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("malformed event: %d tags", len(tagged))
	}

	var (
		name string
		body json.RawMessage
	)
	for name, body = range tagged {
	}

	var ev event
	switch name {
	case "WorkspacesChanged":
		ev = &workspacesChanged{}
	case "WorkspaceActivated":
		ev = &workspaceActivated{}
	case "WorkspaceActiveWindowChanged":
		ev = &workspaceActiveWindowChanged{}
	case "WindowsChanged":
		ev = &windowsChanged{}
	case "WindowOpenedOrChanged":
		ev = &windowOpenedOrChanged{}
	case "WindowClosed":
		ev = &windowClosed{}
	case "WindowFocusChanged":
		ev = &windowFocusChanged{}
	case "OverviewOpenedOrClosed":
		ev = &overviewOpenedOrClosed{}
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownEvent, name)
	}
	if err := json.Unmarshal(body, ev); err != nil {
		return nil, fmt.Errorf("malformed %s event: %w", name, err)
	}
	return ev, nil
}
