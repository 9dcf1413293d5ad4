package hyprland

import (
	"bufio"
	"context"
	"strings"

	"github.com/1broseidon/limbo/internal/compositor"
)

// relevantEvents are the event names after which the workspace list may have
// changed. Everything else on the feed is ignored.
var relevantEvents = map[string]bool{
	"monitoradded":       true,
	"monitoraddedv2":     true,
	"monitorremoved":     true,
	"monitorremovedv2":   true,
	"focusedmon":         true,
	"focusedmonv2":       true,
	"workspace":          true,
	"workspacev2":        true,
	"createworkspace":    true,
	"createworkspacev2":  true,
	"destroyworkspace":   true,
	"destroyworkspacev2": true,
	"moveworkspace":      true,
	"moveworkspacev2":    true,
	"renameworkspace":    true,
	"activespecial":      true,
	"openwindow":         true,
	"closewindow":        true,
	"movewindow":         true,
	"movewindowv2":       true,
	"changefloatingmode": true,
}

// eventName extracts EVENT from an `EVENT>>DATA` line.
func eventName(line string) (string, bool) {
	name, _, ok := strings.Cut(line, ">>")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Subscribe emits the current workspace list, then a fresh list after every
// relevant compositor event. The channel is closed when the event socket
// closes or ctx is cancelled.
func (c *Client) Subscribe(ctx context.Context) <-chan compositor.Event {
	out := make(chan compositor.Event, 16)
	go c.listen(ctx, out)
	return out
}

func (c *Client) listen(ctx context.Context, out chan<- compositor.Event) {
	defer close(out)

	// Connect the feed before the seed query so nothing between the two is
	// missed.
	conn, err := c.dial(ctx, eventSocket)
	if err != nil {
		c.logger.Warn("failed to open event socket", "error", err)
		return
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var last []compositor.WorkspaceInfo
	sent := false
	emit := func(trigger string) bool {
		infos, err := c.Snapshot(ctx)
		if err != nil {
			c.logger.Debug("snapshot failed, skipping event", "event", trigger, "error", err)
			return ctx.Err() == nil
		}
		if sent && compositor.Equal(infos, last) {
			return true
		}
		select {
		case out <- compositor.WorkspacesChanged{Workspaces: infos}:
			last, sent = infos, true
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit("initial") {
		return
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		name, ok := eventName(scanner.Text())
		if !ok || !relevantEvents[name] {
			continue
		}
		if !emit(name) {
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.logger.Warn("event socket read failed", "error", err)
	}
	c.logger.Info("event stream ended")
}
