package niri

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/1broseidon/limbo/internal/compositor"
)

// Subscribe opens a dedicated event-stream connection and emits the
// workspace list whenever a tracked event changes it. Nothing is emitted
// until niri has sent both its workspaces and its windows. The channel is
// closed when the stream ends or ctx is cancelled.
func (c *Client) Subscribe(ctx context.Context) <-chan compositor.Event {
	out := make(chan compositor.Event, 16)
	go c.listen(ctx, out)
	return out
}

// openEventStream performs the "EventStream" handshake on conn. The reply
// must arrive within the client timeout.
func (c *Client) openEventStream(conn net.Conn) (*bufio.Reader, error) {
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte("\"EventStream\"\n")); err != nil {
		return nil, err
	}
	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("event stream handshake: %w", err)
	}
	ok, err := parseReply(line)
	if err != nil {
		return nil, fmt.Errorf("event stream handshake: %w", err)
	}
	if !isHandled(ok) {
		return nil, fmt.Errorf("event stream handshake: %w", ErrNotHandled)
	}
	if err := conn.SetDeadline(time.Time{}); err != nil {
		return nil, err
	}
	return reader, nil
}

func (c *Client) listen(ctx context.Context, out chan<- compositor.Event) {
	defer close(out)

	conn, err := c.dial(ctx)
	if err != nil {
		c.logger.Warn("failed to open event stream", "error", err)
		return
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	reader, err := c.openEventStream(conn)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("failed to open event stream", "error", err)
		}
		return
	}

	state := NewState()
	var last []compositor.WorkspaceInfo
	sent := false

	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 1 {
			ev, err := decodeEvent(line)
			switch {
			case errors.Is(err, errUnknownEvent):
			case err != nil:
				c.logger.Debug("dropping event", "error", err)
			default:
				state.Apply(ev)
				if state.Ready() {
					infos := state.WorkspaceInfos()
					if !sent || !compositor.Equal(infos, last) {
						select {
						case out <- compositor.WorkspacesChanged{Workspaces: infos}:
							last, sent = infos, true
						case <-ctx.Done():
							return
						}
					}
				}
			}
		}
		if readErr != nil {
			if ctx.Err() == nil && !errors.Is(readErr, io.EOF) {
				c.logger.Warn("event stream read failed", "error", readErr)
			}
			c.logger.Info("event stream ended")
			return
		}
	}
}
