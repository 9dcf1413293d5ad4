// Package niri talks to the niri compositor over its JSON IPC socket.
package niri

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/runtimepath"
)

// ErrNotHandled is returned when niri accepts a request but does not answer
// with the expected "Handled" reply.
var ErrNotHandled = errors.New("niri did not handle request")

// Client is a niri backend. The control connection is shared by all
// requests and guarded by mu; the event stream uses its own connection.
type Client struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the socket named by $NIRI_SOCKET.
func Dial(logger *slog.Logger) (*Client, error) {
	path, err := runtimepath.NiriSocket()
	if err != nil {
		return nil, err
	}
	return DialPath(path, logger)
}

// DialPath connects to the niri socket at path.
func DialPath(path string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		path:    path,
		timeout: 2 * time.Second,
		logger:  logger.With("backend", "niri"),
	}
	if err := c.redial(); err != nil {
		return nil, err
	}
	return c, nil
}

// Close releases the control connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.reader = nil, nil
	return err
}

// FocusWorkspace switches to the workspace with the given id.
func (c *Client) FocusWorkspace(id compositor.WorkspaceID) error {
	return c.action("FocusWorkspace", map[string]any{
		"reference": map[string]any{"Id": uint64(id)},
	})
}

// CycleWorkspace moves one workspace up or down on the focused output.
func (c *Client) CycleWorkspace(forward bool) error {
	if forward {
		return c.action("FocusWorkspaceUp", struct{}{})
	}
	return c.action("FocusWorkspaceDown", struct{}{})
}

func (c *Client) action(name string, args any) error {
	req := map[string]any{"Action": map[string]any{name: args}}
	ok, err := c.send(req)
	if err != nil {
		return fmt.Errorf("niri %s: %w", name, err)
	}
	if !isHandled(ok) {
		return fmt.Errorf("niri %s: %w", name, ErrNotHandled)
	}
	return nil
}

// send writes one request on the control connection and reads the reply.
// A request niri cannot have seen is resent once on a fresh connection. After
// any other failure the connection is dropped, so a late reply is never read
// as the answer to the next request, and the error is returned without a
// resend.
func (c *Client) send(req any) (json.RawMessage, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	ok, err := c.roundTrip(data)
	if err == nil {
		return ok, nil
	}
	var replyErr *replyError
	if errors.As(err, &replyErr) {
		return nil, err
	}
	var unsent *unsentError
	if !errors.As(err, &unsent) {
		c.drop()
		return nil, err
	}
	c.logger.Debug("control connection failed, redialling", "error", err)
	if err := c.redial(); err != nil {
		return nil, err
	}
	ok, err = c.roundTrip(data)
	if err != nil && !errors.As(err, &replyErr) {
		c.drop()
	}
	return ok, err
}

func (c *Client) roundTrip(data []byte) (json.RawMessage, error) {
	if c.conn == nil {
		return nil, &unsentError{errors.New("not connected")}
	}
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, &unsentError{err}
	}
	if _, err := c.conn.Write(data); err != nil {
		return nil, &unsentError{err}
	}
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		// A peer that had already hung up closes without reading anything.
		if errors.Is(err, io.EOF) && len(line) == 0 {
			return nil, &unsentError{err}
		}
		return nil, err
	}
	return parseReply(line)
}

// drop closes the control connection; the next request redials. Callers
// hold mu.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn, c.reader = nil, nil
	}
}

// redial replaces the control connection. Callers hold mu, except during
// construction.
func (c *Client) redial() error {
	c.drop()
	conn, err := c.dial(context.Background())
	if err != nil {
		return err
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return nil, fmt.Errorf("connect to niri at %s: %w", c.path, err)
	}
	return conn, nil
}

// unsentError marks a failure before niri could have read the request, so
// resending it cannot run an action twice.
type unsentError struct {
	err error
}

func (e *unsentError) Error() string { return e.err.Error() }
func (e *unsentError) Unwrap() error { return e.err }

type replyError struct {
	msg string
}

func (e *replyError) Error() string {
	return "niri error: " + e.msg
}

// parseReply unwraps {"Ok": ...} or {"Err": "..."}.
func parseReply(line []byte) (json.RawMessage, error) {
	var reply struct {
		Ok  json.RawMessage `json:"Ok"`
		Err *string         `json:"Err"`
	}
	if err := json.Unmarshal(line, &reply); err != nil {
		return nil, fmt.Errorf("malformed reply: %w", err)
	}
	if reply.Err != nil {
		return nil, &replyError{msg: *reply.Err}
	}
	if reply.Ok == nil {
		return nil, errors.New("malformed reply: neither Ok nor Err")
	}
	return reply.Ok, nil
}

func isHandled(ok json.RawMessage) bool {
	var s string
	return json.Unmarshal(ok, &s) == nil && s == "Handled"
}
