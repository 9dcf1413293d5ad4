// Package hyprland talks to Hyprland over its two unix sockets: the request
// socket for one-shot queries and dispatches, and the event socket for the
// live `EVENT>>DATA` feed.
package hyprland

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/runtimepath"
)

const (
	requestSocket = ".socket.sock"
	eventSocket   = ".socket2.sock"
)

// Client is a Hyprland backend. Every request opens its own connection, as
// Hyprland closes the request socket after replying.
type Client struct {
	dir     string
	timeout time.Duration
	logger  *slog.Logger
}

// New resolves the socket directory of the running Hyprland instance.
func New(logger *slog.Logger) (*Client, error) {
	dir, err := runtimepath.HyprlandDir()
	if err != nil {
		return nil, err
	}
	return NewWithDir(dir, logger), nil
}

// NewWithDir creates a client for the sockets in dir.
func NewWithDir(dir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		dir:     dir,
		timeout: 2 * time.Second,
		logger:  logger.With("backend", "hyprland"),
	}
}

// Probe checks that Hyprland answers a version query.
func (c *Client) Probe(ctx context.Context) (*Version, error) {
	var v Version
	if err := c.query(ctx, "version", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FocusWorkspace switches to the workspace with the given id.
func (c *Client) FocusWorkspace(id compositor.WorkspaceID) error {
	return c.dispatch(fmt.Sprintf("workspace %d", id))
}

// CycleWorkspace moves to the next or previous workspace on the focused
// monitor.
func (c *Client) CycleWorkspace(forward bool) error {
	if forward {
		return c.dispatch("workspace m+1")
	}
	return c.dispatch("workspace m-1")
}

func (c *Client) dispatch(args string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	reply, err := c.request(ctx, "dispatch "+args)
	if err != nil {
		return err
	}
	if r := strings.TrimSpace(string(reply)); r != "ok" {
		return fmt.Errorf("hyprland dispatch %q: %s", args, r)
	}
	return nil
}

func (c *Client) query(ctx context.Context, name string, v any) error {
	reply, err := c.request(ctx, "j/"+name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(reply, v); err != nil {
		return fmt.Errorf("failed to parse hyprland %s reply: %w", name, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, cmd string) ([]byte, error) {
	conn, err := c.dial(ctx, requestSocket)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)

	if _, err := conn.Write([]byte(cmd)); err != nil {
		return nil, fmt.Errorf("failed to send hyprland request %q: %w", cmd, err)
	}
	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read hyprland reply to %q: %w", cmd, err)
	}
	return reply, nil
}

func (c *Client) dial(ctx context.Context, name string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", filepath.Join(c.dir, name))
	if err != nil {
		return nil, fmt.Errorf("cannot open hyprland socket %s: %w", name, err)
	}
	return conn, nil
}
