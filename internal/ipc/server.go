package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/limbo/internal/bar"
	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/runtimepath"
)

const (
	requestTimeout   = 5 * time.Second
	subscriberBuffer = 8
	writeTimeout     = 2 * time.Second
)

// Controller is the daemon surface the server exposes.
type Controller interface {
	Status(ctx context.Context) (StatusData, error)
	Workspaces(ctx context.Context) ([]compositor.WorkspaceInfo, error)
	Frames(ctx context.Context) ([]bar.Frame, error)
	FocusWorkspace(ctx context.Context, id compositor.WorkspaceID) error
	CycleWorkspace(ctx context.Context, forward bool) error
	Reload(ctx context.Context) error
}

// Server handles IPC requests from clients. It also implements
// bar.Renderer, fanning every render out to SUBSCRIBE connections.
type Server struct {
	socketPath string
	listener   net.Listener
	ctrl       Controller
	logger     *slog.Logger

	subMu       sync.Mutex
	subscribers map[*subscriber]struct{}
	lastFrames  []byte // last rendered line, nil before the first render

	shuttingDown bool
	shutdownMu   sync.Mutex
}

var _ bar.Renderer = (*Server)(nil)

type subscriber struct {
	conn net.Conn
	out  chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.out)
		s.conn.Close()
	})
}

// NewServer creates a server on the default socket path.
func NewServer(ctrl Controller, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, ctrl, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath:  socketPath,
		ctrl:        ctrl,
		logger:      logger.With("component", "ipc"),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("read failed", "error", err)
		conn.Close()
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		conn.Close()
		return
	}

	if req.Command == CommandSubscribe {
		s.handleSubscribe(conn)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	s.writeResponse(conn, s.handleCommand(ctx, req))
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload(ctx)
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetWorkspaces:
		return s.handleGetWorkspaces(ctx)
	case CommandFocusWorkspace:
		return s.handleFocusWorkspace(ctx, req.Payload)
	case CommandCycleWorkspace:
		return s.handleCycleWorkspace(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload(ctx context.Context) *Response {
	s.logger.Info("reload requested")
	if err := s.ctrl.Reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status, err := s.ctrl.Status(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetWorkspaces(ctx context.Context) *Response {
	infos, err := s.ctrl.Workspaces(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get workspaces: %v", err))
	}
	if infos == nil {
		infos = []compositor.WorkspaceInfo{}
	}
	resp, err := NewOKResponse(WorkspacesData{Workspaces: infos})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleFocusWorkspace(ctx context.Context, payload json.RawMessage) *Response {
	var p FocusWorkspacePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if err := s.ctrl.FocusWorkspace(ctx, p.ID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to focus workspace %d: %v", p.ID, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleCycleWorkspace(ctx context.Context, payload json.RawMessage) *Response {
	var p CycleWorkspacePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	if err := s.ctrl.CycleWorkspace(ctx, p.Forward); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to cycle workspace: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// handleSubscribe acknowledges the request, sends the current frames, and
// registers conn for every later render. The initial line is the last
// render when there is one; it is queued in the same critical section that
// registers the subscriber, so no render falls between the two.
func (s *Server) handleSubscribe(conn net.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	frames, err := s.ctrl.Frames(ctx)
	cancel()
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Failed to subscribe: %v", err))
		conn.Close()
		return
	}
	initial, err := encodeFrames(frames)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Failed to subscribe: %v", err))
		conn.Close()
		return
	}
	resp, _ := NewOKResponse(nil)
	if !s.writeResponse(conn, resp) {
		conn.Close()
		return
	}

	sub := &subscriber{conn: conn, out: make(chan []byte, subscriberBuffer)}
	s.subMu.Lock()
	if s.lastFrames != nil {
		initial = s.lastFrames
	}
	sub.out <- initial
	s.subscribers[sub] = struct{}{}
	s.subMu.Unlock()
	s.logger.Debug("subscriber added")

	go s.writeLoop(sub)
	go s.watchHangup(sub)
}

func (s *Server) writeLoop(sub *subscriber) {
	for line := range sub.out {
		sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := sub.conn.Write(line); err != nil {
			s.logger.Debug("subscriber write failed", "error", err)
			s.dropSubscriber(sub)
			return
		}
	}
}

// watchHangup drops the subscriber once the peer closes its end.
func (s *Server) watchHangup(sub *subscriber) {
	io.Copy(io.Discard, sub.conn)
	s.dropSubscriber(sub)
}

func (s *Server) dropSubscriber(sub *subscriber) {
	s.subMu.Lock()
	_, ok := s.subscribers[sub]
	delete(s.subscribers, sub)
	s.subMu.Unlock()
	if ok {
		s.logger.Debug("subscriber removed")
	}
	sub.close()
}

// Subscribers returns the number of connected subscribers.
func (s *Server) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subscribers)
}

// Render implements bar.Renderer. Subscribers that fall behind are dropped.
func (s *Server) Render(frames []bar.Frame) error {
	line, err := encodeFrames(frames)
	if err != nil {
		return err
	}

	s.subMu.Lock()
	s.lastFrames = line
	var slow []*subscriber
	for sub := range s.subscribers {
		select {
		case sub.out <- line:
		default:
			slow = append(slow, sub)
		}
	}
	for _, sub := range slow {
		delete(s.subscribers, sub)
	}
	s.subMu.Unlock()

	for _, sub := range slow {
		s.logger.Warn("dropping slow subscriber")
		sub.close()
	}
	return nil
}

func encodeFrames(frames []bar.Frame) ([]byte, error) {
	if frames == nil {
		frames = []bar.Frame{}
	}
	line, err := json.Marshal(frames)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) bool {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return false
	}
	data = append(data, '\n')
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("failed to send response", "error", err)
		return false
	}
	return true
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	s.writeResponse(conn, NewErrorResponse(errMsg))
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)

	s.subMu.Lock()
	subs := make([]*subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.subscribers = make(map[*subscriber]struct{})
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.close()
	}
}
