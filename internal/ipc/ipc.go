// Package ipc implements the local control socket of a running instance:
// one JSON request and one JSON response per connection.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const maxRequestSize = 16 << 20

var (
	// ErrNotRunning means no instance is listening on the socket.
	ErrNotRunning = errors.New("no running instance")
	// ErrInUse means another instance already serves the socket.
	ErrInUse = errors.New("socket already in use")
	// ErrUnsupported is returned on platforms without unix sockets.
	ErrUnsupported = errors.New("IPC not implemented for Windows yet")
)

// Handler answers one request.
type Handler func(ctx context.Context, req *Request) *Response

// SendRequest connects to the running instance, sends a request, and returns the response.
func SendRequest(ctx context.Context, socketPath string, req *Request) (*Response, error) {
	if runtime.GOOS == "windows" {
		return nil, ErrUnsupported
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOENT) {
			return nil, fmt.Errorf("%w: %s", ErrNotRunning, socketPath)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// Probe reports whether an instance answers on socketPath.
func Probe(socketPath string) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	conn, err := net.DialTimeout("unix", socketPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Server serves requests on a unix socket until its context ends.
type Server struct {
	path    string
	handler Handler
	logger  *zap.Logger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func NewServer(socketPath string, handler Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{path: socketPath, handler: handler, logger: logger}
}

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Listen binds the socket. A stale socket left by a crashed instance is
// replaced; a live one yields ErrInUse.
func (s *Server) Listen() error {
	if runtime.GOOS == "windows" {
		return ErrUnsupported
	}
	if Probe(s.path) {
		return fmt.Errorf("%w: %s", ErrInUse, s.path)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	// Remove any stale socket
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		s.logger.Warn("Failed to restrict socket permissions", zap.Error(err))
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Serve accepts connections until ctx is cancelled. Listen is called first
// if it has not been.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.ln
		s.mu.Unlock()
	}
	defer os.Remove(s.path)

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.logger.Info("IPC server listening", zap.String("socket", s.path))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.logger.Warn("Failed to accept connection", zap.Error(err))
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	enc := json.NewEncoder(conn)
	dec := json.NewDecoder(io.LimitReader(conn, maxRequestSize))

	var req Request
	if err := dec.Decode(&req); err != nil {
		s.logger.Debug("Invalid IPC request", zap.Error(err))
		_ = enc.Encode(Errorf(nil, "invalid request: %v", err))
		return
	}

	s.logger.Debug("IPC request", zap.String("id", req.ID), zap.String("command", req.Command))
	resp := s.handler(ctx, &req)
	if resp == nil {
		resp = Errorf(&req, "no response for command %q", req.Command)
	}
	if err := enc.Encode(resp); err != nil {
		s.logger.Debug("Failed to write IPC response", zap.Error(err))
	}
}
