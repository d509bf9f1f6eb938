package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/submit"
)

// Endpoint paths
const (
	SubmitPath    = "/submit"
	WebSocketPath = "/ws"
	HealthPath    = "/healthz"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for open connections
const DefaultShutdownTimeout = 10 * time.Second

// Config holds the receiver configuration
type Config struct {
	Host        string
	Port        int
	CertPath    string // Serve TLS when both CertPath and KeyPath are set
	KeyPath     string
	CaptureFile string // Append every received submission as JSON lines (empty = disabled)
}

// Addr returns host:port for the listener
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Server receives completed forms over HTTP and WebSocket. It validates them
// with the same rules as the form and answers with an ack or a rejection.
type Server struct {
	config    Config
	http      *http.Server
	tlsConfig *tls.Config
	upgrader  websocket.Upgrader
	capture   *Capture

	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[*websocket.Conn]string
	received    []submit.Payload
}

// New creates a Server. TLS material and the capture file are opened here
// so configuration mistakes surface before listening.
func New(config Config) (*Server, error) {
	s := &Server{
		config:      config,
		activeConns: make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The receiver is a local development tool
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, err
		}
		s.tlsConfig = tlsConfig
	}

	if config.CaptureFile != "" {
		c, err := OpenCapture(config.CaptureFile)
		if err != nil {
			return nil, err
		}
		s.capture = c
	}

	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         s.tlsConfig,
	}
	return s, nil
}

// Handler returns the receiver's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SubmitPath, s.handleSubmit)
	mux.HandleFunc(WebSocketPath, s.handleWebSocket)
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Start listens on the configured address and serves until ctx is done
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done, then shuts down
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	logging.Info("Receiver listening",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.String("capture", s.config.CaptureFile),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.http.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping receiver...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting requests, closes open websockets and waits for
// their handlers to return
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	// http.Server.Shutdown does not track hijacked connections
	s.mu.Lock()
	for conn, addr := range s.activeConns {
		logging.Debug("Closing websocket", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	if s.capture != nil {
		if cerr := s.capture.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Received returns the accepted submissions in arrival order
func (s *Server) Received() []submit.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]submit.Payload, len(s.received))
	copy(out, s.received)
	return out
}

// ActiveConnections returns the number of open websockets
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) track(conn *websocket.Conn, addr string) {
	s.mu.Lock()
	s.activeConns[conn] = addr
	s.mu.Unlock()
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.activeConns, conn)
	s.mu.Unlock()
}
