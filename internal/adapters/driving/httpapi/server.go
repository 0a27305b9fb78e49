package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/finwatch/findetect/internal/core/ports/driving"
	"github.com/finwatch/findetect/internal/logger"
)

// Server serves the process_file endpoint.
type Server struct {
	mu        sync.Mutex
	addr      string
	keys      []string
	processor driving.FileProcessor
	server    *http.Server
	listener  net.Listener
	errChan   chan error
}

// NewServer creates a new API server. An empty key list makes the
// endpoint anonymous; otherwise every request must present one of the
// configured function keys.
func NewServer(addr string, keys []string, processor driving.FileProcessor) *Server {
	return &Server{
		addr:      addr,
		keys:      keys,
		processor: processor,
		errChan:   make(chan error, 1),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/process_file", requireKey(s.keys, s.handleProcessFile))
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start begins serving in the background. If the configured address has
// port 0 an available port is chosen; see Addr.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: a single request may download, detect and
		// upload, which is bounded by the detector client instead.
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	logger.Info("Listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, valid after Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Err receives fatal serve errors.
func (s *Server) Err() <-chan error {
	return s.errChan
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
