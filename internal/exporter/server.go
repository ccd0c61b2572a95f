package exporter

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/camtap/internal/buffers"
	"github.com/ppiankov/camtap/internal/syslog"
)

const defaultRecentLimit = 100

// Server exposes /metrics and /recent over the poller's ring.
type Server struct {
	httpSrv *http.Server
	ring    *buffers.EntryRing
}

// NewServer creates an HTTP server bound to addr. The registry is the
// one the poller's metrics were registered with.
func NewServer(addr string, ring *buffers.EntryRing, reg *prometheus.Registry) *Server {
	s := &Server{ring: ring}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /recent", s.handleRecent)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

// Serve accepts connections on a listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpSrv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// handleRecent returns buffered entries as JSON, oldest first. Query
// parameters: level (minimum severity name) and limit (max entries,
// newest kept).
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	filter := func(syslog.Entry) bool { return true }
	if name := r.URL.Query().Get("level"); name != "" {
		level, ok := syslog.ParseLevel(name)
		if !ok {
			http.Error(w, "unknown level "+strconv.Quote(name), http.StatusBadRequest)
			return
		}
		filter = buffers.AtLeast(level)
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit "+strconv.Quote(raw), http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries := s.ring.SnapshotFiltered(filter)
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if entries == nil {
		entries = []syslog.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
