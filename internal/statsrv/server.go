// Package statsrv exposes a decode run's progress over HTTP, trimmed down
// from a full dashboard to two JSON endpoints.
package statsrv

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"rdbdump/internal/rdb"
)

// Server exposes /healthz and /stats for a single in-progress decode run.
type Server struct {
	addr string

	mu      sync.RWMutex
	stats   *rdb.Stats
	started time.Time

	logger *log.Logger
}

// New creates a stats server bound to the given Stats counters. Nothing is
// read from stats until a request arrives — Start only registers handlers
// and begins listening.
func New(addr string, stats *rdb.Stats) *Server {
	return &Server{
		addr:    addr,
		stats:   stats,
		started: time.Time{},
		logger:  log.Default(),
	}
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
}

// statsResponse is the /stats payload.
type statsResponse struct {
	Entries   int64  `json:"entries"`
	DbSelects int64  `json:"dbSelects"`
	Bytes     int64  `json:"bytes"`
	Uptime    string `json:"uptime"`
}

// Start registers handlers and serves until the listener fails or the
// process exits. It reports the bound address on ready, if non-nil, which
// lets callers observe an ephemeral port (addr ending in ":0").
func (s *Server) Start(ready chan<- string) error {
	if s.addr == "" {
		s.addr = ":0"
	}
	s.started = time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/stats", s.handleStats)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("statsrv: listen on %s: %w", s.addr, err)
	}
	actualAddr := ln.Addr().String()
	s.addr = actualAddr
	if ready != nil {
		ready <- actualAddr
	}
	s.logger.Printf("stats server listening at http://%s", actualAddr)

	server := &http.Server{Handler: mux, ErrorLog: s.logger}
	return server.Serve(ln)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Uptime: s.uptime().String()}
	s.writeJSON(w, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.stats.Snapshot()
	resp := statsResponse{
		Entries:   snap.Entries,
		DbSelects: snap.DbSelects,
		Bytes:     snap.Bytes,
		Uptime:    s.uptime().String(),
	}
	s.writeJSON(w, resp)
}

func (s *Server) uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("statsrv: encoding response: %v", err)
	}
}
