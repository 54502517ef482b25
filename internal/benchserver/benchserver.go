// Package benchserver exposes the running bench's state over a small
// localhost HTTP API, for a browser-based status view or a scripted
// integration test to poll without wiring up cmd/kbsim or cmd/kbviz
// directly. The bind-to-random-port-and-report-URL shape, and serving
// on a goroutine with a graceful Stop, come from the teacher's
// internal/server.Server.
package benchserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/kbfw/firmware/internal/bench"
)

// Server serves bench telemetry on localhost.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	rig        *bench.Rig
}

// New creates a bench status server over rig. Status snapshots are
// read with no locking: callers must only query rig from the same
// goroutine that ticks it, or wrap rig access themselves.
func New(rig *bench.Rig) *Server {
	return &Server{rig: rig}
}

// Start begins serving on a random localhost port and returns the URL.
func (s *Server) Start() (string, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("benchserver: listen: %w", err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[benchserver] error: %v", err)
		}
	}()

	url := fmt.Sprintf("http://%s", ln.Addr().String())
	log.Printf("[benchserver] status available at %s/status", url)
	return url, nil
}

// Stop shuts the server down, waiting up to 2 seconds for in-flight
// requests to finish.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.httpServer.Shutdown(ctx)
}

// statusResponse is the JSON body of GET /status.
type statusResponse struct {
	Keycodes  []string `json:"keycodes"`
	ReportHex string   `json:"report_hex"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	codes := s.rig.Keycodes()
	names := make([]string, len(codes))
	for i, k := range codes {
		names[i] = k.String()
	}

	rep := s.rig.Report()
	b := rep.Bytes()
	hex := make([]byte, 0, len(b)*2)
	const digits = "0123456789abcdef"
	for _, v := range b {
		hex = append(hex, digits[v>>4], digits[v&0xf])
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		Keycodes:  names,
		ReportHex: string(hex),
	})
}
