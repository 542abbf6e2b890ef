package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"culturepulse/pkg/chart"
	"culturepulse/pkg/pulse"
)

// Result is one complete pulse run: the raw collected scores and their
// normalized counterparts, both in category order.
type Result struct {
	CollectedAt time.Time                    `json:"collected_at"`
	Raw         []pulse.PulseScore           `json:"raw"`
	Normalized  []pulse.NormalizedPulseScore `json:"normalized"`
}

// Runner produces a fresh pulse result.
type Runner func(ctx context.Context) Result

// Server provides the HTTP API over the latest pulse result.
type Server struct {
	run  Runner
	port int

	mu     sync.RWMutex
	latest *Result
}

// New creates a new HTTP server.
func New(run Runner, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{run: run, port: port}
}

// SetLatest replaces the served result. Used by the scheduler.
func (s *Server) SetLatest(r Result) {
	s.mu.Lock()
	s.latest = &r
	s.mu.Unlock()
}

// Latest returns the most recent result, if any.
func (s *Server) Latest() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Result{}, false
	}
	return *s.latest, true
}

// Refresh runs the pipeline and stores the result.
func (s *Server) Refresh(ctx context.Context) Result {
	r := s.run(ctx)
	s.SetLatest(r)
	return r
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/pulse", s.handlePulse).Methods(http.MethodGet)
	// Category names may contain a slash (Tech/Science).
	r.HandleFunc("/api/v1/pulse/{category:.+}", s.handleCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/chart.svg", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/refresh", s.handleRefresh).Methods(http.MethodPost)
	return r
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("culturepulse server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// current returns the latest result, computing one on first use.
func (s *Server) current(ctx context.Context) Result {
	if res, ok := s.Latest(); ok {
		return res
	}
	return s.Refresh(ctx)
}

func (s *Server) handlePulse(w http.ResponseWriter, r *http.Request) {
	res := s.current(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  res,
		"count": len(res.Normalized),
	})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	res := s.current(r.Context())

	for _, n := range res.Normalized {
		if n.Category == category {
			writeJSON(w, http.StatusOK, map[string]any{"data": n})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown category " + category})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	res := s.current(r.Context())

	entries := make([]chart.Entry, 0, len(res.Normalized))
	if r.URL.Query().Get("raw") != "" {
		for _, sc := range res.Raw {
			entries = append(entries, chart.Entry{Label: sc.Category, Score: sc.PulseScore})
		}
	} else {
		for _, n := range res.Normalized {
			entries = append(entries, chart.Entry{Label: n.Category, Score: n.PulseScore.PulseScore})
		}
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, chart.SVG(entries, "Culture Pulse"))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res := s.Refresh(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  res,
		"count": len(res.Normalized),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
