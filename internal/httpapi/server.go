package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"TickerVault/internal/updater"
)

// Service is what the API needs from the application: the region list
// and the ability to run a recorded update cycle.
type Service interface {
	Regions() []string
	RunRegion(region string, newTickers []string) (*updater.Result, error)
}

// Server serves the update API.
type Server struct {
	svc Service
	mux *http.ServeMux
}

// NewServer creates the API server.
func NewServer(svc Service) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/regions", s.handleRegions)
	s.mux.HandleFunc("/api/update", s.handleUpdate)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[INFO] http api listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	regions := s.svc.Regions()
	sort.Strings(regions)
	writeJSON(w, http.StatusOK, RegionsResponse{Regions: regions})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Region) == "" {
		httpError(w, http.StatusBadRequest, "region is required")
		return
	}

	if !s.knownRegion(req.Region) {
		httpError(w, http.StatusNotFound, "unknown region "+req.Region)
		return
	}

	res, err := s.svc.RunRegion(req.Region, req.NewTickers)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}

func (s *Server) knownRegion(region string) bool {
	for _, r := range s.svc.Regions() {
		if r == region {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
