package handler

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// GetHealth handles GET /api/health.
// It answers 200 whenever the process is serving; uptime is in seconds.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: now.UTC().Format(time.RFC3339),
		Uptime:    now.Sub(s.started).Seconds(),
	})
}
