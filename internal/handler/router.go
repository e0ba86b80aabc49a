package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adibus/fleet/api"
)

// Handler returns a chi router serving every route of s.
// Cross-cutting middleware (request IDs, logging, recovery, CORS) is added
// by the caller, as main.go does.
func Handler(s *Server) chi.Router {
	r := chi.NewRouter()
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.notFound)

	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.GetHealth)
		r.Post("/contact", s.SubmitContact)
		r.Get("/export", s.GetExport)

		r.Route("/buses", func(r chi.Router) {
			r.Get("/", s.ListBuses)
			r.Post("/", s.CreateBus)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetBus)
				r.Put("/", s.UpdateBus)
				r.Delete("/", s.DeleteBus)
				r.Patch("/status", s.SetBusStatus)
				r.Patch("/seats/{seatIndex}", s.SetSeatStatus)
				r.Patch("/departure", s.SetDepartureTime)
				r.Patch("/booking-cutoff", s.SetBookingCutoff)
				r.Get("/summary", s.GetSeatSummary)
			})
		})

		r.Route("/fares", func(r chi.Router) {
			r.Get("/", s.ListFares)
			r.Post("/", s.CreateFare)
			r.Get("/{id}", s.GetFare)
			r.Put("/{id}", s.UpdateFare)
			r.Delete("/{id}", s.DeleteFare)
		})
	})

	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.OpenAPI)
}

// notFound answers unmatched routes (and unsupported methods) with a
// generic JSON 404.
func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, messageResponse{Message: "Route not found"})
}
