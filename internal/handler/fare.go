package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
)

const fareNotFound = "Fare not found"

type fareRequest struct {
	Route           string `json:"route" validate:"required"`
	BasePrice       int    `json:"basePrice" validate:"min=0"`
	ACPrice         int    `json:"acPrice" validate:"min=0"`
	TodayPrice      int    `json:"todayPrice" validate:"min=0"`
	StudentDiscount int    `json:"studentDiscount" validate:"min=0,max=100"`
	SeniorDiscount  int    `json:"seniorDiscount" validate:"min=0,max=100"`
}

type fareResponse struct {
	ID              uuid.UUID `json:"id"`
	Route           string    `json:"route"`
	BasePrice       int       `json:"basePrice"`
	ACPrice         int       `json:"acPrice"`
	TodayPrice      int       `json:"todayPrice"`
	StudentDiscount int       `json:"studentDiscount"`
	SeniorDiscount  int       `json:"seniorDiscount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ListFares handles GET /api/fares.
func (s *Server) ListFares(w http.ResponseWriter, r *http.Request) {
	fares, err := s.fares.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	out := make([]fareResponse, len(fares))
	for i, f := range fares {
		out[i] = fareToResponse(f)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetFare handles GET /api/fares/{id}.
func (s *Server) GetFare(w http.ResponseWriter, r *http.Request) {
	id, ok := fareID(w, r)
	if !ok {
		return
	}
	fare, err := s.fares.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, fareNotFound)
		return
	}
	writeJSON(w, http.StatusOK, fareToResponse(fare))
}

// CreateFare handles POST /api/fares.
func (s *Server) CreateFare(w http.ResponseWriter, r *http.Request) {
	var req fareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}
	created, err := s.fares.Create(r.Context(), requestToFare(uuid.Nil, req))
	if err != nil {
		s.writeServiceError(w, r, err, fareNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, fareToResponse(created))
}

// UpdateFare handles PUT /api/fares/{id}.
func (s *Server) UpdateFare(w http.ResponseWriter, r *http.Request) {
	id, ok := fareID(w, r)
	if !ok {
		return
	}
	var req fareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}
	updated, err := s.fares.Update(r.Context(), requestToFare(id, req))
	if err != nil {
		s.writeServiceError(w, r, err, fareNotFound)
		return
	}
	writeJSON(w, http.StatusOK, fareToResponse(updated))
}

// DeleteFare handles DELETE /api/fares/{id}.
func (s *Server) DeleteFare(w http.ResponseWriter, r *http.Request) {
	id, ok := fareID(w, r)
	if !ok {
		return
	}
	if err := s.fares.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, fareNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Fare deleted successfully"})
}

func fareID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: fareNotFound, Code: codeNotFound})
		return uuid.Nil, false
	}
	return id, true
}

func requestToFare(id uuid.UUID, req fareRequest) domain.Fare {
	return domain.Fare{
		ID:              id,
		Route:           req.Route,
		BasePrice:       req.BasePrice,
		ACPrice:         req.ACPrice,
		TodayPrice:      req.TodayPrice,
		StudentDiscount: req.StudentDiscount,
		SeniorDiscount:  req.SeniorDiscount,
	}
}

func fareToResponse(f domain.Fare) fareResponse {
	return fareResponse{
		ID:              f.ID,
		Route:           f.Route,
		BasePrice:       f.BasePrice,
		ACPrice:         f.ACPrice,
		TodayPrice:      f.TodayPrice,
		StudentDiscount: f.StudentDiscount,
		SeniorDiscount:  f.SeniorDiscount,
		CreatedAt:       f.CreatedAt.UTC(),
		UpdatedAt:       f.UpdatedAt.UTC(),
	}
}
