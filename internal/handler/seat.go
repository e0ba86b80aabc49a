package handler

import (
	"net/http"
	"time"

	"github.com/adibus/fleet/internal/domain"
)

type statusRequest struct {
	Status domain.BusStatus `json:"status" validate:"required"`
}

type seatRequest struct {
	Status        domain.SeatStatus `json:"status" validate:"required"`
	PassengerName *string           `json:"passengerName"`
}

type departureRequest struct {
	DepartureTime *timestamp `json:"departureTime" validate:"required"`
}

type bookingCutoffRequest struct {
	StopBookingBefore *int `json:"stopBookingBefore" validate:"required,min=0,max=180"`
}

type seatSummaryResponse struct {
	Capacity        int       `json:"capacity"`
	Available       int       `json:"available"`
	Booked          int       `json:"booked"`
	Locked          int       `json:"locked"`
	BookingOpen     bool      `json:"bookingOpen"`
	BookingClosesAt time.Time `json:"bookingClosesAt"`
}

// SetBusStatus handles PATCH /api/buses/{id}/status.
func (s *Server) SetBusStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}

	bus, err := s.buses.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, busToResponse(bus))
}

// SetSeatStatus handles PATCH /api/buses/{id}/seats/{seatIndex}.
// seatIndex is zero-based; passengerName is written only when present.
func (s *Server) SetSeatStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	index, err := pathInt(r, "seatIndex")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid seat index", Code: codeValidation})
		return
	}
	var req seatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}

	bus, err := s.seats.SetSeatStatus(r.Context(), id, index, req.Status, req.PassengerName)
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, busToResponse(bus))
}

// SetDepartureTime handles PATCH /api/buses/{id}/departure.
func (s *Server) SetDepartureTime(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	var req departureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}

	bus, err := s.seats.SetDepartureTime(r.Context(), id, req.DepartureTime.Time)
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, busToResponse(bus))
}

// SetBookingCutoff handles PATCH /api/buses/{id}/booking-cutoff.
// Values above 180 minutes are rejected rather than clamped.
func (s *Server) SetBookingCutoff(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	var req bookingCutoffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}

	bus, err := s.seats.SetBookingCutoff(r.Context(), id, *req.StopBookingBefore)
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, busToResponse(bus))
}

// GetSeatSummary handles GET /api/buses/{id}/summary.
func (s *Server) GetSeatSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	sum, err := s.seats.Summary(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, seatSummaryResponse{
		Capacity:        sum.Capacity,
		Available:       sum.Available,
		Booked:          sum.Booked,
		Locked:          sum.Locked,
		BookingOpen:     sum.BookingOpen,
		BookingClosesAt: sum.BookingClosesAt.UTC(),
	})
}
