package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
)

const busNotFound = "Bus not found"

// createBusRequest is the body of POST /api/buses.
type createBusRequest struct {
	Number            string            `json:"number" validate:"required"`
	Route             string            `json:"route" validate:"required"`
	Capacity          *int              `json:"capacity" validate:"required,min=1,max=1000"`
	Status            *domain.BusStatus `json:"status"`
	DepartureTime     *timestamp        `json:"departureTime" validate:"required"`
	StopBookingBefore *int              `json:"stopBookingBefore" validate:"omitempty,min=0,max=180"`
}

// updateBusRequest is the body of PUT /api/buses/{id}. Capacity may be
// echoed back but cannot differ from the stored value.
type updateBusRequest struct {
	Number            string            `json:"number" validate:"required"`
	Route             string            `json:"route" validate:"required"`
	Capacity          *int              `json:"capacity" validate:"omitempty,min=1,max=1000"`
	Status            *domain.BusStatus `json:"status"`
	DepartureTime     *timestamp        `json:"departureTime" validate:"required"`
	StopBookingBefore *int              `json:"stopBookingBefore" validate:"omitempty,min=0,max=180"`
}

type seatResponse struct {
	SeatNumber    int               `json:"seatNumber"`
	Status        domain.SeatStatus `json:"status"`
	PassengerName *string           `json:"passengerName,omitempty"`
}

type busResponse struct {
	ID                uuid.UUID        `json:"id"`
	Number            string           `json:"number"`
	Route             string           `json:"route"`
	Capacity          int              `json:"capacity"`
	Status            domain.BusStatus `json:"status"`
	DepartureTime     time.Time        `json:"departureTime"`
	StopBookingBefore int              `json:"stopBookingBefore"`
	Seats             []seatResponse   `json:"seats"`
	AvailableSeats    int              `json:"availableSeats"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// ListBuses handles GET /api/buses.
// Without paging parameters the whole fleet is returned. With ?page= or
// ?limit= one page is returned and the total goes in X-Total-Count.
func (s *Server) ListBuses(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: codeValidation})
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: codeValidation})
		return
	}

	var buses []domain.Bus
	if page == nil && limit == nil {
		buses, err = s.buses.List(r.Context())
	} else {
		var total int64
		buses, total, err = s.buses.ListPaged(r.Context(), domain.NewPaginationParams(page, limit))
		w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	out := make([]busResponse, len(buses))
	for i, b := range buses {
		out[i] = busToResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetBus handles GET /api/buses/{id}.
func (s *Server) GetBus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	bus, err := s.buses.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, busToResponse(bus))
}

// CreateBus handles POST /api/buses.
func (s *Server) CreateBus(w http.ResponseWriter, r *http.Request) {
	var req createBusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}

	created, err := s.buses.Create(r.Context(), domain.BusInput{
		Number:            req.Number,
		Route:             req.Route,
		Capacity:          req.Capacity,
		Status:            req.Status,
		DepartureTime:     req.DepartureTime.ptr(),
		StopBookingBefore: req.StopBookingBefore,
	})
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, busToResponse(created))
}

// UpdateBus handles PUT /api/buses/{id}.
func (s *Server) UpdateBus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	var req updateBusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, r, &req) {
		return
	}

	updated, err := s.buses.Update(r.Context(), id, domain.BusInput{
		Number:            req.Number,
		Route:             req.Route,
		Capacity:          req.Capacity,
		Status:            req.Status,
		DepartureTime:     req.DepartureTime.ptr(),
		StopBookingBefore: req.StopBookingBefore,
	})
	if err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, busToResponse(updated))
}

// DeleteBus handles DELETE /api/buses/{id}.
func (s *Server) DeleteBus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.busID(w, r)
	if !ok {
		return
	}
	if err := s.buses.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, busNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Bus deleted successfully"})
}

// busID reads the {id} path parameter. A value that is not a UUID cannot
// name a bus, so it is answered as not found.
func (s *Server) busID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: busNotFound, Code: codeNotFound})
		return uuid.Nil, false
	}
	return id, true
}

func busToResponse(b domain.Bus) busResponse {
	seats := make([]seatResponse, len(b.Seats))
	for i, st := range b.Seats {
		seats[i] = seatResponse{SeatNumber: st.Number, Status: st.Status, PassengerName: st.PassengerName}
	}
	return busResponse{
		ID:                b.ID,
		Number:            b.Number,
		Route:             b.Route,
		Capacity:          b.Capacity,
		Status:            b.Status,
		DepartureTime:     b.DepartureTime.UTC(),
		StopBookingBefore: b.StopBookingBefore,
		Seats:             seats,
		AvailableSeats:    b.AvailableSeatCount(),
		CreatedAt:         b.CreatedAt.UTC(),
		UpdatedAt:         b.UpdatedAt.UTC(),
	}
}
