package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/repo"
)

// SeatService manages the seat inventory and schedule fields of a bus:
// per-seat status, departure time and booking cutoff.
//
// The booking window (IsBookingOpen) is a separate check. SetSeatStatus does
// not consult it; an operator may book a seat on a closed bus.
type SeatService struct {
	repo repo.BusRepo
	now  func() time.Time
}

// SeatOption customises a SeatService.
type SeatOption func(*SeatService)

// WithClock replaces the wall clock used by Summary.
func WithClock(now func() time.Time) SeatOption {
	return func(s *SeatService) { s.now = now }
}

// NewSeatService constructs a SeatService backed by the provided BusRepo.
func NewSeatService(r repo.BusRepo, opts ...SeatOption) *SeatService {
	s := &SeatService{repo: r, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSeatStatus sets the status of the seat at zero-based seatIndex.
// passengerName is stored verbatim when non-nil and left unchanged when nil.
// Returns domain.ErrValidation for a bad status or an index outside
// [0, capacity), and domain.ErrNotFound if the bus does not exist.
func (s *SeatService) SetSeatStatus(ctx context.Context, busID uuid.UUID, seatIndex int, status domain.SeatStatus, passengerName *string) (domain.Bus, error) {
	if !status.Valid() {
		return domain.Bus{}, fmt.Errorf("%w: seat status must be one of available, booked, locked", domain.ErrValidation)
	}
	bus, err := s.repo.GetByID(ctx, busID)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.SeatService.SetSeatStatus: %w", err)
	}
	if seatIndex < 0 || seatIndex >= bus.Capacity {
		return domain.Bus{}, fmt.Errorf("%w: invalid seat index", domain.ErrValidation)
	}

	updated, err := s.repo.UpdateSeat(ctx, busID, seatIndex+1, status, passengerName)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.SeatService.SetSeatStatus: %w", err)
	}
	return updated, nil
}

// SetDepartureTime replaces the departure time. Times in the past are
// accepted as-is.
func (s *SeatService) SetDepartureTime(ctx context.Context, busID uuid.UUID, departure time.Time) (domain.Bus, error) {
	if departure.IsZero() {
		return domain.Bus{}, fmt.Errorf("%w: departureTime is required", domain.ErrValidation)
	}
	departure = departure.UTC()
	bus, err := s.repo.Patch(ctx, busID, domain.BusPatch{DepartureTime: &departure})
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.SeatService.SetDepartureTime: %w", err)
	}
	return bus, nil
}

// SetBookingCutoff sets how many minutes before departure booking closes.
// minutes must not be negative; no upper bound applies at this layer.
func (s *SeatService) SetBookingCutoff(ctx context.Context, busID uuid.UUID, minutes int) (domain.Bus, error) {
	if minutes < 0 {
		return domain.Bus{}, fmt.Errorf("%w: stopBookingBefore must not be negative", domain.ErrValidation)
	}
	bus, err := s.repo.Patch(ctx, busID, domain.BusPatch{StopBookingBefore: &minutes})
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.SeatService.SetBookingCutoff: %w", err)
	}
	return bus, nil
}

// AvailableSeatCount returns the number of available seats on bus.
func (s *SeatService) AvailableSeatCount(bus domain.Bus) int {
	return bus.AvailableSeatCount()
}

// IsBookingOpen reports whether bus is active and now is before its cutoff.
func (s *SeatService) IsBookingOpen(bus domain.Bus, now time.Time) bool {
	return bus.IsBookingOpen(now)
}

// Summary loads a bus and aggregates its seat inventory as of now.
func (s *SeatService) Summary(ctx context.Context, busID uuid.UUID) (domain.SeatSummary, error) {
	bus, err := s.repo.GetByID(ctx, busID)
	if err != nil {
		return domain.SeatSummary{}, fmt.Errorf("service.SeatService.Summary: %w", err)
	}
	return bus.Summary(s.now()), nil
}
