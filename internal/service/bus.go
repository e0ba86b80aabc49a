// Package service contains the business logic for the ADIBUS fleet API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/repo"
)

// BusService is the bus registry: lifecycle and status of every bus.
type BusService struct {
	repo repo.BusRepo
}

// NewBusService constructs a BusService backed by the provided BusRepo.
func NewBusService(r repo.BusRepo) *BusService {
	return &BusService{repo: r}
}

// Create validates in and persists a new bus with in.Capacity available
// seats. Status defaults to active and the booking cutoff to
// domain.DefaultStopBookingBefore minutes.
// Returns domain.ErrValidation for bad input and domain.ErrDuplicateKey if
// the number is already registered.
func (s *BusService) Create(ctx context.Context, in domain.BusInput) (domain.Bus, error) {
	bus := domain.Bus{
		Number:            strings.TrimSpace(in.Number),
		Route:             strings.TrimSpace(in.Route),
		Status:            domain.BusStatusActive,
		StopBookingBefore: domain.DefaultStopBookingBefore,
	}
	if in.Capacity == nil {
		return domain.Bus{}, fmt.Errorf("%w: capacity is required", domain.ErrValidation)
	}
	bus.Capacity = *in.Capacity
	if in.DepartureTime == nil || in.DepartureTime.IsZero() {
		return domain.Bus{}, fmt.Errorf("%w: departureTime is required", domain.ErrValidation)
	}
	bus.DepartureTime = in.DepartureTime.UTC()
	if in.Status != nil {
		bus.Status = *in.Status
	}
	if in.StopBookingBefore != nil {
		bus.StopBookingBefore = *in.StopBookingBefore
	}
	if err := validateBus(bus); err != nil {
		return domain.Bus{}, err
	}

	bus.Seats = domain.NewSeats(bus.Capacity)
	created, err := s.repo.Create(ctx, bus)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single bus with its seats.
// Returns domain.ErrNotFound if no bus has that ID.
func (s *BusService) GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error) {
	bus, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.GetByID: %w", err)
	}
	return bus, nil
}

// List returns every bus, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BusService) List(ctx context.Context) ([]domain.Bus, error) {
	buses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.BusService.List: %w", err)
	}
	if buses == nil {
		return []domain.Bus{}, nil
	}
	return buses, nil
}

// ListPaged returns one page of buses, newest first, and the total count.
func (s *BusService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	buses, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BusService.ListPaged: %w", err)
	}
	if buses == nil {
		buses = []domain.Bus{}
	}
	return buses, total, nil
}

// Update replaces number, route and departure time of an existing bus.
// Status and booking cutoff keep their stored values when omitted.
// Capacity is fixed at creation: a supplied capacity must equal the stored
// one, otherwise domain.ErrValidation is returned and nothing changes.
func (s *BusService) Update(ctx context.Context, id uuid.UUID, in domain.BusInput) (domain.Bus, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.Update: %w", err)
	}
	if in.Capacity != nil && *in.Capacity != current.Capacity {
		return domain.Bus{}, fmt.Errorf("%w: capacity cannot change after creation", domain.ErrValidation)
	}
	if in.DepartureTime == nil || in.DepartureTime.IsZero() {
		return domain.Bus{}, fmt.Errorf("%w: departureTime is required", domain.ErrValidation)
	}

	next := current
	next.Number = strings.TrimSpace(in.Number)
	next.Route = strings.TrimSpace(in.Route)
	next.DepartureTime = in.DepartureTime.UTC()
	if in.Status != nil {
		next.Status = *in.Status
	}
	if in.StopBookingBefore != nil {
		next.StopBookingBefore = *in.StopBookingBefore
	}
	if err := validateBus(next); err != nil {
		return domain.Bus{}, err
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.Update: %w", err)
	}
	return updated, nil
}

// SetStatus moves a bus to status. Any transition is allowed.
func (s *BusService) SetStatus(ctx context.Context, id uuid.UUID, status domain.BusStatus) (domain.Bus, error) {
	if !status.Valid() {
		return domain.Bus{}, fmt.Errorf("%w: status must be one of active, maintenance, inactive", domain.ErrValidation)
	}
	bus, err := s.repo.Patch(ctx, id, domain.BusPatch{Status: &status})
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.SetStatus: %w", err)
	}
	return bus, nil
}

// Delete removes a bus and its seats. Deleting twice fails with
// domain.ErrNotFound the second time.
func (s *BusService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BusService.Delete: %w", err)
	}
	return nil
}

// validateBus enforces the rules shared by Create and Update.
//   - Number and Route must be non-empty.
//   - Capacity must be at least 1.
//   - Status must be one of the enumerated values.
//   - StopBookingBefore must not be negative.
func validateBus(b domain.Bus) error {
	if b.Number == "" {
		return fmt.Errorf("%w: number is required", domain.ErrValidation)
	}
	if b.Route == "" {
		return fmt.Errorf("%w: route is required", domain.ErrValidation)
	}
	if b.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", domain.ErrValidation)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: status must be one of active, maintenance, inactive", domain.ErrValidation)
	}
	if b.StopBookingBefore < 0 {
		return fmt.Errorf("%w: stopBookingBefore must not be negative", domain.ErrValidation)
	}
	return nil
}
