package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/repo"
)

// FareService implements business logic for route fare cards.
type FareService struct {
	repo repo.FareRepo
}

// NewFareService constructs a FareService backed by the provided FareRepo.
func NewFareService(r repo.FareRepo) *FareService {
	return &FareService{repo: r}
}

// Create validates and persists a new fare.
// Returns domain.ErrDuplicateKey if the route already has a fare.
func (s *FareService) Create(ctx context.Context, fare domain.Fare) (domain.Fare, error) {
	fare.Route = strings.TrimSpace(fare.Route)
	if err := validateFare(fare); err != nil {
		return domain.Fare{}, err
	}
	created, err := s.repo.Create(ctx, fare)
	if err != nil {
		return domain.Fare{}, fmt.Errorf("service.FareService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single fare.
func (s *FareService) GetByID(ctx context.Context, id uuid.UUID) (domain.Fare, error) {
	fare, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Fare{}, fmt.Errorf("service.FareService.GetByID: %w", err)
	}
	return fare, nil
}

// List returns all fares ordered by route. Never returns a nil slice.
func (s *FareService) List(ctx context.Context) ([]domain.Fare, error) {
	fares, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FareService.List: %w", err)
	}
	if fares == nil {
		return []domain.Fare{}, nil
	}
	return fares, nil
}

// Update validates and replaces an existing fare.
func (s *FareService) Update(ctx context.Context, fare domain.Fare) (domain.Fare, error) {
	fare.Route = strings.TrimSpace(fare.Route)
	if err := validateFare(fare); err != nil {
		return domain.Fare{}, err
	}
	updated, err := s.repo.Update(ctx, fare)
	if err != nil {
		return domain.Fare{}, fmt.Errorf("service.FareService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a fare by ID.
func (s *FareService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.FareService.Delete: %w", err)
	}
	return nil
}

// validateFare enforces:
//   - Route must be non-empty.
//   - Prices must not be negative.
//   - Discounts must be percentages in 0..100.
func validateFare(f domain.Fare) error {
	if f.Route == "" {
		return fmt.Errorf("%w: route is required", domain.ErrValidation)
	}
	prices := []struct {
		name  string
		value int
	}{
		{"basePrice", f.BasePrice},
		{"acPrice", f.ACPrice},
		{"todayPrice", f.TodayPrice},
	}
	for _, p := range prices {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrValidation, p.name)
		}
	}
	if f.StudentDiscount < 0 || f.StudentDiscount > 100 {
		return fmt.Errorf("%w: studentDiscount must be between 0 and 100", domain.ErrValidation)
	}
	if f.SeniorDiscount < 0 || f.SeniorDiscount > 100 {
		return fmt.Errorf("%w: seniorDiscount must be between 0 and 100", domain.ErrValidation)
	}
	return nil
}
