package service

import (
	"context"
	"fmt"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/repo"
)

// ManifestService assembles the flat seat manifest of the whole fleet.
type ManifestService struct {
	buses repo.BusRepo
}

// NewManifestService constructs a ManifestService backed by the BusRepo.
func NewManifestService(buses repo.BusRepo) *ManifestService {
	return &ManifestService{buses: buses}
}

// Export returns one row per seat across all buses, newest bus first and
// seats in ascending seat-number order.
func (s *ManifestService) Export(ctx context.Context) ([]domain.ManifestRow, error) {
	buses, err := s.buses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ManifestService.Export: %w", err)
	}

	rows := []domain.ManifestRow{}
	for _, b := range buses {
		for _, seat := range b.Seats {
			row := domain.ManifestRow{
				BusID:             b.ID,
				BusNumber:         b.Number,
				Route:             b.Route,
				BusStatus:         b.Status,
				DepartureTime:     b.DepartureTime,
				StopBookingBefore: b.StopBookingBefore,
				SeatNumber:        seat.Number,
				SeatStatus:        seat.Status,
			}
			if seat.PassengerName != nil {
				name := *seat.PassengerName
				row.PassengerName = &name
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
