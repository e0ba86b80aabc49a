// Package handler implements the HTTP handlers for the ADIBUS fleet API.
// All handlers are methods on Server. They are split into resource files
// (bus.go, seat.go, fare.go, ...) and share the Server's dependencies.
// Handler wires them into a chi router.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
)

// BusServicer defines the bus registry operations the handlers depend on.
// Interfaces live here, in the consumer package, so tests can inject
// function-field mocks without a store.
type BusServicer interface {
	Create(ctx context.Context, in domain.BusInput) (domain.Bus, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error)
	List(ctx context.Context) ([]domain.Bus, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error)
	Update(ctx context.Context, id uuid.UUID, in domain.BusInput) (domain.Bus, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.BusStatus) (domain.Bus, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SeatServicer defines the seat and schedule operations.
type SeatServicer interface {
	SetSeatStatus(ctx context.Context, busID uuid.UUID, seatIndex int, status domain.SeatStatus, passengerName *string) (domain.Bus, error)
	SetDepartureTime(ctx context.Context, busID uuid.UUID, departure time.Time) (domain.Bus, error)
	SetBookingCutoff(ctx context.Context, busID uuid.UUID, minutes int) (domain.Bus, error)
	Summary(ctx context.Context, busID uuid.UUID) (domain.SeatSummary, error)
}

// ContactServicer relays contact-form submissions.
type ContactServicer interface {
	Submit(ctx context.Context, msg domain.ContactMessage) error
}

// FareServicer defines the fare card operations.
type FareServicer interface {
	Create(ctx context.Context, fare domain.Fare) (domain.Fare, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Fare, error)
	List(ctx context.Context) ([]domain.Fare, error)
	Update(ctx context.Context, fare domain.Fare) (domain.Fare, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ManifestServicer produces the flat seat manifest.
type ManifestServicer interface {
	Export(ctx context.Context) ([]domain.ManifestRow, error)
}

// Deps lists the services a Server dispatches to. Tests may leave unused
// services nil.
type Deps struct {
	Buses    BusServicer
	Seats    SeatServicer
	Contact  ContactServicer
	Fares    FareServicer
	Manifest ManifestServicer
	Logger   *slog.Logger
}

// Server implements every API endpoint.
// Wire it in main.go via Handler(server).
type Server struct {
	buses    BusServicer
	seats    SeatServicer
	contact  ContactServicer
	fares    FareServicer
	manifest ManifestServicer

	log      *slog.Logger
	validate *validator.Validate
	started  time.Time
	now      func() time.Time
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		buses:    d.Buses,
		seats:    d.Seats,
		contact:  d.Contact,
		fares:    d.Fares,
		manifest: d.Manifest,
		log:      log,
		validate: newValidator(),
		started:  time.Now(),
		now:      time.Now,
	}
}
