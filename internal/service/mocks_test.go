package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/mailer"
	"github.com/adibus/fleet/internal/repo"
	"github.com/adibus/fleet/internal/service"
)

// mockBusRepo is a test double for repo.BusRepo.
// Set only the method fields your test needs.
type mockBusRepo struct {
	create     func(ctx context.Context, bus domain.Bus) (domain.Bus, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Bus, error)
	list       func(ctx context.Context) ([]domain.Bus, error)
	listPaged  func(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error)
	update     func(ctx context.Context, bus domain.Bus) (domain.Bus, error)
	patch      func(ctx context.Context, id uuid.UUID, p domain.BusPatch) (domain.Bus, error)
	updateSeat func(ctx context.Context, busID uuid.UUID, seatNumber int, status domain.SeatStatus, name *string) (domain.Bus, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBusRepo) Create(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	return m.create(ctx, bus)
}
func (m *mockBusRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error) {
	return m.getByID(ctx, id)
}
func (m *mockBusRepo) List(ctx context.Context) ([]domain.Bus, error) {
	return m.list(ctx)
}
func (m *mockBusRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockBusRepo) Update(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	return m.update(ctx, bus)
}
func (m *mockBusRepo) Patch(ctx context.Context, id uuid.UUID, p domain.BusPatch) (domain.Bus, error) {
	return m.patch(ctx, id, p)
}
func (m *mockBusRepo) UpdateSeat(ctx context.Context, busID uuid.UUID, seatNumber int, status domain.SeatStatus, name *string) (domain.Bus, error) {
	return m.updateSeat(ctx, busID, seatNumber, status, name)
}
func (m *mockBusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockFareRepo struct {
	create  func(ctx context.Context, f domain.Fare) (domain.Fare, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Fare, error)
	list    func(ctx context.Context) ([]domain.Fare, error)
	update  func(ctx context.Context, f domain.Fare) (domain.Fare, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockFareRepo) Create(ctx context.Context, f domain.Fare) (domain.Fare, error) {
	return m.create(ctx, f)
}
func (m *mockFareRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Fare, error) {
	return m.getByID(ctx, id)
}
func (m *mockFareRepo) List(ctx context.Context) ([]domain.Fare, error) {
	return m.list(ctx)
}
func (m *mockFareRepo) Update(ctx context.Context, f domain.Fare) (domain.Fare, error) {
	return m.update(ctx, f)
}
func (m *mockFareRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// recordingSender captures every message it is asked to send and returns err.
type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msgs ...mailer.Message) error {
	s.sent = append(s.sent, msgs...)
	return s.err
}

// compile-time checks.
var (
	_ repo.BusRepo       = (*mockBusRepo)(nil)
	_ repo.FareRepo      = (*mockFareRepo)(nil)
	_ service.MailSender = (*recordingSender)(nil)
)

func ptr[T any](v T) *T { return &v }
