package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/service"
)

func TestSeatService_SetSeatStatus_TranslatesIndex(t *testing.T) {
	bus := storedBus()
	var gotNumber int
	var gotName *string
	repo := &mockBusRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Bus, error) { return bus, nil },
		updateSeat: func(_ context.Context, _ uuid.UUID, n int, _ domain.SeatStatus, name *string) (domain.Bus, error) {
			gotNumber, gotName = n, name
			return bus, nil
		},
	}

	_, err := service.NewSeatService(repo).SetSeatStatus(context.Background(), bus.ID, 1, domain.SeatStatusBooked, ptr("Asha"))

	require.NoError(t, err)
	assert.Equal(t, 2, gotNumber, "index 1 is seat number 2")
	require.NotNil(t, gotName)
	assert.Equal(t, "Asha", *gotName)
}

func TestSeatService_SetSeatStatus_IndexOutOfRange(t *testing.T) {
	bus := storedBus()
	for _, idx := range []int{-1, 2, 99} {
		repo := &mockBusRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Bus, error) { return bus, nil },
			updateSeat: func(_ context.Context, _ uuid.UUID, _ int, _ domain.SeatStatus, _ *string) (domain.Bus, error) {
				t.Fatal("updateSeat must not be called")
				return domain.Bus{}, nil
			},
		}

		_, err := service.NewSeatService(repo).SetSeatStatus(context.Background(), bus.ID, idx, domain.SeatStatusBooked, nil)

		require.ErrorIs(t, err, domain.ErrValidation, "index %d", idx)
		assert.ErrorContains(t, err, "invalid seat index")
	}
}

func TestSeatService_SetSeatStatus_InvalidStatus(t *testing.T) {
	_, err := service.NewSeatService(&mockBusRepo{}).SetSeatStatus(context.Background(), uuid.New(), 0, "held", nil)

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSeatService_SetSeatStatus_BusNotFound(t *testing.T) {
	repo := &mockBusRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Bus, error) { return domain.Bus{}, domain.ErrNotFound },
	}

	_, err := service.NewSeatService(repo).SetSeatStatus(context.Background(), uuid.New(), 0, domain.SeatStatusBooked, nil)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeatService_SetDepartureTime_AcceptsPast(t *testing.T) {
	past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	var got domain.BusPatch
	repo := &mockBusRepo{
		patch: func(_ context.Context, _ uuid.UUID, p domain.BusPatch) (domain.Bus, error) {
			got = p
			return storedBus(), nil
		},
	}

	_, err := service.NewSeatService(repo).SetDepartureTime(context.Background(), uuid.New(), past)

	require.NoError(t, err)
	require.NotNil(t, got.DepartureTime)
	assert.Equal(t, past, *got.DepartureTime)
	assert.Nil(t, got.Status)
}

func TestSeatService_SetDepartureTime_ZeroRejected(t *testing.T) {
	_, err := service.NewSeatService(&mockBusRepo{}).SetDepartureTime(context.Background(), uuid.New(), time.Time{})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSeatService_SetBookingCutoff(t *testing.T) {
	var got domain.BusPatch
	repo := &mockBusRepo{
		patch: func(_ context.Context, _ uuid.UUID, p domain.BusPatch) (domain.Bus, error) {
			got = p
			return storedBus(), nil
		},
	}
	svc := service.NewSeatService(repo)

	_, err := svc.SetBookingCutoff(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	require.NotNil(t, got.StopBookingBefore)
	assert.Equal(t, 0, *got.StopBookingBefore)

	_, err = svc.SetBookingCutoff(context.Background(), uuid.New(), -1)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSeatService_Summary_UsesClock(t *testing.T) {
	bus := storedBus()
	bus.Status = domain.BusStatusActive
	bus.StopBookingBefore = 30
	bus.Seats[0].Status = domain.SeatStatusLocked
	repo := &mockBusRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Bus, error) { return bus, nil },
	}

	open := service.NewSeatService(repo, service.WithClock(func() time.Time { return departure.Add(-31 * time.Minute) }))
	closed := service.NewSeatService(repo, service.WithClock(func() time.Time { return departure.Add(-30 * time.Minute) }))

	sum, err := open.Summary(context.Background(), bus.ID)
	require.NoError(t, err)
	assert.True(t, sum.BookingOpen)
	assert.Equal(t, 2, sum.Capacity)
	assert.Equal(t, 1, sum.Available)
	assert.Equal(t, 1, sum.Locked)
	assert.Equal(t, departure.Add(-30*time.Minute), sum.BookingClosesAt)

	sum, err = closed.Summary(context.Background(), bus.ID)
	require.NoError(t, err)
	assert.False(t, sum.BookingOpen, "booking closes exactly at the cutoff")
}

func TestSeatService_PureHelpers(t *testing.T) {
	bus := storedBus()
	bus.Status = domain.BusStatusActive
	bus.Seats[1].Status = domain.SeatStatusBooked
	svc := service.NewSeatService(&mockBusRepo{})

	assert.Equal(t, 1, svc.AvailableSeatCount(bus))
	assert.True(t, svc.IsBookingOpen(bus, departure.Add(-time.Hour)))

	bus.Status = domain.BusStatusMaintenance
	assert.False(t, svc.IsBookingOpen(bus, departure.Add(-time.Hour)))
}
