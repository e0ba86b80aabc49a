package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adibus/fleet/internal/domain"
)

var departure = time.Date(2026, 11, 2, 6, 30, 0, 0, time.UTC)

func newBus(capacity int) domain.Bus {
	return domain.Bus{
		Number:            "BA 1 KHA 1001",
		Capacity:          capacity,
		Status:            domain.BusStatusActive,
		DepartureTime:     departure,
		StopBookingBefore: 30,
		Seats:             domain.NewSeats(capacity),
	}
}

func TestNewSeats(t *testing.T) {
	seats := domain.NewSeats(3)

	assert.Len(t, seats, 3)
	for i, s := range seats {
		assert.Equal(t, i+1, s.Number)
		assert.Equal(t, domain.SeatStatusAvailable, s.Status)
		assert.Nil(t, s.PassengerName)
	}
}

func TestBus_IsBookingOpen(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BusStatus
		now    time.Time
		want   bool
	}{
		{"well before cutoff", domain.BusStatusActive, departure.Add(-2 * time.Hour), true},
		{"one second before cutoff", domain.BusStatusActive, departure.Add(-30*time.Minute - time.Second), true},
		{"exactly at cutoff", domain.BusStatusActive, departure.Add(-30 * time.Minute), false},
		{"inside cutoff", domain.BusStatusActive, departure.Add(-10 * time.Minute), false},
		{"after departure", domain.BusStatusActive, departure.Add(time.Hour), false},
		{"maintenance", domain.BusStatusMaintenance, departure.Add(-2 * time.Hour), false},
		{"inactive", domain.BusStatusInactive, departure.Add(-2 * time.Hour), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newBus(2)
			b.Status = tc.status
			assert.Equal(t, tc.want, b.IsBookingOpen(tc.now))
		})
	}
}

func TestBus_IsBookingOpen_ZeroCutoff(t *testing.T) {
	b := newBus(1)
	b.StopBookingBefore = 0

	assert.True(t, b.IsBookingOpen(departure.Add(-time.Second)))
	assert.False(t, b.IsBookingOpen(departure))
}

func TestBus_Summary(t *testing.T) {
	b := newBus(5)
	b.Seats[0].Status = domain.SeatStatusBooked
	b.Seats[1].Status = domain.SeatStatusBooked
	b.Seats[4].Status = domain.SeatStatusLocked

	got := b.Summary(departure.Add(-time.Hour))

	assert.Equal(t, domain.SeatSummary{
		Capacity:        5,
		Available:       2,
		Booked:          2,
		Locked:          1,
		BookingOpen:     true,
		BookingClosesAt: departure.Add(-30 * time.Minute),
	}, got)
	assert.Equal(t, 2, b.AvailableSeatCount())
}

func TestBus_Clone(t *testing.T) {
	b := newBus(2)
	name := "Gita"
	b.Seats[0].PassengerName = &name

	c := b.Clone()
	c.Seats[0].Status = domain.SeatStatusBooked
	*c.Seats[0].PassengerName = "changed"

	assert.Equal(t, domain.SeatStatusAvailable, b.Seats[0].Status)
	assert.Equal(t, "Gita", *b.Seats[0].PassengerName)
}

func TestStatuses_Valid(t *testing.T) {
	for _, s := range []domain.BusStatus{"active", "maintenance", "inactive"} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, domain.BusStatus("retired").Valid())
	assert.False(t, domain.BusStatus("").Valid())

	for _, s := range []domain.SeatStatus{"available", "booked", "locked"} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, domain.SeatStatus("held").Valid())
}
