// Package domain contains the core data types for the ADIBUS fleet API.
// This package has no dependency on storage or transport and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// BusStatus is the operational state of a bus.
// Transitions between any two values are unrestricted.
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusInactive    BusStatus = "inactive"
)

// Valid reports whether s is one of the enumerated bus statuses.
func (s BusStatus) Valid() bool {
	switch s {
	case BusStatusActive, BusStatusMaintenance, BusStatusInactive:
		return true
	}
	return false
}

// DefaultStopBookingBefore is the booking cutoff, in minutes, applied when a
// bus is created without one.
const DefaultStopBookingBefore = 30

// Bus is a fleet vehicle with its route, schedule and seat inventory.
// Seats always has exactly Capacity entries; Seats[i].Number == i+1.
type Bus struct {
	ID                uuid.UUID
	Number            string
	Route             string
	Capacity          int
	Status            BusStatus
	DepartureTime     time.Time
	StopBookingBefore int // minutes before DepartureTime
	Seats             []Seat
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BusPatch carries a partial update of a bus. Nil fields are left untouched
// by the store.
type BusPatch struct {
	Status            *BusStatus
	DepartureTime     *time.Time
	StopBookingBefore *int
}

// AvailableSeatCount returns the number of seats whose status is available.
func (b Bus) AvailableSeatCount() int {
	return b.countSeats(SeatStatusAvailable)
}

// BookingClosesAt is the instant after which booking is conceptually closed.
func (b Bus) BookingClosesAt() time.Time {
	return b.DepartureTime.Add(-time.Duration(b.StopBookingBefore) * time.Minute)
}

// IsBookingOpen reports whether now falls before the booking cutoff and the
// bus is active. Nothing in the store enforces it.
func (b Bus) IsBookingOpen(now time.Time) bool {
	return b.Status == BusStatusActive && now.Before(b.BookingClosesAt())
}

// Summary aggregates the seat inventory of b as of now.
func (b Bus) Summary(now time.Time) SeatSummary {
	return SeatSummary{
		Capacity:        b.Capacity,
		Available:       b.countSeats(SeatStatusAvailable),
		Booked:          b.countSeats(SeatStatusBooked),
		Locked:          b.countSeats(SeatStatusLocked),
		BookingOpen:     b.IsBookingOpen(now),
		BookingClosesAt: b.BookingClosesAt(),
	}
}

// Clone returns a deep copy of b; the seat slice and passenger names are not
// shared with the original.
func (b Bus) Clone() Bus {
	out := b
	out.Seats = make([]Seat, len(b.Seats))
	for i, s := range b.Seats {
		if s.PassengerName != nil {
			name := *s.PassengerName
			s.PassengerName = &name
		}
		out.Seats[i] = s
	}
	return out
}

func (b Bus) countSeats(status SeatStatus) int {
	n := 0
	for _, s := range b.Seats {
		if s.Status == status {
			n++
		}
	}
	return n
}
