package domain

import "time"

// SeatStatus is the booking state of a single seat.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
	// SeatStatusLocked marks a seat that is held and cannot be booked.
	SeatStatusLocked SeatStatus = "locked"
)

// Valid reports whether s is one of the enumerated seat statuses.
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusBooked, SeatStatusLocked:
		return true
	}
	return false
}

// Seat is one bookable unit of a bus. Number is 1-based and immutable.
// PassengerName is nil until a caller explicitly supplies one.
type Seat struct {
	Number        int
	Status        SeatStatus
	PassengerName *string
}

// NewSeats returns capacity seats numbered 1..capacity, all available.
func NewSeats(capacity int) []Seat {
	seats := make([]Seat, capacity)
	for i := range seats {
		seats[i] = Seat{Number: i + 1, Status: SeatStatusAvailable}
	}
	return seats
}

// SeatSummary is the derived seat inventory of a bus at a point in time.
type SeatSummary struct {
	Capacity        int
	Available       int
	Booked          int
	Locked          int
	BookingOpen     bool
	BookingClosesAt time.Time
}
