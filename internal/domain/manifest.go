package domain

import (
	"time"

	"github.com/google/uuid"
)

// ManifestRow is a single row of the seat manifest export.
// It is a flat, denormalized view: one row per seat, with bus fields repeated
// for every seat of that bus.
type ManifestRow struct {
	// Bus fields, repeated for every seat of the bus.
	BusID             uuid.UUID
	BusNumber         string
	Route             string
	BusStatus         BusStatus
	DepartureTime     time.Time
	StopBookingBefore int

	// Seat fields.
	SeatNumber    int
	SeatStatus    SeatStatus
	PassengerName *string // nil when no passenger was recorded
}
