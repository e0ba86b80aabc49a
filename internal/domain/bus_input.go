package domain

import "time"

// BusInput is the caller-supplied part of a bus for create and full update.
// Pointer fields are optional; what an omitted field means depends on the
// operation (a default on create, the stored value on update).
type BusInput struct {
	Number            string
	Route             string
	Capacity          *int
	Status            *BusStatus
	DepartureTime     *time.Time
	StopBookingBefore *int
}
