package domain

import (
	"time"

	"github.com/google/uuid"
)

// Fare is the price card for one route. Prices are whole rupees; discounts
// are percentages in 0..100.
type Fare struct {
	ID              uuid.UUID
	Route           string
	BasePrice       int
	ACPrice         int
	TodayPrice      int
	StudentDiscount int
	SeniorDiscount  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
