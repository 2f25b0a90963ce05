package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID         uuid.UUID       `json:"id"`
	PropertyID uuid.UUID       `json:"property_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Property   BookingProperty `json:"Property"`
	FirstName  string          `json:"first_name,omitempty"`
	LastName   string          `json:"last_name,omitempty"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	TotalPrice Money           `json:"total_price"`
	Status     string          `json:"status"` // booked, cancelled
	CreatedAt  time.Time       `json:"created_at"`
}

// BookingProperty is the property summary embedded in booking responses.
type BookingProperty struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BookingRequest is the POST /bookings body. Dates use DateLayout.
type BookingRequest struct {
	PropertyID uuid.UUID `json:"property_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalPrice Money     `json:"total_price"`
}
