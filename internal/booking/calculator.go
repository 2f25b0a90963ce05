// Package booking prices a stay from a date range and a nightly rate.
package booking

import (
	"strings"
	"time"

	"bookbnb/internal/domain"
	"bookbnb/internal/models"

	"github.com/google/uuid"
)

const (
	msgDatesRequired = "Please select both check-in and check-out dates"
	msgEndAfterStart = "End date must be after start date"
	msgInvalidDate   = "Dates must use the YYYY-MM-DD format"
	msgNegativePrice = "Price per night cannot be negative"
	msgTotalTooLarge = "Total price is too large"
)

// Quote is the priced result for a valid date range.
type Quote struct {
	StartDate     time.Time
	EndDate       time.Time
	Nights        int64
	PricePerNight models.Money
	Total         models.Money
}

// Nights counts calendar nights between check-in and check-out, rounding partial days up.
func Nights(start, end time.Time) int64 {
	d := end.Sub(start)
	n := int64(d / models.Night)
	if d > 0 && d%models.Night != 0 {
		n++
	}
	return n
}

// ValidateRange rejects unset dates and ranges where end is not after start.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.NewValidationError("dates", msgDatesRequired)
	}
	if !end.After(start) {
		return domain.NewValidationError("end_date", msgEndAfterStart)
	}
	return nil
}

// Calculate returns nights = ceil((end-start)/1 day) and total = nights × price.
func Calculate(start, end time.Time, pricePerNight models.Money) (Quote, error) {
	if err := ValidateRange(start, end); err != nil {
		return Quote{}, err
	}
	if pricePerNight < 0 {
		return Quote{}, domain.NewValidationError("price_per_night", msgNegativePrice)
	}

	nights := Nights(start, end)
	total, err := pricePerNight.Mul(nights)
	if err != nil {
		return Quote{}, domain.NewValidationError("total_price", msgTotalTooLarge)
	}
	return Quote{
		StartDate:     start,
		EndDate:       end,
		Nights:        nights,
		PricePerNight: pricePerNight,
		Total:         total,
	}, nil
}

// ParseDate parses a YYYY-MM-DD date at UTC midnight. An empty string yields the zero time.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", msgInvalidDate)
	}
	return t, nil
}

// Request builds the POST /bookings body for a quote.
func (q Quote) Request(propertyID uuid.UUID) models.BookingRequest {
	return models.BookingRequest{
		PropertyID: propertyID,
		StartDate:  q.StartDate.Format(models.DateLayout),
		EndDate:    q.EndDate.Format(models.DateLayout),
		TotalPrice: q.Total,
	}
}
