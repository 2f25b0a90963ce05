package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookbnb/internal/models"

	"github.com/google/uuid"
)

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.get(ctx, "/bookings", "GET /bookings", authRequired, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(id.String()))
	if err := c.get(ctx, path, "GET /bookings/:id", authRequired, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	var booking models.Booking
	if err := c.send(ctx, http.MethodPost, "/bookings", "POST /bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking moves a booking to cancelled. The backend takes no body.
func (c *Client) CancelBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(id.String()))
	if err := c.send(ctx, http.MethodPatch, path, "PATCH /bookings/:id", nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
