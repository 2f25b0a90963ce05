package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookbnb/internal/models"

	"github.com/google/uuid"
)

func (c *Client) ListAmenities(ctx context.Context) ([]models.Amenity, error) {
	var amenities []models.Amenity
	if err := c.get(ctx, "/amenities", "GET /amenities", authRequired, &amenities); err != nil {
		return nil, err
	}
	return amenities, nil
}

func (c *Client) CreateAmenity(ctx context.Context, a models.NewAmenity) (*models.Amenity, error) {
	var amenity models.Amenity
	if err := c.send(ctx, http.MethodPost, "/amenities", "POST /amenities", a, &amenity); err != nil {
		return nil, err
	}
	return &amenity, nil
}

func (c *Client) AddAmenitiesToProperty(ctx context.Context, propertyID uuid.UUID, amenityIDs []uuid.UUID) error {
	body := struct {
		AmenityIDs []uuid.UUID `json:"amenity_id"`
	}{AmenityIDs: amenityIDs}
	path := fmt.Sprintf("/properties/%s/amenities", url.PathEscape(propertyID.String()))
	if err := c.send(ctx, http.MethodPost, path, "POST /properties/:id/amenities", body, nil); err != nil {
		return err
	}
	c.invalidateProperties(ctx)
	return nil
}
