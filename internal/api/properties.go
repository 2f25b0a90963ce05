package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bookbnb/internal/models"

	"github.com/google/uuid"
)

// ListProperties is public and served from the cache when one is configured.
func (c *Client) ListProperties(ctx context.Context) ([]models.Property, error) {
	var props []models.Property
	if c.readCache(ctx, cacheKeyProperties, &props) {
		return props, nil
	}

	if err := c.get(ctx, "/properties", "GET /properties", authNone, &props); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKeyProperties, props)
	return props, nil
}

func (c *Client) GetProperty(ctx context.Context, id uuid.UUID) (*models.PropertyDetail, error) {
	cacheKey := cacheKeyPropertyPrefix + id.String()
	var detail models.PropertyDetail
	if c.readCache(ctx, cacheKey, &detail) {
		return &detail, nil
	}

	path := fmt.Sprintf("/properties/%s", url.PathEscape(id.String()))
	if err := c.get(ctx, path, "GET /properties/:id", authNone, &detail); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, detail)
	return &detail, nil
}

func (c *Client) CreateProperty(ctx context.Context, p models.NewProperty) (uuid.UUID, error) {
	var resp struct {
		ID      uuid.UUID `json:"id"`
		Message string    `json:"message"`
	}
	if err := c.send(ctx, http.MethodPost, "/properties", "POST /properties", p, &resp); err != nil {
		return uuid.Nil, err
	}
	c.invalidateProperties(ctx)
	return resp.ID, nil
}

func (c *Client) UpdateProperty(ctx context.Context, p models.PropertyUpdate) error {
	if err := c.send(ctx, http.MethodPut, "/properties", "PUT /properties", p, nil); err != nil {
		return err
	}
	c.invalidateProperties(ctx)
	return nil
}

func (c *Client) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	path := fmt.Sprintf("/properties/%s", url.PathEscape(id.String()))
	if err := c.send(ctx, http.MethodDelete, path, "DELETE /properties/:id", nil, nil); err != nil {
		return err
	}
	c.invalidateProperties(ctx)
	return nil
}

// CheckAvailability asks whether the property is free for [startDate, endDate). Dates use models.DateLayout.
func (c *Client) CheckAvailability(ctx context.Context, id uuid.UUID, startDate, endDate string) (bool, error) {
	var resp models.Availability
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/properties/%s/availability", url.PathEscape(id.String())),
		query:    url.Values{"start_date": {startDate}, "end_date": {endDate}},
		endpoint: "GET /properties/:id/availability",
	}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Available, nil
}

func (c *Client) AddImages(ctx context.Context, propertyID uuid.UUID, images []models.ImageInput) error {
	body := struct {
		Images []models.ImageInput `json:"images"`
	}{Images: images}
	path := fmt.Sprintf("/property/image/%s", url.PathEscape(propertyID.String()))
	if err := c.send(ctx, http.MethodPost, path, "POST /property/image/:id", body, nil); err != nil {
		return err
	}
	c.invalidateProperties(ctx)
	return nil
}

func (c *Client) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	path := fmt.Sprintf("/property/image/%s", url.PathEscape(imageID.String()))
	if err := c.send(ctx, http.MethodDelete, path, "DELETE /property/image/:id", nil, nil); err != nil {
		return err
	}
	c.invalidateProperties(ctx)
	return nil
}
