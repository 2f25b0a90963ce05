package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Property is a listing as returned by GET /properties.
type Property struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
	PricePerNight Money          `json:"price_per_night"`
	MaxGuests     int            `json:"max_guests"`
	ThumbnailURL  sql.NullString `json:"thumbnail_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// PropertyDetail is GET /properties/:id.
type PropertyDetail struct {
	Property
	Images    []PropertyImage `json:"images"`
	Amenities []Amenity       `json:"amenities"`
}

type PropertyImage struct {
	ID           uuid.UUID `json:"image_id"`
	ImageURL     string    `json:"image_url"`
	Caption      string    `json:"caption"`
	DisplayOrder int       `json:"display_order"`
}

type Amenity struct {
	ID   uuid.UUID `json:"amenity_id"`
	Name string    `json:"name"`
}

// NewProperty is the POST /properties body.
type NewProperty struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Location      string `json:"location" validate:"required"`
	PricePerNight Money  `json:"price_per_night" validate:"gt=0"`
	MaxGuests     int    `json:"max_guests" validate:"gte=1"`
	ImageURL      string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// PropertyUpdate is the PUT /properties body.
type PropertyUpdate struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	Location      string    `json:"location" validate:"required"`
	PricePerNight Money     `json:"price_per_night" validate:"gt=0"`
	MaxGuests     int       `json:"max_guests" validate:"gte=1"`
}

type ImageInput struct {
	ImageURL     string `json:"image_url" validate:"required,url"`
	Caption      string `json:"caption,omitempty"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

type NewAmenity struct {
	Name string `json:"name" validate:"required"`
}

type Availability struct {
	Available bool `json:"available"`
}
