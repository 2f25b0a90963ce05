package screens

import (
	"strings"

	"bookbnb/internal/models"

	"github.com/google/uuid"
)

// AmenitySelection is the set of amenities picked for one property, in pick order.
// Methods return new values and never mutate the receiver.
type AmenitySelection struct {
	ids []uuid.UUID
}

func (s AmenitySelection) Contains(id uuid.UUID) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle adds id when absent and removes it when present.
func (s AmenitySelection) Toggle(id uuid.UUID) AmenitySelection {
	out := make([]uuid.UUID, 0, len(s.ids)+1)
	found := false
	for _, v := range s.ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return AmenitySelection{ids: out}
}

func (s AmenitySelection) IDs() []uuid.UUID {
	return append([]uuid.UUID(nil), s.ids...)
}

func (s AmenitySelection) Len() int {
	return len(s.ids)
}

// ImageDraft is the pending image input for one property.
type ImageDraft struct {
	URL          string
	Caption      string
	DisplayOrder int
}

func (d ImageDraft) WithURL(url string) ImageDraft {
	d.URL = strings.TrimSpace(url)
	return d
}

func (d ImageDraft) WithCaption(caption string) ImageDraft {
	d.Caption = strings.TrimSpace(caption)
	return d
}

func (d ImageDraft) WithOrder(order int) ImageDraft {
	d.DisplayOrder = order
	return d
}

func (d ImageDraft) IsZero() bool {
	return d == ImageDraft{}
}

func (d ImageDraft) Input() models.ImageInput {
	return models.ImageInput{ImageURL: d.URL, Caption: d.Caption, DisplayOrder: d.DisplayOrder}
}
