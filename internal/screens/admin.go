package screens

import (
	"context"
	"strings"
	"sync"

	"bookbnb/internal/domain"
	"bookbnb/internal/events"
	"bookbnb/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminAPI is the backend surface of the admin panel.
type AdminAPI interface {
	domain.PropertiesAPI
	domain.AmenitiesAPI
}

// AdminScreen manages properties, amenities and images. Every operation requires an admin session.
type AdminScreen struct {
	api     AdminAPI
	session domain.Session
	events  domain.EventPublisher
	logger  *zerolog.Logger

	mu         sync.Mutex
	view       View
	properties []models.Property
	amenities  []models.Amenity
	editing    *models.PropertyUpdate
	selections map[uuid.UUID]AmenitySelection
	images     map[uuid.UUID]ImageDraft
}

func NewAdminScreen(api AdminAPI, session domain.Session, publisher domain.EventPublisher, logger *zerolog.Logger) *AdminScreen {
	return &AdminScreen{
		api:        api,
		session:    session,
		events:     publisher,
		logger:     nopLogger(logger),
		selections: make(map[uuid.UUID]AmenitySelection),
		images:     make(map[uuid.UUID]ImageDraft),
	}
}

func (s *AdminScreen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *AdminScreen) Properties() []models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Property(nil), s.properties...)
}

func (s *AdminScreen) Amenities() []models.Amenity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Amenity(nil), s.amenities...)
}

func (s *AdminScreen) requireAdmin() (*models.User, error) {
	user, err := s.session.RequireAdmin()
	if err != nil {
		s.mu.Lock()
		s.view = failedView(err)
		s.mu.Unlock()
		return nil, err
	}
	return user, nil
}

// Load fetches properties and amenities.
func (s *AdminScreen) Load(ctx context.Context) error {
	if _, err := s.requireAdmin(); err != nil {
		return err
	}

	s.mu.Lock()
	s.view = View{Status: StatusLoading}
	s.mu.Unlock()

	props, err := s.api.ListProperties(ctx)
	if err != nil {
		return s.loadFailed(err, "Failed to load properties")
	}
	amenities, err := s.api.ListAmenities(ctx)
	if err != nil {
		return s.loadFailed(err, "Failed to load amenities")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = props
	s.amenities = amenities
	if len(props) == 0 {
		s.view = View{Status: StatusEmpty, Message: "No properties yet"}
	} else {
		s.view = View{Status: StatusReady}
	}
	return nil
}

func (s *AdminScreen) loadFailed(err error, msg string) error {
	s.logger.Error().Err(err).Msg(msg)
	s.mu.Lock()
	s.view = failedView(err)
	s.mu.Unlock()
	return err
}

// mutationFailed keeps the loaded data and reports the error as a message.
func (s *AdminScreen) mutationFailed(err error, msg string) error {
	if !domain.IsValidationError(err) {
		s.logger.Error().Err(err).Msg(msg)
	}
	s.mu.Lock()
	s.view.Message = domain.UserMessage(err)
	s.view.Redirect = redirectFor(err)
	s.mu.Unlock()
	return err
}

func (s *AdminScreen) succeeded(ctx context.Context, msg string) {
	props, err := s.api.ListProperties(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to refresh properties")
	} else {
		s.properties = props
	}
	s.view.Status = StatusReady
	if len(s.properties) == 0 {
		s.view.Status = StatusEmpty
	}
	s.view.Message = msg
	s.view.Redirect = RouteNone
}

func (s *AdminScreen) changed(user *models.User, propertyID uuid.UUID, action string) {
	publish(s.events, s.logger, events.EventPropertyChanged, events.PropertyEventPayload{
		PropertyID: propertyID,
		Action:     action,
		ChangedBy:  user.ID,
	})
}

func (s *AdminScreen) CreateProperty(ctx context.Context, p models.NewProperty) (uuid.UUID, error) {
	user, err := s.requireAdmin()
	if err != nil {
		return uuid.Nil, err
	}

	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Location = strings.TrimSpace(p.Location)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	if err := domain.Validate(p); err != nil {
		return uuid.Nil, s.mutationFailed(err, "Invalid property")
	}

	id, err := s.api.CreateProperty(ctx, p)
	if err != nil {
		return uuid.Nil, s.mutationFailed(err, "Failed to create property")
	}
	s.changed(user, id, "created")
	s.succeeded(ctx, "Property created")
	return id, nil
}

// StartEdit copies a loaded property into an edit draft.
func (s *AdminScreen) StartEdit(id uuid.UUID) (models.PropertyUpdate, error) {
	if _, err := s.requireAdmin(); err != nil {
		return models.PropertyUpdate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.properties {
		if p.ID == id {
			draft := models.PropertyUpdate{
				ID:            p.ID,
				Title:         p.Title,
				Description:   p.Description,
				Location:      p.Location,
				PricePerNight: p.PricePerNight,
				MaxGuests:     p.MaxGuests,
			}
			s.editing = &draft
			return draft, nil
		}
	}
	return models.PropertyUpdate{}, domain.NewValidationError("property", "Property not found")
}

// Editing returns the current draft, if any.
func (s *AdminScreen) Editing() (models.PropertyUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return models.PropertyUpdate{}, false
	}
	return *s.editing, true
}

// UpdateDraft applies fn to the current draft. The id cannot change.
func (s *AdminScreen) UpdateDraft(fn func(*models.PropertyUpdate)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return domain.NewValidationError("property", "No property is being edited")
	}
	draft := *s.editing
	fn(&draft)
	draft.ID = s.editing.ID
	s.editing = &draft
	return nil
}

func (s *AdminScreen) SaveEdit(ctx context.Context) error {
	user, err := s.requireAdmin()
	if err != nil {
		return err
	}

	draft, ok := s.Editing()
	if !ok {
		return domain.NewValidationError("property", "No property is being edited")
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Location = strings.TrimSpace(draft.Location)
	if err := domain.Validate(draft); err != nil {
		return s.mutationFailed(err, "Invalid property update")
	}

	if err := s.api.UpdateProperty(ctx, draft); err != nil {
		return s.mutationFailed(err, "Failed to update property")
	}

	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()
	s.changed(user, draft.ID, "updated")
	s.succeeded(ctx, "Property updated")
	return nil
}

func (s *AdminScreen) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

func (s *AdminScreen) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	user, err := s.requireAdmin()
	if err != nil {
		return err
	}
	if err := s.api.DeleteProperty(ctx, id); err != nil {
		return s.mutationFailed(err, "Failed to delete property")
	}

	s.mu.Lock()
	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
	delete(s.selections, id)
	delete(s.images, id)
	s.mu.Unlock()

	s.changed(user, id, "deleted")
	s.succeeded(ctx, "Property deleted")
	return nil
}

func (s *AdminScreen) CreateAmenity(ctx context.Context, name string) (*models.Amenity, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}

	req := models.NewAmenity{Name: strings.TrimSpace(name)}
	if err := domain.Validate(req); err != nil {
		return nil, s.mutationFailed(err, "Invalid amenity")
	}

	amenity, err := s.api.CreateAmenity(ctx, req)
	if err != nil {
		return nil, s.mutationFailed(err, "Failed to create amenity")
	}

	amenities, err := s.api.ListAmenities(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to refresh amenities")
		s.amenities = append(s.amenities, *amenity)
	} else {
		s.amenities = amenities
	}
	s.view.Message = "Amenity created"
	return amenity, nil
}

func (s *AdminScreen) Selection(propertyID uuid.UUID) AmenitySelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selections[propertyID]
}

// ToggleAmenity flips one amenity in the property's pending selection.
func (s *AdminScreen) ToggleAmenity(propertyID, amenityID uuid.UUID) AmenitySelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selections[propertyID].Toggle(amenityID)
	if sel.Len() == 0 {
		delete(s.selections, propertyID)
	} else {
		s.selections[propertyID] = sel
	}
	return sel
}

// SubmitAmenities attaches the pending selection and clears it on success.
func (s *AdminScreen) SubmitAmenities(ctx context.Context, propertyID uuid.UUID) error {
	user, err := s.requireAdmin()
	if err != nil {
		return err
	}

	sel := s.Selection(propertyID)
	if sel.Len() == 0 {
		return s.mutationFailed(domain.NewValidationError("amenity_id", "Select at least one amenity"), "Empty amenity selection")
	}
	if err := s.api.AddAmenitiesToProperty(ctx, propertyID, sel.IDs()); err != nil {
		return s.mutationFailed(err, "Failed to add amenities")
	}

	s.mu.Lock()
	delete(s.selections, propertyID)
	s.mu.Unlock()
	s.changed(user, propertyID, "amenities")
	s.succeeded(ctx, "Amenities added")
	return nil
}

func (s *AdminScreen) ImageDraft(propertyID uuid.UUID) ImageDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[propertyID]
}

func (s *AdminScreen) SetImageDraft(propertyID uuid.UUID, draft ImageDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft.IsZero() {
		delete(s.images, propertyID)
		return
	}
	s.images[propertyID] = draft
}

// SubmitImage uploads the pending image and clears it on success.
func (s *AdminScreen) SubmitImage(ctx context.Context, propertyID uuid.UUID) error {
	user, err := s.requireAdmin()
	if err != nil {
		return err
	}

	input := s.ImageDraft(propertyID).Input()
	if err := domain.Validate(input); err != nil {
		return s.mutationFailed(err, "Invalid image")
	}
	if err := s.api.AddImages(ctx, propertyID, []models.ImageInput{input}); err != nil {
		return s.mutationFailed(err, "Failed to add image")
	}

	s.mu.Lock()
	delete(s.images, propertyID)
	s.mu.Unlock()
	s.changed(user, propertyID, "images")
	s.succeeded(ctx, "Image added")
	return nil
}

func (s *AdminScreen) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	user, err := s.requireAdmin()
	if err != nil {
		return err
	}
	if err := s.api.DeleteImage(ctx, imageID); err != nil {
		return s.mutationFailed(err, "Failed to delete image")
	}
	// The backend does not say which property owned the image.
	publish(s.events, s.logger, events.EventPropertyChanged, events.PropertyEventPayload{
		ImageID:   imageID,
		Action:    "image_deleted",
		ChangedBy: user.ID,
	})
	s.succeeded(ctx, "Image deleted")
	return nil
}
