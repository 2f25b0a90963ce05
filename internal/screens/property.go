package screens

import (
	"context"
	"sync"
	"time"

	"bookbnb/internal/booking"
	"bookbnb/internal/domain"
	"bookbnb/internal/events"
	"bookbnb/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PropertyAPI is what the detail screen needs from the backend.
type PropertyAPI interface {
	GetProperty(ctx context.Context, id uuid.UUID) (*models.PropertyDetail, error)
	CheckAvailability(ctx context.Context, id uuid.UUID, startDate, endDate string) (bool, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
}

// PropertyScreen shows one property and books it.
type PropertyScreen struct {
	api     PropertyAPI
	session domain.Session
	events  domain.EventPublisher
	logger  *zerolog.Logger

	mu        sync.RWMutex
	view      View
	property  *models.PropertyDetail
	start     time.Time
	end       time.Time
	available *bool
}

func NewPropertyScreen(api PropertyAPI, session domain.Session, publisher domain.EventPublisher, logger *zerolog.Logger) *PropertyScreen {
	return &PropertyScreen{api: api, session: session, events: publisher, logger: nopLogger(logger)}
}

func (s *PropertyScreen) Load(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	s.view = View{Status: StatusLoading}
	s.mu.Unlock()

	detail, err := s.api.GetProperty(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", id.String()).Msg("Failed to load property")
		s.property = nil
		s.view = failedView(err)
		return err
	}
	if s.property == nil || s.property.ID != detail.ID {
		s.start, s.end, s.available = time.Time{}, time.Time{}, nil
	}
	s.property = detail
	s.view = View{Status: StatusReady}
	return nil
}

func (s *PropertyScreen) Property() *models.PropertyDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.property
}

func (s *PropertyScreen) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SelectDates records the check-in and check-out dates. Either may be zero.
func (s *PropertyScreen) SelectDates(start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end = start, end
	s.available = nil
}

// SelectDateStrings parses YYYY-MM-DD inputs and selects them.
func (s *PropertyScreen) SelectDateStrings(start, end string) error {
	startDate, err := booking.ParseDate(start)
	if err != nil {
		return err
	}
	endDate, err := booking.ParseDate(end)
	if err != nil {
		return err
	}
	s.SelectDates(startDate, endDate)
	return nil
}

// Quote is the live price summary. Nights and Total stay zero until the range is valid.
func (s *PropertyScreen) Quote() booking.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := booking.Quote{StartDate: s.start, EndDate: s.end}
	if s.property == nil {
		return q
	}
	q.PricePerNight = s.property.PricePerNight
	if full, err := booking.Calculate(s.start, s.end, s.property.PricePerNight); err == nil {
		return full
	}
	return q
}

// Available is the last availability answer for the selected range, or nil if unknown.
func (s *PropertyScreen) Available() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available
}

func (s *PropertyScreen) CheckAvailability(ctx context.Context) (bool, error) {
	s.mu.RLock()
	prop, start, end := s.property, s.start, s.end
	s.mu.RUnlock()

	if prop == nil {
		return false, domain.NewValidationError("property", "Property is not loaded")
	}
	if err := booking.ValidateRange(start, end); err != nil {
		return false, err
	}

	ok, err := s.api.CheckAvailability(ctx, prop.ID, start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		s.mu.Lock()
		s.view.Message = domain.UserMessage(err)
		s.mu.Unlock()
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start.Equal(start) && s.end.Equal(end) {
		s.available = &ok
	}
	if ok {
		s.view.Message = "Available for the selected dates"
	} else {
		s.view.Message = "Not available for the selected dates"
	}
	return ok, nil
}

// Submit books the selected range. The dates are validated before any request is sent.
func (s *PropertyScreen) Submit(ctx context.Context) (*models.Booking, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		s.mu.Lock()
		s.view.Redirect = RouteLogin
		s.view.Message = domain.UserMessage(err)
		s.mu.Unlock()
		return nil, err
	}

	s.mu.RLock()
	prop, start, end := s.property, s.start, s.end
	s.mu.RUnlock()
	if prop == nil {
		return nil, domain.NewValidationError("property", "Property is not loaded")
	}

	quote, err := booking.Calculate(start, end, prop.PricePerNight)
	if err != nil {
		s.mu.Lock()
		s.view.Message = domain.UserMessage(err)
		s.mu.Unlock()
		return nil, err
	}

	created, err := s.api.CreateBooking(ctx, quote.Request(prop.ID))
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", prop.ID.String()).Msg("Failed to create booking")
		s.mu.Lock()
		s.view.Message = domain.UserMessage(err)
		s.view.Redirect = redirectFor(err)
		s.mu.Unlock()
		return nil, err
	}

	publish(s.events, s.logger, events.EventBookingCreated, events.BookingEventPayload{
		BookingID:  created.ID,
		PropertyID: prop.ID,
		UserID:     user.ID,
		Status:     models.BookingStatusBooked,
		StartDate:  start.Format(models.DateLayout),
		EndDate:    end.Format(models.DateLayout),
		TotalPrice: quote.Total.String(),
	})

	s.mu.Lock()
	s.start, s.end, s.available = time.Time{}, time.Time{}, nil
	s.view = View{Status: StatusReady, Message: "Booking confirmed"}
	s.mu.Unlock()
	return created, nil
}
