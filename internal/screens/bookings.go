package screens

import (
	"context"
	"sync"

	"bookbnb/internal/domain"
	"bookbnb/internal/events"
	"bookbnb/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrCancelInFlight rejects a second cancel of a booking whose first cancel has not returned.
var ErrCancelInFlight = domain.NewValidationError("booking", "Cancellation already in progress")

type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
)

// StatusColor is red for cancelled bookings and green otherwise.
func StatusColor(status string) Color {
	if status == models.BookingStatusCancelled {
		return ColorRed
	}
	return ColorGreen
}

// BookingsScreen lists the user's bookings and cancels them.
type BookingsScreen struct {
	api     domain.BookingsAPI
	session domain.Session
	events  domain.EventPublisher
	logger  *zerolog.Logger

	mu       sync.Mutex
	view     View
	bookings []models.Booking
	inFlight map[uuid.UUID]struct{}
}

func NewBookingsScreen(api domain.BookingsAPI, session domain.Session, publisher domain.EventPublisher, logger *zerolog.Logger) *BookingsScreen {
	return &BookingsScreen{
		api:      api,
		session:  session,
		events:   publisher,
		logger:   nopLogger(logger),
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

func (s *BookingsScreen) Load(ctx context.Context) error {
	if _, err := s.session.RequireUser(); err != nil {
		s.mu.Lock()
		s.bookings = nil
		s.view = failedView(err)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.view = View{Status: StatusLoading}
	s.mu.Unlock()

	bookings, err := s.api.ListBookings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load bookings")
		s.view = failedView(err)
		return err
	}
	s.bookings = bookings
	if len(bookings) == 0 {
		s.view = View{Status: StatusEmpty, Message: "You have no bookings yet"}
	} else {
		s.view = View{Status: StatusReady}
	}
	return nil
}

func (s *BookingsScreen) Bookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Booking(nil), s.bookings...)
}

func (s *BookingsScreen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Get fetches one booking, used for the cancel confirmation.
func (s *BookingsScreen) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return nil, err
	}
	return s.api.GetBooking(ctx, id)
}

// CanCancel is false while a cancel for id is in flight or when the booking is already cancelled.
func (s *BookingsScreen) CanCancel(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	if b := s.find(id); b != nil && b.IsCancelled() {
		return false
	}
	return true
}

// Cancel moves a booking to cancelled and reloads the list. A second call for the
// same booking while the first is pending fails with ErrCancelInFlight and sends nothing.
func (s *BookingsScreen) Cancel(ctx context.Context, id uuid.UUID) error {
	user, err := s.session.RequireUser()
	if err != nil {
		s.mu.Lock()
		s.view.Redirect = RouteLogin
		s.view.Message = domain.UserMessage(err)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if _, busy := s.inFlight[id]; busy {
		s.mu.Unlock()
		return ErrCancelInFlight
	}
	if b := s.find(id); b != nil && b.IsCancelled() {
		s.mu.Unlock()
		return domain.NewValidationError("booking", "Booking is already cancelled")
	}
	s.inFlight[id] = struct{}{}
	s.mu.Unlock()

	cancelled, err := s.api.CancelBooking(ctx, id)

	s.mu.Lock()
	delete(s.inFlight, id)
	if err != nil {
		s.view.Message = domain.UserMessage(err)
		s.view.Redirect = redirectFor(err)
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("Failed to cancel booking")
		return err
	}
	if b := s.find(id); b != nil {
		b.Status = models.BookingStatusCancelled
	}
	s.mu.Unlock()

	payload := events.BookingEventPayload{BookingID: id, UserID: user.ID, Status: models.BookingStatusCancelled}
	if cancelled != nil {
		payload.PropertyID = cancelled.PropertyID
		payload.TotalPrice = cancelled.TotalPrice.String()
		if !cancelled.StartDate.IsZero() {
			payload.StartDate = cancelled.StartDate.Format(models.DateLayout)
			payload.EndDate = cancelled.EndDate.Format(models.DateLayout)
		}
	}
	publish(s.events, s.logger, events.EventBookingCancelled, payload)

	if err := s.Load(ctx); err != nil {
		// The local row is already marked cancelled, so the list stays usable.
		s.logger.Warn().Err(err).Msg("Failed to refresh bookings after cancel")
	}
	s.mu.Lock()
	s.view = View{Status: StatusReady, Message: "Booking cancelled"}
	s.mu.Unlock()
	return nil
}

func (s *BookingsScreen) find(id uuid.UUID) *models.Booking {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return &s.bookings[i]
		}
	}
	return nil
}
