package screens

import (
	"context"
	"sync"
	"sync/atomic"

	"bookbnb/internal/domain"
	"bookbnb/internal/models"

	"github.com/google/uuid"
)

type fakeSession struct {
	user *models.User
}

func (f *fakeSession) User() *models.User { return f.user }

func (f *fakeSession) RequireUser() (*models.User, error) {
	if f.user == nil {
		return nil, &domain.AuthError{Err: domain.ErrUnauthenticated}
	}
	return f.user, nil
}

func (f *fakeSession) RequireAdmin() (*models.User, error) {
	u, err := f.RequireUser()
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, &domain.AuthError{Status: 403, Err: domain.ErrForbidden}
	}
	return u, nil
}

func guest() *fakeSession {
	return &fakeSession{user: &models.User{ID: uuid.New(), Email: "guest@example.com", Role: models.RoleGuest}}
}

func admin() *fakeSession {
	return &fakeSession{user: &models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin}}
}

// fakeBackend is an in-memory stand-in for the REST API.
type fakeBackend struct {
	mu sync.Mutex

	properties []models.Property
	details    map[uuid.UUID]*models.PropertyDetail
	bookings   []models.Booking
	amenities  []models.Amenity
	available  bool

	created        []models.BookingRequest
	createdProps   []models.NewProperty
	updated        []models.PropertyUpdate
	deleted        []uuid.UUID
	imagesAdded    map[uuid.UUID][]models.ImageInput
	imagesDeleted  []uuid.UUID
	amenitiesAdded map[uuid.UUID][]uuid.UUID

	calls       int32
	cancelCalls int32
	// cancelGate, when set, blocks CancelBooking until closed.
	cancelGate    chan struct{}
	cancelStarted chan struct{}

	err error
	// listErr fails ListBookings only.
	listErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		details:        make(map[uuid.UUID]*models.PropertyDetail),
		imagesAdded:    make(map[uuid.UUID][]models.ImageInput),
		amenitiesAdded: make(map[uuid.UUID][]uuid.UUID),
		available:      true,
	}
}

func (f *fakeBackend) addProperty(title, location string, price models.Money, guests int) models.Property {
	p := models.Property{ID: uuid.New(), Title: title, Location: location, PricePerNight: price, MaxGuests: guests}
	f.properties = append(f.properties, p)
	f.details[p.ID] = &models.PropertyDetail{Property: p}
	return p
}

func (f *fakeBackend) addBooking(status string) models.Booking {
	b := models.Booking{ID: uuid.New(), PropertyID: uuid.New(), Status: status, TotalPrice: models.MoneyFromUnits(300)}
	f.bookings = append(f.bookings, b)
	return b
}

func (f *fakeBackend) call() error {
	atomic.AddInt32(&f.calls, 1)
	return f.err
}

func (f *fakeBackend) Calls() int32 {
	return atomic.LoadInt32(&f.calls)
}

func (f *fakeBackend) ListProperties(ctx context.Context) ([]models.Property, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Property(nil), f.properties...), nil
}

func (f *fakeBackend) GetProperty(ctx context.Context, id uuid.UUID) (*models.PropertyDetail, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[id]
	if !ok {
		return nil, &domain.NetworkError{Status: 404, Message: "Property not found"}
	}
	cp := *d
	return &cp, nil
}

func (f *fakeBackend) CreateProperty(ctx context.Context, p models.NewProperty) (uuid.UUID, error) {
	if err := f.call(); err != nil {
		return uuid.Nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdProps = append(f.createdProps, p)
	created := f.addProperty(p.Title, p.Location, p.PricePerNight, p.MaxGuests)
	return created.ID, nil
}

func (f *fakeBackend) UpdateProperty(ctx context.Context, p models.PropertyUpdate) error {
	if err := f.call(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, p)
	for i := range f.properties {
		if f.properties[i].ID == p.ID {
			f.properties[i].Title = p.Title
			f.properties[i].Description = p.Description
			f.properties[i].Location = p.Location
			f.properties[i].PricePerNight = p.PricePerNight
			f.properties[i].MaxGuests = p.MaxGuests
		}
	}
	return nil
}

func (f *fakeBackend) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	if err := f.call(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	out := f.properties[:0]
	for _, p := range f.properties {
		if p.ID != id {
			out = append(out, p)
		}
	}
	f.properties = out
	return nil
}

func (f *fakeBackend) CheckAvailability(ctx context.Context, id uuid.UUID, startDate, endDate string) (bool, error) {
	if err := f.call(); err != nil {
		return false, err
	}
	return f.available, nil
}

func (f *fakeBackend) AddImages(ctx context.Context, propertyID uuid.UUID, images []models.ImageInput) error {
	if err := f.call(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imagesAdded[propertyID] = append(f.imagesAdded[propertyID], images...)
	return nil
}

func (f *fakeBackend) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	if err := f.call(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imagesDeleted = append(f.imagesDeleted, imageID)
	return nil
}

func (f *fakeBackend) ListBookings(ctx context.Context) ([]models.Booking, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Booking(nil), f.bookings...), nil
}

func (f *fakeBackend) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, &domain.NetworkError{Status: 404, Message: "Booking not found"}
}

func (f *fakeBackend) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	b := models.Booking{ID: uuid.New(), PropertyID: req.PropertyID, TotalPrice: req.TotalPrice, Status: models.BookingStatusBooked}
	f.bookings = append(f.bookings, b)
	return &b, nil
}

func (f *fakeBackend) CancelBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	atomic.AddInt32(&f.cancelCalls, 1)
	if f.cancelStarted != nil {
		f.cancelStarted <- struct{}{}
	}
	if f.cancelGate != nil {
		<-f.cancelGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = models.BookingStatusCancelled
			cp := f.bookings[i]
			return &cp, nil
		}
	}
	return nil, &domain.NetworkError{Status: 404, Message: "Booking not found"}
}

func (f *fakeBackend) ListAmenities(ctx context.Context) ([]models.Amenity, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Amenity(nil), f.amenities...), nil
}

func (f *fakeBackend) CreateAmenity(ctx context.Context, a models.NewAmenity) (*models.Amenity, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	amenity := models.Amenity{ID: uuid.New(), Name: a.Name}
	f.amenities = append(f.amenities, amenity)
	return &amenity, nil
}

func (f *fakeBackend) AddAmenitiesToProperty(ctx context.Context, propertyID uuid.UUID, amenityIDs []uuid.UUID) error {
	if err := f.call(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amenitiesAdded[propertyID] = append(f.amenitiesAdded[propertyID], amenityIDs...)
	return nil
}

var _ domain.API = (*fakeBackend)(nil)
