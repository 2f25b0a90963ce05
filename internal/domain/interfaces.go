package domain

import (
	"context"

	"bookbnb/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// TokenStore persists the bearer token under a key. GetToken returns "" when nothing is stored.
type TokenStore interface {
	GetToken(ctx context.Context, key string) (string, error)
	SetToken(ctx context.Context, key, token string) error
	DeleteToken(ctx context.Context, key string) error
}

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

type PropertiesAPI interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*models.PropertyDetail, error)
	CreateProperty(ctx context.Context, p models.NewProperty) (uuid.UUID, error)
	UpdateProperty(ctx context.Context, p models.PropertyUpdate) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	CheckAvailability(ctx context.Context, id uuid.UUID, startDate, endDate string) (bool, error)
	AddImages(ctx context.Context, propertyID uuid.UUID, images []models.ImageInput) error
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
}

type BookingsAPI interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

type AmenitiesAPI interface {
	ListAmenities(ctx context.Context) ([]models.Amenity, error)
	CreateAmenity(ctx context.Context, a models.NewAmenity) (*models.Amenity, error)
	AddAmenitiesToProperty(ctx context.Context, propertyID uuid.UUID, amenityIDs []uuid.UUID) error
}

// API is the full REST surface used by the screens.
type API interface {
	PropertiesAPI
	BookingsAPI
	AmenitiesAPI
}

// Session is the read side of the session manager that screens depend on.
type Session interface {
	User() *models.User
	RequireUser() (*models.User, error)
	RequireAdmin() (*models.User, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditWithInlineKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendDocument(chatID int64, name string, data []byte) (tgbotapi.Message, error)
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
