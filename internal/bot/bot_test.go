package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bookbnb/internal/api"
	"bookbnb/internal/config"
	"bookbnb/internal/models"
	"bookbnb/internal/repository"
	"bookbnb/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChat int64 = 42

type sentMessage struct {
	chatID    int64
	messageID int // set for edits
	text      string
	keyboard  *tgbotapi.InlineKeyboardMarkup
}

type sentDocument struct {
	name string
	data []byte
}

// fakeTelegram records everything the bot sends.
type fakeTelegram struct {
	mu        sync.Mutex
	messages  []sentMessage
	documents []sentDocument
	deleted   []int
	answered  []string
}

func (f *fakeTelegram) record(m sentMessage) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, m)
	return tgbotapi.Message{MessageID: len(f.messages)}, nil
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return f.record(sentMessage{chatID: chatID, text: text})
}

func (f *fakeTelegram) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	return f.record(sentMessage{chatID: chatID, text: text})
}

func (f *fakeTelegram) SendWithInlineKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	return f.record(sentMessage{chatID: chatID, text: text, keyboard: &kb})
}

func (f *fakeTelegram) EditWithInlineKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	return f.record(sentMessage{chatID: chatID, messageID: messageID, text: text, keyboard: &kb})
}

func (f *fakeTelegram) SendDocument(chatID int64, name string, data []byte) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = append(f.documents, sentDocument{name: name, data: data})
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) DeleteMessage(chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTelegram) AnswerCallback(callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeTelegram) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *fakeTelegram) GetSelf() tgbotapi.User { return tgbotapi.User{UserName: "bookbnb_bot"} }

func (f *fakeTelegram) StopReceivingUpdates() {}

func (f *fakeTelegram) last(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

// fakeServer is a minimal REST backend.
type fakeServer struct {
	mu         sync.Mutex
	properties []models.Property
	bookings   []models.Booking
	created    []models.BookingRequest
	users      map[string]models.User // token -> user
	meFailures int                    // GET /auth/me answers 503 this many times
}

func (s *fakeServer) user(r *http.Request) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	return u, ok
}

func (s *fakeServer) handler(t *testing.T) http.Handler {
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "ann@example.com" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		u := s.users["tok-ann"]
		writeJSON(w, http.StatusOK, models.AuthResponse{Token: "tok-ann", User: u})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		failing := s.meFailures > 0
		if failing {
			s.meFailures--
		}
		s.mu.Unlock()
		if failing {
			http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
			return
		}
		u, ok := s.user(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
	})
	mux.HandleFunc("GET /properties", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.properties)
	})
	mux.HandleFunc("GET /properties/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, p := range s.properties {
			if p.ID.String() == r.PathValue("id") {
				writeJSON(w, http.StatusOK, models.PropertyDetail{Property: p})
				return
			}
		}
		http.Error(w, "Property not found", http.StatusNotFound)
	})
	mux.HandleFunc("GET /properties/{id}/availability", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Availability{Available: true})
	})
	mux.HandleFunc("GET /amenities", func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.user(r)
		if !ok || u.Role != models.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, []models.Amenity{})
	})
	mux.HandleFunc("GET /bookings", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.user(r); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.bookings)
	})
	mux.HandleFunc("POST /bookings", func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.user(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req models.BookingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		start, _ := time.Parse(models.DateLayout, req.StartDate)
		end, _ := time.Parse(models.DateLayout, req.EndDate)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.created = append(s.created, req)
		b := models.Booking{
			ID: uuid.New(), PropertyID: req.PropertyID, UserID: u.ID,
			StartDate: start, EndDate: end, TotalPrice: req.TotalPrice, Status: models.BookingStatusBooked,
		}
		s.bookings = append(s.bookings, b)
		writeJSON(w, http.StatusCreated, b)
	})
	mux.HandleFunc("GET /bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.user(r); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, b := range s.bookings {
			if b.ID.String() == r.PathValue("id") {
				writeJSON(w, http.StatusOK, b)
				return
			}
		}
		http.Error(w, "Booking not found", http.StatusNotFound)
	})
	mux.HandleFunc("PATCH /bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.user(r); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.bookings {
			if s.bookings[i].ID.String() == r.PathValue("id") {
				s.bookings[i].Status = models.BookingStatusCancelled
				writeJSON(w, http.StatusOK, s.bookings[i])
				return
			}
		}
		http.Error(w, "Booking not found", http.StatusNotFound)
	})
	return mux
}

type harness struct {
	bot    *Bot
	tg     *fakeTelegram
	server *fakeServer
	tokens *repository.MemoryTokenStore
	nextID int
}

func newHarness(t *testing.T, botCfg config.BotConfig) *harness {
	t.Helper()

	srv := &fakeServer{users: map[string]models.User{
		"tok-ann":   {ID: uuid.New(), Email: "ann@example.com", FirstName: "Ann", Role: models.RoleGuest},
		"tok-admin": {ID: uuid.New(), Email: "admin@example.com", FirstName: "Root", Role: models.RoleAdmin},
	}}
	ts := httptest.NewServer(srv.handler(t))
	t.Cleanup(ts.Close)

	cfg := &config.Config{API: config.APIConfig{BaseURL: ts.URL}, Bot: botCfg}
	client := api.NewClient(cfg.API, nil)
	tokens := repository.NewMemoryTokenStore()
	tg := &fakeTelegram{}

	b, err := NewBot(tg, cfg, client, tokens, nil, nil, NewMetrics(prometheus.NewRegistry()), nil)
	require.NoError(t, err)

	return &harness{bot: b, tg: tg, server: srv, tokens: tokens}
}

func defaultBotConfig() config.BotConfig {
	return config.BotConfig{PageSize: 2, RateLimitMessages: 1000, RateLimitWindow: 60}
}

func (h *harness) loginAs(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, h.tokens.SetToken(context.Background(), session.Key("42"), token))
}

func (h *harness) send(text string) int {
	h.nextID++
	msg := &tgbotapi.Message{MessageID: h.nextID, Chat: &tgbotapi.Chat{ID: testChat}, Text: text}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	h.bot.processUpdate(context.Background(), tgbotapi.Update{Message: msg})
	return h.nextID
}

func (h *harness) click(data string, messageID int) {
	h.bot.processUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      uuid.NewString(),
		Data:    data,
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: testChat}},
	}})
}

func (h *harness) addProperty(title, location string, price int64, guests int) models.Property {
	p := models.Property{ID: uuid.New(), Title: title, Location: location, PricePerNight: models.MoneyFromUnits(price), MaxGuests: guests}
	h.server.mu.Lock()
	h.server.properties = append(h.server.properties, p)
	h.server.mu.Unlock()
	return p
}

func TestLoginDialog(t *testing.T) {
	h := newHarness(t, defaultBotConfig())

	h.send("/login")
	assert.Contains(t, h.tg.last(t).text, "email")
	h.send("ann@example.com")
	assert.Contains(t, h.tg.last(t).text, "password")
	pwID := h.send("secret")

	assert.Contains(t, h.tg.last(t).text, "Welcome back, Ann")
	assert.Equal(t, []int{pwID}, h.tg.deleted)

	stored, err := h.tokens.GetToken(context.Background(), session.Key("42"))
	require.NoError(t, err)
	assert.Equal(t, "tok-ann", stored)
}

func TestLoginDialog_WrongPassword(t *testing.T) {
	h := newHarness(t, defaultBotConfig())

	h.send("/login")
	h.send("ann@example.com")
	h.send("nope")

	assert.Contains(t, h.tg.last(t).text, "Invalid email or password")
	stored, _ := h.tokens.GetToken(context.Background(), session.Key("42"))
	assert.Empty(t, stored)
}

func TestLoginDialog_InvalidEmailNeverHitsBackend(t *testing.T) {
	h := newHarness(t, defaultBotConfig())

	h.send("/login")
	h.send("not-an-email")
	h.send("secret")

	assert.Contains(t, h.tg.last(t).text, "Please enter a valid email address")
}

func TestRestoredSessionAndLogout(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")

	h.send("/me")
	assert.Contains(t, h.tg.last(t).text, "ann@example.com")

	h.send("/logout")
	assert.Contains(t, h.tg.last(t).text, "logged out")
	stored, _ := h.tokens.GetToken(context.Background(), session.Key("42"))
	assert.Empty(t, stored)

	h.send("/me")
	assert.Contains(t, h.tg.last(t).text, "not logged in")
}

func TestRestoreRetriedAfterTransientFailure(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")
	h.server.meFailures = 1

	h.send("/me")
	assert.Contains(t, h.tg.last(t).text, "not logged in")
	stored, err := h.tokens.GetToken(context.Background(), session.Key("42"))
	require.NoError(t, err)
	assert.Equal(t, "tok-ann", stored)

	h.send("/me")
	assert.Contains(t, h.tg.last(t).text, "ann@example.com")
}

func TestEvictIdleWorkspaces(t *testing.T) {
	h := newHarness(t, config.BotConfig{PageSize: 2, RateLimitMessages: 1000, RateLimitWindow: 60, IdleTimeout: 30})
	h.loginAs(t, "tok-ann")
	h.send("/me")
	require.Len(t, h.bot.workspaces, 1)

	assert.Zero(t, h.bot.evictIdle(time.Now().Add(10*time.Minute)))
	assert.Equal(t, 1, h.bot.evictIdle(time.Now().Add(31*time.Minute)))
	assert.Empty(t, h.bot.workspaces)

	// The stored token outlives the workspace.
	h.send("/me")
	assert.Contains(t, h.tg.last(t).text, "ann@example.com")
}

func TestPropertiesPagination(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.addProperty("Loft", "Berlin", 100, 2)
	h.addProperty("Cabin", "Oslo", 80, 4)
	h.addProperty("Villa", "Rome", 300, 8)

	h.send("/properties")
	first := h.tg.last(t)
	assert.Contains(t, first.text, "Page 1 of 2")
	assert.Contains(t, first.text, "Loft")
	require.NotNil(t, first.keyboard)
	nav := first.keyboard.InlineKeyboard[len(first.keyboard.InlineKeyboard)-1]
	require.NotNil(t, nav[0].CallbackData)
	assert.Equal(t, cbPropertiesPage+"1", *nav[0].CallbackData)

	h.click(cbPropertiesPage+"1", 7)
	second := h.tg.last(t)
	assert.Equal(t, 7, second.messageID)
	assert.Contains(t, second.text, "Page 2 of 2")
	assert.Contains(t, second.text, "Villa")
}

func TestPropertiesFilter(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.addProperty("Loft", "Berlin", 100, 2)
	h.addProperty("Cabin", "Oslo", 80, 4)

	h.send("/properties oslo 3")
	last := h.tg.last(t)
	assert.Contains(t, last.text, "Cabin")
	assert.NotContains(t, last.text, "Loft")

	h.send("/properties paris")
	assert.Equal(t, "No properties match your search", h.tg.last(t).text)
}

func TestBookingFlow(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")
	p := h.addProperty("Loft", "Berlin", 100, 2)

	h.send("/property " + p.ID.String())
	assert.Contains(t, h.tg.last(t).text, "Loft")

	h.send("/dates 2025-01-01 2025-01-04")
	assert.Contains(t, h.tg.last(t).text, "3 night(s) × $100.00 = $300.00")

	h.send("/availability")
	assert.Equal(t, "Available for the selected dates", h.tg.last(t).text)

	h.send("/book")
	assert.Contains(t, h.tg.last(t).text, "Booking confirmed")

	h.server.mu.Lock()
	defer h.server.mu.Unlock()
	require.Len(t, h.server.created, 1)
	req := h.server.created[0]
	assert.Equal(t, p.ID, req.PropertyID)
	assert.Equal(t, "2025-01-01", req.StartDate)
	assert.Equal(t, "2025-01-04", req.EndDate)
	assert.Equal(t, models.MoneyFromUnits(300), req.TotalPrice)
}

func TestBookingFlow_InvalidRange(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")
	p := h.addProperty("Loft", "Berlin", 100, 2)

	h.send("/property " + p.ID.String())
	h.send("/dates 2025-01-04 2025-01-01")
	assert.Contains(t, h.tg.last(t).text, "End date must be after start date")

	h.send("/book")
	assert.Contains(t, h.tg.last(t).text, "End date must be after start date")
	assert.Empty(t, h.server.created)
}

func TestBookingFlow_RequiresLogin(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	p := h.addProperty("Loft", "Berlin", 100, 2)

	h.send("/property " + p.ID.String())
	h.send("/dates 2025-01-01 2025-01-04")
	h.send("/book")

	assert.Contains(t, h.tg.last(t).text, "/login")
	assert.Empty(t, h.server.created)
}

func TestCancelFlow(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")
	booking := models.Booking{ID: uuid.New(), PropertyID: uuid.New(), Status: models.BookingStatusBooked, TotalPrice: models.MoneyFromUnits(200)}
	h.server.bookings = append(h.server.bookings, booking)

	h.send("/bookings")
	list := h.tg.last(t)
	require.NotNil(t, list.keyboard)
	assert.Equal(t, cbCancel+booking.ID.String(), *list.keyboard.InlineKeyboard[0][0].CallbackData)

	h.send("/cancel " + booking.ID.String())
	confirm := h.tg.last(t)
	require.NotNil(t, confirm.keyboard)
	assert.Equal(t, cbCancelConfirm+booking.ID.String(), *confirm.keyboard.InlineKeyboard[0][0].CallbackData)

	// Nothing is sent before the user confirms.
	assert.Equal(t, models.BookingStatusBooked, h.server.bookings[0].Status)

	h.click(cbCancelConfirm+booking.ID.String(), 3)
	assert.Contains(t, h.tg.last(t).text, "Booking cancelled")
	assert.Equal(t, models.BookingStatusCancelled, h.server.bookings[0].Status)
}

func TestBookingDetail(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")
	active := models.Booking{ID: uuid.New(), PropertyID: uuid.New(), Status: models.BookingStatusBooked, TotalPrice: models.MoneyFromUnits(300)}
	done := models.Booking{ID: uuid.New(), PropertyID: uuid.New(), Status: models.BookingStatusCancelled, TotalPrice: models.MoneyFromUnits(100)}
	h.server.bookings = append(h.server.bookings, active, done)

	h.send("/booking " + active.ID.String())
	msg := h.tg.last(t)
	assert.Contains(t, msg.text, "300.00")
	require.NotNil(t, msg.keyboard)
	assert.Equal(t, cbCancel+active.ID.String(), *msg.keyboard.InlineKeyboard[0][0].CallbackData)

	h.send("/booking " + done.ID.String())
	msg = h.tg.last(t)
	assert.Contains(t, msg.text, "🔴")
	assert.Nil(t, msg.keyboard)

	h.send("/booking " + uuid.NewString())
	assert.True(t, strings.HasPrefix(h.tg.last(t).text, "❌"))
}

func TestCancel_AlreadyCancelledIsRefused(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")
	done := models.Booking{ID: uuid.New(), PropertyID: uuid.New(), Status: models.BookingStatusCancelled}
	h.server.bookings = append(h.server.bookings, done)

	h.send("/bookings")
	h.send("/cancel " + done.ID.String())

	msg := h.tg.last(t)
	assert.Contains(t, msg.text, "already cancelled")
	assert.Nil(t, msg.keyboard)
}

func TestCancel_AbortKeepsBooking(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")

	h.click(cbCancelAbort, 1)
	assert.Equal(t, "Booking kept.", h.tg.last(t).text)
}

func TestExport(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")
	h.server.bookings = append(h.server.bookings, models.Booking{
		ID: uuid.New(), Status: models.BookingStatusBooked, TotalPrice: models.MoneyFromUnits(120),
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})

	h.send("/export")

	require.Len(t, h.tg.documents, 1)
	doc := h.tg.documents[0]
	assert.True(t, strings.HasPrefix(doc.name, "bookings_"))
	assert.True(t, strings.HasSuffix(doc.name, ".xlsx"))
	assert.NotEmpty(t, doc.data)
}

func TestExport_RequiresLogin(t *testing.T) {
	h := newHarness(t, defaultBotConfig())

	h.send("/export")

	assert.Empty(t, h.tg.documents)
	assert.Contains(t, h.tg.last(t).text, "Please /login first")
}

func TestAdmin_ForbiddenForGuests(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-ann")

	h.send("/admin")
	assert.True(t, strings.HasPrefix(h.tg.last(t).text, "⛔"))

	h.send("/newproperty Loft | Nice | Berlin | 100 | 2")
	assert.Contains(t, h.tg.last(t).text, "⛔")
}

func TestAdmin_PanelLoads(t *testing.T) {
	h := newHarness(t, defaultBotConfig())
	h.loginAs(t, "tok-admin")
	p := h.addProperty("Loft", "Berlin", 100, 2)

	h.send("/admin")
	text := h.tg.last(t).text
	assert.Contains(t, text, "Admin panel")
	assert.Contains(t, text, p.ID.String())
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, config.BotConfig{PageSize: 5, RateLimitMessages: 1, RateLimitWindow: 3600})

	h.send("/help")
	assert.Contains(t, h.tg.last(t).text, "BookBnB")

	h.send("/help")
	assert.Contains(t, h.tg.last(t).text, "too quickly")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, defaultBotConfig())

	h.send("/frobnicate")
	assert.Equal(t, "Unknown command. Use /help.", h.tg.last(t).text)

	h.send("hello")
	assert.Contains(t, h.tg.last(t).text, "/help")
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		args string
		want string
		n    int
	}{
		{"", "", 0},
		{"berlin", "berlin", 0},
		{"new york 4", "new york", 4},
		{"3", "", 3},
	}
	for _, tt := range tests {
		f := parseFilter(tt.args)
		assert.Equal(t, tt.want, f.Location, tt.args)
		assert.Equal(t, tt.n, f.Guests, tt.args)
	}
}

func TestParseNewProperty(t *testing.T) {
	p, err := parseNewProperty("Loft | Bright loft | Berlin | 120.50 | 3 | https://img.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Loft", p.Title)
	assert.Equal(t, "Berlin", p.Location)
	assert.Equal(t, int64(12050), p.PricePerNight.Cents())
	assert.Equal(t, 3, p.MaxGuests)
	assert.Equal(t, "https://img.example.com/a.jpg", p.ImageURL)

	_, err = parseNewProperty("Loft | Berlin")
	assert.Error(t, err)

	_, err = parseNewProperty("Loft | x | Berlin | cheap | 3")
	assert.Error(t, err)
}

func TestApplyField(t *testing.T) {
	d := models.PropertyUpdate{ID: uuid.New(), Title: "Old"}

	require.NoError(t, applyField(&d, "title", "New"))
	require.NoError(t, applyField(&d, "price", "99.99"))
	require.NoError(t, applyField(&d, "guests", "5"))
	assert.Equal(t, "New", d.Title)
	assert.Equal(t, int64(9999), d.PricePerNight.Cents())
	assert.Equal(t, 5, d.MaxGuests)

	assert.Error(t, applyField(&d, "guests", "many"))
	assert.Error(t, applyField(&d, "colour", "red"))
}
