package bot

import (
	"context"
	"strconv"
	"sync"
	"time"

	"bookbnb/internal/models"
	"bookbnb/internal/screens"
	"bookbnb/internal/session"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Dialog steps for multi-message flows.
const (
	StepNone             = ""
	StepLoginEmail       = "login_email"
	StepLoginPassword    = "login_password"
	StepRegisterEmail    = "register_email"
	StepRegisterPassword = "register_password"
	StepRegisterFirst    = "register_first_name"
	StepRegisterLast     = "register_last_name"
)

// dialog is the pending multi-step input of a chat. It lives only in memory
// because it can hold a password between messages.
type dialog struct {
	step      string
	email     string
	password  string
	firstName string
}

// Workspace is everything one chat owns: its session and its screens.
type Workspace struct {
	chatID  int64
	session *session.Manager
	limiter *rate.Limiter

	properties *screens.PropertiesScreen
	property   *screens.PropertyScreen
	bookings   *screens.BookingsScreen
	admin      *screens.AdminScreen

	mu            sync.Mutex
	dialog        dialog
	amenityTarget uuid.UUID
	lastSeen      time.Time
	restored      bool
}

func (b *Bot) workspace(ctx context.Context, chatID int64) *Workspace {
	b.mu.Lock()
	ws, ok := b.workspaces[chatID]
	if !ok {
		ws = b.newWorkspace(chatID)
		b.workspaces[chatID] = ws
	}
	b.mu.Unlock()

	ws.touch(time.Now())
	b.restore(ctx, ws)
	return ws
}

// restore loads the stored session until one attempt gets an answer. A transport
// failure leaves the token stored, so the next update tries again.
func (b *Bot) restore(ctx context.Context, ws *Workspace) {
	ws.mu.Lock()
	done := ws.restored
	ws.mu.Unlock()
	if done || ws.session.State() == session.StateAuthenticated {
		return
	}

	if _, err := ws.session.Restore(ctx); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", ws.chatID).Msg("Failed to restore session")
		return
	}
	ws.mu.Lock()
	ws.restored = true
	ws.mu.Unlock()
}

func (b *Bot) idleTimeout() time.Duration {
	if b.config.Bot.IdleTimeout > 0 {
		return time.Duration(b.config.Bot.IdleTimeout) * time.Minute
	}
	return models.WorkspaceIdleTimeout * time.Minute
}

// evictIdle drops workspaces not seen since now minus the idle timeout.
// Stored tokens survive, so a returning chat is restored from the store.
func (b *Bot) evictIdle(now time.Time) int {
	ttl := b.idleTimeout()

	b.mu.Lock()
	defer b.mu.Unlock()
	evicted := 0
	for id, ws := range b.workspaces {
		if now.Sub(ws.seen()) > ttl {
			ws.session.Close()
			delete(b.workspaces, id)
			evicted++
		}
	}
	if evicted > 0 {
		b.logger.Debug().Int("evicted", evicted).Int("active", len(b.workspaces)).Msg("Evicted idle workspaces")
	}
	return evicted
}

func (b *Bot) newWorkspace(chatID int64) *Workspace {
	l := b.logger.With().Int64("chat_id", chatID).Logger()
	mgr := session.NewManager(session.Key(strconv.FormatInt(chatID, 10)), b.tokens, b.client, b.eventBus, &l)
	client := b.client.ForSession(mgr)

	limit := b.config.Bot.RateLimitMessages
	if limit <= 0 {
		limit = models.RateLimitMessages
	}
	window := time.Duration(b.config.Bot.RateLimitWindow) * time.Second
	if window <= 0 {
		window = models.RateLimitWindow * time.Second
	}

	return &Workspace{
		chatID:     chatID,
		session:    mgr,
		limiter:    rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit),
		properties: screens.NewPropertiesScreen(client, &l),
		property:   screens.NewPropertyScreen(client, mgr, b.eventBus, &l),
		bookings:   screens.NewBookingsScreen(client, mgr, b.eventBus, &l),
		admin:      screens.NewAdminScreen(client, mgr, b.eventBus, &l),
	}
}

func (w *Workspace) touch(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = t
}

func (w *Workspace) seen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) allow() bool {
	return w.limiter.Allow()
}

func (w *Workspace) currentDialog() dialog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dialog
}

func (w *Workspace) setDialog(d dialog) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dialog = d
}

func (w *Workspace) clearDialog() {
	w.setDialog(dialog{})
}

func (w *Workspace) amenityTargetID() uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.amenityTarget
}

func (w *Workspace) setAmenityTarget(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.amenityTarget = id
}
