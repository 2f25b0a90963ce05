package bot

import (
	"context"
	"os"
	"sync"
	"time"

	"bookbnb/internal/api"
	"bookbnb/internal/config"
	"bookbnb/internal/domain"
	"bookbnb/internal/events"
	"bookbnb/internal/export"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService domain.TelegramService
	config    *config.Config
	client    *api.Client
	tokens    domain.TokenStore
	eventBus  domain.EventPublisher
	exporter  *export.Exporter
	metrics   *Metrics
	logger    *zerolog.Logger

	mu         sync.Mutex
	workspaces map[int64]*Workspace
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	client *api.Client,
	tokens domain.TokenStore,
	eventBus domain.EventPublisher,
	exporter *export.Exporter,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	if exporter == nil {
		exporter = export.NewExporter(config.Exports.Path, logger)
	}

	return &Bot{
		tgService:  tgService,
		config:     config,
		client:     client,
		tokens:     tokens,
		eventBus:   eventBus,
		exporter:   exporter,
		metrics:    metrics,
		logger:     logger,
		workspaces: make(map[int64]*Workspace),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case now := <-sweep.C:
			b.evictIdle(now)
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			b.closeWorkspaces()
			return
		case update, ok := <-updates:
			if !ok {
				b.closeWorkspaces()
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		var chatID int64
		switch {
		case update.Message != nil && update.Message.Chat != nil:
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		if chatID == 0 {
			return
		}

		ws := b.workspace(updateCtx, chatID)
		if !ws.allow() {
			l.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
			if b.metrics != nil {
				b.metrics.RateLimited.Inc()
			}
			if update.CallbackQuery != nil {
				_ = b.tgService.AnswerCallback(update.CallbackQuery.ID, "Too many requests")
				return
			}
			b.sendMessage(chatID, "⚠️ You are sending messages too quickly. Please wait a moment.")
			return
		}

		if b.metrics != nil {
			b.metrics.UpdatesProcessed.Inc()
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, ws, update.CallbackQuery)
			return
		}

		b.handleMessage(updateCtx, ws, update.Message)
	})
}

func (b *Bot) closeWorkspaces() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ws := range b.workspaces {
		ws.session.Close()
		delete(b.workspaces, id)
	}
}
