package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookbnb/internal/api"
	"bookbnb/internal/bot"
	"bookbnb/internal/config"
	"bookbnb/internal/domain"
	"bookbnb/internal/events"
	"bookbnb/internal/export"
	"bookbnb/internal/logging"
	"bookbnb/internal/metrics"
	"bookbnb/internal/repository"
	"bookbnb/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create export directory")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	tokens, tokensCloser, err := initTokenStore(cfg, redisClient, &logger)
	if err != nil {
		return err
	}
	if tokensCloser != nil {
		defer func() { _ = tokensCloser.Close() }()
	}

	client := api.NewClient(cfg.API, &logger)
	if redisClient != nil && cfg.API.CacheTTLSeconds > 0 {
		client.UseRedisCache(redisClient, time.Duration(cfg.API.CacheTTLSeconds)*time.Second)
	}

	eventBus := events.NewEventBus()
	subscribeEvents(eventBus, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, tokens, redisClient, &logger)

	return startBot(ctx, cfg, client, tokens, eventBus, &logger)
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}
	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}
	return client
}

// initTokenStore picks the session token store. The returned closer may be nil.
func initTokenStore(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) (domain.TokenStore, io.Closer, error) {
	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour

	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		return repository.NewRedisTokenStore(redisClient, ttl), nil, nil
	case config.SessionStoreSQLite:
		store, err := repository.NewSQLiteTokenStore(cfg.Session.SQLitePath)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to open session database")
			return nil, nil, err
		}
		return store, store, nil
	case config.SessionStoreFailover:
		primary := repository.NewRedisTokenStore(redisClient, ttl)
		return repository.NewFailoverTokenStore(primary, repository.NewMemoryTokenStore(), logger), nil, nil
	default:
		return repository.NewMemoryTokenStore(), nil, nil
	}
}

func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.SubscribeAll(func(ev *events.Event) error {
		metrics.IncEvent(ev.Type)
		logger.Info().Str("event", ev.Type).RawJSON("payload", ev.Payload).Msg("event")
		return nil
	})
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	client *api.Client,
	tokens domain.TokenStore,
	eventBus *events.EventBus,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)
	exporter := export.NewExporter(cfg.Exports.Path, logger)

	telegramBot, err := bot.NewBot(tgService, cfg, client, tokens, eventBus, exporter, bot.NewMetrics(nil), logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create bot")
		return err
	}

	go func() {
		<-ctx.Done()
		telegramBot.Stop()
	}()

	logger.Info().Str("api", cfg.API.BaseURL).Str("session_store", cfg.Session.Store).Msg("Bot started")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	serve(ctx, port, mux, "metrics", logger)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func startHealthServer(ctx context.Context, port int, tokens domain.TokenStore, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if p, ok := tokens.(pinger); ok {
			if err := p.PingContext(ctxPing); err != nil {
				http.Error(w, "session store not ready", http.StatusServiceUnavailable)
				return
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	serve(ctx, port, mux, "health", logger)
}

func serve(ctx context.Context, port int, handler http.Handler, name string, logger *zerolog.Logger) {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Str("server", name).Msg("server error")
	}
}
