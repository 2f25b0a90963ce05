package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"bookbnb/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverTokenStore writes to the primary store and switches to the fallback
// while the primary is failing. Recovery is attempted after recoverAfter.
type FailoverTokenStore struct {
	primary      domain.TokenStore
	fallback     domain.TokenStore
	logger       *zerolog.Logger
	isDown       atomic.Bool
	mu           sync.Mutex
	lastCheck    time.Time
	recoverAfter time.Duration
}

func NewFailoverTokenStore(primary, fallback domain.TokenStore, logger *zerolog.Logger) *FailoverTokenStore {
	return &FailoverTokenStore{
		primary:      primary,
		fallback:     fallback,
		logger:       logger,
		recoverAfter: time.Minute,
	}
}

func (r *FailoverTokenStore) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary token store failed, falling back")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverTokenStore) shouldRetryPrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastCheck) > r.recoverAfter
}

func (r *FailoverTokenStore) GetToken(ctx context.Context, key string) (string, error) {
	if !r.isDown.Load() {
		token, err := r.primary.GetToken(ctx, key)
		if err == nil {
			return token, nil
		}
		r.markDown(err)
	}

	if r.shouldRetryPrimary() {
		token, err := r.primary.GetToken(ctx, key)
		if err == nil {
			r.isDown.Store(false)
			return token, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetToken(ctx, key)
}

func (r *FailoverTokenStore) SetToken(ctx context.Context, key, token string) error {
	if !r.isDown.Load() {
		err := r.primary.SetToken(ctx, key, token)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetToken(ctx, key, token)
}

// DeleteToken clears both stores so a token written during an outage cannot come back.
func (r *FailoverTokenStore) DeleteToken(ctx context.Context, key string) error {
	fallbackErr := r.fallback.DeleteToken(ctx, key)

	if !r.isDown.Load() {
		err := r.primary.DeleteToken(ctx, key)
		if err == nil {
			return fallbackErr
		}
		r.markDown(err)
	}

	return fallbackErr
}
