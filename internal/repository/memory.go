package repository

import (
	"context"
	"sync"
)

// MemoryTokenStore keeps tokens for the lifetime of the process.
type MemoryTokenStore struct {
	tokens sync.Map
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (r *MemoryTokenStore) GetToken(ctx context.Context, key string) (string, error) {
	val, ok := r.tokens.Load(key)
	if !ok {
		return "", nil
	}
	return val.(string), nil
}

func (r *MemoryTokenStore) SetToken(ctx context.Context, key, token string) error {
	r.tokens.Store(key, token)
	return nil
}

func (r *MemoryTokenStore) DeleteToken(ctx context.Context, key string) error {
	r.tokens.Delete(key)
	return nil
}
