// Package session owns the persisted login identity: the bearer token and
// the client record it belongs to. Everything that needs either goes
// through a Manager instead of reading storage keys directly.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gero-store/storefront/internal/domain"
	"github.com/gero-store/storefront/internal/storage"
)

type Manager struct {
	store  storage.Store
	logger *slog.Logger

	mu     sync.RWMutex
	token  string
	client *domain.Client
}

func NewManager(store storage.Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Load restores a persisted session, if any. A missing token is not an
// error; the storefront has anonymous read paths.
func (m *Manager) Load(ctx context.Context) error {
	token, err := m.store.Get(ctx, storage.KeyToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load token: %w", err)
	}

	m.mu.Lock()
	m.token = string(token)
	m.mu.Unlock()

	raw, err := m.store.Get(ctx, storage.KeyUser)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	var client domain.Client
	if err := json.Unmarshal(raw, &client); err != nil {
		// A corrupt user record is dropped rather than propagated; the
		// token alone still authenticates reads.
		m.logger.Warn("discarding unreadable stored user", "error", err)
		_ = m.store.Delete(ctx, storage.KeyUser)
		return nil
	}

	m.mu.Lock()
	m.client = &client
	m.mu.Unlock()
	return nil
}

// Set stores a new login and persists it.
func (m *Manager) Set(ctx context.Context, token string, client domain.Client) error {
	m.mu.Lock()
	m.token = token
	c := client
	m.client = &c
	m.mu.Unlock()

	if err := m.store.Set(ctx, storage.KeyToken, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	raw, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.store.Set(ctx, storage.KeyUser, raw); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Client returns the logged-in client, or nil when anonymous.
func (m *Manager) Client() *domain.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil
	}
	c := *m.client
	return &c
}

// Clear drops the in-memory identity and both persisted keys. Called on
// explicit logout and by the gateway's 401 policy.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.token = ""
	m.client = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, storage.KeyToken); err != nil {
		m.logger.Error("failed to delete stored token", "error", err)
	}
	if err := m.store.Delete(ctx, storage.KeyUser); err != nil {
		m.logger.Error("failed to delete stored user", "error", err)
	}
}
