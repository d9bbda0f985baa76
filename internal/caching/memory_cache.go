package caching

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// memoryCacheService is used when no Redis address is configured. State does
// not survive a restart and is not shared between processes.
type memoryCacheService struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCacheService() CacheService {
	return &memoryCacheService{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *memoryCacheService) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if entry.expired(m.now()) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (m *memoryCacheService) set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
}

func (m *memoryCacheService) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, ok := m.get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memoryCacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.set(key, data, ttl)
	return nil
}

func (m *memoryCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.set(key, []byte(value), ttl)
	return nil
}

func (m *memoryCacheService) GetString(ctx context.Context, key string) (string, error) {
	data, ok := m.get(key)
	if !ok {
		return "", nil
	}
	return string(data), nil
}

func (m *memoryCacheService) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCacheService) InvalidateAnalytics(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, keyPrefix+"analytics:") {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCacheService) Ping(ctx context.Context) error {
	return nil
}
