package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"lapaklaptop/internal/models"
	"lapaklaptop/internal/repositories"
)

// SettingsCache is an explicit TTL cache for the settings table. It is owned by
// the composition root and passed to whichever component needs it; there is no
// module-level singleton.
type SettingsCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	loadedAt time.Time
	values   map[string]string
}

// NewSettingsCache creates a cache whose entries expire ttl after each load.
func NewSettingsCache(ttl time.Duration) *SettingsCache {
	return &SettingsCache{
		ttl: ttl,
	}
}

// Get returns the cached values if they were loaded within the TTL as of now.
func (c *SettingsCache) Get(now time.Time) (map[string]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.values == nil || now.Sub(c.loadedAt) > c.ttl {
		return nil, false
	}
	return c.values, true
}

// Put stores freshly loaded values with their load time.
func (c *SettingsCache) Put(now time.Time, values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = values
	c.loadedAt = now
}

// Invalidate drops the cached values so the next Get misses.
func (c *SettingsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = nil
}

// SettingsService loads store settings through the cache and writes through the
// repository, invalidating on every write.
type SettingsService struct {
	repo  repositories.SettingRepository
	cache *SettingsCache
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo repositories.SettingRepository, cache *SettingsCache) *SettingsService {
	return &SettingsService{
		repo:  repo,
		cache: cache,
	}
}

// All returns every setting as a key-value map, served from the cache when
// fresh.
func (s *SettingsService) All() (map[string]string, error) {
	if values, ok := s.cache.Get(time.Now()); ok {
		return values, nil
	}

	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	s.cache.Put(time.Now(), values)
	return values, nil
}

// Value returns one setting's value, or fallback when the key is absent or the
// load fails. Load failures are logged, not surfaced: a missing setting must
// never break the calling flow.
func (s *SettingsService) Value(key, fallback string) string {
	values, err := s.All()
	if err != nil {
		log.Printf("Warning: failed to read setting %s: %v", key, err)
		return fallback
	}
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Set writes a setting and invalidates the cache.
func (s *SettingsService) Set(key, value string) error {
	if key == "" {
		return &ValidationError{Msg: "kunci pengaturan wajib diisi"}
	}
	if err := s.repo.Upsert(key, value); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// DefaultSettings are seeded on first boot so the storefront has a working
// WhatsApp hand-off out of the box.
var DefaultSettings = map[string]string{
	models.SettingStoreName:      "Lapak Laptop",
	models.SettingWhatsAppNumber: "6281234567890",
	models.SettingPickupAddress:  "Jl. Mangga Besar No. 12, Jakarta",
}

// SeedDefaults writes the default value for every setting key that has no value
// yet. A non-empty whatsappNumber (the WHATSAPP_NUMBER environment key) takes
// precedence over the built-in default number. Keys that already hold a value
// are never overwritten.
func (s *SettingsService) SeedDefaults(whatsappNumber string) error {
	current, err := s.All()
	if err != nil {
		return fmt.Errorf("failed to read settings for seeding: %w", err)
	}
	for key, value := range DefaultSettings {
		if _, ok := current[key]; ok {
			continue
		}
		if key == models.SettingWhatsAppNumber && whatsappNumber != "" {
			value = whatsappNumber
		}
		if err := s.Set(key, value); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}
