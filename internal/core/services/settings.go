package services

import (
	"fmt"

	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
	"github.com/custodia-labs/facet/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Configuration keys.
const (
	keySurfaceEnableScripts  = "surface.enable_scripts"
	keySurfaceAllowedOrigins = "surface.allowed_origins"
	keyServerAddr            = "server.addr"
)

// SettingsService reads and writes application settings through the
// config store, falling back to defaults for anything unset.
type SettingsService struct {
	store driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	if _, ok := s.store.Get(keySurfaceEnableScripts); ok {
		settings.Surface.EnableScripts = s.store.GetBool(keySurfaceEnableScripts)
	}
	if origins := s.store.GetStringSlice(keySurfaceAllowedOrigins); origins != nil {
		settings.Surface.AllowedOrigins = origins
	}
	if addr := s.store.GetString(keyServerAddr); addr != "" {
		settings.Server.Addr = addr
	}

	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.store.Set(keySurfaceEnableScripts, settings.Surface.EnableScripts); err != nil {
		return fmt.Errorf("save %s: %w", keySurfaceEnableScripts, err)
	}
	if err := s.store.Set(keySurfaceAllowedOrigins, settings.Surface.AllowedOrigins); err != nil {
		return fmt.Errorf("save %s: %w", keySurfaceAllowedOrigins, err)
	}
	if err := s.store.Set(keyServerAddr, settings.Server.Addr); err != nil {
		return fmt.Errorf("save %s: %w", keyServerAddr, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
