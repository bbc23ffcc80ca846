package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Loader reads pricing settings overrides from a named source.
type Loader interface {
	Load(ctx context.Context, source string) (Settings, error)
}

// fileLoader implements Loader for local JSON files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based settings loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "pricing-loader").Logger(),
	}
}

// Load reads a JSON settings file. Fields absent from the file keep
// their defaults.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Settings, error) {
	l.logger.Info().Str("file", filePath).Msg("loading pricing settings")

	data, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read settings file")
		return Settings{}, fmt.Errorf("failed to read settings file %s: %w", filePath, err)
	}

	return parseSettings(data)
}

// parseSettings decodes settings JSON on top of the defaults and
// validates the result.
func parseSettings(data []byte) (Settings, error) {
	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	if settings.FreeShippingThreshold.IsNegative() {
		return Settings{}, fmt.Errorf("free shipping threshold must not be negative")
	}
	if settings.DeliveryFee.IsNegative() {
		return Settings{}, fmt.Errorf("delivery fee must not be negative")
	}
	if settings.TaxRate.IsNegative() {
		return Settings{}, fmt.Errorf("tax rate must not be negative")
	}

	return settings, nil
}
