package db

import (
	"context"
	"encoding/json"

	"github.com/tgienger/pomolist/internal/models"
)

// LoadSettingsRaw returns the persisted settings document without decoding it,
// so callers can merge it over defaults field by field
func (db *DB) LoadSettingsRaw(ctx context.Context) (json.RawMessage, error) {
	return db.GetRaw(ctx, KeySettings)
}

// SaveSettings replaces the persisted settings
func (db *DB) SaveSettings(ctx context.Context, s models.Settings) error {
	return db.Set(ctx, KeySettings, s)
}

// LoadTheme returns the persisted theme, or ThemeDark when unset or unknown
func (db *DB) LoadTheme(ctx context.Context) (models.Theme, error) {
	var theme models.Theme
	if err := db.Get(ctx, KeyTheme, &theme); err != nil {
		return models.ThemeDark, err
	}
	if theme != models.ThemeLight {
		return models.ThemeDark, nil
	}
	return theme, nil
}

// SaveTheme persists the theme preference
func (db *DB) SaveTheme(ctx context.Context, theme models.Theme) error {
	return db.Set(ctx, KeyTheme, theme)
}
