// Package settings loads, clamps and persists the Pomodoro durations.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tgienger/pomolist/internal/db"
	"github.com/tgienger/pomolist/internal/logging"
	"github.com/tgienger/pomolist/internal/models"
)

// Repository persists the settings document
type Repository interface {
	LoadSettingsRaw(ctx context.Context) (json.RawMessage, error)
	SaveSettings(ctx context.Context, s models.Settings) error
}

// Range is an inclusive bound for one setting
type Range struct {
	Min int
	Max int
}

// Clamp returns v limited to the range
func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Limits holds the allowed range of every setting
type Limits struct {
	Focus             Range
	ShortBreak        Range
	LongBreak         Range
	LongBreakInterval Range
}

// DefaultLimits allows 1-120 minutes for durations and 2-10 sessions between long breaks
func DefaultLimits() Limits {
	minutes := Range{Min: 1, Max: 120}
	return Limits{
		Focus:             minutes,
		ShortBreak:        minutes,
		LongBreak:         minutes,
		LongBreakInterval: Range{Min: 2, Max: 10},
	}
}

// Clamp limits every field of s to its range
func (l Limits) Clamp(s models.Settings) models.Settings {
	return models.Settings{
		FocusDuration:      l.Focus.Clamp(s.FocusDuration),
		ShortBreakDuration: l.ShortBreak.Clamp(s.ShortBreakDuration),
		LongBreakDuration:  l.LongBreak.Clamp(s.LongBreakDuration),
		LongBreakInterval:  l.LongBreakInterval.Clamp(s.LongBreakInterval),
	}
}

// Store owns the current settings
type Store struct {
	repo    Repository
	limits  Limits
	current models.Settings
	log     zerolog.Logger
}

// New creates a store holding the defaults; call Load to read persisted values
func New(repo Repository, limits Limits) *Store {
	return &Store{
		repo:    repo,
		limits:  limits,
		current: models.DefaultSettings(),
		log:     logging.Component("settings"),
	}
}

// Current returns the settings in effect
func (s *Store) Current() models.Settings {
	return s.current
}

// Limits returns the configured ranges
func (s *Store) Limits() Limits {
	return s.limits
}

// Load reads persisted settings and merges them over the defaults. Fields
// missing from older documents keep their default. When nothing has been
// saved yet the defaults are written. Unreadable data is logged and ignored.
func (s *Store) Load(ctx context.Context) models.Settings {
	raw, err := s.repo.LoadSettingsRaw(ctx)
	switch {
	case errors.Is(err, db.ErrNotFound):
		s.current = models.DefaultSettings()
		if err := s.repo.SaveSettings(ctx, s.current); err != nil {
			s.log.Error().Err(err).Msg("failed to persist default settings")
		}
		return s.current
	case err != nil:
		s.log.Warn().Err(err).Msg("could not read settings, using defaults")
		s.current = models.DefaultSettings()
		return s.current
	}

	merged, err := merge(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not decode settings, using defaults")
		s.current = models.DefaultSettings()
		return s.current
	}

	s.current = s.limits.Clamp(merged)
	return s.current
}

// Save clamps next to the configured limits, persists it and makes it current.
// The clamped value is returned.
func (s *Store) Save(ctx context.Context, next models.Settings) (models.Settings, error) {
	clamped := s.limits.Clamp(next)
	if err := s.repo.SaveSettings(ctx, clamped); err != nil {
		return s.current, fmt.Errorf("save settings: %w", err)
	}
	s.current = clamped
	return clamped, nil
}

// Reset returns the compiled-in defaults. Nothing is persisted until Save.
func (s *Store) Reset() models.Settings {
	return models.DefaultSettings()
}

// merge decodes raw over the defaults. Absent and zero fields keep the default.
func merge(raw json.RawMessage) (models.Settings, error) {
	var partial struct {
		FocusDuration      *int `json:"pomodoroDuration"`
		ShortBreakDuration *int `json:"shortBreakDuration"`
		LongBreakDuration  *int `json:"longBreakDuration"`
		LongBreakInterval  *int `json:"longBreakInterval"`
	}
	if err := json.Unmarshal(raw, &partial); err != nil {
		return models.Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	out := models.DefaultSettings()
	pick := func(dst *int, v *int) {
		if v != nil && *v != 0 {
			*dst = *v
		}
	}
	pick(&out.FocusDuration, partial.FocusDuration)
	pick(&out.ShortBreakDuration, partial.ShortBreakDuration)
	pick(&out.LongBreakDuration, partial.LongBreakDuration)
	pick(&out.LongBreakInterval, partial.LongBreakInterval)
	return out, nil
}
