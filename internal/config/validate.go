package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
)

// Validate checks structural correctness of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("advisor.model", c.Advisor, modelRequiredWithKey),
		criterio.Run("limits.focus", c.Limits.Focus, validRange(1)),
		criterio.Run("limits.short_break", c.Limits.ShortBreak, validRange(1)),
		criterio.Run("limits.long_break", c.Limits.LongBreak, validRange(1)),
		criterio.Run("limits.long_break_interval", c.Limits.LongBreakInterval, validRange(1)),
	)
}

func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return fmt.Errorf("data directory is required")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func modelRequiredWithKey(a AdvisorConfig) error {
	if a.Enabled() && a.Model == "" {
		return fmt.Errorf("model is required when an api key is set")
	}
	return nil
}

func validRange(floor int) func(RangeConfig) error {
	return func(r RangeConfig) error {
		if r.Min < floor {
			return fmt.Errorf("min must be at least %d, got %d", floor, r.Min)
		}
		if r.Max < r.Min {
			return fmt.Errorf("max %d is below min %d", r.Max, r.Min)
		}
		return nil
	}
}
