// Package llm wraps the generative model used for AI resume critiques.
package llm

import (
	"os"
	"strconv"
)

// ModelTier selects a model by capability rather than by name.
type ModelTier string

const (
	// TierLite is for short, cheap calls
	TierLite ModelTier = "lite"
	// TierStandard is for full resume reviews
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long documents that need the strongest model
	TierAdvanced ModelTier = "advanced"
)

// DefaultTemperature keeps reviews and their scores stable across runs.
const DefaultTemperature float32 = 0.2

// Config holds the model names per tier and sampling settings.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// ConfigFromEnv starts from DefaultConfig and applies GEMINI_MODEL (standard
// tier override) and GEMINI_TEMPERATURE when set.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg = cfg.WithModel(TierStandard, model)
	}
	if raw := os.Getenv("GEMINI_TEMPERATURE"); raw != "" {
		if t, err := strconv.ParseFloat(raw, 32); err == nil && t >= 0 && t <= 2 {
			cfg.Temperature = float32(t)
		}
	}
	return cfg
}

// GetModel returns the model for tier, falling back to standard then lite.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c with tier mapped to model.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}
