// Package llm provides the model client abstraction, provider implementations and
// schema-constrained structured calls used by every pipeline step.
package llm

// ModelTier selects between the cheaper and the stronger model of a provider
type ModelTier string

const (
	// TierSmall is for extraction and light rewriting: parsing, basic info, education, skills
	TierSmall ModelTier = "small"
	// TierLarge is for heavier rewriting: experience, projects, cover letters
	TierLarge ModelTier = "large"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
)

// DefaultTemperature matches the sampling temperature the prompts were tuned with
const DefaultTemperature float32 = 0.7

// Config holds the model configuration for the application.
// One Config backs one Client; both tiers share the same provider and credentials.
type Config struct {
	Provider          Provider
	Models            map[ModelTier]string
	Temperature       float32
	RequestsPerSecond float64 // 0 disables client-side throttling
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierSmall: "gemini-2.5-flash",
			TierLarge: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierSmall: "gpt-4o-mini",
			TierLarge: "gpt-4o",
		},
		Temperature:       DefaultTemperature,
		RequestsPerSecond: 100,
	}
}

// ConfigFor returns the default configuration for a provider, or nil if it is unknown.
func ConfigFor(provider Provider) *Config {
	switch provider {
	case ProviderGemini, "":
		return DefaultGeminiConfig()
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	default:
		return nil
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// Fallback chain: large, then small
	if model, ok := c.Models[TierLarge]; ok {
		return model
	}
	if model, ok := c.Models[TierSmall]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
