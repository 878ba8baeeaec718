package provider

import (
	"fmt"
	"strings"
	"time"
)

// ProviderKind selects the wire protocol of a provider.
type ProviderKind string

const (
	KindAnthropic ProviderKind = "anthropic"
	KindOpenAI    ProviderKind = "openai"
	KindGemini    ProviderKind = "gemini"
)

const defaultTimeout = 60 * time.Second

// GenerateRequest contains all parameters for generating a response
type GenerateRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"system_prompt,omitempty"`

	// MaxTokens limits the response length. Zero uses the provider default.
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`

	// Model overrides the provider's configured model.
	Model string `json:"model,omitempty"`

	// Metadata is carried for tracing only and never sent upstream.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// GenerateResponse contains the model's response
type GenerateResponse struct {
	Content      string        `json:"content"`
	InputTokens  int           `json:"input_tokens,omitempty"`
	OutputTokens int           `json:"output_tokens,omitempty"`
	Model        string        `json:"model"`
	Latency      time.Duration `json:"latency"`
	FinishReason string        `json:"finish_reason"`
	Provider     string        `json:"provider"`
}

// TokensUsed is the total of input and output tokens.
func (r *GenerateResponse) TokensUsed() int {
	return r.InputTokens + r.OutputTokens
}

// ProviderConfig configures one provider entry in the advisory config.
type ProviderConfig struct {
	Name    string        `yaml:"name" json:"name"`
	Kind    ProviderKind  `yaml:"kind" json:"kind"`
	Enabled bool          `yaml:"enabled" json:"enabled"`
	APIKey  string        `yaml:"api_key,omitempty" json:"-"`
	BaseURL string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Model   string        `yaml:"model,omitempty" json:"model,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	// MaxTokens is used when a request does not set its own limit.
	MaxTokens int `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
}

// Validate checks a single provider configuration
func (c *ProviderConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	switch c.Kind {
	case KindAnthropic, KindOpenAI, KindGemini:
	default:
		return fmt.Errorf("invalid provider kind %q (must be anthropic, openai or gemini)", c.Kind)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	return nil
}

func (c *ProviderConfig) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c *ProviderConfig) baseURL(def string) string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return def
}

func (c *ProviderConfig) model(def string) string {
	if c.Model != "" {
		return c.Model
	}
	return def
}
