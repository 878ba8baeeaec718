package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicModel   = "claude-sonnet-4-5"
	anthropicVersion = "2023-06-01"
)

// AnthropicProvider implements ProviderClient for the Anthropic Messages API.
type AnthropicProvider struct {
	config    *ProviderConfig
	client    *http.Client
	baseURL   string
	model     string
	maxTokens int
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Content    []anthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason,omitempty"`
	Usage      anthropicUsage     `json:"usage"`
	Error      *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewAnthropicProvider creates a new Anthropic provider instance
func NewAnthropicProvider(config *ProviderConfig) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("api_key not set for provider %s", config.Name)
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		// the Messages API requires max_tokens on every request
		maxTokens = 1024
	}

	return &AnthropicProvider{
		config:    config,
		client:    &http.Client{Timeout: config.timeout()},
		baseURL:   config.baseURL(anthropicBaseURL),
		model:     config.model(anthropicModel),
		maxTokens: maxTokens,
	}, nil
}

// Generate implements ProviderClient.Generate
func (p *AnthropicProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	headers := map[string]string{
		"x-api-key":         p.config.APIKey,
		"anthropic-version": anthropicVersion,
	}
	body, status, err := postJSON(ctx, p.client, p.baseURL+"/messages", headers, p.buildRequest(req))
	if err != nil {
		return nil, err
	}

	var resp anthropicResponse
	if status != http.StatusOK {
		if json.Unmarshal(body, &resp) == nil && resp.Error != nil {
			return nil, fmt.Errorf("anthropic error (%d): %s", status, resp.Error.Message)
		}
		return nil, fmt.Errorf("http error %d: %s", status, truncate(body, 200))
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}

	return &GenerateResponse{
		Content:      text.String(),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Model:        resp.Model,
		Latency:      time.Since(start),
		FinishReason: resp.StopReason,
		Provider:     p.config.Name,
	}, nil
}

func (p *AnthropicProvider) buildRequest(req *GenerateRequest) *anthropicRequest {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := p.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	return &anthropicRequest{
		Model:       model,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		System:      req.SystemPrompt,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
}

// GetInfo implements ProviderClient.GetInfo
func (p *AnthropicProvider) GetInfo() *ProviderInfo {
	return &ProviderInfo{
		Name:     p.config.Name,
		Kind:     KindAnthropic,
		Model:    p.model,
		Endpoint: p.baseURL,
	}
}

// IsAvailable implements ProviderClient.IsAvailable
func (p *AnthropicProvider) IsAvailable() bool {
	return p.config.APIKey != ""
}

// Close implements ProviderClient.Close
func (p *AnthropicProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
