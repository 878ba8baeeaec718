package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	openAIModel   = "gpt-4o-mini"
)

// OpenAIProvider implements ProviderClient for OpenAI-compatible chat completion APIs.
type OpenAIProvider struct {
	config  *ProviderConfig
	client  *http.Client
	baseURL string
	model   string
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
	Error   *openAIError   `json:"error,omitempty"`
}

type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason,omitempty"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewOpenAIProvider creates a new OpenAI provider instance.
// An empty API key is allowed when base_url points at a local compatible server.
func NewOpenAIProvider(config *ProviderConfig) (*OpenAIProvider, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("api_key not set for provider %s", config.Name)
	}

	return &OpenAIProvider{
		config:  config,
		client:  &http.Client{Timeout: config.timeout()},
		baseURL: config.baseURL(openAIBaseURL),
		model:   config.model(openAIModel),
	}, nil
}

// Generate implements ProviderClient.Generate
func (p *OpenAIProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	headers := map[string]string{}
	if p.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + p.config.APIKey
	}
	body, status, err := postJSON(ctx, p.client, p.baseURL+"/chat/completions", headers, p.buildRequest(req))
	if err != nil {
		return nil, err
	}

	var resp openAIResponse
	if status != http.StatusOK {
		if json.Unmarshal(body, &resp) == nil && resp.Error != nil {
			return nil, fmt.Errorf("openai error (%d): %s", status, resp.Error.Message)
		}
		return nil, fmt.Errorf("http error %d: %s", status, truncate(body, 200))
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai response has no choices")
	}

	return &GenerateResponse{
		Content:      resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		Latency:      time.Since(start),
		FinishReason: resp.Choices[0].FinishReason,
		Provider:     p.config.Name,
	}, nil
}

func (p *OpenAIProvider) buildRequest(req *GenerateRequest) *openAIRequest {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := p.config.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	messages := make([]openAIMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: req.Prompt})

	return &openAIRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
}

// GetInfo implements ProviderClient.GetInfo
func (p *OpenAIProvider) GetInfo() *ProviderInfo {
	return &ProviderInfo{
		Name:     p.config.Name,
		Kind:     KindOpenAI,
		Model:    p.model,
		Endpoint: p.baseURL,
	}
}

// IsAvailable implements ProviderClient.IsAvailable
func (p *OpenAIProvider) IsAvailable() bool {
	return p.config.APIKey != "" || p.config.BaseURL != ""
}

// Close implements ProviderClient.Close
func (p *OpenAIProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
