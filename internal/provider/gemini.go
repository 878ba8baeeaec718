package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com"
	geminiModel   = "gemini-2.5-flash"
)

// GeminiProvider implements ProviderClient for the Gemini API through the genai SDK.
type GeminiProvider struct {
	config  *ProviderConfig
	http    *http.Client
	client  *genai.Client
	baseURL string
	model   string
}

// NewGeminiProvider creates a Gemini provider. An API key is required.
func NewGeminiProvider(config *ProviderConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("api_key not set for provider %s", config.Name)
	}

	httpClient := &http.Client{Timeout: config.timeout()}
	baseURL := config.baseURL(geminiBaseURL)
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client for %s: %w", config.Name, err)
	}

	return &GeminiProvider{
		config:  config,
		http:    httpClient,
		client:  client,
		baseURL: baseURL,
		model:   config.model(geminiModel),
	}, nil
}

// Generate implements ProviderClient.Generate
func (p *GeminiProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	resp, err := p.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)},
		p.buildConfig(req),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini response has no candidates")
	}

	out := &GenerateResponse{
		Content:      resp.Text(),
		Model:        model,
		Latency:      time.Since(start),
		FinishReason: string(resp.Candidates[0].FinishReason),
		Provider:     p.config.Name,
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.InputTokens = int(u.PromptTokenCount)
		out.OutputTokens = int(u.CandidatesTokenCount)
	}
	return out, nil
}

func (p *GeminiProvider) buildConfig(req *GenerateRequest) *genai.GenerateContentConfig {
	maxTokens := p.config.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	return cfg
}

// GetInfo implements ProviderClient.GetInfo
func (p *GeminiProvider) GetInfo() *ProviderInfo {
	return &ProviderInfo{
		Name:     p.config.Name,
		Kind:     KindGemini,
		Model:    p.model,
		Endpoint: p.baseURL,
	}
}

// IsAvailable implements ProviderClient.IsAvailable
func (p *GeminiProvider) IsAvailable() bool {
	return p.config.APIKey != ""
}

// Close implements ProviderClient.Close
func (p *GeminiProvider) Close() error {
	p.http.CloseIdleConnections()
	return nil
}
