package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *ProviderConfig
		wantErr bool
	}{
		{
			name:   "valid config",
			config: &ProviderConfig{Name: "anthropic", Kind: KindAnthropic, Enabled: true, APIKey: "test-key"},
		},
		{
			name:    "missing api key",
			config:  &ProviderConfig{Name: "anthropic", Kind: KindAnthropic, Enabled: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewAnthropicProvider(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, anthropicBaseURL, p.GetInfo().Endpoint)
			assert.Equal(t, anthropicModel, p.GetInfo().Model)
			assert.True(t, p.IsAvailable())
		})
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1200, req.MaxTokens)
		assert.InDelta(t, 0.6, req.Temperature, 1e-9)
		assert.Equal(t, "You are a coach.", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			ID:         "msg_1",
			Content:    []anthropicContent{{Type: "text", Text: `{"confidence": 0.8}`}},
			Model:      "claude-test",
			StopReason: "end_turn",
			Usage:      anthropicUsage{InputTokens: 10, OutputTokens: 5},
		})
	})

	p, err := NewAnthropicProvider(&ProviderConfig{Name: "anthropic", Kind: KindAnthropic, APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), &GenerateRequest{
		Prompt:       "Analyze the learner",
		SystemPrompt: "You are a coach.",
		MaxTokens:    1200,
		Temperature:  0.6,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"confidence": 0.8}`, resp.Content)
	assert.Equal(t, 15, resp.TokensUsed())
	assert.Equal(t, "anthropic", resp.Provider)
}

func TestAnthropicProvider_GenerateHTTPError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	p, err := NewAnthropicProvider(&ProviderConfig{Name: "anthropic", Kind: KindAnthropic, APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}
