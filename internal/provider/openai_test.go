package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_Generate(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, 400, req.MaxTokens)

		_ = json.NewEncoder(w).Encode(openAIResponse{
			Model: "gpt-test",
			Choices: []openAIChoice{{
				Message:      openAIMessage{Role: "assistant", Content: `["Q1?","Q2?","Q3?"]`},
				FinishReason: "stop",
			}},
			Usage: openAIUsage{PromptTokens: 7, CompletionTokens: 3},
		})
	})

	p, err := NewOpenAIProvider(&ProviderConfig{Name: "openai", Kind: KindOpenAI, APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), &GenerateRequest{
		Prompt:       "questions",
		SystemPrompt: "Ask questions.",
		MaxTokens:    400,
		Temperature:  0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, `["Q1?","Q2?","Q3?"]`, resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 10, resp.TokensUsed())
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"gpt-test","choices":[]}`))
	})

	p, err := NewOpenAIProvider(&ProviderConfig{Name: "local", Kind: KindOpenAI, BaseURL: server.URL})
	require.NoError(t, err)
	assert.True(t, p.IsAvailable())

	_, err = p.Generate(context.Background(), &GenerateRequest{Prompt: "x"})
	assert.ErrorContains(t, err, "no choices")
}

func TestOpenAIProvider_RequiresKeyOrBaseURL(t *testing.T) {
	_, err := NewOpenAIProvider(&ProviderConfig{Name: "openai", Kind: KindOpenAI})
	assert.Error(t, err)
}

func TestOpenAIProvider_ContextCancelled(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	p, err := NewOpenAIProvider(&ProviderConfig{Name: "openai", Kind: KindOpenAI, APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Generate(ctx, &GenerateRequest{Prompt: "x"})
	assert.Error(t, err)
}
