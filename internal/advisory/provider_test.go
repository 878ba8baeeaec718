package advisory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/metrics"
	"github.com/felixgeelhaar/growthplan/internal/provider"
)

type fakeClient struct {
	available bool
	content   string
	err       error
	got       *provider.GenerateRequest
	deadline  bool
}

func (f *fakeClient) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	f.got = req
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &provider.GenerateResponse{Content: f.content, Provider: "fake", InputTokens: 3, OutputTokens: 4}, nil
}
func (f *fakeClient) GetInfo() *provider.ProviderInfo { return &provider.ProviderInfo{Name: "fake"} }
func (f *fakeClient) IsAvailable() bool               { return f.available }
func (f *fakeClient) Close() error                    { return nil }

func TestProviderGenerator(t *testing.T) {
	client := &fakeClient{available: true, content: `{"ok":true}`}
	_, m := metrics.NewRegistry()
	gen := NewProviderGenerator(client, time.Second, m)

	out, err := gen.Generate(context.Background(), TagRiskAssessment, "assess", 1200, 0.5)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	require.NotNil(t, client.got)
	assert.Equal(t, 1200, client.got.MaxTokens)
	assert.InDelta(t, 0.5, client.got.Temperature, 1e-9)
	assert.Contains(t, client.got.SystemPrompt, "risk analyst")
	assert.Equal(t, "risk_assessment", client.got.Metadata["tag"])
	assert.True(t, client.deadline, "each call carries a timeout")
}

func TestProviderGeneratorErrors(t *testing.T) {
	gen := NewProviderGenerator(&fakeClient{available: false}, 0, nil)
	_, err := gen.Generate(context.Background(), TagSynthesis, "x", 10, 0.1)
	assert.Error(t, err)

	gen = NewProviderGenerator(&fakeClient{available: true, err: errors.New("503")}, 0, nil)
	_, err = gen.Generate(context.Background(), TagSynthesis, "x", 10, 0.1)
	assert.EqualError(t, err, "503")
}
