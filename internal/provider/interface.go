package provider

import "context"

// ProviderClient is implemented by every text-generation backend.
type ProviderClient interface {
	// Generate sends a prompt and returns the complete response.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// GetInfo returns metadata about the provider.
	GetInfo() *ProviderInfo

	// IsAvailable reports whether the provider is configured well enough to accept requests.
	IsAvailable() bool

	// Close releases any resources held by the provider.
	Close() error
}

// ProviderInfo contains metadata about a provider
type ProviderInfo struct {
	Name     string
	Kind     ProviderKind
	Model    string
	Endpoint string
}
