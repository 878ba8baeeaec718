package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry manages loaded providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ProviderClient
	configs   map[string]*ProviderConfig
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]ProviderClient),
		configs:   make(map[string]*ProviderConfig),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, provider ProviderClient, config *ProviderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider
	r.configs[name] = config
	return nil
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (ProviderClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	return provider, nil
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the first available provider named in preference, falling
// back to any available provider in name order.
func (r *Registry) Select(preference []string) (ProviderClient, error) {
	for _, name := range preference {
		if p, err := r.Get(name); err == nil && p.IsAvailable() {
			return p, nil
		}
	}
	for _, name := range r.List() {
		if p, err := r.Get(name); err == nil && p.IsAvailable() {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no available provider")
}

// CloseAll closes all registered providers
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, provider := range r.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %s: %w", name, err))
		}
	}

	r.providers = make(map[string]ProviderClient)
	r.configs = make(map[string]*ProviderConfig)

	return errors.Join(errs...)
}

// LoadFromConfig creates and registers a provider. Disabled providers are skipped.
func (r *Registry) LoadFromConfig(config *ProviderConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if !config.Enabled {
		return nil
	}

	var (
		provider ProviderClient
		err      error
	)
	switch config.Kind {
	case KindAnthropic:
		provider, err = NewAnthropicProvider(config)
	case KindOpenAI:
		provider, err = NewOpenAIProvider(config)
	case KindGemini:
		provider, err = NewGeminiProvider(config)
	}
	if err != nil {
		return fmt.Errorf("failed to create provider %s: %w", config.Name, err)
	}

	return r.Register(config.Name, provider, config)
}
