package telemetry

// Config holds configuration for the tracer
type Config struct {
	ServiceName    string `yaml:"-"`
	ServiceVersion string `yaml:"-"`
	Environment    string `yaml:"environment,omitempty"`

	// Enabled selects the SDK tracer; when false a noop tracer is used.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP/HTTP collector host:port. Empty means spans are not exported.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure,omitempty"`

	// SampleRate is the fraction of traces to sample (0.0 to 1.0)
	SampleRate float64 `yaml:"sample_rate"`
}

// DefaultConfig disables tracing, which suits a CLI.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "growthplan",
		ServiceVersion: "dev",
		Environment:    "development",
		SampleRate:     1.0,
	}
}
