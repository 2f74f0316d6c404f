package geokit

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Converter transforms a recognized source format into another
// representation. Implementations are opaque to the detection core.
type Converter interface {
	// Convert streams src into dst.
	Convert(ctx context.Context, src io.Reader, dst io.Writer) error

	// SourceFormat returns the format this converter consumes.
	SourceFormat() Format
}

// ConverterFactory is a function that creates a Converter from a config
type ConverterFactory func(cfg *Config) (Converter, error)

// ConverterRegistry maps format keys to converter factories.
type ConverterRegistry struct {
	mu        sync.RWMutex
	factories map[Format]ConverterFactory
}

// NewConverterRegistry creates an empty converter registry.
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{factories: make(map[Format]ConverterFactory)}
}

// Register registers a converter factory for a format.
func (r *ConverterRegistry) Register(format Format, factory ConverterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[format] = factory
}

// Has reports whether a converter is registered for the format.
func (r *ConverterRegistry) Has(format Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[format] != nil
}

// Create creates a converter instance for a format.
func (r *ConverterRegistry) Create(format Format, cfg *Config) (Converter, error) {
	r.mu.RLock()
	factory, exists := r.factories[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("converter %s not registered", format)
	}
	return factory(cfg)
}

// Formats returns the registered format keys.
func (r *ConverterRegistry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]Format, 0, len(r.factories))
	for format := range r.factories {
		formats = append(formats, format)
	}
	return formats
}
