package dataset

import (
	"context"
	"fmt"

	"RegistryLinker/internal/domain"
)

// Request carries all parameters required to read one registry dataset.
type Request struct {
	Side domain.Side
	Name string
	// Location is a file path for file-backed readers or a URL for
	// HTTP-backed ones.
	Location string
	Options  map[string]string
}

// Reader captures a single dataset-format strategy (CSV export,
// published HTML registry, etc.).
type Reader interface {
	Name() string
	Read(ctx context.Context, req Request) ([]domain.Record, error)
}

// Registry keeps a mapping from format names to reader implementations.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{readers: map[string]Reader{}}
}

// Register adds or replaces a reader implementation.
func (r *Registry) Register(reader Reader) {
	if r.readers == nil {
		r.readers = map[string]Reader{}
	}
	r.readers[reader.Name()] = reader
}

// Resolve returns a reader by format name or an error if it is absent.
func (r *Registry) Resolve(name string) (Reader, error) {
	if reader, ok := r.readers[name]; ok {
		return reader, nil
	}
	return nil, fmt.Errorf("dataset format %s is not registered", name)
}
