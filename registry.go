package dotdirectory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Registry holds providers in the order a host should ask them.
type Registry struct {
	providers []*Provider
}

// NewRegistry builds one provider per descriptor. Descriptor names must be
// unique.
func NewRegistry(descs []Descriptor, logger zerolog.Logger, opts ...Option) (*Registry, error) {
	r := &Registry{}
	seen := make(map[string]bool, len(descs))
	for _, desc := range descs {
		if seen[desc.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidDescriptor, desc.Name)
		}
		seen[desc.Name] = true

		p, err := NewProvider(desc, logger, opts...)
		if err != nil {
			return nil, err
		}
		r.providers = append(r.providers, p)
	}
	return r, nil
}

func (r *Registry) Providers() []*Provider {
	return r.providers
}

func (r *Registry) Lookup(name string) (*Provider, bool) {
	for _, p := range r.providers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// FirstImage asks each provider supporting item in turn and returns the
// first result with an image along with the provider that produced it.
func (r *Registry) FirstImage(ctx context.Context, item Item, imageType ImageType) (ImageResult, *Provider, error) {
	for _, p := range r.providers {
		if !p.Supports(item) {
			continue
		}
		result, err := p.GetImage(ctx, item, imageType)
		if err != nil {
			return noImage, nil, err
		}
		if result.HasImage {
			return result, p, nil
		}
	}
	return noImage, nil, nil
}
