package dotdirectory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
)

// Provider finds folder covers for one naming convention.
type Provider struct {
	desc       Descriptor
	imageTypes []ImageType
	logger     zerolog.Logger
}

type Option func(*Provider)

// WithImageTypes sets the image types the provider advertises and answers
// for. Defaults to Primary only.
func WithImageTypes(types ...ImageType) Option {
	return func(p *Provider) {
		p.imageTypes = slices.Clone(types)
	}
}

func NewProvider(desc Descriptor, logger zerolog.Logger, opts ...Option) (*Provider, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		desc:       desc,
		imageTypes: []ImageType{Primary},
		logger:     logger.With().Str("provider", desc.Name).Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Provider) Name() string {
	return p.desc.Name
}

func (p *Provider) Descriptor() Descriptor {
	return p.desc
}

// SupportedImages lists the image types GetImage may return an image for.
func (p *Provider) SupportedImages(item Item) []ImageType {
	return slices.Clone(p.imageTypes)
}

// Supports reports whether item is a kind of catalogue entry that has a
// folder of its own: series, seasons, movies and music albums.
func (p *Provider) Supports(item Item) bool {
	return supportedKinds[item.Kind()]
}

func (p *Provider) applicable(item Item, imageType ImageType) bool {
	return item.Protocol() == ProtocolFile && slices.Contains(p.imageTypes, imageType)
}

// GetImage looks for the cover of item. Every miss is a result without an
// image; the only error returned is the context's when ctx is cancelled.
func (p *Provider) GetImage(ctx context.Context, item Item, imageType ImageType) (ImageResult, error) {
	if !p.applicable(item, imageType) {
		return noImage, nil
	}

	directory := mediaFolder(item)
	configFile := filepath.Join(directory, p.desc.FileName)
	if !fileExists(configFile) {
		p.logger.Debug().Str("config", configFile).Msg("skipping cover extraction because config doesn't exist")
		return noImage, nil
	}

	iconFile, ok, err := p.ReadField(ctx, configFile)
	if err != nil {
		return noImage, err
	}
	if !ok {
		p.logger.Debug().Str("config", configFile).Msg("skipping cover extraction because config doesn't contain an icon reference")
		return noImage, nil
	}
	p.logger.Debug().Str("config", configFile).Str("icon", iconFile).Msg("read icon value")

	if !IsAbsolutePath(iconFile) {
		iconFile = ResolveIconPath(iconFile, directory)
		p.logger.Debug().Str("config", configFile).Str("icon", iconFile).Msg("resolved relative icon value")
	}

	if !fileExists(iconFile) {
		p.logger.Warn().Str("icon", iconFile).Str("config", configFile).Msg("icon file does not exist")
		return noImage, nil
	}

	return ImageResult{
		HasImage: true,
		Path:     iconFile,
		Protocol: ProtocolFile,
		Format:   DetectImageFormat(iconFile),
	}, nil
}

// ReadField reads the descriptor's field from the config file at path.
//
// Open and decode failures are logged and reported as a missing value. The
// only error returned is the context's when ctx is cancelled.
func (p *Provider) ReadField(ctx context.Context, path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		p.logger.Error().Err(err).Str("file", path).Msg("failed to read config file")
		return "", false, nil
	}
	defer f.Close()

	value, ok, err := ResolveField(ctx, p.logger, NewLineScanner(f), path, p.desc.Section, p.desc.Field)
	if err == nil {
		return value, ok, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		p.logger.Error().Err(err).Str("file", path).Msg("failed to read chunk from file")
	} else {
		p.logger.Error().Err(err).Str("file", path).Msg("failed to read config file")
	}
	return "", false, nil
}
