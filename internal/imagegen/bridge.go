package imagegen

import (
	"context"
	"errors"
	"fmt"

	"imageworld/utils"

	"github.com/charmbracelet/log"
)

const (
	MimeType = "image/jpeg"

	GenerationFailedMessage = "Failed to generate image"
)

// ErrGenerationFailed is the only error callers of Bridge.Generate see. The
// provider's cause stays wrapped for logging.
var ErrGenerationFailed = errors.New("generation failed")

// Provider issues exactly one call to an external text-to-image model and
// returns the raw image bytes.
type Provider interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

type GeneratedImage struct {
	MimeType string
	Data     []byte
}

func (g GeneratedImage) DataURL() string {
	return utils.EncodeDataURL(g.MimeType, g.Data)
}

type Bridge struct {
	provider Provider
	logger   *log.Logger
}

func NewBridge(provider Provider) *Bridge {
	return &Bridge{
		provider: provider,
		logger:   log.With("component", "imagegen"),
	}
}

// Generate forwards req unchanged. Out-of-range values reach the provider as
// they are.
func (b *Bridge) Generate(ctx context.Context, req Request) (GeneratedImage, error) {
	if !req.InBounds() {
		b.logger.Debug("forwarding out-of-bounds parameters", "width", req.Width, "height", req.Height, "steps", req.Steps, "guidanceScale", req.GuidanceScale)
	}

	data, err := b.provider.Generate(ctx, req)
	if err != nil {
		return GeneratedImage{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return GeneratedImage{MimeType: MimeType, Data: data}, nil
}
