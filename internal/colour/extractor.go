package colour

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// MaxColorCount is the largest palette an ExtractorConfig accepts.
const MaxColorCount = 256

// Extractor defines the interface for color extraction algorithms.
type Extractor interface {
	// Extract extracts a color palette from an image.
	// The count parameter specifies the number of colors to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// ExtractorConfig holds configuration for color extraction.
type ExtractorConfig struct {
	ColorCount int
	Clustering Config
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ColorCount: 8,
		Clustering: DefaultConfig(),
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.ColorCount < 0 {
		return fmt.Errorf("%w: color count must not be negative, got %d", ErrInvalidInput, c.ColorCount)
	}
	if c.ColorCount > MaxColorCount {
		return fmt.Errorf("%w: color count too large: %d (maximum: %d)", ErrInvalidInput, c.ColorCount, MaxColorCount)
	}
	return c.Clustering.Validate()
}

// PerceptualExtractor extracts palettes with single-pass perceptual clustering.
type PerceptualExtractor struct {
	cfg Config
}

// NewPerceptualExtractor creates an extractor using the given clustering configuration.
func NewPerceptualExtractor(cfg Config) *PerceptualExtractor {
	return &PerceptualExtractor{cfg: cfg}
}

// Extract extracts up to count colours from img.
func (e *PerceptualExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidInput)
	}
	pix, width := toNRGBA(img)
	if width == 0 {
		// A zero-width image has no pixels to sample.
		return NewPaletteWithWeights(nil, nil), nil
	}
	return e.ExtractPixels(pix, width, count)
}

// ExtractPixels extracts up to count colours from a row-major RGBA8 buffer.
func (e *PerceptualExtractor) ExtractPixels(pix []byte, width, count int) (*Palette, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: color count must not be negative, got %d", ErrInvalidInput, count)
	}
	ranked, err := e.Clusters(pix, width)
	if err != nil {
		return nil, err
	}
	return paletteFromClusters(ranked, count), nil
}

// Clusters runs the clustering pass over pix and returns every cluster found,
// ranked by descending weight.
func (e *PerceptualExtractor) Clusters(pix []byte, width int) ([]Cluster, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	samples, err := e.cfg.Sampler().Samples(pix, width)
	if err != nil {
		return nil, err
	}

	engine := NewEngine(e.cfg)
	engine.Run(samples)
	return Rank(engine.Clusters()), nil
}

// GetPalette extracts up to targetLen colours from a row-major RGBA8 buffer of
// the given width, sampling every stride-th pixel with the default thresholds.
func GetPalette(pix []byte, stride, targetLen, width int) ([]RGB, error) {
	cfg := DefaultConfig()
	cfg.Stride = stride
	palette, err := NewPerceptualExtractor(cfg).ExtractPixels(pix, width, targetLen)
	if err != nil {
		return nil, err
	}
	return palette.ToRGBSlice(), nil
}

// toNRGBA returns the image as a tightly packed, non-premultiplied RGBA8
// buffer together with its width.
func toNRGBA(img image.Image) ([]byte, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if n, ok := img.(*image.NRGBA); ok && n.Stride == w*bytesPerPixel {
		start := n.PixOffset(b.Min.X, b.Min.Y)
		return n.Pix[start : start+w*h*bytesPerPixel], w
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst.Pix, w
}
