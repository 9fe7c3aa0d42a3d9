package colour

import (
	"fmt"
	"iter"
)

// bytesPerPixel is the size of one RGBA8 pixel.
const bytesPerPixel = 4

// Position is a pixel coordinate within the image.
type Position struct {
	X int
	Y int
}

// DistanceSquared returns the squared Euclidean distance between two positions.
func (p Position) DistanceSquared(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// positionOf maps a linear pixel index to its (x, y) coordinate.
func positionOf(index, width int) Position {
	return Position{X: index % width, Y: index / width}
}

// Sample is one accepted pixel observation.
type Sample struct {
	RGBA   [4]uint8
	Colour Luv
	Pos    Position
	Index  int
}

// ignorable reports whether a pixel is skipped before conversion.
// Opaque black and fully transparent pixels are ignored; black with partial
// alpha is kept.
func ignorable(px []byte) bool {
	if px[3] == 0 {
		return true
	}
	return px[0] == 0 && px[1] == 0 && px[2] == 0 && px[3] == 255
}

// Sampler walks an RGBA8 buffer at a fixed stride.
type Sampler struct {
	// Stride is the pixel distance between visited pixels.
	Stride int

	// CoherenceThreshold drops a pixel whose hybrid distance to the previous
	// accepted sample is below it. Zero disables the check.
	CoherenceThreshold float64
}

// validateBuffer checks the buffer-level input contract.
func validateBuffer(pix []byte, width, stride int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidInput, width)
	}
	if stride <= 0 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidInput, stride)
	}
	if len(pix)%bytesPerPixel != 0 {
		return fmt.Errorf("%w: buffer length %d is not a multiple of %d", ErrInvalidInput, len(pix), bytesPerPixel)
	}
	return nil
}

// Samples returns the accepted samples of pix in scan order.
// The sequence is single-use: the coherence reference lives in the iterator.
func (s Sampler) Samples(pix []byte, width int) (iter.Seq[Sample], error) {
	if err := validateBuffer(pix, width, s.Stride); err != nil {
		return nil, err
	}

	return func(yield func(Sample) bool) {
		var prev Luv
		havePrev := false

		pixels := len(pix) / bytesPerPixel
		for i := 0; i < pixels; i += s.Stride {
			px := pix[i*bytesPerPixel : (i+1)*bytesPerPixel]
			if ignorable(px) {
				continue
			}

			c := LuvFromRGB(px[0], px[1], px[2])
			if havePrev && c.HybridDistance(prev) < s.CoherenceThreshold {
				continue
			}
			prev, havePrev = c, true

			sample := Sample{
				RGBA:   [4]uint8{px[0], px[1], px[2], px[3]},
				Colour: c,
				Pos:    positionOf(i, width),
				Index:  i,
			}
			if !yield(sample) {
				return
			}
		}
	}, nil
}
