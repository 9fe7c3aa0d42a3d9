package colour

import (
	"fmt"
	"iter"
	"math"

	"github.com/hashicorp/go-hclog"
)

// Default clustering parameters.
const (
	DefaultStride             = 10
	DefaultMergeThreshold     = 30.0
	DefaultCoherenceThreshold = 60.0
	DefaultColourWeight       = 100.0
	DefaultProximityWeight    = 100.0
)

// Config holds the tunables of a clustering pass.
type Config struct {
	// Stride is the pixel distance between sampled pixels.
	Stride int

	// MergeThreshold is the hybrid distance below which a sample joins a cluster.
	MergeThreshold float64

	// CoherenceThreshold is the hybrid distance below which a sample is dropped
	// as a repeat of the previous accepted sample. Zero disables the check.
	CoherenceThreshold float64

	// ColourWeight scales the perceptual distance term of a merge.
	ColourWeight float64

	// ProximityWeight is divided by the squared pixel distance of a merge.
	ProximityWeight float64

	// Logger receives trace output. Nil means no logging.
	Logger hclog.Logger
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() Config {
	return Config{
		Stride:             DefaultStride,
		MergeThreshold:     DefaultMergeThreshold,
		CoherenceThreshold: DefaultCoherenceThreshold,
		ColourWeight:       DefaultColourWeight,
		ProximityWeight:    DefaultProximityWeight,
	}
}

// Validate validates the clustering configuration.
func (c Config) Validate() error {
	if c.Stride <= 0 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidInput, c.Stride)
	}
	if c.MergeThreshold < 0 {
		return fmt.Errorf("%w: merge threshold must not be negative, got %g", ErrInvalidInput, c.MergeThreshold)
	}
	if c.CoherenceThreshold < 0 {
		return fmt.Errorf("%w: coherence threshold must not be negative, got %g", ErrInvalidInput, c.CoherenceThreshold)
	}
	if c.ColourWeight < 0 || c.ProximityWeight < 0 {
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidInput)
	}
	return nil
}

// Sampler returns the pixel sampler described by the configuration.
func (c Config) Sampler() Sampler {
	return Sampler{Stride: c.Stride, CoherenceThreshold: c.CoherenceThreshold}
}

// Cluster is one group of perceptually similar samples.
type Cluster struct {
	Colour  Luv
	RGB     RGB
	Weight  uint64
	LastPos Position
}

// Engine assigns samples to clusters in a single ordered pass.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg      Config
	logger   hclog.Logger
	clusters []Cluster
	samples  int
}

// NewEngine creates an Engine with an empty cluster list.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Run observes every sample of seq in order.
func (e *Engine) Run(seq iter.Seq[Sample]) {
	for s := range seq {
		e.Observe(s)
	}
	e.logger.Debug("clustering pass complete", "samples", e.samples, "clusters", len(e.clusters))
}

// Observe merges s into the first cluster, in insertion order, whose colour is
// closer than the merge threshold. Closer clusters later in the list are not
// considered. If nothing matches, s seeds a new cluster.
func (e *Engine) Observe(s Sample) {
	e.samples++

	idx, dist, ok := e.firstMatch(s.Colour)
	if !ok {
		e.clusters = append(e.clusters, Cluster{
			Colour:  s.Colour,
			RGB:     RGB{R: s.RGBA[0], G: s.RGBA[1], B: s.RGBA[2]},
			Weight:  1,
			LastPos: s.Pos,
		})
		e.logger.Trace("new cluster", "index", len(e.clusters)-1, "pixel", s.Index)
		return
	}

	c := &e.clusters[idx]
	c.Weight += e.increment(dist, s.Pos.DistanceSquared(c.LastPos))
	c.Colour = c.Colour.Midpoint(s.Colour)
	c.RGB = averageRGB(c.RGB, s.RGBA)
	c.LastPos = s.Pos
}

// firstMatch returns the index of the first cluster within the merge threshold.
func (e *Engine) firstMatch(c Luv) (int, float64, bool) {
	for i := range e.clusters {
		if d := c.HybridDistance(e.clusters[i].Colour); d < e.cfg.MergeThreshold {
			return i, d, true
		}
	}
	return -1, 0, false
}

// increment is the weight added by a merge at perceptual distance dist and
// squared pixel distance geo. geo is clamped to 1 so that a merge at the same
// position earns the bonus of an adjacent pixel instead of dividing by zero.
func (e *Engine) increment(dist float64, geo int) uint64 {
	geo = max(geo, 1)
	colourTerm := math.Floor(e.cfg.ColourWeight * dist)
	proximityTerm := math.Floor(e.cfg.ProximityWeight / float64(geo))
	return uint64(colourTerm) + uint64(proximityTerm)
}

// Clusters returns a copy of the clusters in insertion order.
func (e *Engine) Clusters() []Cluster {
	out := make([]Cluster, len(e.clusters))
	copy(out, e.clusters)
	return out
}

// averageRGB averages each channel, rounding half up.
func averageRGB(a RGB, px [4]uint8) RGB {
	avg := func(x, y uint8) uint8 {
		return uint8(math.Floor((float64(x)+float64(y))/2 + 0.5))
	}
	return RGB{
		R: avg(a.R, px[0]),
		G: avg(a.G, px[1]),
		B: avg(a.B, px[2]),
	}
}
