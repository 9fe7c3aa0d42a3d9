package colour

import (
	"errors"
	"math"
	"testing"
)

func sampleAt(px [4]uint8, x, y int) Sample {
	return Sample{
		RGBA:   px,
		Colour: LuvFromRGB(px[0], px[1], px[2]),
		Pos:    Position{X: x, Y: y},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "coherence disabled", mutate: func(c *Config) { c.CoherenceThreshold = 0 }},
		{name: "zero stride", mutate: func(c *Config) { c.Stride = 0 }, wantErr: true},
		{name: "negative merge threshold", mutate: func(c *Config) { c.MergeThreshold = -1 }, wantErr: true},
		{name: "negative coherence threshold", mutate: func(c *Config) { c.CoherenceThreshold = -1 }, wantErr: true},
		{name: "negative weight", mutate: func(c *Config) { c.ProximityWeight = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestEngineNewCluster(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Observe(sampleAt([4]uint8{10, 20, 30, 128}, 3, 4))

	clusters := e.Clusters()
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	c := clusters[0]
	if c.Weight != 1 {
		t.Errorf("Weight = %d, want 1", c.Weight)
	}
	if c.RGB != (RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("RGB = %+v, want {10 20 30}", c.RGB)
	}
	if c.LastPos != (Position{X: 3, Y: 4}) {
		t.Errorf("LastPos = %+v, want {3 4}", c.LastPos)
	}
}

func TestEngineMerge(t *testing.T) {
	a := [4]uint8{100, 100, 100, 255}
	b := [4]uint8{103, 100, 100, 255}

	e := NewEngine(DefaultConfig())
	e.Observe(sampleAt(a, 0, 0))
	e.Observe(sampleAt(b, 2, 1))

	clusters := e.Clusters()
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	c := clusters[0]

	la := LuvFromRGB(a[0], a[1], a[2])
	lb := LuvFromRGB(b[0], b[1], b[2])
	// 1 + floor(100*d) + floor(100/5)
	wantWeight := 1 + uint64(math.Floor(100*lb.HybridDistance(la))) + 20
	if c.Weight != wantWeight {
		t.Errorf("Weight = %d, want %d", c.Weight, wantWeight)
	}
	if c.Colour != la.Midpoint(lb) {
		t.Errorf("Colour = %+v, want midpoint %+v", c.Colour, la.Midpoint(lb))
	}
	// (100+103)/2 = 101.5 rounds up.
	if c.RGB != (RGB{R: 102, G: 100, B: 100}) {
		t.Errorf("RGB = %+v, want {102 100 100}", c.RGB)
	}
	if c.LastPos != (Position{X: 2, Y: 1}) {
		t.Errorf("LastPos = %+v, want {2 1}", c.LastPos)
	}
}

func TestEngineFirstMatchWins(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.clusters = []Cluster{
		{Colour: Luv{L: 50}, Weight: 1},
		{Colour: Luv{L: 58}, Weight: 1},
	}

	// Closer to the second cluster, but within range of the first.
	e.Observe(Sample{Colour: Luv{L: 57}, Pos: Position{X: 10}})

	if e.clusters[0].Weight == 1 {
		t.Error("first cluster did not absorb the sample")
	}
	if e.clusters[1].Weight != 1 {
		t.Errorf("second cluster weight = %d, want 1", e.clusters[1].Weight)
	}
	if e.clusters[0].Colour.L != 53.5 {
		t.Errorf("first cluster L = %v, want 53.5", e.clusters[0].Colour.L)
	}
}

func TestEngineThresholdIsStrict(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.clusters = []Cluster{{Colour: Luv{L: 50}, Weight: 1}}

	e.Observe(Sample{Colour: Luv{L: 50 + DefaultMergeThreshold}, Pos: Position{X: 1}})

	if len(e.clusters) != 2 {
		t.Errorf("got %d clusters, want 2 (distance equal to the threshold must not merge)", len(e.clusters))
	}
}

func TestEngineSamePositionIsFinite(t *testing.T) {
	px := [4]uint8{40, 80, 160, 255}

	e := NewEngine(DefaultConfig())
	e.Observe(sampleAt(px, 5, 5))
	e.Observe(sampleAt(px, 5, 5))

	// Same colour, same position: the proximity bonus is that of an adjacent pixel.
	if got := e.Clusters()[0].Weight; got != 1+uint64(DefaultProximityWeight) {
		t.Errorf("Weight = %d, want %d", got, 1+uint64(DefaultProximityWeight))
	}
}

func TestEngineWeightIsMonotonic(t *testing.T) {
	e := NewEngine(DefaultConfig())
	px := [4]uint8{120, 60, 200, 255}
	e.Observe(sampleAt(px, 0, 0))

	prev := e.Clusters()[0].Weight
	for i := 1; i < 50; i++ {
		e.Observe(sampleAt(px, i*7, i*3))
		w := e.Clusters()[0].Weight
		if w < prev {
			t.Fatalf("weight decreased from %d to %d at step %d", prev, w, i)
		}
		prev = w
	}
}

func TestEngineClustersIsACopy(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Observe(sampleAt(red, 0, 0))

	got := e.Clusters()
	got[0].Weight = 999

	if e.Clusters()[0].Weight != 1 {
		t.Error("mutating Clusters() result changed engine state")
	}
}
