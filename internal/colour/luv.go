// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Luv is a colour in CIE L*u*v* space (D65 white point).
// L is in the range [0, 100]; u and v use the same scale.
type Luv struct {
	L float64
	U float64
	V float64
}

// LuvFromRGB converts an 8-bit sRGB triple to Luv.
// The conversion goes through linear-light RGB and XYZ.
func LuvFromRGB(r, g, b uint8) Luv {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	lr, lg, lb := c.LinearRgb()
	x, y, z := colorful.LinearRgbToXyz(lr, lg, lb)
	l, u, v := colorful.XyzToLuv(x, y, z)

	// go-colorful works on a unit scale.
	return Luv{L: l * 100, U: u * 100, V: v * 100}
}

// HybridDistance returns the hybrid (HyAB) distance between two colours:
// the absolute lightness difference plus the Euclidean distance in the uv plane.
func (c Luv) HybridDistance(other Luv) float64 {
	du := c.U - other.U
	dv := c.V - other.V
	return math.Abs(c.L-other.L) + math.Sqrt(du*du+dv*dv)
}

// Midpoint returns the component-wise average of two colours.
func (c Luv) Midpoint(other Luv) Luv {
	return Luv{
		L: (c.L + other.L) / 2,
		U: (c.U + other.U) / 2,
		V: (c.V + other.V) / 2,
	}
}
