package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing normalized coordinates.
// Positions closer than Epsilon are considered equal.
const Epsilon = 1e-6

// Rect is an axis-aligned rectangle in normalized container units.
// The origin is the top-left corner and y grows downward.
type Rect struct {
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// Unit is the root container rectangle {0, 0, 1, 1}.
var Unit = Rect{X: 0, Y: 0, Width: 1, Height: 1}

// R is shorthand for constructing a Rect.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Start returns the leading edge of r along a.
func (r Rect) Start(a Axis) float64 {
	if a == Vertical {
		return r.Y
	}
	return r.X
}

// End returns the trailing edge of r along a.
func (r Rect) End(a Axis) float64 { return r.Start(a) + r.Extent(a) }

// Extent returns the size of r along a.
func (r Rect) Extent(a Axis) float64 {
	if a == Vertical {
		return r.Height
	}
	return r.Width
}

// WithSpan returns a copy of r whose interval along a is [start, start+extent].
// The cross-axis position and size are unchanged.
func (r Rect) WithSpan(a Axis, start, extent float64) Rect {
	if a == Vertical {
		r.Y, r.Height = start, extent
	} else {
		r.X, r.Width = start, extent
	}
	return r
}

// Degenerate reports whether r has no usable area.
func (r Rect) Degenerate() bool {
	return r.Width <= Epsilon || r.Height <= Epsilon
}

// Valid reports whether r has non-negative dimensions and finite fields.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}

// Contains reports whether o lies inside r, allowing Epsilon of drift on
// every edge.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X-Epsilon && o.Y >= r.Y-Epsilon &&
		o.Right() <= r.Right()+Epsilon && o.Bottom() <= r.Bottom()+Epsilon
}

// Overlaps reports whether the interiors of r and o intersect by more than
// Epsilon on both axes.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right()-Epsilon && o.X < r.Right()-Epsilon &&
		r.Y < o.Bottom()-Epsilon && o.Y < r.Bottom()-Epsilon
}

// ApproxEqual reports whether every field of r and o differs by at most
// Epsilon.
func (r Rect) ApproxEqual(o Rect) bool {
	return Near(r.X, o.X) && Near(r.Y, o.Y) &&
		Near(r.Width, o.Width) && Near(r.Height, o.Height)
}

// Remap maps r from the coordinate frame of from onto the frame of to. It is
// the affine transform that carries from onto to, applied to r. A degenerate
// from collapses r onto the origin of to along that axis.
func (r Rect) Remap(from, to Rect) Rect {
	sx, sy := 0.0, 0.0
	if from.Width > 0 {
		sx = to.Width / from.Width
	}
	if from.Height > 0 {
		sy = to.Height / from.Height
	}
	return Rect{
		X:      to.X + (r.X-from.X)*sx,
		Y:      to.Y + (r.Y-from.Y)*sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}
}

// Scale multiplies every field of r by the given factors. It is used to map
// normalized rectangles onto a pixel viewport.
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{X: r.X * sx, Y: r.Y * sy, Width: r.Width * sx, Height: r.Height * sy}
}

func (r Rect) String() string {
	return fmt.Sprintf("{x:%.4g y:%.4g w:%.4g h:%.4g}", r.X, r.Y, r.Width, r.Height)
}

// Near reports whether a and b differ by at most Epsilon.
func Near(a, b float64) bool { return math.Abs(a-b) <= Epsilon }
