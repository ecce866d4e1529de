package types

import "fmt"

// Pos is a point in screen coordinates.
type Pos struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min, Max Pos
}

// NewRect returns the rectangle at (x, y) with size w x h.
func NewRect(x, y, w, h float32) Rect {
	return Rect{Min: Pos{X: x, Y: y}, Max: Pos{X: x + w, Y: y + h}}
}

// Width of the rectangle.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height of the rectangle.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// Expand grows the rectangle by amount on every side.
func (r Rect) Expand(amount float32) Rect {
	return Rect{
		Min: Pos{X: r.Min.X - amount, Y: r.Min.Y - amount},
		Max: Pos{X: r.Max.X + amount, Y: r.Max.Y + amount},
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(o.Min) && r.Contains(o.Max)
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Pos{X: min(r.Min.X, o.Min.X), Y: min(r.Min.Y, o.Min.Y)},
		Max: Pos{X: max(r.Max.X, o.Max.X), Y: max(r.Max.Y, o.Max.Y)},
	}
}

// Center of the rectangle.
func (r Rect) Center() Pos {
	return Pos{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g %g - %g %g]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
