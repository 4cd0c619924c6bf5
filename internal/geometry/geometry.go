// Package geometry holds the small coordinate and sizing primitives shared
// by the layout pipeline and the PDF compiler. Everything is in points,
// top-left origin (y grows downward), matching UnifiedLayout's coordinate
// system; the PDF compiler is the only place that flips to PDF's
// bottom-left origin.
package geometry

// Point is a location in 2-D space, in points.
type Point struct {
	X, Y float64
}

// Size is a width/height pair, in points.
type Size struct {
	Width, Height float64
}

// Frame is an axis-aligned rectangle with top-left origin, in points.
type Frame struct {
	X, Y, Width, Height float64
}

// Right returns the x coordinate of the frame's right edge.
func (f Frame) Right() float64 { return f.X + f.Width }

// Bottom returns the y coordinate of the frame's bottom edge.
func (f Frame) Bottom() float64 { return f.Y + f.Height }

// Contains reports whether other is fully inside f, within epsilon.
func (f Frame) Contains(other Frame, epsilon float64) bool {
	return other.X >= f.X-epsilon &&
		other.Y >= f.Y-epsilon &&
		other.Right() <= f.Right()+epsilon &&
		other.Bottom() <= f.Bottom()+epsilon
}

// Margins is the four-sided inset of a page's content region.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// ContentRegion returns the frame remaining inside pageSize after margins,
// further trimmed by header/footer/footnote reservations on the vertical
// axis.
func ContentRegion(pageSize Size, m Margins, headerReserve, footerReserve float64) Frame {
	return Frame{
		X:      m.Left,
		Y:      m.Top + headerReserve,
		Width:  pageSize.Width - m.Left - m.Right,
		Height: pageSize.Height - m.Top - m.Bottom - headerReserve - footerReserve,
	}
}
