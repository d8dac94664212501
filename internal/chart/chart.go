// Package chart maps numeric series to 2-D vector primitives. It knows
// nothing about any drawing backend: renderers consume the primitives and
// serialize them however their format requires.
package chart

// Point is a coordinate in the caller's pixel space.
type Point struct {
	X, Y float64
}

// Color is an opaque RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	ColorGrid   = Color{R: 0xD6, G: 0xDA, B: 0xE0}
	ColorAxis   = Color{R: 0x8A, G: 0x91, B: 0x9C}
	ColorText   = Color{R: 0x37, G: 0x3B, B: 0x42}
	ColorAccent = Color{R: 0x4F, G: 0x46, B: 0xE5}
)

// Bounds is the pixel rectangle a chart lays out into.
type Bounds struct {
	X, Y, W, H float64
}

type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Primitive is one drawable vector element.
type Primitive interface {
	primitive()
}

type Line struct {
	From, To Point
	Stroke   Color
	Width    float64
}

type Polyline struct {
	Points []Point
	Stroke Color
	Width  float64
}

// Polygon is a closed path. Filled is false for grid rings and outlines.
type Polygon struct {
	Points []Point
	Stroke Color
	Fill   Color
	Filled bool
}

type Circle struct {
	Center Point
	Radius float64
	Fill   Color
}

type Label struct {
	At     Point
	Text   string
	Size   float64
	Anchor Anchor
	Color  Color
}

func (Line) primitive()     {}
func (Polyline) primitive() {}
func (Polygon) primitive()  {}
func (Circle) primitive()   {}
func (Label) primitive()    {}

// DataPoint is one labeled value in a series.
type DataPoint struct {
	Label string
	Value float64
}

// Series is a named, colored sequence of points sharing one coordinate
// space with its siblings.
type Series struct {
	Name   string
	Color  Color
	Points []DataPoint
}
