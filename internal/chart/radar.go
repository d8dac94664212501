package chart

import (
	"fmt"
	"math"
)

// AxisValue is one radar axis with its 0-100 value.
type AxisValue struct {
	Label string
	Value float64
}

// radarRings are the concentric grid polygons, as fractions of the radius.
var radarRings = []float64{0.25, 0.5, 0.75, 1.0}

// RadarChart lays out values on evenly spaced axes starting at the top and
// proceeding clockwise. Values map linearly along each axis radius, so a
// zero value sits exactly at the center. Empty input produces no
// primitives.
func RadarChart(axes []AxisValue, b Bounds) []Primitive {
	if len(axes) == 0 {
		return nil
	}

	center := Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
	radius := min(b.W, b.H)/2 - 2*labelSize

	angle := func(i int) float64 {
		// -90° is straight up; axes advance clockwise.
		return (-90 + float64(i)*360/float64(len(axes))) * math.Pi / 180
	}
	at := func(i int, r float64) Point {
		return Point{
			X: center.X + r*math.Cos(angle(i)),
			Y: center.Y + r*math.Sin(angle(i)),
		}
	}

	var prims []Primitive

	for _, ring := range radarRings {
		pts := make([]Point, len(axes))
		for i := range axes {
			pts[i] = at(i, radius*ring)
		}
		prims = append(prims, Polygon{Points: pts, Stroke: ColorGrid})
	}

	// Axis spokes and labels outside the max ring.
	for i, axis := range axes {
		prims = append(prims,
			Line{From: center, To: at(i, radius), Stroke: ColorGrid, Width: gridLineWidth},
			Label{
				At:     at(i, radius+labelSize),
				Text:   axis.Label,
				Size:   labelSize,
				Anchor: AnchorMiddle,
				Color:  ColorText,
			},
		)
	}

	// The data polygon is the closed path through all axis points.
	data := make([]Point, len(axes))
	for i, axis := range axes {
		data[i] = at(i, radius*clamp01(axis.Value/100))
	}
	prims = append(prims, Polygon{Points: data, Stroke: ColorAccent, Fill: ColorAccent, Filled: true})

	// Value labels just outside each data point.
	for i, axis := range axes {
		prims = append(prims,
			Circle{Center: data[i], Radius: pointRadius, Fill: ColorAccent},
			Label{
				At:     at(i, radius*clamp01(axis.Value/100)+labelSize*0.8),
				Text:   fmt.Sprintf("%.0f", axis.Value),
				Size:   labelSize,
				Anchor: AnchorMiddle,
				Color:  ColorAccent,
			},
		)
	}

	return prims
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
