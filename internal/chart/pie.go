package chart

import (
	"fmt"
	"math"
)

// arcStepDeg controls how finely pie arcs are approximated as polygon
// segments, keeping the primitive set backend-neutral.
const arcStepDeg = 6.0

// Slice is one pie slice.
type Slice struct {
	Label string
	Value float64
	Color Color
}

// PieChart maps slice values to arc-angle proportions of a full circle,
// stacked sequentially from the top. Slices with non-positive values are
// skipped; an empty or zero-total input produces no primitives.
func PieChart(slices []Slice, b Bounds) []Primitive {
	total := 0.0
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total == 0 {
		return nil
	}

	center := Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
	radius := min(b.W, b.H)/2 - 2*labelSize

	var prims []Primitive
	start := -90.0
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}

		sweep := s.Value / total * 360
		prims = append(prims, Polygon{
			Points: sector(center, radius, start, start+sweep),
			Stroke: s.Color,
			Fill:   s.Color,
			Filled: true,
		})

		mid := (start + start + sweep) / 2 * math.Pi / 180
		prims = append(prims, Label{
			At: Point{
				X: center.X + (radius+labelSize)*math.Cos(mid),
				Y: center.Y + (radius+labelSize)*math.Sin(mid),
			},
			Text:   fmt.Sprintf("%s (%.0f)", s.Label, s.Value),
			Size:   labelSize,
			Anchor: AnchorMiddle,
			Color:  ColorText,
		})

		start += sweep
	}

	return prims
}

// sector approximates a filled circle sector as a closed polygon.
func sector(center Point, radius, fromDeg, toDeg float64) []Point {
	pts := []Point{center}
	for deg := fromDeg; deg < toDeg; deg += arcStepDeg {
		pts = append(pts, onCircle(center, radius, deg))
	}
	pts = append(pts, onCircle(center, radius, toDeg))
	return pts
}

func onCircle(center Point, radius, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}
