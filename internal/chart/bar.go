package chart

import "fmt"

const barGapRatio = 0.35

// BarChart maps categories to x slots and values to bar heights within the
// bounds. Bars share one linear 0-max scale. Empty input produces no
// primitives.
func BarChart(points []DataPoint, b Bounds, color Color) []Primitive {
	if len(points) == 0 {
		return nil
	}

	maxValue := 0.0
	for _, p := range points {
		maxValue = max(maxValue, p.Value)
	}
	if maxValue == 0 {
		maxValue = 1
	}

	plot := Bounds{
		X: b.X + linePad,
		Y: b.Y + linePad,
		W: b.W - 2*linePad,
		H: b.H - 2*linePad,
	}

	slot := plot.W / float64(len(points))
	barW := slot * (1 - barGapRatio)

	var prims []Primitive
	prims = append(prims, Line{
		From:   Point{X: plot.X, Y: plot.Y + plot.H},
		To:     Point{X: plot.X + plot.W, Y: plot.Y + plot.H},
		Stroke: ColorAxis,
		Width:  gridLineWidth,
	})

	for i, p := range points {
		h := p.Value / maxValue * plot.H
		x := plot.X + float64(i)*slot + (slot-barW)/2
		y := plot.Y + plot.H - h

		prims = append(prims,
			Polygon{
				Points: []Point{
					{X: x, Y: y},
					{X: x + barW, Y: y},
					{X: x + barW, Y: plot.Y + plot.H},
					{X: x, Y: plot.Y + plot.H},
				},
				Stroke: color,
				Fill:   color,
				Filled: true,
			},
			Label{
				At:     Point{X: x + barW/2, Y: y - 2},
				Text:   fmt.Sprintf("%.0f", p.Value),
				Size:   labelSize,
				Anchor: AnchorMiddle,
				Color:  ColorText,
			},
			Label{
				At:     Point{X: x + barW/2, Y: plot.Y + plot.H + labelSize},
				Text:   p.Label,
				Size:   labelSize,
				Anchor: AnchorMiddle,
				Color:  ColorAxis,
			},
		)
	}

	return prims
}
