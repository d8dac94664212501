package chart

import "fmt"

const (
	linePad       = 10.0
	labelSize     = 7.0
	legendRowH    = 10.0
	pointRadius   = 1.6
	gridLineWidth = 0.2
	lineWidth     = 0.8
)

// yGridValues are the fixed gridline candidates; only those inside the
// active value range are drawn.
var yGridValues = []float64{0, 25, 50, 75, 100}

// LineChart lays out N series into the bounds with a linear index-to-x and
// value-to-y mapping. Duplicate adjacent x labels are suppressed, and a
// legend row is emitted only when more than one series is present. An empty
// input produces no primitives.
func LineChart(series []Series, b Bounds) []Primitive {
	maxPoints := 0
	for _, s := range series {
		maxPoints = max(maxPoints, len(s.Points))
	}
	if maxPoints == 0 {
		return nil
	}

	plot := Bounds{
		X: b.X + linePad,
		Y: b.Y + linePad,
		W: b.W - 2*linePad,
		H: b.H - 2*linePad - legendHeight(series),
	}

	lo, hi := valueRange(series)

	var prims []Primitive

	// Horizontal gridlines with value labels on the left.
	for _, v := range yGridValues {
		if v < lo || v > hi {
			continue
		}
		y := mapY(v, lo, hi, plot)
		prims = append(prims,
			Line{
				From:   Point{X: plot.X, Y: y},
				To:     Point{X: plot.X + plot.W, Y: y},
				Stroke: ColorGrid,
				Width:  gridLineWidth,
			},
			Label{
				At:     Point{X: plot.X - 2, Y: y},
				Text:   fmt.Sprintf("%.0f", v),
				Size:   labelSize,
				Anchor: AnchorEnd,
				Color:  ColorAxis,
			},
		)
	}

	// X axis labels come from the longest series; adjacent duplicates
	// (multiple crawls on the same day) collapse to one label.
	longest := series[0]
	for _, s := range series {
		if len(s.Points) > len(longest.Points) {
			longest = s
		}
	}
	prev := ""
	for i, p := range longest.Points {
		if p.Label == prev {
			continue
		}
		prev = p.Label
		prims = append(prims, Label{
			At:     Point{X: mapX(i, maxPoints, plot), Y: plot.Y + plot.H + labelSize},
			Text:   p.Label,
			Size:   labelSize,
			Anchor: AnchorMiddle,
			Color:  ColorAxis,
		})
	}

	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}

		pts := make([]Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = Point{X: mapX(i, maxPoints, plot), Y: mapY(p.Value, lo, hi, plot)}
		}

		prims = append(prims, Polyline{Points: pts, Stroke: s.Color, Width: lineWidth})
		for _, pt := range pts {
			prims = append(prims, Circle{Center: pt, Radius: pointRadius, Fill: s.Color})
		}
	}

	if len(series) > 1 {
		prims = append(prims, legend(series, plot)...)
	}

	return prims
}

func legendHeight(series []Series) float64 {
	if len(series) > 1 {
		return legendRowH
	}
	return 0
}

func legend(series []Series, plot Bounds) []Primitive {
	var prims []Primitive
	x := plot.X
	y := plot.Y + plot.H + legendRowH + labelSize
	for _, s := range series {
		prims = append(prims,
			Circle{Center: Point{X: x, Y: y - labelSize/3}, Radius: 2, Fill: s.Color},
			Label{
				At:     Point{X: x + 4, Y: y},
				Text:   s.Name,
				Size:   labelSize,
				Anchor: AnchorStart,
				Color:  ColorText,
			},
		)
		x += 8 + float64(len(s.Name))*labelSize*0.6
	}
	return prims
}

// valueRange returns the gridline-aligned bounds enclosing every value.
func valueRange(series []Series) (lo, hi float64) {
	lo, hi = 100, 0
	for _, s := range series {
		for _, p := range s.Points {
			lo = min(lo, p.Value)
			hi = max(hi, p.Value)
		}
	}
	// Snap outward to the nearest fixed gridline.
	for i := len(yGridValues) - 1; i >= 0; i-- {
		if yGridValues[i] <= lo {
			lo = yGridValues[i]
			break
		}
	}
	for _, v := range yGridValues {
		if v >= hi {
			hi = v
			break
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func mapX(index, count int, plot Bounds) float64 {
	if count <= 1 {
		return plot.X + plot.W/2
	}
	return plot.X + float64(index)/float64(count-1)*plot.W
}

func mapY(value, lo, hi float64, plot Bounds) float64 {
	return plot.Y + plot.H - (value-lo)/(hi-lo)*plot.H
}
