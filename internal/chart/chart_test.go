package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var testBounds = Bounds{X: 0, Y: 0, W: 170, H: 90}

func labels(prims []Primitive) []string {
	var texts []string
	for _, p := range prims {
		if l, ok := p.(Label); ok {
			texts = append(texts, l.Text)
		}
	}
	return texts
}

func TestEmptyInputsProduceNoPrimitives(t *testing.T) {
	require.Empty(t, LineChart(nil, testBounds))
	require.Empty(t, LineChart([]Series{{Name: "empty"}}, testBounds))
	require.Empty(t, RadarChart(nil, testBounds))
	require.Empty(t, BarChart(nil, testBounds, ColorAccent))
	require.Empty(t, PieChart(nil, testBounds))
	require.Empty(t, PieChart([]Slice{{Label: "zero", Value: 0}}, testBounds))
}

func TestLineChartGridlinesMatchValueRange(t *testing.T) {
	prims := LineChart([]Series{{
		Name:  "Overall",
		Color: ColorAccent,
		Points: []DataPoint{
			{Label: "Jan 1", Value: 60},
			{Label: "Jan 8", Value: 72},
		},
	}}, testBounds)

	// Range snaps outward to [50, 75]; only those two gridlines appear.
	var gridValues []string
	for _, p := range prims {
		if l, ok := p.(Label); ok && l.Anchor == AnchorEnd {
			gridValues = append(gridValues, l.Text)
		}
	}
	require.Equal(t, []string{"50", "75"}, gridValues)
}

func TestValueRangeSnapsToNearestGridlines(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		lo, hi float64
	}{
		{"mid-band", []float64{60, 72}, 50, 75},
		{"full-span", []float64{10, 95}, 0, 100},
		{"single band", []float64{26, 49}, 25, 50},
		{"on gridlines", []float64{25, 75}, 25, 75},
		{"flat series", []float64{50}, 50, 51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]DataPoint, len(tt.values))
			for i, v := range tt.values {
				points[i] = DataPoint{Label: "x", Value: v}
			}
			lo, hi := valueRange([]Series{{Points: points}})
			require.Equal(t, tt.lo, lo)
			require.Equal(t, tt.hi, hi)
		})
	}
}

func TestLineChartSuppressesDuplicateXLabels(t *testing.T) {
	prims := LineChart([]Series{{
		Name:  "Overall",
		Color: ColorAccent,
		Points: []DataPoint{
			{Label: "Jan 1", Value: 60},
			{Label: "Jan 1", Value: 65},
			{Label: "Jan 8", Value: 72},
		},
	}}, testBounds)

	texts := labels(prims)
	count := 0
	for _, text := range texts {
		if text == "Jan 1" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestLineChartLegendOnlyForMultipleSeries(t *testing.T) {
	single := LineChart([]Series{{
		Name:   "Overall",
		Color:  ColorAccent,
		Points: []DataPoint{{Label: "Jan 1", Value: 60}},
	}}, testBounds)
	require.NotContains(t, labels(single), "Overall")

	double := LineChart([]Series{
		{Name: "Overall", Color: ColorAccent, Points: []DataPoint{{Label: "Jan 1", Value: 60}}},
		{Name: "Technical", Color: ColorAxis, Points: []DataPoint{{Label: "Jan 1", Value: 70}}},
	}, testBounds)
	require.Contains(t, labels(double), "Overall")
	require.Contains(t, labels(double), "Technical")
}

func TestLineChartSinglePointCentersX(t *testing.T) {
	prims := LineChart([]Series{{
		Name:   "Overall",
		Color:  ColorAccent,
		Points: []DataPoint{{Label: "Jan 1", Value: 60}},
	}}, testBounds)

	for _, p := range prims {
		if c, ok := p.(Circle); ok {
			require.InDelta(t, testBounds.X+testBounds.W/2, c.Center.X, 1e-9)
		}
	}
}

func TestRadarChartZeroValueSitsAtCenter(t *testing.T) {
	prims := RadarChart([]AxisValue{
		{Label: "Technical", Value: 80},
		{Label: "Content", Value: 0},
		{Label: "AI Readiness", Value: 50},
	}, testBounds)
	require.NotEmpty(t, prims)

	center := Point{X: testBounds.X + testBounds.W/2, Y: testBounds.Y + testBounds.H/2}

	var data *Polygon
	for _, p := range prims {
		if poly, ok := p.(Polygon); ok && poly.Filled {
			data = &poly
			break
		}
	}
	require.NotNil(t, data)
	require.Len(t, data.Points, 3)
	require.InDelta(t, center.X, data.Points[1].X, 1e-9)
	require.InDelta(t, center.Y, data.Points[1].Y, 1e-9)
}

func TestRadarChartClampsOutOfRangeValues(t *testing.T) {
	prims := RadarChart([]AxisValue{
		{Label: "A", Value: 500},
		{Label: "B", Value: -10},
		{Label: "C", Value: 100},
	}, testBounds)

	radius := min(testBounds.W, testBounds.H)/2 - 2*labelSize
	center := Point{X: testBounds.X + testBounds.W/2, Y: testBounds.Y + testBounds.H/2}

	for _, p := range prims {
		poly, ok := p.(Polygon)
		if !ok || !poly.Filled {
			continue
		}
		for _, pt := range poly.Points {
			dist := math.Hypot(pt.X-center.X, pt.Y-center.Y)
			require.LessOrEqual(t, dist, radius+1e-9)
		}
	}
}

func TestRadarChartRingCount(t *testing.T) {
	prims := RadarChart([]AxisValue{
		{Label: "A", Value: 50},
		{Label: "B", Value: 50},
		{Label: "C", Value: 50},
	}, testBounds)

	rings := 0
	for _, p := range prims {
		if poly, ok := p.(Polygon); ok && !poly.Filled {
			rings++
		}
	}
	require.Equal(t, len(radarRings), rings)
}

func TestBarChartHeightsScaleToMax(t *testing.T) {
	prims := BarChart([]DataPoint{
		{Label: "critical", Value: 2},
		{Label: "warning", Value: 4},
	}, testBounds, ColorAccent)

	var bars []Polygon
	for _, p := range prims {
		if poly, ok := p.(Polygon); ok && poly.Filled {
			bars = append(bars, poly)
		}
	}
	require.Len(t, bars, 2)

	height := func(poly Polygon) float64 {
		top, bottom := poly.Points[0].Y, poly.Points[0].Y
		for _, pt := range poly.Points {
			top = min(top, pt.Y)
			bottom = max(bottom, pt.Y)
		}
		return bottom - top
	}
	require.InDelta(t, height(bars[1])/2, height(bars[0]), 1e-9)
}

func TestBarChartAllZeroValuesStillDraws(t *testing.T) {
	prims := BarChart([]DataPoint{{Label: "info", Value: 0}}, testBounds, ColorAccent)
	require.NotEmpty(t, prims)
	require.Contains(t, labels(prims), "info")
}

func TestPieChartSweepsAreProportional(t *testing.T) {
	prims := PieChart([]Slice{
		{Label: "critical", Value: 1, Color: ColorAccent},
		{Label: "warning", Value: 3, Color: ColorAxis},
		{Label: "skipped", Value: -2, Color: ColorGrid},
	}, testBounds)

	var sectors []Polygon
	for _, p := range prims {
		if poly, ok := p.(Polygon); ok {
			sectors = append(sectors, poly)
		}
	}
	require.Len(t, sectors, 2)

	// A 3x larger slice approximates its arc with roughly 3x the segments.
	require.Greater(t, len(sectors[1].Points), 2*len(sectors[0].Points))

	texts := labels(prims)
	require.Contains(t, texts, "critical (1)")
	require.Contains(t, texts, "warning (3)")
	require.NotContains(t, texts, "skipped (-2)")
}
