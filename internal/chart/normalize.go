// Package chart renders metric buffers as terminal line charts.
package chart

import "math"

// Point is a chart coordinate; both axes are in [0, 100].
type Point struct {
	X float64
	Y float64
}

// Bounds returns the observed min and max of values.
func Bounds(values []float64) (minVal, maxVal float64) {
	if len(values) == 0 {
		return 0, 0
	}
	minVal, maxVal = values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// Normalize maps a buffer onto [0,100]×[0,100] using the buffer's own
// min/max. A flat buffer sits at 50; a single point sits at x = 0.
func Normalize(values []float64) []Point {
	if len(values) == 0 {
		return nil
	}
	minVal, maxVal := Bounds(values)
	span := maxVal - minVal
	points := make([]Point, len(values))
	for i, v := range values {
		x := 0.0
		if len(values) > 1 {
			x = float64(i) / float64(len(values)-1) * 100
		}
		y := 50.0
		if math.Abs(span) > 1e-9 {
			y = (v - minVal) / span * 100
		}
		points[i] = Point{X: x, Y: y}
	}
	return points
}
