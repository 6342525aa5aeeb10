package badge

import (
	"math"

	"github.com/bestopensors/posterbadge/internal/model"
)

// Point is a vertex of a badge outline, in canvas pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// arcSegments is how many straight segments approximate each quarter-circle
// corner. Eight keeps the largest chord error under half a pixel for any
// radius a poster badge can reach.
const arcSegments = 8

// Outline builds a closed rounded-rectangle polygon for a badge box.
// curvature is a 0–100 percentage: 0 emits the exact 4-corner rectangle,
// 100 rounds each corner to half the box's short side — on a near-square
// box the outline degenerates into a pill.
func Outline(r model.Rect, curvature int) []Point {
	x, y := float64(r.X), float64(r.Y)
	w, h := float64(r.Width), float64(r.Height)

	short := math.Min(w, h)
	radius := math.Min(float64(curvature)/100*short/2, short/2)

	if radius <= 0 {
		return []Point{
			{x, y},
			{x + w, y},
			{x + w, y + h},
			{x, y + h},
		}
	}

	// Walk the perimeter clockwise: each edge is inset by the radius on
	// both ends, each corner is a quarter arc in its own quadrant.
	pts := make([]Point, 0, 4+4*(arcSegments+1))
	pts = append(pts, Point{x + radius, y})
	pts = append(pts, Point{x + w - radius, y})
	pts = append(pts, arc(x+w-radius, y+radius, radius, -90, 0)...)
	pts = append(pts, Point{x + w, y + h - radius})
	pts = append(pts, arc(x+w-radius, y+h-radius, radius, 0, 90)...)
	pts = append(pts, Point{x + radius, y + h})
	pts = append(pts, arc(x+radius, y+h-radius, radius, 90, 180)...)
	pts = append(pts, Point{x, y + radius})
	pts = append(pts, arc(x+radius, y+radius, radius, 180, 270)...)
	return pts
}

// arc samples a quarter circle around (cx, cy) from startDeg to endDeg,
// returning arcSegments+1 points including both endpoints. Angles follow
// screen convention: 0° points right, positive sweeps clockwise (y down).
func arc(cx, cy, radius, startDeg, endDeg float64) []Point {
	pts := make([]Point, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		deg := startDeg + (endDeg-startDeg)*float64(i)/arcSegments
		rad := deg * math.Pi / 180
		pts = append(pts, Point{
			X: cx + radius*math.Cos(rad),
			Y: cy + radius*math.Sin(rad),
		})
	}
	return pts
}
