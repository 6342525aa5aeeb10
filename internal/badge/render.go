package badge

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/bestopensors/posterbadge/internal/model"
)

// Badge colors are fixed: translucent dark fill, solid white text.
var (
	fillColor = color.NRGBA{R: 0, G: 0, B: 0, A: 178} // black at ~70% opacity
	textColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Render draws each placed badge onto the canvas in order: fill the rounded
// outline, then the single-line text at (rect.x+padding, rect.y+padding).
// A badge that fails to draw is reported and skipped — the rest still
// render, and the canvas stays usable. Mutates the canvas in place.
func Render(canvas *image.NRGBA, placed []model.PlacedBadge, face font.Face, padding, curvature int) []error {
	var failures []error
	for _, p := range placed {
		if err := renderOne(canvas, p, face, padding, curvature); err != nil {
			failures = append(failures, fmt.Errorf("badge %q: %w", p.Text, err))
		}
	}
	return failures
}

func renderOne(canvas *image.NRGBA, p model.PlacedBadge, face font.Face, padding, curvature int) (err error) {
	// The font drawer indexes glyph tables; a corrupt face surfaces as a
	// panic deep inside the rasterizer. Recovering here keeps one bad
	// badge from taking down the whole poster pass.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("drawing panicked: %v", r)
		}
	}()

	fillPolygon(canvas, Outline(p.Rect, curvature), fillColor)

	// Dot is the text baseline: box top + padding puts the cap height
	// inside the padded area, so add the ascent.
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot: fixed.P(
			p.Rect.X+padding,
			p.Rect.Y+padding+face.Metrics().Ascent.Ceil(),
		),
	}
	d.DrawString(p.Text)
	return nil
}

// fillPolygon rasterizes a closed polygon with anti-aliased coverage and
// composites it over the canvas. vector.Rasterizer works in local
// coordinates, so the path is drawn relative to its bounding box and the
// result is blitted at the right offset.
func fillPolygon(dst *image.NRGBA, pts []Point, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}

	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	x0, y0 := int(minX), int(minY)
	w := int(maxX) - x0 + 1
	h := int(maxY) - y0 + 1
	if w <= 0 || h <= 0 {
		return
	}

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	z.MoveTo(float32(pts[0].X-float64(x0)), float32(pts[0].Y-float64(y0)))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-float64(x0)), float32(p.Y-float64(y0)))
	}
	z.ClosePath()

	z.Draw(dst, image.Rect(x0, y0, x0+w, y0+h), image.NewUniform(c), image.Point{})
}

// EncodePNG serializes the finished canvas. PNG is the one output format —
// the host replaces the poster image wholesale.
func EncodePNG(canvas *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
