package badge

import (
	"golang.org/x/image/font"

	"github.com/bestopensors/posterbadge/internal/model"
)

// Place computes a pixel rectangle for each badge on a W×H canvas. Each
// badge is placed independently at its anchor's base offset — badges that
// share an anchor overlap by design (drawing order decides what shows).
// Every rectangle is clamped fully inside the image, so an oversized badge
// pins to the near edge instead of overflowing.
func Place(w, h int, face font.Face, badges []model.Badge, padding int) []model.PlacedBadge {
	lineHeight := LineHeight(face)
	boxH := lineHeight + 2*padding

	placed := make([]model.PlacedBadge, 0, len(badges))
	for _, b := range badges {
		textW := font.MeasureString(face, b.Text).Ceil()
		boxW := textW + 2*padding

		var x, y int
		if b.Anchor.Top() {
			y = padding
		} else {
			y = h - boxH - padding
		}
		switch b.Anchor {
		case model.TopLeft, model.BottomLeft:
			x = padding
		case model.TopRight, model.BottomRight:
			x = w - boxW - padding
		default: // centers
			x = (w - boxW) / 2
			if x < padding {
				x = padding
			}
		}

		placed = append(placed, model.PlacedBadge{
			Badge: b,
			Rect:  clampRect(model.Rect{X: x, Y: y, Width: boxW, Height: boxH}, w, h),
		})
	}
	return placed
}

// clampRect forces a rectangle inside [0,w]×[0,h]. Width and height are
// capped to the canvas first so the position clamp cannot go negative.
func clampRect(r model.Rect, w, h int) model.Rect {
	if r.Width > w {
		r.Width = w
	}
	if r.Height > h {
		r.Height = h
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.Width > w {
		r.X = w - r.Width
	}
	if r.Y+r.Height > h {
		r.Y = h - r.Height
	}
	return r
}
