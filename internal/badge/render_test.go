package badge

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/png" // register the PNG decoder for image.DecodeConfig
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/bestopensors/posterbadge/internal/model"
)

func testCanvas(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestRender_FillsBadgeArea(t *testing.T) {
	face := testFace(t)
	canvas := testCanvas(400, 600, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	placed := []model.PlacedBadge{{
		Badge: model.Badge{Text: "UHD", Anchor: model.TopLeft},
		Rect:  model.Rect{X: 10, Y: 10, Width: 100, Height: 40},
	}}
	if errs := Render(canvas, placed, face, 10, 0); len(errs) != 0 {
		t.Fatalf("render failures: %v", errs)
	}

	// The box center must be darker than the untouched background:
	// a 70% black fill over light grey.
	center := canvas.NRGBAAt(60, 30)
	if center.R >= 200 {
		t.Errorf("badge center not darkened: %+v", center)
	}

	// Far outside the badge the background is untouched.
	outside := canvas.NRGBAAt(300, 500)
	if outside != (color.NRGBA{R: 200, G: 200, B: 200, A: 255}) {
		t.Errorf("background modified outside badge: %+v", outside)
	}
}

func TestRender_SharpCornersWithZeroCurvature(t *testing.T) {
	face := testFace(t)
	canvas := testCanvas(400, 600, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	placed := []model.PlacedBadge{{
		Badge: model.Badge{Text: "HD", Anchor: model.TopLeft},
		Rect:  model.Rect{X: 50, Y: 50, Width: 80, Height: 40},
	}}
	if errs := Render(canvas, placed, face, 10, 0); len(errs) != 0 {
		t.Fatalf("render failures: %v", errs)
	}

	// With curvature 0 the rectangle corner pixel itself is filled.
	corner := canvas.NRGBAAt(51, 51)
	if corner.R >= 200 {
		t.Errorf("rectangle corner not filled: %+v", corner)
	}
}

func TestRender_RoundedCornersLeftUntouched(t *testing.T) {
	face := testFace(t)
	bg := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	canvas := testCanvas(400, 600, bg)

	placed := []model.PlacedBadge{{
		Badge: model.Badge{Text: "HD", Anchor: model.TopLeft},
		Rect:  model.Rect{X: 50, Y: 50, Width: 80, Height: 40},
	}}
	if errs := Render(canvas, placed, face, 10, 100); len(errs) != 0 {
		t.Fatalf("render failures: %v", errs)
	}

	// At 100% curvature the radius is 20px; the extreme corner pixel sits
	// well outside the arc and must keep the background color.
	corner := canvas.NRGBAAt(51, 51)
	if corner != bg {
		t.Errorf("rounded corner was filled: %+v", corner)
	}
	// The box center is still filled.
	center := canvas.NRGBAAt(90, 70)
	if center.R >= 200 {
		t.Errorf("pill center not filled: %+v", center)
	}
}

// brokenFace delegates metrics to a real face but panics on glyph lookup,
// the way a corrupt font file surfaces deep inside the rasterizer.
type brokenFace struct {
	font.Face
}

func (brokenFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	panic("glyph table out of range")
}

func TestRender_DrawPanicIsNonFatal(t *testing.T) {
	bg := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	canvas := testCanvas(400, 600, bg)

	placed := []model.PlacedBadge{{
		Badge: model.Badge{Text: "UHD", Anchor: model.TopLeft},
		Rect:  model.Rect{X: 10, Y: 10, Width: 100, Height: 40},
	}}

	errs := Render(canvas, placed, brokenFace{testFace(t)}, 10, 0)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one failure, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "UHD") {
		t.Errorf("failure should name the badge: %v", errs[0])
	}

	// The fill lands before the text draw, so the box is still darkened.
	center := canvas.NRGBAAt(60, 30)
	if center.R >= 200 {
		t.Errorf("badge fill missing after draw panic: %+v", center)
	}

	// The canvas stays usable: a later badge with a healthy face renders.
	more := []model.PlacedBadge{{
		Badge: model.Badge{Text: "HDR10", Anchor: model.BottomLeft},
		Rect:  model.Rect{X: 10, Y: 550, Width: 120, Height: 40},
	}}
	if errs := Render(canvas, more, testFace(t), 10, 0); len(errs) != 0 {
		t.Fatalf("render after recovered panic: %v", errs)
	}
	if second := canvas.NRGBAAt(60, 570); second.R >= 200 {
		t.Errorf("second badge not rendered: %+v", second)
	}
}

func TestRender_Deterministic(t *testing.T) {
	face := testFace(t)

	renderOnce := func() []byte {
		canvas := testCanvas(300, 450, color.NRGBA{R: 120, G: 60, B: 30, A: 255})
		placed := []model.PlacedBadge{
			{
				Badge: model.Badge{Text: "UHD", Anchor: model.TopLeft},
				Rect:  model.Rect{X: 10, Y: 10, Width: 90, Height: 40},
			},
			{
				Badge: model.Badge{Text: "RT 75%", Anchor: model.BottomRight},
				Rect:  model.Rect{X: 180, Y: 400, Width: 110, Height: 40},
			},
		}
		if errs := Render(canvas, placed, face, 10, 30); len(errs) != 0 {
			t.Fatalf("render failures: %v", errs)
		}
		data, err := EncodePNG(canvas)
		if err != nil {
			t.Fatalf("encoding: %v", err)
		}
		return data
	}

	first := renderOnce()
	second := renderOnce()
	if !bytes.Equal(first, second) {
		t.Error("rendering the same badges twice produced different bytes")
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	canvas := testCanvas(32, 48, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	data, err := EncodePNG(canvas)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	cfgImg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if cfgImg.Width != 32 || cfgImg.Height != 48 {
		t.Errorf("decoded size %dx%d, want 32x48", cfgImg.Width, cfgImg.Height)
	}
}
