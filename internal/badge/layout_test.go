package badge

import (
	"testing"

	"golang.org/x/image/font"

	"github.com/bestopensors/posterbadge/internal/model"
)

func testFace(t *testing.T) font.Face {
	t.Helper()
	r, err := NewFontResolver()
	if err != nil {
		t.Fatalf("resolving font: %v", err)
	}
	face, err := r.Face(20)
	if err != nil {
		t.Fatalf("creating face: %v", err)
	}
	return face
}

func TestPlace_Anchors(t *testing.T) {
	const w, h, padding = 1000, 1500, 10
	face := testFace(t)
	boxH := LineHeight(face) + 2*padding

	badges := []model.Badge{
		{Text: "UHD", Anchor: model.TopLeft},
		{Text: "UHD", Anchor: model.TopRight},
		{Text: "UHD", Anchor: model.TopCenter},
		{Text: "UHD", Anchor: model.BottomLeft},
		{Text: "UHD", Anchor: model.BottomRight},
		{Text: "UHD", Anchor: model.BottomCenter},
	}
	placed := Place(w, h, face, badges, padding)
	if len(placed) != len(badges) {
		t.Fatalf("expected %d placed badges, got %d", len(badges), len(placed))
	}

	for _, p := range placed {
		r := p.Rect
		switch p.Anchor {
		case model.TopLeft, model.TopRight, model.TopCenter:
			if r.Y != padding {
				t.Errorf("%s: y = %d, want %d", p.Anchor, r.Y, padding)
			}
		default:
			if r.Y != h-r.Height-padding {
				t.Errorf("%s: y = %d, want %d", p.Anchor, r.Y, h-r.Height-padding)
			}
		}
		switch p.Anchor {
		case model.TopLeft, model.BottomLeft:
			if r.X != padding {
				t.Errorf("%s: x = %d, want %d", p.Anchor, r.X, padding)
			}
		case model.TopRight, model.BottomRight:
			if r.X != w-r.Width-padding {
				t.Errorf("%s: x = %d, want %d", p.Anchor, r.X, w-r.Width-padding)
			}
		default:
			if r.X != (w-r.Width)/2 {
				t.Errorf("%s: x = %d, want centered %d", p.Anchor, r.X, (w-r.Width)/2)
			}
		}
		if r.Height != boxH {
			t.Errorf("%s: height = %d, want %d", p.Anchor, r.Height, boxH)
		}
	}
}

func TestPlace_BoxSizedFromText(t *testing.T) {
	const padding = 10
	face := testFace(t)

	placed := Place(1000, 1500, face, []model.Badge{
		{Text: "HD", Anchor: model.TopLeft},
		{Text: "Dolby Vision", Anchor: model.TopLeft},
	}, padding)

	short, long := placed[0].Rect, placed[1].Rect
	if long.Width <= short.Width {
		t.Errorf("longer text should get a wider box: %d vs %d", long.Width, short.Width)
	}
	wantShort := font.MeasureString(face, "HD").Ceil() + 2*padding
	if short.Width != wantShort {
		t.Errorf("box width = %d, want text width + 2*padding = %d", short.Width, wantShort)
	}
}

func TestPlace_ClampsOversizedBadge(t *testing.T) {
	// A 60px-wide canvas is narrower than the badge text: the rectangle
	// must pin to the near edge, never go negative or overflow.
	const w, h = 60, 90
	face := testFace(t)

	placed := Place(w, h, face, []model.Badge{
		{Text: "A VERY LONG BADGE TEXT", Anchor: model.TopRight},
	}, 10)

	r := placed[0].Rect
	if r.X < 0 || r.Y < 0 {
		t.Errorf("negative origin: (%d, %d)", r.X, r.Y)
	}
	if r.X+r.Width > w {
		t.Errorf("x overflow: %d + %d > %d", r.X, r.Width, w)
	}
	if r.Y+r.Height > h {
		t.Errorf("y overflow: %d + %d > %d", r.Y, r.Height, h)
	}
}

func TestPlace_SameAnchorOverlaps(t *testing.T) {
	// Badges sharing an anchor are each placed at the base offset — the
	// original behavior is overlap, not stacking.
	face := testFace(t)
	placed := Place(1000, 1500, face, []model.Badge{
		{Text: "HDR10", Anchor: model.TopLeft},
		{Text: "Dolby Atmos", Anchor: model.TopLeft},
	}, 10)

	a, b := placed[0].Rect, placed[1].Rect
	if a.X != b.X || a.Y != b.Y {
		t.Errorf("same-anchor badges should share an origin: %+v vs %+v", a, b)
	}
}
