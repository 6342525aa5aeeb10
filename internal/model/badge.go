package model

import "strings"

// Anchor is one of the six named placement positions on the poster.
type Anchor string

const (
	TopLeft      Anchor = "top-left"
	TopRight     Anchor = "top-right"
	TopCenter    Anchor = "top-center"
	BottomLeft   Anchor = "bottom-left"
	BottomRight  Anchor = "bottom-right"
	BottomCenter Anchor = "bottom-center"
)

// AllAnchors is the ordered list of valid anchors, for validation and docs.
var AllAnchors = []Anchor{
	TopLeft, TopRight, TopCenter,
	BottomLeft, BottomRight, BottomCenter,
}

// ParseAnchor maps a config string to an Anchor, falling back to the given
// default for anything unrecognized. Config mistakes should move a badge,
// not break a build.
func ParseAnchor(s string, fallback Anchor) Anchor {
	a := Anchor(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllAnchors {
		if a == known {
			return a
		}
	}
	return fallback
}

// Top reports whether the anchor sits along the top edge.
func (a Anchor) Top() bool {
	return a == TopLeft || a == TopRight || a == TopCenter
}

// Badge is a single (text, anchor) pair produced by content building.
// Text is never empty or whitespace-only — the builder filters those out
// before they reach layout.
type Badge struct {
	Text   string
	Anchor Anchor
}

// Rect is an integer pixel rectangle on the poster canvas.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// PlacedBadge is a Badge with its resolved rectangle. The rectangle always
// lies fully inside the image bounds (the layout engine clamps it).
type PlacedBadge struct {
	Badge
	Rect Rect
}

// FormatMode selects how the resolution badge renders its text.
type FormatMode string

const (
	FormatLetters FormatMode = "letters" // "UHD", "FHD", "HD", "SD"
	FormatNumbers FormatMode = "numbers" // "4K", "1080p", "720p", "480p"
	FormatBoth    FormatMode = "both"    // "4K UHD"
)

// ParseFormatMode maps a config string to a FormatMode, defaulting to Letters.
func ParseFormatMode(s string) FormatMode {
	switch FormatMode(strings.ToLower(strings.TrimSpace(s))) {
	case FormatNumbers:
		return FormatNumbers
	case FormatBoth:
		return FormatBoth
	default:
		return FormatLetters
	}
}
