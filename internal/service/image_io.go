// Package service contains the core business logic for the poster badge
// pipeline.
package service

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/h2non/bimg"
)

// DecodePoster turns raw poster bytes in any common format (PNG, JPEG, WebP,
// …) into an NRGBA canvas the renderer can mutate. bimg (Go bindings for
// libvips) handles format detection and conversion; the stdlib PNG decoder
// then gives us pixel access, which libvips does not expose.
//
// maxWidth > 0 downscales wider posters before compositing — badge font
// sizes are tuned for poster-sized images, not 8K scans.
func DecodePoster(data []byte, maxWidth int) (*image.NRGBA, error) {
	img := bimg.NewImage(data)

	opts := bimg.Options{
		Type:           bimg.PNG,
		Interpretation: bimg.InterpretationSRGB,
	}

	if maxWidth > 0 {
		size, err := img.Size()
		if err != nil {
			return nil, fmt.Errorf("reading poster dimensions: %w", err)
		}
		if size.Width > maxWidth {
			opts.Width = maxWidth
			// Height 0 preserves aspect ratio.
		}
	}

	normalized, err := img.Process(opts)
	if err != nil {
		return nil, fmt.Errorf("normalizing poster to PNG: %w", err)
	}

	decoded, err := png.Decode(bytes.NewReader(normalized))
	if err != nil {
		return nil, fmt.Errorf("decoding normalized poster: %w", err)
	}

	// png.Decode may return NRGBA already; otherwise redraw into one.
	if canvas, ok := decoded.(*image.NRGBA); ok {
		return canvas, nil
	}
	canvas := image.NewNRGBA(decoded.Bounds())
	draw.Draw(canvas, canvas.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	return canvas, nil
}
