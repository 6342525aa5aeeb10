package badge

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// boldFontFiles is the ordered list of common bold sans-serif fonts to try.
// Paths cover the usual Linux font packages; the first readable, parseable
// file wins. When none are installed we fall back to the Go Bold face that
// ships embedded in the binary, so font resolution can never fail.
var boldFontFiles = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSansBold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/noto/NotoSans-Bold.ttf",
	"/usr/share/fonts/truetype/noto/NotoSans-Bold.ttf",
}

// FontResolver parses the badge font once and hands out measured faces per
// size. It is safe for concurrent use — parallel item processing shares a
// single resolver, and faces are memoized behind a mutex.
type FontResolver struct {
	mu     sync.Mutex
	parsed *sfnt.Font
	name   string
	faces  map[int]font.Face
}

// NewFontResolver locates the badge font. Extra candidate paths (e.g. from
// config) are tried before the built-in list.
func NewFontResolver(extraPaths ...string) (*FontResolver, error) {
	candidates := append(append([]string{}, extraPaths...), boldFontFiles...)

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			continue // present but unparseable: keep scanning
		}
		return &FontResolver{parsed: f, name: path, faces: make(map[int]font.Face)}, nil
	}

	// Guaranteed fallback: Go Bold, embedded via golang.org/x/image.
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		// gobold.TTF is a compile-time constant; this cannot happen.
		return nil, fmt.Errorf("parsing embedded fallback font: %w", err)
	}
	return &FontResolver{parsed: f, name: "Go Bold (embedded)", faces: make(map[int]font.Face)}, nil
}

// Name returns the resolved font's source, for logging.
func (r *FontResolver) Name() string { return r.name }

// Face returns a measured face at the given pixel size. Faces are cached:
// creating one walks the font's glyph tables, which is worth doing once per
// size, not once per badge.
func (r *FontResolver) Face(size int) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if face, ok := r.faces[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(r.parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %dpx face: %w", size, err)
	}
	r.faces[size] = face
	return face, nil
}

// LineHeight returns the face's line height in whole pixels — the height
// badge boxes are sized from.
func LineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}
