// Package badge implements the poster badge pipeline: deriving badge text
// from media facts, laying badges out on the poster, building their rounded
// outlines, and rasterizing the result.
package badge

import (
	"fmt"
	"math"
	"strings"

	"github.com/bestopensors/posterbadge/internal/config"
	"github.com/bestopensors/posterbadge/internal/model"
)

// BuildContent derives the ordered badge list for an item. The order here is
// also drawing precedence when categories share an anchor: quality, audio
// language flags, IMDb, Rotten Tomatoes, HDR, premium audio, custom tag last.
// Badges whose derived text is empty are dropped before they reach layout.
func BuildContent(facts model.MediaFacts, cfg config.BadgesConfig) []model.Badge {
	var badges []model.Badge

	add := func(text string, cat config.CategoryConfig, fallback model.Anchor) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		badges = append(badges, model.Badge{
			Text:   text,
			Anchor: model.ParseAnchor(cat.Anchor, fallback),
		})
	}

	if cfg.Quality.Enabled {
		text := ResolutionText(facts.ResolutionHeight, cfg.Show4K, cfg.ShowHD, model.ParseFormatMode(cfg.Format))
		add(text, cfg.Quality, model.TopLeft)
	}

	if cfg.AudioLanguage.Enabled {
		add(languageFlags(facts.AudioLanguages), cfg.AudioLanguage, model.BottomCenter)
	}

	if cfg.IMDb.Enabled {
		add(imdbText(facts), cfg.IMDb, model.BottomRight)
	}

	if cfg.RottenTomato.Enabled {
		add(rottenTomatoesText(facts), cfg.RottenTomato, model.BottomRight)
	}

	if cfg.HDR.Enabled {
		// The HDR signal's string value is the badge text; HDRNone is
		// empty and gets filtered by add.
		add(string(facts.HDR), cfg.HDR, model.TopRight)
	}

	if cfg.DolbyAtmos.Enabled && facts.HasDolbyAtmos {
		add("Dolby Atmos", cfg.DolbyAtmos, model.BottomLeft)
	}

	if cfg.DTSX.Enabled && facts.HasDTSX {
		add("DTS:X", cfg.DTSX, model.BottomLeft)
	}

	if cfg.CustomTag.Enabled {
		add(cfg.CustomTagText, cfg.CustomTag, model.TopCenter)
	}

	return badges
}

// ShouldSkip reports whether the item must be skipped before any image I/O:
// audio-language badges are on, the skip rule is on, and no language is known.
func ShouldSkip(facts model.MediaFacts, cfg config.BadgesConfig) bool {
	return cfg.AudioLanguage.Enabled && cfg.SkipNoAudioLanguage && len(facts.AudioLanguages) == 0
}

// ResolutionText buckets a pixel height into a quality tier and formats it
// per the configured mode. Height 0 (unknown) yields an empty string.
func ResolutionText(height int, show4K, showHD bool, mode model.FormatMode) string {
	var letter, number string
	switch {
	case height >= 2160 && show4K:
		letter, number = "UHD", "4K"
	case height >= 1080 && showHD:
		letter, number = "FHD", "1080p"
	case height >= 720 && showHD:
		letter, number = "HD", "720p"
	case height > 0:
		letter = "SD"
		switch {
		case height >= 576:
			number = "576p"
		case height >= 480:
			number = "480p"
		default:
			number = fmt.Sprintf("%dp", height)
		}
	}

	switch mode {
	case model.FormatNumbers:
		if number != "" {
			return number
		}
		return letter
	case model.FormatBoth:
		if number != "" && letter != "" {
			return number + " " + letter
		}
		if number != "" {
			return number
		}
		return letter
	default: // letters
		if letter != "" {
			return letter
		}
		return number
	}
}

// imdbText formats the IMDb badge, preferring the external rating source
// over the item's own community rating. Only positive values get a badge.
func imdbText(facts model.MediaFacts) string {
	value := 0.0
	if v, ok := facts.ExternalRating(model.SourceIMDb); ok {
		value = v
	} else if facts.CommunityRating != nil {
		value = *facts.CommunityRating
	}
	if value <= 0 {
		return ""
	}
	return fmt.Sprintf("IMDB %.1f", value)
}

// rottenTomatoesText formats the RT percentage badge. External values <= 1
// are read as 0–1 fractions, larger ones as literal percentages; without an
// external value the item's 0–10 critic rating is scaled by 10. The result
// is clamped to [0,100].
func rottenTomatoesText(facts model.MediaFacts) string {
	var pct float64
	if v, ok := facts.ExternalRating(model.SourceRottenTomatoes); ok {
		if v <= 1 {
			pct = v * 100
		} else {
			pct = v
		}
	} else if facts.CriticRating != nil {
		pct = *facts.CriticRating * 10
	}

	pct = math.Min(100, math.Max(0, pct))
	if pct <= 0 {
		return ""
	}
	return fmt.Sprintf("RT %d%%", int(math.Round(pct)))
}

// languageCountries maps ISO-639 codes (2- and 3-letter) to the country
// whose flag best represents the language. Unmapped codes fall back to
// upper-casing the first two letters — a best-effort country guess.
var languageCountries = map[string]string{
	"en": "US", "eng": "US",
	"fr": "FR", "fre": "FR", "fra": "FR",
	"de": "DE", "ger": "DE", "deu": "DE",
	"es": "ES", "spa": "ES",
	"it": "IT", "ita": "IT",
	"ja": "JP", "jpn": "JP",
	"zh": "CN", "chi": "CN", "zho": "CN",
	"ko": "KR", "kor": "KR",
	"ru": "RU", "rus": "RU",
	"pt": "PT", "por": "PT",
	"nl": "NL", "dut": "NL", "nld": "NL",
	"sv": "SE", "swe": "SE",
	"no": "NO", "nor": "NO",
	"da": "DK", "dan": "DK",
	"fi": "FI", "fin": "FI",
	"pl": "PL", "pol": "PL",
	"cs": "CZ", "cze": "CZ", "ces": "CZ",
	"hu": "HU", "hun": "HU",
	"tr": "TR", "tur": "TR",
	"ar": "SA", "ara": "SA",
	"he": "IL", "heb": "IL",
	"hi": "IN", "hin": "IN",
	"th": "TH", "tha": "TH",
	"vi": "VN", "vie": "VN",
	"uk": "UA", "ukr": "UA",
	"el": "GR", "gre": "GR", "ell": "GR",
	"ro": "RO", "rum": "RO", "ron": "RO",
}

// languageFlags renders up to four flag glyphs for the given language codes,
// deduplicated by country and joined with single spaces. Zero resolvable
// flags yields an empty string, which drops the badge.
func languageFlags(codes []string) string {
	const maxFlags = 4

	var glyphs []string
	seen := make(map[string]struct{})
	for _, code := range codes {
		country := countryForLanguage(code)
		if country == "" {
			continue
		}
		if _, ok := seen[country]; ok {
			continue
		}
		seen[country] = struct{}{}
		glyphs = append(glyphs, flagGlyph(country))
		if len(glyphs) == maxFlags {
			break
		}
	}
	return strings.Join(glyphs, " ")
}

func countryForLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if country, ok := languageCountries[code]; ok {
		return country
	}
	if len(code) >= 2 {
		return strings.ToUpper(code[:2])
	}
	return ""
}

// flagGlyph converts a two-letter country code into the Unicode flag emoji
// by shifting each letter into the regional-indicator block.
func flagGlyph(country string) string {
	var b strings.Builder
	for _, r := range country {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(0x1F1E6 + (r - 'A'))
		}
	}
	return b.String()
}
