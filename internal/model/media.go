// Package model defines the core data types for the poster badge service.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."` and
// `db:"..."` annotations) tell serialization libraries how to map fields.
package model

// MediaKind tags the item variant used to pick the external-rating lookup key.
// Go doesn't have enums — we use typed constants with explicit values.
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindShow    MediaKind = "show"
	KindEpisode MediaKind = "episode"
)

// RatingsKind maps a media kind to the key the ratings API understands.
// Episodes are looked up under their parent show — the API has no
// per-episode ratings.
func (k MediaKind) RatingsKind() MediaKind {
	if k == KindEpisode {
		return KindShow
	}
	return k
}

// HDRSignal is the detected high-dynamic-range technology of an item.
// The string value doubles as the badge text, so detection and display
// can never drift apart. Empty string means no HDR detected.
type HDRSignal string

const (
	HDRNone     HDRSignal = ""
	HDRGeneric  HDRSignal = "HDR"
	HDRHLG      HDRSignal = "HLG"
	HDR10       HDRSignal = "HDR10"
	HDR10Plus   HDRSignal = "HDR10+"
	DolbyVision HDRSignal = "Dolby Vision"
)

// Rank orders HDR signals by preference: Dolby Vision > HDR10+ > HDR10 >
// HLG > generic HDR. Used by the extractor to avoid downgrading once a
// better signal was found on an earlier stream.
func (h HDRSignal) Rank() int {
	switch h {
	case DolbyVision:
		return 5
	case HDR10Plus:
		return 4
	case HDR10:
		return 3
	case HDRHLG:
		return 2
	case HDRGeneric:
		return 1
	default:
		return 0
	}
}

// VideoStream is the slice of a probed video stream the extractor cares about.
type VideoStream struct {
	Height       int    `json:"height"`
	RangeType    string `json:"range_type"`
	DisplayTitle string `json:"display_title"`
}

// AudioStream is the slice of a probed audio stream the extractor cares about.
type AudioStream struct {
	Language string `json:"language"`
	Profile  string `json:"profile"`
}

// MediaItem is the per-item snapshot handed over by the host's library.
// Rating fields are pointers because "no rating" and "rated 0" are
// different things — a nil pointer is Go's optional.
type MediaItem struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Kind            MediaKind     `json:"kind"`
	ExternalID      string        `json:"external_id"`
	Height          int           `json:"height"`
	CommunityRating *float64      `json:"community_rating,omitempty"`
	CriticRating    *float64      `json:"critic_rating,omitempty"`
	VideoStreams    []VideoStream `json:"video_streams,omitempty"`
	AudioStreams    []AudioStream `json:"audio_streams,omitempty"`
	PosterPath      string        `json:"poster_path"`
}

// External rating source names as the ratings API reports them.
const (
	SourceIMDb           = "imdb"
	SourceRottenTomatoes = "rotten_tomatoes"
	SourceTMDB           = "tmdb"
	SourceLetterboxd     = "letterboxd"
)

// MediaFacts is the typed, immutable result of fact extraction. Constructed
// fresh per badge build and never mutated afterwards. Zero values mean
// "unknown" — absence of data is a first-class value here, not an error.
type MediaFacts struct {
	ResolutionHeight int
	HDR              HDRSignal
	AudioLanguages   []string // stream order, deduplicated case-insensitively
	HasDolbyAtmos    bool
	HasDTSX          bool
	CommunityRating  *float64
	CriticRating     *float64 // 0–10 scale
	ExternalRatings  map[string]float64
}

// ExternalRating looks up a rating by source name, reporting presence
// separately so 0.0 can be distinguished from "not there".
func (f MediaFacts) ExternalRating(source string) (float64, bool) {
	v, ok := f.ExternalRatings[source]
	return v, ok
}
