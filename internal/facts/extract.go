// Package facts turns an item's raw stream metadata into typed MediaFacts.
//
// Extraction never fails: a field that cannot be determined stays at its
// zero value ("unknown"), making the absent path a first-class value rather
// than an exception path. Each sub-step returns its own result and the
// aggregator does the defaulting.
package facts

import (
	"strings"

	"github.com/bestopensors/posterbadge/internal/model"
)

// Extract builds a fresh MediaFacts snapshot from an item. The snapshot is
// a value — callers may copy it freely, nothing is shared or cached.
func Extract(item model.MediaItem) model.MediaFacts {
	atmos, dtsx := premiumAudio(item.AudioStreams)
	return model.MediaFacts{
		ResolutionHeight: resolutionHeight(item),
		HDR:              hdrSignal(item.VideoStreams),
		AudioLanguages:   audioLanguages(item.AudioStreams),
		HasDolbyAtmos:    atmos,
		HasDTSX:          dtsx,
		CommunityRating:  item.CommunityRating,
		CriticRating:     item.CriticRating,
	}
}

// resolutionHeight prefers the item's own reported height; if that is unset
// it falls back to the first video stream with a positive height.
func resolutionHeight(item model.MediaItem) int {
	if item.Height > 0 {
		return item.Height
	}
	for _, s := range item.VideoStreams {
		if s.Height > 0 {
			return s.Height
		}
	}
	return 0
}

// hdrSignal scans all video streams and resolves the best HDR signal.
// Dolby Vision short-circuits the scan entirely; anything else accumulates
// best-so-far and never downgrades once set.
func hdrSignal(streams []model.VideoStream) model.HDRSignal {
	best := model.HDRNone
	for _, s := range streams {
		title := strings.ToLower(s.DisplayTitle)
		rangeType := strings.ToLower(s.RangeType)

		if strings.Contains(title, "dolby vision") {
			return model.DolbyVision
		}
		if strings.Contains(rangeType, "dovi") || strings.Contains(rangeType, "dolby") {
			return model.DolbyVision
		}

		if sig := classifyRange(rangeType); sig.Rank() > best.Rank() {
			best = sig
		}
	}
	return best
}

// classifyRange maps a single stream's range-type text to an HDR signal.
// Order matters: "hdr10+" contains "hdr10" contains "hdr".
func classifyRange(rangeType string) model.HDRSignal {
	switch {
	case strings.Contains(rangeType, "hdr10+"), strings.Contains(rangeType, "hdr10plus"):
		return model.HDR10Plus
	case strings.Contains(rangeType, "hdr10"):
		return model.HDR10
	case strings.Contains(rangeType, "hlg"):
		return model.HDRHLG
	case strings.Contains(rangeType, "hdr"):
		return model.HDRGeneric
	default:
		return model.HDRNone
	}
}

// audioLanguages collects non-empty language codes of length >= 2 in stream
// order, deduplicated case-insensitively while preserving first-seen casing.
func audioLanguages(streams []model.AudioStream) []string {
	var langs []string
	seen := make(map[string]struct{})
	for _, s := range streams {
		code := strings.TrimSpace(s.Language)
		if len(code) < 2 {
			continue
		}
		key := strings.ToLower(code)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		langs = append(langs, code)
	}
	return langs
}

// premiumAudio detects Dolby Atmos and DTS:X from audio profile text
// (case-insensitive substring match), stopping once both are found.
func premiumAudio(streams []model.AudioStream) (atmos, dtsx bool) {
	for _, s := range streams {
		profile := strings.ToLower(s.Profile)
		if strings.Contains(profile, "dolby atmos") {
			atmos = true
		}
		if strings.Contains(profile, "dts:x") {
			dtsx = true
		}
		if atmos && dtsx {
			break
		}
	}
	return atmos, dtsx
}
