package facts

import (
	"reflect"
	"testing"

	"github.com/bestopensors/posterbadge/internal/model"
)

func TestResolutionHeight_PrefersItemHeight(t *testing.T) {
	item := model.MediaItem{
		Height:       2160,
		VideoStreams: []model.VideoStream{{Height: 1080}},
	}
	if got := Extract(item).ResolutionHeight; got != 2160 {
		t.Errorf("expected item height 2160, got %d", got)
	}
}

func TestResolutionHeight_FallsBackToStreams(t *testing.T) {
	item := model.MediaItem{
		VideoStreams: []model.VideoStream{{Height: 0}, {Height: 720}, {Height: 1080}},
	}
	// First stream with a positive height wins, not the largest.
	if got := Extract(item).ResolutionHeight; got != 720 {
		t.Errorf("expected first positive stream height 720, got %d", got)
	}
}

func TestResolutionHeight_Unknown(t *testing.T) {
	if got := Extract(model.MediaItem{}).ResolutionHeight; got != 0 {
		t.Errorf("expected 0 for no data, got %d", got)
	}
}

func TestHDRSignal(t *testing.T) {
	tests := []struct {
		name    string
		streams []model.VideoStream
		want    model.HDRSignal
	}{
		{"no streams", nil, model.HDRNone},
		{"sdr stream", []model.VideoStream{{RangeType: "SDR"}}, model.HDRNone},
		{"generic hdr", []model.VideoStream{{RangeType: "HDR"}}, model.HDRGeneric},
		{"hlg", []model.VideoStream{{RangeType: "HLG"}}, model.HDRHLG},
		{"hdr10", []model.VideoStream{{RangeType: "HDR10"}}, model.HDR10},
		{"hdr10 plus", []model.VideoStream{{RangeType: "HDR10Plus"}}, model.HDR10Plus},
		{
			"dolby vision via display title",
			[]model.VideoStream{{DisplayTitle: "4K Dolby Vision HEVC"}},
			model.DolbyVision,
		},
		{
			"dolby vision via range type",
			[]model.VideoStream{{RangeType: "DOVIWithHDR10"}},
			model.DolbyVision,
		},
		{
			"dolby keyword in range type",
			[]model.VideoStream{{RangeType: "Dolby Vision Profile 8"}},
			model.DolbyVision,
		},
		{
			"no downgrade across streams",
			[]model.VideoStream{{RangeType: "HDR10Plus"}, {RangeType: "HLG"}},
			model.HDR10Plus,
		},
		{
			"upgrade across streams",
			[]model.VideoStream{{RangeType: "HLG"}, {RangeType: "HDR10"}},
			model.HDR10,
		},
		{
			"dolby vision short-circuits later streams",
			[]model.VideoStream{{DisplayTitle: "Dolby Vision"}, {RangeType: "HDR10Plus"}},
			model.DolbyVision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(model.MediaItem{VideoStreams: tt.streams}).HDR
			if got != tt.want {
				t.Errorf("hdrSignal = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAudioLanguages(t *testing.T) {
	tests := []struct {
		name    string
		streams []model.AudioStream
		want    []string
	}{
		{"no streams", nil, nil},
		{
			"order preserved",
			[]model.AudioStream{{Language: "eng"}, {Language: "fre"}},
			[]string{"eng", "fre"},
		},
		{
			"case-insensitive dedup keeps first casing",
			[]model.AudioStream{{Language: "ENG"}, {Language: "eng"}, {Language: "ger"}},
			[]string{"ENG", "ger"},
		},
		{
			"short and empty codes dropped",
			[]model.AudioStream{{Language: "e"}, {Language: ""}, {Language: "  "}, {Language: "jpn"}},
			[]string{"jpn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(model.MediaItem{AudioStreams: tt.streams}).AudioLanguages
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("audioLanguages = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPremiumAudio(t *testing.T) {
	item := model.MediaItem{
		AudioStreams: []model.AudioStream{
			{Profile: "DTS-HD MA"},
			{Profile: "Dolby TrueHD + Dolby Atmos"},
			{Profile: "DTS:X"},
		},
	}
	f := Extract(item)
	if !f.HasDolbyAtmos {
		t.Error("expected Atmos to be detected")
	}
	if !f.HasDTSX {
		t.Error("expected DTS:X to be detected")
	}
}

func TestPremiumAudio_CaseInsensitive(t *testing.T) {
	item := model.MediaItem{
		AudioStreams: []model.AudioStream{{Profile: "DOLBY ATMOS"}},
	}
	f := Extract(item)
	if !f.HasDolbyAtmos {
		t.Error("expected case-insensitive Atmos match")
	}
	if f.HasDTSX {
		t.Error("did not expect DTS:X")
	}
}

func TestExtract_RatingsPassThrough(t *testing.T) {
	community := 6.0
	critic := 7.5
	item := model.MediaItem{CommunityRating: &community, CriticRating: &critic}
	f := Extract(item)
	if f.CommunityRating == nil || *f.CommunityRating != 6.0 {
		t.Errorf("community rating not carried over: %v", f.CommunityRating)
	}
	if f.CriticRating == nil || *f.CriticRating != 7.5 {
		t.Errorf("critic rating not carried over: %v", f.CriticRating)
	}
}
