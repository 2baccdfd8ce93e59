// Package transcode builds stream settings and ffmpeg argument lists from quality presets.
package transcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/savid/stream-tuner/internal/types"
)

var (
	// ErrUnknownQuality is returned for a quality tier the preset table does not define.
	ErrUnknownQuality = errors.New("unknown quality preset")
	// ErrUnknownCodec is returned when a video codec name cannot be normalized.
	ErrUnknownCodec = errors.New("unknown video codec")
)

// PresetTable holds the network settings, quality presets and per-source overrides.
type PresetTable struct {
	BufferSize         int     `json:"bufferSize" yaml:"bufferSize"`
	MaxMuxingQueueSize int     `json:"maxMuxingQueueSize" yaml:"maxMuxingQueueSize"`
	AnalyzeDuration    string  `json:"analyzeDuration" yaml:"analyzeDuration"`
	ProbeSize          string  `json:"probeSize" yaml:"probeSize"`
	MaxDelay           int     `json:"maxDelay" yaml:"maxDelay"` // in microseconds
	MuxDelay           float64 `json:"muxDelay" yaml:"muxDelay"`
	MuxPreload         float64 `json:"muxPreload" yaml:"muxPreload"`

	Presets        map[types.QualityPreset]types.PerformanceSettings `json:"presets" yaml:"presets"`
	SourceSettings map[types.SourceType]types.PerformanceSettings    `json:"sourceSettings" yaml:"sourceSettings"`
}

// DefaultPresetTable returns the built-in preset table.
func DefaultPresetTable() PresetTable {
	return PresetTable{
		BufferSize:         4096,
		MaxMuxingQueueSize: 1024,
		AnalyzeDuration:    "10M",
		ProbeSize:          "10M",
		MaxDelay:           500000,
		MuxDelay:           0.1,
		MuxPreload:         0.1,
		Presets: map[types.QualityPreset]types.PerformanceSettings{
			types.QualityLow: {
				FrameRate:       24,
				BitrateVideo:    1000,
				MinimizeLatency: true,
				Description:     "Low quality, minimal stuttering",
			},
			types.QualityMedium: {
				FrameRate:       30,
				BitrateVideo:    1500,
				MinimizeLatency: true,
				Description:     "Balanced quality and performance",
			},
			types.QualityHigh: {
				FrameRate:       30,
				BitrateVideo:    2000,
				MinimizeLatency: false,
				Description:     "High quality, may have some stuttering",
			},
		},
		SourceSettings: map[types.SourceType]types.PerformanceSettings{
			types.SourceYouTube: {
				FrameRate:       24,
				BitrateVideo:    1500,
				MinimizeLatency: true,
				Description:     "YouTube videos often have variable frame rates",
			},
			types.SourceTwitch: {
				FrameRate:       30,
				BitrateVideo:    1800,
				MinimizeLatency: true,
				Description:     "Twitch streams are optimized for live content",
			},
			types.SourceLocal: {
				FrameRate:       30,
				BitrateVideo:    2000,
				MinimizeLatency: false,
				Description:     "Local files can handle higher quality",
			},
		},
	}
}

// DetectSource classifies a video URL or path by substring match.
func DetectSource(videoSource string) types.SourceType {
	switch {
	case strings.Contains(videoSource, "youtube.com"), strings.Contains(videoSource, "youtu.be"):
		return types.SourceYouTube
	case strings.Contains(videoSource, "twitch.tv"):
		return types.SourceTwitch
	default:
		return types.SourceLocal
	}
}

// QualityMapper maps quality tiers and video sources to performance settings.
type QualityMapper struct {
	table PresetTable
}

// NewQualityMapper creates a mapper over the given preset table.
func NewQualityMapper(table PresetTable) *QualityMapper {
	return &QualityMapper{table: table}
}

// Preset returns the settings for a quality tier.
func (q *QualityMapper) Preset(preset types.QualityPreset) (types.PerformanceSettings, error) {
	settings, ok := q.table.Presets[preset]
	if !ok {
		return types.PerformanceSettings{}, fmt.Errorf("%w: %s", ErrUnknownQuality, preset)
	}
	return settings, nil
}

// SourceSettings returns the per-source override for a video URL or path.
// Sources missing from the table fall back to the local settings.
func (q *QualityMapper) SourceSettings(videoSource string) types.PerformanceSettings {
	if settings, ok := q.table.SourceSettings[DetectSource(videoSource)]; ok {
		return settings
	}
	return q.table.SourceSettings[types.SourceLocal]
}

// ParseQuality converts a tier name into a QualityPreset.
func ParseQuality(name string) (types.QualityPreset, error) {
	preset := types.QualityPreset(strings.ToLower(strings.TrimSpace(name)))
	switch preset {
	case types.QualityLow, types.QualityMedium, types.QualityHigh, types.QualityEmergency:
		return preset, nil
	default:
		return "", fmt.Errorf("%w: %q (must be low, medium, high, or emergency)", ErrUnknownQuality, name)
	}
}

// NormalizeVideoCodec maps codec aliases to the names the streaming client expects.
func NormalizeVideoCodec(codec string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "h264", "avc", "x264", "libx264":
		return "H264", nil
	case "h265", "hevc", "x265", "libx265":
		return "H265", nil
	case "vp8":
		return "VP8", nil
	case "vp9":
		return "VP9", nil
	case "av1":
		return "AV1", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCodec, codec)
	}
}
