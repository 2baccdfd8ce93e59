// Package types contains shared type definitions for the stream tuning system.
package types

// QualityPreset defines the quality tier used to pick stream settings.
type QualityPreset string

const (
	// QualityLow trades quality for minimal stuttering.
	QualityLow QualityPreset = "low"
	// QualityMedium balances quality and performance.
	QualityMedium QualityPreset = "medium"
	// QualityHigh favours quality and may stutter on weak links.
	QualityHigh QualityPreset = "high"
	// QualityEmergency is the ultra-low fallback for severe stuttering.
	QualityEmergency QualityPreset = "emergency"
)

// SourceType identifies where a video comes from.
type SourceType string

const (
	// SourceYouTube covers youtube.com and youtu.be links.
	SourceYouTube SourceType = "youtube"
	// SourceTwitch covers twitch.tv links.
	SourceTwitch SourceType = "twitch"
	// SourceLocal is anything else, usually a file path.
	SourceLocal SourceType = "local"
)

// PerformanceSettings is a quality preset or per-source override.
type PerformanceSettings struct {
	FrameRate       int    `json:"frameRate" yaml:"frameRate"`
	BitrateVideo    int    `json:"bitrateVideo" yaml:"bitrateVideo"` // in kbps
	MinimizeLatency bool   `json:"minimizeLatency" yaml:"minimizeLatency"`
	Description     string `json:"description" yaml:"description"`
}

// StreamDefaults are the operator-configured stream parameters that presets cap.
type StreamDefaults struct {
	Width                       int
	Height                      int
	FPS                         int
	BitrateKbps                 int
	MaxBitrateKbps              int
	VideoCodec                  string
	HardwareAcceleratedDecoding bool
}

// StreamOptions is the full parameter set handed to the streaming client.
type StreamOptions struct {
	Width                       int    `json:"width"`
	Height                      int    `json:"height"`
	FrameRate                   int    `json:"frameRate"`
	BitrateVideo                int    `json:"bitrateVideo"`    // in kbps
	BitrateVideoMax             int    `json:"bitrateVideoMax"` // in kbps
	VideoCodec                  string `json:"videoCodec"`
	HardwareAcceleratedDecoding bool   `json:"hardwareAcceleratedDecoding"`
	MinimizeLatency             bool   `json:"minimizeLatency"`
	H26xPreset                  string `json:"h26xPreset"`
	AudioBitrate                int    `json:"audioBitrate"` // in kbps
	AudioChannels               int    `json:"audioChannels"`
	AudioSampleRate             int    `json:"audioSampleRate"`
	KeyframeInterval            int    `json:"keyframeInterval"`
	BufferSize                  int    `json:"bufferSize"`
	MaxMuxingQueueSize          int    `json:"maxMuxingQueueSize"`
}
