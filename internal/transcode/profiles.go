package transcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/savid/stream-tuner/internal/types"
)

const (
	presetUltrafast = "ultrafast"
	audioRate48k    = 48000
)

// InputOptions returns ffmpeg input options tuned by the preset table.
func InputOptions(table PresetTable) []string {
	return []string{
		"-re", // read input at native frame rate
		"-analyzeduration", table.AnalyzeDuration,
		"-probesize", table.ProbeSize,
		"-fflags", "+genpts",
		"-avoid_negative_ts", "make_zero",
		"-max_delay", strconv.Itoa(table.MaxDelay),
	}
}

// OutputOptions returns ffmpeg output options tuned by the preset table.
func OutputOptions(table PresetTable) []string {
	return []string{
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-tune", "zerolatency",
		"-profile:v", "baseline",
		"-level", "3.0",
		"-x264-params", "keyint=60:min-keyint=60:scenecut=0",
		"-g", "60",
		"-bf", "0",
		"-refs", "1",

		"-c:a", "aac",
		"-b:a", "128k",
		"-ar", "48000",
		"-ac", "2",

		"-f", "mpegts",
		"-muxdelay", formatSeconds(table.MuxDelay),
		"-muxpreload", formatSeconds(table.MuxPreload),
		"-flush_packets", "1",
		"-fflags", "+genpts",
		"-avoid_negative_ts", "make_zero",
		"-max_muxing_queue_size", strconv.Itoa(table.MaxMuxingQueueSize),
	}
}

// OptimizedInputArgs returns the low-latency input options followed by -i source.
// A positive seek is applied as an input option so ffmpeg seeks before decoding.
func OptimizedInputArgs(videoSource string, seekSeconds int, hwDecode bool) []string {
	args := []string{
		"-re",
		"-stream_loop", "-1",
		"-analyzeduration", "20M",
		"-probesize", "20M",
		"-fflags", "+genpts+discardcorrupt",
		"-avoid_negative_ts", "make_zero",
		"-max_delay", "100000",
		"-thread_queue_size", "512",
	}

	if hwDecode {
		args = append(args, "-hwaccel", "auto")
	}

	if seekSeconds > 0 {
		args = append(args, "-ss", strconv.Itoa(seekSeconds))
	}

	return append(args, "-i", videoSource)
}

// OptimizedInput is OptimizedInputArgs rendered as a single command-line fragment.
func OptimizedInput(videoSource string, seekSeconds int) string {
	return JoinArgs(OptimizedInputArgs(videoSource, seekSeconds, false))
}

// OptimizedOutputArgs returns aggressive low-CPU output options.
func OptimizedOutputArgs() []string {
	return []string{
		"-c:v", "libx264",
		"-preset", presetUltrafast,
		"-tune", "zerolatency",
		"-profile:v", "baseline",
		"-level", "3.0",
		"-x264-params", "keyint=30:min-keyint=30:scenecut=0:bframes=0:ref=1",
		"-g", "30",
		"-bf", "0",
		"-refs", "1",
		"-crf", "28",
		"-maxrate", "1200k",
		"-bufsize", "2400k",

		"-c:a", "aac",
		"-b:a", "96k",
		"-ar", "48000",
		"-ac", "2",

		"-f", "mpegts",
		"-muxdelay", "0.05",
		"-muxpreload", "0.05",
		"-flush_packets", "1",
		"-fflags", "+genpts",
		"-avoid_negative_ts", "make_zero",
		"-max_muxing_queue_size", "2048",
		"-threads", "2",
	}
}

// OptimizedOutput is OptimizedOutputArgs rendered as a single command-line fragment.
func OptimizedOutput() string {
	return JoinArgs(OptimizedOutputArgs())
}

// VideoFilters returns the fast scaling chain for -vf.
func VideoFilters() string {
	return strings.Join([]string{
		"scale=1280:720:flags=fast_bilinear",
		"fps=fps=24",
		"format=yuv420p",
	}, ",")
}

// AudioFilters returns the resampling chain for -af.
func AudioFilters() string {
	return strings.Join([]string{
		"aresample=48000:async=1000",
		"aformat=sample_fmts=fltp:sample_rates=48000:channel_layouts=stereo",
	}, ",")
}

// PerformanceFilters returns the video and audio chains as one comma-joined string.
// It is not a valid single filtergraph; pass VideoFilters and AudioFilters to ffmpeg.
func PerformanceFilters() string {
	return VideoFilters() + "," + AudioFilters()
}

// OptimizedStreamOptions caps the configured defaults for smoother playback.
func OptimizedStreamOptions(defaults types.StreamDefaults) types.StreamOptions {
	return types.StreamOptions{
		Width:                       defaults.Width,
		Height:                      defaults.Height,
		FrameRate:                   min(defaults.FPS, 24),
		BitrateVideo:                min(defaults.BitrateKbps, 1200),
		BitrateVideoMax:             min(defaults.MaxBitrateKbps, 1800),
		VideoCodec:                  defaults.VideoCodec,
		HardwareAcceleratedDecoding: defaults.HardwareAcceleratedDecoding,
		MinimizeLatency:             true,
		H26xPreset:                  presetUltrafast,
		AudioBitrate:                96,
		AudioChannels:               2,
		AudioSampleRate:             audioRate48k,
		KeyframeInterval:            1,
		BufferSize:                  8192,
		MaxMuxingQueueSize:          2048,
	}
}

// StreamOptionsForVideo applies per-source caps on top of OptimizedStreamOptions.
func StreamOptionsForVideo(defaults types.StreamDefaults, videoSource string) types.StreamOptions {
	opts := OptimizedStreamOptions(defaults)

	switch DetectSource(videoSource) {
	case types.SourceYouTube:
		opts.FrameRate = min(opts.FrameRate, 20)
		opts.BitrateVideo = min(opts.BitrateVideo, 800)
	case types.SourceTwitch:
		opts.FrameRate = min(opts.FrameRate, 24)
		opts.BitrateVideo = min(opts.BitrateVideo, 1000)
	default:
		opts.FrameRate = min(opts.FrameRate, 24)
		opts.BitrateVideo = min(opts.BitrateVideo, 1200)
	}
	opts.MinimizeLatency = true

	return opts
}

// EmergencyStreamOptions returns ultra-low settings for severe stuttering.
func EmergencyStreamOptions(defaults types.StreamDefaults) types.StreamOptions {
	return types.StreamOptions{
		Width:                       854,
		Height:                      480,
		FrameRate:                   15,
		BitrateVideo:                500,
		BitrateVideoMax:             800,
		VideoCodec:                  defaults.VideoCodec,
		HardwareAcceleratedDecoding: defaults.HardwareAcceleratedDecoding,
		MinimizeLatency:             true,
		H26xPreset:                  presetUltrafast,
		AudioBitrate:                64,
		AudioChannels:               1,
		AudioSampleRate:             audioRate48k,
		KeyframeInterval:            1,
		BufferSize:                  16384,
		MaxMuxingQueueSize:          4096,
	}
}

// JoinArgs renders an argument list as one line, quoting arguments that need it.
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'\\$&;|<>()*?") {
			quoted[i] = strconv.Quote(arg)
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func kbps(v int) string {
	return fmt.Sprintf("%dk", v)
}
