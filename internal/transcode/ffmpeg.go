package transcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/savid/stream-tuner/internal/timecode"
	"github.com/savid/stream-tuner/internal/types"
	"github.com/sirupsen/logrus"
)

var (
	// ErrSourceRequired is returned when a request has no video source.
	ErrSourceRequired = errors.New("video source is required")
	// ErrUnknownProfile is returned for an output profile the builder does not know.
	ErrUnknownProfile = errors.New("unknown output profile")
)

// OutputProfile selects which family of ffmpeg options the builder emits.
type OutputProfile string

const (
	// ProfileTuned derives rate control from the quality tier and source.
	ProfileTuned OutputProfile = "tuned"
	// ProfileStandard uses the preset table's fixed input and output options.
	ProfileStandard OutputProfile = "standard"
	// ProfileOptimized uses the aggressive low-CPU options.
	ProfileOptimized OutputProfile = "optimized"
)

// Request describes one argument list to build.
type Request struct {
	Source  string
	Quality types.QualityPreset
	Seek    string // time string, empty for no seek
	Profile OutputProfile
	Filters bool
	Output  string // defaults to pipe:1
}

// Result is a built argument list plus the settings it was derived from.
type Result struct {
	Args        []string            `json:"args"`
	Command     string              `json:"command"`
	Source      types.SourceType    `json:"source"`
	Quality     types.QualityPreset `json:"quality"`
	Profile     OutputProfile       `json:"profile"`
	SeekSeconds int                 `json:"seekSeconds"`
	Options     types.StreamOptions `json:"options"`
}

// Builder turns requests into ffmpeg argument lists.
type Builder struct {
	table    PresetTable
	mapper   *QualityMapper
	defaults types.StreamDefaults
	logger   *logrus.Logger
}

// NewBuilder creates a builder over a preset table and the configured stream defaults.
func NewBuilder(table PresetTable, defaults types.StreamDefaults, logger *logrus.Logger) *Builder {
	return &Builder{
		table:    table,
		mapper:   NewQualityMapper(table),
		defaults: defaults,
		logger:   logger,
	}
}

// Build constructs the full argument list for a request.
func (b *Builder) Build(req Request) (*Result, error) {
	if strings.TrimSpace(req.Source) == "" {
		return nil, ErrSourceRequired
	}

	if req.Quality == "" {
		req.Quality = types.QualityMedium
	}
	if req.Profile == "" {
		req.Profile = ProfileTuned
	}
	if req.Output == "" {
		req.Output = "pipe:1"
	}

	seek, err := parseSeek(req.Seek)
	if err != nil {
		return nil, err
	}

	opts, err := b.StreamOptions(req.Source, req.Quality)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "warning",
	}

	switch req.Profile {
	case ProfileStandard:
		args = append(args, InputOptions(b.table)...)
		if seek > 0 {
			args = append(args, "-ss", fmt.Sprint(seek))
		}
		args = append(args, "-i", req.Source)
	case ProfileTuned, ProfileOptimized:
		args = append(args, OptimizedInputArgs(req.Source, seek, opts.HardwareAcceleratedDecoding)...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, req.Profile)
	}

	if req.Filters {
		args = append(args, "-vf", VideoFilters(), "-af", AudioFilters())
	}

	switch {
	case req.Profile == ProfileStandard:
		args = append(args, OutputOptions(b.table)...)
	case req.Quality == types.QualityEmergency:
		args = append(args, emergencyOutputArgs(opts)...)
	case req.Profile == ProfileOptimized:
		args = append(args, OptimizedOutputArgs()...)
	default:
		args = append(args, b.tunedOutputArgs(opts)...)
	}

	args = append(args, req.Output)

	result := &Result{
		Args:        args,
		Command:     "ffmpeg " + JoinArgs(args),
		Source:      DetectSource(req.Source),
		Quality:     req.Quality,
		Profile:     req.Profile,
		SeekSeconds: seek,
		Options:     opts,
	}

	b.logger.WithFields(logrus.Fields{
		"source":  result.Source,
		"quality": result.Quality,
		"profile": result.Profile,
		"seek":    seek,
	}).Debug("Built ffmpeg arguments")

	return result, nil
}

// StreamOptions resolves the stream parameters for a source at a quality tier.
func (b *Builder) StreamOptions(videoSource string, quality types.QualityPreset) (types.StreamOptions, error) {
	if quality == types.QualityEmergency {
		return EmergencyStreamOptions(b.defaults), nil
	}

	preset, err := b.mapper.Preset(quality)
	if err != nil {
		return types.StreamOptions{}, err
	}
	source := b.mapper.SourceSettings(videoSource)

	opts := StreamOptionsForVideo(b.defaults, videoSource)
	opts.FrameRate = min(opts.FrameRate, preset.FrameRate, source.FrameRate)
	opts.BitrateVideo = min(opts.BitrateVideo, preset.BitrateVideo, source.BitrateVideo)
	opts.BitrateVideoMax = max(opts.BitrateVideoMax, opts.BitrateVideo)
	opts.MinimizeLatency = preset.MinimizeLatency || source.MinimizeLatency

	return opts, nil
}

// tunedOutputArgs builds codec and rate arguments from resolved stream options.
func (b *Builder) tunedOutputArgs(opts types.StreamOptions) []string {
	var args []string
	container := "mpegts"

	switch opts.VideoCodec {
	case "H265":
		args = append(args, "-c:v", "libx265", "-preset", opts.H26xPreset)
	case "VP8":
		args = append(args, "-c:v", "libvpx", "-deadline", "realtime")
		container = "matroska"
	case "VP9":
		args = append(args, "-c:v", "libvpx-vp9", "-deadline", "realtime")
		container = "matroska"
	case "AV1":
		args = append(args, "-c:v", "libsvtav1")
		container = "matroska"
	default:
		args = append(args, "-c:v", "libx264", "-preset", opts.H26xPreset, "-profile:v", "baseline")
	}

	if opts.MinimizeLatency && container == "mpegts" {
		args = append(args, "-tune", "zerolatency")
	}

	if opts.Width > 0 && opts.Height > 0 {
		args = append(args, "-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	}

	args = append(args,
		"-r", fmt.Sprint(opts.FrameRate),
		"-g", fmt.Sprint(max(opts.KeyframeInterval*opts.FrameRate, 1)),
		"-bf", "0",
		"-b:v", kbps(opts.BitrateVideo),
		"-maxrate", kbps(opts.BitrateVideoMax),
		"-bufsize", kbps(opts.BitrateVideoMax*2),
		"-pix_fmt", "yuv420p",

		"-c:a", "aac",
		"-b:a", kbps(opts.AudioBitrate),
		"-ar", fmt.Sprint(opts.AudioSampleRate),
		"-ac", fmt.Sprint(opts.AudioChannels),

		"-f", container,
		"-muxdelay", formatSeconds(b.table.MuxDelay),
		"-muxpreload", formatSeconds(b.table.MuxPreload),
		"-flush_packets", "1",
		"-max_muxing_queue_size", fmt.Sprint(opts.MaxMuxingQueueSize),
	)

	return args
}

// emergencyOutputArgs is the optimized output with rate and audio values taken
// from the emergency stream options.
func emergencyOutputArgs(opts types.StreamOptions) []string {
	args := OptimizedOutputArgs()
	args = setArg(args, "-maxrate", kbps(opts.BitrateVideoMax))
	args = setArg(args, "-bufsize", kbps(opts.BitrateVideoMax*2))
	args = setArg(args, "-b:a", kbps(opts.AudioBitrate))
	args = setArg(args, "-ac", fmt.Sprint(opts.AudioChannels))
	args = setArg(args, "-max_muxing_queue_size", fmt.Sprint(opts.MaxMuxingQueueSize))
	args = setArg(args, "-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	args = setArg(args, "-r", fmt.Sprint(opts.FrameRate))
	return setArg(args, "-b:v", kbps(opts.BitrateVideo))
}

// setArg replaces the value following flag, or appends flag and value if absent.
func setArg(args []string, flag, value string) []string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			args[i+1] = value
			return args
		}
	}
	return append(args, flag, value)
}

// parseSeek converts a seek time string into seconds. Negative seeks are rejected.
func parseSeek(seek string) (int, error) {
	if strings.TrimSpace(seek) == "" {
		return 0, nil
	}

	seconds, err := timecode.Parse(seek)
	if err != nil {
		return 0, fmt.Errorf("invalid seek time: %w", err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("invalid seek time: %w: %d seconds", timecode.ErrInvalidDuration, seconds)
	}

	return seconds, nil
}
