// Package config provides configuration management for the stream tuner.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/savid/stream-tuner/internal/timecode"
	"github.com/savid/stream-tuner/internal/transcode"
	"github.com/savid/stream-tuner/internal/types"
)

var (
	// ErrSourceRequired is returned when no video source is given outside serve mode.
	ErrSourceRequired = errors.New("video source is required unless -serve is set")
	// ErrInvalidPort is returned when port number is invalid.
	ErrInvalidPort = errors.New("invalid port number")
	// ErrRefreshIntervalPositive is returned when the reload interval is negative.
	ErrRefreshIntervalPositive = errors.New("reload interval must not be negative")
	// ErrInvalidLogLevel is returned when log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("width and height must be positive")
	// ErrInvalidRate is returned when a frame rate or bitrate is not positive.
	ErrInvalidRate = errors.New("frame rate and bitrates must be positive")
	// ErrInvalidProfile is returned when the output profile is unknown.
	ErrInvalidProfile = errors.New("invalid output profile")
)

// Config holds the application configuration.
type Config struct {
	Source  string
	Quality string
	Seek    string
	Profile string
	Output  string
	Filters bool

	Width                       int
	Height                      int
	FPS                         int
	BitrateKbps                 int
	MaxBitrateKbps              int
	VideoCodec                  string
	HardwareAcceleratedDecoding bool

	PresetsFile    string
	ReloadInterval time.Duration

	Serve    bool
	Port     int
	LogLevel string
}

// New creates a new configuration instance by parsing command-line flags.
// Usage and flag errors are written to output; -h returns flag.ErrHelp.
func New(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("stream-tuner", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.Source, "source", "", "Video URL or file path")
	fs.StringVar(&cfg.Quality, "quality", "medium", "Quality tier (low, medium, high, emergency)")
	fs.StringVar(&cfg.Seek, "seek", "", "Start position as HH:MM:SS, HH:MM, or SS")
	fs.StringVar(&cfg.Profile, "profile", "tuned", "Output profile (tuned, standard, optimized)")
	fs.StringVar(&cfg.Output, "output", "pipe:1", "ffmpeg output target")
	fs.BoolVar(&cfg.Filters, "filters", false, "Add the fast scaling and resampling filter chain")

	fs.IntVar(&cfg.Width, "width", 1280, "Output width")
	fs.IntVar(&cfg.Height, "height", 720, "Output height")
	fs.IntVar(&cfg.FPS, "fps", 30, "Output frame rate")
	fs.IntVar(&cfg.BitrateKbps, "bitrate", 1500, "Video bitrate in kbps")
	fs.IntVar(&cfg.MaxBitrateKbps, "max-bitrate", 2500, "Maximum video bitrate in kbps")
	fs.StringVar(&cfg.VideoCodec, "video-codec", "H264", "Video codec (H264, H265, VP8, VP9, AV1)")
	fs.BoolVar(&cfg.HardwareAcceleratedDecoding, "hw-decode", false, "Enable hardware accelerated decoding")

	fs.StringVar(&cfg.PresetsFile, "presets", "", "YAML file with preset overrides")
	fs.DurationVar(&cfg.ReloadInterval, "reload-interval", 0, "Interval between preset file reloads (0 disables)")

	fs.BoolVar(&cfg.Serve, "serve", false, "Run the HTTP API instead of printing arguments")
	fs.IntVar(&cfg.Port, "port", 8080, "Port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid and normalizes codec and quality names.
func (c *Config) Validate() error {
	if !c.Serve && c.Source == "" {
		return ErrSourceRequired
	}

	quality, err := transcode.ParseQuality(c.Quality)
	if err != nil {
		return err
	}
	c.Quality = string(quality)

	if c.Seek != "" {
		seconds, err := timecode.Parse(c.Seek)
		if err != nil {
			return fmt.Errorf("invalid seek: %w", err)
		}
		if seconds < 0 {
			return fmt.Errorf("invalid seek: %w: %d seconds", timecode.ErrInvalidDuration, seconds)
		}
	}

	switch transcode.OutputProfile(c.Profile) {
	case transcode.ProfileTuned, transcode.ProfileStandard, transcode.ProfileOptimized:
	default:
		return fmt.Errorf("%w: %s (must be tuned, standard, or optimized)", ErrInvalidProfile, c.Profile)
	}

	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}

	if c.FPS <= 0 || c.BitrateKbps <= 0 || c.MaxBitrateKbps <= 0 {
		return fmt.Errorf("%w: fps=%d bitrate=%d max-bitrate=%d", ErrInvalidRate, c.FPS, c.BitrateKbps, c.MaxBitrateKbps)
	}

	codec, err := transcode.NormalizeVideoCodec(c.VideoCodec)
	if err != nil {
		return err
	}
	c.VideoCodec = codec

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	if c.ReloadInterval < 0 {
		return ErrRefreshIntervalPositive
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %s (must be debug, info, warn, or error)", ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// StreamDefaults returns the configured stream parameters presets are applied to.
func (c *Config) StreamDefaults() types.StreamDefaults {
	return types.StreamDefaults{
		Width:                       c.Width,
		Height:                      c.Height,
		FPS:                         c.FPS,
		BitrateKbps:                 c.BitrateKbps,
		MaxBitrateKbps:              c.MaxBitrateKbps,
		VideoCodec:                  c.VideoCodec,
		HardwareAcceleratedDecoding: c.HardwareAcceleratedDecoding,
	}
}
