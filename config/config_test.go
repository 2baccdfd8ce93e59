package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/savid/stream-tuner/internal/timecode"
	"github.com/savid/stream-tuner/internal/transcode"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New([]string{"-source", "/media/film.mkv"}, io.Discard)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if cfg.Quality != "medium" {
		t.Errorf("Expected quality 'medium', got %q", cfg.Quality)
	}
	if cfg.Profile != "tuned" {
		t.Errorf("Expected profile 'tuned', got %q", cfg.Profile)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.VideoCodec != "H264" {
		t.Errorf("Expected codec 'H264', got %q", cfg.VideoCodec)
	}

	defaults := cfg.StreamDefaults()
	if defaults.Width != 1280 || defaults.Height != 720 || defaults.FPS != 30 {
		t.Errorf("Unexpected stream defaults: %+v", defaults)
	}
}

func TestNewNormalizes(t *testing.T) {
	cfg, err := New([]string{
		"-source", "https://youtu.be/abc",
		"-quality", "HIGH",
		"-video-codec", "hevc",
		"-seek", "1:30",
		"-reload-interval", "1m",
	}, io.Discard)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if cfg.Quality != "high" {
		t.Errorf("Expected quality 'high', got %q", cfg.Quality)
	}
	if cfg.VideoCodec != "H265" {
		t.Errorf("Expected codec 'H265', got %q", cfg.VideoCodec)
	}
	if cfg.ReloadInterval != time.Minute {
		t.Errorf("Expected reload interval 1m, got %v", cfg.ReloadInterval)
	}
}

func TestNewServeWithoutSource(t *testing.T) {
	cfg, err := New([]string{"-serve", "-port", "9090"}, io.Discard)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !cfg.Serve || cfg.Port != 9090 {
		t.Errorf("Expected serve mode on port 9090, got serve=%v port=%d", cfg.Serve, cfg.Port)
	}
}

func TestNewUnknownFlag(t *testing.T) {
	if _, err := New([]string{"-nope"}, io.Discard); err == nil {
		t.Error("Expected error for unknown flag")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Source:         "movie.mp4",
			Quality:        "low",
			Profile:        "tuned",
			Width:          1280,
			Height:         720,
			FPS:            30,
			BitrateKbps:    1500,
			MaxBitrateKbps: 2500,
			VideoCodec:     "h264",
			Port:           8080,
			LogLevel:       "info",
		}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "missing source", modify: func(c *Config) { c.Source = "" }, want: ErrSourceRequired},
		{name: "bad quality", modify: func(c *Config) { c.Quality = "ultra" }, want: transcode.ErrUnknownQuality},
		{name: "bad seek", modify: func(c *Config) { c.Seek = "a:b:c" }, want: timecode.ErrInvalidFormat},
		{name: "negative seek", modify: func(c *Config) { c.Seek = "-30" }, want: timecode.ErrInvalidDuration},
		{name: "bad profile", modify: func(c *Config) { c.Profile = "fancy" }, want: ErrInvalidProfile},
		{name: "zero width", modify: func(c *Config) { c.Width = 0 }, want: ErrInvalidDimensions},
		{name: "zero fps", modify: func(c *Config) { c.FPS = 0 }, want: ErrInvalidRate},
		{name: "bad codec", modify: func(c *Config) { c.VideoCodec = "theora" }, want: transcode.ErrUnknownCodec},
		{name: "bad port", modify: func(c *Config) { c.Port = 70000 }, want: ErrInvalidPort},
		{name: "negative reload", modify: func(c *Config) { c.ReloadInterval = -time.Second }, want: ErrRefreshIntervalPositive},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "trace" }, want: ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Validate() on valid config returned %v", err)
	}
}

func TestNewHelp(t *testing.T) {
	var out bytes.Buffer

	_, err := New([]string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Expected flag.ErrHelp, got %v", err)
	}

	usage := out.String()
	for _, name := range []string{"-source", "-quality", "-seek", "-serve"} {
		if !strings.Contains(usage, name) {
			t.Errorf("Expected usage to list %s, got %q", name, usage)
		}
	}
}
