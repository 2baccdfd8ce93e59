package data

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/savid/stream-tuner/internal/transcode"
	"github.com/savid/stream-tuner/internal/types"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const builtinSource = "builtin"

var (
	// ErrInvalidPreset is returned when an override file contains an unusable preset.
	ErrInvalidPreset = errors.New("invalid preset override")
)

// overrideFile mirrors PresetTable with optional fields so partial files merge cleanly.
type overrideFile struct {
	BufferSize         *int     `yaml:"bufferSize"`
	MaxMuxingQueueSize *int     `yaml:"maxMuxingQueueSize"`
	AnalyzeDuration    *string  `yaml:"analyzeDuration"`
	ProbeSize          *string  `yaml:"probeSize"`
	MaxDelay           *int     `yaml:"maxDelay"`
	MuxDelay           *float64 `yaml:"muxDelay"`
	MuxPreload         *float64 `yaml:"muxPreload"`

	Presets        map[types.QualityPreset]types.PerformanceSettings `yaml:"presets"`
	SourceSettings map[types.SourceType]types.PerformanceSettings    `yaml:"sourceSettings"`
}

// Loader reads preset overrides from a YAML file and merges them onto the defaults.
type Loader struct {
	path   string
	logger *logrus.Logger
}

// NewLoader creates a loader. An empty path means built-in defaults only.
func NewLoader(path string, logger *logrus.Logger) *Loader {
	return &Loader{
		path:   path,
		logger: logger,
	}
}

// Source returns a name for where tables come from.
func (l *Loader) Source() string {
	if l.path == "" {
		return builtinSource
	}
	return l.path
}

// Load returns the default preset table with any overrides applied.
func (l *Loader) Load() (transcode.PresetTable, error) {
	table := transcode.DefaultPresetTable()
	if l.path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return transcode.PresetTable{}, fmt.Errorf("failed to read preset file: %w", err)
	}

	if err := Merge(&table, raw); err != nil {
		return transcode.PresetTable{}, err
	}

	l.logger.WithFields(logrus.Fields{
		"path":    l.path,
		"presets": len(table.Presets),
		"sources": len(table.SourceSettings),
	}).Debug("Loaded preset overrides")

	return table, nil
}

// Merge applies YAML overrides onto table. Presets and sources are replaced per key;
// keys are matched case-insensitively. Nil maps in table are created as needed.
func Merge(table *transcode.PresetTable, raw []byte) error {
	var file overrideFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse preset file: %w", err)
	}

	if file.BufferSize != nil {
		table.BufferSize = *file.BufferSize
	}
	if file.MaxMuxingQueueSize != nil {
		table.MaxMuxingQueueSize = *file.MaxMuxingQueueSize
	}
	if file.AnalyzeDuration != nil {
		table.AnalyzeDuration = *file.AnalyzeDuration
	}
	if file.ProbeSize != nil {
		table.ProbeSize = *file.ProbeSize
	}
	if file.MaxDelay != nil {
		table.MaxDelay = *file.MaxDelay
	}
	if file.MuxDelay != nil {
		table.MuxDelay = *file.MuxDelay
	}
	if file.MuxPreload != nil {
		table.MuxPreload = *file.MuxPreload
	}

	if table.Presets == nil {
		table.Presets = make(map[types.QualityPreset]types.PerformanceSettings)
	}
	if table.SourceSettings == nil {
		table.SourceSettings = make(map[types.SourceType]types.PerformanceSettings)
	}

	seenPresets := make(map[types.QualityPreset]bool, len(file.Presets))
	for key, settings := range file.Presets {
		quality, err := transcode.ParseQuality(string(key))
		if err != nil || quality == types.QualityEmergency {
			return fmt.Errorf("%w: quality %q", ErrInvalidPreset, key)
		}
		if seenPresets[quality] {
			return fmt.Errorf("%w: quality %s given more than once", ErrInvalidPreset, quality)
		}
		seenPresets[quality] = true
		if err := validateSettings(settings); err != nil {
			return fmt.Errorf("%w: quality %s: %w", ErrInvalidPreset, quality, err)
		}
		table.Presets[quality] = settings
	}

	seenSources := make(map[types.SourceType]bool, len(file.SourceSettings))
	for key, settings := range file.SourceSettings {
		source := types.SourceType(strings.ToLower(strings.TrimSpace(string(key))))
		switch source {
		case types.SourceYouTube, types.SourceTwitch, types.SourceLocal:
		default:
			return fmt.Errorf("%w: source %q", ErrInvalidPreset, key)
		}
		if seenSources[source] {
			return fmt.Errorf("%w: source %s given more than once", ErrInvalidPreset, source)
		}
		seenSources[source] = true
		if err := validateSettings(settings); err != nil {
			return fmt.Errorf("%w: source %s: %w", ErrInvalidPreset, source, err)
		}
		table.SourceSettings[source] = settings
	}

	return nil
}

func validateSettings(s types.PerformanceSettings) error {
	if s.FrameRate <= 0 {
		return fmt.Errorf("frameRate must be positive, got %d", s.FrameRate)
	}
	if s.BitrateVideo <= 0 {
		return fmt.Errorf("bitrateVideo must be positive, got %d", s.BitrateVideo)
	}
	return nil
}
