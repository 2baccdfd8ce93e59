package transcode

import (
	"strings"
	"testing"

	"github.com/savid/stream-tuner/internal/types"
	"github.com/stretchr/testify/assert"
)

var testDefaults = types.StreamDefaults{
	Width:          1280,
	Height:         720,
	FPS:            30,
	BitrateKbps:    2000,
	MaxBitrateKbps: 2500,
	VideoCodec:     "H264",
}

func TestInputOptions(t *testing.T) {
	args := InputOptions(DefaultPresetTable())
	joined := strings.Join(args, " ")

	assert.Equal(t, "-re", args[0])
	assert.Contains(t, joined, "-analyzeduration 10M")
	assert.Contains(t, joined, "-probesize 10M")
	assert.Contains(t, joined, "-max_delay 500000")
}

func TestOutputOptions(t *testing.T) {
	joined := strings.Join(OutputOptions(DefaultPresetTable()), " ")

	assert.Contains(t, joined, "-c:v libx264 -preset veryfast -tune zerolatency")
	assert.Contains(t, joined, "-muxdelay 0.1 -muxpreload 0.1")
	assert.Contains(t, joined, "-max_muxing_queue_size 1024")
	assert.True(t, strings.HasSuffix(joined, "-max_muxing_queue_size 1024"))
}

func TestOptimizedInputArgs(t *testing.T) {
	args := OptimizedInputArgs("movie.mp4", 0, false)
	assert.Equal(t, []string{"-i", "movie.mp4"}, args[len(args)-2:])
	assert.NotContains(t, args, "-ss")
	assert.NotContains(t, args, "-hwaccel")

	args = OptimizedInputArgs("movie.mp4", 90, true)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-hwaccel auto")
	assert.Contains(t, joined, "-ss 90 -i movie.mp4")
}

func TestOptimizedInput(t *testing.T) {
	got := OptimizedInput("/media/my movie.mp4", 30)

	assert.True(t, strings.HasPrefix(got, "-re -stream_loop -1 -analyzeduration 20M"))
	assert.True(t, strings.HasSuffix(got, `-ss 30 -i "/media/my movie.mp4"`))
}

func TestOptimizedOutput(t *testing.T) {
	got := OptimizedOutput()

	assert.Contains(t, got, "-preset ultrafast")
	assert.Contains(t, got, "-crf 28 -maxrate 1200k -bufsize 2400k")
	assert.True(t, strings.HasSuffix(got, "-threads 2"))
}

func TestPerformanceFilters(t *testing.T) {
	got := PerformanceFilters()

	assert.Equal(t, 5, len(strings.Split(got, ",")))
	assert.True(t, strings.HasPrefix(got, "scale=1280:720:flags=fast_bilinear,fps=fps=24"))
	assert.Equal(t, VideoFilters()+","+AudioFilters(), got)
}

func TestSplitFilters(t *testing.T) {
	for _, f := range strings.Split(VideoFilters(), ",") {
		assert.False(t, strings.HasPrefix(f, "a"), "audio filter %q in video chain", f)
	}
	for _, f := range strings.Split(AudioFilters(), ",") {
		assert.True(t, strings.HasPrefix(f, "a"), "video filter %q in audio chain", f)
	}
}

func TestOptimizedStreamOptions(t *testing.T) {
	opts := OptimizedStreamOptions(testDefaults)

	assert.Equal(t, 24, opts.FrameRate)
	assert.Equal(t, 1200, opts.BitrateVideo)
	assert.Equal(t, 1800, opts.BitrateVideoMax)
	assert.Equal(t, "ultrafast", opts.H26xPreset)
	assert.Equal(t, 96, opts.AudioBitrate)
	assert.Equal(t, 8192, opts.BufferSize)

	low := testDefaults
	low.FPS = 15
	low.BitrateKbps = 700
	opts = OptimizedStreamOptions(low)
	assert.Equal(t, 15, opts.FrameRate)
	assert.Equal(t, 700, opts.BitrateVideo)
}

func TestStreamOptionsForVideo(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		frameRate int
		bitrate   int
	}{
		{name: "youtube", source: "https://youtube.com/watch?v=1", frameRate: 20, bitrate: 800},
		{name: "twitch", source: "https://twitch.tv/chan", frameRate: 24, bitrate: 1000},
		{name: "local", source: "/tmp/a.mkv", frameRate: 24, bitrate: 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := StreamOptionsForVideo(testDefaults, tt.source)
			assert.Equal(t, tt.frameRate, opts.FrameRate)
			assert.Equal(t, tt.bitrate, opts.BitrateVideo)
			assert.True(t, opts.MinimizeLatency)
		})
	}
}

func TestEmergencyStreamOptions(t *testing.T) {
	opts := EmergencyStreamOptions(testDefaults)

	assert.Equal(t, 854, opts.Width)
	assert.Equal(t, 480, opts.Height)
	assert.Equal(t, 15, opts.FrameRate)
	assert.Equal(t, 500, opts.BitrateVideo)
	assert.Equal(t, 1, opts.AudioChannels)
	assert.Equal(t, "H264", opts.VideoCodec)
}

func TestJoinArgs(t *testing.T) {
	got := JoinArgs([]string{"-i", "a b.mp4", "-x264-params", "keyint=30:ref=1", ""})
	assert.Equal(t, `-i "a b.mp4" -x264-params keyint=30:ref=1 ""`, got)
}
