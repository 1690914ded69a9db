package medlyd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitjungle/medlyd/pkg/client"
	"github.com/bitjungle/medlyd/pkg/fetch"
	"github.com/bitjungle/medlyd/pkg/ffmpeg"
	"github.com/bitjungle/medlyd/pkg/logger"
)

// Defaults mirror the fixed paths of the original animation pipeline:
// the renderer drops a silent anim.mp4 into anim/, and the muxed result
// lands next to it.
const (
	DefaultVideoPath  = "anim/anim.mp4"
	DefaultMusicPath  = "music/background.mp3"
	DefaultOutputPath = "anim/anim_med_lyd.mp4"
)

// Config represents the configuration for service initialization.
type Config struct {
	// VideoPath is the silent input video (defaults to anim/anim.mp4).
	// May be an http(s) URL.
	VideoPath string
	// MusicPath is the background music track (defaults to
	// music/background.mp3). May be an http(s) URL.
	MusicPath string
	// OutputPath is where the muxed file is written (defaults to
	// anim/anim_med_lyd.mp4).
	OutputPath string
	// FFmpegPath is the path to the ffmpeg executable (defaults to "ffmpeg").
	FFmpegPath string
	// Debug enables verbose logging.
	Debug bool
	// ShowProgress enables the console progress bar for remote inputs.
	ShowProgress bool
}

func (c *Config) applyDefaults() {
	if c.VideoPath == "" {
		c.VideoPath = DefaultVideoPath
	}
	if c.MusicPath == "" {
		c.MusicPath = DefaultMusicPath
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
}

// New creates a ready-to-use Service instance with all necessary dependencies.
func New(cfg Config) (*Service, error) {
	// Setup the logger (globally)
	logger.SetupGlobal(cfg.Debug, false)

	cfg.applyDefaults()

	absOut, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}
	cfg.OutputPath = absOut

	outDir := filepath.Dir(absOut)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	// Initialize the HTTP client
	httpClient, err := client.NewHttpClient()
	if err != nil {
		return nil, fmt.Errorf("failed to init http client: %w", err)
	}

	// Checking and downloading FFmpeg
	realFFmpegPath, err := ffmpeg.EnsureBinary(httpClient, cfg.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg check failed: %w", err)
	}

	return &Service{
		Muxer:   &ffmpeg.Muxer{BinaryPath: realFFmpegPath},
		Fetcher: &fetch.Fetcher{Client: httpClient, ShowProgress: cfg.ShowProgress},

		OutputDir: outDir,
		cfg:       cfg,
	}, nil
}
