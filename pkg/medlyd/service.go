package medlyd

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bitjungle/medlyd/pkg/fetch"
	"github.com/bitjungle/medlyd/pkg/ffmpeg"
	"github.com/bitjungle/medlyd/pkg/models"
)

// Service wires the fetcher and the muxer together: it localizes remote
// inputs, runs the single ffmpeg invocation, and moves the result into
// place.
type Service struct {
	Muxer   *ffmpeg.Muxer
	Fetcher *fetch.Fetcher

	// OutputDir holds temp downloads and, in API mode, the muxed files
	// served back to clients.
	OutputDir string

	cfg Config
}

// DefaultMusic returns the configured fallback music track, used by the
// API when a request names no track of its own.
func (s *Service) DefaultMusic() string {
	return s.cfg.MusicPath
}

// Run muxes the configured video and music paths into the configured
// output. This is the whole CLI behavior.
func (s *Service) Run() (*models.MuxResult, error) {
	return s.AddMusic(s.cfg.VideoPath, s.cfg.MusicPath, s.cfg.OutputPath)
}

// AddMusic merges videoPath with musicPath into outPath. Either input
// may be an http(s) URL, in which case it is downloaded first. ffmpeg
// writes to a temp file that is renamed over outPath only on success,
// so a failed run never touches an existing output.
func (s *Service) AddMusic(videoPath, musicPath, outPath string) (*models.MuxResult, error) {
	localVideo, cleanVideo, err := s.localize(videoPath, "Video", ".mp4")
	if err != nil {
		return nil, err
	}
	defer cleanVideo()

	localMusic, cleanMusic, err := s.localize(musicPath, "Audio", ".mp3")
	if err != nil {
		return nil, err
	}
	defer cleanMusic()

	absOut, err := filepath.Abs(outPath)
	if err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}

	// Same directory as the destination, so the rename is atomic.
	tmpOut := filepath.Join(filepath.Dir(absOut),
		fmt.Sprintf(".%s_tmp%s", uuid.NewString(), filepath.Ext(absOut)))

	slog.Debug("Starting ffmpeg muxing", "video", localVideo, "music", localMusic)
	if err := s.Muxer.Mux(localVideo, localMusic, tmpOut); err != nil {
		_ = os.Remove(tmpOut)
		return nil, fmt.Errorf("muxing failed: %w", err)
	}

	if err := os.Rename(tmpOut, absOut); err != nil {
		_ = os.Remove(tmpOut)
		return nil, fmt.Errorf("failed to move muxed file into place: %w", err)
	}

	res := &models.MuxResult{
		VideoPath:  videoPath,
		MusicPath:  musicPath,
		OutputPath: absOut,
	}

	if probe, perr := ffmpeg.ProbeFile(absOut); perr != nil {
		slog.Warn("Probe of muxed output failed", "err", perr)
	} else {
		res.DurationSec = probe.DurationSec
		res.SizeBytes = probe.SizeBytes
		res.VideoStreams = probe.VideoStreams
		res.AudioStreams = probe.AudioStreams
		slog.Debug("Muxed output probed",
			"duration_sec", probe.DurationSec,
			"size_bytes", probe.SizeBytes,
			"video_streams", probe.VideoStreams,
			"audio_streams", probe.AudioStreams)
	}

	return res, nil
}

// localize returns a local file path for input, downloading it into
// OutputDir first when it is a URL. The returned cleanup removes any
// temp download.
func (s *Service) localize(input, streamType, fallbackExt string) (string, func(), error) {
	if !fetch.IsRemote(input) {
		return input, func() {}, nil
	}

	ext := fallbackExt
	if u, err := url.Parse(input); err == nil {
		if e := filepath.Ext(u.Path); e != "" {
			ext = e
		}
	}

	dest := filepath.Join(s.OutputDir, fmt.Sprintf(".%s_dl_tmp%s", uuid.NewString(), ext))

	slog.Debug("Fetching remote input", "url", input, "dest", dest)
	if err := s.Fetcher.Fetch(input, dest, streamType); err != nil {
		return "", nil, fmt.Errorf("download failed: %w", err)
	}

	cleanup := func() {
		if rerr := os.Remove(dest); rerr != nil {
			slog.Error("Error removing temp download", "error", rerr)
		}
	}
	return dest, cleanup, nil
}
