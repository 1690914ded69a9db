package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Muxer merges a silent video file with an audio track by invoking an
// external ffmpeg binary. The video stream is copied verbatim, the audio
// is re-encoded to AAC using the native encoder in experimental mode.
type Muxer struct {
	BinaryPath string

	// Stdout and Stderr receive ffmpeg's own streams. When nil the
	// process streams are inherited, so a failing invocation reads
	// exactly like running ffmpeg by hand.
	Stdout io.Writer
	Stderr io.Writer
}

// Args builds the argument list for merging videoPath with audioPath
// into outPath. The output path is always the final argument, preceded
// by -y so an existing file is overwritten without prompting.
func (m *Muxer) Args(videoPath, audioPath, outPath string) []string {
	return []string{
		"-hide_banner",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-strict", "experimental",
		"-y",
		outPath,
	}
}

// Mux runs one synchronous ffmpeg invocation and waits for it to finish.
// Failures (missing inputs, codec negotiation, disk errors) are detected
// by ffmpeg alone; the returned error wraps its exit status unmodified,
// and all diagnostic text has already gone to the tool's stderr.
func (m *Muxer) Mux(videoPath, audioPath, outPath string) error {
	cmd := exec.Command(m.BinaryPath, m.Args(videoPath, audioPath, outPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = m.Stdout
	cmd.Stderr = m.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// ExitCode maps an error from Mux to the status this process should exit
// with: ffmpeg's own code when the tool ran and failed, 1 for anything
// that went wrong before it could run, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
