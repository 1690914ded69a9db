package ffmpeg

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFFmpeg mimics the invocation contract: every path following -i
// must exist, the final argument is the output file.
const fakeFFmpeg = `#!/bin/sh
prev=""
out=""
for a in "$@"; do
  if [ "$prev" = "-i" ] && [ ! -f "$a" ]; then
    echo "missing input: $a" >&2
    exit 1
  fi
  prev="$a"
  out="$a"
done
printf 'muxed' > "$out"
`

func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestArgsOrder(t *testing.T) {
	m := &Muxer{BinaryPath: "ffmpeg"}
	args := m.Args("in.mp4", "music.mp3", "out.mp4")

	require.NotEmpty(t, args)
	assert.Equal(t, "out.mp4", args[len(args)-1], "output path must be the final argument")

	idx := func(pair ...string) int {
		for i := 0; i+len(pair) <= len(args); i++ {
			match := true
			for j, p := range pair {
				if args[i+j] != p {
					match = false
					break
				}
			}
			if match {
				return i
			}
		}
		return -1
	}

	video := idx("-i", "in.mp4")
	audio := idx("-i", "music.mp3")
	copyVideo := idx("-c:v", "copy")
	aac := idx("-c:a", "aac")
	strict := idx("-strict", "experimental")
	overwrite := idx("-y")

	require.NotEqual(t, -1, video, "input video flag missing")
	require.NotEqual(t, -1, audio, "input audio flag missing")
	require.NotEqual(t, -1, copyVideo, "copy video directive missing")
	require.NotEqual(t, -1, aac, "aac directive missing")
	require.NotEqual(t, -1, strict, "compatibility flag missing")
	require.NotEqual(t, -1, overwrite, "overwrite flag missing")

	assert.Less(t, video, audio)
	assert.Less(t, audio, copyVideo)
	assert.Less(t, copyVideo, aac)
	assert.Less(t, aac, strict)
	assert.Less(t, strict, overwrite)
	assert.Less(t, overwrite, len(args)-1)
}

func TestMuxCreatesOutput(t *testing.T) {
	bin := writeFakeBinary(t, fakeFFmpeg)
	dir := t.TempDir()

	video := filepath.Join(dir, "anim.mp4")
	music := filepath.Join(dir, "music.mp3")
	out := filepath.Join(dir, "anim_med_lyd.mp4")
	touch(t, video)
	touch(t, music)

	m := &Muxer{BinaryPath: bin, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	require.NoError(t, m.Mux(video, music, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "muxed", string(data))
}

func TestMuxMissingVideoInput(t *testing.T) {
	bin := writeFakeBinary(t, fakeFFmpeg)
	dir := t.TempDir()

	music := filepath.Join(dir, "music.mp3")
	out := filepath.Join(dir, "out.mp4")
	touch(t, music)

	var stderr bytes.Buffer
	m := &Muxer{BinaryPath: bin, Stdout: &bytes.Buffer{}, Stderr: &stderr}

	err := m.Mux(filepath.Join(dir, "nope.mp4"), music, out)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, stderr.String(), "missing input")
	assert.NoFileExists(t, out)
}

func TestMuxMissingAudioInput(t *testing.T) {
	bin := writeFakeBinary(t, fakeFFmpeg)
	dir := t.TempDir()

	video := filepath.Join(dir, "anim.mp4")
	out := filepath.Join(dir, "out.mp4")
	touch(t, video)

	m := &Muxer{BinaryPath: bin, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	err := m.Mux(video, filepath.Join(dir, "nope.mp3"), out)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.NoFileExists(t, out)
}

func TestMuxOverwritesExistingOutput(t *testing.T) {
	bin := writeFakeBinary(t, fakeFFmpeg)
	dir := t.TempDir()

	video := filepath.Join(dir, "anim.mp4")
	music := filepath.Join(dir, "music.mp3")
	out := filepath.Join(dir, "out.mp4")
	touch(t, video)
	touch(t, music)
	require.NoError(t, os.WriteFile(out, []byte("stale result"), 0644))

	m := &Muxer{BinaryPath: bin, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	require.NoError(t, m.Mux(video, music, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "muxed", string(data), "existing output must be overwritten, not appended to")
}

func TestExitCodePassthrough(t *testing.T) {
	bin := writeFakeBinary(t, "#!/bin/sh\nexit 42\n")

	m := &Muxer{BinaryPath: bin, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := m.Mux("a", "b", "c")
	require.Error(t, err)
	assert.Equal(t, 42, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("not an exec failure")))
}
