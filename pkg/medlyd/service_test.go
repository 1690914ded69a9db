package medlyd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitjungle/medlyd/pkg/fetch"
	"github.com/bitjungle/medlyd/pkg/ffmpeg"
)

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

func newTestService(t *testing.T, script string) *Service {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg scripts need a POSIX shell")
	}

	bin := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))

	return &Service{
		Muxer:     &ffmpeg.Muxer{BinaryPath: bin, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}},
		Fetcher:   &fetch.Fetcher{Client: http.DefaultClient},
		OutputDir: t.TempDir(),
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestAddMusicCreatesOutput(t *testing.T) {
	svc := newTestService(t, fakeFFmpeg)
	dir := svc.OutputDir

	video := filepath.Join(dir, "anim.mp4")
	music := filepath.Join(dir, "music.mp3")
	out := filepath.Join(dir, "anim_med_lyd.mp4")
	touch(t, video)
	touch(t, music)

	res, err := svc.AddMusic(video, music, out)
	require.NoError(t, err)

	assert.Equal(t, out, res.OutputPath)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "muxed", string(data))
}

func TestAddMusicFailureLeavesExistingOutput(t *testing.T) {
	svc := newTestService(t, "#!/bin/sh\nexit 3\n")
	dir := svc.OutputDir

	video := filepath.Join(dir, "anim.mp4")
	music := filepath.Join(dir, "music.mp3")
	out := filepath.Join(dir, "anim_med_lyd.mp4")
	touch(t, video)
	touch(t, music)
	require.NoError(t, os.WriteFile(out, []byte("previous result"), 0644))

	_, err := svc.AddMusic(video, music, out)
	require.Error(t, err)
	assert.Equal(t, 3, ffmpeg.ExitCode(err))

	data, rerr := os.ReadFile(out)
	require.NoError(t, rerr)
	assert.Equal(t, "previous result", string(data), "failed mux must not touch an existing output")
}

func TestAddMusicFailureCreatesNoOutput(t *testing.T) {
	svc := newTestService(t, fakeFFmpeg)
	dir := svc.OutputDir

	music := filepath.Join(dir, "music.mp3")
	out := filepath.Join(dir, "out.mp4")
	touch(t, music)

	_, err := svc.AddMusic(filepath.Join(dir, "missing.mp4"), music, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestAddMusicRemoteMusicInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote track"))
	}))
	defer srv.Close()

	svc := newTestService(t, fakeFFmpeg)
	dir := svc.OutputDir

	video := filepath.Join(dir, "anim.mp4")
	out := filepath.Join(dir, "out.mp4")
	touch(t, video)

	res, err := svc.AddMusic(video, srv.URL+"/track.mp3", out)
	require.NoError(t, err)
	assert.FileExists(t, res.OutputPath)

	// Temp download must be cleaned up: only video and output remain.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunUsesConfiguredPaths(t *testing.T) {
	svc := newTestService(t, fakeFFmpeg)
	dir := svc.OutputDir

	video := filepath.Join(dir, "anim.mp4")
	music := filepath.Join(dir, "music.mp3")
	out := filepath.Join(dir, "anim_med_lyd.mp4")
	touch(t, video)
	touch(t, music)

	svc.cfg = Config{VideoPath: video, MusicPath: music, OutputPath: out}

	res, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, out, res.OutputPath)
	assert.FileExists(t, out)
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	assert.Equal(t, DefaultVideoPath, cfg.VideoPath)
	assert.Equal(t, DefaultMusicPath, cfg.MusicPath)
	assert.Equal(t, DefaultOutputPath, cfg.OutputPath)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
}
