package ffmpeg

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/bitjungle/medlyd/pkg/client"
)

// Static nano builds published on the project's release page, used when
// no working ffmpeg is found on the host.
const (
	UrlNanoLinux   = "https://github.com/bitjungle/medlyd/releases/download/ffmpeg-static-2026-01/ffmpeg_nano"
	UrlNanoWindows = "https://github.com/bitjungle/medlyd/releases/download/ffmpeg-static-2026-01/ffmpeg_nano.exe"
)

// EnsureBinary verifies that requestedPath points at a runnable ffmpeg.
// When it does not, a static nano build is downloaded next to the
// working directory and used instead.
func EnsureBinary(httpClient client.HTTPClient, requestedPath string) (string, error) {
	if isWorking(requestedPath) {
		slog.Debug("FFmpeg found and working", "path", requestedPath)
		return requestedPath, nil
	}

	slog.Warn("FFmpeg not found or invalid. Attempting to download static build...", "path", requestedPath)

	downloadUrl, fileName, err := nanoBuildFor(runtime.GOOS)
	if err != nil {
		return "", err
	}

	cwd, _ := os.Getwd()
	localPath := filepath.Join(cwd, fileName)

	if _, err := os.Stat(localPath); err == nil {
		if isWorking(localPath) {
			slog.Info("Found local nano ffmpeg", "path", localPath)
			return localPath, nil
		}
		if remErr := os.Remove(localPath); remErr != nil {
			slog.Warn("Failed to delete broken ffmpeg executable", "path", localPath, "err", remErr)
		}
	}

	slog.Info("Downloading ffmpeg nano...", "url", downloadUrl)
	if err := downloadFile(httpClient, downloadUrl, localPath); err != nil {
		return "", fmt.Errorf("failed to download ffmpeg: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(localPath, 0755); err != nil {
			return "", fmt.Errorf("failed to chmod ffmpeg: %w", err)
		}
	}

	if !isWorking(localPath) {
		return "", fmt.Errorf("downloaded ffmpeg is not working")
	}

	slog.Info("FFmpeg installed successfully", "path", localPath)
	return localPath, nil
}

func nanoBuildFor(goos string) (url string, fileName string, err error) {
	switch goos {
	case "windows":
		return UrlNanoWindows, "ffmpeg_nano.exe", nil
	case "linux", "darwin":
		return UrlNanoLinux, "ffmpeg_nano", nil
	default:
		return "", "", fmt.Errorf("auto-download not supported for OS: %s", goos)
	}
}

func isWorking(path string) bool {
	cmd := exec.Command(path, "-version")
	return cmd.Run() == nil
}

func downloadFile(httpClient client.HTTPClient, url string, dest string) error {
	req, _ := http.NewRequest("GET", url, nil)
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			slog.Warn("Failed to close response body", "error", cerr)
		}
	}(resp.Body)

	if resp.StatusCode != 200 {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func(out *os.File) {
		if cerr := out.Close(); cerr != nil {
			slog.Warn("Failed to close file", "error", cerr)
		}
	}(out)

	_, err = io.Copy(out, resp.Body)
	return err
}
