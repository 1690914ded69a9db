package fetch

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bitjungle/medlyd/pkg/client"
)

// Fetcher downloads remote media inputs (video or music given as an
// http(s) URL) to local files ahead of muxing.
type Fetcher struct {
	Client       client.HTTPClient
	ShowProgress bool
}

// IsRemote reports whether the given input path is an http(s) URL
// rather than a local file path.
func IsRemote(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Fetch downloads rawURL into fpath. The destination file is only
// created once a 200 response has arrived, so a failed fetch leaves
// nothing behind.
func (f *Fetcher) Fetch(rawURL string, fpath string, streamType string) error {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			slog.Warn("Error closing response body", "error", cerr)
		}
	}(resp.Body)

	if resp.StatusCode != 200 {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}

	out, err := os.Create(fpath)
	if err != nil {
		return err
	}
	defer func(out *os.File) {
		if ferr := out.Close(); ferr != nil {
			slog.Error("Error closing file", "error", ferr)
		}
	}(out)

	var source io.Reader = resp.Body
	if f.ShowProgress {
		pw := &ProgressWriter{
			Total:     resp.ContentLength, // can be -1
			Type:      streamType,
			LastPrint: time.Now(),
		}
		source = &progressReaderWrapper{Reader: resp.Body, Pw: pw}
		defer fmt.Println()
	}

	_, err = io.Copy(out, source)
	return err
}

// ProgressWriter prints a console progress line while a media input is
// being downloaded.
type ProgressWriter struct {
	Total      int64
	Downloaded int64
	LastPrint  time.Time
	Type       string // "Video", "Audio"
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.Downloaded += int64(n)

	if time.Since(pw.LastPrint) > 100*time.Millisecond {
		pw.printProgress()
		pw.LastPrint = time.Now()
	}
	return n, nil
}

func (pw *ProgressWriter) printProgress() {
	mb := float64(pw.Downloaded) / 1024 / 1024

	if pw.Total > 0 {
		percent := float64(pw.Downloaded) / float64(pw.Total) * 100
		totalMb := float64(pw.Total) / 1024 / 1024
		fmt.Printf("\r[%s] %.2f%% (%.2f/%.2f MB)   ", pw.Type, percent, mb, totalMb)
	} else {
		fmt.Printf("\r[%s] Downloading... %.2f MB   ", pw.Type, mb)
	}
}

type progressReaderWrapper struct {
	io.Reader
	Pw *ProgressWriter
}

func (p *progressReaderWrapper) Read(b []byte) (int, error) {
	n, err := p.Reader.Read(b)
	if n > 0 {
		if _, perr := p.Pw.Write(b[:n]); perr != nil {
			return 0, perr
		}
	}
	return n, err
}
