package models

// MuxResult describes a finished mux: where the output landed plus an
// ffprobe summary of it. The probe fields stay zero when ffprobe was
// unavailable; the mux itself succeeded regardless.
type MuxResult struct {
	VideoPath  string
	MusicPath  string
	OutputPath string

	DurationSec  float64
	SizeBytes    int64
	VideoStreams int
	AudioStreams int
}

type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// DurationSec - probed duration of the muxed file, when available
	DurationSec float64 `json:"duration_sec,omitempty"`
	// StreamURL - link to internal API to download the muxed file
	StreamURL string `json:"stream_url,omitempty"`
	// LocalPath - absolute path (for local integrations)
	LocalPath string `json:"local_path,omitempty"`
}
