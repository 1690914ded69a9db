package ffmpeg

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// probeOutput mirrors the subset of ffprobe's JSON output medlyd reads.
type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
}

// ProbeResult summarizes a muxed output file.
type ProbeResult struct {
	DurationSec  float64
	SizeBytes    int64
	VideoStreams int
	AudioStreams int
}

// ProbeFile inspects path with ffprobe. Callers treat a probe failure as
// informational only: the mux itself has already succeeded or failed on
// its own terms.
func ProbeFile(path string) (*ProbeResult, error) {
	data, err := ffmpeggo.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe([]byte(data))
}

func parseProbe(data []byte) (*ProbeResult, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("ffprobe json parse failed: %w", err)
	}

	res := &ProbeResult{}
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			res.VideoStreams++
		case "audio":
			res.AudioStreams++
		}
	}

	// Duration and size arrive as strings; missing fields stay zero.
	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		res.DurationSec = d
	}
	if sz, err := strconv.ParseInt(out.Format.Size, 10, 64); err == nil {
		res.SizeBytes = sz
	}
	return res, nil
}
