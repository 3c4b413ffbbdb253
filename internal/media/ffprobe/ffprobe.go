package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoVideoStream is returned when the probed file carries no video stream.
var ErrNoVideoStream = errors.New("no video stream")

// Result is the subset of ffprobe's JSON report asciivid needs.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is one entry of ffprobe's "streams" array.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Duration     string `json:"duration"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

// Format holds the container duration used when a stream omits its own.
type Format struct {
	Duration string `json:"duration"`
}

// Video summarizes the primary video stream.
type Video struct {
	Width     int
	Height    int
	Duration  float64
	FrameRate float64
	Codec     string
}

var probeArgs = []string{
	"-v", "error",
	"-hide_banner",
	"-select_streams", "v:0",
	"-show_entries", "stream=index,codec_name,codec_type,duration,width,height,r_frame_rate,avg_frame_rate:format=duration",
	"-of", "json",
}

// Inspect runs ffprobe on path and decodes its JSON report. Stderr is kept
// apart from the report and quoted in the error on failure.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	if path = strings.TrimSpace(path); path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	args := append(append([]string(nil), probeArgs...), "--", path)
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Probe inspects path and returns its primary video stream summary.
func Probe(ctx context.Context, binary string, path string) (Video, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return Video{}, err
	}
	return result.Video()
}

// Video returns the first video stream's summary. Duration prefers the
// stream value and falls back to the container duration; average frame rate
// is preferred over the nominal r_frame_rate.
func (r Result) Video() (Video, error) {
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		if stream.Width <= 0 || stream.Height <= 0 {
			return Video{}, fmt.Errorf("ffprobe: video stream %d has invalid dimensions %dx%d", stream.Index, stream.Width, stream.Height)
		}
		duration := firstPositive(parseNumber(stream.Duration), r.DurationSeconds())
		rate := firstPositive(parseRate(stream.AvgFrameRate), parseRate(stream.RFrameRate))
		return Video{
			Width:     stream.Width,
			Height:    stream.Height,
			Duration:  duration,
			FrameRate: rate,
			Codec:     stream.CodecName,
		}, nil
	}
	return Video{}, ErrNoVideoStream
}

// DurationSeconds returns the container duration, 0 when absent and NaN when
// ffprobe reported something unparsable.
func (r Result) DurationSeconds() float64 {
	return parseNumber(r.Format.Duration)
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			return v
		}
	}
	return 0
}

func parseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}

// parseRate understands ffprobe rationals such as "30000/1001".
func parseRate(value string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(value), "/")
	n := parseNumber(num)
	d := 1.0
	if found {
		d = parseNumber(den)
	}
	if math.IsNaN(n) || math.IsNaN(d) || d == 0 {
		return 0
	}
	return n / d
}
