package sampler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"asciivid/internal/logging"
)

const (
	DefaultMaxSamples       = 100
	DefaultSamplesPerSecond = 10
)

var (
	// ErrStale reports that a newer video replaced the one being sampled.
	ErrStale = errors.New("sampling superseded by a newer selection")
	// ErrSeekInFlight reports a seek issued while another was outstanding.
	ErrSeekInFlight = errors.New("seek already in flight")
)

// VideoSource is a seekable video that can capture its current frame.
type VideoSource interface {
	Duration() float64
	Seek(ctx context.Context, seconds float64) error
	Capture(ctx context.Context) (image.Image, error)
}

// Guard reports whether the run that captured it is still current.
type Guard func() bool

// Options bounds how many frames are sampled.
type Options struct {
	MaxSamples       int
	SamplesPerSecond int
	Logger           *slog.Logger
}

// SampleCount returns min(maxSamples, floor(duration*perSecond)).
func SampleCount(duration float64, maxSamples, perSecond int) int {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if perSecond <= 0 {
		perSecond = DefaultSamplesPerSecond
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0
	}
	n := int(math.Floor(duration * float64(perSecond)))
	return min(n, maxSamples)
}

// Sample seeks to i*interval for every sample index and captures the frame.
// On any failure or when live reports false it returns no frames.
func Sample(ctx context.Context, src VideoSource, opts Options, live Guard) ([]image.Image, error) {
	logger := logging.NewComponentLogger(opts.Logger, "sampler")
	if live == nil {
		live = func() bool { return true }
	}
	duration := src.Duration()
	count := SampleCount(duration, opts.MaxSamples, opts.SamplesPerSecond)
	if count == 0 {
		logger.Debug("video too short to sample", logging.Float64("duration_seconds", duration))
		return nil, nil
	}
	interval := duration / float64(count)

	frames := make([]image.Image, 0, count)
	for i := range count {
		if !live() {
			return nil, ErrStale
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		at := float64(i) * interval
		if err := src.Seek(ctx, at); err != nil {
			return nil, fmt.Errorf("seek sample %d at %.3fs: %w", i, at, err)
		}
		frame, err := src.Capture(ctx)
		if err != nil {
			return nil, fmt.Errorf("capture sample %d: %w", i, err)
		}
		frames = append(frames, frame)
	}
	if !live() {
		return nil, ErrStale
	}
	logger.Debug("preview samples captured",
		logging.Int("samples", count),
		logging.Float64("interval_seconds", interval))
	return frames, nil
}
