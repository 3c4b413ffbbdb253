package sampler

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"asciivid/internal/media/ffmpeg"
	"asciivid/internal/media/ffprobe"
)

// FFmpegSource implements VideoSource by grabbing single frames with ffmpeg.
// Seek decodes the frame at the target time; Capture returns it.
type FFmpegSource struct {
	path    string
	binary  string
	video   ffprobe.Video
	timeout time.Duration
	seeking atomic.Bool

	mu      sync.Mutex
	current *image.RGBA
}

// OpenFFmpegSource probes path and returns a source ready to seek.
func OpenFFmpegSource(ctx context.Context, ffmpegBinary, ffprobeBinary, path string, timeout time.Duration) (*FFmpegSource, error) {
	video, err := ffprobe.Probe(ctx, ffprobeBinary, path)
	if err != nil {
		return nil, err
	}
	return &FFmpegSource{
		path:    path,
		binary:  ffmpegBinary,
		video:   video,
		timeout: timeout,
	}, nil
}

// Video returns the probed stream summary.
func (s *FFmpegSource) Video() ffprobe.Video {
	return s.video
}

// Duration returns the video length in seconds.
func (s *FFmpegSource) Duration() float64 {
	return s.video.Duration
}

// Seek blocks until the frame at seconds has been decoded.
func (s *FFmpegSource) Seek(ctx context.Context, seconds float64) error {
	if !s.seeking.CompareAndSwap(false, true) {
		return ErrSeekInFlight
	}
	defer s.seeking.Store(false)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	frame, err := ffmpeg.GrabFrame(ctx, s.binary, s.path, seconds, s.video.Width, s.video.Height)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = frame
	s.mu.Unlock()
	return nil
}

// Capture returns the frame decoded by the last Seek.
func (s *FFmpegSource) Capture(context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, errors.New("capture before seek")
	}
	return s.current, nil
}
