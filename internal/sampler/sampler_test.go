package sampler

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	duration    float64
	seeks       []float64
	failAt      int
	outstanding atomic.Int32
	maxInFlight int32
	onSeek      func(i int)
}

func (f *fakeSource) Duration() float64 { return f.duration }

func (f *fakeSource) Seek(_ context.Context, seconds float64) error {
	n := f.outstanding.Add(1)
	defer f.outstanding.Add(-1)
	if n > f.maxInFlight {
		f.maxInFlight = n
	}
	f.seeks = append(f.seeks, seconds)
	if f.onSeek != nil {
		f.onSeek(len(f.seeks) - 1)
	}
	if f.failAt > 0 && len(f.seeks) == f.failAt {
		return errors.New("decoder hiccup")
	}
	return nil
}

func (f *fakeSource) Capture(context.Context) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func TestSampleCount(t *testing.T) {
	cases := []struct {
		duration float64
		want     int
	}{
		{0, 0},
		{0.05, 0},
		{0.35, 3},
		{2.5, 25},
		{10, 100},
		{3600, 100},
	}
	for _, tc := range cases {
		if got := SampleCount(tc.duration, 100, 10); got != tc.want {
			t.Fatalf("SampleCount(%v) = %d, want %d", tc.duration, got, tc.want)
		}
	}
}

func TestSampleSeeksSequentiallyAtEvenIntervals(t *testing.T) {
	src := &fakeSource{duration: 0.5}
	frames, err := Sample(context.Background(), src, Options{}, nil)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}
	want := []float64{0, 0.1, 0.2, 0.30000000000000004, 0.4}
	if diff := cmp.Diff(want, src.seeks); diff != "" {
		t.Fatalf("seek times mismatch (-want +got):\n%s", diff)
	}
	if src.maxInFlight != 1 {
		t.Fatalf("expected at most one seek in flight, saw %d", src.maxInFlight)
	}
}

func TestSampleFailureReturnsNoFrames(t *testing.T) {
	src := &fakeSource{duration: 1, failAt: 4}
	frames, err := Sample(context.Background(), src, Options{}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if frames != nil {
		t.Fatalf("expected no frames on failure, got %d", len(frames))
	}
}

func TestSampleStaleGuardDiscardsFrames(t *testing.T) {
	var gen atomic.Int64
	mine := gen.Load()
	src := &fakeSource{duration: 1, onSeek: func(i int) {
		if i == 2 {
			gen.Add(1)
		}
	}}
	frames, err := Sample(context.Background(), src, Options{}, func() bool { return gen.Load() == mine })
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if frames != nil {
		t.Fatalf("stale run must not return frames, got %d", len(frames))
	}
	if len(src.seeks) != 3 {
		t.Fatalf("expected sampling to stop after the guard flipped, got %d seeks", len(src.seeks))
	}
}

func TestSampleHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sample(ctx, &fakeSource{duration: 1}, Options{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFFmpegSourceSeekThenCapture(t *testing.T) {
	dir := t.TempDir()
	probe := filepath.Join(dir, "ffprobe")
	probeBody := "#!/bin/sh\ncat <<'JSON'\n{\"streams\":[{\"index\":0,\"codec_type\":\"video\",\"width\":4,\"height\":2,\"duration\":\"1.0\"}],\"format\":{\"duration\":\"1.0\"}}\nJSON\n"
	if err := os.WriteFile(probe, []byte(probeBody), 0o755); err != nil {
		t.Fatalf("write ffprobe: %v", err)
	}
	mpeg := filepath.Join(dir, "ffmpeg")
	mpegBody := "#!/bin/sh\nhead -c " + strconv.Itoa(4*2*3) + " /dev/zero\n"
	if err := os.WriteFile(mpeg, []byte(mpegBody), 0o755); err != nil {
		t.Fatalf("write ffmpeg: %v", err)
	}

	ctx := context.Background()
	src, err := OpenFFmpegSource(ctx, mpeg, probe, "clip.mp4", 5*time.Second)
	if err != nil {
		t.Fatalf("OpenFFmpegSource: %v", err)
	}
	if _, err := src.Capture(ctx); err == nil {
		t.Fatal("capture before seek should fail")
	}
	frames, err := Sample(ctx, src, Options{MaxSamples: 3}, nil)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if b := frames[0].Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("frames should keep native resolution, got %v", b)
	}
}

func TestFFmpegSourceRejectsConcurrentSeek(t *testing.T) {
	src := &FFmpegSource{}
	src.seeking.Store(true)
	if err := src.Seek(context.Background(), 0); !errors.Is(err, ErrSeekInFlight) {
		t.Fatalf("expected ErrSeekInFlight, got %v", err)
	}
}
