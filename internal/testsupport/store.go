package testsupport

import (
	"context"
	"testing"
	"time"

	"asciivid/internal/ascii"
	"asciivid/internal/config"
	"asciivid/internal/container"
	"asciivid/internal/logging"
	"asciivid/internal/outputs"
	"asciivid/internal/rle"
)

// MustOpenStore opens the outputs store selected by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *outputs.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store, err := outputs.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("outputs.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedRecord saves a record holding frames real frame-stream frames of 2x1
// cells at 10 fps and returns it.
func SeedRecord(t testing.TB, store *outputs.Store, name string, frames int, now time.Time) outputs.Record {
	t.Helper()

	encoded := make([]rle.Encoded, 0, frames)
	for i := 0; i < frames; i++ {
		frame := ascii.Frame{{{Char: "F"}, {Char: " "}}}
		encoded = append(encoded, rle.Encode(frame))
	}
	header := container.NewHeader(10, 2, 1, frames, float64(frames)/10)
	data, err := container.Encode(header, encoded)
	if err != nil {
		t.Fatalf("container.Encode: %v", err)
	}
	rec := outputs.Record{
		ID:         outputs.NewID(now),
		Name:       name,
		Filename:   container.Filename(name, false, now),
		Type:       outputs.TypeText,
		Dimensions: outputs.Dimensions(2, 1),
		FPS:        10,
		FrameCount: frames,
		Duration:   header.Duration,
		Size:       int64(len(data)),
		Timestamp:  now.UnixMilli(),
		Data:       container.EncodePayload(data),
	}
	if !store.Save(context.Background(), rec) {
		t.Fatalf("store.Save(%s) failed", name)
	}
	return rec
}
