package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"

	"asciivid/internal/ascii"
	"asciivid/internal/config"
	"asciivid/internal/container"
	"asciivid/internal/logging"
	"asciivid/internal/outputs"
	"asciivid/internal/progress"
	"asciivid/internal/rle"
	"asciivid/internal/services"
	"asciivid/internal/session"
	"asciivid/internal/textutil"
	"asciivid/internal/videoenc"
)

// ErrBusy is returned when an export is requested while another one runs.
var ErrBusy = errors.New("an export is already in progress")

// Request describes one export.
type Request struct {
	Path            string
	FPS             int
	Width           int
	SkipStartFrames int
	SkipEndFrames   int
	SquarePixels    bool
}

// Validate checks the request before any work is done.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return services.Wrap(services.ErrValidation, "export", "validate", "Please select a video file", nil)
	}
	if info, err := os.Stat(r.Path); err != nil || info.IsDir() {
		return services.Wrap(services.ErrValidation, "export", "validate",
			fmt.Sprintf("Video file %q is not readable", r.Path), err)
	}
	if r.FPS < config.MinFPS || r.FPS > config.MaxFPS {
		return services.Wrap(services.ErrValidation, "export", "validate",
			fmt.Sprintf("FPS must be between %d and %d", config.MinFPS, config.MaxFPS), nil)
	}
	if r.Width < config.MinWidth || r.Width > config.MaxWidth {
		return services.Wrap(services.ErrValidation, "export", "validate",
			fmt.Sprintf("Width must be between %d and %d", config.MinWidth, config.MaxWidth), nil)
	}
	return nil
}

// TextExport is the outcome of a text export.
type TextExport struct {
	Record   outputs.Record
	Artifact string
	// Saved is false when the history write failed; the artifact is still written.
	Saved bool
}

// VideoExport is the outcome of a video export.
type VideoExport struct {
	Result   videoenc.Result
	Artifact string
}

// Exporter runs exports one at a time.
type Exporter struct {
	converter    *ascii.Converter
	encoder      *videoenc.Encoder
	store        *outputs.Store
	downloadsDir string
	logger       *slog.Logger
	now          func() time.Time
	busy         atomic.Bool
}

// New builds an Exporter writing artifacts into downloadsDir.
func New(converter *ascii.Converter, encoder *videoenc.Encoder, store *outputs.Store, downloadsDir string, logger *slog.Logger) *Exporter {
	return &Exporter{
		converter:    converter,
		encoder:      encoder,
		store:        store,
		downloadsDir: downloadsDir,
		logger:       logging.NewComponentLogger(logger, "export"),
		now:          time.Now,
	}
}

func (e *Exporter) begin(ctx context.Context, req Request) (context.Context, func(), error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, nil, ErrBusy
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	return ctx, func() { e.busy.Store(false) }, nil
}

// Text converts req.Path into a compressed frame stream, saves it to the
// history and writes it to the downloads directory.
func (e *Exporter) Text(ctx context.Context, req Request) (TextExport, error) {
	ctx, done, err := e.begin(ctx, req)
	if err != nil {
		return TextExport{}, err
	}
	defer done()
	logger := logging.WithContext(services.WithStage(ctx, "export_text"), e.logger)

	result, err := e.converter.ConvertToText(ctx, req.Path, ascii.TextOptions{
		FPS:             req.FPS,
		Width:           req.Width,
		SkipStartFrames: req.SkipStartFrames,
		SkipEndFrames:   req.SkipEndFrames,
		SquarePixels:    req.SquarePixels,
	})
	if err != nil {
		return TextExport{}, err
	}

	report := e.converter.Options().OnProgress
	encoded := make([]rle.Encoded, 0, len(result.Frames))
	for i, frame := range result.Frames {
		encoded = append(encoded, rle.Encode(frame))
		report.Report(progress.StageEncoding, i+1, len(result.Frames))
	}
	header := container.NewHeader(result.FPS, result.Width, result.Height, len(encoded), result.Duration)
	data, err := container.Encode(header, encoded)
	if err != nil {
		return TextExport{}, fmt.Errorf("encode frame stream: %w", err)
	}

	now := e.now()
	base := session.BaseName(req.Path)
	if base == "" {
		base = container.DefaultBaseName
	}
	name := base + textutil.Ternary(req.SquarePixels, "-round", "")
	filename := textutil.SanitizeFileName(container.Filename(base, req.SquarePixels, now))
	rec := outputs.Record{
		ID:         outputs.NewID(now),
		Name:       name,
		Filename:   filename,
		Type:       textutil.Ternary(req.SquarePixels, outputs.TypeRoundPixels, outputs.TypeText),
		Dimensions: outputs.Dimensions(result.Width, result.Height),
		FPS:        result.FPS,
		FrameCount: len(encoded),
		Duration:   result.Duration,
		Size:       int64(len(data)),
		Timestamp:  now.UnixMilli(),
		Data:       container.EncodePayload(data),
	}

	saved := e.store != nil && e.store.Save(ctx, rec)
	if !saved {
		logging.WarnWithContext(logger, "export not added to history", "export_history_save_failed",
			logging.String("output_id", rec.ID),
			logging.Bytes("size", rec.Size),
			logging.String(logging.FieldErrorHint, "delete older outputs to free space"),
			logging.String(logging.FieldImpact, "file is still written to the downloads directory"))
	}

	artifact, err := e.writeArtifact(filename, data)
	if err != nil {
		return TextExport{Record: rec, Saved: saved}, err
	}
	report.Report(progress.StageComplete, len(encoded), len(encoded))
	logger.Info("text export complete",
		logging.String("output_id", rec.ID),
		logging.String("artifact", artifact),
		logging.Int("frames", rec.FrameCount),
		logging.String("dimensions", rec.Dimensions),
		logging.Bool("saved", saved))
	return TextExport{Record: rec, Artifact: artifact, Saved: saved}, nil
}

// Video converts req.Path into an encoded video file in the downloads directory.
func (e *Exporter) Video(ctx context.Context, req Request) (VideoExport, error) {
	ctx, done, err := e.begin(ctx, req)
	if err != nil {
		return VideoExport{}, err
	}
	defer done()
	logger := logging.WithContext(services.WithStage(ctx, "export_video"), e.logger)

	result, err := e.encoder.ConvertToMP4(ctx, req.Path, videoenc.VideoOptions{
		FPS:             req.FPS,
		Width:           req.Width,
		SkipStartFrames: req.SkipStartFrames,
		SkipEndFrames:   req.SkipEndFrames,
		SquarePixels:    req.SquarePixels,
	})
	if err != nil {
		return VideoExport{}, err
	}
	base := session.BaseName(req.Path)
	if base == "" {
		base = container.DefaultBaseName
	}
	if req.SquarePixels {
		base += "-round"
	}
	filename := textutil.SanitizeFileName(base + "-ascii-" + container.Timestamp(e.now()) + result.Extension())
	artifact, err := e.writeArtifact(filename, result.Data)
	if err != nil {
		return VideoExport{Result: result}, err
	}
	logger.Info("video export complete",
		logging.String("artifact", artifact),
		logging.String("format", result.Format),
		logging.Int("frames", result.Frames))
	return VideoExport{Result: result, Artifact: artifact}, nil
}

// writeArtifact expects an already sanitized file name.
func (e *Exporter) writeArtifact(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(e.downloadsDir, 0o755); err != nil {
		return "", fmt.Errorf("create downloads directory: %w", err)
	}
	path := filepath.Join(e.downloadsDir, filename)
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
