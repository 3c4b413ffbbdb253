package ascii

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	"asciivid/internal/logging"
	"asciivid/internal/media/ffmpeg"
	"asciivid/internal/media/ffprobe"
	"asciivid/internal/progress"
	"asciivid/internal/services"
)

// TextOptions selects how a whole video is converted.
type TextOptions struct {
	FPS             int
	Width           int
	SkipStartFrames int
	SkipEndFrames   int
	SquarePixels    bool
}

// TextResult holds every converted frame in temporal order.
type TextResult struct {
	Frames   []Frame
	FPS      int
	Width    int
	Height   int
	Duration float64
}

// FrameCount returns the number of converted frames.
func (r TextResult) FrameCount() int {
	return len(r.Frames)
}

// ConvertToText decodes path at opts.FPS, drops SkipStartFrames leading and
// SkipEndFrames trailing frames, and converts the rest in export mode.
// Completion is reported by the caller once the result has been encoded.
func (c *Converter) ConvertToText(ctx context.Context, path string, opts TextOptions) (TextResult, error) {
	logger := logging.NewComponentLogger(c.logger(), "converter")
	report := c.opts.OnProgress
	if strings.TrimSpace(path) == "" {
		return TextResult{}, services.Wrap(services.ErrValidation, "convert", "open video", "No video file selected", nil)
	}
	if opts.FPS <= 0 || opts.Width <= 0 {
		return TextResult{}, services.Wrap(services.ErrValidation, "convert", "validate options",
			fmt.Sprintf("invalid fps %d or width %d", opts.FPS, opts.Width), nil)
	}
	skipStart := max(opts.SkipStartFrames, 0)
	skipEnd := max(opts.SkipEndFrames, 0)

	report.Report(progress.StageLoading, 0, 0)
	video, err := ffprobe.Probe(ctx, c.opts.FFprobeBinary, path)
	if err != nil {
		return TextResult{}, services.Wrap(services.ErrExternalTool, "convert", "probe video", "Unable to read video metadata", err)
	}
	rows := RowsFor(video.Width, video.Height, opts.Width, opts.SquarePixels)
	expected := int(math.Ceil(video.Duration * float64(opts.FPS)))
	logger.Debug("video probed",
		logging.String("path", path),
		logging.Int("source_width", video.Width),
		logging.Int("source_height", video.Height),
		logging.Float64("duration_seconds", video.Duration),
		logging.Int("columns", opts.Width),
		logging.Int("rows", rows),
	)

	var rasters []image.Image
	_, err = ffmpeg.StreamFrames(ctx, c.opts.FFmpegBinary, path, opts.FPS, opts.Width, rows, func(index int, frame *image.RGBA) error {
		rasters = append(rasters, frame)
		report.Report(progress.StageExtracting, index+1, max(expected, index+1))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return TextResult{}, ctx.Err()
		}
		return TextResult{}, services.Wrap(services.ErrExternalTool, "convert", "extract frames", "Frame extraction failed", err)
	}

	kept := trimFrames(rasters, skipStart, skipEnd)
	if len(kept) == 0 {
		return TextResult{}, services.Wrap(services.ErrValidation, "convert", "trim frames",
			fmt.Sprintf("No frames remain after skipping %d start and %d end frames of %d", skipStart, skipEnd, len(rasters)), nil)
	}

	frames := make([]Frame, 0, len(kept))
	for i, raster := range kept {
		if err := ctx.Err(); err != nil {
			return TextResult{}, err
		}
		frames = append(frames, c.convertCells(raster, opts.Width, rows, true, opts.SquarePixels))
		report.Report(progress.StageConverting, i+1, len(kept))
	}

	logger.Info("video converted",
		logging.Int("frames", len(frames)),
		logging.Int("skipped_start", skipStart),
		logging.Int("skipped_end", skipEnd),
	)
	return TextResult{
		Frames:   frames,
		FPS:      opts.FPS,
		Width:    opts.Width,
		Height:   rows,
		Duration: float64(len(frames)) / float64(opts.FPS),
	}, nil
}

func trimFrames[T any](frames []T, skipStart, skipEnd int) []T {
	if skipStart+skipEnd >= len(frames) {
		return nil
	}
	return frames[skipStart : len(frames)-skipEnd]
}

func (c *Converter) logger() *slog.Logger {
	if c.opts.Logger != nil {
		return c.opts.Logger
	}
	return logging.NewNop()
}
