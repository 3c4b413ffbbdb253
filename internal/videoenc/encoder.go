package videoenc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"asciivid/internal/ascii"
	"asciivid/internal/logging"
	"asciivid/internal/progress"
	"asciivid/internal/services"
)

// Output formats.
const (
	FormatMP4  = "mp4"
	FormatWebM = "webm"
)

// VideoOptions selects conversion and rendering parameters.
type VideoOptions struct {
	FPS             int
	Width           int
	SkipStartFrames int
	SkipEndFrames   int
	SquarePixels    bool
}

// Result is the encoded video.
type Result struct {
	Data   []byte
	Format string
	Frames int
	Width  int
	Height int
}

// Extension returns ".mp4" or ".webm".
func (r Result) Extension() string {
	return "." + r.Format
}

// Encoder converts a source video into an ASCII-rendered video.
type Encoder struct {
	converter    *ascii.Converter
	ffmpegBinary string
	logger       *slog.Logger
}

// New builds an Encoder around converter.
func New(converter *ascii.Converter, ffmpegBinary string, logger *slog.Logger) *Encoder {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Encoder{
		converter:    converter,
		ffmpegBinary: ffmpegBinary,
		logger:       logging.NewComponentLogger(logger, "videoenc"),
	}
}

type codec struct {
	format string
	args   []string
}

var codecs = []codec{
	{format: FormatMP4, args: []string{"-c:v", "libx264", "-pix_fmt", "yuv420p", "-preset", "veryfast", "-movflags", "+faststart"}},
	{format: FormatWebM, args: []string{"-c:v", "libvpx-vp9", "-pix_fmt", "yuv420p", "-b:v", "0", "-crf", "32"}},
}

// ConvertToMP4 converts path to ASCII frames and encodes them as MP4,
// falling back to WebM when MP4 encoding fails.
func (e *Encoder) ConvertToMP4(ctx context.Context, path string, opts VideoOptions) (Result, error) {
	text, err := e.converter.ConvertToText(ctx, path, ascii.TextOptions{
		FPS:             opts.FPS,
		Width:           opts.Width,
		SkipStartFrames: opts.SkipStartFrames,
		SkipEndFrames:   opts.SkipEndFrames,
		SquarePixels:    opts.SquarePixels,
	})
	if err != nil {
		return Result{}, err
	}
	return e.Encode(ctx, text, opts.SquarePixels)
}

// Encode renders and encodes already converted frames.
func (e *Encoder) Encode(ctx context.Context, text ascii.TextResult, squarePixels bool) (Result, error) {
	if len(text.Frames) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "encode", "render frames", "No frames to encode", nil)
	}
	report := e.converter.Options().OnProgress
	w, h := FrameSize(text.Width, text.Height, squarePixels)

	workDir, err := os.MkdirTemp("", "asciivid-encode-*")
	if err != nil {
		return Result{}, fmt.Errorf("create encode workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	var failures []string
	for _, c := range codecs {
		out := filepath.Join(workDir, "out."+c.format)
		err := e.run(ctx, c, out, text, squarePixels, w, h, report)
		if err == nil {
			data, readErr := os.ReadFile(out)
			if readErr != nil {
				return Result{}, fmt.Errorf("read encoded video: %w", readErr)
			}
			report.Report(progress.StageComplete, len(text.Frames), len(text.Frames))
			e.logger.Info("video encoded",
				logging.String("format", c.format),
				logging.Int("frames", len(text.Frames)),
				logging.Int("pixel_width", w),
				logging.Int("pixel_height", h),
				logging.Bytes("encoded", int64(len(data))))
			return Result{Data: data, Format: c.format, Frames: len(text.Frames), Width: w, Height: h}, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		failures = append(failures, fmt.Sprintf("%s: %v", c.format, err))
		logging.WarnWithContext(e.logger, "video encoder failed", "videoenc_codec_failed",
			logging.String("format", c.format),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install an ffmpeg build with libx264 or libvpx-vp9"),
			logging.String(logging.FieldImpact, "trying the next output format"))
	}
	return Result{}, services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "No video encoder succeeded",
		errors.New(strings.Join(failures, "; ")))
}

func (e *Encoder) run(ctx context.Context, c codec, out string, text ascii.TextResult, squarePixels bool, w, h int, report progress.Func) error {
	args := []string{
		"-v", "error", "-hide_banner", "-y",
		"-f", "rawvideo", "-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", w, h),
		"-r", strconv.Itoa(text.FPS),
		"-i", "pipe:0",
	}
	args = append(args, c.args...)
	args = append(args, out)

	cmd := exec.CommandContext(ctx, e.ffmpegBinary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	buf := make([]byte, 0, w*h*3)
	var writeErr error
	for i, frame := range text.Frames {
		buf = rgb24(RenderFrame(frame, squarePixels), buf)
		if _, err := stdin.Write(buf); err != nil {
			writeErr = fmt.Errorf("write frame %d: %w", i, err)
			break
		}
		report.Report(progress.StageEncoding, i+1, len(text.Frames))
	}
	closeErr := stdin.Close()
	waitErr := cmd.Wait()
	if waitErr != nil {
		return fmt.Errorf("%w: %s", waitErr, strings.TrimSpace(stderr.String()))
	}
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("close stdin: %w", closeErr)
	}
	return nil
}
