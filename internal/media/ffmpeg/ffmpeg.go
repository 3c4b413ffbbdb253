package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

const bytesPerPixel = 3

// ErrNoFrame is returned when ffmpeg produced no frame data.
var ErrNoFrame = errors.New("ffmpeg produced no frame")

// GrabFrame decodes the frame at timestamp seconds from path. The frame is
// returned at its native width and height.
func GrabFrame(ctx context.Context, binary, path string, timestamp float64, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ffmpeg grab: invalid dimensions %dx%d", width, height)
	}
	args := []string{
		"-v", "error", "-hide_banner",
		"-ss", formatSeconds(timestamp),
		"-i", path,
		"-frames:v", "1",
		"-f", "rawvideo", "-pix_fmt", "rgb24",
		"pipe:1",
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binaryOrDefault(binary), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg grab at %ss: %w: %s", formatSeconds(timestamp), err, strings.TrimSpace(stderr.String()))
	}
	frameSize := width * height * bytesPerPixel
	if stdout.Len() < frameSize {
		if stdout.Len() == 0 {
			return nil, ErrNoFrame
		}
		return nil, fmt.Errorf("ffmpeg grab: short frame, got %d of %d bytes", stdout.Len(), frameSize)
	}
	return RGBToImage(stdout.Bytes()[:frameSize], width, height), nil
}

// StreamFrames decodes path at fps frames per second scaled to width x height
// and calls fn for every frame in order. fn may retain the image.
func StreamFrames(ctx context.Context, binary, path string, fps, width, height int, fn func(index int, frame *image.RGBA) error) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("ffmpeg stream: invalid dimensions %dx%d", width, height)
	}
	if fps <= 0 {
		return 0, fmt.Errorf("ffmpeg stream: invalid fps %d", fps)
	}
	filter := fmt.Sprintf("fps=%d,scale=%d:%d:flags=area", fps, width, height)
	args := []string{
		"-v", "error", "-hide_banner",
		"-i", path,
		"-vf", filter,
		"-f", "rawvideo", "-pix_fmt", "rgb24",
		"pipe:1",
	}
	cmd := exec.CommandContext(ctx, binaryOrDefault(binary), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("ffmpeg stream: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("ffmpeg stream: start: %w", err)
	}

	reader := bufio.NewReaderSize(out, 1<<20)
	frameSize := width * height * bytesPerPixel
	count := 0
	var callbackErr error
	for {
		buf := make([]byte, frameSize)
		if _, err := io.ReadFull(reader, buf); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				callbackErr = fmt.Errorf("ffmpeg stream: read frame %d: %w", count, err)
			}
			break
		}
		if err := fn(count, RGBToImage(buf, width, height)); err != nil {
			callbackErr = err
			break
		}
		count++
	}
	if callbackErr != nil {
		// Drain so ffmpeg is not left blocked on a full pipe.
		_, _ = io.Copy(io.Discard, reader)
	}
	waitErr := cmd.Wait()
	if callbackErr != nil {
		return count, callbackErr
	}
	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return count, ctxErr
		}
		return count, fmt.Errorf("ffmpeg stream: %w: %s", waitErr, strings.TrimSpace(stderr.String()))
	}
	return count, nil
}

// RGBToImage wraps packed rgb24 bytes in an RGBA image.
func RGBToImage(data []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i+2 < len(data) && j+3 < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = data[i]
		img.Pix[j+1] = data[i+1]
		img.Pix[j+2] = data[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

func binaryOrDefault(binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "ffmpeg"
	}
	return binary
}

func formatSeconds(value float64) string {
	if value < 0 {
		value = 0
	}
	return strconv.FormatFloat(value, 'f', 3, 64)
}
