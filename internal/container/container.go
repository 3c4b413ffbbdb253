package container

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"asciivid/internal/rle"
)

// ErrInvalidContainer marks input that is not a well-formed frame stream.
var ErrInvalidContainer = errors.New("invalid container")

// Header is the first line of a frame stream.
type Header struct {
	FPS        int     `json:"fps"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameCount int     `json:"frameCount"`
	Duration   float64 `json:"duration"`
	RLE        bool    `json:"rle"`
}

// Stream is a decoded frame stream.
type Stream struct {
	Header Header
	Frames []rle.Encoded
}

// NewHeader builds a header with RLE set.
func NewHeader(fps, width, height, frameCount int, duration float64) Header {
	return Header{
		FPS:        fps,
		Width:      width,
		Height:     height,
		FrameCount: frameCount,
		Duration:   duration,
		RLE:        true,
	}
}

// Marshal renders header and frames as newline-joined JSON lines.
func Marshal(header Header, frames []rle.Encoded) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeLine(&buf, header); err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	for i, frame := range frames {
		buf.WriteByte('\n')
		if err := writeLine(&buf, frame); err != nil {
			return nil, fmt.Errorf("marshal frame %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func writeLine(buf *bytes.Buffer, value any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return err
	}
	// Encoder always terminates with a newline; lines are joined explicitly.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Compress gzips text.
func Compress(text []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(text); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Write streams the gzip-compressed frame stream into w.
func Write(w io.Writer, header Header, frames []rle.Encoded) error {
	text, err := Marshal(header, frames)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(text); err != nil {
		_ = zw.Close()
		return fmt.Errorf("gzip write: %w", err)
	}
	return zw.Close()
}

// Encode marshals and compresses in one step.
func Encode(header Header, frames []rle.Encoded) ([]byte, error) {
	text, err := Marshal(header, frames)
	if err != nil {
		return nil, err
	}
	return Compress(text)
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrInvalidContainer, err)
	}
	defer zr.Close()
	text, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrInvalidContainer, err)
	}
	return text, nil
}

// Read decompresses and parses a frame stream from r.
func Read(r io.Reader) (Stream, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return Stream{}, fmt.Errorf("%w: gzip: %w", ErrInvalidContainer, err)
	}
	defer zr.Close()
	return Parse(zr)
}

// Decode parses compressed bytes.
func Decode(data []byte) (Stream, error) {
	return Read(bytes.NewReader(data))
}

// Parse reads an uncompressed frame stream.
func Parse(r io.Reader) (Stream, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Stream{}, fmt.Errorf("%w: read header: %w", ErrInvalidContainer, err)
		}
		return Stream{}, fmt.Errorf("%w: missing header", ErrInvalidContainer)
	}
	var header Header
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return Stream{}, fmt.Errorf("%w: header: %w", ErrInvalidContainer, err)
	}
	if !header.RLE {
		return Stream{}, fmt.Errorf("%w: header does not declare rle encoding", ErrInvalidContainer)
	}
	if header.Width <= 0 {
		return Stream{}, fmt.Errorf("%w: header width %d", ErrInvalidContainer, header.Width)
	}

	frames := make([]rle.Encoded, 0, max(header.FrameCount, 0))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			return Stream{}, fmt.Errorf("%w: blank line after frame %d", ErrInvalidContainer, len(frames))
		}
		var frame rle.Encoded
		if err := json.Unmarshal(line, &frame); err != nil {
			return Stream{}, fmt.Errorf("frame %d: %w", len(frames), err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return Stream{}, fmt.Errorf("%w: read frames: %w", ErrInvalidContainer, err)
	}
	if len(frames) != header.FrameCount {
		return Stream{}, fmt.Errorf("%w: header declares %d frames, found %d", ErrInvalidContainer, header.FrameCount, len(frames))
	}
	return Stream{Header: header, Frames: frames}, nil
}
