package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Encoders lists the video encoders asciivid can use.
type Encoders struct {
	H264 bool
	VP9  bool
}

// Any reports whether at least one usable encoder exists.
func (e Encoders) Any() bool {
	return e.H264 || e.VP9
}

// Summary renders the encoder set for status output.
func (e Encoders) Summary() string {
	var parts []string
	if e.H264 {
		parts = append(parts, "libx264 (mp4)")
	}
	if e.VP9 {
		parts = append(parts, "libvpx-vp9 (webm)")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// CheckEncoders runs `ffmpeg -encoders` and reports which encoders are built in.
func CheckEncoders(ctx context.Context, ffmpegBinary string) (Encoders, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, ffmpegBinary, "-hide_banner", "-encoders").Output()
	if err != nil {
		return Encoders{}, fmt.Errorf("list ffmpeg encoders: %w", err)
	}
	return ParseEncoders(out), nil
}

// ParseEncoders reads the encoder table printed by `ffmpeg -encoders`.
func ParseEncoders(output []byte) Encoders {
	var enc Encoders
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "V") {
			continue
		}
		switch fields[1] {
		case "libx264":
			enc.H264 = true
		case "libvpx-vp9":
			enc.VP9 = true
		}
	}
	return enc
}
