package outputs

import (
	"fmt"
	"time"
)

// Record types shown in the history.
const (
	TypeText        = "Text"
	TypeRoundPixels = "Round Pixels"
)

// Record is one persisted export with its compressed payload.
type Record struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Filename   string  `json:"filename"`
	Type       string  `json:"type"`
	Dimensions string  `json:"dimensions"`
	FPS        int     `json:"fps"`
	FrameCount int     `json:"frameCount"`
	Duration   float64 `json:"duration"`
	Size       int64   `json:"size"`
	// Timestamp is Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// Data is the base64 form of the gzip artifact.
	Data string `json:"data"`
}

// Dimensions formats a width x height pair the way records store it.
func Dimensions(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// Time returns the record timestamp as a time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// DownloadName is the file name a download of r should use.
func (r Record) DownloadName() string {
	if r.Filename != "" {
		return r.Filename
	}
	return r.Name + ".jsonl.gz"
}
