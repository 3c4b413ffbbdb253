package container

import (
	"strings"
	"time"
)

const (
	// DefaultBaseName is used when the source name is empty.
	DefaultBaseName = "ascii-video"
	// Extension is appended to every exported frame stream.
	Extension = ".jsonl.gz"
)

// Filename builds "{base}[-round]-{timestamp}.jsonl.gz" where timestamp is
// the UTC ISO-8601 instant with ':' and '.' replaced by '-', cut to 19 chars.
func Filename(base string, squarePixels bool, now time.Time) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBaseName
	}
	if squarePixels {
		base += "-round"
	}
	return base + "-" + Timestamp(now) + Extension
}

// Timestamp returns the filename-safe UTC stamp, e.g. 2024-01-02T03-04-05.
func Timestamp(now time.Time) string {
	iso := now.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	iso = strings.NewReplacer(":", "-", ".", "-").Replace(iso)
	if len(iso) > 19 {
		iso = iso[:19]
	}
	return iso
}
