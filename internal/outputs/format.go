package outputs

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count as B, KB or MB with one decimal.
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}

// FormatDate renders a millisecond timestamp in local time.
func FormatDate(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// FormatAge renders how long ago the timestamp was, e.g. "3 minutes ago".
func FormatAge(ms int64, now time.Time) string {
	return humanize.RelTime(time.UnixMilli(ms), now, "ago", "from now")
}
