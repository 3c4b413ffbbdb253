package outputs

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLen = 9

// NewID returns a base36 millisecond timestamp followed by a 9 character
// random suffix. Identifiers are practically unique, not guaranteed.
func NewID(now time.Time) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return stamp + random[:idSuffixLen]
}
