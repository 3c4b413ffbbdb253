// Package progress describes the stages of a conversion and the updates
// emitted while one runs.
package progress

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stage identifies a conversion phase.
type Stage string

const (
	StageLoading    Stage = "loading"
	StageExtracting Stage = "extracting"
	StageConverting Stage = "converting"
	StageEncoding   Stage = "encoding"
	StageComplete   Stage = "complete"
)

// Label renders the stage for display, e.g. "Extracting".
func (s Stage) Label() string {
	value := strings.TrimSpace(string(s))
	if value == "" {
		return ""
	}
	return cases.Title(language.Und).String(value)
}

// Update reports how far a stage has advanced. Total is zero when the amount
// of work is unknown.
type Update struct {
	Stage   Stage
	Current int
	Total   int
	Percent float64
}

// NewUpdate builds an Update and derives Percent from current and total.
func NewUpdate(stage Stage, current, total int) Update {
	u := Update{Stage: stage, Current: current, Total: total}
	if total > 0 {
		u.Percent = float64(current) / float64(total) * 100
		if u.Percent > 100 {
			u.Percent = 100
		}
	}
	if stage == StageComplete {
		u.Percent = 100
	}
	return u
}

// Func receives progress updates. A nil Func discards them.
type Func func(Update)

// Report forwards an update when f is non-nil.
func (f Func) Report(stage Stage, current, total int) {
	if f == nil {
		return
	}
	f(NewUpdate(stage, current, total))
}
