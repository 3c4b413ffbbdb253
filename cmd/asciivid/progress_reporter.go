package main

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"asciivid/internal/progress"
)

// progressReporter draws one bar per conversion stage on w.
type progressReporter struct {
	w       io.Writer
	visible bool

	mu    sync.Mutex
	stage progress.Stage
	bar   *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer, visible bool) *progressReporter {
	return &progressReporter{w: w, visible: visible}
}

// Func adapts the reporter to progress.Func.
func (r *progressReporter) Func() progress.Func {
	return r.update
}

func (r *progressReporter) update(u progress.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.Stage != r.stage || r.bar == nil {
		r.finishLocked()
		r.stage = u.Stage
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription(u.Stage.Label()),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetVisibility(r.visible),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	_ = r.bar.Set(int(u.Percent))
	if u.Stage == progress.StageComplete {
		r.finishLocked()
	}
}

// Finish closes the current bar, if any.
func (r *progressReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishLocked()
}

func (r *progressReporter) finishLocked() {
	if r.bar == nil {
		return
	}
	if !r.bar.IsFinished() {
		_ = r.bar.Finish()
	}
	if r.visible {
		_, _ = io.WriteString(r.w, "\n")
	}
	r.bar = nil
}
