package ascii

import (
	"log/slog"
	"math/rand/v2"

	"asciivid/internal/progress"
)

const (
	DefaultChars          = "F$V* "
	DefaultNoiseLevel     = 0.15
	DefaultWhiteThreshold = 160
	DefaultContrast       = 100
	DefaultExposure       = -100

	// RoundGlyph replaces characters in square-pixel mode.
	RoundGlyph = "●"

	charAspect   = 0.5
	squareAspect = 1.0
)

// Options tunes glyph selection.
type Options struct {
	// Chars is ordered from darkest to lightest.
	Chars string
	// NoiseLevel is a 0..1 fraction of luminance jitter, only applied in export mode.
	NoiseLevel float64
	// WhiteThreshold is the luminance at or above which a cell is blank.
	WhiteThreshold int
	// Contrast is a percentage; 100 leaves luminance unchanged.
	Contrast int
	// Exposure shifts luminance by half its value. Nil selects DefaultExposure.
	Exposure *int
	// Rand drives noise; nil uses the package generator.
	Rand *rand.Rand
	// OnProgress receives stage updates during ConvertToText.
	OnProgress progress.Func

	FFmpegBinary  string
	FFprobeBinary string
	Logger        *slog.Logger
}

// DefaultOptions returns the stock converter tuning.
func DefaultOptions() Options {
	return Options{
		Chars:          DefaultChars,
		NoiseLevel:     DefaultNoiseLevel,
		WhiteThreshold: DefaultWhiteThreshold,
		Contrast:       DefaultContrast,
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

func (o Options) exposure() int {
	if o.Exposure == nil {
		return DefaultExposure
	}
	return *o.Exposure
}

func (o Options) normalized() Options {
	if o.Chars == "" {
		o.Chars = DefaultChars
	}
	if o.WhiteThreshold <= 0 {
		o.WhiteThreshold = DefaultWhiteThreshold
	}
	if o.Contrast <= 0 {
		o.Contrast = DefaultContrast
	}
	if o.NoiseLevel < 0 {
		o.NoiseLevel = 0
	}
	return o
}
