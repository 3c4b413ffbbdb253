package ascii

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
)

// Converter renders frames with a fixed set of Options.
type Converter struct {
	opts  Options
	chars []string
	rng   *rand.Rand
}

// NewConverter builds a converter, filling unset options with defaults.
func NewConverter(opts Options) *Converter {
	opts = opts.normalized()
	chars := make([]string, 0, len(opts.Chars))
	for _, r := range opts.Chars {
		chars = append(chars, string(r))
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Converter{opts: opts, chars: chars, rng: rng}
}

// Options returns the effective options.
func (c *Converter) Options() Options {
	return c.opts
}

// RowsFor returns the number of cell rows for a source of srcW x srcH pixels
// rendered at width columns.
func RowsFor(srcW, srcH, width int, squarePixels bool) int {
	if srcW <= 0 || srcH <= 0 || width <= 0 {
		return 0
	}
	aspect := charAspect
	if squarePixels {
		aspect = squareAspect
	}
	rows := int(math.Round(float64(srcH) / float64(srcW) * float64(width) * aspect))
	if rows < 1 {
		rows = 1
	}
	return rows
}

// FrameToASCII converts img into a grid width columns wide. Rows follow the
// source aspect ratio, halved for character cells unless squarePixels is set.
// Noise is only added when exportMode is true.
func (c *Converter) FrameToASCII(img image.Image, width int, exportMode, squarePixels bool) Frame {
	if img == nil || width <= 0 {
		return nil
	}
	bounds := img.Bounds()
	rows := RowsFor(bounds.Dx(), bounds.Dy(), width, squarePixels)
	if rows == 0 {
		return nil
	}
	return c.convertCells(img, width, rows, exportMode, squarePixels)
}

// convertCells samples img in a cols x rows grid of blocks and averages each
// block. When img already is cols x rows every block is a single pixel.
func (c *Converter) convertCells(img image.Image, cols, rows int, exportMode, squarePixels bool) Frame {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	frame := make(Frame, rows)
	for cy := 0; cy < rows; cy++ {
		y0 := bounds.Min.Y + cy*srcH/rows
		y1 := bounds.Min.Y + (cy+1)*srcH/rows
		if y1 <= y0 {
			y1 = y0 + 1
		}
		row := make([]Cell, cols)
		for cx := 0; cx < cols; cx++ {
			x0 := bounds.Min.X + cx*srcW/cols
			x1 := bounds.Min.X + (cx+1)*srcW/cols
			if x1 <= x0 {
				x1 = x0 + 1
			}
			r, g, b := blockAverage(img, x0, y0, x1, y1)
			row[cx] = c.cellFor(r, g, b, exportMode, squarePixels)
		}
		frame[cy] = row
	}
	return frame
}

func (c *Converter) cellFor(r, g, b float64, exportMode, squarePixels bool) Cell {
	lum := 0.299*r + 0.587*g + 0.114*b
	lum += float64(c.opts.exposure()) * 0.5
	lum = (lum-128)*float64(c.opts.Contrast)/100 + 128
	if exportMode && c.opts.NoiseLevel > 0 {
		lum += (c.rng.Float64()*2 - 1) * c.opts.NoiseLevel * 128
	}
	lum = clamp(lum, 0, 255)

	threshold := float64(c.opts.WhiteThreshold)
	if lum >= threshold {
		return Cell{Char: c.chars[len(c.chars)-1]}
	}
	color := fmt.Sprintf("#%02x%02x%02x", uint8(clamp(r, 0, 255)), uint8(clamp(g, 0, 255)), uint8(clamp(b, 0, 255)))
	if squarePixels {
		return Cell{Char: RoundGlyph, Color: color}
	}
	dark := len(c.chars) - 1
	if dark < 1 {
		return Cell{Char: c.chars[0], Color: color}
	}
	idx := int(lum / threshold * float64(dark))
	if idx >= dark {
		idx = dark - 1
	}
	return Cell{Char: c.chars[idx], Color: color}
}

func blockAverage(img image.Image, x0, y0, x1, y1 int) (float64, float64, float64) {
	var sr, sg, sb, n float64
	if rgba, ok := img.(*image.RGBA); ok {
		for y := y0; y < y1; y++ {
			off := rgba.PixOffset(x0, y)
			for x := x0; x < x1; x++ {
				sr += float64(rgba.Pix[off])
				sg += float64(rgba.Pix[off+1])
				sb += float64(rgba.Pix[off+2])
				off += 4
				n++
			}
		}
	} else {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				sr += float64(r >> 8)
				sg += float64(g >> 8)
				sb += float64(b >> 8)
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return sr / n, sg / n, sb / n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
