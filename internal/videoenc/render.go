package videoenc

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"asciivid/internal/ascii"
)

const (
	glyphWidth  = 7
	glyphHeight = 13
	dotSize     = 8
)

var (
	background = color.RGBA{0, 0, 0, 255}
	foreground = color.RGBA{255, 255, 255, 255}
)

// CellSize returns the pixel size of one cell.
func CellSize(squarePixels bool) (int, int) {
	if squarePixels {
		return dotSize, dotSize
	}
	return glyphWidth, glyphHeight
}

// FrameSize returns the even pixel dimensions of a rendered frame.
func FrameSize(cols, rows int, squarePixels bool) (int, int) {
	cw, ch := CellSize(squarePixels)
	return even(cols * cw), even(rows * ch)
}

// RenderFrame draws frame onto a black canvas.
func RenderFrame(frame ascii.Frame, squarePixels bool) *image.RGBA {
	w, h := FrameSize(frame.Width(), frame.Height(), squarePixels)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	cw, ch := CellSize(squarePixels)
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	ascent := basicfont.Face7x13.Ascent
	for y, row := range frame {
		for x, cell := range row {
			if strings.TrimSpace(cell.Char) == "" {
				continue
			}
			col := parseColor(cell.Color)
			if squarePixels || cell.Char == ascii.RoundGlyph {
				fillDot(img, x*cw, y*ch, min(cw, ch), col)
				continue
			}
			drawer.Src = image.NewUniform(col)
			drawer.Dot = fixed.P(x*cw, y*ch+ascent)
			drawer.DrawString(cell.Char)
		}
	}
	return img
}

// fillDot draws a filled circle inscribed in the size x size square at x0,y0.
func fillDot(img *image.RGBA, x0, y0, size int, col color.RGBA) {
	r := float64(size) / 2
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			fx := float64(dx) + 0.5 - r
			fy := float64(dy) + 0.5 - r
			if fx*fx+fy*fy <= r*r {
				img.SetRGBA(x0+dx, y0+dy, col)
			}
		}
	}
}

func parseColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return foreground
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return foreground
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// rgb24 packs img into the byte layout ffmpeg expects for -pix_fmt rgb24.
func rgb24(img *image.RGBA, dst []byte) []byte {
	dst = dst[:0]
	for i := 0; i+3 < len(img.Pix); i += 4 {
		dst = append(dst, img.Pix[i], img.Pix[i+1], img.Pix[i+2])
	}
	return dst
}

func even(v int) int {
	if v%2 != 0 {
		return v + 1
	}
	return v
}
