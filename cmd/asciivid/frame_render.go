package main

import (
	"fmt"
	"strconv"
	"strings"

	"asciivid/internal/ascii"
)

const ansiClearScreen = "\x1b[H\x1b[2J"

// renderFrame draws frame as terminal text. Coloured cells use 24-bit
// foreground escapes when colorize is set.
func renderFrame(frame ascii.Frame, colorize bool) string {
	if !colorize {
		return frame.Text()
	}
	var b strings.Builder
	for y, row := range frame {
		if y > 0 {
			b.WriteByte('\n')
		}
		colored := false
		for _, cell := range row {
			r, g, bl, ok := hexRGB(cell.Color)
			if !ok {
				if colored {
					b.WriteString(ansiReset)
					colored = false
				}
				b.WriteString(cell.Char)
				continue
			}
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm%s", r, g, bl, cell.Char)
			colored = true
		}
		if colored {
			b.WriteString(ansiReset)
		}
	}
	return b.String()
}

func hexRGB(value string) (uint8, uint8, uint8, bool) {
	if len(value) != 7 || value[0] != '#' {
		return 0, 0, 0, false
	}
	n, err := strconv.ParseUint(value[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(n >> 16), uint8(n >> 8), uint8(n), true
}
