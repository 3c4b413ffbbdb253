package ascii

// Cell is one rendered character position.
type Cell struct {
	Char  string `json:"ch"`
	Color string `json:"fg,omitempty"`
}

// Equal compares cells field by field.
func (c Cell) Equal(other Cell) bool {
	return c.Char == other.Char && c.Color == other.Color
}

// Frame is a rectangular grid of cells in row-major order.
type Frame [][]Cell

// Height returns the number of rows.
func (f Frame) Height() int {
	return len(f)
}

// Width returns the number of columns, or 0 for an empty frame.
func (f Frame) Width() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// CellCount returns Width*Height.
func (f Frame) CellCount() int {
	return f.Width() * f.Height()
}

// Equal reports whether both frames have identical shape and cells.
func (f Frame) Equal(other Frame) bool {
	if len(f) != len(other) {
		return false
	}
	for y := range f {
		if len(f[y]) != len(other[y]) {
			return false
		}
		for x := range f[y] {
			if !f[y][x].Equal(other[y][x]) {
				return false
			}
		}
	}
	return true
}

// Text renders the frame as plain lines without colour.
func (f Frame) Text() string {
	size := 0
	for _, row := range f {
		size += len(row) + 1
	}
	buf := make([]byte, 0, size)
	for y, row := range f {
		if y > 0 {
			buf = append(buf, '\n')
		}
		for _, cell := range row {
			buf = append(buf, cell.Char...)
		}
	}
	return string(buf)
}
