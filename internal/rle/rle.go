// Package rle run-length encodes ASCII frames for the text export format.
//
// A frame is flattened row-major and maximal runs of equal cells collapse to
// a single Entry. On the wire a lone cell is a JSON object and a run is the
// two-element array [count, cell].
package rle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"asciivid/internal/ascii"
)

// ErrCorruptFrame marks encoded data that cannot be expanded into a frame.
var ErrCorruptFrame = errors.New("corrupt frame")

// Entry is either a single cell (Count == 1) or a run of Count equal cells.
type Entry struct {
	Count int
	Cell  ascii.Cell
}

// Encoded is the run-length form of one frame.
type Encoded []Entry

// Encode flattens frame row-major and merges consecutive equal cells.
func Encode(frame ascii.Frame) Encoded {
	out := make(Encoded, 0, frame.Height())
	for _, row := range frame {
		for _, cell := range row {
			if n := len(out); n > 0 && out[n-1].Cell.Equal(cell) {
				out[n-1].Count++
				continue
			}
			out = append(out, Entry{Count: 1, Cell: cell})
		}
	}
	return out
}

// Decode expands enc and reshapes it into rows of width cells. Any malformed
// entry fails the whole frame with ErrCorruptFrame. A frame without cells,
// including one whose rows are all zero wide, encodes to nothing and decodes
// to the empty frame.
func Decode(enc Encoded, width int) (ascii.Frame, error) {
	if len(enc) == 0 {
		return nil, nil
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: invalid width %d", ErrCorruptFrame, width)
	}
	total := 0
	for i, entry := range enc {
		if entry.Count <= 0 {
			return nil, fmt.Errorf("%w: entry %d has non-positive count %d", ErrCorruptFrame, i, entry.Count)
		}
		total += entry.Count
	}
	if total%width != 0 {
		return nil, fmt.Errorf("%w: %d cells do not fill rows of %d", ErrCorruptFrame, total, width)
	}

	flat := make([]ascii.Cell, 0, total)
	for _, entry := range enc {
		for range entry.Count {
			flat = append(flat, entry.Cell)
		}
	}
	frame := make(ascii.Frame, 0, total/width)
	for start := 0; start < total; start += width {
		frame = append(frame, flat[start:start+width:start+width])
	}
	return frame, nil
}

// MarshalJSON writes a lone cell as an object and a run as [count, cell].
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Count == 1 {
		return json.Marshal(e.Cell)
	}
	return json.Marshal([]any{e.Count, e.Cell})
}

// UnmarshalJSON accepts both wire shapes. Shape violations wrap ErrCorruptFrame.
func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty entry", ErrCorruptFrame)
	}
	switch data[0] {
	case '{':
		cell, err := decodeCell(data)
		if err != nil {
			return err
		}
		*e = Entry{Count: 1, Cell: cell}
		return nil
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
		if len(parts) != 2 {
			return fmt.Errorf("%w: run has %d elements, want 2", ErrCorruptFrame, len(parts))
		}
		var count int
		if err := json.Unmarshal(parts[0], &count); err != nil {
			return fmt.Errorf("%w: run count: %w", ErrCorruptFrame, err)
		}
		if count <= 0 {
			return fmt.Errorf("%w: non-positive run count %d", ErrCorruptFrame, count)
		}
		cell, err := decodeCell(bytes.TrimSpace(parts[1]))
		if err != nil {
			return err
		}
		*e = Entry{Count: count, Cell: cell}
		return nil
	default:
		return fmt.Errorf("%w: unexpected entry %q", ErrCorruptFrame, truncate(data, 32))
	}
}

func decodeCell(data []byte) (ascii.Cell, error) {
	if len(data) == 0 || data[0] != '{' {
		return ascii.Cell{}, fmt.Errorf("%w: cell is not an object", ErrCorruptFrame)
	}
	var wire struct {
		Char  *string `json:"ch"`
		Color string  `json:"fg"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return ascii.Cell{}, fmt.Errorf("%w: cell: %w", ErrCorruptFrame, err)
	}
	if wire.Char == nil {
		return ascii.Cell{}, fmt.Errorf("%w: cell missing character", ErrCorruptFrame)
	}
	return ascii.Cell{Char: *wire.Char, Color: wire.Color}, nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
