package rle

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"asciivid/internal/ascii"
)

var (
	dark  = ascii.Cell{Char: "F", Color: "#101010"}
	light = ascii.Cell{Char: " "}
)

func TestEncodeMergesRunsAcrossRows(t *testing.T) {
	frame := ascii.Frame{
		{dark, dark, light},
		{light, light, dark},
	}
	got := Encode(frame)
	want := Encoded{
		{Count: 2, Cell: dark},
		{Count: 3, Cell: light},
		{Count: 1, Cell: dark},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Encode mismatch (-want +got):\n%s", diff)
	}
	if len(got) > frame.CellCount() {
		t.Fatalf("encoded length %d exceeds cell count %d", len(got), frame.CellCount())
	}
}

func TestEncodeDistinguishesColour(t *testing.T) {
	other := ascii.Cell{Char: "F", Color: "#101011"}
	got := Encode(ascii.Frame{{dark, other}})
	if len(got) != 2 {
		t.Fatalf("cells differing only in colour must not merge, got %+v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	blank := ascii.Cell{Char: ""}
	cases := map[string]struct {
		frame   ascii.Frame
		entries int
	}{
		"empty":          {ascii.Frame{}, 0},
		"single cell":    {ascii.Frame{{dark}}, 1},
		"all identical":  {ascii.Frame{{dark, dark, dark}, {dark, dark, dark}}, 1},
		"alternating":    {ascii.Frame{{dark, light, dark, light}}, 4},
		"row boundaries": {ascii.Frame{{light, light}, {light, light}, {dark, dark}}, 2},
		"blank glyph":    {ascii.Frame{{blank, dark}, {dark, blank}}, 3},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			enc := Encode(tc.frame)
			if len(enc) != tc.entries {
				t.Fatalf("expected %d entries, got %d", tc.entries, len(enc))
			}
			if len(enc) > tc.frame.CellCount() {
				t.Fatalf("encoded length %d exceeds cell count %d", len(enc), tc.frame.CellCount())
			}
			decoded, err := Decode(enc, tc.frame.Width())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !decoded.Equal(tc.frame) {
				t.Fatalf("round trip mismatch: %v vs %v", decoded, tc.frame)
			}
		})
	}
}

func TestRoundTripThroughJSONKeepsBlankGlyph(t *testing.T) {
	frame := ascii.Frame{{ascii.Cell{Char: ""}, dark}}
	data, err := json.Marshal(Encode(frame))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var enc Encoded
	if err := json.Unmarshal(data, &enc); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	decoded, err := Decode(enc, frame.Width())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !decoded.Equal(frame) {
		t.Fatalf("round trip mismatch: %v vs %v", decoded, frame)
	}
}

func TestZeroWidthRowsDecodeToEmptyFrame(t *testing.T) {
	enc := Encode(ascii.Frame{{}, {}})
	if len(enc) != 0 {
		t.Fatalf("expected no entries, got %+v", enc)
	}
	frame, err := Decode(enc, 0)
	if err != nil || frame.CellCount() != 0 {
		t.Fatalf("expected empty frame, got %v, %v", frame, err)
	}
}

func TestDecodeEmptyReturnsEmptyFrame(t *testing.T) {
	frame, err := Decode(nil, 10)
	if err != nil || frame != nil {
		t.Fatalf("expected empty frame, got %v, %v", frame, err)
	}
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	cases := map[string]struct {
		enc   Encoded
		width int
	}{
		"ragged":         {Encoded{{Count: 3, Cell: dark}}, 2},
		"zero count":     {Encoded{{Count: 0, Cell: dark}}, 1},
		"negative count": {Encoded{{Count: -2, Cell: dark}}, 1},
		"zero width":     {Encoded{{Count: 1, Cell: dark}}, 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			frame, err := Decode(tc.enc, tc.width)
			if !errors.Is(err, ErrCorruptFrame) {
				t.Fatalf("expected ErrCorruptFrame, got %v", err)
			}
			if frame != nil {
				t.Fatalf("corrupt input must not yield a partial frame, got %v", frame)
			}
		})
	}
}

func TestEntryWireShape(t *testing.T) {
	data, err := json.Marshal(Encoded{{Count: 1, Cell: dark}, {Count: 4, Cell: light}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"ch":"F","fg":"#101010"},[4,{"ch":" "}]]`
	if string(data) != want {
		t.Fatalf("unexpected wire form\n got: %s\nwant: %s", data, want)
	}

	var back Encoded
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(Encoded{{Count: 1, Cell: dark}, {Count: 4, Cell: light}}, back); diff != "" {
		t.Fatalf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryUnmarshalRejectsMalformed(t *testing.T) {
	inputs := []string{
		`[[0,{"ch":"F"}]]`,
		`[[2]]`,
		`[[2,{"ch":"F"},3]]`,
		`["F"]`,
		`[[2,"F"]]`,
		`[{"fg":"#000000"}]`,
	}
	for _, input := range inputs {
		var enc Encoded
		if err := json.Unmarshal([]byte(input), &enc); !errors.Is(err, ErrCorruptFrame) {
			t.Fatalf("Unmarshal(%s) = %v, want ErrCorruptFrame", input, err)
		}
	}
}
