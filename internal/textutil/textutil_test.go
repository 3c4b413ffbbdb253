package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"clip-2024-01-02T03-04-05.jsonl.gz": "clip-2024-01-02T03-04-05.jsonl.gz",
		"a/b:c*d.mp4":                       "a-b-c-d.mp4",
		` what?"<>|.webm `:                  "what.webm",
		"   ":                               "",
		"..hidden.jsonl.gz":                 "hidden.jsonl.gz",
		"tab\tname\x00.mp4":                 "tabname.mp4",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTernary(t *testing.T) {
	if got := Ternary(true, "Round Pixels", "Text"); got != "Round Pixels" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Fatalf("unexpected %d", got)
	}
}
