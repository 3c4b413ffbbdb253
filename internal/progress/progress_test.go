package progress

import "testing"

func TestStageLabel(t *testing.T) {
	if got := StageExtracting.Label(); got != "Extracting" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Stage("").Label(); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}

func TestNewUpdatePercent(t *testing.T) {
	u := NewUpdate(StageConverting, 25, 100)
	if u.Percent != 25 {
		t.Fatalf("expected 25%%, got %v", u.Percent)
	}
	if u := NewUpdate(StageLoading, 3, 0); u.Percent != 0 {
		t.Fatalf("unknown total should report 0%%, got %v", u.Percent)
	}
	if u := NewUpdate(StageComplete, 0, 0); u.Percent != 100 {
		t.Fatalf("complete should report 100%%, got %v", u.Percent)
	}
	if u := NewUpdate(StageEncoding, 12, 10); u.Percent != 100 {
		t.Fatalf("percent should cap at 100, got %v", u.Percent)
	}
}

func TestNilFuncReportIsNoop(t *testing.T) {
	var f Func
	f.Report(StageLoading, 0, 0)

	var got []Update
	f = func(u Update) { got = append(got, u) }
	f.Report(StageExtracting, 1, 2)
	if len(got) != 1 || got[0].Stage != StageExtracting || got[0].Percent != 50 {
		t.Fatalf("unexpected updates %+v", got)
	}
}
