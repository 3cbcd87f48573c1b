package cliutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a_fold_change.csv")
	b := filepath.Join(dir, "b_fold_change.csv")
	_ = os.WriteFile(a, []byte("strain\n"), 0o644)
	_ = os.WriteFile(b, []byte("strain\n"), 0o644)
	got, err := ExpandPositionals([]string{filepath.Join(dir, "*_fold_change.csv"), "-"})
	if err != nil || len(got) != 3 || got[2] != "-" {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
	if _, err := ExpandPositionals([]string{filepath.Join(dir, "*.tsv")}); err == nil {
		t.Fatalf("expected error for unmatched glob")
	}
}

func TestParseConcentration(t *testing.T) {
	cases := map[string]float64{
		"50":     50,
		"50uM":   50,
		"50 µM":  50,
		"500nM":  0.5,
		"1mM":    1000,
		"0.001M": 1000,
		"0":      0,
	}
	for in, want := range cases {
		got, err := ParseConcentration(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if math.Abs(got-want) > 1e-9*math.Max(1, want) {
			t.Errorf("%q: got %g want %g", in, got, want)
		}
	}
	for _, bad := range []string{"", "uM", "abc", "-1", "5kM"} {
		if _, err := ParseConcentration(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseConcentrations(t *testing.T) {
	got, err := ParseConcentrations("0, 5uM,1mM")
	if err != nil || len(got) != 3 || got[2] != 1000 {
		t.Fatalf("got %v err=%v", got, err)
	}
	if n := len(SplitList(" ,, ")); n != 0 {
		t.Fatalf("empty list should split to nothing")
	}
}
