package candidate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectorSingleAndNegative(t *testing.T) {
	sel, err := ParseSelector("1,-1")
	if err != nil {
		t.Fatal(err)
	}
	got := sel.Select(4)
	if want := []int{0, 3}; cmp.Diff(want, got) != "" {
		t.Fatalf("Select diff (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestSelectorRange(t *testing.T) {
	sel, err := ParseSelector("1,3..-1")
	if err != nil {
		t.Fatal(err)
	}
	// 5 fields, 1-based; "3..-1" selects positions 3,4 (exclusive of the
	// last, position 5) -> 0-based {2,3}; "1" selects 0-based {0}.
	got := sel.Select(5)
	if want := []int{0, 2, 3}; cmp.Diff(want, got) != "" {
		t.Fatalf("Select diff (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestSelectorInvalidTerm(t *testing.T) {
	if _, err := ParseSelector("abc"); err == nil {
		t.Fatalf("expected error for non-numeric term")
	}
}

func TestAllFieldsSelectorSelectsEverything(t *testing.T) {
	got := AllFields.Select(3)
	if want := []int{0, 1, 2}; cmp.Diff(want, got) != "" {
		t.Fatalf("Select diff (-want +got):\n%s", cmp.Diff(want, got))
	}
}
