package candidate

import "testing"

func TestHaystackSkipsInactiveFields(t *testing.T) {
	c := New([]Field{
		{Text: "src/", Active: true},
		{Text: "  ", Active: false},
		{Text: "main.rs", Active: true},
	}, nil, nil, nil)
	if c.Haystack() != "src/main.rs" {
		t.Fatalf("Haystack() = %q", c.Haystack())
	}
}

func TestFromLineSplitsOnDelimiter(t *testing.T) {
	sel, err := ParseSelector("2")
	if err != nil {
		t.Fatal(err)
	}
	c := FromLine("a:b:c", ":", sel)
	if c.Haystack() != "b" {
		t.Fatalf("Haystack() = %q, want %q", c.Haystack(), "b")
	}
	if c.Extra.(string) != "a:b:c" {
		t.Fatalf("Extra = %v", c.Extra)
	}
}

func TestFromLineAllFieldsByDefault(t *testing.T) {
	c := FromLine("a:b:c", ":", AllFields)
	if c.Haystack() != "abc" {
		t.Fatalf("Haystack() = %q", c.Haystack())
	}
}
