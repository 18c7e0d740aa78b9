package clipboard

import "testing"

func TestSetThenGetRoundTrips(t *testing.T) {
	c := New(false)
	c.Set("hello")
	if got := c.Get(); got != "hello" {
		t.Fatalf("Get() = %q, want %q", got, "hello")
	}
}

func TestGetOnEmptyClipboard(t *testing.T) {
	c := New(false)
	if got := c.Get(); got != "" {
		t.Fatalf("Get() on empty = %q, want empty", got)
	}
}

func TestSetSelectionsJoinsWithNewline(t *testing.T) {
	c := New(false)
	c.SetSelections([]string{"first", "second", "third"})
	if got := c.Get(); got != "first\nsecond\nthird" {
		t.Fatalf("Get() = %q, want joined selections", got)
	}
}

func TestYankPopCyclesOlderEntries(t *testing.T) {
	c := New(false)
	c.Set("a")
	c.Set("b")
	c.Set("c")

	c.Yank() // "c"
	if got := c.YankPop(); got != "b" {
		t.Fatalf("YankPop() = %q, want %q", got, "b")
	}
	if got := c.YankPop(); got != "a" {
		t.Fatalf("YankPop() = %q, want %q", got, "a")
	}
}
