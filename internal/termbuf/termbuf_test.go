package termbuf

import "testing"

func TestAcquireClearsGrid(t *testing.T) {
	b := Acquire(4, 2)
	defer Release(b)

	if b.Width != 4 || b.Height != 2 {
		t.Fatalf("unexpected dims: %d x %d", b.Width, b.Height)
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 4; col++ {
			if c := b.At(col, row); c.Glyph != ' ' {
				t.Fatalf("expected blank glyph at (%d,%d), got %q", col, row, c.Glyph)
			}
		}
	}
}

func TestSetAndAt(t *testing.T) {
	b := Acquire(3, 3)
	defer Release(b)

	b.Set(1, 1, Cell{Glyph: 'x', Fg: Color{Code: "red"}})
	got := b.At(1, 1)
	if got.Glyph != 'x' || got.Fg.Code != "red" {
		t.Fatalf("unexpected cell: %+v", got)
	}
}

func TestOutOfBoundsIsDroppedSilently(t *testing.T) {
	b := Acquire(2, 2)
	defer Release(b)

	b.Set(5, 5, Cell{Glyph: 'x'})
	if got := b.At(5, 5); got.Glyph != 0 {
		t.Fatalf("expected zero cell out of bounds, got %+v", got)
	}
}

func TestAttrsMergeIsOR(t *testing.T) {
	a := Attrs{Bold: true}
	b := Attrs{Underline: true}
	merged := a.Merge(b)
	if !merged.Bold || !merged.Underline || merged.Italic {
		t.Fatalf("unexpected merge: %+v", merged)
	}
}

func TestReuseAfterRelease(t *testing.T) {
	b := Acquire(10, 10)
	b.Set(0, 0, Cell{Glyph: 'z'})
	Release(b)

	b2 := Acquire(2, 2)
	if got := b2.At(0, 0); got.Glyph != ' ' {
		t.Fatalf("expected cleared cell after reacquire, got %q", got.Glyph)
	}
	Release(b2)
}
