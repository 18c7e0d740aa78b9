package lineindex

import "testing"

func TestEmptyIndex(t *testing.T) {
	idx := New()
	if idx.LineCount() != 1 {
		t.Fatalf("LineCount() = %d, want 1", idx.LineCount())
	}
	off, ok := idx.LineStartOffset(0)
	if !ok || off != 0 {
		t.Fatalf("LineStartOffset(0) = (%d, %v), want (0, true)", off, ok)
	}
}

func TestBuildFromBuffer(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld\ntest"))
	if idx.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", idx.LineCount())
	}
	cases := []struct {
		line int
		want int
	}{
		{0, 0}, {1, 6}, {2, 12},
	}
	for _, c := range cases {
		off, ok := idx.LineStartOffset(c.line)
		if !ok || off != c.want {
			t.Errorf("LineStartOffset(%d) = (%d, %v), want (%d, true)", c.line, off, ok, c.want)
		}
	}
}

func TestOffsetToPosition(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld\ntest"))
	cases := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{4, Position{0, 4}},
		{6, Position{1, 0}},
		{10, Position{1, 4}},
		{12, Position{2, 0}},
	}
	for _, c := range cases {
		got := idx.OffsetToPosition(c.offset)
		if got != c.want {
			t.Errorf("OffsetToPosition(%d) = %+v, want %+v", c.offset, got, c.want)
		}
	}
}

func TestPositionToOffset(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld\ntest"))
	cases := []struct {
		pos  Position
		want int
	}{
		{Position{0, 0}, 0},
		{Position{0, 4}, 4},
		{Position{1, 0}, 6},
		{Position{1, 4}, 10},
		{Position{2, 0}, 12},
	}
	for _, c := range cases {
		if got := idx.PositionToOffset(c.pos); got != c.want {
			t.Errorf("PositionToOffset(%+v) = %d, want %d", c.pos, got, c.want)
		}
	}
}

func TestOffsetPositionRoundTrip(t *testing.T) {
	text := []byte("hello\nworld\ntest")
	idx := BuildFromBuffer(text)
	for offset := 0; offset < len(text); offset++ {
		pos := idx.OffsetToPosition(offset)
		if back := idx.PositionToOffset(pos); back != offset {
			t.Errorf("round trip failed for offset %d: got %d", offset, back)
		}
	}
}

func TestInsertNoNewlines(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld"))
	idx.Insert(2, []byte("XXX"))

	if idx.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", idx.LineCount())
	}
	off0, _ := idx.LineStartOffset(0)
	off1, _ := idx.LineStartOffset(1)
	if off0 != 0 || off1 != 9 {
		t.Fatalf("line starts = (%d, %d), want (0, 9)", off0, off1)
	}
}

func TestInsertWithNewlines(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld"))
	idx.Insert(6, []byte("foo\nbar\n"))

	if idx.LineCount() != 4 {
		t.Fatalf("LineCount() = %d, want 4", idx.LineCount())
	}
	want := []int{0, 6, 10, 14}
	for i, w := range want {
		off, ok := idx.LineStartOffset(i)
		if !ok || off != w {
			t.Errorf("LineStartOffset(%d) = (%d, %v), want (%d, true)", i, off, ok, w)
		}
	}
}

func TestDeleteNoNewlines(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld"))
	idx.Delete(2, 2, []byte("ll"))

	if idx.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", idx.LineCount())
	}
	off1, _ := idx.LineStartOffset(1)
	if off1 != 4 {
		t.Fatalf("LineStartOffset(1) = %d, want 4", off1)
	}
}

func TestDeleteWithNewlines(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld\ntest"))
	idx.Delete(6, 6, []byte("world\n"))

	if idx.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", idx.LineCount())
	}
	off1, _ := idx.LineStartOffset(1)
	if off1 != 6 {
		t.Fatalf("LineStartOffset(1) = %d, want 6", off1)
	}
}

func TestLineRange(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld\ntest"))

	start, end, hasEnd, ok := idx.LineRange(0)
	if !ok || start != 0 || !hasEnd || end != 6 {
		t.Fatalf("LineRange(0) = (%d, %d, %v, %v)", start, end, hasEnd, ok)
	}
	start, end, hasEnd, ok = idx.LineRange(1)
	if !ok || start != 6 || !hasEnd || end != 12 {
		t.Fatalf("LineRange(1) = (%d, %d, %v, %v)", start, end, hasEnd, ok)
	}
	start, _, hasEnd, ok = idx.LineRange(2)
	if !ok || start != 12 || hasEnd {
		t.Fatalf("LineRange(2) should have no end, got start=%d hasEnd=%v ok=%v", start, hasEnd, ok)
	}
}

func TestInsertAtEnd(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello"))
	idx.Insert(5, []byte("\nworld"))

	if idx.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", idx.LineCount())
	}
	off1, _ := idx.LineStartOffset(1)
	if off1 != 6 {
		t.Fatalf("LineStartOffset(1) = %d, want 6", off1)
	}
}

func TestMultipleOperations(t *testing.T) {
	idx := BuildFromBuffer([]byte("line1\nline2\nline3"))

	idx.Insert(0, []byte("start\n"))
	if idx.LineCount() != 4 {
		t.Fatalf("after insert at start: LineCount() = %d, want 4", idx.LineCount())
	}

	idx.Delete(6, 6, []byte("line1\n"))
	if idx.LineCount() != 3 {
		t.Fatalf("after delete: LineCount() = %d, want 3", idx.LineCount())
	}

	idx.Insert(6, []byte("new\n"))
	if idx.LineCount() != 4 {
		t.Fatalf("after insert in middle: LineCount() = %d, want 4", idx.LineCount())
	}
}

func TestInsertThenDeleteRestoresLineCount(t *testing.T) {
	idx := BuildFromBuffer([]byte("hello\nworld\ntest"))
	original := idx.LineCount()

	insert := []byte("a\nb\nc\n")
	idx.Insert(5, insert)
	idx.Delete(5, len(insert), insert)

	if idx.LineCount() != original {
		t.Fatalf("LineCount() = %d, want %d", idx.LineCount(), original)
	}
}
