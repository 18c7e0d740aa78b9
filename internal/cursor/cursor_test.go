package cursor

import "testing"

func TestNewSetHasPrimary(t *testing.T) {
	s := NewSet(1, 5)
	if s.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", s.Count())
	}
	p, ok := s.Primary()
	if !ok || p.ID != 1 || p.Position != 5 {
		t.Fatalf("Primary() = %+v, ok=%v", p, ok)
	}
}

func TestAddGetRemove(t *testing.T) {
	s := NewSet(1, 0)
	s.Add(Cursor{ID: 2, Position: 10})

	if _, ok := s.Get(2); !ok {
		t.Fatal("expected to find cursor 2")
	}
	s.Remove(2)
	if _, ok := s.Get(2); ok {
		t.Fatal("expected cursor 2 to be removed")
	}
}

func TestRemoveSecondaryKeepsPrimaryOnly(t *testing.T) {
	s := NewSet(1, 0)
	s.Add(Cursor{ID: 2, Position: 5})
	s.Add(Cursor{ID: 3, Position: 8})

	s.RemoveSecondary()
	if s.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", s.Count())
	}
	if _, ok := s.Get(1); !ok {
		t.Fatal("expected primary to survive RemoveSecondary")
	}
}

func TestSelectionRange(t *testing.T) {
	c := Cursor{Position: 10, Anchor: SomeAnchor(4)}
	start, end, has := c.SelectionRange()
	if !has || start != 4 || end != 10 {
		t.Fatalf("SelectionRange() = (%d, %d, %v)", start, end, has)
	}

	c2 := Cursor{Position: 4, Anchor: SomeAnchor(10)}
	start, end, has = c2.SelectionRange()
	if !has || start != 4 || end != 10 {
		t.Fatalf("reversed anchor SelectionRange() = (%d, %d, %v)", start, end, has)
	}

	c3 := Cursor{Position: 5}
	_, _, has = c3.SelectionRange()
	if has {
		t.Fatal("expected no selection without an anchor")
	}
}

func TestPreferredColumn(t *testing.T) {
	var c Cursor
	c.SetPreferredColumn(7)
	if !c.HasPreferredColumn || c.PreferredColumn != 7 {
		t.Fatalf("unexpected preferred column state: %+v", c)
	}
	c.ClearPreferredColumn()
	if c.HasPreferredColumn {
		t.Fatal("expected preferred column to be cleared")
	}
}

func TestNormalizeSortsByPositionThenID(t *testing.T) {
	s := &Set{}
	s.Add(Cursor{ID: 3, Position: 10})
	s.Add(Cursor{ID: 2, Position: 5})
	s.Add(Cursor{ID: 1, Position: 5})

	s.Normalize()
	got := s.Iter()
	// IDs 1 and 2 are empty cursors at the same offset, so they merge and
	// the lower ID survives; ID 3 sorts after them by position.
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != 1 || got[0].Position != 5 || got[1].ID != 3 || got[1].Position != 10 {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestNormalizeMergesOverlappingSelections(t *testing.T) {
	s := &Set{}
	s.Add(Cursor{ID: 1, Position: 5, Anchor: SomeAnchor(0)})
	s.Add(Cursor{ID: 2, Position: 10, Anchor: SomeAnchor(4)})

	s.Normalize()
	got := s.Iter()
	if len(got) != 1 {
		t.Fatalf("expected overlapping selections to merge into 1 cursor, got %d: %+v", len(got), got)
	}
	if got[0].ID != 1 {
		t.Fatalf("expected lower id to survive merge, got id %d", got[0].ID)
	}
	start, end, has := got[0].SelectionRange()
	if !has || start != 0 || end != 10 {
		t.Fatalf("unexpected merged range: (%d, %d, %v)", start, end, has)
	}
}

func TestNormalizeDropsDuplicateEmptyPositions(t *testing.T) {
	s := &Set{}
	s.Add(Cursor{ID: 3, Position: 7})
	s.Add(Cursor{ID: 1, Position: 7})

	s.Normalize()
	got := s.Iter()
	if len(got) != 1 {
		t.Fatalf("expected duplicate empty cursors to collapse to 1, got %d: %+v", len(got), got)
	}
	if got[0].ID != 1 {
		t.Fatalf("expected lowest id to survive, got %d", got[0].ID)
	}
}

func TestNormalizePrimarySurvivesDuplicate(t *testing.T) {
	s := NewSet(5, 3)
	s.Add(Cursor{ID: 1, Position: 3})

	s.Normalize()
	got := s.Iter()
	if len(got) != 1 {
		t.Fatalf("expected 1 cursor after normalize, got %d: %+v", len(got), got)
	}
	if got[0].ID != 5 {
		t.Fatalf("expected primary id 5 to survive over lower id, got %d", got[0].ID)
	}
}

func TestNormalizeNonOverlappingSelectionsUntouched(t *testing.T) {
	s := &Set{}
	s.Add(Cursor{ID: 1, Position: 5, Anchor: SomeAnchor(0)})
	s.Add(Cursor{ID: 2, Position: 20, Anchor: SomeAnchor(15)})

	s.Normalize()
	got := s.Iter()
	if len(got) != 2 {
		t.Fatalf("expected 2 cursors to remain separate, got %d: %+v", len(got), got)
	}
}
