// ABOUTME: Multi-cursor model: a primary cursor plus an ordered set of secondaries, keyed by id
// ABOUTME: normalize() merges overlapping selections and drops duplicate empty-position cursors

package cursor

import "sort"

// Anchor is an optional selection anchor byte offset.
type Anchor struct {
	Position int
	Present  bool
}

// NoAnchor is the absent-anchor value.
var NoAnchor = Anchor{}

// SomeAnchor wraps a byte offset as a present anchor.
func SomeAnchor(pos int) Anchor {
	return Anchor{Position: pos, Present: true}
}

// Cursor is a single insertion point, optionally extended into a selection
// by an anchor.
type Cursor struct {
	ID               uint64
	Position         int
	Anchor           Anchor
	PreferredColumn  int
	HasPreferredColumn bool
}

// SelectionRange returns the cursor's selection as [start, end), or
// (position, position, false) when there is no active selection.
func (c Cursor) SelectionRange() (start, end int, has bool) {
	if !c.Anchor.Present {
		return c.Position, c.Position, false
	}
	if c.Anchor.Position < c.Position {
		return c.Anchor.Position, c.Position, true
	}
	return c.Position, c.Anchor.Position, true
}

// ClearPreferredColumn clears the preferred-column hint, done on any
// non-vertical movement per the spec's cursor invariants.
func (c *Cursor) ClearPreferredColumn() {
	c.PreferredColumn = 0
	c.HasPreferredColumn = false
}

// SetPreferredColumn records the column used by the last vertical move.
func (c *Cursor) SetPreferredColumn(col int) {
	c.PreferredColumn = col
	c.HasPreferredColumn = true
}

// Set is an ordered collection of cursors keyed by id, with one designated
// primary. Order is not significant until Normalize is called.
type Set struct {
	cursors   []Cursor
	primaryID uint64
	hasPrimary bool
}

// NewSet creates a cursor set containing a single primary cursor at position.
func NewSet(primaryID uint64, position int) *Set {
	s := &Set{}
	s.Add(Cursor{ID: primaryID, Position: position})
	s.primaryID = primaryID
	s.hasPrimary = true
	return s
}

// Add inserts or replaces a cursor by id.
func (s *Set) Add(c Cursor) {
	for i := range s.cursors {
		if s.cursors[i].ID == c.ID {
			s.cursors[i] = c
			return
		}
	}
	s.cursors = append(s.cursors, c)
}

// Remove drops the cursor with the given id. Removing the primary leaves
// the set without one until a new primary is designated.
func (s *Set) Remove(id uint64) {
	for i := range s.cursors {
		if s.cursors[i].ID == id {
			s.cursors = append(s.cursors[:i], s.cursors[i+1:]...)
			break
		}
	}
	if s.hasPrimary && s.primaryID == id {
		s.hasPrimary = false
	}
}

// RemoveSecondary drops every cursor except the primary.
func (s *Set) RemoveSecondary() {
	if !s.hasPrimary {
		s.cursors = nil
		return
	}
	kept := s.cursors[:0]
	for _, c := range s.cursors {
		if c.ID == s.primaryID {
			kept = append(kept, c)
		}
	}
	s.cursors = kept
}

// PrimaryID returns the primary cursor's id and whether one is designated.
func (s *Set) PrimaryID() (uint64, bool) {
	return s.primaryID, s.hasPrimary
}

// Primary returns the primary cursor itself, if present in the set.
func (s *Set) Primary() (Cursor, bool) {
	if !s.hasPrimary {
		return Cursor{}, false
	}
	return s.Get(s.primaryID)
}

// Get looks up a cursor by id.
func (s *Set) Get(id uint64) (Cursor, bool) {
	for _, c := range s.cursors {
		if c.ID == id {
			return c, true
		}
	}
	return Cursor{}, false
}

// Iter returns the cursors in their current internal order.
func (s *Set) Iter() []Cursor {
	out := make([]Cursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// Count returns the number of cursors in the set.
func (s *Set) Count() int { return len(s.cursors) }

// Normalize sorts cursors by position then id, merges cursors whose
// selection ranges overlap or touch (the union survives under the smaller
// id, with the primary id winning if it was involved), and drops
// empty-selection cursors that coincide in position with another cursor
// (lowest id survives).
func (s *Set) Normalize() {
	sort.Slice(s.cursors, func(i, j int) bool {
		if s.cursors[i].Position != s.cursors[j].Position {
			return s.cursors[i].Position < s.cursors[j].Position
		}
		return s.cursors[i].ID < s.cursors[j].ID
	})

	merged := s.mergeOverlapping(s.cursors)
	s.cursors = s.dropDuplicateEmpty(merged)
}

func (s *Set) mergeOverlapping(in []Cursor) []Cursor {
	if len(in) == 0 {
		return in
	}
	out := []Cursor{in[0]}
	for _, c := range in[1:] {
		last := &out[len(out)-1]
		lastStart, lastEnd, lastHas := last.SelectionRange()
		start, end, has := c.SelectionRange()

		if !lastHas && !has {
			out = append(out, c)
			continue
		}
		if start > lastEnd {
			out = append(out, c)
			continue
		}

		unionStart := min(lastStart, start)
		unionEnd := maxInt(lastEnd, end)
		survivorID := last.ID
		if survivorID > c.ID {
			survivorID = c.ID
		}
		if s.hasPrimary && (last.ID == s.primaryID || c.ID == s.primaryID) {
			survivorID = s.primaryID
		}

		merged := Cursor{ID: survivorID, Position: unionEnd}
		if unionEnd > unionStart {
			merged.Anchor = SomeAnchor(unionStart)
		}
		*last = merged
	}
	return out
}

func (s *Set) dropDuplicateEmpty(in []Cursor) []Cursor {
	seen := make(map[int]uint64)
	var out []Cursor
	for _, c := range in {
		_, _, has := c.SelectionRange()
		if has {
			out = append(out, c)
			continue
		}
		if winner, ok := seen[c.Position]; ok {
			if survivorWins(winner, c.ID, s.primaryID, s.hasPrimary) {
				continue
			}
			for i := range out {
				if out[i].ID == winner && !selHas(out[i]) && out[i].Position == c.Position {
					out[i] = c
					break
				}
			}
			seen[c.Position] = c.ID
			continue
		}
		seen[c.Position] = c.ID
		out = append(out, c)
	}
	return out
}

func selHas(c Cursor) bool {
	_, _, has := c.SelectionRange()
	return has
}

// survivorWins reports whether the existing winner should remain over
// candidate id for a duplicate empty-position cursor: lowest id wins,
// except the primary always wins if it's one of the two.
func survivorWins(winner, candidate, primaryID uint64, hasPrimary bool) bool {
	if hasPrimary {
		if winner == primaryID {
			return true
		}
		if candidate == primaryID {
			return false
		}
	}
	return winner < candidate
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
