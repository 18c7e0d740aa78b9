// ABOUTME: Per-buffer store of range-based decorations, surviving edits without shifting automatically
// ABOUTME: Overlapping overlays resolve by highest priority (ties to the later add); ResolveAt returns only the winner's face

package overlay

import "github.com/fresheditor/fresh/internal/docevent"

// Overlay is a single decoration covering a byte range.
type Overlay struct {
	ID       string
	Range    docevent.Range
	Face     docevent.Face
	Priority int
	Message  string

	seq int // insertion sequence, used to break priority ties
}

// Store holds every overlay owned by one buffer.
type Store struct {
	byID map[string]*Overlay
	seq  int
}

// NewStore creates an empty overlay store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Overlay)}
}

// Add inserts or replaces an overlay by id, returning the prior overlay (if
// any) so callers can build an inverse event.
func (s *Store) Add(ov Overlay) (prior Overlay, hadPrior bool) {
	if existing, ok := s.byID[ov.ID]; ok {
		prior = *existing
		hadPrior = true
	}
	s.seq++
	ov.seq = s.seq
	cp := ov
	s.byID[ov.ID] = &cp
	return prior, hadPrior
}

// Remove drops an overlay by id, returning it for inverse construction.
func (s *Store) Remove(id string) (removed Overlay, ok bool) {
	existing, ok := s.byID[id]
	if !ok {
		return Overlay{}, false
	}
	delete(s.byID, id)
	return *existing, true
}

// RemoveInRange drops every overlay intersecting r, returning what was removed.
func (s *Store) RemoveInRange(r docevent.Range) []Overlay {
	var removed []Overlay
	for id, ov := range s.byID {
		if intersects(ov.Range, r) {
			removed = append(removed, *ov)
			delete(s.byID, id)
		}
	}
	return removed
}

// Clear drops every overlay, returning what was removed.
func (s *Store) Clear() []Overlay {
	removed := s.All()
	s.byID = make(map[string]*Overlay)
	return removed
}

// All returns every overlay currently in the store, order unspecified.
func (s *Store) All() []Overlay {
	out := make([]Overlay, 0, len(s.byID))
	for _, ov := range s.byID {
		out = append(out, *ov)
	}
	return out
}

// InRange returns every overlay intersecting r.
func (s *Store) InRange(r docevent.Range) []Overlay {
	var out []Overlay
	for _, ov := range s.byID {
		if intersects(ov.Range, r) {
			out = append(out, *ov)
		}
	}
	return out
}

func intersects(a, b docevent.Range) bool {
	return a.Start < b.End && b.Start < a.End
}

// Resolved is the decoration in effect at a single byte offset: the
// highest-priority overlay covering it, ties broken by later insertion.
// Faces are names, not attribute bitmasks; the render layer's theme owns
// turning a face into actual bold/italic/underline/background styling, so
// overlay resolution only decides precedence.
type Resolved struct {
	Face    docevent.Face
	Message string
}

// ResolveAt picks the winning overlay covering offset, if any.
func ResolveAt(overlays []Overlay, offset int) (Resolved, bool) {
	var winner *Overlay
	for i := range overlays {
		ov := &overlays[i]
		if offset < ov.Range.Start || offset >= ov.Range.End {
			continue
		}
		if winner == nil {
			winner = ov
			continue
		}
		if ov.Priority > winner.Priority {
			winner = ov
			continue
		}
		if ov.Priority == winner.Priority && ov.seq > winner.seq {
			winner = ov
		}
	}
	if winner == nil {
		return Resolved{}, false
	}
	return Resolved{Face: winner.Face, Message: winner.Message}, true
}
