// ABOUTME: Per-leaf view state layered over editorstate: focus history, sync groups, view transform
// ABOUTME: layout_dirty tracks when a cached wrap layout needs to be rebuilt before the next render

package splitview

import "github.com/fresheditor/fresh/internal/editorstate"

const focusHistoryCap = 50

// ViewMode distinguishes how a leaf's buffer is being viewed.
type ViewMode int

const (
	ModeNormal ViewMode = iota
	ModeDiff
	ModePreview
)

// Transform is an opaque payload a hook can install to replace the default
// token stream for a leaf's next render.
type Transform struct {
	Name    string
	Payload any
}

// State is one split leaf's full view state, layered over the buffer's
// shared editorstate.State.
type State struct {
	Editor          *editorstate.State
	OpenBuffers     []string
	TabScrollOffset int
	ViewMode        ViewMode
	Transform       *Transform
	LayoutDirty     bool
	SyncGroup       string
	HasSyncGroup    bool
	CompositeView   string
	HasComposite    bool

	focusHistory []string
}

// New creates view state for a leaf already showing bufferID.
func New(editor *editorstate.State, bufferID string) *State {
	return &State{
		Editor:      editor,
		OpenBuffers: []string{bufferID},
		LayoutDirty: true,
	}
}

// PushFocus removes any prior occurrence of bufferID from the focus
// history then appends it, capping the history at 50 entries (dropping the
// oldest).
func (s *State) PushFocus(bufferID string) {
	for i, b := range s.focusHistory {
		if b == bufferID {
			s.focusHistory = append(s.focusHistory[:i], s.focusHistory[i+1:]...)
			break
		}
	}
	s.focusHistory = append(s.focusHistory, bufferID)
	if len(s.focusHistory) > focusHistoryCap {
		s.focusHistory = s.focusHistory[len(s.focusHistory)-focusHistoryCap:]
	}
}

// FocusHistory returns the focus history, oldest first.
func (s *State) FocusHistory() []string {
	out := make([]string, len(s.focusHistory))
	copy(out, s.focusHistory)
	return out
}

// MarkLayoutDirty flags the cached layout as stale; called on any buffer
// mutation affecting the viewport's byte range, or on viewport size or
// transform change.
func (s *State) MarkLayoutDirty() {
	s.LayoutDirty = true
}

// SetTransform installs a view transform and marks the layout dirty.
func (s *State) SetTransform(t *Transform) {
	s.Transform = t
	s.MarkLayoutDirty()
}

// SetViewportSize resizes the viewport and marks the layout dirty.
func (s *State) SetViewportSize(height, width int) {
	s.Editor.Viewport.Height = height
	s.Editor.Viewport.Width = width
	s.MarkLayoutDirty()
}

// Group coordinates scroll mirroring across a set of split views sharing a
// sync group name, for leaves showing the same buffer.
type Group struct {
	members map[string][]*State
}

// NewGroup creates an empty sync-group registry.
func NewGroup() *Group {
	return &Group{members: make(map[string][]*State)}
}

// Join adds a view to a sync group.
func (g *Group) Join(name string, s *State) {
	s.SyncGroup = name
	s.HasSyncGroup = true
	g.members[name] = append(g.members[name], s)
}

// Leave removes a view from its sync group.
func (g *Group) Leave(s *State) {
	if !s.HasSyncGroup {
		return
	}
	list := g.members[s.SyncGroup]
	for i, m := range list {
		if m == s {
			g.members[s.SyncGroup] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.HasSyncGroup = false
	s.SyncGroup = ""
}

// MirrorScroll applies lineOffset to every other member of source's sync
// group whose buffer matches source's buffer, clamping each to its own
// line count.
func (g *Group) MirrorScroll(source *State, lineOffset int) {
	if !source.HasSyncGroup {
		return
	}
	sourceBuf := currentBuffer(source)

	for _, m := range g.members[source.SyncGroup] {
		if m == source {
			continue
		}
		if currentBuffer(m) != sourceBuf {
			continue
		}
		lastLine := m.Editor.Buffer.LineCount() - 1
		top := m.Editor.Viewport.TopLine + lineOffset
		if top < 0 {
			top = 0
		}
		if top > lastLine {
			top = lastLine
		}
		m.Editor.Viewport.TopLine = top
	}
}

func currentBuffer(s *State) string {
	if len(s.OpenBuffers) == 0 {
		return ""
	}
	return s.OpenBuffers[len(s.OpenBuffers)-1]
}
