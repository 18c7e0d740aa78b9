// ABOUTME: Binary tree of horizontal/vertical splits over buffers, with rectangle layout
// ABOUTME: Internal nodes carry a direction and ratio; leaves carry a buffer id and split id

package splittree

// Direction is the split orientation of an internal node.
type Direction int

const (
	// Horizontal stacks children top/bottom, reserving one separator row.
	Horizontal Direction = iota
	// Vertical places children left/right, reserving one separator column.
	Vertical
)

// Rect is an integer cell rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Leaf is a single visible pane.
type Leaf struct {
	SplitID  int
	BufferID string
	Label    string
}

// node is either an internal fork or a leaf.
type node struct {
	// internal
	direction Direction
	ratio     float64
	first     *node
	second    *node

	// leaf
	leaf    bool
	splitID int
	bufID   string
	label   string
}

// Tree is a split tree with one active leaf for split/close operations.
type Tree struct {
	root      *node
	active    *node
	nextSplit int
	maximized *node
}

// New creates a single-leaf tree for bufferID.
func New(bufferID string) *Tree {
	t := &Tree{}
	leaf := t.newLeaf(bufferID)
	t.root = leaf
	t.active = leaf
	return t
}

func (t *Tree) newLeaf(bufferID string) *node {
	t.nextSplit++
	return &node{leaf: true, splitID: t.nextSplit, bufID: bufferID}
}

// ActiveSplitID returns the active leaf's split id.
func (t *Tree) ActiveSplitID() int { return t.active.splitID }

// SplitActive replaces the active leaf with an internal node whose children
// are the old leaf and a new leaf for newBufferID. before places the new
// leaf first. Returns the new leaf's split id.
func (t *Tree) SplitActive(direction Direction, newBufferID string, ratio float64, before bool) int {
	old := t.active
	newLeaf := t.newLeaf(newBufferID)

	var first, second *node
	if before {
		first, second = newLeaf, old
	} else {
		first, second = old, newLeaf
	}

	internal := &node{direction: direction, ratio: clampRatio(ratio), first: first, second: second}
	t.replace(old, internal)
	t.active = newLeaf
	return newLeaf.splitID
}

func clampRatio(r float64) float64 {
	if r < 0.1 {
		return 0.1
	}
	if r > 0.9 {
		return 0.9
	}
	return r
}

// replace swaps target for replacement in the tree, fixing up parent links
// by walking from root (the tree has no parent pointers, so this is a
// search-and-splice).
func (t *Tree) replace(target, replacement *node) {
	if t.root == target {
		t.root = replacement
		return
	}
	replaceChild(t.root, target, replacement)
}

func replaceChild(n, target, replacement *node) bool {
	if n.leaf {
		return false
	}
	if n.first == target {
		n.first = replacement
		return true
	}
	if n.second == target {
		n.second = replacement
		return true
	}
	if replaceChild(n.first, target, replacement) {
		return true
	}
	return replaceChild(n.second, target, replacement)
}

// findParent returns the internal node directly above target, or nil if
// target is the root.
func findParent(n, target *node) *node {
	if n.leaf {
		return nil
	}
	if n.first == target || n.second == target {
		return n
	}
	if p := findParent(n.first, target); p != nil {
		return p
	}
	return findParent(n.second, target)
}

// CloseSplit removes the leaf with splitID, replacing its parent with its
// sibling, unless it is the last leaf (a no-op). If the closed split was
// maximized, the maximize marker is cleared.
func (t *Tree) CloseSplit(splitID int) {
	target := findLeaf(t.root, splitID)
	if target == nil {
		return
	}
	if t.root == target {
		return // last leaf, nothing to close
	}

	parent := findParent(t.root, target)
	var sibling *node
	if parent.first == target {
		sibling = parent.second
	} else {
		sibling = parent.first
	}

	t.replace(parent, sibling)

	if t.active == target {
		t.active = firstLeaf(t.root)
	}
	if t.maximized == target {
		t.maximized = nil
	}
}

func findLeaf(n *node, splitID int) *node {
	if n.leaf {
		if n.splitID == splitID {
			return n
		}
		return nil
	}
	if f := findLeaf(n.first, splitID); f != nil {
		return f
	}
	return findLeaf(n.second, splitID)
}

func firstLeaf(n *node) *node {
	if n.leaf {
		return n
	}
	return firstLeaf(n.first)
}

func inOrderLeaves(n *node, out *[]*node) {
	if n.leaf {
		*out = append(*out, n)
		return
	}
	inOrderLeaves(n.first, out)
	inOrderLeaves(n.second, out)
}

// NextSplit moves the active leaf forward in in-order traversal, wrapping.
func (t *Tree) NextSplit() int {
	var leaves []*node
	inOrderLeaves(t.root, &leaves)
	for i, l := range leaves {
		if l == t.active {
			t.active = leaves[(i+1)%len(leaves)]
			break
		}
	}
	return t.active.splitID
}

// PrevSplit moves the active leaf backward in in-order traversal, wrapping.
func (t *Tree) PrevSplit() int {
	var leaves []*node
	inOrderLeaves(t.root, &leaves)
	for i, l := range leaves {
		if l == t.active {
			t.active = leaves[(i-1+len(leaves))%len(leaves)]
			break
		}
	}
	return t.active.splitID
}

// AdjustRatio nudges the ratio of the internal node whose direct child is
// splitID's leaf by delta, clamped to [0.1, 0.9].
func (t *Tree) AdjustRatio(splitID int, delta float64) {
	leaf := findLeaf(t.root, splitID)
	if leaf == nil {
		return
	}
	parent := findParent(t.root, leaf)
	if parent == nil {
		return
	}
	parent.ratio = clampRatio(parent.ratio + delta)
}

// SetRatio sets the ratio of the internal node whose direct child is
// splitID's leaf.
func (t *Tree) SetRatio(splitID int, ratio float64) {
	leaf := findLeaf(t.root, splitID)
	if leaf == nil {
		return
	}
	parent := findParent(t.root, leaf)
	if parent == nil {
		return
	}
	parent.ratio = clampRatio(ratio)
}

// DistributeEvenly resets every internal node's ratio to 0.5.
func (t *Tree) DistributeEvenly() {
	var walk func(n *node)
	walk = func(n *node) {
		if n.leaf {
			return
		}
		n.ratio = 0.5
		walk(n.first)
		walk(n.second)
	}
	walk(t.root)
}

// MaximizeSplit marks the active leaf as maximized.
func (t *Tree) MaximizeSplit() { t.maximized = t.active }

// UnmaximizeSplit clears the maximize marker.
func (t *Tree) UnmaximizeSplit() { t.maximized = nil }

// ToggleMaximize flips the maximize state for the active leaf.
func (t *Tree) ToggleMaximize() {
	if t.maximized == t.active {
		t.maximized = nil
	} else {
		t.maximized = t.active
	}
}

// IsMaximized reports whether splitID is currently the maximized leaf.
func (t *Tree) IsMaximized(splitID int) bool {
	return t.maximized != nil && t.maximized.splitID == splitID
}

// Visible is one leaf's placement within a layout pass.
type Visible struct {
	SplitID  int
	BufferID string
	Rect     Rect
}

// GetVisibleBuffers returns each visible leaf's rectangle within rect. When
// a leaf is maximized, it alone covers the whole rect.
func (t *Tree) GetVisibleBuffers(rect Rect) []Visible {
	if t.maximized != nil {
		return []Visible{{SplitID: t.maximized.splitID, BufferID: t.maximized.bufID, Rect: rect}}
	}
	var out []Visible
	layout(t.root, rect, &out)
	return out
}

func layout(n *node, rect Rect, out *[]Visible) {
	if n.leaf {
		*out = append(*out, Visible{SplitID: n.splitID, BufferID: n.bufID, Rect: rect})
		return
	}

	firstRect, secondRect := splitRect(rect, n.direction, n.ratio)
	layout(n.first, firstRect, out)
	layout(n.second, secondRect, out)
}

func splitRect(rect Rect, dir Direction, ratio float64) (first, second Rect) {
	if dir == Horizontal {
		usable := rect.Height - 1
		if usable < 0 {
			usable = 0
		}
		firstHeight := clampDim(int(round(float64(usable) * ratio)))
		secondHeight := usable - firstHeight
		secondHeight = clampDim(secondHeight)

		first = Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: firstHeight}
		second = Rect{X: rect.X, Y: rect.Y + firstHeight + 1, Width: rect.Width, Height: secondHeight}
		return
	}

	usable := rect.Width - 1
	if usable < 0 {
		usable = 0
	}
	firstWidth := clampDim(int(round(float64(usable) * ratio)))
	secondWidth := usable - firstWidth
	secondWidth = clampDim(secondWidth)

	first = Rect{X: rect.X, Y: rect.Y, Width: firstWidth, Height: rect.Height}
	second = Rect{X: rect.X + firstWidth + 1, Y: rect.Y, Width: secondWidth, Height: rect.Height}
	return
}

func clampDim(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int(f - 0.5))
	}
	return float64(int(f + 0.5))
}

// Separator is the rectangle of a separator line between two children.
type Separator struct {
	SplitID int // split id of the internal node's first child, for hit-test identity
	Rect    Rect
}

// GetSeparatorsWithIDs returns every separator rectangle for hit testing.
func (t *Tree) GetSeparatorsWithIDs(rect Rect) []Separator {
	if t.maximized != nil {
		return nil
	}
	var out []Separator
	collectSeparators(t.root, rect, &out)
	return out
}

func collectSeparators(n *node, rect Rect, out *[]Separator) {
	if n.leaf {
		return
	}
	firstRect, secondRect := splitRect(rect, n.direction, n.ratio)

	var sepRect Rect
	if n.direction == Horizontal {
		sepRect = Rect{X: rect.X, Y: firstRect.Y + firstRect.Height, Width: rect.Width, Height: 1}
	} else {
		sepRect = Rect{X: firstRect.X + firstRect.Width, Y: rect.Y, Width: 1, Height: rect.Height}
	}
	*out = append(*out, Separator{SplitID: leafSplitIDFor(n.first), Rect: sepRect})

	collectSeparators(n.first, firstRect, out)
	collectSeparators(n.second, secondRect, out)
}

func leafSplitIDFor(n *node) int {
	return firstLeaf(n).splitID
}

// SetLabel assigns an opaque label to the leaf with splitID.
func (t *Tree) SetLabel(splitID int, label string) {
	if leaf := findLeaf(t.root, splitID); leaf != nil {
		leaf.label = label
	}
}

// FindSplitByLabel returns the split id of the leaf with label, if any.
func (t *Tree) FindSplitByLabel(label string) (int, bool) {
	var leaves []*node
	inOrderLeaves(t.root, &leaves)
	for _, l := range leaves {
		if l.label == label {
			return l.splitID, true
		}
	}
	return 0, false
}

// Leaves returns every leaf in in-order traversal order.
func (t *Tree) Leaves() []Leaf {
	var nodes []*node
	inOrderLeaves(t.root, &nodes)
	out := make([]Leaf, len(nodes))
	for i, n := range nodes {
		out[i] = Leaf{SplitID: n.splitID, BufferID: n.bufID, Label: n.label}
	}
	return out
}

// NodeDump is the serializable form of a node, recursive over First/Second
// for internal nodes and carrying only the leaf fields for leaves.
type NodeDump struct {
	Leaf      bool      `json:"leaf"`
	Direction Direction `json:"direction,omitempty"`
	Ratio     float64   `json:"ratio,omitempty"`
	First     *NodeDump `json:"first,omitempty"`
	Second    *NodeDump `json:"second,omitempty"`
	SplitID   int       `json:"split_id,omitempty"`
	BufferID  string    `json:"buffer_id,omitempty"`
	Label     string    `json:"label,omitempty"`
}

// Dump is the serializable form of a whole Tree: its node structure plus
// the active/maximized cursor state, identified by split id so Restore can
// re-resolve node pointers after rebuilding.
type Dump struct {
	Root             NodeDump `json:"root"`
	ActiveSplitID    int      `json:"active_split_id"`
	NextSplit        int      `json:"next_split"`
	MaximizedSplitID int      `json:"maximized_split_id,omitempty"`
	HasMaximized     bool     `json:"has_maximized"`
}

// Dump captures the tree's full topology, suitable for JSON serialization
// and later reconstruction via Restore.
func (t *Tree) Dump() Dump {
	d := Dump{
		Root:          dumpNode(t.root),
		ActiveSplitID: t.active.splitID,
		NextSplit:     t.nextSplit,
	}
	if t.maximized != nil {
		d.MaximizedSplitID = t.maximized.splitID
		d.HasMaximized = true
	}
	return d
}

func dumpNode(n *node) NodeDump {
	if n.leaf {
		return NodeDump{Leaf: true, SplitID: n.splitID, BufferID: n.bufID, Label: n.label}
	}
	first := dumpNode(n.first)
	second := dumpNode(n.second)
	return NodeDump{
		Leaf:      false,
		Direction: n.direction,
		Ratio:     n.ratio,
		First:     &first,
		Second:    &second,
	}
}

// Restore rebuilds a Tree from a Dump produced by Dump, including the
// active and maximized leaf markers.
func Restore(d Dump) *Tree {
	t := &Tree{nextSplit: d.NextSplit}
	t.root = restoreNode(&d.Root)
	t.active = findLeaf(t.root, d.ActiveSplitID)
	if t.active == nil {
		t.active = firstLeaf(t.root)
	}
	if d.HasMaximized {
		t.maximized = findLeaf(t.root, d.MaximizedSplitID)
	}
	return t
}

func restoreNode(d *NodeDump) *node {
	if d.Leaf {
		return &node{leaf: true, splitID: d.SplitID, bufID: d.BufferID, label: d.Label}
	}
	return &node{
		direction: d.Direction,
		ratio:     d.Ratio,
		first:     restoreNode(d.First),
		second:    restoreNode(d.Second),
	}
}
