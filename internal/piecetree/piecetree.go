// ABOUTME: VSCode-style piece tree over byte offsets, tracking bytes only (lines live in internal/lineindex)
// ABOUTME: Internal nodes cache left-subtree byte counts; leaves reference a Stored or Added buffer span

package piecetree

import "math"

// Location identifies which backing buffer a piece's bytes live in.
type Location int

const (
	// Stored is the original, on-disk buffer loaded when the document was opened.
	Stored Location = iota
	// Added is the append-only scratch buffer that inserts write into.
	Added
)

// Piece describes a single leaf's span within its backing buffer.
type Piece struct {
	Location Location
	Offset   int
	Bytes    int
}

// Info is a located piece plus where within it a queried offset falls.
type Info struct {
	Piece
	OffsetInPiece int
}

// node is either an internal fork or a leaf piece. Leaves have Bytes set
// and Left/Right nil; internal nodes have Left/Right set and LeftBytes
// caching the left subtree's total byte count.
type node struct {
	// internal
	leftBytes int
	left      *node
	right     *node

	// leaf
	piece Piece
	leaf  bool
}

func newLeaf(p Piece) *node {
	return &node{piece: p, leaf: true}
}

func newInternal(left, right *node) *node {
	return &node{left: left, right: right, leftBytes: left.totalBytes()}
}

func (n *node) totalBytes() int {
	if n.leaf {
		return n.piece.Bytes
	}
	return n.leftBytes + n.right.totalBytes()
}

func (n *node) depth() int {
	if n.leaf {
		return 1
	}
	ld, rd := n.left.depth(), n.right.depth()
	if ld > rd {
		return 1 + ld
	}
	return 1 + rd
}

func (n *node) countLeaves() int {
	if n.leaf {
		return 1
	}
	return n.left.countLeaves() + n.right.countLeaves()
}

func (n *node) collectLeaves(out *[]Piece) {
	if n.leaf {
		*out = append(*out, n.piece)
		return
	}
	n.left.collectLeaves(out)
	n.right.collectLeaves(out)
}

// findByOffset locates the leaf containing offset, given offset < n.totalBytes().
func (n *node) findByOffset(offset int) Info {
	if n.leaf {
		return Info{Piece: n.piece, OffsetInPiece: offset}
	}
	if offset < n.leftBytes {
		return n.left.findByOffset(offset)
	}
	return n.right.findByOffset(offset - n.leftBytes)
}

// Tree is the main piece table. Zero value is not usable; use New or Empty.
type Tree struct {
	root  *node
	total int
}

// New creates a piece tree with a single initial piece.
func New(location Location, offset, bytes int) *Tree {
	return &Tree{root: newLeaf(Piece{Location: location, Offset: offset, Bytes: bytes}), total: bytes}
}

// Empty creates a piece tree with no content.
func Empty() *Tree {
	return &Tree{root: newLeaf(Piece{}), total: 0}
}

// TotalBytes returns the total number of bytes represented by the tree.
func (t *Tree) TotalBytes() int { return t.total }

// Stats reports (totalBytes, depth, leafCount) for diagnostics and tests.
func (t *Tree) Stats() (int, int, int) {
	return t.total, t.root.depth(), t.root.countLeaves()
}

func buildBalanced(leaves []Piece) *node {
	if len(leaves) == 0 {
		return newLeaf(Piece{})
	}
	if len(leaves) == 1 {
		return newLeaf(leaves[0])
	}
	mid := len(leaves) / 2
	left := buildBalanced(leaves[:mid])
	right := buildBalanced(leaves[mid:])
	return newInternal(left, right)
}

func (t *Tree) rebalance() {
	var leaves []Piece
	t.root.collectLeaves(&leaves)
	t.root = buildBalanced(leaves)
}

// maxDepth mirrors the original implementation's 2*ceil(log2(leafCount)) bound.
func maxDepth(leafCount int) int {
	return 2 * int(math.Ceil(math.Log2(float64(leafCount))))
}

func (t *Tree) checkAndRebalance() {
	count := t.root.countLeaves()
	if count < 2 {
		return
	}
	if t.root.depth() > maxDepth(count) {
		t.rebalance()
	}
}

// FindByOffset returns the piece containing offset, or false if offset is
// out of range.
func (t *Tree) FindByOffset(offset int) (Info, bool) {
	if offset < 0 || offset >= t.total {
		return Info{}, false
	}
	return t.root.findByOffset(offset), true
}

// Insert splices a new piece of length bytes (referencing location at
// buffer offset bufOffset) into the tree at document offset. offset must
// be in [0, TotalBytes()]. A zero-length insert is a no-op.
func (t *Tree) Insert(offset int, location Location, bufOffset, bytes int) {
	if bytes == 0 {
		return
	}
	if offset < 0 || offset > t.total {
		return
	}

	newPiece := Piece{Location: location, Offset: bufOffset, Bytes: bytes}

	var leaves []Piece
	if offset == t.total {
		// Past every leaf: collectWithSplit's per-leaf switch has no case for
		// this (splitOffset never falls inside or at the start of any piece),
		// so append after the existing leaves directly.
		t.root.collectLeaves(&leaves)
		leaves = append(leaves, newPiece)
	} else {
		collectWithSplit(t.root, 0, offset, &newPiece, &leaves)
	}
	t.root = buildBalanced(leaves)
	t.total += bytes
	t.checkAndRebalance()
}

func collectWithSplit(n *node, currentOffset, splitOffset int, insert *Piece, out *[]Piece) {
	if !n.leaf {
		collectWithSplit(n.left, currentOffset, splitOffset, insert, out)
		collectWithSplit(n.right, currentOffset+n.leftBytes, splitOffset, insert, out)
		return
	}

	p := n.piece
	pieceEnd := currentOffset + p.Bytes

	switch {
	case splitOffset > currentOffset && splitOffset < pieceEnd:
		offsetInPiece := splitOffset - currentOffset
		if offsetInPiece > 0 {
			*out = append(*out, Piece{Location: p.Location, Offset: p.Offset, Bytes: offsetInPiece})
		}
		if insert != nil {
			*out = append(*out, *insert)
		}
		if remaining := p.Bytes - offsetInPiece; remaining > 0 {
			*out = append(*out, Piece{Location: p.Location, Offset: p.Offset + offsetInPiece, Bytes: remaining})
		}
	case splitOffset == currentOffset:
		if insert != nil {
			*out = append(*out, *insert)
		}
		*out = append(*out, p)
	default:
		*out = append(*out, p)
	}
}

// Delete removes deleteBytes bytes starting at offset, clamped to the
// document's length. A zero-length or out-of-range delete is a no-op.
func (t *Tree) Delete(offset, deleteBytes int) {
	if deleteBytes == 0 || offset < 0 || offset >= t.total {
		return
	}
	if deleteBytes > t.total-offset {
		deleteBytes = t.total - offset
	}
	endOffset := offset + deleteBytes

	var leaves []Piece
	collectWithDelete(t.root, 0, offset, endOffset, &leaves)
	t.root = buildBalanced(leaves)
	t.total -= deleteBytes
	t.checkAndRebalance()
}

func collectWithDelete(n *node, currentOffset, delStart, delEnd int, out *[]Piece) {
	if !n.leaf {
		collectWithDelete(n.left, currentOffset, delStart, delEnd, out)
		collectWithDelete(n.right, currentOffset+n.leftBytes, delStart, delEnd, out)
		return
	}

	p := n.piece
	pieceStart := currentOffset
	pieceEnd := currentOffset + p.Bytes

	if pieceEnd <= delStart || pieceStart >= delEnd {
		*out = append(*out, p)
		return
	}

	if pieceStart < delStart {
		keepBytes := delStart - pieceStart
		*out = append(*out, Piece{Location: p.Location, Offset: p.Offset, Bytes: keepBytes})
	}
	if pieceEnd > delEnd {
		skipBytes := delEnd - pieceStart
		keepBytes := pieceEnd - delEnd
		*out = append(*out, Piece{Location: p.Location, Offset: p.Offset + skipBytes, Bytes: keepBytes})
	}
}

// Pieces returns the ordered list of pieces making up the document, used
// by the text buffer to materialize byte ranges.
func (t *Tree) Pieces() []Piece {
	var leaves []Piece
	t.root.collectLeaves(&leaves)
	return leaves
}
