package hamt

import (
	"fmt"
	"strings"
)

// node is the tagged-union root of the trie: every slot of a
// bitmapNode holds either nothing, an inline (key,value) pair, or a
// pointer to a node (bitmapNode or collisionNode). The inline/branch
// distinction is carried entirely in the parent's 2-bit slot code
// (see bits.go), never in the type of node itself; node only
// distinguishes "subtree with more than one entry reachable through a
// child pointer" between bitmapNode and collisionNode.
type node interface {
	String() string
	count() int
}

// emptyNode is the single shared sentinel root for an empty map.
var emptyNode = &bitmapNode{}

// bitmapNode addresses up to 32 children. bitmap holds 2 bits per
// slot (00 empty, 01 branch, 11 inline). branches and pairs are
// packed, ascending-slot-order parallel arrays: a parallel-array
// layout is one of the array representations spec.md's Design Notes
// call out as equivalent to a single mixed array.
type bitmapNode struct {
	bitmap   uint64
	branches []node
	pairs    []mapEntry
	ents     int // cached count of entries in this node's whole subtree
	owner    ownerToken
}

func (n *bitmapNode) count() int { return n.ents }

func (n *bitmapNode) String() string {
	nb, ni := popcountAll(n.bitmap)
	return fmt.Sprintf("bitmapNode{branches:%d, inline:%d, count:%d}", nb, ni, n.ents)
}

// LongString recursively dumps the subtree for debugging, matching
// the teacher's compressed_table.go/full_table.go LongString style.
func (n *bitmapNode) LongString(indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sbitmapNode{count:%d,\n", indent, n.ents)
	nb, ni := popcountAll(n.bitmap)
	for slot := uint(0); slot < TableCapacity; slot++ {
		switch slotCode(n.bitmap, slot) {
		case slotBranch:
			pos, _ := below(n.bitmap, slot)
			child := n.branches[pos]
			fmt.Fprintf(&b, "%s  [%02d] branch ->\n", indent, slot)
			if bn, ok := child.(*bitmapNode); ok {
				b.WriteString(bn.LongString(indent + "    "))
			} else if cn, ok := child.(*collisionNode); ok {
				b.WriteString(cn.LongString(indent + "    "))
			}
		case slotInline:
			_, pos := below(n.bitmap, slot)
			e := n.pairs[pos]
			fmt.Fprintf(&b, "%s  [%02d] inline %s -> %v\n", indent, slot, e.key, e.val)
		}
	}
	fmt.Fprintf(&b, "%s}end (branches=%d, inline=%d)\n", indent, nb, ni)
	return b.String()
}

// getBranch/getPair fetch a slot's payload; callers must check
// slotCode first.
func (n *bitmapNode) getBranch(slot uint) node {
	pos, _ := below(n.bitmap, slot)
	return n.branches[pos]
}

func (n *bitmapNode) getPair(slot uint) mapEntry {
	_, pos := below(n.bitmap, slot)
	return n.pairs[pos]
}

// collisionNode holds every key/value pair whose 32-bit hash is
// identical. assoc creates one only below a bitmapNode at level
// MaxDepth, once two keys' slot indices have agreed at every level.
// Per spec.md §3's invariants, a collisionNode always has >= 2 pairs;
// a would-be singleton is collapsed into the parent as an inline
// entry instead (see dissoc.go).
type collisionNode struct {
	hash  uint32
	pairs []mapEntry
	owner ownerToken
}

func (n *collisionNode) count() int { return len(n.pairs) }

func (n *collisionNode) String() string {
	return fmt.Sprintf("collisionNode{hash:%08x, count:%d}", n.hash, len(n.pairs))
}

func (n *collisionNode) LongString(indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%scollisionNode{hash:%08x,\n", indent, n.hash)
	for _, e := range n.pairs {
		fmt.Fprintf(&b, "%s  %s -> %v\n", indent, e.key, e.val)
	}
	b.WriteString(indent + "}end\n")
	return b.String()
}

// find locates key's value (if any) within the collisionNode.
func (n *collisionNode) find(k Key) (int, bool) {
	for i, e := range n.pairs {
		if e.key.Equal(k) {
			return i, true
		}
	}
	return -1, false
}
