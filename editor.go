package hamt

import (
	"github.com/google/uuid"
	atomicpkg "go.uber.org/atomic"
)

// ownerToken is the opaque identity a transient editor tags its
// in-place-mutable nodes with (spec.md §3/§4.7). The zero value means
// "no owner" (a frozen, persistent node); a non-zero value is a
// uuid.UUID minted once per Transient. Comparable with ==.
type ownerToken struct {
	id    uuid.UUID
	valid bool
}

func (t ownerToken) equal(o ownerToken) bool {
	return t.valid && o.valid && t.id == o.id
}

func newOwnerToken() ownerToken {
	return ownerToken{id: uuid.New(), valid: true}
}

// editor is the strategy object every HAMT algorithm routes mutation
// through (spec.md §4.7): persistentEditor always copies; a
// transientEditor mutates a node in place when it already carries the
// transient's token, and copies (tagging the copy) otherwise.
type editor interface {
	// editBitmapNode returns a bitmapNode the caller may mutate
	// in place, copying n first unless n is already owned by this
	// editor.
	editBitmapNode(n *bitmapNode) *bitmapNode
	// editCollisionNode is the collisionNode equivalent.
	editCollisionNode(n *collisionNode) *collisionNode
	// owns reports whether this editor may mutate n in place.
	owns(owner ownerToken) bool
	// ownerTag is the token brand-new nodes created by this editor
	// should carry, so that a later mutation by the same editor can
	// edit them in place instead of copying again.
	ownerTag() ownerToken
}

// persistentEditor never mutates in place; every call returns a fresh
// node sized exactly to hold the result (spec.md §4.7).
type persistentEditor struct{}

func (persistentEditor) owns(ownerToken) bool { return false }

func (persistentEditor) ownerTag() ownerToken { return ownerToken{} }

func (persistentEditor) editBitmapNode(n *bitmapNode) *bitmapNode {
	nn := &bitmapNode{
		bitmap: n.bitmap,
		ents:   n.ents,
	}
	nn.branches = append(nn.branches, n.branches...)
	nn.pairs = append(nn.pairs, n.pairs...)
	return nn
}

func (persistentEditor) editCollisionNode(n *collisionNode) *collisionNode {
	nn := &collisionNode{hash: n.hash}
	nn.pairs = append(nn.pairs, n.pairs...)
	return nn
}

// growthSlack is the number of extra cells a transientEditor
// allocates beyond what's needed for the current mutation, so that a
// sequence of inserts into the same node doesn't reallocate every
// time. This is the teacher's full_table.go fixed-capacity-array idea
// (see DESIGN.md), repurposed from static cardinality grading to
// transient write amplification.
var growthSlack = 4

// transientEditor mutates nodes in place once they're tagged with its
// token; everything else it copies and tags, the same way
// persistentEditor would, but with slack capacity reserved in the
// backing arrays.
type transientEditor struct {
	token ownerToken
	live  *atomicpkg.Bool
}

func newTransientEditor() *transientEditor {
	return &transientEditor{token: newOwnerToken(), live: atomicpkg.NewBool(true)}
}

func (e *transientEditor) owns(owner ownerToken) bool {
	return e.live.Load() && e.token.equal(owner)
}

func (e *transientEditor) ownerTag() ownerToken { return e.token }

func (e *transientEditor) editBitmapNode(n *bitmapNode) *bitmapNode {
	if e.owns(n.owner) {
		return n
	}
	nn := &bitmapNode{
		bitmap: n.bitmap,
		ents:   n.ents,
		owner:  e.token,
	}
	nn.branches = make([]node, len(n.branches), len(n.branches)+growthSlack)
	copy(nn.branches, n.branches)
	nn.pairs = make([]mapEntry, len(n.pairs), len(n.pairs)+growthSlack)
	copy(nn.pairs, n.pairs)
	return nn
}

func (e *transientEditor) editCollisionNode(n *collisionNode) *collisionNode {
	if e.owns(n.owner) {
		return n
	}
	nn := &collisionNode{hash: n.hash, owner: e.token}
	nn.pairs = make([]mapEntry, len(n.pairs), len(n.pairs)+growthSlack)
	copy(nn.pairs, n.pairs)
	return nn
}

// invalidate clears liveness; called once by Transient.Persistent().
func (e *transientEditor) invalidate() {
	e.live.Store(false)
}
