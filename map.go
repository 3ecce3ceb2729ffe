package hamt

// Map is a persistent, immutable associative array backed by the
// hash array mapped trie implemented across the rest of this package.
// The zero Map is not valid; use Empty.
type Map struct {
	root node
	n    int
}

// Empty returns the empty Map. All Maps are built up from this one
// value via Assoc, Dissoc, AsTransient, or Merge.
func Empty() Map {
	return Map{root: emptyNode}
}

// Count returns the number of entries in m.
func (m Map) Count() int { return m.n }

// Lookup returns k's value and whether k is present.
func (m Map) Lookup(k Key) (interface{}, bool) {
	return lookupNode(m.root, 0, k.Hash(), k)
}

// Contains reports whether k is present.
func (m Map) Contains(k Key) bool {
	_, found := m.Lookup(k)
	return found
}

// Assoc returns a new Map with k bound to v, along with k's prior
// value and whether it was already present. m is unmodified.
func (m Map) Assoc(k Key, v interface{}) (Map, interface{}, bool) {
	old, found := m.Lookup(k)
	newRoot, delta := assocNode(persistentEditor{}, m.root, 0, k.Hash(), k, v)
	return Map{root: newRoot, n: m.n + delta}, old, found
}

// AssocStrict is Assoc's contract-checked sibling: it fails with an
// IsContractViolation error instead of silently overwriting an
// existing key.
func (m Map) AssocStrict(k Key, v interface{}) (Map, error) {
	if m.Contains(k) {
		return m, errAlreadyPresent(k)
	}
	newRoot, delta := assocNode(persistentEditor{}, m.root, 0, k.Hash(), k, v)
	return Map{root: newRoot, n: m.n + delta}, nil
}

// Dissoc returns a new Map with k removed, along with its prior value
// and whether it was present. m is unmodified.
func (m Map) Dissoc(k Key) (Map, interface{}, bool) {
	newRoot, survivor, val, deleted := dissocNode(persistentEditor{}, m.root, 0, k.Hash(), k)
	if !deleted {
		return m, nil, false
	}
	var root node
	switch {
	case survivor != nil:
		root = singletonNode(0, *survivor)
	case newRoot == nil || newRoot.count() == 0:
		// The root is the one node allowed to hold fewer than two
		// entries (even zero), but an emptied-out root is
		// canonicalized back to the shared emptyNode sentinel so
		// every empty Map, however it got there, shares one pointer.
		root = emptyNode
	default:
		root = newRoot
	}
	return Map{root: root, n: m.n - 1}, val, true
}

// AsTransient is defined in transient.go.

// Seq returns a lazy cursor over m's entries.
func (m Map) Seq() *Seq { return newSeq(m.root) }

// Iterator returns an eager cursor over m's entries.
func (m Map) Iterator() *Iterator { return newIterator(m.root) }

// KVReduce folds fn over every (key, value) pair in m, in slot order,
// starting from init.
func (m Map) KVReduce(init interface{}, fn KVReduceFunc) interface{} {
	return kvReduce(m.root, init, fn)
}

// Merge performs the three-way structural merge of spec.md §4.6:
// ancestor is the common predecessor of m ("a") and other ("b"). Keys
// changed identically on both sides, or only on one side, resolve
// automatically; a key changed differently on both sides is handed to
// conflict, whose result (or NotFound, to delete) becomes the merged
// value. An error from conflict aborts the merge.
func (m Map) Merge(ancestor, other Map, conflict ConflictFunc) (Map, error) {
	root, solo, err := mergeNode(ancestor.root, m.root, other.root, 0, conflict)
	if err != nil {
		return Map{}, err
	}
	switch {
	case solo != nil:
		return Map{root: singletonNode(0, *solo), n: 1}, nil
	case root == nil:
		return Empty(), nil
	default:
		return Map{root: root, n: root.count()}, nil
	}
}

// LongString renders m's full trie structure for diagnostics, in the
// teacher's indentation style (hamt32's table dumps).
func (m Map) LongString() string {
	switch t := m.root.(type) {
	case *bitmapNode:
		return t.LongString("")
	case *collisionNode:
		return t.LongString("")
	default:
		return "<empty>"
	}
}

func (m Map) String() string {
	return m.LongString()
}
