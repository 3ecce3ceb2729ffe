package hamt

// Transient is a single-owner, batch-mutable view over a Map (spec.md
// §4.7/§4.8). It starts from a persistent root and mutates nodes in
// place once they carry its owner token, copying only the first time
// each node is touched; Persistent() seals it into an ordinary
// immutable Map and disables any further use of the Transient.
//
// A Transient is not safe for concurrent use, and its owner token is
// the only check this package can make in pure Go (there is no
// portable way to pin it to a single goroutine); see DESIGN.md.
type Transient struct {
	root   node
	n      int
	editor *transientEditor
}

// AsTransient opens a batch-edit view of m. The returned Transient
// shares m's structure until mutated; m itself is never modified.
func (m Map) AsTransient() *Transient {
	return &Transient{root: m.root, n: m.n, editor: newTransientEditor()}
}

// Assoc inserts or replaces k's value in place, returning the prior
// value and whether k was already present. Returns an error if the
// Transient has already been published.
func (t *Transient) Assoc(k Key, v interface{}) (interface{}, bool, error) {
	if !t.editor.live.Load() {
		return nil, false, errTransientPublished
	}
	old, found := lookupNode(t.root, 0, k.Hash(), k)
	newRoot, delta := assocNode(t.editor, t.root, 0, k.Hash(), k, v)
	t.root = newRoot
	t.n += delta
	return old, found, nil
}

// Dissoc removes k in place, returning its value and whether it was
// present. Returns an error if the Transient has already been
// published.
func (t *Transient) Dissoc(k Key) (interface{}, bool, error) {
	if !t.editor.live.Load() {
		return nil, false, errTransientPublished
	}
	newRoot, survivor, val, deleted := dissocNode(t.editor, t.root, 0, k.Hash(), k)
	if !deleted {
		return nil, false, nil
	}
	if survivor != nil {
		t.root = singletonNode(0, *survivor)
	} else if newRoot == nil || newRoot.count() == 0 {
		t.root = emptyNode
	} else {
		t.root = newRoot
	}
	t.n--
	return val, true, nil
}

// Lookup reads k without requiring ownership; it works the same way
// before and after publication.
func (t *Transient) Lookup(k Key) (interface{}, bool) {
	return lookupNode(t.root, 0, k.Hash(), k)
}

// Count returns the number of entries currently held.
func (t *Transient) Count() int { return t.n }

// Persistent seals this Transient into an ordinary Map. After this
// call, Assoc and Dissoc on t return errTransientPublished, while
// Lookup and Count keep reading the sealed contents without error; the
// returned Map is safe to share freely.
func (t *Transient) Persistent() Map {
	t.editor.invalidate()
	return Map{root: t.root, n: t.n}
}
