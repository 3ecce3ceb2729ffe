package hamt

// notFoundType is the sentinel passed to a ConflictFunc in place of a
// value that is absent from one of the three maps being merged, and
// that a ConflictFunc may itself return to mean "delete this key".
type notFoundType struct{}

func (notFoundType) String() string { return "hamt.NotFound" }

// NotFound is spec.md §4.6's not_found: the conflict-function
// argument standing in for "this key is absent here", and the value a
// ConflictFunc returns to delete the key from the merge result.
var NotFound interface{} = notFoundType{}

// ConflictFunc reconciles a single key's value across the common
// ancestor and the two descendants being merged. Any argument is
// NotFound when the key was absent from that map. Returning NotFound
// deletes the key from the merged result. An error aborts the whole
// merge.
type ConflictFunc func(ancestor, a, b interface{}) (interface{}, error)

// mergeNode is the recursive core of spec.md §4.6's three-way
// structural merge. ancestor, a, and b are the subtrees rooted at the
// same slot path (level); a nil node means that subtree is absent
// there. The return contract mirrors dissocNode's collapse signal:
//
//	result == nil, solo == nil   -> the merged subtree is empty
//	result == nil, solo != nil   -> exactly one entry survives
//	result != nil                -> a node for the merged subtree; a
//	                                fast path may hand back an input
//	                                unchanged, even a one-entry
//	                                singleton from toNodeForm
func mergeNode(ancestor, a, b node, level uint, conflict ConflictFunc) (result node, solo *mapEntry, err error) {
	// Pointer-identity fast paths (spec.md §4.6): much of the
	// ancestry is typically shared, so most calls bottom out here
	// without ever looking at a slot.
	if ancestor == a {
		return b, nil, nil
	}
	if ancestor == b || a == b {
		return a, nil, nil
	}

	if hasCollision(ancestor) || hasCollision(a) || hasCollision(b) {
		return mergeViaFlatten(ancestor, a, b, level, conflict)
	}

	ab, _ := ancestor.(*bitmapNode)
	aa, _ := a.(*bitmapNode)
	bb, _ := b.(*bitmapNode)
	return mergeBitmapTriple(ab, aa, bb, level, conflict)
}

func hasCollision(n node) bool {
	_, ok := n.(*collisionNode)
	return ok
}

func mergeBitmapTriple(ab, aa, bb *bitmapNode, level uint, conflict ConflictFunc) (node, *mapEntry, error) {
	var branches []node
	var pairs []mapEntry
	var bitmap uint64
	total := 0

	for slot := uint(0); slot < TableCapacity; slot++ {
		ak, an := slotPeek(ab, slot)
		xk, xn := slotPeek(aa, slot)
		yk, yn := slotPeek(bb, slot)

		if ak == nil && an == nil && xk == nil && xn == nil && yk == nil && yn == nil {
			continue
		}

		if an == nil && xn == nil && yn == nil && sameKeyOrAbsent(ak, xk, yk) {
			key := firstKey(ak, xk, yk)
			resultVal, keep, err := reconcileValue(
				absentOrVal(ak), absentOrVal(xk), absentOrVal(yk),
				ak != nil, xk != nil, yk != nil, conflict)
			if err != nil {
				return nil, nil, err
			}
			if !keep {
				continue
			}
			bitmap = withSlotCode(bitmap, slot, slotInline)
			pairs = append(pairs, mapEntry{key, resultVal})
			total++
			continue
		}

		ancN := toNodeForm(an, ak, level+Nbits)
		aN := toNodeForm(xn, xk, level+Nbits)
		bN := toNodeForm(yn, yk, level+Nbits)

		childResult, childSolo, err := mergeNode(ancN, aN, bN, level+Nbits, conflict)
		if err != nil {
			return nil, nil, err
		}

		switch {
		case childResult == nil && childSolo == nil:
			continue
		case childSolo != nil:
			bitmap = withSlotCode(bitmap, slot, slotInline)
			pairs = append(pairs, *childSolo)
			total++
		case childResult.count() == 1:
			bitmap = withSlotCode(bitmap, slot, slotInline)
			pairs = append(pairs, flattenEntries(childResult)[0])
			total++
		default:
			bitmap = withSlotCode(bitmap, slot, slotBranch)
			branches = append(branches, childResult)
			total += childResult.count()
		}
	}

	if total == 0 {
		return nil, nil, nil
	}
	if total == 1 {
		return nil, &pairs[0], nil
	}
	return &bitmapNode{bitmap: bitmap, branches: branches, pairs: pairs, ents: total}, nil, nil
}

// slotPeek reads a slot of bn (nil-safe) without copying more than a
// single entry value.
func slotPeek(bn *bitmapNode, slot uint) (*mapEntry, node) {
	if bn == nil {
		return nil, nil
	}
	switch slotCode(bn.bitmap, slot) {
	case slotInline:
		_, pos := below(bn.bitmap, slot)
		e := bn.pairs[pos]
		return &e, nil
	case slotBranch:
		pos, _ := below(bn.bitmap, slot)
		return nil, bn.branches[pos]
	default:
		return nil, nil
	}
}

func sameKeyOrAbsent(es ...*mapEntry) bool {
	var key Key
	for _, e := range es {
		if e == nil {
			continue
		}
		if key == nil {
			key = e.key
			continue
		}
		if !key.Equal(e.key) {
			return false
		}
	}
	return true
}

func firstKey(es ...*mapEntry) Key {
	for _, e := range es {
		if e != nil {
			return e.key
		}
	}
	return nil
}

func absentOrVal(e *mapEntry) interface{} {
	if e == nil {
		return NotFound
	}
	return e.val
}

func toNodeForm(child node, entry *mapEntry, level uint) node {
	if child != nil {
		return child
	}
	if entry != nil {
		return singletonNode(level, *entry)
	}
	return nil
}

// singletonNode wraps a single entry as a throw-away one-entry
// subtree so it can be fed into the general recursive merge as if it
// were a branch, per spec.md §9's "promote the inline side into a
// throw-away singleton of the right shape and recurse".
func singletonNode(level uint, e mapEntry) *bitmapNode {
	slot := slotIndex(e.key.Hash(), level)
	bn := &bitmapNode{ents: 1}
	bn.bitmap = withSlotCode(0, slot, slotInline)
	bn.pairs = []mapEntry{e}
	return bn
}

// reconcileValue implements the per-key reconciliation table of
// spec.md §4.6.
func reconcileValue(ancVal, aVal, bVal interface{}, ancPresent, aPresent, bPresent bool, conflict ConflictFunc) (interface{}, bool, error) {
	switch {
	case !ancPresent && !aPresent && !bPresent:
		return nil, false, nil

	case !ancPresent && aPresent && !bPresent:
		return aVal, true, nil
	case !ancPresent && !aPresent && bPresent:
		return bVal, true, nil
	case !ancPresent && aPresent && bPresent:
		if valuesIdentical(aVal, bVal) {
			return aVal, true, nil
		}
		return applyConflict(conflict, NotFound, aVal, bVal)

	case ancPresent && !aPresent && !bPresent:
		return nil, false, nil

	case ancPresent && aPresent && !bPresent:
		if valuesIdentical(aVal, ancVal) {
			return nil, false, nil
		}
		return applyConflict(conflict, ancVal, aVal, NotFound)

	case ancPresent && !aPresent && bPresent:
		if valuesIdentical(bVal, ancVal) {
			return nil, false, nil
		}
		return applyConflict(conflict, ancVal, NotFound, bVal)

	default: // ancPresent && aPresent && bPresent
		aChanged := !valuesIdentical(aVal, ancVal)
		bChanged := !valuesIdentical(bVal, ancVal)
		switch {
		case !aChanged && !bChanged:
			return ancVal, true, nil
		case aChanged && !bChanged:
			return aVal, true, nil
		case !aChanged && bChanged:
			return bVal, true, nil
		default:
			if valuesIdentical(aVal, bVal) {
				return aVal, true, nil
			}
			return applyConflict(conflict, ancVal, aVal, bVal)
		}
	}
}

func applyConflict(conflict ConflictFunc, ancVal, aVal, bVal interface{}) (interface{}, bool, error) {
	res, err := conflict(ancVal, aVal, bVal)
	if err != nil {
		return nil, false, err
	}
	if res == NotFound {
		return nil, false, nil
	}
	return res, true, nil
}

// mergeViaFlatten handles the cases spec.md §9 calls out as needing
// the collision-node path: a flat per-key reconciliation over every
// entry reachable from ancestor/a/b at this slot, used whenever a
// collisionNode is involved on any side. It trades the structural
// fast path for simplicity; see DESIGN.md.
func mergeViaFlatten(ancestor, a, b node, level uint, conflict ConflictFunc) (node, *mapEntry, error) {
	ancE := flattenEntries(ancestor)
	aE := flattenEntries(a)
	bE := flattenEntries(b)

	merged, err := reconcileLists(ancE, aE, bE, conflict)
	if err != nil {
		return nil, nil, err
	}
	return rebuildFromEntries(merged, level)
}

func flattenEntries(n node) []mapEntry {
	switch t := n.(type) {
	case nil:
		return nil
	case *collisionNode:
		return append([]mapEntry(nil), t.pairs...)
	case *bitmapNode:
		var out []mapEntry
		for slot := uint(0); slot < TableCapacity; slot++ {
			switch slotCode(t.bitmap, slot) {
			case slotInline:
				_, pos := below(t.bitmap, slot)
				out = append(out, t.pairs[pos])
			case slotBranch:
				pos, _ := below(t.bitmap, slot)
				out = append(out, flattenEntries(t.branches[pos])...)
			}
		}
		return out
	default:
		return nil
	}
}

type triEntry struct {
	key                            Key
	ancVal, aVal, bVal             interface{}
	ancPresent, aPresent, bPresent bool
}

func reconcileLists(ancE, aE, bE []mapEntry, conflict ConflictFunc) ([]mapEntry, error) {
	var combined []triEntry
	findOrAdd := func(k Key) *triEntry {
		for i := range combined {
			if combined[i].key.Equal(k) {
				return &combined[i]
			}
		}
		combined = append(combined, triEntry{key: k})
		return &combined[len(combined)-1]
	}
	for _, e := range ancE {
		t := findOrAdd(e.key)
		t.ancVal, t.ancPresent = e.val, true
	}
	for _, e := range aE {
		t := findOrAdd(e.key)
		t.aVal, t.aPresent = e.val, true
	}
	for _, e := range bE {
		t := findOrAdd(e.key)
		t.bVal, t.bPresent = e.val, true
	}

	var out []mapEntry
	for _, t := range combined {
		av, xv, yv := interface{}(NotFound), interface{}(NotFound), interface{}(NotFound)
		if t.ancPresent {
			av = t.ancVal
		}
		if t.aPresent {
			xv = t.aVal
		}
		if t.bPresent {
			yv = t.bVal
		}
		res, keep, err := reconcileValue(av, xv, yv, t.ancPresent, t.aPresent, t.bPresent, conflict)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, mapEntry{t.key, res})
		}
	}
	return out, nil
}

// rebuildFromEntries re-inserts a flat entry list as a subtree rooted
// at level, via the same assocNode primitive the normal insert path
// uses (so the result is invariant-correct by construction).
func rebuildFromEntries(entries []mapEntry, level uint) (node, *mapEntry, error) {
	switch len(entries) {
	case 0:
		return nil, nil, nil
	case 1:
		return nil, &entries[0], nil
	default:
		var result node = emptyNode
		for _, e := range entries {
			result, _ = assocNode(persistentEditor{}, result, level, e.key.Hash(), e.key, e.val)
		}
		return result, nil, nil
	}
}
