package hamt

// valuesIdentical implements the "value ≡ v (identity)" comparison
// spec.md §4.3 calls for. interface{} values are compared with ==
// when their dynamic type is comparable; a value of a non-comparable
// dynamic type (slice, map, func) can never be identical to another
// by this check, so assoc falls back to always replacing it, which is
// always correct, only occasionally more conservative than necessary.
func valuesIdentical(a, b interface{}) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// assocNode inserts or replaces (k, v) under n, rooted at the given
// bit-shift level, returning the (possibly new) node and the change
// in subtree entry count (0 or +1). Pointer-identity on the returned
// node signals "no change" so callers can short-circuit up the path,
// per spec.md §4.3.
func assocNode(e editor, n node, level uint, h uint32, k Key, v interface{}) (node, int) {
	switch t := n.(type) {
	case *bitmapNode:
		return assocBitmapNode(e, t, level, h, k, v)
	case *collisionNode:
		return assocCollisionNode(e, t, h, k, v)
	default:
		panic("hamt: assocNode: unreachable node type")
	}
}

func assocBitmapNode(e editor, t *bitmapNode, level uint, h uint32, k Key, v interface{}) (node, int) {
	slot := slotIndex(h, level)
	switch slotCode(t.bitmap, slot) {

	case slotEmpty:
		nn := e.editBitmapNode(t)
		_, pos := below(nn.bitmap, slot)
		nn.bitmap = withSlotCode(nn.bitmap, slot, slotInline)
		nn.pairs = insertPair(nn.pairs, pos, mapEntry{k, v})
		nn.ents++
		return nn, 1

	case slotBranch:
		pos, _ := below(t.bitmap, slot)
		child := t.branches[pos]
		newChild, delta := assocNode(e, child, level+Nbits, h, k, v)
		if delta == 0 && newChild == child {
			return t, 0
		}
		nn := e.editBitmapNode(t)
		pos, _ = below(nn.bitmap, slot)
		nn.branches[pos] = newChild
		nn.ents += delta
		return nn, delta

	case slotInline:
		_, pos := below(t.bitmap, slot)
		existing := t.pairs[pos]
		if existing.key.Equal(k) {
			if valuesIdentical(existing.val, v) {
				return t, 0
			}
			nn := e.editBitmapNode(t)
			_, pos = below(nn.bitmap, slot)
			nn.pairs[pos] = mapEntry{existing.key, v}
			return nn, 0
		}

		// Promote: the slot must become a branch holding both the
		// existing inline entry and the new key.
		hk := existing.key.Hash()
		child := buildChain(e, level+Nbits, existing, hk, mapEntry{k, v}, h)

		nn := e.editBitmapNode(t)
		_, oldPairPos := below(t.bitmap, slot)
		nn.pairs = removePair(nn.pairs, oldPairPos)
		nn.bitmap = withSlotCode(nn.bitmap, slot, slotBranch)
		newBranchPos, _ := below(nn.bitmap, slot)
		nn.branches = insertBranch(nn.branches, newBranchPos, child)
		nn.ents++
		return nn, 1

	default:
		panic("hamt: assocBitmapNode: unreachable slot code")
	}
}

func assocCollisionNode(e editor, t *collisionNode, h uint32, k Key, v interface{}) (node, int) {
	checkInvariant(t.hash == h, "hamt: assoc reached a collisionNode whose hash does not match the key's hash")

	if idx, found := t.find(k); found {
		if valuesIdentical(t.pairs[idx].val, v) {
			return t, 0
		}
		nn := e.editCollisionNode(t)
		nn.pairs[idx] = mapEntry{t.pairs[idx].key, v}
		return nn, 0
	}

	nn := e.editCollisionNode(t)
	nn.pairs = append(nn.pairs, mapEntry{k, v})
	return nn, 1
}

// buildChain constructs the subtree holding two entries whose hashes
// share every slot index from level up to the point they diverge (or,
// if they never diverge, all the way down through level MaxDepth,
// below which a collisionNode is the only option left). This mirrors the teacher's
// hamt32/compressed_table.go createCompressedTable push-down loop,
// generalized from 30-bit/6-level hashing to 32-bit/7-level hashing
// and written recursively; see DESIGN.md.
func buildChain(e editor, level uint, e1 mapEntry, h1 uint32, e2 mapEntry, h2 uint32) node {
	idx1 := slotIndex(h1, level)
	idx2 := slotIndex(h2, level)

	if idx1 != idx2 {
		bn := &bitmapNode{ents: 2, owner: e.ownerTag()}
		lo, hi := e1, e2
		if idx2 < idx1 {
			lo, hi = e2, e1
			idx1, idx2 = idx2, idx1
		}
		bn.bitmap = withSlotCode(0, idx1, slotInline)
		bn.bitmap = withSlotCode(bn.bitmap, idx2, slotInline)
		bn.pairs = []mapEntry{lo, hi}
		return bn
	}

	if level > Nbits*MaxDepth {
		checkInvariant(h1 == h2, "hamt: buildChain reached MaxDepth without equal hashes")
		return &collisionNode{hash: h1, pairs: []mapEntry{e1, e2}, owner: e.ownerTag()}
	}

	child := buildChain(e, level+Nbits, e1, h1, e2, h2)
	bn := &bitmapNode{ents: 2, owner: e.ownerTag()}
	bn.bitmap = withSlotCode(0, idx1, slotBranch)
	bn.branches = []node{child}
	return bn
}

func insertPair(pairs []mapEntry, pos int, e mapEntry) []mapEntry {
	pairs = append(pairs, mapEntry{})
	copy(pairs[pos+1:], pairs[pos:])
	pairs[pos] = e
	return pairs
}

func removePair(pairs []mapEntry, pos int) []mapEntry {
	copy(pairs[pos:], pairs[pos+1:])
	return pairs[:len(pairs)-1]
}

func insertBranch(branches []node, pos int, n node) []node {
	branches = append(branches, nil)
	copy(branches[pos+1:], branches[pos:])
	branches[pos] = n
	return branches
}

func removeBranch(branches []node, pos int) []node {
	copy(branches[pos:], branches[pos+1:])
	return branches[:len(branches)-1]
}
