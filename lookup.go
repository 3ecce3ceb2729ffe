package hamt

// lookupNode walks n for key k hashed to h, starting at level. It
// never allocates and never mutates; branch-free apart from the
// three-way dispatch spec.md §4.2 describes.
func lookupNode(n node, level uint, h uint32, k Key) (interface{}, bool) {
	for {
		switch t := n.(type) {
		case *bitmapNode:
			slot := slotIndex(h, level)
			switch slotCode(t.bitmap, slot) {
			case slotEmpty:
				return nil, false
			case slotInline:
				_, pos := below(t.bitmap, slot)
				e := t.pairs[pos]
				if e.key.Equal(k) {
					return e.val, true
				}
				return nil, false
			case slotBranch:
				pos, _ := below(t.bitmap, slot)
				n = t.branches[pos]
				level += Nbits
				continue
			default:
				panic("hamt: lookupNode: unreachable slot code")
			}
		case *collisionNode:
			if t.hash != h {
				return nil, false
			}
			if idx, found := t.find(k); found {
				return t.pairs[idx].val, true
			}
			return nil, false
		default:
			panic("hamt: lookupNode: unreachable node type")
		}
	}
}
