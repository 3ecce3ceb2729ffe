package hamt

// seqFrame is one level of a Seq's traversal stack: either a
// bitmapNode with the next slot to examine, or a collisionNode with
// the next pair index. This generalizes the teacher's hamt32/path.go
// pathT, which only ever recorded a write path top-down; here the
// same stack-of-frames shape drives a resumable, pull-based read
// traversal instead.
type seqFrame struct {
	bn   *bitmapNode
	cn   *collisionNode
	slot uint
}

// Seq is a lazy, stateful cursor over a Map's entries in slot order.
// Each call to Next advances it by exactly one entry; nothing beyond
// the current frame stack is materialized.
type Seq struct {
	stack []seqFrame
}

func newSeq(root node) *Seq {
	s := &Seq{stack: make([]seqFrame, 0, MaxDepth+1)}
	s.push(root)
	return s
}

func (s *Seq) push(n node) {
	switch t := n.(type) {
	case *bitmapNode:
		s.stack = append(s.stack, seqFrame{bn: t})
	case *collisionNode:
		s.stack = append(s.stack, seqFrame{cn: t})
	}
}

// Next returns the next (key, value) pair, or ok=false once the
// sequence is exhausted.
func (s *Seq) Next() (k Key, v interface{}, ok bool) {
	for len(s.stack) > 0 {
		top := &s.stack[len(s.stack)-1]

		if top.cn != nil {
			if int(top.slot) >= len(top.cn.pairs) {
				s.stack = s.stack[:len(s.stack)-1]
				continue
			}
			e := top.cn.pairs[top.slot]
			top.slot++
			return e.key, e.val, true
		}

		bn := top.bn
		if top.slot >= TableCapacity {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		slot := top.slot
		top.slot++

		switch slotCode(bn.bitmap, slot) {
		case slotEmpty:
			continue
		case slotInline:
			_, pos := below(bn.bitmap, slot)
			e := bn.pairs[pos]
			return e.key, e.val, true
		case slotBranch:
			pos, _ := below(bn.bitmap, slot)
			s.push(bn.branches[pos])
			continue
		}
	}
	return nil, nil, false
}

// Iterator is Seq's eager counterpart: the whole map is walked up
// front, and HasNext/Next replay the captured entries. Use this when
// the caller wants a snapshot it can hold onto regardless of what
// happens to the Map afterward (the Map is persistent, so this is
// mostly a convenience, not a safety requirement).
type Iterator struct {
	entries []mapEntry
	idx     int
}

func newIterator(root node) *Iterator {
	it := &Iterator{}
	s := newSeq(root)
	for {
		k, v, ok := s.Next()
		if !ok {
			break
		}
		it.entries = append(it.entries, mapEntry{k, v})
	}
	return it
}

func (it *Iterator) HasNext() bool { return it.idx < len(it.entries) }

func (it *Iterator) Next() (Key, interface{}, bool) {
	if !it.HasNext() {
		return nil, nil, false
	}
	e := it.entries[it.idx]
	it.idx++
	return e.key, e.val, true
}

// KVReduceFunc folds one (key, value) pair into an accumulator.
type KVReduceFunc func(acc interface{}, k Key, v interface{}) interface{}

func kvReduce(root node, init interface{}, fn KVReduceFunc) interface{} {
	acc := init
	s := newSeq(root)
	for {
		k, v, ok := s.Next()
		if !ok {
			return acc
		}
		acc = fn(acc, k, v)
	}
}
