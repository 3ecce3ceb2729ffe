package hamt

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicRoundTrip(t *testing.T) {
	m := Empty()

	m, old, found := m.Assoc(StringKey("a"), 1)
	assert.False(t, found)
	assert.Nil(t, old)
	m, _, _ = m.Assoc(StringKey("b"), 2)
	m, _, _ = m.Assoc(StringKey("c"), 3)
	require.Equal(t, 3, m.Count())

	v, found := m.Lookup(StringKey("b"))
	require.True(t, found)
	assert.Equal(t, 2, v)

	m, val, deleted := m.Dissoc(StringKey("b"))
	require.True(t, deleted)
	assert.Equal(t, 2, val)
	assert.Equal(t, 2, m.Count())

	_, found = m.Lookup(StringKey("b"))
	assert.False(t, found)
	v, found = m.Lookup(StringKey("a"))
	require.True(t, found)
	assert.Equal(t, 1, v)
}

func TestForcedCollision(t *testing.T) {
	k1 := fk("K1", 0xdeadbeef)
	k2 := fk("K2", 0xdeadbeef)

	m := Empty()
	m, _, _ = m.Assoc(k1, "x")
	m, _, _ = m.Assoc(k2, "y")

	require.True(t, containsCollisionNode(m.root), "two equal-hash keys must land in a collisionNode somewhere in the trie")
	assert.Equal(t, 2, m.Count())

	v, found := m.Lookup(k1)
	require.True(t, found)
	assert.Equal(t, "x", v)
	v, found = m.Lookup(k2)
	require.True(t, found)
	assert.Equal(t, "y", v)

	m, _, found = m.Assoc(k1, "z")
	require.True(t, found)
	v, _ = m.Lookup(k1)
	assert.Equal(t, "z", v)
	assert.Equal(t, 2, m.Count())

	m, _, deleted := m.Dissoc(k2)
	require.True(t, deleted)
	assert.Equal(t, 1, m.Count())

	_, isInline := m.root.(*bitmapNode)
	require.True(t, isInline, "collapsing a 2-entry collisionNode must leave an ordinary bitmapNode with an inline entry")
	v, found = m.Lookup(k1)
	require.True(t, found)
	assert.Equal(t, "z", v)
}

func containsCollisionNode(n node) bool {
	switch t := n.(type) {
	case *collisionNode:
		return true
	case *bitmapNode:
		for _, c := range t.branches {
			if containsCollisionNode(c) {
				return true
			}
		}
	}
	return false
}

func TestDeepChainCollapses(t *testing.T) {
	// Two keys that agree on every slot index except the very last
	// level force a full single-child chain down to MaxDepth.
	const shared = uint32(0x01010101)
	k1 := fk("D1", shared)
	k2 := fk("D2", shared^(1<<(Nbits*MaxDepth)))

	m := Empty()
	m, _, _ = m.Assoc(k1, 1)
	m, _, _ = m.Assoc(k2, 2)
	require.Equal(t, 2, m.Count())

	m, _, deleted := m.Dissoc(k2)
	require.True(t, deleted)
	assert.Equal(t, 1, m.Count())

	_, isBitmap := m.root.(*bitmapNode)
	require.True(t, isBitmap)
	bn := m.root.(*bitmapNode)
	_, inlineCount := popcountAll(bn.bitmap)
	assert.Equal(t, 1, inlineCount, "a single-child chain must collapse to one inline entry in one dissoc pass")

	v, found := m.Lookup(k1)
	require.True(t, found)
	assert.Equal(t, 1, v)
}

func TestAssocStrict(t *testing.T) {
	m := Empty()
	m, err := m.AssocStrict(StringKey("a"), 1)
	require.NoError(t, err)

	_, err = m.AssocStrict(StringKey("a"), 2)
	require.Error(t, err)
	assert.True(t, IsContractViolation(err))

	v, _ := m.Lookup(StringKey("a"))
	assert.Equal(t, 1, v, "a failed AssocStrict must not mutate the map")
}

func TestIterationVisitsEveryEntry(t *testing.T) {
	m := Empty()
	want := map[string]int{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}
	for k, v := range want {
		m, _, _ = m.Assoc(StringKey(k), v)
	}

	got := map[string]int{}
	it := m.Iterator()
	for it.HasNext() {
		k, v, ok := it.Next()
		require.True(t, ok)
		got[k.String()] = v.(int)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("iterated entries mismatch (-want +got):\n%s", diff)
	}

	var keys []string
	m.KVReduce(nil, func(acc interface{}, k Key, v interface{}) interface{} {
		keys = append(keys, k.String())
		return nil
	})
	sort.Strings(keys)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys)
}

func TestDissocMissingKeyIsNoop(t *testing.T) {
	m := Empty()
	m, _, _ = m.Assoc(StringKey("a"), 1)

	m2, val, deleted := m.Dissoc(StringKey("nope"))
	assert.False(t, deleted)
	assert.Nil(t, val)
	assert.Equal(t, 1, m2.Count())
}

func TestPersistenceAcrossAssoc(t *testing.T) {
	m1 := Empty()
	m1, _, _ = m1.Assoc(StringKey("a"), 1)
	m2, _, _ := m1.Assoc(StringKey("b"), 2)

	assert.Equal(t, 1, m1.Count())
	assert.Equal(t, 2, m2.Count())
	_, found := m1.Lookup(StringKey("b"))
	assert.False(t, found, "Assoc must not mutate the receiver")
}
