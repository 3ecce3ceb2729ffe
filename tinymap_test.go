package hamt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTinyMapBasic(t *testing.T) {
	tm := EmptyTiny()

	tm, _, _, found := tm.Assoc(StringKey("a"), 1)
	assert.False(t, found)
	tm, promoted, _, _ := tm.Assoc(StringKey("b"), 2)
	require.Nil(t, promoted)
	require.Equal(t, 2, tm.Count())

	v, found := tm.Lookup(StringKey("a"))
	require.True(t, found)
	assert.Equal(t, 1, v)

	tm, old, found := tm.Dissoc(StringKey("a"))
	require.True(t, found)
	assert.Equal(t, 1, old)
	assert.Equal(t, 1, tm.Count())
	_, found = tm.Lookup(StringKey("a"))
	assert.False(t, found)
}

func TestTinyMapPromotesPastCapacity(t *testing.T) {
	tm := EmptyTiny()
	var promoted *Map
	for i := 0; i < tinyMapCapacity+1; i++ {
		var p *Map
		tm, p, _, _ = tm.Assoc(StringKey(fmt.Sprintf("k%02d", i)), i)
		if p != nil {
			promoted = p
		}
	}
	require.NotNil(t, promoted, "inserting past tinyMapCapacity must promote to a Map")
	assert.Equal(t, tinyMapCapacity+1, promoted.Count())
	for i := 0; i < tinyMapCapacity+1; i++ {
		v, found := promoted.Lookup(StringKey(fmt.Sprintf("k%02d", i)))
		require.True(t, found)
		assert.Equal(t, i, v)
	}
}

func TestTinyMapPromotesOnDoubleHashCollision(t *testing.T) {
	// Both keys hash to 0x00000001, so both of k2's bit positions
	// (1 and 0) are already set by k1, forcing a promotion even though
	// capacity is nowhere near exceeded.
	k1 := fk("A", 0x00000001)
	k2 := fk("B", 0x00000001)

	tm := EmptyTiny()
	tm, _, _, _ = tm.Assoc(k1, "x")
	_, promoted, _, _ := tm.Assoc(k2, "y")
	require.NotNil(t, promoted)
	assert.Equal(t, 2, promoted.Count())
}

func TestTinyMapDissocRecomputesBitmapSafely(t *testing.T) {
	// k1's bit positions are (5, 10); k2's are (10, 20) -- they share
	// bit 10. Naively clearing k1's two bits on removal would also
	// clear bit 10 out from under k2, which still needs it.
	k1 := fk("A", 645)  // positions (5, 10)
	k2 := fk("B", 1290) // positions (10, 20)

	tm := EmptyTiny()
	tm, _, _, _ = tm.Assoc(k1, "x")
	tm, promoted, _, _ := tm.Assoc(k2, "y")
	require.Nil(t, promoted)

	tm, _, _ = tm.Dissoc(k1)
	v, found := tm.Lookup(k2)
	require.True(t, found, "dissoc must not clear a bit still needed by a surviving key")
	assert.Equal(t, "y", v)
}
