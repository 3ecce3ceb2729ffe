package hamt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noConflictExpected(t *testing.T) ConflictFunc {
	return func(ancestor, a, b interface{}) (interface{}, error) {
		t.Fatalf("unexpected conflict: ancestor=%v a=%v b=%v", ancestor, a, b)
		return nil, nil
	}
}

func TestMergeUnchangedSideIsFastPath(t *testing.T) {
	anc := Empty()
	anc, _, _ = anc.Assoc(StringKey("x"), 1)
	anc, _, _ = anc.Assoc(StringKey("y"), 2)

	a := anc // unchanged
	b, _, _ := anc.Assoc(StringKey("z"), 3)

	merged, err := a.Merge(anc, b, noConflictExpected(t))
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Count())
	v, _ := merged.Lookup(StringKey("z"))
	assert.Equal(t, 3, v)
}

func TestMergeBothSidesAgree(t *testing.T) {
	anc := Empty()
	anc, _, _ = anc.Assoc(StringKey("x"), 1)

	a, _, _ := anc.Assoc(StringKey("shared"), "same")
	b, _, _ := anc.Assoc(StringKey("shared"), "same")

	merged, err := a.Merge(anc, b, noConflictExpected(t))
	require.NoError(t, err)
	v, found := merged.Lookup(StringKey("shared"))
	require.True(t, found)
	assert.Equal(t, "same", v)
}

func TestMergeOneSideChangedWins(t *testing.T) {
	anc := Empty()
	anc, _, _ = anc.Assoc(StringKey("k"), "orig")

	a, _, _ := anc.Assoc(StringKey("k"), "changed-by-a")
	b := anc // unchanged

	merged, err := a.Merge(anc, b, noConflictExpected(t))
	require.NoError(t, err)
	v, _ := merged.Lookup(StringKey("k"))
	assert.Equal(t, "changed-by-a", v)
}

func TestMergeConflictInvoked(t *testing.T) {
	anc := Empty()
	anc, _, _ = anc.Assoc(StringKey("k"), "orig")

	a, _, _ := anc.Assoc(StringKey("k"), "a-value")
	b, _, _ := anc.Assoc(StringKey("k"), "b-value")

	called := false
	merged, err := a.Merge(anc, b, func(ancestor, av, bv interface{}) (interface{}, error) {
		called = true
		assert.Equal(t, "orig", ancestor)
		assert.Equal(t, "a-value", av)
		assert.Equal(t, "b-value", bv)
		return "resolved", nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	v, _ := merged.Lookup(StringKey("k"))
	assert.Equal(t, "resolved", v)
}

func TestMergeConflictCanDelete(t *testing.T) {
	anc := Empty()
	anc, _, _ = anc.Assoc(StringKey("k"), "orig")

	a, _, _ := anc.Assoc(StringKey("k"), "a-value")
	b, _, _ := anc.Assoc(StringKey("k"), "b-value")

	merged, err := a.Merge(anc, b, func(ancestor, av, bv interface{}) (interface{}, error) {
		return NotFound, nil
	})
	require.NoError(t, err)
	assert.False(t, merged.Contains(StringKey("k")))
}

func TestMergeBothNewSameValueNoConflict(t *testing.T) {
	anc := Empty()

	a, _, _ := anc.Assoc(StringKey("new"), "v")
	b, _, _ := anc.Assoc(StringKey("new"), "v")

	merged, err := a.Merge(anc, b, noConflictExpected(t))
	require.NoError(t, err)
	v, found := merged.Lookup(StringKey("new"))
	require.True(t, found)
	assert.Equal(t, "v", v)
}

func TestMergeDeleteVsUnchangedDeletes(t *testing.T) {
	anc := Empty()
	anc, _, _ = anc.Assoc(StringKey("k"), 1)

	a, _, _ := anc.Dissoc(StringKey("k"))
	b := anc

	merged, err := a.Merge(anc, b, noConflictExpected(t))
	require.NoError(t, err)
	assert.False(t, merged.Contains(StringKey("k")))
}
