package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDFA_AcceptsMatchingStrings(t *testing.T) {
	d, err := ToDFA("(a|b)*abb")
	require.NoError(t, err)

	accepting := [][]string{
		{"a", "b", "b"},
		{"a", "a", "b", "b"},
		{"b", "a", "b", "b"},
		{"a", "b", "a", "b", "b"},
	}
	for _, w := range accepting {
		ok, err := d.Accepts(w)
		require.NoError(t, err)
		assert.True(t, ok, "expected %v to be accepted", w)
	}

	rejecting := [][]string{
		{"a", "b"},
		{"a", "b", "b", "a"},
		{},
		{"b", "b", "b"},
	}
	for _, w := range rejecting {
		ok, err := d.Accepts(w)
		require.NoError(t, err)
		assert.False(t, ok, "expected %v to be rejected", w)
	}
}

func TestToDFA_StatesAreDiscoveryOrdered(t *testing.T) {
	d, err := ToDFA("(a|b)*abb")
	require.NoError(t, err)

	states := d.States()
	require.NotEmpty(t, states)
	assert.EqualValues(t, 1, states[0])
	assert.Equal(t, d.Start(), states[0])

	for i, s := range states {
		assert.EqualValues(t, i+1, s)
	}
}

func TestToDFA_SimpleConcat(t *testing.T) {
	d, err := ToDFA("abc")
	require.NoError(t, err)

	ok, err := d.Accepts([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Accepts([]string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToDFA_InvalidExpressionPropagates(t *testing.T) {
	_, err := ToDFA("(a")
	require.Error(t, err)
}

func TestToDFA_BareAtomStar(t *testing.T) {
	d, err := ToDFA("a*b")
	require.NoError(t, err)

	accepting := [][]string{
		{"b"},
		{"a", "b"},
		{"a", "a", "b"},
		{"a", "a", "a", "b"},
	}
	for _, w := range accepting {
		ok, err := d.Accepts(w)
		require.NoError(t, err)
		assert.True(t, ok, "expected %v to be accepted", w)
	}

	rejecting := [][]string{
		{"a"},
		{"b", "a"},
		{},
	}
	for _, w := range rejecting {
		ok, err := d.Accepts(w)
		require.NoError(t, err)
		assert.False(t, ok, "expected %v to be rejected", w)
	}
}
