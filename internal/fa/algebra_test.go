package fa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReachable_PrunesUnreachableStates(t *testing.T) {
	a, err := New(
		[]State{1, 2, 3, 4},
		map[Edge][]string{
			{Src: 1, Dst: 2}: {"a"},
			{Src: 3, Dst: 4}: {"b"},
		},
		1, []State{2, 4},
	)
	require.NoError(t, err)

	r := Reachable(a)
	assert.ElementsMatch(t, []State{1, 2}, r.States())
	assert.ElementsMatch(t, []State{2}, r.Final())
}

func TestRemoveDead_PrunesStatesThatCannotReachFinal(t *testing.T) {
	a, err := New(
		[]State{1, 2, 3},
		map[Edge][]string{
			{Src: 1, Dst: 2}: {"a"},
			{Src: 1, Dst: 3}: {"b"},
		},
		1, []State{2},
	)
	require.NoError(t, err)

	d := RemoveDead(a)
	assert.ElementsMatch(t, []State{1, 2}, d.States())
}

func TestRemoveDead_KeepsStartEvenIfDead(t *testing.T) {
	a, err := New([]State{1, 2}, map[Edge][]string{{Src: 1, Dst: 2}: {"a"}}, 1, nil)
	require.NoError(t, err)

	d := RemoveDead(a)
	assert.Contains(t, d.States(), State(1))
	assert.Empty(t, d.Final())
}

// threeStateRedundant is the textbook "a*b" DFA with a redundant dead-end
// state: state 3 is a non-accepting trap that cannot reach the accepting
// state 2, so minimization drops it.
func threeStateRedundant(t *testing.T) FA {
	t.Helper()
	a, err := New(
		[]State{1, 2, 3},
		map[Edge][]string{
			{Src: 1, Dst: 1}: {"a"},
			{Src: 1, Dst: 2}: {"b"},
			{Src: 2, Dst: 3}: {"a", "b"},
			{Src: 3, Dst: 3}: {"a", "b"},
		},
		1, []State{2},
	)
	require.NoError(t, err)
	return a
}

func TestMinimize_ProducesEquivalentSmallerAutomaton(t *testing.T) {
	a := threeStateRedundant(t)
	m := Minimize(a)

	assert.Less(t, len(m.States()), len(a.States()))

	testCases := []struct {
		word []string
		want bool
	}{
		{[]string{"a", "a", "b"}, true},
		{[]string{"b"}, true},
		{[]string{"a", "b", "a"}, false},
		{[]string{}, false},
	}
	for _, tc := range testCases {
		got, err := m.Accepts(tc.word)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "word %v", tc.word)
	}
}

func TestUnion_AcceptsEitherLanguage(t *testing.T) {
	a1, err := New([]State{1, 2}, map[Edge][]string{{Src: 1, Dst: 2}: {"a"}}, 1, []State{2})
	require.NoError(t, err)
	a2, err := New([]State{1, 2}, map[Edge][]string{{Src: 1, Dst: 2}: {"b"}}, 1, []State{2})
	require.NoError(t, err)

	u := Union(a1, a2)
	assert.True(t, u.AcceptsND([]string{"a"}))
	assert.True(t, u.AcceptsND([]string{"b"}))
	assert.False(t, u.AcceptsND([]string{"c"}))
}

func TestProduct_AcceptsIntersection(t *testing.T) {
	// even number of a's
	a1, err := New(
		[]State{1, 2},
		map[Edge][]string{
			{Src: 1, Dst: 2}: {"a"},
			{Src: 2, Dst: 1}: {"a"},
			{Src: 1, Dst: 1}: {"b"},
			{Src: 2, Dst: 2}: {"b"},
		},
		1, []State{1},
	)
	require.NoError(t, err)

	// ends in b
	a2, err := New(
		[]State{1, 2},
		map[Edge][]string{
			{Src: 1, Dst: 1}: {"a"},
			{Src: 1, Dst: 2}: {"b"},
			{Src: 2, Dst: 1}: {"a"},
			{Src: 2, Dst: 2}: {"b"},
		},
		1, []State{2},
	)
	require.NoError(t, err)

	p := Product(a1, a2)

	d1, err := AsDeterministic(a1)
	require.NoError(t, err)
	d2, err := AsDeterministic(a2)
	require.NoError(t, err)

	words := [][]string{
		{"a", "a", "b"},
		{"b"},
		{"a", "b"},
		{"a", "a"},
	}
	for _, w := range words {
		want1, err := d1.Accepts(w)
		require.NoError(t, err)
		want2, err := d2.Accepts(w)
		require.NoError(t, err)

		got, err := p.Accepts(w)
		require.NoError(t, err)
		assert.Equal(t, want1 && want2, got, "word %v", w)
	}
}

func TestDeterminize_SubsetConstruction(t *testing.T) {
	// classic (a|b)*abb NFA: a self-looping prefix state fanning into a tail.
	n, err := New(
		[]State{1, 2, 3, 4},
		map[Edge][]string{
			{Src: 1, Dst: 1}: {"a", "b"},
			{Src: 1, Dst: 2}: {"a"},
			{Src: 2, Dst: 3}: {"b"},
			{Src: 3, Dst: 4}: {"b"},
		},
		1, []State{4},
	)
	require.NoError(t, err)

	d := Determinize(AsNondeterministic(n))
	assert.False(t, d.IsNondeterministic())

	states := d.States()
	for i, s := range states {
		assert.EqualValues(t, i+1, s)
	}
	assert.Equal(t, d.Start(), states[0])

	testCases := []struct {
		word []string
		want bool
	}{
		{[]string{"a", "b", "b"}, true},
		{[]string{"a", "a", "b", "b"}, true},
		{[]string{"a", "b"}, false},
	}
	for _, tc := range testCases {
		got, err := d.Accepts(tc.word)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "word %v", tc.word)
	}
}
