package fa

import (
	"testing"

	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evenZeros is the classic "even number of 0s" DFA over {0,1}.
func evenZeros(t *testing.T) FA {
	t.Helper()
	a, err := New(
		[]State{1, 2},
		map[Edge][]string{
			{Src: 1, Dst: 2}: {"0"},
			{Src: 2, Dst: 1}: {"0"},
			{Src: 1, Dst: 1}: {"1"},
			{Src: 2, Dst: 2}: {"1"},
		},
		1,
		[]State{1},
	)
	require.NoError(t, err)
	return a
}

func TestNew_RejectsUnknownStates(t *testing.T) {
	_, err := New([]State{1}, map[Edge][]string{{Src: 1, Dst: 2}: {"a"}}, 1, nil)
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.StateNotFound))

	_, err = New([]State{1}, nil, 2, nil)
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.StateNotFound))

	_, err = New([]State{1}, nil, 1, []State{9})
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.StateNotFound))
}

func TestAccepts_DFAMembership(t *testing.T) {
	a := evenZeros(t)

	testCases := []struct {
		word []string
		want bool
	}{
		{nil, true},
		{[]string{"1", "1", "1"}, true},
		{[]string{"0", "0"}, true},
		{[]string{"0"}, false},
		{[]string{"1", "0", "1"}, false},
		{[]string{"0", "0", "0"}, false},
	}
	for _, tc := range testCases {
		got, err := a.Accepts(tc.word)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "word %v", tc.word)
	}
}

func TestAccepts_RejectsNondeterministicInput(t *testing.T) {
	nfa, err := New(
		[]State{1, 2},
		map[Edge][]string{{Src: 1, Dst: 2}: {"a"}, {Src: 1, Dst: 1}: {"a"}},
		1, []State{2},
	)
	require.NoError(t, err)

	_, err = nfa.Accepts([]string{"a"})
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.DeterminismMismatch))
}

func TestAcceptsND_WorksOnEpsilonNFA(t *testing.T) {
	n, err := New(
		[]State{1, 2, 3},
		map[Edge][]string{
			{Src: 1, Dst: 2}: {Epsilon},
			{Src: 2, Dst: 3}: {"a"},
		},
		1, []State{3},
	)
	require.NoError(t, err)

	assert.True(t, n.AcceptsND([]string{"a"}))
	assert.False(t, n.AcceptsND([]string{"b"}))
}

func TestIsNondeterministic(t *testing.T) {
	d := evenZeros(t)
	assert.False(t, d.IsNondeterministic())

	n, err := New([]State{1, 2}, map[Edge][]string{{Src: 1, Dst: 2}: {Epsilon}}, 1, []State{2})
	require.NoError(t, err)
	assert.True(t, n.IsNondeterministic())
}

func TestAsDeterministic(t *testing.T) {
	d := evenZeros(t)
	_, err := AsDeterministic(d)
	require.NoError(t, err)

	n, err := New([]State{1, 2}, map[Edge][]string{{Src: 1, Dst: 2}: {Epsilon}}, 1, []State{2})
	require.NoError(t, err)
	_, err = AsDeterministic(n)
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.DeterminismMismatch))
}

func TestSymbolsExcludeEpsilon(t *testing.T) {
	n, err := New(
		[]State{1, 2, 3},
		map[Edge][]string{
			{Src: 1, Dst: 2}: {Epsilon},
			{Src: 2, Dst: 3}: {"a", "b"},
		},
		1, []State{3},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, n.Symbols())
}
