package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullable(t *testing.T) {
	testCases := []struct {
		name string
		n    *Node
		want bool
	}{
		{"leaf symbol", leaf("a"), false},
		{"leaf epsilon", leaf(EpsilonSymbol), true},
		{"star of anything", star(leaf("a")), true},
		{"alt, one side nullable", alt(leaf(EpsilonSymbol), leaf("a")), true},
		{"alt, neither side nullable", alt(leaf("a"), leaf("b")), false},
		{"concat, both nullable", concat(leaf(EpsilonSymbol), star(leaf("a"))), true},
		{"concat, one side not nullable", concat(leaf("a"), leaf(EpsilonSymbol)), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.n.Nullable())
		})
	}
}

func TestFirstPosLastPos(t *testing.T) {
	// (a|b)*abb#, positions assigned left to right over the leaves as they
	// would be by AssignPositions: a1 b2 a3 b4 b5 #6
	a1 := leaf("a")
	b2 := leaf("b")
	root := concat(
		concat(
			concat(
				star(alt(a1, b2)),
				leaf("a"),
			),
			concat(leaf("b"), leaf("b")),
		),
		leaf(EndMarker),
	)
	AssignPositions(root)

	assert.ElementsMatch(t, []int{1, 2, 3}, root.FirstPos().Sorted())
	assert.ElementsMatch(t, []int{6}, root.LastPos().Sorted())
}

func TestAssignPositions(t *testing.T) {
	root := concat(star(alt(leaf("a"), leaf("b"))), leaf(EndMarker))
	dict := AssignPositions(root)

	require := map[int]string{1: "a", 2: "b", 3: EndMarker}
	assert.Equal(t, require, dict)
}
