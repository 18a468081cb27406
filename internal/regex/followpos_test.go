package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findStar returns the first Star node found in a pre-order walk of root.
func findStar(root *Node) *Node {
	for _, n := range preorder(root) {
		if n.Kind == KindStar {
			return n
		}
	}
	return nil
}

func TestParse_StarFillsMid(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"bare atom star", "a*"},
		{"group star", "(a|b)*"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root, _, err := Parse(tc.raw)
			require.NoError(t, err)

			star := findStar(root)
			require.NotNil(t, star, "expected a Star node in the parsed tree")
			assert.NotNil(t, star.Mid, "Star.Mid must hold its operand")

			assert.NotPanics(t, func() { star.FirstPos() })
			assert.NotPanics(t, func() { star.LastPos() })
		})
	}
}

func TestFollowPos_BareAtomStar(t *testing.T) {
	// "a*" augmented is "a*.#": position 1 is "a" (inside the star),
	// position 2 is "#". "a" follows itself (looping in the star) and
	// leads into "#".
	root, dict, err := Parse("a*")
	require.NoError(t, err)
	require.Equal(t, "a", dict[1])
	require.Equal(t, EndMarker, dict[2])

	follow := FollowPos(root)
	assert.ElementsMatch(t, []int{1, 2}, follow[1].Sorted())
}

func TestFollowPos_GroupStar(t *testing.T) {
	// "(a|b)*abb": positions 1="a", 2="b" (inside the star), 3="a", 4="b",
	// 5="b", 6="#". Both positions inside the star follow themselves, each
	// other, and the "a" that follows the group.
	root, dict, err := Parse("(a|b)*abb")
	require.NoError(t, err)
	require.Equal(t, "a", dict[1])
	require.Equal(t, "b", dict[2])
	require.Equal(t, "a", dict[3])

	follow := FollowPos(root)
	assert.ElementsMatch(t, []int{1, 2, 3}, follow[1].Sorted())
	assert.ElementsMatch(t, []int{1, 2, 3}, follow[2].Sorted())
}
