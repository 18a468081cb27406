package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStringAndAdvance(t *testing.T) {
	it := Item{Head: "E", Body: Production{"T", "E'"}, Dot: 0}
	assert.Equal(t, "E -> • T E'", it.String())

	it = it.Advance()
	assert.Equal(t, "E -> T • E'", it.String())
	sym, ok := it.NextSymbol()
	assert.True(t, ok)
	assert.Equal(t, "E'", sym)

	it = it.Advance()
	assert.True(t, it.AtEnd())
	assert.Equal(t, "E -> T E' •", it.String())
}

func TestItemSet_DedupesByKey(t *testing.T) {
	s := NewItemSet()
	it := Item{Head: "S", Body: Production{"a"}, Dot: 0}
	assert.True(t, s.Add(it))
	assert.False(t, s.Add(it))
	assert.Equal(t, 1, s.Len())
}

// augmentedArithmetic builds spec.md §8 scenario 6's augmented grammar:
// S -> E; E -> T X; X -> + T X | &; T -> F Y; Y -> * F Y | &;
// F -> ( E ) | id. Using distinct names to avoid colliding with the
// factoring-generated E'/T' convention used elsewhere.
func augmentedArithmetic(t *testing.T) *Grammar {
	t.Helper()
	g := New()
	add := func(nt string, body ...string) {
		require.NoError(t, g.AddProduction(nt, Production(body)))
	}
	add("S", "E")
	add("E", "T", "X")
	add("X", "+", "T", "X")
	add("X", Epsilon)
	add("T", "F", "Y")
	add("Y", "*", "F", "Y")
	add("Y", Epsilon)
	add("F", "(", "E", ")")
	add("F", "id")
	return g
}

func TestClosureAndGoto(t *testing.T) {
	g := augmentedArithmetic(t)

	seed := itemsOf(g, "S")
	closed, err := Closure(g, seed, g.Ceiling())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, closed.Len(), 1+len(g.Productions("E")))

	next, err := Goto(g, closed.Items(), "id", g.Ceiling())
	require.NoError(t, err)
	assert.Equal(t, 1, next.Len())
	item := next.Items()[0]
	assert.True(t, item.AtEnd())
	assert.Equal(t, "F", item.Head)
}

func TestBuildLR0Collection(t *testing.T) {
	g := augmentedArithmetic(t)
	collection, transitions, err := BuildLR0Collection(g)
	require.NoError(t, err)

	assert.NotEmpty(t, collection.States)
	assert.Greater(t, len(transitions), 0)

	idx, ok := transitions[TransitionKey{State: 0, Symbol: "E"}]
	assert.True(t, ok)
	assert.Less(t, idx, len(collection.States))
}
