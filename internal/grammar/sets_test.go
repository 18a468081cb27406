package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIRST_ArithmeticGrammar(t *testing.T) {
	g := arithmeticGrammar(t)
	first, err := FIRST(g)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"(", "id"}, first["E"].Sorted())
	assert.ElementsMatch(t, []string{"(", "id"}, first["T"].Sorted())
	assert.ElementsMatch(t, []string{"(", "id"}, first["F"].Sorted())
	assert.ElementsMatch(t, []string{"+", Epsilon}, first["E'"].Sorted())
	assert.ElementsMatch(t, []string{"*", Epsilon}, first["T'"].Sorted())
}

func TestFIRST_RejectsLeftRecursiveGrammar(t *testing.T) {
	g := New()
	require.NoError(t, g.AddProduction("E", Production{"E", "+", "T"}))
	require.NoError(t, g.AddProduction("E", Production{"T"}))
	require.NoError(t, g.AddProduction("T", Production{"id"}))

	_, err := FIRST(g)
	require.Error(t, err)
}

func TestFOLLOW_ArithmeticGrammar(t *testing.T) {
	g := arithmeticGrammar(t)
	follow, err := FOLLOW(g)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{")", EndOfInput}, follow["E"].Sorted())
	assert.ElementsMatch(t, []string{")", EndOfInput}, follow["E'"].Sorted())
	assert.ElementsMatch(t, []string{"+", ")", EndOfInput}, follow["T"].Sorted())
	assert.ElementsMatch(t, []string{"+", ")", EndOfInput}, follow["T'"].Sorted())
	assert.ElementsMatch(t, []string{"*", "+", ")", EndOfInput}, follow["F"].Sorted())
}
