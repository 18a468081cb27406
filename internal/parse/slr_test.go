package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/flab/internal/grammar"
)

func TestBuildSLR1_AugmentsWithFreshStartName(t *testing.T) {
	g := arithmeticGrammar(t)
	table, err := BuildSLR1(g)
	require.NoError(t, err)

	assert.Equal(t, "E''", table.startPrime)
	assert.NotEmpty(t, table.Collection.States)
}

func TestReadInputSLR_ArithmeticScenario(t *testing.T) {
	g := arithmeticGrammar(t)
	table, err := BuildSLR1(g)
	require.NoError(t, err)

	assert.True(t, ReadInputSLR(table, "id"))
	assert.True(t, ReadInputSLR(table, "id + id * id"))
	assert.False(t, ReadInputSLR(table, "( id"))
}

func TestReadInputSLR_DirectlyLeftRecursiveGrammar(t *testing.T) {
	g := grammar.New()
	add := func(nt string, body ...string) {
		require.NoError(t, g.AddProduction(nt, grammar.Production(body)))
	}
	add("E", "E", "+", "T")
	add("E", "T")
	add("T", "T", "*", "F")
	add("T", "F")
	add("F", "(", "E", ")")
	add("F", "id")

	table, err := BuildSLR1(g)
	require.NoError(t, err)

	assert.True(t, ReadInputSLR(table, "id + id * id"))
	assert.False(t, ReadInputSLR(table, "( id"))
}
