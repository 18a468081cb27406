package regex

import (
	"testing"

	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    string
		wantErr ferrors.Kind
	}{
		{name: "bare concat gets dot inserted", raw: "ab", want: "a.b.#"},
		{name: "alt synonym pipe", raw: "a|b", want: "a+b.#"},
		{name: "star needs no dot before it", raw: "a*b", want: "a*.b.#"},
		{name: "group then atom", raw: "(a+b)c", want: "(a+b).c.#"},
		{name: "whitespace stripped", raw: "a b c", want: "a.b.c.#"},
		{name: "empty expression", raw: "", wantErr: ferrors.InvalidExpression},
		{name: "unbalanced open", raw: "(a", wantErr: ferrors.InvalidExpression},
		{name: "unbalanced close", raw: "a)", wantErr: ferrors.InvalidExpression},
		{name: "empty group", raw: "()", wantErr: ferrors.InvalidExpression},
		{name: "double star", raw: "a**", wantErr: ferrors.InvalidExpression},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Preprocess(tc.raw)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, ferrors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseShape(t *testing.T) {
	root, dict, err := Parse("(a|b)*abb")
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, KindConcat, root.Kind)
	assert.Equal(t, EndMarker, dict[len(dict)])

	var symbols []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.isLeaf() {
			symbols = append(symbols, n.Symbol)
		}
		walk(n.Left)
		walk(n.Mid)
		walk(n.Right)
	}
	walk(root)
	assert.Equal(t, []string{"a", "b", "a", "b", "b", EndMarker}, symbols)
}

func TestParseInvalid(t *testing.T) {
	_, _, err := Parse("(a+b")
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.InvalidExpression))
}
