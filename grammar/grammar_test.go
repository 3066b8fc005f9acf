package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Builder_Build(t *testing.T) {
	testCases := []struct {
		name      string
		build     func(b *Builder)
		expectErr bool
	}{
		{
			name:      "empty grammar",
			build:     func(b *Builder) {},
			expectErr: true,
		},
		{
			name: "no rules in grammar",
			build: func(b *Builder) {
				b.AddTerm("int")
			},
			expectErr: true,
		},
		{
			name: "no start symbol",
			build: func(b *Builder) {
				b.AddTerm("int")
				b.AddRule("S", "int")
			},
			expectErr: true,
		},
		{
			name: "single rule grammar",
			build: func(b *Builder) {
				b.AddTerm("int")
				b.SetStart("S")
				b.AddRule("S", "int")
			},
			expectErr: false,
		},
		{
			name: "nonterminal referenced but never given productions",
			build: func(b *Builder) {
				b.AddTerm("int")
				b.AddNonTerm("T")
				b.SetStart("S")
				b.AddRule("S", "int", "T")
			},
			expectErr: true,
		},
		{
			name: "symbol declared as both terminal and nonterminal",
			build: func(b *Builder) {
				b.AddTerm("x")
				b.AddNonTerm("x")
				b.SetStart("S")
				b.AddRule("S", "x")
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			b := NewBuilder()
			tc.build(b)

			g, err := b.Build()

			if tc.expectErr {
				assert.Error(err)
				return
			}

			if !assert.NoError(err) {
				return
			}
			assert.NotNil(g)
		})
	}
}

func Test_Builder_EpsilonProduction(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.AddTerm("a")
	b.SetStart("S")
	b.AddRule("S", "a", "S")
	b.AddRule("S") // epsilon

	g, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	startID, ok := g.SymbolByName("S")
	assert.True(ok)

	prods := g.ProductionsOf(startID)
	assert.Len(prods, 2)

	var sawEpsilon bool
	for _, pid := range prods {
		if len(g.Production(pid).Body) == 0 {
			sawEpsilon = true
		}
	}
	assert.True(sawEpsilon)
}

func Test_Builder_OperatorsAndGroups(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.AddTerm("num")
	b.AddTerm("+")
	b.AddTerm("*")
	b.SetStart("E")
	b.AddRule("E", "E", "+", "E")
	b.AddRule("E", "E", "*", "E")
	b.AddRule("E", "num")
	b.SetOperator("+", 1, Left)
	b.SetOperator("*", 2, Left)
	b.AddGroup("COMMENT_START", "COMMENT_END", AdvanceByCharacter, EndClosed)

	g, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	plusID, _ := g.SymbolByName("+")
	op, ok := g.Operator(plusID)
	assert.True(ok)
	assert.Equal(1, op.Precedence)
	assert.Equal(Left, op.Association)

	assert.Len(g.Groups(), 1)
}

func Test_Builder_PatternNoiseAndSpecialName(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.SetPattern("NUM", `[0-9]+`, 0)
	b.SetPattern("WS", `[ \t]+`, 0)
	b.SetNoise("WS")
	b.SetSpecialName("NUM", "a number")
	b.SetStart("S")
	b.AddRule("S", "NUM")

	g, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	numID, _ := g.SymbolByName("NUM")
	numSpec, ok := g.Pattern(numID)
	assert.True(ok)
	assert.Equal(`[0-9]+`, numSpec.Pattern)
	assert.Equal("a number", numSpec.Special)
	assert.False(numSpec.Noise)

	wsID, _ := g.SymbolByName("WS")
	wsSpec, ok := g.Pattern(wsID)
	assert.True(ok)
	assert.True(wsSpec.Noise)
}

func Test_Builder_GroupDelimitersCanDeclarePatterns(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.AddTerm("num")
	b.SetStart("S")
	b.AddRule("S", "num")
	b.AddGroup("COMMENT_START", "COMMENT_END", AdvanceByCharacter, EndClosed)
	b.SetPattern("COMMENT_START", `/\*`, 0)
	b.SetPattern("COMMENT_END", `\*/`, 0)

	g, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	startID, _ := g.SymbolByName("COMMENT_START")
	assert.Equal(GroupStart, g.Symbol(startID).Kind)
	spec, ok := g.Pattern(startID)
	assert.True(ok)
	assert.Equal(`/\*`, spec.Pattern)
}

func Test_Builder_GroupNesting(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.AddTerm("num")
	b.SetStart("S")
	b.AddRule("S", "num")
	b.AddGroup("OUTER_START", "OUTER_END", AdvanceByCharacter, EndClosed, "INNER_START")
	b.AddGroup("INNER_START", "INNER_END", AdvanceByCharacter, EndClosed)

	g, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	innerStartID, _ := g.SymbolByName("INNER_START")

	var outer Group
	for _, grp := range g.Groups() {
		name := g.Symbol(grp.Start).Name
		if name == "OUTER_START" {
			outer = grp
		}
	}
	assert.Contains(outer.Nest, innerStartID)
}
