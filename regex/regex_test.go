package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func compileOne(t *testing.T, pattern string) *Compiled {
	t.Helper()
	c, err := Compile([]Pattern{{Name: "X", Source: pattern, Priority: 0}})
	if err != nil {
		t.Fatalf("compile %q: %v", pattern, err)
	}
	return c
}

func matches(c *Compiled, s string) bool {
	state := 0
	for _, r := range s {
		next, ok := c.DFA.Step(state, r)
		if !ok {
			return false
		}
		state = next
	}
	return c.DFA.Accepts(state)
}

func Test_Compile_Literal(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, "abc")

	assert.True(matches(c, "abc"))
	assert.False(matches(c, "ab"))
	assert.False(matches(c, "abcd"))
}

func Test_Compile_Alternation(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, "cat|dog")

	assert.True(matches(c, "cat"))
	assert.True(matches(c, "dog"))
	assert.False(matches(c, "cow"))
}

func Test_Compile_Star(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, "a*b")

	assert.True(matches(c, "b"))
	assert.True(matches(c, "ab"))
	assert.True(matches(c, "aaaab"))
	assert.False(matches(c, "aaa"))
}

func Test_Compile_Plus(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, "a+")

	assert.False(matches(c, ""))
	assert.True(matches(c, "a"))
	assert.True(matches(c, "aaaaa"))
}

func Test_Compile_Opt(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, "colou?r")

	assert.True(matches(c, "color"))
	assert.True(matches(c, "colour"))
	assert.False(matches(c, "colouur"))
}

func Test_Compile_CharClass(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, "[a-z]+[0-9]*")

	assert.True(matches(c, "abc123"))
	assert.True(matches(c, "abc"))
	assert.False(matches(c, "123abc"))
	assert.False(matches(c, ""))
}

func Test_Compile_NegatedCharClass(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, "[^0-9]+")

	assert.True(matches(c, "hello"))
	assert.False(matches(c, "123"))
}

func Test_Compile_Shorthand(t *testing.T) {
	assert := assert.New(t)
	c := compileOne(t, `\d+\.\d+`)

	assert.True(matches(c, "3.14"))
	assert.False(matches(c, "abc"))
}

func Test_Compile_MultiplePatternsUsePriority(t *testing.T) {
	assert := assert.New(t)

	c, err := Compile([]Pattern{
		{Name: "KEYWORD_IF", Source: "if", Priority: 10},
		{Name: "IDENT", Source: "[a-z]+", Priority: 0},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	state := 0
	for _, r := range "if" {
		next, ok := c.DFA.Step(state, r)
		assert.True(ok)
		state = next
	}
	assert.True(c.DFA.Accepts(state))
	assert.Equal("KEYWORD_IF", c.NameOf(state))
}

func Test_Compile_IndistinguishableSymbols(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile([]Pattern{
		{Name: "A", Source: "foo", Priority: 0},
		{Name: "B", Source: "foo", Priority: 0},
	})

	assert.Error(err)
	var indist *IndistinguishableSymbolsError
	assert.ErrorAs(err, &indist)
}

func Test_Parse_UnclosedGroup(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("(abc")
	assert.Error(err)
	var perr *ParseError
	assert.ErrorAs(err, &perr)
}

func Test_DFA_Minimize_PreservesLanguage(t *testing.T) {
	assert := assert.New(t)

	ast, err := Parse("(a|b)*abb")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	nfa := Build(ast)
	dfa, err := nfa.ToDFA()
	if err != nil {
		t.Fatalf("todfa: %v", err)
	}
	min := dfa.Minimize()

	for _, s := range []string{"abb", "aabb", "babb", "ababb", "ab", "a"} {
		want := runDFA(dfa, s)
		got := runDFA(min, s)
		assert.Equal(want, got, "mismatch on input %q", s)
	}
}

func runDFA(d *DFA, s string) bool {
	state := 0
	for _, r := range s {
		next, ok := d.Step(state, r)
		if !ok {
			return false
		}
		state = next
	}
	return d.Accepts(state)
}
