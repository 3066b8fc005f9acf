package lex

import (
	"testing"

	"github.com/grayling-toolkit/grayling/grammar"
	"github.com/stretchr/testify/assert"
)

func buildArithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()

	b := grammar.NewBuilder()
	b.SetPattern("NUM", `[0-9]+`, 0)
	b.SetPattern("PLUS", `\+`, 0)
	b.SetPattern("WS", `[ \t]+`, 0)
	b.SetNoise("WS")
	b.SetStart("S")
	b.AddRule("S", "NUM", "PLUS", "NUM")

	g, err := b.Build()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

func scanAll(t *testing.T, tok *Tokenizer, r *Reader) []Result {
	t.Helper()
	var out []Result
	for {
		res := tok.Next(r)
		out = append(out, res)
		if res.Status == StatusNeedMoreInput || res.Status == StatusEndOfInput {
			break
		}
	}
	return out
}

func Test_Tokenizer_LongestMatchAndNoiseDiscard(t *testing.T) {
	assert := assert.New(t)

	g := buildArithGrammar(t)
	tok, err := NewTokenizer(g, nil)
	if !assert.NoError(err) {
		return
	}

	r := NewReader()
	r.Feed([]byte("12 + 345"))
	r.Close()

	results := scanAll(t, tok, r)
	if !assert.GreaterOrEqual(len(results), 3) {
		return
	}

	numID, _ := g.SymbolByName("NUM")
	plusID, _ := g.SymbolByName("PLUS")

	assert.Equal(StatusToken, results[0].Status)
	assert.Equal(numID, results[0].Token.Symbol)
	assert.Equal("12", results[0].Token.Lexeme)

	assert.Equal(StatusToken, results[1].Status)
	assert.Equal(plusID, results[1].Token.Symbol)

	assert.Equal(StatusToken, results[2].Status)
	assert.Equal(numID, results[2].Token.Symbol)
	assert.Equal("345", results[2].Token.Lexeme)

	last := results[len(results)-1]
	assert.Equal(StatusEndOfInput, last.Status)
}

func Test_Tokenizer_NeedsMoreInputThenResumes(t *testing.T) {
	assert := assert.New(t)

	g := buildArithGrammar(t)
	tok, err := NewTokenizer(g, nil)
	if !assert.NoError(err) {
		return
	}

	r := NewReader()
	r.Feed([]byte("1"))

	res := tok.Next(r)
	assert.Equal(StatusNeedMoreInput, res.Status)

	// the tokenizer's position must not have moved.
	assert.Equal(0, tok.Offset())

	r.Feed([]byte("2 "))
	r.Close()

	res = tok.Next(r)
	if !assert.Equal(StatusToken, res.Status) {
		return
	}
	assert.Equal("12", res.Token.Lexeme)
}

func Test_Tokenizer_CommentGroupIsSkipped(t *testing.T) {
	assert := assert.New(t)

	b := grammar.NewBuilder()
	b.SetPattern("NUM", `[0-9]+`, 0)
	b.SetPattern("PLUS", `\+`, 0)
	b.SetPattern("WS", `[ \t]+`, 0)
	b.SetNoise("WS")
	b.SetStart("S")
	b.AddRule("S", "NUM", "PLUS", "NUM")
	b.AddGroup("COMMENT_START", "COMMENT_END", grammar.AdvanceByCharacter, grammar.EndClosed)
	b.SetPattern("COMMENT_START", `/\*`, 0)
	b.SetPattern("COMMENT_END", `\*/`, 0)

	g, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	tok, err := NewTokenizer(g, nil)
	if !assert.NoError(err) {
		return
	}

	r := NewReader()
	r.Feed([]byte("1 /* c */ + 2"))
	r.Close()

	results := scanAll(t, tok, r)

	var lexemes []string
	for _, res := range results {
		if res.Status == StatusToken {
			lexemes = append(lexemes, res.Token.Lexeme)
		}
	}
	assert.Equal([]string{"1", "+", "2"}, lexemes)
}

func Test_Tokenizer_UnrecognizedInputRecovers(t *testing.T) {
	assert := assert.New(t)

	g := buildArithGrammar(t)
	tok, err := NewTokenizer(g, nil)
	if !assert.NoError(err) {
		return
	}

	r := NewReader()
	r.Feed([]byte("1 # 2"))
	r.Close()

	results := scanAll(t, tok, r)

	var sawError bool
	var lexemes []string
	for _, res := range results {
		if res.Status == StatusError {
			sawError = true
		}
		if res.Status == StatusToken {
			lexemes = append(lexemes, res.Token.Lexeme)
		}
	}
	assert.True(sawError)
	assert.Equal([]string{"1", "2"}, lexemes)
}

func Test_Tokenizer_TransformHookRunsPerTerminal(t *testing.T) {
	assert := assert.New(t)

	g := buildArithGrammar(t)
	numID, _ := g.SymbolByName("NUM")

	tok, err := NewTokenizer(g, func(sym grammar.SymbolID, lexeme string) (interface{}, error) {
		if sym == numID {
			return len(lexeme), nil
		}
		return nil, nil
	})
	if !assert.NoError(err) {
		return
	}

	r := NewReader()
	r.Feed([]byte("123 + 4"))
	r.Close()

	res := tok.Next(r)
	if !assert.Equal(StatusToken, res.Status) {
		return
	}
	assert.Equal(3, res.Token.Value)
}
