// Package parse is the LALR(1) shift/reduce runtime (component G): it
// drives a lalr.Table over the stream of tokens a lex.Tokenizer
// produces, building a semantic value bottom-up through a
// SemanticProvider's fuse hook rather than constructing a parse tree,
// generalized from internal/ictiobus/parse/lr.go's lrParser.Parse
// (Algorithm 4.44 of the purple dragon book).
package parse

import (
	"github.com/grayling-toolkit/grayling/grammar"
)

// SemanticProvider supplies the two value-producing hooks spec.md §4.G
// attaches to a grammar: transform computes a terminal's semantic value
// from its matched lexeme (invoked inside the tokenizer as each token is
// produced, see lex.TransformFunc), and fuse computes a production's
// semantic value from its right-hand side's already-computed values
// (invoked on every reduction).
type SemanticProvider interface {
	// Transform computes the semantic value attached to a terminal's
	// lexeme. It is also the value lex.TransformFunc needs, so a
	// SemanticProvider can be handed directly to lex.NewTokenizer via
	// its Transform method.
	Transform(sym grammar.SymbolID, lexeme string) (interface{}, error)

	// Fuse computes the semantic value of a reduction of prod, given
	// the already-computed values of its body symbols in order.
	Fuse(prod grammar.ProductionID, values []interface{}) (interface{}, error)
}

// NopProvider is a SemanticProvider that performs no semantic actions;
// it is useful for syntax-checking-only parses, where only the accept/
// error outcome matters.
type NopProvider struct{}

func (NopProvider) Transform(sym grammar.SymbolID, lexeme string) (interface{}, error) {
	return nil, nil
}

func (NopProvider) Fuse(prod grammar.ProductionID, values []interface{}) (interface{}, error) {
	return nil, nil
}
