// Package regex parses a textual regular expression syntax into an AST,
// compiles that AST into an NFA via Thompson construction, and reduces
// the NFA to a minimal DFA via subset construction and Hopcroft
// minimization.
//
// The construction follows Algorithm 3.23 (McNaughton-Yamada-Thompson)
// and Algorithm 3.20 (subset construction) from the purple dragon book,
// the same algorithms the teacher's lex.RegexToNFA left as a stub
// ("TODO: fill this all in when we want to return to DFA-based impl").
// This package is that fill-in, generalized to operate over
// charclass.Set alphabets (arbitrary rune ranges) rather than single
// symbol strings.
package regex

import "github.com/grayling-toolkit/grayling/charclass"

// Node is a regular-expression AST node.
type Node interface {
	isNode()
}

// Literal matches a single literal rune.
type Literal struct {
	Rune rune
}

// Class matches any rune in the given character class.
type Class struct {
	Set charclass.Set
}

// AnyChar matches any rune except '\n' (the "." metacharacter).
type AnyChar struct{}

// Concat matches Left followed by Right.
type Concat struct {
	Left, Right Node
}

// Alt matches either Left or Right.
type Alt struct {
	Left, Right Node
}

// Star matches zero or more repetitions of Sub (Kleene star).
type Star struct {
	Sub Node
}

// Plus matches one or more repetitions of Sub.
type Plus struct {
	Sub Node
}

// Opt matches zero or one occurrence of Sub.
type Opt struct {
	Sub Node
}

// Epsilon matches the empty string.
type Epsilon struct{}

func (Literal) isNode() {}
func (Class) isNode()   {}
func (AnyChar) isNode() {}
func (Concat) isNode()  {}
func (Alt) isNode()     {}
func (Star) isNode()    {}
func (Plus) isNode()    {}
func (Opt) isNode()     {}
func (Epsilon) isNode() {}
