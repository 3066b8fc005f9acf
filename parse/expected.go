package parse

import (
	"strings"

	"github.com/grayling-toolkit/grayling/grammar"
	"github.com/grayling-toolkit/grayling/lalr"
)

// humanName is the name a diagnostic should use for sym: its declared
// special name if it has one (spec.md §3's "optional special-name
// string"), else its bare grammar name.
func humanName(g *grammar.Grammar, sym grammar.SymbolID) string {
	if sym == grammar.EOF {
		return "end of input"
	}
	if spec, ok := g.Pattern(sym); ok && spec.Special != "" {
		return spec.Special
	}
	return g.Symbol(sym).Name
}

// expectedMessage builds an "expected X, Y or Z" clause from every
// terminal with a legal action in state, grounded on
// internal/ictiobus/parse/lr.go's getExpectedString/findExpectedTokens.
func expectedMessage(g *grammar.Grammar, table *lalr.Table, state int) string {
	expected := table.ExpectedTerminals(state)

	names := make([]string, 0, len(expected))
	for _, sym := range expected {
		names = append(names, humanName(g, sym))
	}

	var sb strings.Builder
	sb.WriteString("expected ")

	switch len(names) {
	case 0:
		sb.WriteString("nothing (no valid continuation)")
	case 1:
		sb.WriteString(article(names[0]))
		sb.WriteRune(' ')
		sb.WriteString(names[0])
	default:
		sb.WriteString(article(names[0]))
		sb.WriteRune(' ')
		for i, n := range names {
			if i == 0 {
				sb.WriteString(n)
				continue
			}
			if i+1 == len(names) {
				sb.WriteString(" or ")
			} else {
				sb.WriteString(", ")
			}
			sb.WriteString(n)
		}
	}

	return sb.String()
}

// article returns "a" or "an" for s, the way
// internal/ictiobus/parse/lr.go's util.ArticleFor does.
func article(s string) string {
	if s == "" {
		return "a"
	}
	switch s[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an"
	default:
		return "a"
	}
}
