package grammar

import "fmt"

// LR0Item is an LR(0) item: a production with a dot position marking
// how much of its body has been matched so far. Grounded on
// internal/ictiobus/grammar/item.go's LR0Item{NonTerminal, Left, Right},
// reworked from string-keyed symbol slices to a ProductionID plus an
// integer Dot offset into that production's Body, since symbols here
// are already stable indices rather than strings.
type LR0Item struct {
	Production ProductionID
	Dot        int
}

// AtEnd reports whether the dot has reached the end of the production's
// body (a candidate for reduction).
func (i LR0Item) AtEnd(g *Grammar) bool {
	return i.Dot >= len(g.Production(i.Production).Body)
}

// NextSymbol returns the symbol immediately after the dot and true, or
// (0, false) if the dot is at the end.
func (i LR0Item) NextSymbol(g *Grammar) (SymbolID, bool) {
	body := g.Production(i.Production).Body
	if i.Dot >= len(body) {
		return 0, false
	}
	return body[i.Dot], true
}

// Advance returns the item with the dot moved one position to the
// right.
func (i LR0Item) Advance() LR0Item {
	return LR0Item{Production: i.Production, Dot: i.Dot + 1}
}

func (i LR0Item) String(g *Grammar) string {
	p := g.Production(i.Production)
	head := g.Symbol(p.Head).Name

	s := head + " ->"
	for idx, sym := range p.Body {
		if idx == i.Dot {
			s += " ."
		}
		s += " " + g.Symbol(sym).Name
	}
	if i.Dot == len(p.Body) {
		s += " ."
	}
	return s
}

// LR1Item is an LR0Item plus a single lookahead terminal. Grounded on
// item.go's LR1Item{LR0Item, Lookahead string}, with Lookahead
// generalized to a SymbolID (or EOF).
type LR1Item struct {
	LR0Item
	Lookahead SymbolID
}

func (i LR1Item) String(g *Grammar) string {
	la := "$"
	if i.Lookahead != EOF {
		la = g.Symbol(i.Lookahead).Name
	}
	return fmt.Sprintf("[%s, %s]", i.LR0Item.String(g), la)
}

// Core returns the LR0Item this LR1Item shares its core with, dropping
// the lookahead. Grounded on item.go's CoreSet/EqualCoreSets, which the
// LALR merge step (component D) uses to find LR(1) states with
// identical cores to collapse together.
func (i LR1Item) Core() LR0Item {
	return i.LR0Item
}
