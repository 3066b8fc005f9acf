package lalr

import (
	"github.com/grayling-toolkit/grayling/diag"
	"github.com/grayling-toolkit/grayling/grammar"
)

// Build constructs the LALR(1) action/goto table for g: canonical
// LR(1) item sets (build.go), merged by core into LALR(1) states
// (merge.go), then reduced to a table with conflicts resolved by
// declared operator precedence/associativity where possible.
//
// Unresolved conflicts are reported via diag.CodeLrConflict on the
// returned *diag.Report; Build still returns a best-effort Table in
// that case (favoring shift, then the lowest-numbered production, the
// same deterministic tie-break lraction.go's conflict detection
// implies by always preferring one of the two colliding actions over
// refusing to build at all), so callers can inspect the report to
// decide whether an LALR(1)-ambiguous grammar is acceptable to them.
func Build(g *grammar.Grammar) (*Table, *diag.Report, error) {
	b := newBuilder(g)

	canonStates, canonTrans := b.buildCanonicalLR1()
	states, trans := mergeByCore(canonStates, canonTrans)

	t := &Table{
		g:        g,
		start:    0,
		numStat:  len(states),
		action:   make([]map[grammar.SymbolID]Action, len(states)),
		gotoTab:  make([]map[grammar.SymbolID]int, len(states)),
		terms:    g.Terminals(),
		nonterms: g.Nonterminals(),
	}

	for i := range states {
		t.action[i] = map[grammar.SymbolID]Action{}
		t.gotoTab[i] = map[grammar.SymbolID]int{}
	}

	for i, set := range states {
		// shifts and gotos, from transitions
		for sym, to := range trans[i] {
			if isTerminalOrEOF(g, sym) {
				setAction(t, b, i, sym, Action{Type: ActionShift, State: to})
			} else {
				t.gotoTab[i][sym] = to
			}
		}

		// reduces and accept, from complete items
		for it := range set {
			if !it.atEnd(b.bodies) {
				continue
			}
			if it.prod == b.acceptProd {
				setAction(t, b, i, grammar.EOF, Action{Type: ActionAccept})
				continue
			}
			setAction(t, b, i, it.la, Action{Type: ActionReduce, Production: grammar.ProductionID(it.prod)})
		}
	}

	return t, b.report, nil
}

func isTerminalOrEOF(g *grammar.Grammar, sym grammar.SymbolID) bool {
	if sym == grammar.EOF {
		return true
	}
	return g.Symbol(sym).Kind == grammar.Terminal
}

// setAction installs act into state s's action row for sym, resolving
// a collision with whatever is already there via declared operator
// precedence/associativity, falling back to a shift preference and
// recording a diag.CodeLrConflict diagnostic when no precedence
// decides it — the same three-way shift/reduce, reduce/reduce,
// accept/? classification as lraction.go's isShiftReduceConlict/
// makeLRConflictError, generalized to actually pick a winner instead
// of only formatting the conflict message.
func setAction(t *Table, b *builder, s int, sym grammar.SymbolID, act Action) {
	existing, ok := t.action[s][sym]
	if !ok || existing.Type == ActionError {
		t.action[s][sym] = act
		return
	}
	if existing == act {
		return
	}

	winner, resolved := resolveConflict(b, existing, act, sym)
	t.action[s][sym] = winner

	if !resolved {
		b.report.Add(diag.Newf(diag.CodeLrConflict, diag.Error, diag.Location{},
			"conflict in state %d on symbol %s between %s and %s", s, sym, existing.String(), act.String(),
		).WithPayload(Conflict{State: s, Symbol: sym, Actions: []Action{existing, act}}), nil)
	}
}

// resolveConflict picks a winning action between two colliding actions
// on the same symbol, using declared operator precedence/associativity
// when both sides name an operator terminal. Returns resolved=false
// when no precedence rule applies and the choice was an arbitrary
// shift-preferring default.
func resolveConflict(b *builder, a, c Action, sym grammar.SymbolID) (Action, bool) {
	if a.Type == ActionAccept || c.Type == ActionAccept {
		if a.Type == ActionAccept {
			return a, true
		}
		return c, true
	}

	if a.Type == ActionShift && c.Type == ActionReduce {
		return resolveShiftReduce(b, a, c, sym)
	}
	if a.Type == ActionReduce && c.Type == ActionShift {
		winner, resolved := resolveShiftReduce(b, c, a, sym)
		return winner, resolved
	}

	if a.Type == ActionReduce && c.Type == ActionReduce {
		// reduce/reduce: prefer the production declared earlier, which
		// is the standard yacc-style default tie-break.
		if a.Production < c.Production {
			return a, false
		}
		return c, false
	}

	// shift/shift can't actually happen out of a deterministic goto
	// function, but keep a defined default rather than panicking.
	return a, false
}

func resolveShiftReduce(b *builder, shift, reduce Action, sym grammar.SymbolID) (Action, bool) {
	shiftOp, shiftHasOp := b.g.Operator(sym)
	if !shiftHasOp {
		return shift, false
	}

	reduceProd := b.g.Production(reduce.Production)
	reduceOp, reduceHasOp := lastTerminalOperator(b.g, reduceProd)
	if !reduceHasOp {
		return shift, false
	}

	switch {
	case shiftOp.Precedence > reduceOp.Precedence:
		return shift, true
	case shiftOp.Precedence < reduceOp.Precedence:
		return reduce, true
	default:
		switch shiftOp.Association {
		case grammar.Left:
			return reduce, true
		case grammar.Right:
			return shift, true
		default:
			return shift, false
		}
	}
}

// lastTerminalOperator finds the rightmost terminal in a production's
// body that has declared operator precedence, the usual heuristic for
// "the operator this production is for" in a yacc-style precedence
// scheme.
func lastTerminalOperator(g *grammar.Grammar, p grammar.Production) (grammar.OperatorScope, bool) {
	for i := len(p.Body) - 1; i >= 0; i-- {
		sym := p.Body[i]
		if g.Symbol(sym).Kind != grammar.Terminal {
			continue
		}
		if op, ok := g.Operator(sym); ok {
			return op, true
		}
	}
	return grammar.OperatorScope{}, false
}
