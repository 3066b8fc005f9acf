package lalr

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/grayling-toolkit/grayling/grammar"
)

// ActionType classifies one cell of the LALR(1) action table, grounded
// on internal/ictiobus/parse/lraction.go's LRActionType
// (LRShift/LRReduce/LRAccept/LRError).
type ActionType int

const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one action-table cell: either shift to State, reduce by
// Production, accept, or error. Grounded on lraction.go's LRAction.
type Action struct {
	Type       ActionType
	State      int
	Production grammar.ProductionID
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("s%d", a.State)
	case ActionReduce:
		return fmt.Sprintf("r%d", int(a.Production))
	case ActionAccept:
		return "acc"
	default:
		return ""
	}
}

// Table is a built LALR(1) parse table: a state count, a start state,
// and per-state action/goto maps.
type Table struct {
	g        *grammar.Grammar
	start    int
	numStat  int
	action   []map[grammar.SymbolID]Action
	gotoTab  []map[grammar.SymbolID]int
	terms    []grammar.Symbol
	nonterms []grammar.Symbol
}

// Initial returns the parser's start state.
func (t *Table) Initial() int { return t.start }

// NumStates returns how many LALR(1) states the table has.
func (t *Table) NumStates() int { return t.numStat }

// Action returns the action for (state, terminal). A zero-value Action
// (ActionError) means there is no legal move, and parse/parser.go's
// UnexpectedToken machinery will compute the expected set from the
// rest of the row.
func (t *Table) Action(state int, terminal grammar.SymbolID) Action {
	return t.action[state][terminal]
}

// Goto returns the state to transition to after reducing to
// nonterminal nt while in state, and whether such a transition exists.
func (t *Table) Goto(state int, nt grammar.SymbolID) (int, bool) {
	s, ok := t.gotoTab[state][nt]
	return s, ok
}

// ExpectedTerminals returns every terminal with a legal action (shift,
// reduce or accept) in the given state, used to build "expected X or Y"
// messages the way the teacher's getExpectedString/findExpectedTokens
// do (internal/ictiobus/parse/lr.go).
func (t *Table) ExpectedTerminals(state int) []grammar.SymbolID {
	var out []grammar.SymbolID
	for sym, act := range t.action[state] {
		if act.Type != ActionError {
			out = append(out, sym)
		}
	}
	return out
}

// String renders the table as an aligned plain-text grid, grounded on
// internal/ictiobus/parse/lalr.go's lalr1Table.String(), which uses the
// same rosed.Edit("").InsertTableOpts(0, data, width, ...) call shape.
func (t *Table) String() string {
	data := [][]string{}

	headers := []string{"S", "|"}
	for _, term := range t.terms {
		headers = append(headers, "A:"+term.Name)
	}
	headers = append(headers, "|")
	for _, nt := range t.nonterms {
		headers = append(headers, "G:"+nt.Name)
	}
	data = append(data, headers)

	for s := 0; s < t.numStat; s++ {
		row := []string{fmt.Sprintf("%d", s), "|"}
		for _, term := range t.terms {
			row = append(row, t.action[s][term.ID].String())
		}
		row = append(row, "|")
		for _, nt := range t.nonterms {
			if g, ok := t.gotoTab[s][nt.ID]; ok {
				row = append(row, fmt.Sprintf("%d", g))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
