package regex

import "github.com/grayling-toolkit/grayling/charclass"

// stateID indexes into NFA.states. The zero value, like every other
// stateID, is only meaningful relative to the NFA it was produced for.
type stateID int

type nfaTransition struct {
	on   charclass.Set
	to   stateID
	isEp bool // epsilon transition; 'on' is ignored
}

type nfaState struct {
	trans    []nfaTransition
	accepts  bool
	priority int // only meaningful on accepting states with more than one candidate
}

// NFA is a nondeterministic finite automaton over runes, built by
// Thompson construction (Build below) from a regex AST. Every NFA
// produced by this package has exactly one accepting state, the
// invariant the teacher's createJuxtapositionFA/createAlternationFA/
// createKleeneStarFA helpers all depend on (getSingleAcceptState) and
// which this port preserves by construction rather than asserting it
// after the fact.
type NFA struct {
	states []nfaState
	start  stateID
	accept stateID
}

func newNFA() *NFA {
	return &NFA{}
}

func (n *NFA) addState() stateID {
	n.states = append(n.states, nfaState{})
	return stateID(len(n.states) - 1)
}

func (n *NFA) addEpsilon(from, to stateID) {
	n.states[from].trans = append(n.states[from].trans, nfaTransition{to: to, isEp: true})
}

func (n *NFA) addOn(from stateID, set charclass.Set, to stateID) {
	n.states[from].trans = append(n.states[from].trans, nfaTransition{on: set, to: to})
}

// Build compiles a regex AST into an NFA via Thompson construction,
// the same decomposition the teacher sketched in lex/regex.go:
// createSingleSymbolFA for leaves, createJuxtapositionFA for Concat,
// createAlternationFA for Alt, and createKleeneStarFA for Star (Plus
// and Opt are expressed in terms of those same three primitives).
func Build(n Node) *NFA {
	switch t := n.(type) {
	case Literal:
		return buildClass(charclass.Single(t.Rune))
	case Class:
		return buildClass(t.Set)
	case AnyChar:
		return buildClass(anyCharSet())
	case Epsilon:
		return buildEpsilon()
	case Concat:
		return buildConcat(Build(t.Left), Build(t.Right))
	case Alt:
		return buildAlt(Build(t.Left), Build(t.Right))
	case Star:
		return buildStar(Build(t.Sub))
	case Plus:
		sub := Build(t.Sub)
		return buildConcat(sub, buildStar(Build(t.Sub)))
	case Opt:
		return buildAlt(Build(t.Sub), buildEpsilon())
	default:
		panic("regex: unhandled AST node type")
	}
}

func anyCharSet() charclass.Set {
	return charclass.Universe().Difference(charclass.New(charclass.Range{Lo: '\n', Hi: '\n'}))
}

// createSingleSymbolFA, generalized to a rune set instead of one symbol.
func buildClass(set charclass.Set) *NFA {
	n := newNFA()
	a := n.addState()
	b := n.addState()
	n.states[b].accepts = true
	n.addOn(a, set, b)
	n.start = a
	n.accept = b
	return n
}

func buildEpsilon() *NFA {
	n := newNFA()
	a := n.addState()
	n.states[a].accepts = true
	n.start = a
	n.accept = a
	return n
}

// createJuxtapositionFA: concatenate left then right by splicing left's
// accept state into right's start via an epsilon edge.
func buildConcat(left, right *NFA) *NFA {
	n := newNFA()
	offset := n.importStates(left)
	offset2 := n.importStates(right)

	n.start = stateID(offset) + left.start
	n.addEpsilon(stateID(offset)+left.accept, stateID(offset2)+right.start)
	n.states[stateID(offset)+left.accept].accepts = false
	n.accept = stateID(offset2) + right.accept
	return n
}

// createAlternationFA: new start/accept bracketing both branches.
func buildAlt(left, right *NFA) *NFA {
	n := newNFA()
	start := n.addState()
	accept := n.addState()
	n.states[accept].accepts = true

	offL := n.importStates(left)
	offR := n.importStates(right)

	n.addEpsilon(start, stateID(offL)+left.start)
	n.addEpsilon(start, stateID(offR)+right.start)
	n.addEpsilon(stateID(offL)+left.accept, accept)
	n.addEpsilon(stateID(offR)+right.accept, accept)
	n.states[stateID(offL)+left.accept].accepts = false
	n.states[stateID(offR)+right.accept].accepts = false

	n.start = start
	n.accept = accept
	return n
}

// createKleeneStarFA: new start/accept bracketing the sub-expression,
// with an epsilon loop back from the sub-expression's accept to its
// own start, plus an epsilon that bypasses it entirely (zero reps).
func buildStar(sub *NFA) *NFA {
	n := newNFA()
	start := n.addState()
	accept := n.addState()
	n.states[accept].accepts = true

	off := n.importStates(sub)

	n.addEpsilon(start, stateID(off)+sub.start)
	n.addEpsilon(start, accept)
	n.addEpsilon(stateID(off)+sub.accept, stateID(off)+sub.start)
	n.addEpsilon(stateID(off)+sub.accept, accept)
	n.states[stateID(off)+sub.accept].accepts = false

	n.start = start
	n.accept = accept
	return n
}

// importStates copies all of other's states into n, renumbering
// transitions, and returns the offset that must be added to any of
// other's stateIDs to find the corresponding state in n. This is the
// rune-automaton analogue of the teacher's NFA.Join "1:"/"2:" state
// renaming scheme, done with integer offsets instead of string prefixes
// since this package's states are dense integer indices rather than
// arbitrary string names.
func (n *NFA) importStates(other *NFA) int {
	offset := len(n.states)
	for _, st := range other.states {
		copied := nfaState{accepts: st.accepts, priority: st.priority}
		for _, tr := range st.trans {
			copied.trans = append(copied.trans, nfaTransition{
				on:   tr.on,
				to:   tr.to + stateID(offset),
				isEp: tr.isEp,
			})
		}
		n.states = append(n.states, copied)
	}
	return offset
}

// epsilonClosure returns the set of states reachable from any state in
// seeds using only epsilon transitions, seeds included.
func (n *NFA) epsilonClosure(seeds []stateID) map[stateID]bool {
	closure := make(map[stateID]bool, len(seeds))
	stack := append([]stateID{}, seeds...)
	for _, s := range seeds {
		closure[s] = true
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, tr := range n.states[s].trans {
			if !tr.isEp {
				continue
			}
			if !closure[tr.to] {
				closure[tr.to] = true
				stack = append(stack, tr.to)
			}
		}
	}
	return closure
}
