package regex

import (
	"fmt"
	"sort"

	"github.com/grayling-toolkit/grayling/charclass"
)

// MaxDFAStates bounds how large a single compiled DFA may grow before
// compilation is aborted with a DfaTooLarge diagnostic. Pathological
// patterns (deeply nested counted repetition, exponential subset
// blowup) are the usual cause; this is the safety valve spec.md's
// "bounded-state safety" requirement calls for.
const MaxDFAStates = 1 << 16

// DfaTooLargeError reports that subset construction exceeded
// MaxDFAStates while compiling a pattern.
type DfaTooLargeError struct {
	Limit int
}

func (e *DfaTooLargeError) Error() string {
	return fmt.Sprintf("regex: compiled automaton exceeds %d states", e.Limit)
}

// RegexMatchesNothingError reports that a pattern's DFA has no reachable
// accepting state, i.e. it cannot match any input at all (e.g. an
// intersection of disjoint character classes, or an empty alternation).
type RegexMatchesNothingError struct {
	Pattern string
}

func (e *RegexMatchesNothingError) Error() string {
	return fmt.Sprintf("regex: pattern %q cannot match any input", e.Pattern)
}

// dfaTransition is one outgoing edge of a DFA state: runes in set go to
// state to. Each set is one color of the alphabet partition computed
// for that automaton (computeAlphabet below); a state has no
// transition for colors that lead nowhere.
type dfaTransition struct {
	set charclass.Set
	to  int
}

type dfaState struct {
	trans    []dfaTransition
	accepts  bool
	priority int
}

// DFA is a deterministic finite automaton over runes, produced from an
// NFA by subset construction (Algorithm 3.20) and then reduced by
// Hopcroft minimization. State 0 is always the start state.
type DFA struct {
	states []dfaState
}

// Initial returns the automaton's start state, always index 0.
func (d *DFA) Initial() int {
	return 0
}

// NumStates returns how many states the automaton has.
func (d *DFA) NumStates() int {
	return len(d.states)
}

// Accepts reports whether state s is an accepting state.
func (d *DFA) Accepts(s int) bool {
	return d.states[s].accepts
}

// Step returns the state reached from s on input c, or (-1, false) if
// there is no such transition (a dead end — the match fails here).
func (d *DFA) Step(s int, c rune) (int, bool) {
	for _, tr := range d.states[s].trans {
		if tr.set.Contains(c) {
			return tr.to, true
		}
	}
	return -1, false
}

// ToDFA converts n into a DFA via subset construction (purple dragon
// book Algorithm 3.20), the rune-alphabet analogue of the teacher's
// automaton.NFA.ToDFA, which partitions on single input-symbol strings
// rather than rune ranges; here the alphabet is first partitioned into
// disjoint rune-range "colors" so that each DFA transition is still a
// single contiguous decision per state (computeAlphabet below).
func (n *NFA) ToDFA() (*DFA, error) {
	dfa, _, err := n.toDFATraced()
	return dfa, err
}

// toDFATraced is ToDFA plus the NFA-state subset each resulting DFA
// state was built from, keyed by DFA state index. Compile uses the
// trace to recover which original pattern contributed each accepting
// DFA state; ToDFA itself has no need of it and so does not expose it.
func (n *NFA) toDFATraced() (*DFA, []map[stateID]bool, error) {
	colors := computeAlphabet(n)

	startSet := n.epsilonClosure([]stateID{n.start})

	type subset = string // sorted comma-joined stateID key

	key := func(states map[stateID]bool) subset {
		ids := make([]int, 0, len(states))
		for s := range states {
			ids = append(ids, int(s))
		}
		sort.Ints(ids)
		return fmt.Sprint(ids)
	}

	dfa := &DFA{}
	indexOf := map[subset]int{}
	setOf := map[subset]map[stateID]bool{}

	startKey := key(startSet)
	indexOf[startKey] = 0
	setOf[startKey] = startSet
	dfa.states = append(dfa.states, dfaState{})

	queue := []subset{startKey}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curIdx := indexOf[cur]
		curSet := setOf[cur]

		accepting, priority := bestAccept(n, curSet)
		dfa.states[curIdx].accepts = accepting
		dfa.states[curIdx].priority = priority

		for _, color := range colors {
			target := map[stateID]bool{}
			for s := range curSet {
				for _, tr := range n.states[s].trans {
					if tr.isEp {
						continue
					}
					if tr.on.Intersection(color).Empty() {
						continue
					}
					target[tr.to] = true
				}
			}
			if len(target) == 0 {
				continue
			}

			closure := n.epsilonClosure(mapKeys(target))
			tk := key(closure)

			idx, ok := indexOf[tk]
			if !ok {
				idx = len(dfa.states)
				if idx >= MaxDFAStates {
					return nil, nil, &DfaTooLargeError{Limit: MaxDFAStates}
				}
				indexOf[tk] = idx
				setOf[tk] = closure
				dfa.states = append(dfa.states, dfaState{})
				queue = append(queue, tk)
			}

			dfa.states[curIdx].trans = append(dfa.states[curIdx].trans, dfaTransition{set: color, to: idx})
		}
	}

	if !dfaHasAcceptingState(dfa) {
		return nil, nil, &RegexMatchesNothingError{}
	}

	subsets := make([]map[stateID]bool, len(dfa.states))
	for k, idx := range indexOf {
		subsets[idx] = setOf[k]
	}

	return dfa, subsets, nil
}

func mapKeys(m map[stateID]bool) []stateID {
	out := make([]stateID, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	return out
}

func bestAccept(n *NFA, states map[stateID]bool) (accepting bool, priority int) {
	first := true
	for s := range states {
		if !n.states[s].accepts {
			continue
		}
		if first || n.states[s].priority > priority {
			priority = n.states[s].priority
			first = false
		}
		accepting = true
	}
	return accepting, priority
}

func dfaHasAcceptingState(d *DFA) bool {
	for _, st := range d.states {
		if st.accepts {
			return true
		}
	}
	return false
}

// computeAlphabet partitions the union of every rune range mentioned by
// any transition in n into the coarsest set of disjoint ranges ("colors")
// such that every original transition's range is a union of whole
// colors. This is what lets subset construction treat "a-z" and "a-m"
// transitions from different states consistently: the colors refine
// both into {a-m, n-z}.
func computeAlphabet(n *NFA) []charclass.Set {
	var boundaries []rune
	for _, st := range n.states {
		for _, tr := range st.trans {
			if tr.isEp {
				continue
			}
			for _, r := range tr.on.Ranges() {
				boundaries = append(boundaries, r.Lo, r.Hi+1)
			}
		}
	}
	if len(boundaries) == 0 {
		return nil
	}

	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i] < boundaries[j] })

	uniq := boundaries[:1]
	for _, b := range boundaries[1:] {
		if b != uniq[len(uniq)-1] {
			uniq = append(uniq, b)
		}
	}

	var colors []charclass.Set
	for i := 0; i+1 < len(uniq); i++ {
		lo, hi := uniq[i], uniq[i+1]-1
		if hi < lo {
			continue
		}
		colors = append(colors, charclass.New(charclass.Range{Lo: lo, Hi: hi}))
	}
	return colors
}
