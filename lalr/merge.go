package lalr

import "github.com/grayling-toolkit/grayling/grammar"

// mergeByCore merges canonical-LR(1) states that share an identical
// LR(0) core into single LALR(1) states, unioning their lookaheads.
// This is the step internal/ictiobus/automaton/dfa.go's
// NewLALR1ViablePrefixDFA performs by converting the LR(1) DFA to an
// NFA and iteratively merging states with EqualCoreSets (grammar/
// item.go); here it is done directly over the local item-set/transition
// representation, which already has every canonical state and
// transition available in memory rather than needing an NFA
// round-trip.
func mergeByCore(states []itemSet, trans []map[grammar.SymbolID]int) ([]itemSet, []map[grammar.SymbolID]int) {
	coreOf := make([]string, len(states))
	groupOf := make([]int, len(states))
	firstWithCore := map[string]int{}
	var order []string

	for i, s := range states {
		c := core(s)
		coreOf[i] = c
		if g, ok := firstWithCore[c]; ok {
			groupOf[i] = g
		} else {
			groupOf[i] = len(order)
			firstWithCore[c] = len(order)
			order = append(order, c)
		}
	}

	merged := make([]itemSet, len(order))
	for i := range merged {
		merged[i] = itemSet{}
	}
	for i, s := range states {
		g := groupOf[i]
		for it := range s {
			merged[g][it] = true
		}
	}

	mergedTrans := make([]map[grammar.SymbolID]int, len(order))
	for i := range mergedTrans {
		mergedTrans[i] = map[grammar.SymbolID]int{}
	}
	for i, t := range trans {
		g := groupOf[i]
		for sym, to := range t {
			mergedTrans[g][sym] = groupOf[to]
		}
	}

	return merged, mergedTrans
}
