package regex

import "fmt"

// IndistinguishableSymbolsError reports that two or more patterns
// compiled into the same combined DFA can both match the same input
// with no priority to break the tie (same declared priority, both
// reachable in the same accepting state).
type IndistinguishableSymbolsError struct {
	Names []string
}

func (e *IndistinguishableSymbolsError) Error() string {
	return fmt.Sprintf("regex: patterns %v are indistinguishable at the same priority", e.Names)
}

// Pattern names one compiled sub-expression contributed to a combined
// automaton, along with the priority used to break same-length match
// ties against other patterns (higher wins).
type Pattern struct {
	Name     string
	Source   string
	Priority int
}

// Compiled is the result of compiling one or more named patterns into a
// single automaton: the minimized DFA plus a lookup from accepting
// state to the winning pattern name.
type Compiled struct {
	DFA       *DFA
	stateName map[int]string
}

// NameOf returns the pattern name associated with accepting state s, or
// "" if s is not accepting.
func (c *Compiled) NameOf(s int) string {
	return c.stateName[s]
}

// Compile parses and builds each pattern into its own NFA tagged with
// that pattern's priority, joins them under one start state via
// epsilon transitions (the same bracketing buildAlt uses, generalized
// to N branches instead of 2), and reduces the result to a minimized
// DFA. This is the multi-pattern analogue of the teacher's single-
// pattern createAlternationFA chain: a tokenizer's combined automaton
// is exactly an alternation of every token class's pattern, with
// priority used to resolve same-length-match ties instead of leaving
// them undefined.
func Compile(patterns []Pattern) (*Compiled, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("regex: no patterns given")
	}

	combined := newNFA()
	start := combined.addState()
	combined.start = start

	name := map[stateID]string{}
	priority := map[stateID]int{}

	for _, p := range patterns {
		ast, err := Parse(p.Source)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		sub := Build(ast)

		offset := combined.importStates(sub)
		subStart := stateID(offset) + sub.start
		subAccept := stateID(offset) + sub.accept

		combined.addEpsilon(start, subStart)
		combined.states[subAccept].priority = p.Priority
		name[subAccept] = p.Name
		priority[subAccept] = p.Priority
	}

	dfa, subsets, err := combined.toDFATraced()
	if err != nil {
		return nil, err
	}

	stateNames := make(map[int]string, len(subsets))
	for dfaIdx, subset := range subsets {
		var contributors []stateID
		for s := range subset {
			if _, ok := name[s]; ok {
				contributors = append(contributors, s)
			}
		}
		if len(contributors) == 0 {
			continue
		}

		best := contributors[0]
		var tied []stateID
		for _, s := range contributors {
			if priority[s] > priority[best] {
				best = s
			}
		}
		for _, s := range contributors {
			if priority[s] == priority[best] {
				tied = append(tied, s)
			}
		}
		if len(tied) > 1 {
			var names []string
			for _, s := range tied {
				names = append(names, name[s])
			}
			return nil, &IndistinguishableSymbolsError{Names: names}
		}

		stateNames[dfaIdx] = name[best]
	}

	// Minimization splits accepting states only by priority, so give each
	// pattern name its own key for the duration of it: states accepting
	// different patterns stay apart. Real priorities are restored after.
	origPriority := make([]int, len(dfa.states))
	nameKey := map[string]int{}
	for i := range dfa.states {
		origPriority[i] = dfa.states[i].priority
		if n, ok := stateNames[i]; ok {
			if _, seen := nameKey[n]; !seen {
				nameKey[n] = len(nameKey)
			}
			dfa.states[i].priority = nameKey[n]
		}
	}
	min, remap := dfa.minimizeTraced()
	for oldIdx, newIdx := range remap {
		min.states[newIdx].priority = origPriority[oldIdx]
	}

	minNames := make(map[int]string, len(stateNames))
	for oldIdx, n := range stateNames {
		minNames[remap[oldIdx]] = n
	}

	return &Compiled{DFA: min, stateName: minNames}, nil
}
