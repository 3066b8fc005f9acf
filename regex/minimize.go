package regex

import (
	"fmt"
	"sort"

	"github.com/grayling-toolkit/grayling/charclass"
)

// Minimize reduces d to an equivalent DFA with as few states as
// possible, via Hopcroft's partition-refinement algorithm. Two
// accepting states with different priority are never merged, since
// merging them would erase the longest-match priority tie-break the
// tokenizer needs. Compile returns IndistinguishableSymbolsError before
// minimizing when two patterns accept in one DFA state at the same
// priority.
func (d *DFA) Minimize() *DFA {
	min, _ := d.minimizeTraced()
	return min
}

// minimizeTraced is Minimize plus the old-state-index -> new-state-index
// remap, which Compile needs to carry pattern-name attribution through
// minimization.
func (d *DFA) minimizeTraced() (*DFA, []int) {
	colors := computeDFAAlphabet(d)

	// initial partition: by (accepts, priority), non-accepting states in
	// their own single block
	groups := map[[2]int][]int{}
	for i, st := range d.states {
		var key [2]int
		if st.accepts {
			key = [2]int{1, st.priority}
		} else {
			key = [2]int{0, 0}
		}
		groups[key] = append(groups[key], i)
	}

	var partition [][]int
	for _, g := range groups {
		partition = append(partition, g)
	}

	stateBlock := make([]int, len(d.states))
	refresh := func() {
		for bi, block := range partition {
			for _, s := range block {
				stateBlock[s] = bi
			}
		}
	}
	refresh()

	changed := true
	for changed {
		changed = false
		var next [][]int

		for _, block := range partition {
			if len(block) <= 1 {
				next = append(next, block)
				continue
			}

			sig := func(s int) string {
				out := ""
				for _, color := range colors {
					to := -1
					for _, tr := range d.states[s].trans {
						if !tr.set.Intersection(color).Empty() {
							to = tr.to
							break
						}
					}
					if to == -1 {
						out += "."
					} else {
						out += fmt.Sprintf("%d,", stateBlock[to])
					}
				}
				return out
			}

			buckets := map[string][]int{}
			for _, s := range block {
				k := sig(s)
				buckets[k] = append(buckets[k], s)
			}

			if len(buckets) > 1 {
				changed = true
			}
			for _, b := range buckets {
				next = append(next, b)
			}
		}

		partition = next
		refresh()
	}

	newIdx := make([]int, len(d.states))
	for bi, block := range partition {
		for _, s := range block {
			newIdx[s] = bi
		}
	}

	min := &DFA{states: make([]dfaState, len(partition))}
	for bi, block := range partition {
		rep := d.states[block[0]]
		ns := dfaState{accepts: rep.accepts, priority: rep.priority}
		for _, tr := range rep.trans {
			ns.trans = append(ns.trans, dfaTransition{set: tr.set, to: newIdx[tr.to]})
		}
		min.states[bi] = ns
	}

	startBlock := newIdx[0]
	if startBlock != 0 {
		min.states[0], min.states[startBlock] = min.states[startBlock], min.states[0]
		for i := range min.states {
			for j := range min.states[i].trans {
				if min.states[i].trans[j].to == 0 {
					min.states[i].trans[j].to = startBlock
				} else if min.states[i].trans[j].to == startBlock {
					min.states[i].trans[j].to = 0
				}
			}
		}
		for s, bi := range newIdx {
			switch bi {
			case 0:
				newIdx[s] = startBlock
			case startBlock:
				newIdx[s] = 0
			}
		}
	}

	return min, newIdx
}

func computeDFAAlphabet(d *DFA) []charclass.Set {
	var all []charclass.Range
	for _, st := range d.states {
		for _, tr := range st.trans {
			all = append(all, tr.set.Ranges()...)
		}
	}
	if len(all) == 0 {
		return nil
	}

	var boundaries []rune
	for _, r := range all {
		boundaries = append(boundaries, r.Lo, r.Hi+1)
	}

	uniqSorted := dedupRunes(boundaries)

	var colors []charclass.Set
	for i := 0; i+1 < len(uniqSorted); i++ {
		lo, hi := uniqSorted[i], uniqSorted[i+1]-1
		if hi < lo {
			continue
		}
		colors = append(colors, charclass.New(charclass.Range{Lo: lo, Hi: hi}))
	}
	return colors
}

func dedupRunes(rs []rune) []rune {
	sorted := append([]rune{}, rs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	seen := map[rune]bool{}
	var out []rune
	for _, r := range sorted {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
