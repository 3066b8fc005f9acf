package lalr

import (
	"fmt"
	"sort"

	"github.com/grayling-toolkit/grayling/diag"
	"github.com/grayling-toolkit/grayling/grammar"
)

// item is one LR(1) item over the augmented grammar: prod indexes into
// the local augmented production list (builder.heads/bodies below), where
// the synthetic accept production always occupies the last index.
type item struct {
	prod int
	dot  int
	la   grammar.SymbolID
}

func (i item) atEnd(bodies [][]grammar.SymbolID) bool {
	return i.dot >= len(bodies[i.prod])
}

func (i item) next(bodies [][]grammar.SymbolID) (grammar.SymbolID, bool) {
	b := bodies[i.prod]
	if i.dot >= len(b) {
		return 0, false
	}
	return b[i.dot], true
}

// builder holds the fixed, grammar-derived tables used throughout
// closure/goto/table construction.
type builder struct {
	g           *grammar.Grammar
	heads       []grammar.SymbolID   // per augmented production, its head
	bodies      [][]grammar.SymbolID // per augmented production, its body
	bySymHead   map[grammar.SymbolID][]int
	acceptProd  int
	augStartSym grammar.SymbolID
	firstSets   map[grammar.SymbolID]map[grammar.SymbolID]bool
	nullable    map[grammar.SymbolID]bool
	report      *diag.Report
}

func newBuilder(g *grammar.Grammar) *builder {
	b := &builder{g: g, bySymHead: map[grammar.SymbolID][]int{}, report: diag.NewReport()}

	for _, p := range g.Productions() {
		idx := len(b.heads)
		b.heads = append(b.heads, p.Head)
		b.bodies = append(b.bodies, p.Body)
		b.bySymHead[p.Head] = append(b.bySymHead[p.Head], idx)
	}

	// synthetic S' -> Start augmentation, grounded on the teacher's own
	// g.Augmented().StartSymbol() pattern (computeLALR1Kernels): an
	// extra nonterminal and production that exists only for this build,
	// not added back to the caller's Grammar.
	b.augStartSym = grammar.SymbolID(-1000000) // sentinel outside real symbol space
	b.acceptProd = len(b.heads)
	b.heads = append(b.heads, b.augStartSym)
	b.bodies = append(b.bodies, []grammar.SymbolID{g.Start()})
	b.bySymHead[b.augStartSym] = []int{b.acceptProd}

	b.computeNullableAndFirst()

	return b
}

func (b *builder) computeNullableAndFirst() {
	b.nullable = map[grammar.SymbolID]bool{}
	b.firstSets = map[grammar.SymbolID]map[grammar.SymbolID]bool{}

	for _, t := range b.g.Terminals() {
		b.firstSets[t.ID] = map[grammar.SymbolID]bool{t.ID: true}
	}
	for _, nt := range b.g.Nonterminals() {
		b.firstSets[nt.ID] = map[grammar.SymbolID]bool{}
	}
	b.firstSets[b.augStartSym] = map[grammar.SymbolID]bool{}

	changed := true
	for changed {
		changed = false
		for prod, body := range b.bodies {
			head := b.heads[prod]
			if len(body) == 0 {
				if !b.nullable[head] {
					b.nullable[head] = true
					changed = true
				}
				continue
			}

			allNullableSoFar := true
			for _, sym := range body {
				for f := range b.firstOf(sym) {
					if !b.firstSets[head][f] {
						b.firstSets[head][f] = true
						changed = true
					}
				}
				if !b.nullable[sym] {
					allNullableSoFar = false
					break
				}
			}
			if allNullableSoFar && !b.nullable[head] {
				b.nullable[head] = true
				changed = true
			}
		}
	}
}

func (b *builder) firstOf(sym grammar.SymbolID) map[grammar.SymbolID]bool {
	return b.firstSets[sym]
}

// firstOfSequence computes FIRST(body[dot+1:] followed-by la), the
// lookahead-propagation rule used by closure: if everything after the
// dot can derive epsilon, la itself is included.
func (b *builder) firstOfSequence(body []grammar.SymbolID, from int, la grammar.SymbolID) map[grammar.SymbolID]bool {
	out := map[grammar.SymbolID]bool{}
	allNullable := true
	for _, sym := range body[from:] {
		for f := range b.firstOf(sym) {
			out[f] = true
		}
		if !b.nullable[sym] {
			allNullable = false
			break
		}
	}
	if allNullable {
		out[la] = true
	}
	return out
}

// itemSet is a set of LR(1) items, keyed by the item value itself
// (whole states are deduplicated by the core/lookaheadKey strings).
type itemSet map[item]bool

func (b *builder) closure(items itemSet) itemSet {
	result := itemSet{}
	for it := range items {
		result[it] = true
	}

	changed := true
	for changed {
		changed = false
		for it := range result {
			sym, ok := it.next(b.bodies)
			if !ok {
				continue
			}
			for _, prod := range b.bySymHead[sym] {
				lookaheads := b.firstOfSequence(b.bodies[it.prod], it.dot+1, it.la)
				for la := range lookaheads {
					newItem := item{prod: prod, dot: 0, la: la}
					if !result[newItem] {
						result[newItem] = true
						changed = true
					}
				}
			}
		}
	}

	return result
}

func (b *builder) gotoSet(items itemSet, sym grammar.SymbolID) itemSet {
	moved := itemSet{}
	for it := range items {
		next, ok := it.next(b.bodies)
		if !ok || next != sym {
			continue
		}
		moved[item{prod: it.prod, dot: it.dot + 1, la: it.la}] = true
	}
	if len(moved) == 0 {
		return nil
	}
	return b.closure(moved)
}

// core returns the LR0 core of an item set (dot positions and
// productions only, lookaheads stripped), used to key states for both
// dedup during canonical construction and merging into LALR(1) states.
func core(items itemSet) string {
	type coreItem struct{ prod, dot int }
	var list []coreItem
	for it := range items {
		list = append(list, coreItem{it.prod, it.dot})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].prod != list[j].prod {
			return list[i].prod < list[j].prod
		}
		return list[i].dot < list[j].dot
	})
	s := ""
	for _, c := range list {
		s += fmt.Sprintf("%d.%d|", c.prod, c.dot)
	}
	return s
}

// buildCanonicalLR1 constructs the canonical LR(1) collection of item
// sets via closure/goto fixed-point iteration, the same structure as
// the teacher's automaton.NewLR1ViablePrefixDFA, operating over the
// local augmented-grammar item representation instead of
// grammar.LR1Item/util.SVSet.
func (b *builder) buildCanonicalLR1() (states []itemSet, trans []map[grammar.SymbolID]int) {
	start := b.closure(itemSet{{prod: b.acceptProd, dot: 0, la: grammar.EOF}: true})

	stateIndex := map[string]int{}
	states = append(states, start)
	stateIndex[core(start)+lookaheadKey(start)] = 0
	trans = append(trans, map[grammar.SymbolID]int{})

	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		symbols := map[grammar.SymbolID]bool{}
		for it := range states[i] {
			if sym, ok := it.next(b.bodies); ok {
				symbols[sym] = true
			}
		}

		var symList []grammar.SymbolID
		for s := range symbols {
			symList = append(symList, s)
		}
		sort.Slice(symList, func(a, c int) bool { return symList[a] < symList[c] })

		for _, sym := range symList {
			target := b.gotoSet(states[i], sym)
			if target == nil {
				continue
			}
			tk := core(target) + lookaheadKey(target)
			idx, ok := stateIndex[tk]
			if !ok {
				idx = len(states)
				stateIndex[tk] = idx
				states = append(states, target)
				trans = append(trans, map[grammar.SymbolID]int{})
				queue = append(queue, idx)
			}
			trans[i][sym] = idx
		}
	}

	return states, trans
}

func lookaheadKey(items itemSet) string {
	type pair struct {
		prod, dot int
		la        grammar.SymbolID
	}
	var list []pair
	for it := range items {
		list = append(list, pair{it.prod, it.dot, it.la})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].prod != list[j].prod {
			return list[i].prod < list[j].prod
		}
		if list[i].dot != list[j].dot {
			return list[i].dot < list[j].dot
		}
		return list[i].la < list[j].la
	})
	s := ""
	for _, p := range list {
		s += fmt.Sprintf("%d.%d@%d|", p.prod, p.dot, p.la)
	}
	return s
}
