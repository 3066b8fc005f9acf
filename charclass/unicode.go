package charclass

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// FromRangeTable converts a standard library *unicode.RangeTable into a
// Set, walking it via rangetable.Visit so both the R16 and R32 entries
// are picked up regardless of which the table happens to use.
func FromRangeTable(rt *unicode.RangeTable) Set {
	var s Set
	rangetable.Visit(rt, func(lo, hi rune) {
		s = s.Union(New(Range{Lo: lo, Hi: hi}))
	})
	return s
}

// FromCategoryName looks up name (e.g. "L", "Nd", "Greek") among
// unicode.Categories, unicode.Scripts, and unicode.Properties, in that
// order, and returns the corresponding Set. The bool result is false if
// no table is registered under that name.
func FromCategoryName(name string) (Set, bool) {
	if rt, ok := unicode.Categories[name]; ok {
		return FromRangeTable(rt), true
	}
	if rt, ok := unicode.Scripts[name]; ok {
		return FromRangeTable(rt), true
	}
	if rt, ok := unicode.Properties[name]; ok {
		return FromRangeTable(rt), true
	}
	return Set{}, false
}
