package grammar

// Builder accumulates symbol and production declarations and produces a
// validated, immutable Grammar via Build. The two-phase shape —
// AddTerm/AddNonTerm to mint handles, then AddRule to
// declare bodies referencing those handles — mirrors the observed shape
// of the teacher's own builder API (grammar_test.go's
// `g.AddTerm(term.ID(), term)` / `g.AddRule(r.NonTerminal, alts)`
// followed by `g.Validate()`), reworked here to mint integer SymbolIDs
// instead of keying everything by the caller's string name.
type Builder struct {
	symbols    []Symbol
	byName     map[string]SymbolID
	rules      map[SymbolID][]ProductionBody
	ruleOrder  []SymbolID
	operators  map[SymbolID]OperatorScope
	groups     []Group
	start      SymbolID
	startSet   bool
	duplicates map[string]int // name -> times declared
	conflicts  []string       // names declared under more than one SymbolKind
	patterns   map[SymbolID]TerminalSpec
}

// ProductionBody is one alternative body declared for a nonterminal,
// named by symbol name rather than ID since the builder may see a body
// reference a symbol before or after that symbol's own declaration.
type ProductionBody []string

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		byName:     map[string]SymbolID{},
		rules:      map[SymbolID][]ProductionBody{},
		operators:  map[SymbolID]OperatorScope{},
		duplicates: map[string]int{},
		patterns:   map[SymbolID]TerminalSpec{},
	}
}

func (b *Builder) declare(name string, kind SymbolKind) SymbolID {
	b.duplicates[name]++
	if id, ok := b.byName[name]; ok {
		if b.symbols[id].Kind != kind {
			b.conflicts = append(b.conflicts, name)
		}
		return id
	}
	id := SymbolID(len(b.symbols))
	b.symbols = append(b.symbols, Symbol{ID: id, Name: name, Kind: kind})
	b.byName[name] = id
	return id
}

// AddTerm declares a terminal symbol by name, returning its handle. If
// name was already declared as a terminal, the existing handle is
// returned (idempotent re-declaration is not itself an error; re-using
// an identical name for a different kind makes Build fail with a
// "declared as more than one kind" error).
func (b *Builder) AddTerm(name string) SymbolID {
	return b.declare(name, Terminal)
}

// AddNonTerm declares a nonterminal symbol by name, returning its
// handle.
func (b *Builder) AddNonTerm(name string) SymbolID {
	return b.declare(name, Nonterminal)
}

// SetStart declares name as the grammar's start nonterminal.
func (b *Builder) SetStart(name string) {
	id := b.declare(name, Nonterminal)
	b.start = id
	b.startSet = true
}

// AddRule declares one production body for the nonterminal named head:
// head -> symbols[0] symbols[1] ... An empty symbols slice declares an
// epsilon production.
func (b *Builder) AddRule(head string, symbols ...string) {
	id := b.declare(head, Nonterminal)
	if _, ok := b.rules[id]; !ok {
		b.ruleOrder = append(b.ruleOrder, id)
	}
	b.rules[id] = append(b.rules[id], ProductionBody(symbols))
}

// lexicalSymbol returns the handle for name, declaring it as a plain
// Terminal if it hasn't been declared yet under any kind. A name
// already declared as GroupStart/GroupEnd (AddGroup) is returned as-is,
// since group delimiters are lexical symbols too and need a pattern to
// be recognized by the tokenizer, but must keep their GroupStart/
// GroupEnd kind rather than being redeclared as Terminal.
func (b *Builder) lexicalSymbol(name string) SymbolID {
	if id, ok := b.byName[name]; ok {
		return id
	}
	return b.declare(name, Terminal)
}

// SetPattern declares the regex source and match priority for a
// terminal or group delimiter, minting it as a terminal if name was not
// already declared. Mirrors the teacher's separate AddPattern-after-
// AddClass declaration shape (internal/ictiobus/lex/lex.go's
// lexerTemplate.AddPattern) rather than folding the pattern into AddTerm
// itself, so a symbol's name and its lexical definition can be declared
// independently (or not at all, for terminals a custom tokenizer
// component produces directly).
func (b *Builder) SetPattern(name, pattern string, priority int) {
	id := b.lexicalSymbol(name)
	spec := b.patterns[id]
	spec.Pattern = pattern
	spec.Priority = priority
	b.patterns[id] = spec
}

// SetNoise marks a terminal as noise: the tokenizer matches it but never
// surfaces it as a token (spec.md §3 Symbol).
func (b *Builder) SetNoise(name string) {
	id := b.lexicalSymbol(name)
	spec := b.patterns[id]
	spec.Noise = true
	b.patterns[id] = spec
}

// SetSpecialName attaches a human-readable name to a terminal, used in
// diagnostics (e.g. "expected identifier") in place of its grammar name.
func (b *Builder) SetSpecialName(name, special string) {
	id := b.lexicalSymbol(name)
	spec := b.patterns[id]
	spec.Special = special
	b.patterns[id] = spec
}

// SetOperator declares precedence/associativity for a terminal used as
// an operator, for LALR shift/reduce conflict resolution.
func (b *Builder) SetOperator(term string, precedence int, assoc Assoc) {
	id := b.declare(term, Terminal)
	b.operators[id] = OperatorScope{Symbol: id, Precedence: precedence, Association: assoc}
}

// AddGroup declares a lexical group bounded by the named start/end
// terminals. nest names the GroupStart symbols of other groups (already
// or later declared via their own AddGroup call) allowed to open while
// scanning is inside this one.
func (b *Builder) AddGroup(start, end string, advance GroupAdvanceMode, endMode GroupEndMode, nest ...string) {
	startID := b.declare(start, GroupStart)
	endID := b.declare(end, GroupEnd)

	var nestIDs []SymbolID
	for _, n := range nest {
		nestIDs = append(nestIDs, b.declare(n, GroupStart))
	}

	b.groups = append(b.groups, Group{Start: startID, End: endID, Advance: advance, EndMode: endMode, Nest: nestIDs})
}

// Build validates the accumulated declarations and returns the
// resulting immutable Grammar. Validation failures are returned as
// plain errors built by grammar's own validationError helper; this
// package does not import diag (to keep its import graph a leaf), so
// the errors carry no diag code.
func (b *Builder) Build() (*Grammar, error) {
	if len(b.symbols) == 0 {
		return nil, validationError("empty grammar: no symbols declared")
	}
	if len(b.rules) == 0 {
		return nil, validationError("no rules in grammar")
	}
	if !b.hasAnyTerminal() {
		return nil, validationError("no terminals in grammar")
	}
	if !b.startSet {
		return nil, validationError("no start symbol declared")
	}
	if len(b.conflicts) > 0 {
		return nil, validationError("symbol %q declared as more than one kind", b.conflicts[0])
	}

	g := &Grammar{
		byName:    map[string]SymbolID{},
		byHead:    map[SymbolID][]ProductionID{},
		operators: b.operators,
		groups:    b.groups,
		start:     b.start,
		patterns:  b.patterns,
	}

	g.symbols = make([]Symbol, len(b.symbols))
	copy(g.symbols, b.symbols)
	for name, id := range b.byName {
		g.byName[name] = id
	}

	for _, headID := range b.ruleOrder {
		bodies := b.rules[headID]
		if len(bodies) == 0 {
			return nil, validationError("nonterminal %q has no productions", g.symbols[headID].Name)
		}
		for _, body := range bodies {
			var symIDs []SymbolID
			for _, symName := range body {
				id, ok := g.byName[symName]
				if !ok {
					return nil, validationError("production for %q references undeclared symbol %q", g.symbols[headID].Name, symName)
				}
				symIDs = append(symIDs, id)
			}
			pid := ProductionID(len(g.productions))
			prod := Production{ID: pid, Head: headID, Body: symIDs}
			g.productions = append(g.productions, prod)
			g.byHead[headID] = append(g.byHead[headID], pid)
		}
	}

	for _, nt := range g.Nonterminals() {
		if _, ok := g.byHead[nt.ID]; !ok {
			return nil, validationError("nonterminal %q has no productions", nt.Name)
		}
	}

	return g, nil
}

func (b *Builder) hasAnyTerminal() bool {
	for _, s := range b.symbols {
		if s.Kind == Terminal {
			return true
		}
	}
	return false
}
