package lex

import (
	"github.com/grayling-toolkit/grayling/diag"
	"github.com/grayling-toolkit/grayling/grammar"
	"github.com/grayling-toolkit/grayling/regex"
)

// Token is one lexical unit produced by a Tokenizer: the terminal
// symbol it matched, the matched text, its absolute byte offset, its
// 1-based line/column, and the value produced by the tokenizer's
// Transform hook, if one was given.
type Token struct {
	Symbol grammar.SymbolID
	Lexeme string
	Offset int
	Line   int
	Col    int
	Value  interface{}
}

// Status classifies the outcome of a single Next call.
type Status int

const (
	// StatusToken means Result.Token is a real token to hand to a
	// parser.
	StatusToken Status = iota
	// StatusNeedMoreInput means the scan ran off the end of buffered
	// input before it could decide on a match; the Reader's cursor is
	// left untouched, so calling Next again after Feed resumes exactly
	// where this call left off (spec.md §4.F's suspension invariant).
	StatusNeedMoreInput
	// StatusEndOfInput means there is no more input and nothing left to
	// tokenize.
	StatusEndOfInput
	// StatusError means a run-time diagnostic was raised; the
	// Tokenizer already recovered (e.g. by skipping one character) and
	// is ready for another Next call.
	StatusError
)

// Result is what Next returns.
type Result struct {
	Status Status
	Token  Token
	Diag   diag.Diagnostic
}

// TransformFunc computes a semantic value for a matched terminal's raw
// lexeme, the "transform" half of spec.md §4.G's SemanticProvider,
// invoked inside the tokenizer as each terminal is matched.
type TransformFunc func(sym grammar.SymbolID, lexeme string) (interface{}, error)

// frame is one entry of the active group stack: which group is open and
// where its Start symbol began, for diagnostics.
type frame struct {
	group       grammar.Group
	startOffset int
}

// Tokenizer drives a compiled regex.DFA over a Reader, applying
// longest-match-with-priority-tiebreak terminal recognition (component
// B), noise discarding, and nested group handling (spec.md §4.F),
// generalized from internal/ictiobus/lex/lex.go's lazyLex.Next: that
// type re-scans its whole pattern list per rune with the stdlib regexp
// package and has no notion of groups at all (TunaQuest's grammar has
// none); this Tokenizer instead steps one precompiled DFA and adds the
// group-stack machinery spec.md's grammar model requires.
type Tokenizer struct {
	g        *grammar.Grammar
	compiled *regex.Compiled
	byName   map[string]grammar.SymbolID
	groups   map[grammar.SymbolID]grammar.Group // keyed by Start symbol

	transform TransformFunc

	pos   int
	line  int
	col   int
	stack []frame
}

// NewTokenizer compiles every terminal and group delimiter in g that
// declares a pattern into one combined DFA and returns a Tokenizer
// ready to scan from offset 0, line 1, column 1.
func NewTokenizer(g *grammar.Grammar, transform TransformFunc) (*Tokenizer, error) {
	var patterns []regex.Pattern
	byName := map[string]grammar.SymbolID{}

	for _, sym := range g.Symbols() {
		spec, ok := g.Pattern(sym.ID)
		if !ok || spec.Pattern == "" {
			continue
		}
		patterns = append(patterns, regex.Pattern{Name: sym.Name, Source: spec.Pattern, Priority: spec.Priority})
		byName[sym.Name] = sym.ID
	}

	compiled, err := regex.Compile(patterns)
	if err != nil {
		return nil, err
	}

	groups := map[grammar.SymbolID]grammar.Group{}
	for _, grp := range g.Groups() {
		groups[grp.Start] = grp
	}

	return &Tokenizer{
		g:         g,
		compiled:  compiled,
		byName:    byName,
		groups:    groups,
		transform: transform,
		line:      1,
		col:       1,
	}, nil
}

// Offset returns the tokenizer's current absolute position in the
// Reader it is scanning.
func (t *Tokenizer) Offset() int {
	return t.pos
}

// InGroup reports whether the tokenizer is currently inside a noise
// group (and, if so, which).
func (t *Tokenizer) InGroup() (grammar.Group, bool) {
	if len(t.stack) == 0 {
		return grammar.Group{}, false
	}
	top := t.stack[len(t.stack)-1]
	return top.group, true
}

// Next scans the next token from r starting at the tokenizer's current
// position. It loops internally past noise and group regions, only
// returning once it has a real token, a terminal diagnostic, a
// suspension, or end-of-input.
func (t *Tokenizer) Next(r *Reader) Result {
	for {
		if len(t.stack) > 0 {
			res, done := t.stepGroup(r)
			if done {
				return res
			}
			continue
		}

		res, done := t.stepOuter(r)
		if done {
			return res
		}
	}
}

// stepOuter runs one outer-loop iteration (spec.md §4.F "Outer loop
// (outside any group)"): longest match from the current position, then
// dispatch on what was matched. done is false when the step discarded
// noise or opened a group and the caller should loop Next again.
func (t *Tokenizer) stepOuter(r *Reader) (Result, bool) {
	symName, lexemeEnd, matched, sus := t.scan(r, t.pos)
	if sus {
		return Result{Status: StatusNeedMoreInput}, true
	}

	if !matched {
		if atEOF, eofSus := t.atTrueEOF(r, t.pos); eofSus {
			return Result{Status: StatusNeedMoreInput}, true
		} else if atEOF {
			return Result{Status: StatusEndOfInput}, true
		}
		return t.unrecognized(r), true
	}

	symID := t.byName[symName]
	lexeme := string(r.Slice(t.pos, lexemeEnd))
	startOffset, startLine, startCol := t.pos, t.line, t.col
	t.advance(lexeme)

	sym := t.g.Symbol(symID)

	if sym.Kind == grammar.GroupStart {
		grp := t.groups[symID]
		t.stack = append(t.stack, frame{group: grp, startOffset: startOffset})
		return Result{}, false
	}

	spec, _ := t.g.Pattern(symID)
	if spec.Noise {
		return Result{}, false
	}

	return Result{Status: StatusToken, Token: t.makeToken(symID, lexeme, startOffset, startLine, startCol)}, true
}

// stepGroup runs one iteration while inside the innermost open group,
// per its declared advance mode (spec.md §4.F "Group frames").
func (t *Tokenizer) stepGroup(r *Reader) (Result, bool) {
	top := t.stack[len(t.stack)-1]

	if top.group.Advance == grammar.AdvanceByToken {
		return t.stepGroupByToken(r, top)
	}
	return t.stepGroupByCharacter(r, top)
}

// stepGroupByCharacter advances one character at a time, looking for
// either a nested group's Start or this group's End.
func (t *Tokenizer) stepGroupByCharacter(r *Reader, top frame) (Result, bool) {
	symName, lexemeEnd, matched, sus := t.scan(r, t.pos)
	if sus {
		return Result{Status: StatusNeedMoreInput}, true
	}

	if matched {
		symID := t.byName[symName]
		if symID == top.group.End || t.isNestStart(top, symID) {
			lexeme := string(r.Slice(t.pos, lexemeEnd))
			return t.closeOrOpenGroup(top, symID, lexeme)
		}
	}

	// not a delimiter: discard exactly one character and keep scanning.
	c, size, needMore := r.PeekRune(t.pos)
	if needMore {
		return Result{Status: StatusNeedMoreInput}, true
	}
	if size == 0 {
		return Result{Status: StatusError, Diag: t.groupEOFDiag(top)}, true
	}
	t.advanceRune(c, size)
	return Result{}, false
}

// stepGroupByToken re-enters the outer DFA loop for one token and
// inspects its symbol, discarding anything that is not this group's End
// or a nested group's Start.
func (t *Tokenizer) stepGroupByToken(r *Reader, top frame) (Result, bool) {
	symName, lexemeEnd, matched, sus := t.scan(r, t.pos)
	if sus {
		return Result{Status: StatusNeedMoreInput}, true
	}
	if !matched {
		if atEOF, eofSus := t.atTrueEOF(r, t.pos); eofSus {
			return Result{Status: StatusNeedMoreInput}, true
		} else if atEOF {
			return Result{Status: StatusError, Diag: t.groupEOFDiag(top)}, true
		}
		return t.unrecognized(r), true
	}

	symID := t.byName[symName]
	lexeme := string(r.Slice(t.pos, lexemeEnd))

	if symID == top.group.End || t.isNestStart(top, symID) {
		return t.closeOrOpenGroup(top, symID, lexeme)
	}

	// any other token produced while inside a token-advance group is
	// noise with respect to the group and is discarded.
	t.advance(lexeme)
	return Result{}, false
}

// closeOrOpenGroup handles a delimiter found while scanning inside a
// group: either pushing a newly opened nested group, or popping the
// current one per its declared EndMode. done is true only when a real
// token must be handed back to the caller (EndKeepEnd's re-emitted End
// token); every other outcome is internal bookkeeping the tokenizer's
// Next loop should keep scanning past.
func (t *Tokenizer) closeOrOpenGroup(top frame, symID grammar.SymbolID, lexeme string) (Result, bool) {
	if symID != top.group.End {
		// a nested group's Start.
		startOffset := t.pos
		t.advance(lexeme)
		t.stack = append(t.stack, frame{group: t.groups[symID], startOffset: startOffset})
		return Result{}, false
	}

	switch top.group.EndMode {
	case grammar.EndOpen:
		// leave the end lexeme unread for whatever scans next.
		t.stack = t.stack[:len(t.stack)-1]
		return Result{}, false
	case grammar.EndKeepEnd:
		startOffset, startLine, startCol := t.pos, t.line, t.col
		t.advance(lexeme)
		t.stack = t.stack[:len(t.stack)-1]
		spec, _ := t.g.Pattern(symID)
		if spec.Noise {
			return Result{}, false
		}
		return Result{Status: StatusToken, Token: t.makeToken(symID, lexeme, startOffset, startLine, startCol)}, true
	default: // EndClosed
		t.advance(lexeme)
		t.stack = t.stack[:len(t.stack)-1]
		return Result{}, false
	}
}

func (t *Tokenizer) isNestStart(top frame, symID grammar.SymbolID) bool {
	for _, n := range top.group.Nest {
		if n == symID {
			return true
		}
	}
	return false
}

// scan performs one longest-match-with-priority-tiebreak DFA walk
// starting at byte offset from in r (component B's invariant: "the
// tokenizer at a state positioned on s commits a prefix of maximum
// length"). matched is false if no accepting state was ever reached,
// and lexemeEnd is then the offset where the walk stopped; callers use
// atTrueEOF to tell true end of input apart from unrecognized input.
func (t *Tokenizer) scan(r *Reader, from int) (name string, lexemeEnd int, matched bool, suspend bool) {
	state := t.compiled.DFA.Initial()
	cur := from

	lastAcceptOffset := -1
	lastAcceptState := -1

	for {
		c, size, needMore := r.PeekRune(cur)
		if needMore {
			return "", 0, false, true
		}
		if size == 0 {
			break // end of input
		}

		next, ok := t.compiled.DFA.Step(state, c)
		if !ok {
			break
		}
		state = next
		cur += size

		if t.compiled.DFA.Accepts(state) {
			lastAcceptOffset = cur
			lastAcceptState = state
		}
	}

	if lastAcceptOffset == -1 {
		return "", cur, false, false
	}
	return t.compiled.NameOf(lastAcceptState), lastAcceptOffset, true, false
}

// atTrueEOF reports whether offset is at genuine end of input (as
// opposed to merely being a position no pattern matches from).
func (t *Tokenizer) atTrueEOF(r *Reader, offset int) (atEOF, suspend bool) {
	_, size, needMore := r.PeekRune(offset)
	if needMore {
		return false, true
	}
	return size == 0, false
}

func (t *Tokenizer) unrecognized(r *Reader) Result {
	c, size, needMore := r.PeekRune(t.pos)
	if needMore {
		return Result{Status: StatusNeedMoreInput}
	}
	if size == 0 {
		return Result{Status: StatusEndOfInput}
	}

	d := diag.Newf(diag.CodeUnrecognizedInput, diag.Error,
		diag.Location{Line: t.line, Col: t.col, Offset: t.pos},
		"unrecognized input %q", string(c))
	t.advanceRune(c, size)
	return Result{Status: StatusError, Diag: d}
}

func (t *Tokenizer) groupEOFDiag(top frame) diag.Diagnostic {
	return diag.Newf(diag.CodeUnexpectedEndOfInputInGroup, diag.Error,
		diag.Location{Line: t.line, Col: t.col, Offset: t.pos},
		"unexpected end of input inside group opened at offset %d", top.startOffset)
}

func (t *Tokenizer) makeToken(sym grammar.SymbolID, lexeme string, offset, line, col int) Token {
	tok := Token{Symbol: sym, Lexeme: lexeme, Offset: offset, Line: line, Col: col}
	if t.transform != nil {
		if v, err := t.transform(sym, lexeme); err == nil {
			tok.Value = v
		}
	}
	return tok
}

// advance moves the tokenizer's position past lexeme, updating
// line/column as it goes (a '\n' starts a new line).
func (t *Tokenizer) advance(lexeme string) {
	for _, c := range lexeme {
		t.advanceRune(c, 0)
	}
}

func (t *Tokenizer) advanceRune(c rune, size int) {
	if size == 0 {
		size = len(string(c))
	}
	t.pos += size
	if c == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
}
