package parse

import (
	"github.com/grayling-toolkit/grayling/diag"
	"github.com/grayling-toolkit/grayling/grammar"
	"github.com/grayling-toolkit/grayling/lalr"
	"github.com/grayling-toolkit/grayling/lex"
)

// Status classifies the outcome of a Run call.
type Status int

const (
	// StatusAccepted means the input is a complete, valid sentence of
	// the grammar and Result.Value holds the fused value of the start
	// symbol's production.
	StatusAccepted Status = iota
	// StatusNeedMoreInput means the tokenizer ran out of buffered bytes
	// mid-scan; no partial token is consumed and the stacks hold only
	// completed shifts and reductions, so calling Run again after more
	// bytes are Fed to the Reader resumes exactly where this call left
	// off.
	StatusNeedMoreInput
	// StatusError means parsing cannot continue: either the tokenizer
	// raised a run-time diagnostic, or no legal shift/reduce action
	// exists for the current state and lookahead.
	StatusError
)

// Result is what Run returns.
type Result struct {
	Status Status
	Value  interface{}
	Diag   diag.Diagnostic
}

// Parser drives g's LALR(1) table over tok's token stream, computing a
// semantic value bottom-up via sp. It holds no parse tree; the only
// state carried between reductions is whatever sp.Fuse returns.
//
// Generalized from internal/ictiobus/parse/lr.go's lrParser.Parse: the
// teacher builds a types.ParseTree out of a token buffer and a subtree-
// roots stack. spec.md's Parser state has no parse-tree requirement, so
// the subtree-roots stack here carries plain interface{} semantic
// values instead of tree nodes, and the token buffer collapses to a
// single one-token lookahead since nothing downstream needs the whole
// history.
type Parser struct {
	g     *grammar.Grammar
	table *lalr.Table
	tok   *lex.Tokenizer
	sp    SemanticProvider

	states []int
	values []interface{}

	lookahead    lex.Token
	haveLookahead bool

	cancelled bool

	// Scratch is host-attached state a SemanticProvider's hooks can
	// read and write across the whole parse (spec.md §3 Parser state:
	// "a scratch dictionary the host may use").
	Scratch map[string]interface{}
}

// New returns a Parser ready to run from table's initial state. A nil
// sp is replaced with NopProvider.
func New(g *grammar.Grammar, table *lalr.Table, tok *lex.Tokenizer, sp SemanticProvider) *Parser {
	if sp == nil {
		sp = NopProvider{}
	}
	return &Parser{
		g:       g,
		table:   table,
		tok:     tok,
		sp:      sp,
		states:  []int{table.Initial()},
		Scratch: map[string]interface{}{},
	}
}

// Cancel requests that the parse stop at the next token boundary
// (spec.md §5: cancellation is honored "at every token boundary").
func (p *Parser) Cancel() {
	p.cancelled = true
}

// Run drives the parse forward as far as buffered input in r allows,
// returning when the input is fully accepted, a fatal error occurs, or
// the tokenizer needs more bytes than r currently has.
func (p *Parser) Run(r *lex.Reader) Result {
	for {
		if p.cancelled {
			return Result{Status: StatusError, Diag: diag.New(diag.CodeCancelled, diag.Error, diag.Location{}, "parse cancelled")}
		}

		if !p.haveLookahead {
			res, ok := p.fillLookahead(r)
			if !ok {
				return res
			}
		}

		state := p.states[len(p.states)-1]
		act := p.table.Action(state, p.lookahead.Symbol)

		switch act.Type {
		case lalr.ActionShift:
			p.values = append(p.values, p.lookahead.Value)
			p.states = append(p.states, act.State)
			p.haveLookahead = false

		case lalr.ActionReduce:
			res, ok := p.reduce(act.Production)
			if !ok {
				return res
			}

		case lalr.ActionAccept:
			var v interface{}
			if len(p.values) > 0 {
				v = p.values[len(p.values)-1]
			}
			return Result{Status: StatusAccepted, Value: v}

		default: // lalr.ActionError
			loc := diag.Location{Line: p.lookahead.Line, Col: p.lookahead.Col, Offset: p.lookahead.Offset}
			msg := expectedMessage(p.g, p.table, state)
			d := diag.Newf(diag.CodeUnexpectedToken, diag.Error, loc,
				"unexpected %s; %s", humanName(p.g, p.lookahead.Symbol), msg).
				WithPayload(p.table.ExpectedTerminals(state))
			return Result{Status: StatusError, Diag: d}
		}
	}
}

// fillLookahead pulls the next token from the tokenizer into
// p.lookahead. ok is false when Run should return immediately with the
// paired Result instead of continuing its loop.
func (p *Parser) fillLookahead(r *lex.Reader) (Result, bool) {
	tres := p.tok.Next(r)
	switch tres.Status {
	case lex.StatusNeedMoreInput:
		return Result{Status: StatusNeedMoreInput}, false
	case lex.StatusError:
		return Result{Status: StatusError, Diag: tres.Diag}, false
	case lex.StatusEndOfInput:
		p.lookahead = lex.Token{Symbol: grammar.EOF, Offset: p.tok.Offset()}
	case lex.StatusToken:
		p.lookahead = tres.Token
	}
	p.haveLookahead = true
	return Result{}, true
}

// reduce pops prod's body off both stacks, fuses its semantic value,
// and pushes the resulting nonterminal and value back on.
func (p *Parser) reduce(prodID grammar.ProductionID) (Result, bool) {
	prod := p.g.Production(prodID)
	n := len(prod.Body)

	args := make([]interface{}, n)
	copy(args, p.values[len(p.values)-n:])
	p.values = p.values[:len(p.values)-n]
	p.states = p.states[:len(p.states)-n]

	value, err := p.sp.Fuse(prodID, args)
	if err != nil {
		d, ok := diag.AsDiagnostic(err)
		if !ok {
			d = diag.New(diag.CodeUnexpectedToken, diag.Error, diag.Location{}, err.Error())
		}
		return Result{Status: StatusError, Diag: d}, false
	}

	top := p.states[len(p.states)-1]
	next, ok := p.table.Goto(top, prod.Head)
	if !ok {
		// the table is internally inconsistent: a built grammar must
		// always have a goto entry for every reduction it permits.
		panic("parse: no goto entry for " + p.g.Symbol(prod.Head).Name + " in state after reduction")
	}

	p.states = append(p.states, next)
	p.values = append(p.values, value)
	return Result{}, true
}
