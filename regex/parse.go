package regex

import (
	"fmt"

	"github.com/grayling-toolkit/grayling/charclass"
)

// ParseError reports a syntax problem found while parsing a pattern
// string, with the rune offset (index into the pattern's runes) at
// which it was detected.
type ParseError struct {
	Pattern string
	Pos     int
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("regex: %s at position %d in %q", e.Reason, e.Pos, e.Pattern)
}

// newParseError builds a *ParseError. It is the single constructor
// used by the recursive-descent parser below, mirroring the
// constructor-function idiom used elsewhere in this toolkit for
// building well-formed error values.
func newParseError(pattern string, pos int, reason string) *ParseError {
	return &ParseError{Pattern: pattern, Pos: pos, Reason: reason}
}

// Parse reads a textual regular expression and returns its AST.
//
// Supported surface: literals, `.` (any char except newline), `*`, `+`,
// `?` postfix operators, `|` alternation, `(...)` grouping,
// `[...]`/`[^...]` character classes with `a-z` ranges, `\` escapes for
// metacharacters and the shorthand classes `\d \D \w \W \s \S`, and
// `\p{Name}` / `\P{Name}` for a Unicode category or script by name
// (see charclass.FromCategoryName).
func Parse(pattern string) (Node, error) {
	p := &parser{src: []rune(pattern), pattern: pattern}
	node, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, newParseError(pattern, p.pos, fmt.Sprintf("unexpected %q", p.src[p.pos]))
	}
	return node, nil
}

type parser struct {
	src     []rune
	pattern string
	pos     int
}

func (p *parser) errf(format string, args ...interface{}) error {
	return newParseError(p.pattern, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) advance() rune {
	c := p.src[p.pos]
	p.pos++
	return c
}

// parseAlt := parseConcat ('|' parseConcat)*
func (p *parser) parseAlt() (Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.advance()
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = Alt{Left: left, Right: right}
	}

	return left, nil
}

// parseConcat := parseRepeat*
func (p *parser) parseConcat() (Node, error) {
	var result Node
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		node, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = node
		} else {
			result = Concat{Left: result, Right: node}
		}
	}
	if result == nil {
		result = Epsilon{}
	}
	return result, nil
}

// parseRepeat := parseAtom ('*' | '+' | '?')*
func (p *parser) parseRepeat() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		switch c {
		case '*':
			p.advance()
			atom = Star{Sub: atom}
		case '+':
			p.advance()
			atom = Plus{Sub: atom}
		case '?':
			p.advance()
			atom = Opt{Sub: atom}
		default:
			return atom, nil
		}
	}

	return atom, nil
}

func (p *parser) parseAtom() (Node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, p.errf("unexpected end of pattern")
	}

	switch c {
	case '(':
		p.advance()
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		cl, ok := p.peek()
		if !ok || cl != ')' {
			return nil, p.errf("unclosed group")
		}
		p.advance()
		return inner, nil
	case '.':
		p.advance()
		return AnyChar{}, nil
	case '[':
		return p.parseClass()
	case '\\':
		p.advance()
		return p.parseEscape()
	case '*', '+', '?', ')', '|':
		return nil, p.errf("unexpected metacharacter %q", c)
	default:
		p.advance()
		return Literal{Rune: c}, nil
	}
}

func (p *parser) parseEscape() (Node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, p.errf("dangling escape")
	}

	switch c {
	case 'd':
		p.advance()
		return Class{Set: digitClass()}, nil
	case 'D':
		p.advance()
		return Class{Set: digitClass().Complement(charclass.Universe())}, nil
	case 'w':
		p.advance()
		return Class{Set: wordClass()}, nil
	case 'W':
		p.advance()
		return Class{Set: wordClass().Complement(charclass.Universe())}, nil
	case 's':
		p.advance()
		return Class{Set: spaceClass()}, nil
	case 'S':
		p.advance()
		return Class{Set: spaceClass().Complement(charclass.Universe())}, nil
	case 'p', 'P':
		negate := c == 'P'
		p.advance()
		set, err := p.parseUnicodeCategory()
		if err != nil {
			return nil, err
		}
		if negate {
			set = set.Complement(charclass.Universe())
		}
		return Class{Set: set}, nil
	case 'n':
		p.advance()
		return Literal{Rune: '\n'}, nil
	case 't':
		p.advance()
		return Literal{Rune: '\t'}, nil
	case 'r':
		p.advance()
		return Literal{Rune: '\r'}, nil
	default:
		p.advance()
		return Literal{Rune: c}, nil
	}
}

func (p *parser) parseUnicodeCategory() (charclass.Set, error) {
	c, ok := p.peek()
	if !ok || c != '{' {
		return charclass.Set{}, p.errf("expected '{' after \\p")
	}
	p.advance()

	start := p.pos
	for {
		c, ok := p.peek()
		if !ok {
			return charclass.Set{}, p.errf("unclosed \\p{...}")
		}
		if c == '}' {
			break
		}
		p.advance()
	}
	name := string(p.src[start:p.pos])
	p.advance() // consume '}'

	set, ok := charclass.FromCategoryName(name)
	if !ok {
		return charclass.Set{}, p.errf("unknown unicode category %q", name)
	}
	return set, nil
}

// parseClass parses a `[...]` or `[^...]` bracket expression.
func (p *parser) parseClass() (Node, error) {
	p.advance() // consume '['

	negate := false
	if c, ok := p.peek(); ok && c == '^' {
		negate = true
		p.advance()
	}

	var set charclass.Set
	first := true

	for {
		c, ok := p.peek()
		if !ok {
			return nil, p.errf("unclosed character class")
		}
		if c == ']' && !first {
			p.advance()
			break
		}
		first = false

		var lo rune
		if c == '\\' {
			p.advance()
			esc, err := p.parseClassEscape()
			if err != nil {
				return nil, err
			}
			if esc.isSet {
				set = set.Union(esc.set)
				continue
			}
			lo = esc.r
		} else {
			lo = p.advance()
		}

		hi := lo
		if nc, ok := p.peek(); ok && nc == '-' {
			// lookahead: is this a range, or a literal hyphen before ']'?
			savedPos := p.pos
			p.advance()
			if nc2, ok := p.peek(); ok && nc2 != ']' {
				if nc2 == '\\' {
					p.advance()
					esc, err := p.parseClassEscape()
					if err != nil {
						return nil, err
					}
					if esc.isSet {
						return nil, p.errf("invalid range endpoint")
					}
					hi = esc.r
				} else {
					hi = p.advance()
				}
			} else {
				p.pos = savedPos
			}
		}

		if hi < lo {
			return nil, p.errf("invalid range %q-%q", lo, hi)
		}
		set = set.Union(charclass.New(charclass.Range{Lo: lo, Hi: hi}))
	}

	if negate {
		set = set.Complement(charclass.Universe())
	}

	return Class{Set: set}, nil
}

type classEscapeResult struct {
	isSet bool
	set   charclass.Set
	r     rune
}

func (p *parser) parseClassEscape() (classEscapeResult, error) {
	c, ok := p.peek()
	if !ok {
		return classEscapeResult{}, p.errf("dangling escape in class")
	}
	switch c {
	case 'd':
		p.advance()
		return classEscapeResult{isSet: true, set: digitClass()}, nil
	case 'w':
		p.advance()
		return classEscapeResult{isSet: true, set: wordClass()}, nil
	case 's':
		p.advance()
		return classEscapeResult{isSet: true, set: spaceClass()}, nil
	case 'n':
		p.advance()
		return classEscapeResult{r: '\n'}, nil
	case 't':
		p.advance()
		return classEscapeResult{r: '\t'}, nil
	case 'r':
		p.advance()
		return classEscapeResult{r: '\r'}, nil
	default:
		p.advance()
		return classEscapeResult{r: c}, nil
	}
}

func digitClass() charclass.Set {
	return charclass.New(charclass.Range{Lo: '0', Hi: '9'})
}

func wordClass() charclass.Set {
	return charclass.New(
		charclass.Range{Lo: 'a', Hi: 'z'},
		charclass.Range{Lo: 'A', Hi: 'Z'},
		charclass.Range{Lo: '0', Hi: '9'},
		charclass.Range{Lo: '_', Hi: '_'},
	)
}

func spaceClass() charclass.Set {
	return charclass.New(
		charclass.Range{Lo: ' ', Hi: ' '},
		charclass.Range{Lo: '\t', Hi: '\t'},
		charclass.Range{Lo: '\n', Hi: '\n'},
		charclass.Range{Lo: '\r', Hi: '\r'},
		charclass.Range{Lo: '\f', Hi: '\f'},
		charclass.Range{Lo: '\v', Hi: '\v'},
	)
}
