// File: internal/parser/parser.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Recursive-descent parser over a rune slice, a direct port of
// original_source/src/parser.rs's char-iterator design to Go's
// idiomatic slice+index form.

package parser

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/momentics/lindaring/internal/value"
)

// Error strings are carried over verbatim from the Rust original, since
// spec §8's parser property tests assert on them.
var (
	ErrInvalidCommand   = errors.New("Invalid command given!")
	ErrNoOpeningParen   = errors.New("Tuple needs to start with opening parenthesis ('(')!")
	ErrNoClosingParen   = errors.New("Tuple needs to end with closing parenthesis (')')!")
	ErrParsingTupleVals = errors.New("Encountered an error while parsing tuple values!")
)

// Parser turns one line of input into a Command.
type Parser struct {
	runes []rune
	pos   int
}

// New returns a Parser positioned at the start of s.
func New(s string) *Parser {
	return &Parser{runes: []rune(s)}
}

// Parse consumes the leading command word and its arguments.
func (p *Parser) Parse() (Command, error) {
	switch strings.ToLower(p.word()) {
	case "out":
		t, err := p.tuple()
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdOut, Tuple: t}, nil
	case "in":
		r, err := p.request()
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdIn, Request: r, Timeout: time.Duration(p.number()) * time.Second}, nil
	case "rd", "read":
		r, err := p.request()
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdRd, Request: r, Timeout: time.Duration(p.number()) * time.Second}, nil
	case "inp":
		r, err := p.request()
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdInp, Request: r}, nil
	case "rdp", "readp":
		r, err := p.request()
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdRdp, Request: r}, nil
	case "help":
		return Command{Kind: CmdHelp}, nil
	case "exit":
		return Command{Kind: CmdExit}, nil
	default:
		return Command{}, ErrInvalidCommand
	}
}

// tuple parses a `( value (, value)* ,? )` literal into a concrete Value tuple.
func (p *Parser) tuple() (value.Tuple[value.Value], error) {
	p.skipWS()
	if !p.check('(') {
		return nil, ErrNoOpeningParen
	}

	var values value.Tuple[value.Value]
	for {
		if _, ok := p.curr(); !ok {
			return nil, ErrNoClosingParen
		}
		if p.check(')') {
			return values, nil
		}
		v, ok := p.value()
		if !ok {
			return nil, ErrParsingTupleVals
		}
		values = append(values, v)
		p.check(',')
	}
}

// request parses a `( type: op? value (, ...)* ,? )` literal into a Request tuple.
func (p *Parser) request() (value.Tuple[value.Request], error) {
	p.skipWS()
	if !p.check('(') {
		return nil, ErrNoOpeningParen
	}

	var reqs value.Tuple[value.Request]
	for {
		if _, ok := p.curr(); !ok {
			return nil, ErrNoClosingParen
		}
		if p.check(')') {
			return reqs, nil
		}

		typ, ok := p.typeName()
		if !ok {
			return nil, ErrParsingTupleVals
		}
		op, ok := p.operator()
		if !ok {
			return nil, ErrParsingTupleVals
		}

		var v value.Value
		if op != value.ANY {
			p.skipWS()
			parsed, ok := p.value()
			if !ok || !value.SameType(parsed, typ) {
				return nil, ErrParsingTupleVals
			}
			v = parsed
		} else {
			v = typ
		}

		reqs = append(reqs, value.NewRequest(v, op))
		p.check(',')
	}
}

func (p *Parser) curr() (rune, bool) {
	if p.pos >= len(p.runes) {
		return 0, false
	}
	return p.runes[p.pos], true
}

func (p *Parser) advance() { p.pos++ }

func (p *Parser) skipWS() {
	for {
		c, ok := p.curr()
		if !ok || !unicode.IsSpace(c) {
			return
		}
		p.advance()
	}
}

// check skips leading whitespace, then consumes c if it is current.
func (p *Parser) check(c rune) bool {
	p.skipWS()
	if cur, ok := p.curr(); ok && cur == c {
		p.advance()
		return true
	}
	return false
}

// number reads consecutive decimal digits (no sign) into a uint32,
// leaving the cursor on the first non-digit.
func (p *Parser) number() uint32 {
	p.skipWS()
	var result uint32
	for {
		c, ok := p.curr()
		if !ok || c < '0' || c > '9' {
			return result
		}
		result = result*10 + uint32(c-'0')
		p.advance()
	}
}

// str parses a double-quoted string body; the opening quote must be
// current. `\"` is the only recognized escape.
func (p *Parser) str() (value.Value, bool) {
	var b strings.Builder
	p.advance() // consume opening '"'
	for {
		c, ok := p.curr()
		if !ok {
			return value.Value{}, false
		}
		if c == '"' {
			s := b.String()
			if strings.HasSuffix(s, `\`) {
				b.Reset()
				b.WriteString(s[:len(s)-1])
				b.WriteRune(c)
				p.advance()
				continue
			}
			p.advance()
			return value.Str(b.String()), true
		}
		b.WriteRune(c)
		p.advance()
	}
}

// value parses an Int, Float, or String literal.
func (p *Parser) value() (value.Value, bool) {
	c, ok := p.curr()
	if !ok {
		return value.Value{}, false
	}
	if c == '"' {
		return p.str()
	}
	if c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.' {
		sign := int32(1)
		if p.check('-') {
			sign = -1
		} else {
			p.check('+')
		}

		if c, ok := p.curr(); ok && !(c >= '0' && c <= '9') && c != '.' {
			return value.Value{}, false
		}

		whole := int32(p.number())
		result := sign * whole
		if p.check('.') {
			p.skipWS()
			start := p.pos
			frac := p.number()
			decimal := float64(frac) / math.Pow(10, float64(p.pos-start))
			return value.Float(float64(result) + float64(sign)*decimal), true
		}
		return value.Int(result), true
	}
	return value.Value{}, false
}

// typeName parses `int:` / `float:` / `string:` (case-insensitive),
// returning an empty-typed Value placeholder.
func (p *Parser) typeName() (value.Value, bool) {
	var b strings.Builder
	for {
		c, ok := p.curr()
		if !ok {
			return value.Value{}, false
		}
		if p.check(':') {
			switch strings.ToLower(b.String()) {
			case "int":
				return value.EmptyInt(), true
			case "float":
				return value.EmptyFloat(), true
			case "string":
				return value.EmptyString(), true
			default:
				return value.Value{}, false
			}
		}
		b.WriteRune(c)
		p.advance()
	}
}

// operator parses a comparison operator token, defaulting to EQ when
// none is present (matching the Rust source's fallthrough).
func (p *Parser) operator() (value.ComparisonOperator, bool) {
	p.skipWS()
	c, ok := p.curr()
	if !ok {
		return value.EQ, true
	}
	switch c {
	case '=':
		p.advance()
		if p.check('=') {
			return value.EQ, true
		}
		return 0, false
	case '!':
		p.advance()
		if p.check('=') {
			return value.NEQ, true
		}
		return 0, false
	case '<':
		p.advance()
		if p.check('=') {
			return value.LE, true
		}
		return value.LT, true
	case '>':
		p.advance()
		if p.check('=') {
			return value.GE, true
		}
		return value.GT, true
	case '*':
		p.advance()
		return value.ANY, true
	default:
		return value.EQ, true
	}
}

// word reads a whitespace-delimited token.
func (p *Parser) word() string {
	p.skipWS()
	var b strings.Builder
	for {
		c, ok := p.curr()
		if !ok || unicode.IsSpace(c) {
			return b.String()
		}
		b.WriteRune(c)
		p.advance()
	}
}
