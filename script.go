package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Call is one parsed script statement: object.method(args...).
type Call struct {
	Line   int
	Object string
	Method string
	Args   []any
}

func (c Call) String() string {
	return strings.TrimSuffix(formatCall(c.Object, c.Method, 0, c.Args...), "\n")
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lexScript splits script source into tokens. String tokens hold the
// unescaped value.
func lexScript(src string) ([]token, error) {
	var toks []token
	line := 1
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			s, n, err := lexString(src[i:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			toks = append(toks, token{kind: tokString, text: s, line: line})
			i += n
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && (isIdentStart(src[j]) || isDigit(src[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], line: line})
			i = j
		case isDigit(c) || (c == '-' && i+1 < len(src) && (isDigit(src[i+1]) || src[i+1] == '.')) || c == '.' && i+1 < len(src) && isDigit(src[i+1]):
			j := i + 1
			for j < len(src) && (isDigit(src[j]) || src[j] == '.' || src[j] == 'e' || src[j] == 'E') {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:j], line: line})
			i = j
		case strings.IndexByte(".(),;+", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: string(c), line: line})
			i++
		default:
			return nil, fmt.Errorf("line %d: unexpected character %q", line, c)
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}

// lexString reads a quoted literal at the start of s and returns its value
// and the number of bytes consumed.
func lexString(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\n':
			return "", 0, errors.New("newline in string literal")
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated string literal")
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ParseScript parses script source into calls. Statements with syntax
// errors are skipped up to the next ';' and returned as errors alongside
// the calls that did parse.
func ParseScript(src string) ([]Call, []error) {
	toks, err := lexScript(src)
	if err != nil {
		return nil, []error{err}
	}
	p := &parser{toks: toks}
	var calls []Call
	var errs []error
	for p.peek().kind != tokEOF {
		if p.peek().text == ";" {
			p.next()
			continue
		}
		c, err := p.statement()
		if err != nil {
			errs = append(errs, err)
			p.skipStatement()
			continue
		}
		calls = append(calls, c)
	}
	return calls, errs
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, text string) (token, error) {
	t := p.next()
	if t.kind != kind || (text != "" && t.text != text) {
		want := text
		if want == "" {
			want = "identifier"
		}
		return t, fmt.Errorf("line %d: expected %s, found %s", t.line, want, describe(t))
	}
	return t, nil
}

func (p *parser) statement() (Call, error) {
	obj, err := p.expect(tokIdent, "")
	if err != nil {
		return Call{}, err
	}
	if _, err := p.expect(tokPunct, "."); err != nil {
		return Call{}, err
	}
	method, err := p.expect(tokIdent, "")
	if err != nil {
		return Call{}, err
	}
	if _, err := p.expect(tokPunct, "("); err != nil {
		return Call{}, err
	}
	call := Call{Line: obj.line, Object: obj.text, Method: method.text}
	if p.peek().text != ")" || p.peek().kind != tokPunct {
		for {
			arg, err := p.value()
			if err != nil {
				return Call{}, err
			}
			call.Args = append(call.Args, arg)
			if t := p.peek(); t.kind == tokPunct && t.text == "," {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(tokPunct, ")"); err != nil {
		return Call{}, err
	}
	if t := p.peek(); t.kind == tokPunct && t.text == ";" {
		p.next()
	}
	return call, nil
}

func (p *parser) value() (any, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		s := t.text
		for p.peek().kind == tokPunct && p.peek().text == "+" {
			p.next()
			part, err := p.expect(tokString, "")
			if err != nil {
				return nil, fmt.Errorf("line %d: expected string after '+'", part.line)
			}
			s += part.text
		}
		return s, nil
	case tokNumber:
		if !strings.ContainsAny(t.text, ".eE") {
			if n, err := strconv.Atoi(t.text); err == nil {
				return n, nil
			}
		}
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad number %q", t.line, t.text)
		}
		return f, nil
	case tokIdent:
		switch t.text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null", "undefined":
			return nil, nil
		}
	}
	return nil, fmt.Errorf("line %d: unexpected %s in arguments", t.line, describe(t))
}

func (p *parser) skipStatement() {
	for {
		t := p.next()
		if t.kind == tokEOF || (t.kind == tokPunct && t.text == ";") {
			return
		}
	}
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of script"
	case tokString:
		return strconv.Quote(t.text)
	default:
		return "'" + t.text + "'"
	}
}
