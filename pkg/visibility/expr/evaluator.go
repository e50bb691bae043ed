// Package expr implements the rule language of visibleWhen expressions:
//
//	contact == "phone"
//	age >= 18 && !extras.beta
//	(plan == "pro" || trial) && address.city != null
//
// Identifiers are dotted name paths into the form's JSON projection, or into
// the context extras under the "extras." prefix. A bare identifier is true
// when its value is set and non-zero. Comparisons take a literal on the right
// (string, number, true/false, null); a bare word there reads as a string.
// Ordering operators compare numbers numerically and strings lexically, which
// orders ISO dates and months correctly.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Evaluator compiles rules on first use and caches them. It is safe for
// concurrent use.
type Evaluator struct {
	mu       sync.RWMutex
	compiled map[string]*Expr
}

var (
	_ visibility.Evaluator = (*Evaluator)(nil)
	_ visibility.Checker   = (*Evaluator)(nil)
)

// New returns an empty evaluator.
func New() *Evaluator {
	return &Evaluator{compiled: make(map[string]*Expr)}
}

// Eval evaluates rule. id only labels errors.
func (e *Evaluator) Eval(id, rule string, ctx visibility.Context) (bool, error) {
	compiled, err := e.compile(rule)
	if err != nil {
		if id != "" {
			return false, fmt.Errorf("%s: %w", id, err)
		}
		return false, err
	}
	return compiled.Eval(ctx)
}

// Check reports whether rule compiles.
func (e *Evaluator) Check(rule string) error {
	_, err := e.compile(rule)
	return err
}

func (e *Evaluator) compile(rule string) (*Expr, error) {
	key := strings.TrimSpace(rule)
	e.mu.RLock()
	compiled, ok := e.compiled[key]
	e.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := Compile(key)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	if e.compiled == nil {
		e.compiled = make(map[string]*Expr)
	}
	e.compiled[key] = compiled
	e.mu.Unlock()
	return compiled, nil
}

// Expr is a compiled rule. The empty rule is always true.
type Expr struct {
	root node
}

// Compile parses rule.
func Compile(rule string) (*Expr, error) {
	tokens, err := tokenize(strings.TrimSpace(rule))
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return &Expr{}, nil
	}
	p := &parser{tokens: tokens}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return &Expr{root: root}, nil
}

// Eval evaluates the rule against ctx.
func (x *Expr) Eval(ctx visibility.Context) (bool, error) {
	if x == nil || x.root == nil {
		return true, nil
	}
	return x.root.eval(ctx)
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokLt
	tokLte
	tokGt
	tokGte
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || strings.IndexByte("()!=&|<>", c) >= 0
}

// operators maps two- and one-character operators, longest first.
var operators = []struct {
	text string
	kind tokenKind
}{
	{"==", tokEq}, {"!=", tokNeq}, {"<=", tokLte}, {">=", tokGte},
	{"&&", tokAnd}, {"||", tokOr},
	{"<", tokLt}, {">", tokGt}, {"!", tokNot}, {"(", tokLParen}, {")", tokRParen},
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		c := input[i]
		if isSpace(c) {
			i++
			continue
		}

		if c == '"' || c == '\'' {
			tok, width, err := readString(input[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += width
			continue
		}

		if op, ok := matchOperator(input[i:]); ok {
			tokens = append(tokens, op)
			i += len(op.raw)
			continue
		}
		if c == '=' || c == '&' || c == '|' {
			return nil, fmt.Errorf("visibility/expr: unexpected %q at %d; use %q", c, i, string([]byte{c, c}))
		}

		start := i
		for i < len(input) && !isDelimiter(input[i]) {
			i++
		}
		tokens = append(tokens, word(input[start:i]))
	}
	return tokens, nil
}

func matchOperator(rest string) (token, bool) {
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			return token{kind: op.kind, raw: op.text}, true
		}
	}
	return token{}, false
}

// readString reads a quoted literal at the start of rest and returns it with
// the number of bytes consumed.
func readString(rest string) (token, int, error) {
	quote := rest[0]
	for i := 1; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case quote:
			raw := rest[:i+1]
			if quote == '\'' {
				raw = `"` + strings.ReplaceAll(rest[1:i], `"`, `\"`) + `"`
			}
			unquoted, err := strconv.Unquote(raw)
			if err != nil {
				return token{}, 0, fmt.Errorf("visibility/expr: invalid string literal %s: %w", rest[:i+1], err)
			}
			return token{kind: tokString, raw: unquoted}, i + 1, nil
		}
	}
	return token{}, 0, errors.New("visibility/expr: unterminated string literal")
}

func word(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokBool, raw: strings.ToLower(raw)}
	case "null", "nil":
		return token{kind: tokNull, raw: "null"}
	}
	if c := raw[0]; (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' {
		return token{kind: tokNumber, raw: raw}
	}
	return token{kind: tokIdent, raw: raw}
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind tokenKind) bool {
	if tok, ok := p.peek(); ok && tok.kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(tokOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept(tokAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.accept(tokNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.accept(tokLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("visibility/expr: unexpected end of expression")
	}
	if tok.kind != tokIdent {
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", tok.raw)
	}
	p.pos++

	op, ok := p.peek()
	if !ok || !isComparison(op.kind) {
		return truthyNode{tok.raw}, nil
	}
	p.pos++

	lit, err := p.literal()
	if err != nil {
		return nil, err
	}
	if (lit.kind == tokBool || lit.kind == tokNull) && op.kind != tokEq && op.kind != tokNeq {
		return nil, fmt.Errorf("visibility/expr: operator %q does not apply to %s", op.raw, lit.raw)
	}
	return compareNode{identifier: tok.raw, op: op.kind, lit: lit}, nil
}

func isComparison(kind tokenKind) bool {
	switch kind {
	case tokEq, tokNeq, tokLt, tokLte, tokGt, tokGte:
		return true
	default:
		return false
	}
}

func (p *parser) literal() (token, error) {
	tok, ok := p.peek()
	if !ok {
		return token{}, errors.New("visibility/expr: missing literal")
	}
	p.pos++
	switch tok.kind {
	case tokString, tokBool, tokNull:
		return tok, nil
	case tokNumber:
		if _, err := strconv.ParseFloat(tok.raw, 64); err != nil {
			return token{}, fmt.Errorf("visibility/expr: invalid number literal %q", tok.raw)
		}
		return tok, nil
	case tokIdent:
		return token{kind: tokString, raw: tok.raw}, nil
	default:
		return token{}, fmt.Errorf("visibility/expr: expected literal, got %q", tok.raw)
	}
}
