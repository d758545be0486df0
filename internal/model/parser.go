package model

import (
	"fmt"
	"strconv"
	"unicode"
)

// ParseExpr parses infix expression text into an expression tree. The
// grammar covers numbers, symbols, unary minus, `**` exponentiation
// (right associative), `*` and `/`, `+` and `-`, parentheses, and calls to
// the named functions in the operator vocabulary (`Max(f_1, f_2)`,
// `Sin(x)`, ...). Unknown function names and malformed text fail with an
// error wrapping ErrParse.
func ParseExpr(text string) (*Expr, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &exprParser{tokens: tokens}

	expr, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrParse, p.peek().text, p.peek().pos)
	}

	return expr, nil
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPower
	tokenLParen
	tokenRParen
	tokenComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(text string) ([]token, error) {
	var tokens []token

	runes := []rune(text)
	i := 0

	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			i = scanNumber(runes, i)

			literal := string(runes[start:i])
			if _, err := strconv.ParseFloat(literal, 64); err != nil {
				return nil, fmt.Errorf("%w: invalid number %q at position %d", ErrParse, literal, start)
			}

			tokens = append(tokens, token{kind: tokenNumber, text: literal, pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}

			tokens = append(tokens, token{kind: tokenIdent, text: string(runes[start:i]), pos: start})
		case r == '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				tokens = append(tokens, token{kind: tokenPower, text: "**", pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenStar, text: "*", pos: i})
				i++
			}
		case r == '+':
			tokens = append(tokens, token{kind: tokenPlus, text: "+", pos: i})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokenMinus, text: "-", pos: i})
			i++
		case r == '/':
			tokens = append(tokens, token{kind: tokenSlash, text: "/", pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrParse, string(r), i)
		}
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}

	return tokens, nil
}

// scanNumber consumes digits, a fractional part, and an optional exponent.
func scanNumber(runes []rune, i int) int {
	for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
		i++
	}

	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}

		if j < len(runes) && unicode.IsDigit(runes[j]) {
			i = j
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
		}
	}

	return i
}

type exprParser struct {
	tokens []token
	next   int
}

func (p *exprParser) atEnd() bool {
	return p.next >= len(p.tokens)
}

func (p *exprParser) peek() token {
	return p.tokens[p.next]
}

func (p *exprParser) advance() token {
	t := p.tokens[p.next]
	p.next++

	return t
}

func (p *exprParser) match(kind tokenKind) bool {
	if p.atEnd() || p.tokens[p.next].kind != kind {
		return false
	}

	p.next++

	return true
}

func (p *exprParser) parseAddSub() (*Expr, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}

	for !p.atEnd() {
		switch p.peek().kind {
		case tokenPlus:
			p.advance()

			right, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}

			left = flattenBinary(OpAdd, left, right)
		case tokenMinus:
			p.advance()

			right, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}

			left = MustCall(OpSubtract, left, right)
		default:
			return left, nil
		}
	}

	return left, nil
}

func (p *exprParser) parseMulDiv() (*Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for !p.atEnd() {
		switch p.peek().kind {
		case tokenStar:
			p.advance()

			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}

			left = flattenBinary(OpMultiply, left, right)
		case tokenSlash:
			p.advance()

			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}

			left = MustCall(OpDivide, left, right)
		default:
			return left, nil
		}
	}

	return left, nil
}

func (p *exprParser) parseUnary() (*Expr, error) {
	if !p.atEnd() && p.peek().kind == tokenMinus {
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return MustCall(OpNegate, operand), nil
	}

	return p.parsePower()
}

func (p *exprParser) parsePower() (*Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() && p.peek().kind == tokenPower {
		p.advance()

		// Right associative; the exponent may carry its own unary minus.
		exponent, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return MustCall(OpPower, base, exponent), nil
	}

	return base, nil
}

func (p *exprParser) parseAtom() (*Expr, error) {
	if p.atEnd() {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrParse)
	}

	t := p.advance()

	switch t.kind {
	case tokenNumber:
		value, _ := strconv.ParseFloat(t.text, 64)
		return Lit(value), nil
	case tokenIdent:
		if !p.atEnd() && p.peek().kind == tokenLParen {
			return p.parseCall(t)
		}

		return Sym(t.text), nil
	case tokenLParen:
		expr, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}

		if !p.match(tokenRParen) {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrParse)
		}

		return expr, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrParse, t.text, t.pos)
	}
}

func (p *exprParser) parseCall(name token) (*Expr, error) {
	op := Operator(name.text)
	if !KnownOperator(op) {
		return nil, fmt.Errorf("%w: unknown function %q at position %d", ErrParse, name.text, name.pos)
	}

	p.advance() // consume '('

	var operands []*Expr

	if !p.match(tokenRParen) {
		for {
			operand, err := p.parseAddSub()
			if err != nil {
				return nil, err
			}

			operands = append(operands, operand)

			if p.match(tokenComma) {
				continue
			}

			if p.match(tokenRParen) {
				break
			}

			return nil, fmt.Errorf("%w: expected ',' or ')' in call to %s", ErrParse, name.text)
		}
	}

	return Call(op, operands...)
}

// flattenBinary folds chains of the same n-ary operator into a single node
// so `a + b + c` parses as one Add with three operands.
func flattenBinary(op Operator, left, right *Expr) *Expr {
	if left.Op == op {
		return &Expr{Op: op, Operands: append(append([]*Expr{}, left.Operands...), right)}
	}

	return MustCall(op, left, right)
}

// MustParse parses expression text known to be valid, such as the fixture
// problems shipped with the module. It panics on error.
func MustParse(text string) *Expr {
	expr, err := ParseExpr(text)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q): %v", text, err))
	}

	return expr
}
