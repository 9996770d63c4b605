package yootles

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var literalRE = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// EvalAmount evaluates an IOU amount. It is either a decimal literal or an
// arithmetic expression over decimal literals with + - * / and parentheses,
// like "25/60*20" for twenty minutes billed at 25 an hour.
func EvalAmount(expr string) (decimal.Decimal, error) {
	expr = strings.TrimSpace(expr)
	if literalRE.MatchString(expr) {
		return decimal.NewFromString(expr)
	}
	c := calc{src: expr}
	v, err := c.expr()
	if err != nil {
		return decimal.Zero, err
	}
	c.space()
	if c.pos < len(c.src) {
		return decimal.Zero, c.fail("unexpected character")
	}
	return v, nil
}

// calc is a recursive-descent evaluator:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type calc struct {
	src string
	pos int
}

func (c *calc) fail(msg string) *ExprError {
	return &ExprError{Expr: c.src, Pos: c.pos, Msg: msg}
}

func (c *calc) space() {
	for c.pos < len(c.src) && (c.src[c.pos] == ' ' || c.src[c.pos] == '\t') {
		c.pos++
	}
}

// peek returns the next non blank byte, or 0 at the end.
func (c *calc) peek() byte {
	c.space()
	if c.pos >= len(c.src) {
		return 0
	}
	return c.src[c.pos]
}

func (c *calc) expr() (decimal.Decimal, error) {
	v, err := c.term()
	if err != nil {
		return v, err
	}
	for {
		switch c.peek() {
		case '+':
			c.pos++
			w, err := c.term()
			if err != nil {
				return v, err
			}
			v = v.Add(w)
		case '-':
			c.pos++
			w, err := c.term()
			if err != nil {
				return v, err
			}
			v = v.Sub(w)
		default:
			return v, nil
		}
	}
}

func (c *calc) term() (decimal.Decimal, error) {
	v, err := c.unary()
	if err != nil {
		return v, err
	}
	for {
		switch c.peek() {
		case '*':
			c.pos++
			w, err := c.unary()
			if err != nil {
				return v, err
			}
			v = v.Mul(w)
		case '/':
			c.pos++
			at := c.pos
			w, err := c.unary()
			if err != nil {
				return v, err
			}
			if w.IsZero() {
				c.pos = at
				return v, c.fail("division by zero")
			}
			v = v.Div(w)
		default:
			return v, nil
		}
	}
}

func (c *calc) unary() (decimal.Decimal, error) {
	switch c.peek() {
	case '-':
		c.pos++
		v, err := c.unary()
		return v.Neg(), err
	case '+':
		c.pos++
		return c.unary()
	}
	return c.primary()
}

func (c *calc) primary() (decimal.Decimal, error) {
	switch ch := c.peek(); {
	case ch == '(':
		c.pos++
		v, err := c.expr()
		if err != nil {
			return v, err
		}
		if c.peek() != ')' {
			return v, c.fail("missing closing parenthesis")
		}
		c.pos++
		return v, nil
	case ch == '.' || ('0' <= ch && ch <= '9'):
		start := c.pos
		for c.pos < len(c.src) && (c.src[c.pos] == '.' || ('0' <= c.src[c.pos] && c.src[c.pos] <= '9')) {
			c.pos++
		}
		v, err := decimal.NewFromString(c.src[start:c.pos])
		if err != nil {
			c.pos = start
			return decimal.Zero, c.fail("invalid number")
		}
		return v, nil
	case ch == 0:
		return decimal.Zero, c.fail("unexpected end of expression")
	default:
		return decimal.Zero, c.fail("unexpected character")
	}
}
