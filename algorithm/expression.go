/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package algorithm

import (
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var functions = map[string]govaluate.ExpressionFunction{
	"hash": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, errors.New("hash.needs.one.argument")
		}
		return float64(crc32.ChecksumIEEE([]byte(fmt.Sprintf("%v", args[0])))), nil
	},
	"mod": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, errors.New("mod.needs.two.arguments")
		}
		a, aok := toOperand(args[0])
		b, bok := toOperand(args[1])
		if !aok || !bok || b.IsZero() {
			return nil, errors.Errorf("mod.invalid.arguments[%v]", args)
		}
		m := a.Truncate(0).Mod(b.Truncate(0))
		if _, isFloat := args[0].(float64); isFloat {
			// Called by govaluate, keep its float64 domain.
			return m.InexactFloat64(), nil
		}
		return m, nil
	},
}

// segment is a literal or a ${...} expression of a template.
type segment struct {
	literal string
	expr    *govaluate.EvaluableExpression
}

// template renders strings such as 't_order_${order_id % 2}'.
type template struct {
	raw      string
	segments []segment
	vars     []string
}

func parseTemplate(raw string) (*template, error) {
	t := &template{raw: raw}
	rest := raw
	seen := make(map[string]struct{})
	for len(rest) > 0 {
		start := strings.Index(rest, "${")
		if start < 0 {
			t.segments = append(t.segments, segment{literal: rest})
			break
		}
		if start > 0 {
			t.segments = append(t.segments, segment{literal: rest[:start]})
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			return nil, errors.Errorf("expression[%s].unclosed.placeholder", raw)
		}
		body := strings.TrimSpace(rest[start+2 : start+end])
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(body, functions)
		if err != nil {
			return nil, errors.Wrapf(err, "expression[%s].malformed", raw)
		}
		for _, v := range expr.Vars() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				t.vars = append(t.vars, v)
			}
		}
		t.segments = append(t.segments, segment{expr: expr})
		rest = rest[start+end+1:]
	}
	if len(t.vars) == 0 {
		return nil, errors.Errorf("expression[%s].has.no.variable", raw)
	}
	return t, nil
}

// render evaluates the template with the parameters.
func (t *template) render(params map[string]interface{}) (string, error) {
	var buf strings.Builder
	for _, seg := range t.segments {
		if seg.expr == nil {
			buf.WriteString(seg.literal)
			continue
		}
		v, ok, err := evaluateExact(seg.expr.Tokens(), params)
		if err != nil {
			return "", errors.Wrapf(err, "expression[%s].evaluate", t.raw)
		}
		if !ok {
			if v, err = seg.expr.Evaluate(floatParameters(params)); err != nil {
				return "", errors.Wrapf(err, "expression[%s].evaluate", t.raw)
			}
		}
		buf.WriteString(formatResult(v))
	}
	return buf.String(), nil
}

// floatParameters is the govaluate view of the parameters, numbers become float64.
func floatParameters(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		if d, ok := v.(decimal.Decimal); ok {
			out[k] = d.InexactFloat64()
			continue
		}
		out[k] = v
	}
	return out
}

func toOperand(v interface{}) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	}
	return decimal.Zero, false
}

// evaluateExact computes arithmetic expressions on decimals so that BIGINT keys keep every digit.
// It returns ok=false for expressions out of its grammar, they go through govaluate instead.
//
//	expr    := term {('+' | '-') term}
//	term    := unary {('*' | '/' | '%') unary}
//	unary   := '-' unary | primary
//	primary := number | variable | '(' expr ')' | function '(' [expr {',' expr}] ')'
func evaluateExact(tokens []govaluate.ExpressionToken, params map[string]interface{}) (interface{}, bool, error) {
	p := &exactParser{tokens: tokens, params: params}
	v, ok, err := p.expr()
	if err != nil || !ok {
		return nil, false, err
	}
	if p.pos != len(tokens) {
		return nil, false, nil
	}
	return v, true, nil
}

type exactParser struct {
	tokens []govaluate.ExpressionToken
	params map[string]interface{}
	pos    int
}

func (p *exactParser) peek() (govaluate.ExpressionToken, bool) {
	if p.pos >= len(p.tokens) {
		return govaluate.ExpressionToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *exactParser) modifier(symbols ...string) (string, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != govaluate.MODIFIER {
		return "", false
	}
	for _, s := range symbols {
		if tok.Value == s {
			p.pos++
			return s, true
		}
	}
	return "", false
}

func (p *exactParser) expr() (decimal.Decimal, bool, error) {
	left, ok, err := p.term()
	if err != nil || !ok {
		return left, ok, err
	}
	for {
		op, found := p.modifier("+", "-")
		if !found {
			return left, true, nil
		}
		right, ok, err := p.term()
		if err != nil || !ok {
			return right, ok, err
		}
		if op == "+" {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *exactParser) term() (decimal.Decimal, bool, error) {
	left, ok, err := p.unary()
	if err != nil || !ok {
		return left, ok, err
	}
	for {
		op, found := p.modifier("*", "/", "%")
		if !found {
			return left, true, nil
		}
		right, ok, err := p.unary()
		if err != nil || !ok {
			return right, ok, err
		}
		switch op {
		case "*":
			left = left.Mul(right)
		case "/":
			if right.IsZero() {
				return left, false, errors.New("division.by.zero")
			}
			left = left.Div(right)
		case "%":
			if right.IsZero() {
				return left, false, errors.New("modulo.by.zero")
			}
			left = left.Mod(right)
		}
	}
}

func (p *exactParser) unary() (decimal.Decimal, bool, error) {
	tok, ok := p.peek()
	if ok && tok.Kind == govaluate.PREFIX && tok.Value == "-" {
		p.pos++
		v, ok, err := p.unary()
		return v.Neg(), ok, err
	}
	return p.primary()
}

func (p *exactParser) primary() (decimal.Decimal, bool, error) {
	tok, ok := p.peek()
	if !ok {
		return decimal.Zero, false, nil
	}
	p.pos++
	switch tok.Kind {
	case govaluate.NUMERIC:
		v, ok := toOperand(tok.Value)
		return v, ok, nil
	case govaluate.VARIABLE:
		name, _ := tok.Value.(string)
		v, ok := toOperand(p.params[name])
		return v, ok, nil
	case govaluate.CLAUSE:
		v, ok, err := p.expr()
		if err != nil || !ok {
			return v, ok, err
		}
		if !p.closing() {
			return v, false, nil
		}
		return v, true, nil
	case govaluate.FUNCTION:
		fn, isFunc := tok.Value.(govaluate.ExpressionFunction)
		if !isFunc {
			return decimal.Zero, false, nil
		}
		args, ok, err := p.arguments()
		if err != nil || !ok {
			return decimal.Zero, ok, err
		}
		out, err := fn(args...)
		if err != nil {
			return decimal.Zero, false, err
		}
		v, ok := toOperand(out)
		return v, ok, nil
	}
	return decimal.Zero, false, nil
}

func (p *exactParser) closing() bool {
	tok, ok := p.peek()
	if !ok || tok.Kind != govaluate.CLAUSE_CLOSE {
		return false
	}
	p.pos++
	return true
}

func (p *exactParser) arguments() ([]interface{}, bool, error) {
	tok, ok := p.peek()
	if !ok || tok.Kind != govaluate.CLAUSE {
		return nil, false, nil
	}
	p.pos++
	var args []interface{}
	if p.closing() {
		return args, true, nil
	}
	for {
		v, ok, err := p.expr()
		if err != nil || !ok {
			return nil, ok, err
		}
		args = append(args, v)
		if p.closing() {
			return args, true, nil
		}
		tok, ok := p.peek()
		if !ok || tok.Kind != govaluate.SEPARATOR {
			return nil, false, nil
		}
		p.pos++
	}
}
