/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package algorithm

import (
	"github.com/pkg/errors"
)

var _ StandardAlgorithm = &Inline{}

// Inline renders the target name from a template, such as 't_order_${order_id % 2}'.
type Inline struct {
	tmpl       *template
	allowRange bool
}

// NewInline creates the inline algorithm.
// Props:
//   algorithm-expression: the template, required.
//   allow-range-query: "false" makes range conditions an error, default true.
func NewInline(props map[string]string) (Algorithm, error) {
	expr, ok := props["algorithm-expression"]
	if !ok || expr == "" {
		return nil, errors.New("inline.algorithm-expression.can't.be.empty")
	}
	tmpl, err := parseTemplate(expr)
	if err != nil {
		return nil, err
	}
	if len(tmpl.vars) != 1 {
		return nil, errors.Errorf("inline.expression[%s].must.have.one.variable", expr)
	}
	return &Inline{tmpl: tmpl, allowRange: props["allow-range-query"] != "false"}, nil
}

// Type returns the inline type.
func (in *Inline) Type() string {
	return TypeInline
}

// DoSharding impl.
func (in *Inline) DoSharding(targets []string, value PreciseValue) (string, error) {
	if value.Value.IsNull() {
		return "", errors.Errorf("inline.table[%s].column[%s].value.can't.be.null", value.Table, value.Column)
	}
	params := map[string]interface{}{in.tmpl.vars[0]: toParameter(value.Value)}
	name, err := in.tmpl.render(params)
	if err != nil {
		return "", err
	}
	for _, target := range targets {
		if target == name {
			return target, nil
		}
	}
	return "", nil
}

// DoRangeSharding returns all targets, an expression can't be inverted.
func (in *Inline) DoRangeSharding(targets []string, value RangeValue) ([]string, error) {
	if !in.allowRange {
		return nil, errors.Errorf("inline.table[%s].column[%s].range.query.unsupported", value.Table, value.Column)
	}
	return targets, nil
}
