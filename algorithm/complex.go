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

// maxComplexCombinations bounds the cartesian product evaluated by ComplexInline.
const maxComplexCombinations = 4096

var _ ComplexAlgorithm = &ComplexInline{}

// ComplexInline renders the target from a template over several columns,
// such as 't_status_${(user_id + status) % 2}'.
type ComplexInline struct {
	tmpl *template
}

// NewComplexInline creates the complex inline algorithm from prop 'algorithm-expression'.
func NewComplexInline(props map[string]string) (Algorithm, error) {
	expr, ok := props["algorithm-expression"]
	if !ok || expr == "" {
		return nil, errors.New("complex.inline.algorithm-expression.can't.be.empty")
	}
	tmpl, err := parseTemplate(expr)
	if err != nil {
		return nil, err
	}
	return &ComplexInline{tmpl: tmpl}, nil
}

// Type returns the complex inline type.
func (c *ComplexInline) Type() string {
	return TypeComplexInline
}

// DoSharding evaluates every combination of the column values.
// Any column without equality values makes all targets hit.
func (c *ComplexInline) DoSharding(targets []string, value ComplexValue) ([]string, error) {
	total := 1
	for _, v := range c.tmpl.vars {
		vals := value.Values[v]
		if len(vals) == 0 {
			return targets, nil
		}
		total *= len(vals)
		if total > maxComplexCombinations {
			return targets, nil
		}
	}

	hits := make([]string, 0, total)
	params := make(map[string]interface{}, len(c.tmpl.vars))
	var walk func(i int) error
	walk = func(i int) error {
		if i == len(c.tmpl.vars) {
			name, err := c.tmpl.render(params)
			if err != nil {
				return err
			}
			hits = append(hits, name)
			return nil
		}
		col := c.tmpl.vars[i]
		for _, v := range value.Values[col] {
			if v.IsNull() {
				return errors.Errorf("complex.inline.table[%s].column[%s].value.can't.be.null", value.Table, col)
			}
			params[col] = toParameter(v)
			if err := walk(i + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0); err != nil {
		return nil, err
	}
	return filterTargets(targets, hits), nil
}

// Columns returns the columns referenced by the expression.
func (c *ComplexInline) Columns() []string {
	return c.tmpl.vars
}

var _ HintAlgorithm = &HintInline{}

// HintInline renders the target from the hint value, such as 'ds_${value % 2}'.
type HintInline struct {
	tmpl *template
}

// NewHintInline creates the hint inline algorithm from prop 'algorithm-expression'.
func NewHintInline(props map[string]string) (Algorithm, error) {
	expr, ok := props["algorithm-expression"]
	if !ok || expr == "" {
		return nil, errors.New("hint.inline.algorithm-expression.can't.be.empty")
	}
	tmpl, err := parseTemplate(expr)
	if err != nil {
		return nil, err
	}
	if len(tmpl.vars) != 1 || tmpl.vars[0] != "value" {
		return nil, errors.Errorf("hint.inline.expression[%s].must.only.use.variable.value", expr)
	}
	return &HintInline{tmpl: tmpl}, nil
}

// Type returns the hint inline type.
func (h *HintInline) Type() string {
	return TypeHintInline
}

// DoSharding impl.
func (h *HintInline) DoSharding(targets []string, value HintValue) ([]string, error) {
	hits := make([]string, 0, len(value.Values))
	for _, v := range value.Values {
		if v.IsNull() {
			return nil, errors.Errorf("hint.inline.table[%s].value.can't.be.null", value.Table)
		}
		name, err := h.tmpl.render(map[string]interface{}{"value": toParameter(v)})
		if err != nil {
			return nil, err
		}
		hits = append(hits, name)
	}
	return filterTargets(targets, hits), nil
}

