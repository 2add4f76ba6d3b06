/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package algorithm

import (
	"strings"

	"github.com/pkg/errors"
)

var _ StandardAlgorithm = &List{}

// List maps enumerated values to targets.
type List struct {
	values   map[string]string
	fallback string
}

// NewList creates the list algorithm.
// Props:
//   list-values: 'ds_0:1,2;ds_1:3,4', required.
//   default-target: the target of unlisted values, optional.
func NewList(props map[string]string) (Algorithm, error) {
	raw := strings.TrimSpace(props["list-values"])
	if raw == "" {
		return nil, errors.New("list.list-values.can't.be.empty")
	}
	l := &List{values: make(map[string]string), fallback: props["default-target"]}
	for _, group := range strings.Split(raw, ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		idx := strings.Index(group, ":")
		if idx <= 0 {
			return nil, errors.Errorf("list.group[%s].malformed", group)
		}
		target := strings.TrimSpace(group[:idx])
		for _, v := range strings.Split(group[idx+1:], ",") {
			v = strings.TrimSpace(v)
			if old, ok := l.values[v]; ok && old != target {
				return nil, errors.Errorf("list.value[%s].duplicate.in[%s,%s]", v, old, target)
			}
			l.values[v] = target
		}
	}
	return l, nil
}

// Type returns the list type.
func (l *List) Type() string {
	return TypeList
}

// DoSharding impl.
func (l *List) DoSharding(targets []string, value PreciseValue) (string, error) {
	if value.Value.IsNull() {
		return "", errors.Errorf("list.table[%s].column[%s].value.can't.be.null", value.Table, value.Column)
	}
	key := value.Value.ToString()
	if d, err := ToDecimal(value.Value); err == nil && IsNumeric(value.Value) {
		key = d.String()
	}
	target, ok := l.values[key]
	if !ok {
		target = l.fallback
	}
	for _, t := range targets {
		if t == target {
			return t, nil
		}
	}
	return "", nil
}

// DoRangeSharding returns all targets.
func (l *List) DoRangeSharding(targets []string, value RangeValue) ([]string, error) {
	return targets, nil
}
