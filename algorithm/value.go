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
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// IsNumeric returns true if the value has a numeric sql type.
func IsNumeric(v sqltypes.Value) bool {
	return v.IsIntegral() || v.IsFloat() || v.Type() == sqltypes.Decimal
}

// ToDecimal converts the value to a decimal, quoted numbers are accepted.
func ToDecimal(v sqltypes.Value) (decimal.Decimal, error) {
	if v.IsNull() {
		return decimal.Zero, errors.New("algorithm.value.can't.be.null")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.ToString()))
	if err != nil {
		return decimal.Zero, errors.Errorf("algorithm.value[%s].must.be.numeric", v.ToString())
	}
	return d, nil
}

// toParameter returns the expression parameter of the value, numbers keep their exact decimal.
func toParameter(v sqltypes.Value) interface{} {
	if IsNumeric(v) {
		if d, err := ToDecimal(v); err == nil {
			return d
		}
	}
	return v.ToString()
}

// formatResult renders an evaluated expression as a target suffix.
func formatResult(v interface{}) string {
	switch v := v.(type) {
	case decimal.Decimal:
		return v.String()
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e18 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// matchSuffix finds the target named '<prefix>_<suffix>' or '<suffix>'.
// When no name matches and suffix is an in-range index, the indexed target wins.
func matchSuffix(targets []string, suffix string) string {
	for _, target := range targets {
		if target == suffix || strings.HasSuffix(target, "_"+suffix) {
			return target
		}
	}
	if idx, err := strconv.Atoi(suffix); err == nil && idx >= 0 && idx < len(targets) {
		return targets[idx]
	}
	return ""
}

// filterTargets keeps the candidates present in targets, in targets order.
func filterTargets(targets []string, candidates []string) []string {
	set := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(candidates))
	for _, t := range targets {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
