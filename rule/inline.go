/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package rule

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ExpandInline expands an inline expression into its cartesian enumeration.
// Supported placeholders:
//   ${0..3}           integer range, both ends inclusive
//   ${['a','b']}      list, quotes are optional
//   ${x}              literal
// Example: 'ds_${0..1}.t_order_${0..1}' gives
// ds_0.t_order_0, ds_0.t_order_1, ds_1.t_order_0, ds_1.t_order_1.
func ExpandInline(expr string) ([]string, error) {
	results := []string{""}
	rest := expr
	for len(rest) > 0 {
		start := strings.Index(rest, "${")
		if start < 0 {
			results = appendAll(results, []string{rest})
			break
		}
		if start > 0 {
			results = appendAll(results, []string{rest[:start]})
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			return nil, errors.Errorf("rule.inline[%s].unclosed.placeholder", expr)
		}
		items, err := expandPlaceholder(strings.TrimSpace(rest[start+2 : start+end]))
		if err != nil {
			return nil, errors.Wrapf(err, "rule.inline[%s]", expr)
		}
		results = appendAll(results, items)
		rest = rest[start+end+1:]
	}
	return results, nil
}

func appendAll(prefixes []string, items []string) []string {
	out := make([]string, 0, len(prefixes)*len(items))
	for _, p := range prefixes {
		for _, it := range items {
			out = append(out, p+it)
		}
	}
	return out
}

func expandPlaceholder(body string) ([]string, error) {
	switch {
	case strings.HasPrefix(body, "[") && strings.HasSuffix(body, "]"):
		var items []string
		for _, it := range strings.Split(body[1:len(body)-1], ",") {
			it = strings.Trim(strings.TrimSpace(it), `'"`)
			if it == "" {
				return nil, errors.Errorf("list[%s].has.empty.item", body)
			}
			items = append(items, it)
		}
		return items, nil
	case strings.Contains(body, ".."):
		parts := strings.SplitN(body, "..", 2)
		lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return nil, errors.Errorf("range[%s].malformed", body)
		}
		if lo > hi {
			return nil, errors.Errorf("range[%s].lower.greater.than.upper", body)
		}
		items := make([]string, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			items = append(items, strconv.Itoa(i))
		}
		return items, nil
	case body == "":
		return nil, errors.New("placeholder.can't.be.empty")
	default:
		return []string{body}, nil
	}
}
