/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package condition

import (
	"bytes"
	"strings"

	"github.com/shardroute/shardroute/algorithm"

	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// Value is the value set of one sharding column.
// A list value holds Values, a range value holds Range.
type Value struct {
	Table    string
	Column   string
	Operator string
	Values   []sqltypes.Value
	Range    *algorithm.Range
}

// IsRange returns true if the value is a range.
func (v *Value) IsRange() bool {
	return v.Range != nil
}

// Condition is one independently routed unit: the whole WHERE of a query block, or one INSERT row.
type Condition struct {
	Values []*Value
	// AlwaysFalse is set when the predicates contradict each other.
	AlwaysFalse bool
}

// Find returns the value of the column, the table may be any of the given tables.
func (c *Condition) Find(column string, tables ...string) *Value {
	for _, v := range c.Values {
		if !strings.EqualFold(v.Column, column) {
			continue
		}
		for _, t := range tables {
			if strings.EqualFold(v.Table, t) {
				return v
			}
		}
	}
	return nil
}

// Conditions tuple.
type Conditions struct {
	Conditions []*Condition
}

// AlwaysFalse returns true if there is at least one condition and all of them are always false.
func (cs *Conditions) AlwaysFalse() bool {
	if cs == nil || len(cs.Conditions) == 0 {
		return false
	}
	for _, c := range cs.Conditions {
		if !c.AlwaysFalse {
			return false
		}
	}
	return true
}

// Compare compares two values, numeric aware.
// Numeric types and numeric strings compare as decimals when either side is numeric,
// text compares bytewise. NULL is the lowest value.
func Compare(a, b sqltypes.Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}
	if algorithm.IsNumeric(a) || algorithm.IsNumeric(b) {
		da, erra := algorithm.ToDecimal(a)
		db, errb := algorithm.ToDecimal(b)
		if erra == nil && errb == nil {
			return da.Cmp(db)
		}
	}
	return bytes.Compare(a.Raw(), b.Raw())
}

// Equal returns true if both values compare equal.
func Equal(a, b sqltypes.Value) bool {
	return Compare(a, b) == 0
}

// SameValues returns true if both lists hold the same values, order ignored.
func SameValues(a, b []sqltypes.Value) bool {
	if len(a) != len(b) {
		return false
	}
	return len(intersect(a, b)) == len(a) && len(intersect(b, a)) == len(b)
}

// intersect keeps the values of a present in b, duplicates removed.
func intersect(a, b []sqltypes.Value) []sqltypes.Value {
	var out []sqltypes.Value
	for _, x := range a {
		if contains(b, x) && !contains(out, x) {
			out = append(out, x)
		}
	}
	return out
}

func contains(vals []sqltypes.Value, v sqltypes.Value) bool {
	for _, x := range vals {
		if Equal(x, v) {
			return true
		}
	}
	return false
}

func distinct(vals []sqltypes.Value) []sqltypes.Value {
	out := make([]sqltypes.Value, 0, len(vals))
	for _, v := range vals {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// inRange returns true if v is inside r.
func inRange(v sqltypes.Value, r *algorithm.Range) bool {
	if r.Lower != nil {
		c := Compare(v, r.Lower.Value)
		if c < 0 || (c == 0 && !r.Lower.Inclusive) {
			return false
		}
	}
	if r.Upper != nil {
		c := Compare(v, r.Upper.Value)
		if c > 0 || (c == 0 && !r.Upper.Inclusive) {
			return false
		}
	}
	return true
}

// intersectRange returns the overlap of two ranges, false if empty.
func intersectRange(a, b *algorithm.Range) (*algorithm.Range, bool) {
	r := &algorithm.Range{Lower: a.Lower, Upper: a.Upper}
	if b.Lower != nil {
		if r.Lower == nil {
			r.Lower = b.Lower
		} else if c := Compare(b.Lower.Value, r.Lower.Value); c > 0 || (c == 0 && !b.Lower.Inclusive) {
			r.Lower = b.Lower
		}
	}
	if b.Upper != nil {
		if r.Upper == nil {
			r.Upper = b.Upper
		} else if c := Compare(b.Upper.Value, r.Upper.Value); c < 0 || (c == 0 && !b.Upper.Inclusive) {
			r.Upper = b.Upper
		}
	}
	if r.Lower != nil && r.Upper != nil {
		c := Compare(r.Lower.Value, r.Upper.Value)
		if c > 0 || (c == 0 && !(r.Lower.Inclusive && r.Upper.Inclusive)) {
			return nil, false
		}
	}
	return r, true
}

// sameRange returns true if both ranges have equal bounds.
func sameRange(a, b *algorithm.Range) bool {
	sameBound := func(x, y *algorithm.Bound) bool {
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return x.Inclusive == y.Inclusive && Equal(x.Value, y.Value)
	}
	return sameBound(a.Lower, b.Lower) && sameBound(a.Upper, b.Upper)
}
