/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package condition

import (
	"strconv"
	"strings"

	"github.com/shardroute/shardroute/algorithm"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/statement"

	"github.com/xelabs/go-mysqlstack/sqlparser"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// Extract builds the sharding conditions of the statement.
// INSERT ... VALUES gives one condition per row, in row order.
// Other DML gives one condition per query block having sharding values, the outermost first.
// Values that can't be resolved statically are left out. When some block of a sharding table
// has no value while another has, an empty condition is added so that the route is not narrowed.
func Extract(r *rule.ShardingRule, stmt *statement.Statement) *Conditions {
	conds := &Conditions{}
	if stmt.Category != statement.DML {
		return conds
	}
	if stmt.Insert != nil && !stmt.Insert.Select {
		for _, row := range stmt.Insert.Rows {
			conds.Conditions = append(conds.Conditions, extractRow(r, stmt, row))
		}
		return conds
	}
	unresolved := false
	for _, scope := range stmt.Scopes {
		if !hasShardingTable(r, scope) {
			continue
		}
		if scope.Where != nil {
			if c := extractWhere(r, stmt, scope); len(c.Values) > 0 || c.AlwaysFalse {
				conds.Conditions = append(conds.Conditions, c)
				continue
			}
		}
		unresolved = true
	}
	if unresolved && len(conds.Conditions) > 0 {
		conds.Conditions = append(conds.Conditions, &Condition{})
	}
	return conds
}

func hasShardingTable(r *rule.ShardingRule, scope *statement.Scope) bool {
	for _, t := range scope.Tables {
		if r.IsShardingTable(t.Name) {
			return true
		}
	}
	return false
}

func extractRow(r *rule.ShardingRule, stmt *statement.Statement, row sqlparser.ValTuple) *Condition {
	c := &Condition{}
	table := stmt.Insert.Table
	for i, column := range stmt.Insert.Columns {
		if i >= len(row) || !r.IsShardingColumn(table, column) {
			continue
		}
		if v, ok := evaluate(row[i], stmt.Params); ok {
			c.Values = append(c.Values, &Value{
				Table:    table,
				Column:   column,
				Operator: sqlparser.EqualStr,
				Values:   []sqltypes.Value{v},
			})
		}
	}
	return c
}

// extractor accumulates the values of one query block.
type extractor struct {
	r     *rule.ShardingRule
	stmt  *statement.Statement
	scope *statement.Scope
	cond  *Condition
}

func extractWhere(r *rule.ShardingRule, stmt *statement.Statement, scope *statement.Scope) *Condition {
	e := &extractor{r: r, stmt: stmt, scope: scope, cond: &Condition{}}
	for _, filter := range statement.SplitAnd(scope.Where) {
		e.filter(statement.SkipParenthesis(filter))
	}
	return e.cond
}

func (e *extractor) filter(expr sqlparser.Expr) {
	switch expr := expr.(type) {
	case *sqlparser.ComparisonExpr:
		e.comparison(expr)
	case *sqlparser.RangeCond:
		if expr.Operator != sqlparser.BetweenStr {
			return
		}
		col, ok := expr.Left.(*sqlparser.ColName)
		if !ok {
			return
		}
		from, ok1 := evaluate(expr.From, e.stmt.Params)
		to, ok2 := evaluate(expr.To, e.stmt.Params)
		if !ok1 || !ok2 {
			return
		}
		e.addRange(col, sqlparser.BetweenStr, &algorithm.Range{
			Lower: &algorithm.Bound{Value: from, Inclusive: true},
			Upper: &algorithm.Bound{Value: to, Inclusive: true},
		})
	case *sqlparser.OrExpr:
		e.or(expr)
	}
}

func (e *extractor) comparison(expr *sqlparser.ComparisonExpr) {
	op := expr.Operator
	col, ok := expr.Left.(*sqlparser.ColName)
	other := expr.Right
	if !ok {
		// 'value op column' is turned around.
		if col, ok = expr.Right.(*sqlparser.ColName); !ok {
			return
		}
		other = expr.Left
		op = flip(op)
	}

	switch op {
	case sqlparser.EqualStr, sqlparser.NullSafeEqualStr:
		if v, ok := evaluate(other, e.stmt.Params); ok {
			e.addList(col, sqlparser.EqualStr, []sqltypes.Value{v})
		}
	case sqlparser.InStr:
		tuple, ok := other.(sqlparser.ValTuple)
		if !ok {
			return
		}
		if vals, ok := evaluateTuple(tuple, e.stmt.Params); ok {
			e.addList(col, sqlparser.InStr, vals)
		}
	case sqlparser.LessThanStr, sqlparser.LessEqualStr, sqlparser.GreaterThanStr, sqlparser.GreaterEqualStr:
		v, ok := evaluate(other, e.stmt.Params)
		if !ok {
			return
		}
		bound := &algorithm.Bound{Value: v, Inclusive: op == sqlparser.LessEqualStr || op == sqlparser.GreaterEqualStr}
		r := &algorithm.Range{}
		if op == sqlparser.LessThanStr || op == sqlparser.LessEqualStr {
			r.Upper = bound
		} else {
			r.Lower = bound
		}
		e.addRange(col, op, r)
	}
}

// or handles 'a = 1 OR a = 2 OR a IN (3, 4)', any other branch makes the column unresolved.
func (e *extractor) or(expr *sqlparser.OrExpr) {
	var col *sqlparser.ColName
	var vals []sqltypes.Value
	var walk func(node sqlparser.Expr) bool
	walk = func(node sqlparser.Expr) bool {
		switch node := statement.SkipParenthesis(node).(type) {
		case *sqlparser.OrExpr:
			return walk(node.Left) && walk(node.Right)
		case *sqlparser.ComparisonExpr:
			c, ok := node.Left.(*sqlparser.ColName)
			if !ok || (col != nil && !c.Equal(col)) {
				return false
			}
			col = c
			switch node.Operator {
			case sqlparser.EqualStr:
				v, ok := evaluate(node.Right, e.stmt.Params)
				if !ok {
					return false
				}
				vals = append(vals, v)
				return true
			case sqlparser.InStr:
				tuple, ok := node.Right.(sqlparser.ValTuple)
				if !ok {
					return false
				}
				tvals, ok := evaluateTuple(tuple, e.stmt.Params)
				if !ok {
					return false
				}
				vals = append(vals, tvals...)
				return true
			}
		}
		return false
	}
	if walk(expr) && col != nil {
		e.addList(col, sqlparser.InStr, distinct(vals))
	}
}

// resolve returns the sharding table of the column, "" if it doesn't shard any table of the scope.
func (e *extractor) resolve(col *sqlparser.ColName) (string, string) {
	c := e.scope.Resolve(col)
	if c.Table != "" {
		if e.r.IsShardingColumn(c.Table, c.Column) {
			return c.Table, c.Column
		}
		return "", ""
	}
	if !col.Qualifier.IsEmpty() {
		return "", ""
	}
	for _, t := range e.scope.Tables {
		if e.r.IsShardingColumn(t.Name, c.Column) {
			return t.Name, c.Column
		}
	}
	return "", ""
}

func (e *extractor) find(table, column string) *Value {
	return e.cond.Find(column, table)
}

func (e *extractor) addList(col *sqlparser.ColName, op string, vals []sqltypes.Value) {
	table, column := e.resolve(col)
	if table == "" {
		return
	}
	old := e.find(table, column)
	if old == nil {
		e.cond.Values = append(e.cond.Values, &Value{Table: table, Column: column, Operator: op, Values: distinct(vals)})
		return
	}
	if old.IsRange() {
		var kept []sqltypes.Value
		for _, v := range vals {
			if inRange(v, old.Range) {
				kept = append(kept, v)
			}
		}
		old.Range, old.Operator, old.Values = nil, op, distinct(kept)
	} else {
		old.Values = intersect(old.Values, vals)
	}
	if len(old.Values) == 0 {
		e.cond.AlwaysFalse = true
	}
}

func (e *extractor) addRange(col *sqlparser.ColName, op string, r *algorithm.Range) {
	table, column := e.resolve(col)
	if table == "" {
		return
	}
	if _, ok := intersectRange(r, &algorithm.Range{}); !ok {
		// 'x BETWEEN 30 AND 5' matches nothing.
		e.cond.AlwaysFalse = true
		return
	}
	old := e.find(table, column)
	if old == nil {
		e.cond.Values = append(e.cond.Values, &Value{Table: table, Column: column, Operator: op, Range: r})
		return
	}
	if !old.IsRange() {
		var kept []sqltypes.Value
		for _, v := range old.Values {
			if inRange(v, r) {
				kept = append(kept, v)
			}
		}
		old.Values = kept
		if len(kept) == 0 {
			e.cond.AlwaysFalse = true
		}
		return
	}
	merged, ok := intersectRange(old.Range, r)
	if !ok {
		e.cond.AlwaysFalse = true
		return
	}
	old.Range = merged
}

func flip(op string) string {
	switch op {
	case sqlparser.LessThanStr:
		return sqlparser.GreaterThanStr
	case sqlparser.LessEqualStr:
		return sqlparser.GreaterEqualStr
	case sqlparser.GreaterThanStr:
		return sqlparser.LessThanStr
	case sqlparser.GreaterEqualStr:
		return sqlparser.LessEqualStr
	case sqlparser.InStr:
		// 'value IN column' is not a list condition.
		return ""
	}
	return op
}

func evaluateTuple(tuple sqlparser.ValTuple, params []sqltypes.Value) ([]sqltypes.Value, bool) {
	vals := make([]sqltypes.Value, 0, len(tuple))
	for _, expr := range tuple {
		v, ok := evaluate(expr, params)
		if !ok {
			return nil, false
		}
		vals = append(vals, v)
	}
	return vals, true
}

// evaluate resolves a literal or a placeholder.
func evaluate(expr sqlparser.Expr, params []sqltypes.Value) (sqltypes.Value, bool) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return sqltypes.NULL, false
	}
	raw := string(val.Val)
	switch val.Type {
	case sqlparser.IntVal:
		if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return sqltypes.MakeTrusted(sqltypes.Int64, val.Val), true
		}
		if _, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return sqltypes.MakeTrusted(sqltypes.Uint64, val.Val), true
		}
		return sqltypes.MakeTrusted(sqltypes.Decimal, val.Val), true
	case sqlparser.FloatVal:
		return sqltypes.MakeTrusted(sqltypes.Decimal, val.Val), true
	case sqlparser.StrVal:
		return sqltypes.MakeTrusted(sqltypes.VarChar, val.Val), true
	case sqlparser.HexNum:
		n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(raw), "0x"), 16, 64)
		if err != nil {
			return sqltypes.NULL, false
		}
		return sqltypes.NewUint64(n), true
	case sqlparser.HexVal:
		b, err := val.HexDecode()
		if err != nil {
			return sqltypes.NULL, false
		}
		return sqltypes.MakeTrusted(sqltypes.VarBinary, b), true
	case sqlparser.ValArg:
		// ':v1' is the first parameter.
		if !strings.HasPrefix(raw, ":v") {
			return sqltypes.NULL, false
		}
		idx, err := strconv.Atoi(raw[2:])
		if err != nil || idx < 1 || idx > len(params) || params[idx-1].IsNull() {
			return sqltypes.NULL, false
		}
		return params[idx-1], true
	}
	return sqltypes.NULL, false
}
