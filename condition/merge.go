/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package condition

import (
	"strings"

	"github.com/shardroute/shardroute/hint"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/statement"

	"github.com/xelabs/go-mysqlstack/sqldb"
)

var (
	// ErrMissingSubqueryShardingColumn is returned when a merged statement has no sharding value.
	ErrMissingSubqueryShardingColumn = sqldb.NewSQLErrorf(sqldb.ER_UNKNOWN_ERROR, "must have sharding column with subquery")

	// ErrSubqueryShardingValueMismatch is returned when the query blocks disagree on the sharding value.
	ErrSubqueryShardingValueMismatch = sqldb.NewSQLErrorf(sqldb.ER_UNKNOWN_ERROR, "sharding value must be the same across the subquery")
)

// NeedMerge returns true if the query blocks of the statement must agree on one shard:
// INSERT ... SELECT, or a subquery whose sharding tables are all the same or bound.
func NeedMerge(r *rule.ShardingRule, stmt *statement.Statement) bool {
	if stmt.Category != statement.DML {
		return false
	}
	if stmt.Insert != nil && stmt.Insert.Select {
		return true
	}
	if !stmt.HasSubquery {
		return false
	}
	tables := r.ShardingTableNames(stmt.Tables)
	if len(tables) == 0 {
		return false
	}
	for _, t := range tables[1:] {
		if !r.IsBound(tables[0], t) {
			return false
		}
	}
	return true
}

// Merge checks that all conditions hit the same shard and collapses them to the last one.
// Query blocks without sharding value don't take part. Tables routed by hint values skip the check.
func Merge(r *rule.ShardingRule, stmt *statement.Statement, conds *Conditions, hints *hint.Values) (*Conditions, error) {
	if routedByHint(r, stmt, hints) {
		return conds, nil
	}
	conds = resolved(conds)
	if len(conds.Conditions) == 0 {
		return nil, ErrMissingSubqueryShardingColumn
	}
	if len(conds.Conditions) == 1 {
		return conds, nil
	}

	last := len(conds.Conditions) - 1
	example := conds.Conditions[last]
	for _, c := range conds.Conditions[:last] {
		if !sameCondition(r, example, c) {
			return nil, ErrSubqueryShardingValueMismatch
		}
	}
	return &Conditions{Conditions: []*Condition{example}}, nil
}

func resolved(conds *Conditions) *Conditions {
	out := &Conditions{}
	if conds == nil {
		return out
	}
	for _, c := range conds.Conditions {
		if len(c.Values) > 0 || c.AlwaysFalse {
			out.Conditions = append(out.Conditions, c)
		}
	}
	return out
}

func routedByHint(r *rule.ShardingRule, stmt *statement.Statement, hints *hint.Values) bool {
	for _, name := range stmt.Tables {
		t, ok := r.TableRule(name)
		if !ok || t.DatabaseStrategy.Kind != rule.KindHint || t.TableStrategy.Kind != rule.KindHint {
			continue
		}
		_, dbErr := hints.DatabaseValues(name)
		_, tblErr := hints.TableValues(name)
		if dbErr == nil && tblErr == nil {
			return true
		}
	}
	return false
}

func sameCondition(r *rule.ShardingRule, a, b *Condition) bool {
	if len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if !sameValue(r, a.Values[i], b.Values[i]) {
			return false
		}
	}
	return true
}

func sameValue(r *rule.ShardingRule, a, b *Value) bool {
	if !r.IsBound(a.Table, b.Table) || !strings.EqualFold(a.Column, b.Column) {
		return false
	}
	switch {
	case !a.IsRange() && !b.IsRange():
		return SameValues(a.Values, b.Values)
	case a.IsRange() && b.IsRange():
		return sameRange(a.Range, b.Range)
	}
	return false
}
