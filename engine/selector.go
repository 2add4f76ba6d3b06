/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package engine

import (
	"github.com/shardroute/shardroute/condition"
	"github.com/shardroute/shardroute/hint"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/statement"
)

// Select picks the engine of the statement, the first matching rule wins.
func Select(r *rule.ShardingRule, stmt *statement.Statement, conds *condition.Conditions, hints *hint.Values) Engine {
	tables := stmt.Tables
	switch stmt.Category {
	case statement.TCL:
		return NewDatabaseBroadcastEngine()
	case statement.DDL:
		return NewTableBroadcastEngine(tables)
	case statement.DAL:
		return selectDAL(r, stmt)
	case statement.DCL:
		if !stmt.Wildcard && len(tables) == 1 {
			return NewTableBroadcastEngine(tables)
		}
		return NewInstanceBroadcastEngine()
	}

	if r.IsAllBroadcastTables(tables) {
		if stmt.IsSelect() {
			return NewUnicastEngine(tables, false)
		}
		return NewDatabaseBroadcastEngine()
	}
	if conds.AlwaysFalse() || len(tables) == 0 {
		return NewUnicastEngine(tables, conds.AlwaysFalse())
	}

	sharding := r.ShardingTableNames(tables)
	switch {
	case len(sharding) == 0:
		return NewUnconfiguredEngine(tables)
	case len(sharding) == 1 || r.IsAllBindingTables(sharding):
		return NewStandardEngine(sharding, conds, hints)
	case isFederated(r, stmt):
		return NewFederatedEngine(tables)
	}
	return NewComplexEngine(sharding, conds, hints)
}

func selectDAL(r *rule.ShardingRule, stmt *statement.Statement) Engine {
	switch {
	case stmt.Kind == statement.KindUse:
		return NewIgnoreEngine()
	case stmt.Kind == statement.KindSet, stmt.IsDatabaseListing():
		return NewDatabaseBroadcastEngine()
	}
	if len(stmt.Tables) > 0 {
		if !r.IsAllShardingTablesAbsent(stmt.Tables) {
			return NewUnicastEngine(stmt.Tables, false)
		}
		return NewUnconfiguredEngine(stmt.Tables)
	}
	return NewDataSourceGroupBroadcastEngine()
}

// isFederated returns true if the unbound sharding tables can't be joined inside one data source:
// a subquery reads a sharding table, or two sharding tables join on a column that doesn't shard both.
func isFederated(r *rule.ShardingRule, stmt *statement.Statement) bool {
	for _, name := range stmt.SubqueryTables {
		if r.IsShardingTable(name) {
			return true
		}
	}
	for _, join := range stmt.Joins {
		left, right := join.Left, join.Right
		if !r.IsShardingTable(left.Table) || !r.IsShardingTable(right.Table) || r.IsBound(left.Table, right.Table) {
			continue
		}
		if !r.IsShardingColumn(left.Table, left.Column) || !r.IsShardingColumn(right.Table, right.Column) {
			return true
		}
	}
	return false
}
