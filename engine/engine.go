/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package engine

import (
	"github.com/shardroute/shardroute/algorithm"
	"github.com/shardroute/shardroute/condition"
	"github.com/shardroute/shardroute/hint"
	"github.com/shardroute/shardroute/route"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/xbase"

	"github.com/pkg/errors"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// EngineType type.
type EngineType string

const (
	// EngineTypeStandard enum.
	EngineTypeStandard EngineType = "standard"

	// EngineTypeComplex enum.
	EngineTypeComplex EngineType = "complex"

	// EngineTypeDatabaseBroadcast enum.
	EngineTypeDatabaseBroadcast EngineType = "database_broadcast"

	// EngineTypeTableBroadcast enum.
	EngineTypeTableBroadcast EngineType = "table_broadcast"

	// EngineTypeInstanceBroadcast enum.
	EngineTypeInstanceBroadcast EngineType = "instance_broadcast"

	// EngineTypeDataSourceGroupBroadcast enum.
	EngineTypeDataSourceGroupBroadcast EngineType = "data_source_group_broadcast"

	// EngineTypeUnicast enum.
	EngineTypeUnicast EngineType = "unicast"

	// EngineTypeIgnore enum.
	EngineTypeIgnore EngineType = "ignore"

	// EngineTypeUnconfigured enum.
	EngineTypeUnconfigured EngineType = "unconfigured"

	// EngineTypeFederated enum.
	EngineTypeFederated EngineType = "federated"
)

// Engine computes the route context of one statement.
// An engine is created per statement and holds only that statement's inputs,
// the rule is passed in so that a snapshot is used for the whole call.
type Engine interface {
	Type() EngineType
	Route(r *rule.ShardingRule) (*route.Context, error)
}

// shard returns the coordinates of t hit by the condition, in data node order.
// lookup are the referenced tables whose condition values apply to t, t or its bound tables.
func shard(t *rule.TableRule, lookup []*rule.TableRule, cond *condition.Condition, hints *hint.Values) ([]rule.Coord, error) {
	dataSources, err := doSharding(t, dimensionDatabase, t.DataSourceNames(), lookup, cond, hints.DatabaseValues)
	if err != nil {
		return nil, err
	}
	tables, err := doSharding(t, dimensionTable, t.ActualTableNames(), lookup, cond, hints.TableValues)
	if err != nil {
		return nil, err
	}

	dsSet := make(map[int]struct{}, len(dataSources))
	for _, ds := range dataSources {
		dsSet[t.DataSourceIndex(ds)] = struct{}{}
	}
	tblSet := make(map[int]struct{}, len(tables))
	for _, tbl := range tables {
		tblSet[t.TableIndex(tbl)] = struct{}{}
	}

	// Cartesian product of both dimensions, intersected with the configured nodes.
	var coords []rule.Coord
	for _, c := range t.Coords() {
		_, dsOK := dsSet[c.DataSource]
		_, tblOK := tblSet[c.Table]
		if dsOK && tblOK {
			coords = append(coords, c)
		}
	}
	return coords, nil
}

type dimension int

const (
	dimensionDatabase dimension = iota
	dimensionTable
)

func (d dimension) strategy(t *rule.TableRule) *rule.Strategy {
	if d == dimensionDatabase {
		return t.DatabaseStrategy
	}
	return t.TableStrategy
}

// findValue returns the value of the i-th sharding column of the dimension.
// Each lookup table is searched under its own column name.
func findValue(cond *condition.Condition, d dimension, i int, lookup []*rule.TableRule) *condition.Value {
	for _, l := range lookup {
		s := d.strategy(l)
		if s == nil || i >= len(s.Columns) {
			continue
		}
		if v := cond.Find(s.Columns[i], l.Name); v != nil {
			return v
		}
	}
	return nil
}

// findHints returns the hint values of the first lookup table having some.
func findHints(lookup []*rule.TableRule, hintValues func(table string) ([]sqltypes.Value, error)) ([]sqltypes.Value, error) {
	var err error
	for _, l := range lookup {
		var vals []sqltypes.Value
		if vals, err = hintValues(l.Name); err == nil {
			return vals, nil
		}
	}
	return nil, err
}

// doSharding evaluates one strategy against the targets of its dimension.
// A dimension without condition value hits all targets.
func doSharding(t *rule.TableRule, d dimension, targets []string, lookup []*rule.TableRule, cond *condition.Condition,
	hintValues func(table string) ([]sqltypes.Value, error)) ([]string, error) {
	s := d.strategy(t)
	switch s.Kind {
	case rule.KindStandard:
		algo := s.Algorithm.(algorithm.StandardAlgorithm)
		column := s.Columns[0]
		v := findValue(cond, d, 0, lookup)
		if v == nil {
			return targets, nil
		}
		if v.IsRange() {
			hits, err := algo.DoRangeSharding(targets, algorithm.RangeValue{Table: t.Name, Column: column, Range: *v.Range})
			if err != nil {
				return nil, err
			}
			return xbase.IntersectStrings(targets, hits), nil
		}
		hits := make([]string, 0, len(v.Values))
		for _, val := range v.Values {
			target, err := algo.DoSharding(targets, algorithm.PreciseValue{Table: t.Name, Column: column, Value: val})
			if err != nil {
				return nil, err
			}
			if target != "" {
				hits = append(hits, target)
			}
		}
		return xbase.IntersectStrings(targets, hits), nil
	case rule.KindComplex:
		algo := s.Algorithm.(algorithm.ComplexAlgorithm)
		value := algorithm.ComplexValue{
			Table:  t.Name,
			Values: make(map[string][]sqltypes.Value),
			Ranges: make(map[string]algorithm.Range),
		}
		for i, column := range s.Columns {
			v := findValue(cond, d, i, lookup)
			switch {
			case v == nil:
			case v.IsRange():
				value.Ranges[column] = *v.Range
			default:
				value.Values[column] = v.Values
			}
		}
		hits, err := algo.DoSharding(targets, value)
		if err != nil {
			return nil, err
		}
		return xbase.IntersectStrings(targets, hits), nil
	case rule.KindHint:
		algo := s.Algorithm.(algorithm.HintAlgorithm)
		vals, err := findHints(lookup, hintValues)
		if err != nil {
			return nil, err
		}
		hits, err := algo.DoSharding(targets, algorithm.HintValue{Table: t.Name, Values: vals})
		if err != nil {
			return nil, err
		}
		return xbase.IntersectStrings(targets, hits), nil
	case rule.KindNone:
		return targets, nil
	}
	return nil, errors.Errorf("engine.table[%s].strategy[%s].unsupported", t.Name, s.Kind)
}

// conditionsOf returns the conditions to route, a statement without any routes as one empty condition.
func conditionsOf(conds *condition.Conditions) []*condition.Condition {
	if conds == nil || len(conds.Conditions) == 0 {
		return []*condition.Condition{{}}
	}
	return conds.Conditions
}
