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
	"github.com/shardroute/shardroute/route"
	"github.com/shardroute/shardroute/rule"
)

var (
	_ Engine = &ComplexEngine{}
)

// ComplexEngine routes several sharding tables that are not all bound.
// Each binding group is routed on its own, then the cartesian product of the groups
// is taken inside every data source they share.
type ComplexEngine struct {
	typ    EngineType
	tables []string
	conds  *condition.Conditions
	hints  *hint.Values
}

// NewComplexEngine creates the complex engine.
func NewComplexEngine(tables []string, conds *condition.Conditions, hints *hint.Values) *ComplexEngine {
	return &ComplexEngine{
		typ:    EngineTypeComplex,
		tables: tables,
		conds:  conds,
		hints:  hints,
	}
}

// Type returns the engine type, federated once Route handed the tables to federation.
func (e *ComplexEngine) Type() EngineType {
	return e.typ
}

// Route impl.
func (e *ComplexEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	var groups []*route.Context
	for _, tables := range groupByBinding(r, e.tables) {
		b := route.NewBuilder()
		if err := routeStandard(r, b, tables, e.conds, e.hints); err != nil {
			return nil, err
		}
		groups = append(groups, b.Build())
	}

	if r.AllowCrossDataSourceJoin && !sameDataSources(groups) {
		e.typ = EngineTypeFederated
		return NewFederatedEngine(e.tables).Route(r)
	}

	// Only data sources hit by every group can run the join,
	// each combination of the groups' units there is one unit.
	b := route.NewBuilder()
	for _, ds := range groups[0].DataSourceNames() {
		combos := [][]route.Mapper{nil}
		for _, g := range groups {
			units := g.UnitsOf(ds)
			next := make([][]route.Mapper, 0, len(combos)*len(units))
			for _, combo := range combos {
				for _, u := range units {
					mappers := append(append([]route.Mapper(nil), combo...), u.Tables...)
					next = append(next, mappers)
				}
			}
			combos = next
		}
		for _, mappers := range combos {
			b.AddUnit(ds, mappers...)
		}
	}
	return b.Build(), nil
}

// groupByBinding splits the tables into binding groups, in first appearance order.
func groupByBinding(r *rule.ShardingRule, tables []string) [][]string {
	var groups [][]string
	for _, name := range tables {
		placed := false
		for i, g := range groups {
			if r.IsBound(g[0], name) {
				groups[i] = append(groups[i], name)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []string{name})
		}
	}
	return groups
}

func sameDataSources(groups []*route.Context) bool {
	first := groups[0].DataSourceNames()
	for _, g := range groups[1:] {
		names := g.DataSourceNames()
		if len(names) != len(first) {
			return false
		}
		for i := range names {
			if names[i] != first[i] {
				return false
			}
		}
	}
	return true
}
