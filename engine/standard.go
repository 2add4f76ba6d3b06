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
	_ Engine = &StandardEngine{}
)

// StandardEngine routes one sharding table, or a group of bound tables.
// Every hit data node gives one unit, carrying the same shard of each bound table.
type StandardEngine struct {
	// tables[0] is routed, the others reuse its coordinates.
	tables []string
	conds  *condition.Conditions
	hints  *hint.Values
}

// NewStandardEngine creates the standard engine.
func NewStandardEngine(tables []string, conds *condition.Conditions, hints *hint.Values) *StandardEngine {
	return &StandardEngine{
		tables: tables,
		conds:  conds,
		hints:  hints,
	}
}

// Type returns the engine type.
func (e *StandardEngine) Type() EngineType {
	return EngineTypeStandard
}

// Route impl.
func (e *StandardEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	b := route.NewBuilder()
	if err := routeStandard(r, b, e.tables, e.conds, e.hints); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// routeStandard routes the first table of the binding group per condition
// and maps the result to the referenced tables.
func routeStandard(r *rule.ShardingRule, b *route.Builder, tables []string, conds *condition.Conditions, hints *hint.Values) error {
	referenced := make([]*rule.TableRule, 0, len(tables))
	seen := make(map[*rule.TableRule]struct{}, len(tables))
	for _, name := range tables {
		t, err := r.FindTableRule(name)
		if err != nil {
			return err
		}
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			referenced = append(referenced, t)
		}
	}
	primary := referenced[0]
	binding := r.BindingRule(primary.Name)
	if binding != nil {
		primary = binding.Tables[0]
	}

	for _, cond := range conditionsOf(conds) {
		if cond.AlwaysFalse {
			b.AddOriginalDataNodes([]rule.DataNode{})
			continue
		}
		coords, err := shard(primary, referenced, cond, hints)
		if err != nil {
			return err
		}
		nodes := make([]rule.DataNode, 0, len(coords))
		for _, c := range coords {
			mappers := make([]route.Mapper, 0, len(referenced))
			var node rule.DataNode
			for i, t := range referenced {
				tc := c
				if t != primary {
					if tc, err = binding.BindingCoord(primary, c, t); err != nil {
						return err
					}
				}
				n := t.Node(tc)
				if i == 0 {
					node = n
				}
				mappers = append(mappers, route.Mapper{Logical: t.Name, Actual: n.Table})
			}
			nodes = append(nodes, node)
			b.AddUnit(node.DataSource, mappers...)
		}
		b.AddOriginalDataNodes(nodes)
	}
	return nil
}
