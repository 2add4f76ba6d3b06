/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package engine

import (
	"github.com/shardroute/shardroute/route"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/xbase"

	"github.com/pkg/errors"
)

var (
	_ Engine = &UnicastEngine{}
	_ Engine = &IgnoreEngine{}
	_ Engine = &UnconfiguredEngine{}
	_ Engine = &FederatedEngine{}
)

// UnicastEngine sends the statement to one data source that hosts every table.
// The choice is stable: the first data source of the first sharding table, or of the rule.
type UnicastEngine struct {
	tables []string
	// alwaysFalse statements match no row, they hit nothing.
	alwaysFalse bool
}

// NewUnicastEngine creates the unicast engine.
func NewUnicastEngine(tables []string, alwaysFalse bool) *UnicastEngine {
	return &UnicastEngine{tables: tables, alwaysFalse: alwaysFalse}
}

// Type returns the engine type.
func (e *UnicastEngine) Type() EngineType {
	return EngineTypeUnicast
}

// Route impl.
func (e *UnicastEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	if e.alwaysFalse {
		return route.NewContext(), nil
	}

	candidates := r.DataSourceNames()
	for _, name := range e.tables {
		if t, ok := r.TableRule(name); ok {
			candidates = t.DataSourceNames()
			break
		}
	}
	ds := ""
	for _, c := range candidates {
		if e.hostsAll(r, c) {
			ds = c
			break
		}
	}
	if ds == "" {
		return nil, errors.Errorf("engine.unicast.tables%v.have.no.common.data.source", e.tables)
	}

	b := route.NewBuilder()
	b.AddDataSource(ds)
	for _, name := range e.tables {
		if t, ok := r.TableRule(name); ok {
			coords := t.CoordsAt(t.DataSourceIndex(ds))
			b.AddNode(t.Name, t.Node(coords[0]))
			continue
		}
		b.AddTable(ds, name, name)
	}
	return b.Build(), nil
}

func (e *UnicastEngine) hostsAll(r *rule.ShardingRule, ds string) bool {
	for _, name := range e.tables {
		switch {
		case r.IsShardingTable(name):
			t, _ := r.TableRule(name)
			if t.DataSourceIndex(ds) < 0 {
				return false
			}
		case r.IsBroadcastTable(name):
		default:
			home, err := r.UnconfiguredDataSource(name)
			if err != nil || home != ds {
				return false
			}
		}
	}
	return true
}

// IgnoreEngine routes nowhere, the session's current connection serves the statement.
type IgnoreEngine struct{}

// NewIgnoreEngine creates the ignore engine.
func NewIgnoreEngine() *IgnoreEngine {
	return &IgnoreEngine{}
}

// Type returns the engine type.
func (e *IgnoreEngine) Type() EngineType {
	return EngineTypeIgnore
}

// Route impl.
func (e *IgnoreEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	return route.NewContext(), nil
}

// UnconfiguredEngine sends the statement to the home data sources of tables without rule.
// Broadcast tables ride along to each of those data sources.
type UnconfiguredEngine struct {
	tables []string
}

// NewUnconfiguredEngine creates the unconfigured tables engine.
func NewUnconfiguredEngine(tables []string) *UnconfiguredEngine {
	return &UnconfiguredEngine{tables: tables}
}

// Type returns the engine type.
func (e *UnconfiguredEngine) Type() EngineType {
	return EngineTypeUnconfigured
}

// Route impl.
func (e *UnconfiguredEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	b := route.NewBuilder()
	var homes, broadcasts []string
	for _, name := range e.tables {
		switch {
		case r.IsShardingTable(name):
			return nil, errors.Errorf("engine.unconfigured.table[%s].is.sharding.table", name)
		case r.IsBroadcastTable(name):
			broadcasts = append(broadcasts, name)
		default:
			ds, err := r.UnconfiguredDataSource(name)
			if err != nil {
				return nil, err
			}
			b.AddTable(ds, name, name)
			homes = append(homes, ds)
		}
	}
	if len(homes) == 0 {
		names := r.DataSourceNames()
		if len(names) == 0 {
			return nil, errors.Errorf("engine.unconfigured.tables%v.have.no.data.source", e.tables)
		}
		homes = names[:1]
	}
	for _, ds := range xbase.DistinctStrings(homes) {
		for _, name := range broadcasts {
			b.AddTable(ds, name, name)
		}
	}
	return b.Build(), nil
}

// FederatedEngine hits every data node of every table and leaves the join to the federation executor.
type FederatedEngine struct {
	tables []string
}

// NewFederatedEngine creates the federated engine.
func NewFederatedEngine(tables []string) *FederatedEngine {
	return &FederatedEngine{tables: tables}
}

// Type returns the engine type.
func (e *FederatedEngine) Type() EngineType {
	return EngineTypeFederated
}

// Route impl.
func (e *FederatedEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	b := route.NewBuilder()
	b.SetFederated()
	for _, name := range e.tables {
		if err := addAllNodes(r, b, name); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
