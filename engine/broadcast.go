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
)

var (
	_ Engine = &DatabaseBroadcastEngine{}
	_ Engine = &TableBroadcastEngine{}
	_ Engine = &InstanceBroadcastEngine{}
	_ Engine = &DataSourceGroupBroadcastEngine{}
)

// DatabaseBroadcastEngine sends the statement to every data source, such as COMMIT.
type DatabaseBroadcastEngine struct{}

// NewDatabaseBroadcastEngine creates the database broadcast engine.
func NewDatabaseBroadcastEngine() *DatabaseBroadcastEngine {
	return &DatabaseBroadcastEngine{}
}

// Type returns the engine type.
func (e *DatabaseBroadcastEngine) Type() EngineType {
	return EngineTypeDatabaseBroadcast
}

// Route impl.
func (e *DatabaseBroadcastEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	b := route.NewBuilder()
	for _, ds := range r.DataSourceNames() {
		b.AddDataSource(ds)
	}
	return b.Build(), nil
}

// TableBroadcastEngine sends the statement to every data node of the tables, such as DDL.
type TableBroadcastEngine struct {
	tables []string
}

// NewTableBroadcastEngine creates the table broadcast engine.
func NewTableBroadcastEngine(tables []string) *TableBroadcastEngine {
	return &TableBroadcastEngine{tables: tables}
}

// Type returns the engine type.
func (e *TableBroadcastEngine) Type() EngineType {
	return EngineTypeTableBroadcast
}

// Route impl.
// Without table, every data source is hit, such as 'CREATE DATABASE'.
func (e *TableBroadcastEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	b := route.NewBuilder()
	if len(e.tables) == 0 {
		for _, ds := range r.DataSourceNames() {
			b.AddDataSource(ds)
		}
		return b.Build(), nil
	}
	for _, name := range e.tables {
		if err := addAllNodes(r, b, name); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// addAllNodes adds every data node of the table, whatever its kind.
func addAllNodes(r *rule.ShardingRule, b *route.Builder, name string) error {
	switch {
	case r.IsShardingTable(name):
		t, _ := r.TableRule(name)
		for _, node := range t.DataNodes {
			b.AddNode(t.Name, node)
		}
	case r.IsBroadcastTable(name):
		for _, ds := range r.DataSourceNames() {
			b.AddTable(ds, name, name)
		}
	default:
		ds, err := r.UnconfiguredDataSource(name)
		if err != nil {
			return err
		}
		b.AddTable(ds, name, name)
	}
	return nil
}

// InstanceBroadcastEngine sends the statement once per backend instance, such as GRANT.
type InstanceBroadcastEngine struct{}

// NewInstanceBroadcastEngine creates the instance broadcast engine.
func NewInstanceBroadcastEngine() *InstanceBroadcastEngine {
	return &InstanceBroadcastEngine{}
}

// Type returns the engine type.
func (e *InstanceBroadcastEngine) Type() EngineType {
	return EngineTypeInstanceBroadcast
}

// Route impl.
func (e *InstanceBroadcastEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	return routeDistinct(r, (*rule.DataSource).InstanceKey), nil
}

// DataSourceGroupBroadcastEngine sends the statement once per data source group.
type DataSourceGroupBroadcastEngine struct{}

// NewDataSourceGroupBroadcastEngine creates the data source group broadcast engine.
func NewDataSourceGroupBroadcastEngine() *DataSourceGroupBroadcastEngine {
	return &DataSourceGroupBroadcastEngine{}
}

// Type returns the engine type.
func (e *DataSourceGroupBroadcastEngine) Type() EngineType {
	return EngineTypeDataSourceGroupBroadcast
}

// Route impl.
func (e *DataSourceGroupBroadcastEngine) Route(r *rule.ShardingRule) (*route.Context, error) {
	return routeDistinct(r, (*rule.DataSource).GroupKey), nil
}

// routeDistinct keeps the first data source of each key, in config order.
func routeDistinct(r *rule.ShardingRule, key func(*rule.DataSource) string) *route.Context {
	b := route.NewBuilder()
	seen := make(map[string]struct{})
	for _, name := range r.DataSourceNames() {
		k := name
		if ds, ok := r.DataSource(name); ok {
			k = key(ds)
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		b.AddDataSource(name)
	}
	return b.Build()
}
