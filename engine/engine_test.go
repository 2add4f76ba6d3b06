/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package engine

import (
	"strings"
	"testing"

	"github.com/shardroute/shardroute/condition"
	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/hint"
	"github.com/shardroute/shardroute/route"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/statement"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
	"github.com/xelabs/go-mysqlstack/xlog"
)

func mockRule() *rule.ShardingRule {
	log := xlog.NewStdLog(xlog.Level(xlog.PANIC))
	return rule.MockShardingRule(log)
}

func mockRuleWith(fn func(conf *config.ShardingRuleConfig)) *rule.ShardingRule {
	log := xlog.NewStdLog(xlog.Level(xlog.PANIC))
	return rule.MockShardingRuleWith(log, fn)
}

func selectEngine(t *testing.T, r *rule.ShardingRule, query string, hints *hint.Values, params ...sqltypes.Value) Engine {
	stmt, err := statement.Parse("sharding_db", query, params)
	assert.Nil(t, err, query)
	conds := condition.Extract(r, stmt)
	if condition.NeedMerge(r, stmt) {
		conds, err = condition.Merge(r, stmt, conds, hints)
		assert.Nil(t, err, query)
	}
	return Select(r, stmt, conds, hints)
}

func routeQuery(t *testing.T, r *rule.ShardingRule, query string, hints *hint.Values, params ...sqltypes.Value) (*route.Context, error) {
	return selectEngine(t, r, query, hints, params...).Route(r)
}

func mapper(logical, actual string) route.Mapper {
	return route.Mapper{Logical: logical, Actual: actual}
}

func unit(ds string, tables ...route.Mapper) *route.Unit {
	return &route.Unit{DataSource: mapper(ds, ds), Tables: tables}
}

func TestStandardEngine(t *testing.T) {
	r := mockRule()

	// order_id mod 2 = 1 on both dimensions.
	{
		ctx, err := routeQuery(t, r, "select * from t_order where order_id = 3", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_order", "t_order_1"))}, ctx.Units)
		assert.Equal(t, [][]rule.DataNode{{{DataSource: "ds_1", Table: "t_order_1"}}}, ctx.OriginalDataNodes)
		assert.False(t, ctx.Federated)
	}

	// Both dimensions resolve to all.
	{
		ctx, err := routeQuery(t, r, "select * from t_order", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_0", mapper("t_order", "t_order_0")),
			unit("ds_0", mapper("t_order", "t_order_1")),
			unit("ds_1", mapper("t_order", "t_order_0")),
			unit("ds_1", mapper("t_order", "t_order_1")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	// Dimensions are evaluated independently, then crossed.
	{
		ctx, err := routeQuery(t, r, "select * from t_order where order_id in (1, 2)", nil)
		assert.Nil(t, err)
		assert.Equal(t, 4, len(ctx.Units))
	}

	{
		ctx, err := routeQuery(t, r, "select * from t_order where order_id between 5 and 5", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_order", "t_order_1"))}, ctx.Units)
	}

	{
		ctx, err := routeQuery(t, r, "update t_order set status = 1 where order_id = ?", nil, sqltypes.NewInt64(4))
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0", mapper("t_order", "t_order_0"))}, ctx.Units)
	}

	// Inline.
	{
		ctx, err := routeQuery(t, r, "delete from t_user where user_id = 3", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_user", "t_user_1"))}, ctx.Units)
	}

	// BIGINT keys through the inline expression.
	{
		ctx, err := routeQuery(t, r, "select * from t_user where user_id = 1700000000000000001", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_user", "t_user_1"))}, ctx.Units)

		ctx, err = routeQuery(t, r, "select * from t_order where order_id = 1700000000000000001", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_order", "t_order_1"))}, ctx.Units)
	}

	// A union branch without sharding value hits every node.
	{
		ctx, err := routeQuery(t, r, "select * from t_order where order_id = 3 union all select * from t_order", nil)
		assert.Nil(t, err)
		assert.Equal(t, 4, len(ctx.Units))

		ctx, err = routeQuery(t, r, "select * from t_order where order_id = 3 union all select * from t_order where order_id = 4", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_0", mapper("t_order", "t_order_0")),
			unit("ds_1", mapper("t_order", "t_order_1")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	// Complex strategy on the table dimension, none on the database.
	{
		ctx, err := routeQuery(t, r, "select * from t_status where user_id = 1 and status = 2", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0", mapper("t_status", "t_status_1"))}, ctx.Units)

		ctx, err = routeQuery(t, r, "select * from t_status where user_id = 1", nil)
		assert.Nil(t, err)
		assert.Equal(t, 2, len(ctx.Units))
	}
}

func TestStandardEngineBinding(t *testing.T) {
	r := mockRule()

	{
		ctx, err := routeQuery(t, r, "select * from t_order o join t_order_item i on o.order_id = i.order_id where o.order_id = 5", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_1", mapper("t_order", "t_order_1"), mapper("t_order_item", "t_order_item_1")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	// Every unit carries the same shard index of both tables.
	{
		ctx, err := routeQuery(t, r, "select * from t_order o join t_order_item i on o.order_id = i.order_id", nil)
		assert.Nil(t, err)
		assert.Equal(t, 4, len(ctx.Units))
		for _, u := range ctx.Units {
			orders := u.ActualTableNames("t_order")
			items := u.ActualTableNames("t_order_item")
			assert.Equal(t, 1, len(orders))
			assert.Equal(t, 1, len(items))
			assert.Equal(t, strings.TrimPrefix(orders[0], "t_order_"), strings.TrimPrefix(items[0], "t_order_item_"))
		}
	}

	// The value of a bound table routes the group.
	{
		ctx, err := routeQuery(t, r, "select * from t_order o join t_order_item i on o.order_id = i.order_id where i.order_id = 2", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_0", mapper("t_order", "t_order_0"), mapper("t_order_item", "t_order_item_0")),
		}
		assert.Equal(t, want, ctx.Units)
	}
}

func TestStandardEngineBindingColumns(t *testing.T) {
	r := mockRuleWith(func(conf *config.ShardingRuleConfig) {
		conf.Tables[1].DatabaseStrategy.ShardingColumn = "item_order_id"
		conf.Tables[1].TableStrategy.ShardingColumn = "item_order_id"
	})

	// The group is routed from t_order, the value is read under t_order_item's own column.
	{
		ctx, err := routeQuery(t, r, "select * from t_order_item where item_order_id = 3", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_order_item", "t_order_item_1"))}, ctx.Units)
	}

	{
		ctx, err := routeQuery(t, r, "select * from t_order o join t_order_item i on o.order_id = i.item_order_id where i.item_order_id = 2", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_0", mapper("t_order", "t_order_0"), mapper("t_order_item", "t_order_item_0")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	// order_id doesn't shard t_order_item anymore.
	{
		ctx, err := routeQuery(t, r, "select * from t_order_item where order_id = 3", nil)
		assert.Nil(t, err)
		assert.Equal(t, 4, len(ctx.Units))
	}
}

func TestStandardEngineInsert(t *testing.T) {
	r := mockRule()

	ctx, err := routeQuery(t, r, "insert into t_order(order_id, user_id) values(1, 1), (2, 2), (?, 3)", nil, sqltypes.NewInt64(3))
	assert.Nil(t, err)
	want := []*route.Unit{
		unit("ds_0", mapper("t_order", "t_order_0")),
		unit("ds_1", mapper("t_order", "t_order_1")),
	}
	assert.Equal(t, want, ctx.Units)

	// Row i keeps its own data node.
	nodes := [][]rule.DataNode{
		{{DataSource: "ds_1", Table: "t_order_1"}},
		{{DataSource: "ds_0", Table: "t_order_0"}},
		{{DataSource: "ds_1", Table: "t_order_1"}},
	}
	assert.Equal(t, nodes, ctx.OriginalDataNodes)

	// Row without sharding value hits every node.
	ctx, err = routeQuery(t, r, "insert into t_order(order_id) values(1), (now())", nil)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(ctx.Units))
	assert.Equal(t, 1, len(ctx.OriginalDataNodes[0]))
	assert.Equal(t, 4, len(ctx.OriginalDataNodes[1]))
}

func TestStandardEngineHint(t *testing.T) {
	r := mockRule()

	{
		hints := hint.NewValues().
			AddDatabaseValue("t_hint", sqltypes.NewInt64(1)).
			AddTableValue("t_hint", sqltypes.NewInt64(0))
		ctx, err := routeQuery(t, r, "select * from t_hint where id = 1", hints)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_hint", "t_hint_0"))}, ctx.Units)
	}

	{
		hints := hint.NewValues().AddDatabaseValue("t_hint", sqltypes.NewInt64(1))
		_, err := routeQuery(t, r, "select * from t_hint", hints)
		assert.Equal(t, hint.ErrHintValueMissing, errors.Cause(err))
		assert.Equal(t, "table[t_hint]: hint.value.missing", err.Error())
	}

	{
		_, err := routeQuery(t, r, "select * from t_hint", nil)
		assert.Equal(t, hint.ErrHintValueMissing, errors.Cause(err))
	}
}

func TestAlwaysFalse(t *testing.T) {
	r := mockRule()

	queries := []string{
		"select * from t_order where order_id = 1 and order_id = 2",
		"delete from t_order where order_id in (1, 3) and order_id = 2",
		"select * from t_user where user_id > 3 and user_id < 2",
		"select * from t_order where order_id between 30 and 5",
	}
	for _, query := range queries {
		e := selectEngine(t, r, query, nil)
		assert.Equal(t, EngineTypeUnicast, e.Type(), query)
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.True(t, ctx.IsEmpty(), query)
	}

	// Pruned to nothing by the standard engine.
	ctx, err := NewStandardEngine([]string{"t_order"}, &condition.Conditions{
		Conditions: []*condition.Condition{{AlwaysFalse: true}},
	}, nil).Route(r)
	assert.Nil(t, err)
	assert.True(t, ctx.IsEmpty())
	assert.Equal(t, [][]rule.DataNode{{}}, ctx.OriginalDataNodes)
}

func TestComplexEngine(t *testing.T) {
	r := mockRule()

	{
		ctx, err := routeQuery(t, r, "select * from t_order o join t_user u on o.order_id = u.user_id where o.order_id = 3 and u.user_id = 1", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_1", mapper("t_order", "t_order_1"), mapper("t_user", "t_user_1")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	// No shared data source.
	{
		ctx, err := routeQuery(t, r, "select * from t_order o join t_user u on o.order_id = u.user_id where o.order_id = 3 and u.user_id = 2", nil)
		assert.Nil(t, err)
		assert.True(t, ctx.IsEmpty())
	}

	// 2 x 2 combinations in each data source.
	{
		ctx, err := routeQuery(t, r, "select * from t_order, t_user", nil)
		assert.Nil(t, err)
		assert.Equal(t, 8, len(ctx.Units))
		assert.Equal(t, 4, len(ctx.UnitsOf("ds_0")))
		want := unit("ds_0", mapper("t_order", "t_order_0"), mapper("t_user", "t_user_0"))
		assert.Equal(t, want, ctx.Units[0])
	}

	// Binding group joined with another table.
	{
		ctx, err := routeQuery(t, r, "select * from t_order o join t_order_item i on o.order_id = i.order_id join t_user u on o.order_id = u.user_id where o.order_id = 1 and u.user_id = 3", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_1", mapper("t_order", "t_order_1"), mapper("t_order_item", "t_order_item_1"), mapper("t_user", "t_user_1")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	// Cross data source join allowed: federation.
	{
		r := mockRuleWith(func(conf *config.ShardingRuleConfig) {
			conf.AllowCrossDataSourceJoin = true
		})
		e := selectEngine(t, r, "select * from t_order o join t_user u on o.order_id = u.user_id where o.order_id = 3 and u.user_id = 2", nil)
		assert.Equal(t, EngineTypeComplex, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.Equal(t, EngineTypeFederated, e.Type())
		assert.True(t, ctx.Federated)
		assert.Equal(t, 2, len(ctx.Units))
		assert.Equal(t, 4, len(ctx.Units[0].Tables))

		// Same data sources stay complex.
		ctx, err = routeQuery(t, r, "select * from t_order o join t_user u on o.order_id = u.user_id where o.order_id = 3 and u.user_id = 1", nil)
		assert.Nil(t, err)
		assert.False(t, ctx.Federated)
		assert.Equal(t, 1, len(ctx.Units))
	}
}

func TestFederatedEngine(t *testing.T) {
	r := mockRule()

	queries := []string{
		"select * from t_order o join t_user u on o.user_id = u.user_id",
		"select * from t_order where user_id in (select user_id from t_user where user_id = 1)",
	}
	for _, query := range queries {
		e := selectEngine(t, r, query, nil)
		assert.Equal(t, EngineTypeFederated, e.Type(), query)
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.True(t, ctx.Federated)
		want := []*route.Unit{
			unit("ds_0", mapper("t_order", "t_order_0"), mapper("t_order", "t_order_1"), mapper("t_user", "t_user_0"), mapper("t_user", "t_user_1")),
			unit("ds_1", mapper("t_order", "t_order_0"), mapper("t_order", "t_order_1"), mapper("t_user", "t_user_0"), mapper("t_user", "t_user_1")),
		}
		assert.Equal(t, want, ctx.Units, query)
	}

	// No table.
	ctx, err := NewFederatedEngine(nil).Route(r)
	assert.Nil(t, err)
	assert.True(t, ctx.Federated)
	assert.True(t, ctx.IsEmpty())
}

func TestBroadcastEngines(t *testing.T) {
	r := mockRule()

	// Every shard of the table, grouped by data source.
	{
		e := selectEngine(t, r, "create table t_order(a int)", nil)
		assert.Equal(t, EngineTypeTableBroadcast, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_0", mapper("t_order", "t_order_0"), mapper("t_order", "t_order_1")),
			unit("ds_1", mapper("t_order", "t_order_0"), mapper("t_order", "t_order_1")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	{
		ctx, err := routeQuery(t, r, "create table t_config(a int)", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_0", mapper("t_config", "t_config")),
			unit("ds_1", mapper("t_config", "t_config")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	{
		ctx, err := routeQuery(t, r, "create table t_single(a int)", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_single", "t_single"))}, ctx.Units)

		ctx, err = routeQuery(t, r, "create table t_other(a int)", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0", mapper("t_other", "t_other"))}, ctx.Units)
	}

	{
		ctx, err := NewTableBroadcastEngine(nil).Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0"), unit("ds_1")}, ctx.Units)
	}

	{
		e := selectEngine(t, r, "commit", nil)
		assert.Equal(t, EngineTypeDatabaseBroadcast, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0"), unit("ds_1")}, ctx.Units)
	}

	// Writes to broadcast tables reach every data source.
	{
		e := selectEngine(t, r, "insert into t_config(id) values(1)", nil)
		assert.Equal(t, EngineTypeDatabaseBroadcast, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.Equal(t, 2, len(ctx.Units))
	}
}

func TestInstanceAndGroupBroadcast(t *testing.T) {
	r := mockRuleWith(func(conf *config.ShardingRuleConfig) {
		conf.DataSources = append(conf.DataSources,
			&config.DataSourceConfig{Name: "ds_2", Instance: "192.168.0.1:3306", Group: "group_2"},
			&config.DataSourceConfig{Name: "ds_3", Instance: "192.168.0.3:3306", Group: "group_1"},
		)
	})

	{
		e := selectEngine(t, r, "grant all on *.* to u", nil)
		assert.Equal(t, EngineTypeInstanceBroadcast, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []string{"ds_0", "ds_1", "ds_3"}, ctx.DataSourceNames())
	}

	{
		e := selectEngine(t, r, "show tables", nil)
		assert.Equal(t, EngineTypeDataSourceGroupBroadcast, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []string{"ds_0", "ds_1", "ds_2"}, ctx.DataSourceNames())
	}

	{
		ctx, err := NewDatabaseBroadcastEngine().Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []string{"ds_0", "ds_1", "ds_2", "ds_3"}, ctx.DataSourceNames())
	}
}

func TestUnicastEngine(t *testing.T) {
	r := mockRule()

	// Stable for statements without table.
	{
		stmt, err := statement.Parse("sharding_db", "show tables", nil)
		assert.Nil(t, err)
		for i := 0; i < 10; i++ {
			ctx, err := NewUnicastEngine(stmt.Tables, false).Route(r)
			assert.Nil(t, err)
			assert.Equal(t, []*route.Unit{unit("ds_0")}, ctx.Units)
		}
	}

	{
		e := selectEngine(t, r, "show create table t_order", nil)
		assert.Equal(t, EngineTypeUnicast, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0", mapper("t_order", "t_order_0"))}, ctx.Units)
	}

	{
		e := selectEngine(t, r, "select * from t_config c join t_user u on c.id = u.id", nil)
		assert.Equal(t, EngineTypeStandard, e.Type())

		ctx, err := routeQuery(t, r, "select * from t_config", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0", mapper("t_config", "t_config"))}, ctx.Units)
	}

	{
		ctx, err := NewUnicastEngine([]string{"t_config", "t_single"}, false).Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_config", "t_config"), mapper("t_single", "t_single"))}, ctx.Units)
	}

	{
		_, err := NewUnicastEngine([]string{"t_status", "t_single"}, false).Route(r)
		assert.NotNil(t, err)
		assert.Equal(t, "engine.unicast.tables[t_status t_single].have.no.common.data.source", err.Error())
	}

	{
		ctx, err := routeQuery(t, r, "select 1", nil)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_0")}, ctx.Units)
	}
}

func TestUnconfiguredEngine(t *testing.T) {
	r := mockRule()

	{
		e := selectEngine(t, r, "select * from t_single s join t_config c on s.id = c.id", nil)
		assert.Equal(t, EngineTypeUnconfigured, e.Type())
		ctx, err := e.Route(r)
		assert.Nil(t, err)
		assert.Equal(t, []*route.Unit{unit("ds_1", mapper("t_config", "t_config"), mapper("t_single", "t_single"))}, ctx.Units)
	}

	{
		ctx, err := routeQuery(t, r, "select * from t_single, t_other", nil)
		assert.Nil(t, err)
		want := []*route.Unit{
			unit("ds_0", mapper("t_other", "t_other")),
			unit("ds_1", mapper("t_single", "t_single")),
		}
		assert.Equal(t, want, ctx.Units)
	}

	{
		r := mockRuleWith(func(conf *config.ShardingRuleConfig) {
			conf.DefaultDataSource = ""
		})
		_, err := routeQuery(t, r, "select * from t_other", nil)
		assert.Equal(t, "Table 't_other' doesn't exist (errno 1146) (sqlstate 42S02)", err.Error())
	}

	{
		_, err := NewUnconfiguredEngine([]string{"t_order"}).Route(r)
		assert.Equal(t, "engine.unconfigured.table[t_order].is.sharding.table", err.Error())
	}
}

func TestIgnoreEngine(t *testing.T) {
	r := mockRule()

	e := selectEngine(t, r, "use sharding_db", nil)
	assert.Equal(t, EngineTypeIgnore, e.Type())
	ctx, err := e.Route(r)
	assert.Nil(t, err)
	assert.True(t, ctx.IsEmpty())
}

func TestDeterministic(t *testing.T) {
	r := mockRule()

	queries := []string{
		"select * from t_order",
		"select * from t_order where order_id in (1, 2, 3)",
		"insert into t_order(order_id) values(1), (2), (3)",
		"select * from t_order, t_user",
		"select * from t_order o join t_user u on o.user_id = u.user_id",
		"create table t_order(a int)",
		"show tables",
	}
	for _, query := range queries {
		want, err := routeQuery(t, r, query, nil)
		assert.Nil(t, err)
		for i := 0; i < 5; i++ {
			got, err := routeQuery(t, r, query, nil)
			assert.Nil(t, err)
			assert.Equal(t, want, got, query)
			assert.Equal(t, want.JSON(), got.JSON(), query)
		}
	}
}

func TestSubsetOfDataNodes(t *testing.T) {
	r := mockRule()

	queries := []string{
		"select * from t_order",
		"select * from t_order where order_id = 7",
		"select * from t_order where order_id > 10",
		"select * from t_order o join t_order_item i on o.order_id = i.order_id where o.order_id in (4, 9)",
		"select * from t_order, t_user where user_id = 5",
		"select * from t_status where user_id in (1, 2) and status = 1",
		"insert into t_user(user_id) values(1), (2)",
	}
	for _, query := range queries {
		ctx, err := routeQuery(t, r, query, nil)
		assert.Nil(t, err)
		assert.False(t, ctx.IsEmpty(), query)
		for _, u := range ctx.Units {
			for _, m := range u.Tables {
				tr, ok := r.TableRule(m.Logical)
				assert.True(t, ok)
				node := rule.DataNode{DataSource: u.DataSource.Actual, Table: m.Actual}
				assert.Contains(t, tr.DataNodes, node, query)
			}
		}
	}
}
