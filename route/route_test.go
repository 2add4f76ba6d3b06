/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package route

import (
	"sort"
	"testing"

	"github.com/shardroute/shardroute/rule"

	"github.com/stretchr/testify/assert"
)

func TestMappersSort(t *testing.T) {
	m1 := Mapper{Logical: "t_order", Actual: "t_order_1"}
	m2 := Mapper{Logical: "t_order", Actual: "t_order_0"}
	m3 := Mapper{Logical: "t_item", Actual: "t_item_1"}
	mappers := []Mapper{m1, m2, m3}

	sort.Sort(Mappers(mappers))
	assert.Equal(t, []Mapper{m3, m2, m1}, mappers)
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.AddTable("ds_1", "t_order", "t_order_1")
	b.AddTable("ds_0", "t_order", "t_order_1")
	b.AddTable("ds_0", "t_order", "t_order_0")
	b.AddTable("ds_0", "t_order", "t_order_0")
	b.AddNode("t_order_item", rule.DataNode{DataSource: "ds_0", Table: "t_order_item_0"})
	b.AddDataSource("ds_2")
	ctx := b.Build()

	assert.Equal(t, []string{"ds_0", "ds_1", "ds_2"}, ctx.DataSourceNames())
	assert.False(t, ctx.IsEmpty())
	assert.False(t, ctx.Federated)

	assert.Equal(t, 1, len(ctx.UnitsOf("ds_0")))
	u := ctx.UnitsOf("ds_0")[0]
	assert.Equal(t, Mapper{Logical: "ds_0", Actual: "ds_0"}, u.DataSource)
	assert.Equal(t, []Mapper{
		{Logical: "t_order", Actual: "t_order_0"},
		{Logical: "t_order", Actual: "t_order_1"},
		{Logical: "t_order_item", Actual: "t_order_item_0"},
	}, u.Tables)
	assert.Equal(t, []string{"t_order_0", "t_order_1"}, u.ActualTableNames("t_order"))
	assert.Nil(t, ctx.UnitsOf("ds_2")[0].Tables)
	assert.Nil(t, ctx.UnitsOf("ds_3"))

	want := []rule.DataNode{
		{DataSource: "ds_0", Table: "t_order_0"},
		{DataSource: "ds_0", Table: "t_order_1"},
		{DataSource: "ds_1", Table: "t_order_1"},
	}
	assert.Equal(t, want, ctx.DataNodes("t_order"))
}

func TestBuilderAddUnit(t *testing.T) {
	b := NewBuilder()
	o1 := Mapper{Logical: "t_order", Actual: "t_order_1"}
	o0 := Mapper{Logical: "t_order", Actual: "t_order_0"}
	i1 := Mapper{Logical: "t_order_item", Actual: "t_order_item_1"}
	i0 := Mapper{Logical: "t_order_item", Actual: "t_order_item_0"}
	b.AddUnit("ds_1", i1, o1)
	b.AddUnit("ds_1", o1, i1)
	b.AddUnit("ds_0", o1, i1)
	b.AddUnit("ds_0", o0, i0)
	ctx := b.Build()

	assert.Equal(t, 3, len(ctx.Units))
	assert.Equal(t, []string{"ds_0", "ds_1"}, ctx.DataSourceNames())
	assert.Equal(t, []Mapper{o0, i0}, ctx.Units[0].Tables)
	assert.Equal(t, []Mapper{o1, i1}, ctx.Units[1].Tables)
	assert.Equal(t, []Mapper{o1, i1}, ctx.Units[2].Tables)
	assert.Equal(t, 2, len(ctx.UnitsOf("ds_0")))
	assert.Equal(t, ctx.Units[0], ctx.UnitsOf("ds_0")[0])

	want := []rule.DataNode{
		{DataSource: "ds_0", Table: "t_order_0"},
		{DataSource: "ds_0", Table: "t_order_1"},
		{DataSource: "ds_1", Table: "t_order_1"},
	}
	assert.Equal(t, want, ctx.DataNodes("t_order"))
}

func TestBuilderDeterministic(t *testing.T) {
	build := func() *Context {
		b := NewBuilder()
		for _, ds := range []string{"ds_3", "ds_1", "ds_2", "ds_0"} {
			for _, tbl := range []string{"t_1", "t_0"} {
				b.AddTable(ds, "t", tbl)
			}
		}
		b.SetFederated()
		return b.Build()
	}
	want := build()
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, build())
	}
	assert.True(t, want.Federated)
	assert.Equal(t, []string{"ds_0", "ds_1", "ds_2", "ds_3"}, want.DataSourceNames())
}

func TestContextEmpty(t *testing.T) {
	ctx := NewBuilder().Build()
	assert.True(t, ctx.IsEmpty())
	assert.Equal(t, 0, len(ctx.Units))
	assert.Equal(t, "{\n\t\"route-units\": []\n}", ctx.JSON())
}

func TestContextJSON(t *testing.T) {
	b := NewBuilder()
	b.AddTable("ds_1", "t_order", "t_order_1")
	b.AddOriginalDataNodes([]rule.DataNode{{DataSource: "ds_1", Table: "t_order_1"}})
	ctx := b.Build()
	assert.Equal(t, 1, len(ctx.Units))

	want := `{
	"route-units": [
		{
			"data-source": {
				"logical-name": "ds_1",
				"actual-name": "ds_1"
			},
			"tables": [
				{
					"logical-name": "t_order",
					"actual-name": "t_order_1"
				}
			]
		}
	],
	"original-data-nodes": [
		[
			{
				"data-source": "ds_1",
				"table": "t_order_1"
			}
		]
	]
}`
	assert.Equal(t, want, ctx.JSON())
}
