/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package route

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shardroute/shardroute/rule"

	"github.com/xelabs/go-mysqlstack/sqlparser/depends/hack"
)

// Mapper maps a logical name to an actual name.
type Mapper struct {
	Logical string `json:"logical-name"`
	Actual  string `json:"actual-name"`
}

// Mappers represents the mapper slice.
type Mappers []Mapper

// Len impl.
func (m Mappers) Len() int { return len(m) }

// Swap impl.
func (m Mappers) Swap(i, j int) { m[i], m[j] = m[j], m[i] }

// Less impl.
func (m Mappers) Less(i, j int) bool {
	if m[i].Logical != m[j].Logical {
		return m[i].Logical < m[j].Logical
	}
	return m[i].Actual < m[j].Actual
}

// Unit is one data source and the actual tables the statement touches there.
type Unit struct {
	DataSource Mapper   `json:"data-source"`
	Tables     []Mapper `json:"tables,omitempty"`
}

// ActualTableNames returns the actual tables of the logical table in this unit.
func (u *Unit) ActualTableNames(logical string) []string {
	var names []string
	for _, m := range u.Tables {
		if m.Logical == logical {
			names = append(names, m.Actual)
		}
	}
	return names
}

// key identifies the unit by its data source and tables.
func (u *Unit) key() string {
	var buf strings.Builder
	buf.WriteString(u.DataSource.Logical)
	buf.WriteByte('/')
	buf.WriteString(u.DataSource.Actual)
	for _, m := range u.Tables {
		buf.WriteByte('|')
		buf.WriteString(m.Logical)
		buf.WriteByte('/')
		buf.WriteString(m.Actual)
	}
	return buf.String()
}

// Units represents the unit slice.
type Units []*Unit

// Len impl.
func (u Units) Len() int { return len(u) }

// Swap impl.
func (u Units) Swap(i, j int) { u[i], u[j] = u[j], u[i] }

// Less impl.
func (u Units) Less(i, j int) bool {
	a, b := u[i], u[j]
	if a.DataSource.Actual != b.DataSource.Actual {
		return a.DataSource.Actual < b.DataSource.Actual
	}
	if a.DataSource.Logical != b.DataSource.Logical {
		return a.DataSource.Logical < b.DataSource.Logical
	}
	for k := 0; k < len(a.Tables) && k < len(b.Tables); k++ {
		if a.Tables[k] != b.Tables[k] {
			return Mappers{a.Tables[k], b.Tables[k]}.Less(0, 1)
		}
	}
	return len(a.Tables) < len(b.Tables)
}

// Context is the routing result of one statement.
type Context struct {
	Units []*Unit `json:"route-units"`
	// OriginalDataNodes holds, per condition (per INSERT row), the data nodes it was routed to.
	OriginalDataNodes [][]rule.DataNode `json:"original-data-nodes,omitempty"`
	Federated         bool              `json:"federated,omitempty"`
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{Units: []*Unit{}}
}

// IsEmpty returns true if the statement hits no data source.
func (c *Context) IsEmpty() bool {
	return len(c.Units) == 0
}

// UnitsOf returns all units of the actual data source.
func (c *Context) UnitsOf(dataSource string) []*Unit {
	var units []*Unit
	for _, u := range c.Units {
		if u.DataSource.Actual == dataSource {
			units = append(units, u)
		}
	}
	return units
}

// DataSourceNames returns the distinct actual data sources in unit order.
func (c *Context) DataSourceNames() []string {
	names := make([]string, 0, len(c.Units))
	for i, u := range c.Units {
		if i == 0 || c.Units[i-1].DataSource.Actual != u.DataSource.Actual {
			names = append(names, u.DataSource.Actual)
		}
	}
	return names
}

// DataNodes returns the distinct (data source, actual table) pairs of the logical table.
func (c *Context) DataNodes(logical string) []rule.DataNode {
	var nodes []rule.DataNode
	seen := make(map[rule.DataNode]struct{})
	for _, u := range c.Units {
		for _, tbl := range u.ActualTableNames(logical) {
			node := rule.DataNode{DataSource: u.DataSource.Actual, Table: tbl}
			if _, ok := seen[node]; ok {
				continue
			}
			seen[node] = struct{}{}
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// JSON returns the explain string of the context.
func (c *Context) JSON() string {
	bout, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return err.Error()
	}
	return hack.String(bout)
}

// Builder assembles a context.
// AddUnit adds distinct units, AddTable merges the tables of one data source into one unit.
type Builder struct {
	units     []*Unit
	keys      map[string]struct{}
	grouped   map[Mapper]*Unit
	tables    map[Mapper]map[Mapper]struct{}
	nodes     [][]rule.DataNode
	federated bool
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		keys:    make(map[string]struct{}),
		grouped: make(map[Mapper]*Unit),
		tables:  make(map[Mapper]map[Mapper]struct{}),
	}
}

// AddUnit adds a unit of the data source with the tables, an identical unit is added once.
func (b *Builder) AddUnit(dataSource string, tables ...Mapper) {
	u := &Unit{DataSource: Mapper{Logical: dataSource, Actual: dataSource}}
	if len(tables) > 0 {
		u.Tables = append([]Mapper(nil), tables...)
		sort.Sort(Mappers(u.Tables))
	}
	k := u.key()
	if _, ok := b.keys[k]; ok {
		return
	}
	b.keys[k] = struct{}{}
	b.units = append(b.units, u)
}

func (b *Builder) group(ds Mapper) *Unit {
	u, ok := b.grouped[ds]
	if !ok {
		u = &Unit{DataSource: ds}
		b.grouped[ds] = u
		b.tables[ds] = make(map[Mapper]struct{})
		b.units = append(b.units, u)
	}
	return u
}

// AddDataSource adds a unit without tables, the logical and actual names are the same.
func (b *Builder) AddDataSource(name string) {
	b.group(Mapper{Logical: name, Actual: name})
}

// AddTable adds the actual table of the logical table to the unit of the data source.
func (b *Builder) AddTable(dataSource string, logical string, actual string) {
	ds := Mapper{Logical: dataSource, Actual: dataSource}
	u := b.group(ds)
	m := Mapper{Logical: logical, Actual: actual}
	if _, ok := b.tables[ds][m]; ok {
		return
	}
	b.tables[ds][m] = struct{}{}
	u.Tables = append(u.Tables, m)
}

// AddNode adds the data node of the logical table to the unit of its data source.
func (b *Builder) AddNode(logical string, node rule.DataNode) {
	b.AddTable(node.DataSource, logical, node.Table)
}

// AddOriginalDataNodes records the data nodes of the next condition.
func (b *Builder) AddOriginalDataNodes(nodes []rule.DataNode) {
	b.nodes = append(b.nodes, nodes)
}

// SetFederated marks the context as federated.
func (b *Builder) SetFederated() {
	b.federated = true
}

// Build returns the context, units sorted by data source then tables, tables sorted by name.
func (b *Builder) Build() *Context {
	ctx := NewContext()
	for _, u := range b.units {
		sort.Sort(Mappers(u.Tables))
		ctx.Units = append(ctx.Units, u)
	}
	sort.Sort(Units(ctx.Units))
	ctx.OriginalDataNodes = b.nodes
	ctx.Federated = b.federated
	return ctx
}
