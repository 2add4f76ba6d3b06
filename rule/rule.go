/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package rule

import (
	"strings"

	"github.com/shardroute/shardroute/algorithm"
	"github.com/shardroute/shardroute/config"

	"github.com/pkg/errors"
	"github.com/xelabs/go-mysqlstack/sqldb"
	"github.com/xelabs/go-mysqlstack/xlog"
)

// DataSource tuple.
type DataSource struct {
	Name string `json:"name"`
	// Instance is the physical backend address, data sources on the same instance share it.
	Instance string `json:"instance,omitempty"`
	// Group is the replication family, data sources of one group hold the same data.
	Group string `json:"group,omitempty"`
}

// InstanceKey returns the instance, or the name when the instance is unknown.
func (ds *DataSource) InstanceKey() string {
	if ds.Instance != "" {
		return ds.Instance
	}
	return ds.Name
}

// GroupKey returns the group, or the name when the group is unknown.
func (ds *DataSource) GroupKey() string {
	if ds.Group != "" {
		return ds.Group
	}
	return ds.Name
}

// BindingTableRule is a group of tables that always co-locate.
// Tables[0] is the primary table.
type BindingTableRule struct {
	Tables []*TableRule `json:"-"`
}

// Names returns the table names of the binding group.
func (b *BindingTableRule) Names() []string {
	names := make([]string, 0, len(b.Tables))
	for _, t := range b.Tables {
		names = append(names, t.Name)
	}
	return names
}

// HasTable returns true if the table is in the binding group.
func (b *BindingTableRule) HasTable(name string) bool {
	for _, t := range b.Tables {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// BindingCoord maps a coordinate of table 'from' to the coordinate of table 'to'
// with the same data source name and the same shard index.
func (b *BindingTableRule) BindingCoord(from *TableRule, c Coord, to *TableRule) (Coord, error) {
	idx := from.ShardIndex(c)
	ds := from.DataSourceNames()[c.DataSource]
	bc, ok := to.CoordAt(ds, idx)
	if !ok {
		return Coord{}, errors.Errorf("rule.binding.table[%v].can't.find.node[%v].index[%d]", to.Name, ds, idx)
	}
	return bc, nil
}

// ShardingRule is the immutable rule of one logical schema.
type ShardingRule struct {
	Schema                   string                `json:"schema"`
	DataSources              []*DataSource         `json:"data-sources"`
	DefaultDataSource        string                `json:"default-data-source,omitempty"`
	Tables                   []*TableRule          `json:"tables"`
	BindingTables            [][]string            `json:"binding-tables,omitempty"`
	BroadcastTables          []string              `json:"broadcast-tables,omitempty"`
	UnconfiguredTables       map[string]string     `json:"unconfigured-tables,omitempty"`
	AllowCrossDataSourceJoin bool                  `json:"allow-cross-data-source-join"`
	conf                     *config.ShardingRuleConfig
	tables                   map[string]*TableRule
	bindings                 []*BindingTableRule
	broadcasts               map[string]struct{}
	dataSources              map[string]*DataSource
}

// Build creates the sharding rule from the config.
func Build(log *xlog.Log, conf *config.ShardingRuleConfig) (*ShardingRule, error) {
	if conf == nil {
		return nil, errors.New("rule.config.can't.be.nil")
	}
	r := &ShardingRule{
		Schema:                   conf.Schema,
		DefaultDataSource:        conf.DefaultDataSource,
		UnconfiguredTables:       make(map[string]string),
		AllowCrossDataSourceJoin: conf.AllowCrossDataSourceJoin,
		conf:                     conf,
		tables:                   make(map[string]*TableRule),
		broadcasts:               make(map[string]struct{}),
		dataSources:              make(map[string]*DataSource),
	}

	// Data sources.
	for _, dsc := range conf.DataSources {
		if dsc.Name == "" {
			return nil, errors.New("rule.data-source.name.can't.be.empty")
		}
		if _, ok := r.dataSources[dsc.Name]; ok {
			return nil, errors.Errorf("rule.data-source[%v].duplicate", dsc.Name)
		}
		ds := &DataSource{Name: dsc.Name, Instance: dsc.Instance, Group: dsc.Group}
		r.dataSources[ds.Name] = ds
		r.DataSources = append(r.DataSources, ds)
	}

	// Algorithms.
	algorithms := make(map[string]algorithm.Algorithm, len(conf.Algorithms))
	for name, ac := range conf.Algorithms {
		algo, err := algorithm.New(ac)
		if err != nil {
			log.Error("rule.algorithm[%v].build.error:%+v", name, err)
			return nil, errors.WithMessage(err, "rule.algorithm["+name+"]")
		}
		algorithms[name] = algo
	}

	// Tables.
	for _, tc := range conf.Tables {
		table, err := r.buildTable(tc, algorithms)
		if err != nil {
			log.Error("rule.table[%v].build.error:%+v", tc.Name, err)
			return nil, err
		}
		key := strings.ToLower(table.Name)
		if _, ok := r.tables[key]; ok {
			return nil, errors.Errorf("rule.table[%v].duplicate", table.Name)
		}
		r.tables[key] = table
		r.Tables = append(r.Tables, table)
	}

	// Binding groups.
	for _, names := range conf.BindingTables {
		binding, err := r.buildBinding(names)
		if err != nil {
			return nil, err
		}
		r.bindings = append(r.bindings, binding)
		r.BindingTables = append(r.BindingTables, binding.Names())
	}

	// Broadcast tables.
	for _, name := range conf.BroadcastTables {
		key := strings.ToLower(name)
		if _, ok := r.tables[key]; ok {
			return nil, errors.Errorf("rule.broadcast.table[%v].is.sharding.table", name)
		}
		if _, ok := r.broadcasts[key]; !ok {
			r.broadcasts[key] = struct{}{}
			r.BroadcastTables = append(r.BroadcastTables, name)
		}
	}
	if len(r.broadcasts) > 0 && len(r.DataSources) == 0 {
		return nil, errors.New("rule.broadcast.tables.need.data-sources")
	}

	// Unconfigured tables.
	for name, ds := range conf.UnconfiguredTables {
		if err := r.checkDataSource(ds); err != nil {
			return nil, errors.WithMessage(err, "rule.unconfigured.table["+name+"]")
		}
		r.UnconfiguredTables[strings.ToLower(name)] = ds
	}
	if conf.DefaultDataSource != "" {
		if err := r.checkDataSource(conf.DefaultDataSource); err != nil {
			return nil, errors.WithMessage(err, "rule.default.data-source")
		}
	}
	log.Info("rule.build.schema[%v].tables[%d].bindings[%d].broadcasts[%d].done", r.Schema, len(r.Tables), len(r.bindings), len(r.BroadcastTables))
	return r, nil
}

func (r *ShardingRule) checkDataSource(name string) error {
	if len(r.dataSources) == 0 {
		return nil
	}
	if _, ok := r.dataSources[name]; !ok {
		return errors.Errorf("rule.data-source[%v].not.found", name)
	}
	return nil
}

func (r *ShardingRule) buildTable(tc *config.TableConfig, algorithms map[string]algorithm.Algorithm) (*TableRule, error) {
	if tc == nil || tc.Name == "" {
		return nil, errors.New("rule.table.name.can't.be.empty")
	}

	var nodes []DataNode
	if len(tc.ActualDataNodes) == 0 {
		// One node per data source, the actual name is the logical name.
		for _, ds := range r.DataSources {
			nodes = append(nodes, DataNode{DataSource: ds.Name, Table: tc.Name})
		}
	}
	for _, expr := range tc.ActualDataNodes {
		expanded, err := ExpandInline(expr)
		if err != nil {
			return nil, err
		}
		for _, s := range expanded {
			idx := strings.Index(s, ".")
			if idx <= 0 || idx == len(s)-1 {
				return nil, errors.Errorf("rule.table[%v].node[%v].invalid", tc.Name, s)
			}
			node := DataNode{DataSource: s[:idx], Table: s[idx+1:]}
			if err := r.checkDataSource(node.DataSource); err != nil {
				return nil, errors.WithMessage(err, "rule.table["+tc.Name+"]")
			}
			nodes = append(nodes, node)
		}
	}
	if len(nodes) == 0 {
		return nil, errors.Errorf("rule.table[%v].data.nodes.can't.be.empty", tc.Name)
	}

	dbConf, tblConf := tc.DatabaseStrategy, tc.TableStrategy
	if dbConf == nil {
		dbConf = r.conf.DefaultDatabaseStrategy
	}
	if tblConf == nil {
		tblConf = r.conf.DefaultTableStrategy
	}
	dbStrategy, err := buildStrategy(dbConf, algorithms)
	if err != nil {
		return nil, errors.WithMessage(err, "rule.table["+tc.Name+"].database")
	}
	tblStrategy, err := buildStrategy(tblConf, algorithms)
	if err != nil {
		return nil, errors.WithMessage(err, "rule.table["+tc.Name+"].table")
	}
	return newTableRule(tc.Name, nodes, dbStrategy, tblStrategy)
}

func (r *ShardingRule) buildBinding(names []string) (*BindingTableRule, error) {
	if len(names) < 2 {
		return nil, errors.Errorf("rule.binding%v.needs.at.least.two.tables", names)
	}
	binding := &BindingTableRule{}
	for _, name := range names {
		table, ok := r.tables[strings.ToLower(name)]
		if !ok {
			return nil, errors.Errorf("rule.binding.table[%v].not.sharding.table", name)
		}
		if r.bindingRule(name) != nil {
			return nil, errors.Errorf("rule.binding.table[%v].already.bound", name)
		}
		binding.Tables = append(binding.Tables, table)
	}

	// Every bound table has the same data sources and the same number of tables at each.
	primary := binding.Tables[0]
	for _, table := range binding.Tables[1:] {
		if len(table.dataSources) != len(primary.dataSources) {
			return nil, errors.Errorf("rule.binding.table[%v].data-sources.mismatch.with[%v]", table.Name, primary.Name)
		}
		for i, ds := range primary.dataSources {
			j := table.DataSourceIndex(ds)
			if j < 0 || len(table.tablesAt[j]) != len(primary.tablesAt[i]) {
				return nil, errors.Errorf("rule.binding.table[%v].data-source[%v].mismatch.with[%v]", table.Name, ds, primary.Name)
			}
		}
	}
	return binding, nil
}

// Config returns the config the rule was built from.
func (r *ShardingRule) Config() *config.ShardingRuleConfig {
	return r.conf
}

// TableRule returns the table rule of the logical table.
func (r *ShardingRule) TableRule(name string) (*TableRule, bool) {
	t, ok := r.tables[strings.ToLower(name)]
	return t, ok
}

// FindTableRule returns the table rule, ER_NO_SUCH_TABLE if not configured.
func (r *ShardingRule) FindTableRule(name string) (*TableRule, error) {
	if t, ok := r.TableRule(name); ok {
		return t, nil
	}
	return nil, sqldb.NewSQLError(sqldb.ER_NO_SUCH_TABLE, name)
}

// IsShardingTable returns true if the table has a table rule.
func (r *ShardingRule) IsShardingTable(name string) bool {
	_, ok := r.TableRule(name)
	return ok
}

// IsBroadcastTable returns true if the table is a broadcast table.
func (r *ShardingRule) IsBroadcastTable(name string) bool {
	_, ok := r.broadcasts[strings.ToLower(name)]
	return ok
}

// IsAllBroadcastTables returns true if names is not empty and every table is broadcast.
func (r *ShardingRule) IsAllBroadcastTables(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if !r.IsBroadcastTable(name) {
			return false
		}
	}
	return true
}

// ShardingTableNames returns the sharding tables among names.
func (r *ShardingRule) ShardingTableNames(names []string) []string {
	var out []string
	for _, name := range names {
		if r.IsShardingTable(name) {
			out = append(out, name)
		}
	}
	return out
}

// IsAllShardingTablesAbsent returns true if none of the tables is a sharding or broadcast table.
func (r *ShardingRule) IsAllShardingTablesAbsent(names []string) bool {
	for _, name := range names {
		if r.IsShardingTable(name) || r.IsBroadcastTable(name) {
			return false
		}
	}
	return true
}

func (r *ShardingRule) bindingRule(name string) *BindingTableRule {
	for _, b := range r.bindings {
		if b.HasTable(name) {
			return b
		}
	}
	return nil
}

// BindingRule returns the binding group of the table, nil if unbound.
func (r *ShardingRule) BindingRule(name string) *BindingTableRule {
	return r.bindingRule(name)
}

// IsAllBindingTables returns true if every table belongs to one binding group.
func (r *ShardingRule) IsAllBindingTables(names []string) bool {
	if len(names) == 0 {
		return false
	}
	binding := r.bindingRule(names[0])
	if binding == nil {
		return false
	}
	for _, name := range names[1:] {
		if !binding.HasTable(name) {
			return false
		}
	}
	return true
}

// IsBound returns true if both tables are the same or in one binding group.
func (r *ShardingRule) IsBound(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	binding := r.bindingRule(a)
	return binding != nil && binding.HasTable(b)
}

// IsShardingColumn returns true if the column shards the table.
func (r *ShardingRule) IsShardingColumn(table, column string) bool {
	t, ok := r.TableRule(table)
	return ok && t.IsShardingColumn(column)
}

// DataSource returns the named data source.
func (r *ShardingRule) DataSource(name string) (*DataSource, bool) {
	ds, ok := r.dataSources[name]
	return ds, ok
}

// DataSourceNames returns all data source names in config order.
// Without configured data sources, the names are collected from the table rules.
func (r *ShardingRule) DataSourceNames() []string {
	var names []string
	if len(r.DataSources) > 0 {
		for _, ds := range r.DataSources {
			names = append(names, ds.Name)
		}
		return names
	}
	seen := make(map[string]struct{})
	for _, t := range r.Tables {
		for _, ds := range t.DataSourceNames() {
			if _, ok := seen[ds]; !ok {
				seen[ds] = struct{}{}
				names = append(names, ds)
			}
		}
	}
	return names
}

// UnconfiguredDataSource returns the home data source of a table without rule.
func (r *ShardingRule) UnconfiguredDataSource(name string) (string, error) {
	if ds, ok := r.UnconfiguredTables[strings.ToLower(name)]; ok {
		return ds, nil
	}
	if r.DefaultDataSource != "" {
		return r.DefaultDataSource, nil
	}
	return "", sqldb.NewSQLError(sqldb.ER_NO_SUCH_TABLE, name)
}

