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
)

// StrategyKind type.
type StrategyKind string

const (
	// KindNone routes to all targets.
	KindNone StrategyKind = "NONE"
	// KindStandard shards by one column.
	KindStandard StrategyKind = "STANDARD"
	// KindComplex shards by several columns.
	KindComplex StrategyKind = "COMPLEX"
	// KindHint shards by hint values.
	KindHint StrategyKind = "HINT"
)

// DataNode is one actual table at one data source.
type DataNode struct {
	DataSource string `json:"data-source"`
	Table      string `json:"table"`
}

func (n DataNode) String() string {
	return n.DataSource + "." + n.Table
}

// Coord is the integer coordinate of a data node inside its table rule.
type Coord struct {
	DataSource int
	Table      int
}

// Strategy tuple.
type Strategy struct {
	Kind          StrategyKind        `json:"type"`
	Columns       []string            `json:"sharding-columns,omitempty"`
	AlgorithmName string              `json:"algorithm,omitempty"`
	Algorithm     algorithm.Algorithm `json:"-"`
}

// noneStrategy is shared by every table without a strategy.
var noneStrategy = &Strategy{Kind: KindNone}

// HasColumn returns true if the column is a sharding column of the strategy.
func (s *Strategy) HasColumn(column string) bool {
	for _, c := range s.Columns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

func buildStrategy(conf *config.StrategyConfig, algorithms map[string]algorithm.Algorithm) (*Strategy, error) {
	if conf == nil {
		return noneStrategy, nil
	}
	kind := StrategyKind(strings.ToUpper(conf.Type))
	if kind == "" || kind == KindNone {
		return noneStrategy, nil
	}

	s := &Strategy{Kind: kind, AlgorithmName: conf.Algorithm}
	algo, ok := algorithms[conf.Algorithm]
	if !ok {
		return nil, errors.Errorf("rule.strategy.algorithm[%v].not.found", conf.Algorithm)
	}
	s.Algorithm = algo

	switch kind {
	case KindStandard:
		if conf.ShardingColumn == "" {
			return nil, errors.New("rule.strategy.standard.sharding-column.can't.be.empty")
		}
		if _, ok := algo.(algorithm.StandardAlgorithm); !ok {
			return nil, errors.Errorf("rule.strategy.standard.algorithm[%v].type[%v].mismatch", conf.Algorithm, algo.Type())
		}
		s.Columns = []string{strings.ToLower(conf.ShardingColumn)}
	case KindComplex:
		if len(conf.ShardingColumns) == 0 {
			return nil, errors.New("rule.strategy.complex.sharding-columns.can't.be.empty")
		}
		if _, ok := algo.(algorithm.ComplexAlgorithm); !ok {
			return nil, errors.Errorf("rule.strategy.complex.algorithm[%v].type[%v].mismatch", conf.Algorithm, algo.Type())
		}
		for _, c := range conf.ShardingColumns {
			s.Columns = append(s.Columns, strings.ToLower(c))
		}
	case KindHint:
		if _, ok := algo.(algorithm.HintAlgorithm); !ok {
			return nil, errors.Errorf("rule.strategy.hint.algorithm[%v].type[%v].mismatch", conf.Algorithm, algo.Type())
		}
	default:
		return nil, errors.Errorf("rule.strategy.unsupported.type[%v]", conf.Type)
	}
	return s, nil
}

// TableRule is the physical layout of one logical table.
type TableRule struct {
	Name             string     `json:"name"`
	DataNodes        []DataNode `json:"actual-data-nodes"`
	DatabaseStrategy *Strategy  `json:"database-strategy"`
	TableStrategy    *Strategy  `json:"table-strategy"`

	// Distinct names in first appearance order, the coordinate spaces of coords.
	dataSources []string
	tables      []string
	coords      []Coord
	// tables of each data source in DataNodes order, indexed by data source coordinate.
	tablesAt [][]int
}

func newTableRule(name string, nodes []DataNode, dbStrategy, tblStrategy *Strategy) (*TableRule, error) {
	t := &TableRule{
		Name:             name,
		DataNodes:        nodes,
		DatabaseStrategy: dbStrategy,
		TableStrategy:    tblStrategy,
	}
	seen := make(map[Coord]struct{}, len(nodes))
	dsIdx := make(map[string]int)
	tblIdx := make(map[string]int)
	for _, node := range nodes {
		ds, ok := dsIdx[node.DataSource]
		if !ok {
			ds = len(t.dataSources)
			dsIdx[node.DataSource] = ds
			t.dataSources = append(t.dataSources, node.DataSource)
			t.tablesAt = append(t.tablesAt, nil)
		}
		tbl, ok := tblIdx[node.Table]
		if !ok {
			tbl = len(t.tables)
			tblIdx[node.Table] = tbl
			t.tables = append(t.tables, node.Table)
		}
		c := Coord{DataSource: ds, Table: tbl}
		if _, ok := seen[c]; ok {
			return nil, errors.Errorf("rule.table[%v].node[%v].duplicate", name, node)
		}
		seen[c] = struct{}{}
		t.coords = append(t.coords, c)
		t.tablesAt[ds] = append(t.tablesAt[ds], tbl)
	}
	return t, nil
}

// DataSourceNames returns the distinct data sources in node order.
func (t *TableRule) DataSourceNames() []string {
	return t.dataSources
}

// ActualTableNames returns the distinct actual tables in node order.
func (t *TableRule) ActualTableNames() []string {
	return t.tables
}

// Coords returns the coordinates of DataNodes, in the same order.
func (t *TableRule) Coords() []Coord {
	return t.coords
}

// DataSourceIndex returns the coordinate of the data source, -1 if absent.
func (t *TableRule) DataSourceIndex(name string) int {
	for i, ds := range t.dataSources {
		if ds == name {
			return i
		}
	}
	return -1
}

// TableIndex returns the coordinate of the actual table, -1 if absent.
func (t *TableRule) TableIndex(name string) int {
	for i, tbl := range t.tables {
		if tbl == name {
			return i
		}
	}
	return -1
}

// Node returns the data node of the coordinate.
func (t *TableRule) Node(c Coord) DataNode {
	return DataNode{DataSource: t.dataSources[c.DataSource], Table: t.tables[c.Table]}
}

// CoordsAt returns the coordinates of the data source in node order.
func (t *TableRule) CoordsAt(ds int) []Coord {
	coords := make([]Coord, 0, len(t.tablesAt[ds]))
	for _, tbl := range t.tablesAt[ds] {
		coords = append(coords, Coord{DataSource: ds, Table: tbl})
	}
	return coords
}

// ShardIndex returns the position of the coordinate among the tables of its data source.
func (t *TableRule) ShardIndex(c Coord) int {
	for i, tbl := range t.tablesAt[c.DataSource] {
		if tbl == c.Table {
			return i
		}
	}
	return -1
}

// CoordAt returns the coordinate of the i-th table at the named data source.
func (t *TableRule) CoordAt(dataSource string, i int) (Coord, bool) {
	ds := t.DataSourceIndex(dataSource)
	if ds < 0 || i < 0 || i >= len(t.tablesAt[ds]) {
		return Coord{}, false
	}
	return Coord{DataSource: ds, Table: t.tablesAt[ds][i]}, true
}

// IsShardingColumn returns true if the column is used by any strategy of the table.
func (t *TableRule) IsShardingColumn(column string) bool {
	return t.DatabaseStrategy.HasColumn(column) || t.TableStrategy.HasColumn(column)
}

// ShardingColumns returns the distinct sharding columns of both strategies.
func (t *TableRule) ShardingColumns() []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, s := range []*Strategy{t.DatabaseStrategy, t.TableStrategy} {
		for _, c := range s.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	}
	return cols
}
