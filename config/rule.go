/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package config

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
)

// DataSourceConfig tuple.
type DataSourceConfig struct {
	// Logical data source name, such as 'ds_0'.
	Name string `json:"name"`
	// Physical instance address, data sources sharing one instance collapse on DCL.
	Instance string `json:"instance,omitempty"`
	// Data source group, such as the primary/replica family. Defaults to Name.
	Group string `json:"group,omitempty"`
}

// AlgorithmConfig tuple.
type AlgorithmConfig struct {
	Type  string            `json:"type"`
	Props map[string]string `json:"props,omitempty"`
}

// StrategyConfig tuple.
type StrategyConfig struct {
	// NONE, STANDARD, COMPLEX or HINT.
	Type            string   `json:"type"`
	ShardingColumn  string   `json:"sharding-column,omitempty"`
	ShardingColumns []string `json:"sharding-columns,omitempty"`
	// Algorithm name, the key of ShardingRuleConfig.Algorithms.
	Algorithm string `json:"algorithm,omitempty"`
}

// DataNodes accepts either one inline expression or a list of expressions.
type DataNodes []string

// UnmarshalJSON interface on DataNodes.
func (d *DataNodes) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*d = DataNodes{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*d = DataNodes(list)
	return nil
}

// TableConfig tuple.
type TableConfig struct {
	Name string `json:"name"`
	// Inline expressions, such as 'ds_${0..1}.t_order_${0..1}'.
	ActualDataNodes  DataNodes       `json:"actual-data-nodes"`
	DatabaseStrategy *StrategyConfig `json:"database-strategy,omitempty"`
	TableStrategy    *StrategyConfig `json:"table-strategy,omitempty"`
}

// ShardingRuleConfig tuple.
type ShardingRuleConfig struct {
	Schema            string              `json:"schema"`
	DataSources       []*DataSourceConfig `json:"data-sources"`
	DefaultDataSource string              `json:"default-data-source,omitempty"`
	Tables            []*TableConfig      `json:"tables"`

	DefaultDatabaseStrategy *StrategyConfig `json:"default-database-strategy,omitempty"`
	DefaultTableStrategy    *StrategyConfig `json:"default-table-strategy,omitempty"`

	BindingTables   [][]string `json:"binding-tables,omitempty"`
	BroadcastTables []string   `json:"broadcast-tables,omitempty"`
	// Tables living unsharded on one data source, key is table name.
	UnconfiguredTables map[string]string `json:"unconfigured-tables,omitempty"`

	Algorithms map[string]*AlgorithmConfig `json:"algorithms,omitempty"`

	AllowCrossDataSourceJoin bool `json:"allow-cross-data-source-join"`
}

// ReadShardingRuleConfig used to read the sharding rule config from the data.
func ReadShardingRuleConfig(data string) (*ShardingRuleConfig, error) {
	conf := &ShardingRuleConfig{}
	if err := json.Unmarshal([]byte(data), conf); err != nil {
		return nil, errors.WithStack(err)
	}
	return conf, nil
}

// LoadShardingRuleConfig used to load the sharding rule config from file.
func LoadShardingRuleConfig(path string) (*ShardingRuleConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ReadShardingRuleConfig(string(data))
}
