/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package config

var (
	// MockLogConfig config.
	MockLogConfig = &LogConfig{
		Level: "DEBUG",
	}

	// MockRouterConfig config.
	MockRouterConfig = &RouterConfig{
		RuleFile: "/tmp/shardroute-rule.json",
		Schema:   "sharding_db",
	}
)

// MockDataSourcesConfig returns ds_0 and ds_1 on two instances.
func MockDataSourcesConfig() []*DataSourceConfig {
	return []*DataSourceConfig{
		&DataSourceConfig{
			Name:     "ds_0",
			Instance: "192.168.0.1:3306",
			Group:    "group_0",
		},
		&DataSourceConfig{
			Name:     "ds_1",
			Instance: "192.168.0.2:3306",
			Group:    "group_1",
		},
	}
}

// MockAlgorithmsConfig returns the algorithms used by the mock tables.
func MockAlgorithmsConfig() map[string]*AlgorithmConfig {
	return map[string]*AlgorithmConfig{
		"database_mod": &AlgorithmConfig{
			Type:  "MOD",
			Props: map[string]string{"sharding-count": "2"},
		},
		"table_mod": &AlgorithmConfig{
			Type:  "MOD",
			Props: map[string]string{"sharding-count": "2"},
		},
		"user_inline": &AlgorithmConfig{
			Type:  "INLINE",
			Props: map[string]string{"algorithm-expression": "ds_${user_id % 2}"},
		},
		"user_table_inline": &AlgorithmConfig{
			Type:  "INLINE",
			Props: map[string]string{"algorithm-expression": "t_user_${user_id % 2}"},
		},
		"status_complex": &AlgorithmConfig{
			Type:  "COMPLEX_INLINE",
			Props: map[string]string{"algorithm-expression": "t_status_${(user_id + status) % 2}"},
		},
		"hint_inline": &AlgorithmConfig{
			Type:  "HINT_INLINE",
			Props: map[string]string{"algorithm-expression": "ds_${value % 2}"},
		},
		"hint_table_inline": &AlgorithmConfig{
			Type:  "HINT_INLINE",
			Props: map[string]string{"algorithm-expression": "t_hint_${value % 2}"},
		},
	}
}

// MockOrderTableConfig returns the t_order table config.
func MockOrderTableConfig() *TableConfig {
	return &TableConfig{
		Name:            "t_order",
		ActualDataNodes: DataNodes{"ds_${0..1}.t_order_${0..1}"},
		DatabaseStrategy: &StrategyConfig{
			Type:           "STANDARD",
			ShardingColumn: "order_id",
			Algorithm:      "database_mod",
		},
		TableStrategy: &StrategyConfig{
			Type:           "STANDARD",
			ShardingColumn: "order_id",
			Algorithm:      "table_mod",
		},
	}
}

// MockOrderItemTableConfig returns the t_order_item table config, bound to t_order.
func MockOrderItemTableConfig() *TableConfig {
	return &TableConfig{
		Name:            "t_order_item",
		ActualDataNodes: DataNodes{"ds_${0..1}.t_order_item_${0..1}"},
		DatabaseStrategy: &StrategyConfig{
			Type:           "STANDARD",
			ShardingColumn: "order_id",
			Algorithm:      "database_mod",
		},
		TableStrategy: &StrategyConfig{
			Type:           "STANDARD",
			ShardingColumn: "order_id",
			Algorithm:      "table_mod",
		},
	}
}

// MockUserTableConfig returns the t_user table config, unbound.
func MockUserTableConfig() *TableConfig {
	return &TableConfig{
		Name:            "t_user",
		ActualDataNodes: DataNodes{"ds_${0..1}.t_user_${0..1}"},
		DatabaseStrategy: &StrategyConfig{
			Type:           "STANDARD",
			ShardingColumn: "user_id",
			Algorithm:      "user_inline",
		},
		TableStrategy: &StrategyConfig{
			Type:           "STANDARD",
			ShardingColumn: "user_id",
			Algorithm:      "user_table_inline",
		},
	}
}

// MockStatusTableConfig returns the t_status table config, complex on table dimension.
func MockStatusTableConfig() *TableConfig {
	return &TableConfig{
		Name:            "t_status",
		ActualDataNodes: DataNodes{"ds_0.t_status_${0..1}"},
		TableStrategy: &StrategyConfig{
			Type:            "COMPLEX",
			ShardingColumns: []string{"user_id", "status"},
			Algorithm:       "status_complex",
		},
	}
}

// MockHintTableConfig returns the t_hint table config, hint on both dimensions.
func MockHintTableConfig() *TableConfig {
	return &TableConfig{
		Name:            "t_hint",
		ActualDataNodes: DataNodes{"ds_${0..1}.t_hint_${0..1}"},
		DatabaseStrategy: &StrategyConfig{
			Type:      "HINT",
			Algorithm: "hint_inline",
		},
		TableStrategy: &StrategyConfig{
			Type:      "HINT",
			Algorithm: "hint_table_inline",
		},
	}
}

// MockShardingRuleConfig returns a fresh sharding rule config for tests.
func MockShardingRuleConfig() *ShardingRuleConfig {
	return &ShardingRuleConfig{
		Schema:            "sharding_db",
		DataSources:       MockDataSourcesConfig(),
		DefaultDataSource: "ds_0",
		Tables: []*TableConfig{
			MockOrderTableConfig(),
			MockOrderItemTableConfig(),
			MockUserTableConfig(),
			MockStatusTableConfig(),
			MockHintTableConfig(),
		},
		BindingTables:      [][]string{{"t_order", "t_order_item"}},
		BroadcastTables:    []string{"t_config"},
		UnconfiguredTables: map[string]string{"t_single": "ds_1"},
		Algorithms:         MockAlgorithmsConfig(),
	}
}
