/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package rule

import (
	"github.com/shardroute/shardroute/config"

	"github.com/xelabs/go-mysqlstack/xlog"
)

// MockShardingRule builds the rule of config.MockShardingRuleConfig, it panics on error.
func MockShardingRule(log *xlog.Log) *ShardingRule {
	r, err := Build(log, config.MockShardingRuleConfig())
	if err != nil {
		panic(err)
	}
	return r
}

// MockShardingRuleWith builds a rule after conf is adjusted by fn, it panics on error.
func MockShardingRuleWith(log *xlog.Log, fn func(conf *config.ShardingRuleConfig)) *ShardingRule {
	conf := config.MockShardingRuleConfig()
	fn(conf)
	r, err := Build(log, conf)
	if err != nil {
		panic(err)
	}
	return r
}
