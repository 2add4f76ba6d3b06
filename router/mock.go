/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package router

import (
	"io/ioutil"
	"os"
	"path"

	"github.com/shardroute/shardroute/config"

	"github.com/xelabs/go-mysqlstack/xlog"
)

// MockRouter creates a router loaded with the mock sharding rule.
// The rule file lives in a temporary dir which the cleanup removes.
func MockRouter(log *xlog.Log) (*Router, func()) {
	dir, err := ioutil.TempDir("", "shardroute-router")
	if err != nil {
		log.Panic("router.mock.tempdir.error:%+v", err)
	}
	conf := &config.RouterConfig{
		RuleFile: path.Join(dir, "rule.json"),
		Schema:   "sharding_db",
	}
	r := NewRouter(log, conf)
	if err := r.Reload(config.MockShardingRuleConfig()); err != nil {
		log.Panic("router.mock.reload.error:%+v", err)
	}
	return r, func() {
		os.RemoveAll(dir)
	}
}

// MockEmptyRouter creates a router without rule.
func MockEmptyRouter(log *xlog.Log) *Router {
	return NewRouter(log, &config.RouterConfig{
		RuleFile: path.Join(os.TempDir(), "shardroute-empty-rule.json"),
		Schema:   "sharding_db",
	})
}
