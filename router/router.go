/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package router

import (
	"context"
	"encoding/json"

	"github.com/shardroute/shardroute/condition"
	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/engine"
	"github.com/shardroute/shardroute/hint"
	"github.com/shardroute/shardroute/monitor"
	"github.com/shardroute/shardroute/route"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/statement"
	"github.com/shardroute/shardroute/xbase"

	"github.com/pkg/errors"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/hack"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
	"github.com/xelabs/go-mysqlstack/xlog"
	"go.uber.org/atomic"
)

const (
	maxLogQueryLen = 256
)

var (
	// ErrReloadThrottled is returned when the reloads exceed the reload-limits.
	ErrReloadThrottled = errors.New("router.reload.throttled")
)

// Router routes statements against the current sharding rule snapshot.
type Router struct {
	log      *xlog.Log
	conf     *config.RouterConfig
	throttle *xbase.Throttle
	snapshot atomic.Pointer[rule.ShardingRule]
}

// NewRouter creates the new router, the rule is empty until Load or Reload.
func NewRouter(log *xlog.Log, conf *config.RouterConfig) *Router {
	return &Router{
		log:      log,
		conf:     conf,
		throttle: xbase.NewThrottle(conf.ReloadLimits),
	}
}

// Load builds the rule from the rule file.
func (r *Router) Load() error {
	conf, err := config.LoadShardingRuleConfig(r.conf.RuleFile)
	if err != nil {
		r.log.Error("router.load.rule.file[%s].error:%+v", r.conf.RuleFile, err)
		return err
	}
	sr, err := r.build(conf)
	if err != nil {
		return err
	}
	r.store(sr)
	return nil
}

// Reload builds a new rule, persists its config to the rule file, then swaps it in.
// On any error the current rule keeps serving.
// Routing calls already running keep the snapshot they started with.
func (r *Router) Reload(conf *config.ShardingRuleConfig) error {
	if ok, wait := r.throttle.TryAcquire(); !ok {
		r.log.Warning("router.reload.throttled.retry.after[%v]", wait)
		monitor.RuleReloadCounterInc("throttled")
		return errors.WithStack(ErrReloadThrottled)
	}
	sr, err := r.build(conf)
	if err != nil {
		return err
	}
	if err := config.WriteConfig(r.conf.RuleFile, conf); err != nil {
		r.log.Error("router.reload.write.rule.file[%s].error:%+v", r.conf.RuleFile, err)
		monitor.RuleReloadCounterInc("error")
		return err
	}
	r.store(sr)
	return nil
}

// SetReloadLimits changes the reloads allowed per second, a non-positive value means unlimited.
func (r *Router) SetReloadLimits(limits int) {
	r.throttle.Set(limits)
	r.log.Warning("router.reload.limits.set.to[%d]", limits)
}

// ReloadLimits returns the reloads allowed per second.
func (r *Router) ReloadLimits() int {
	return r.throttle.Limits()
}

func (r *Router) build(conf *config.ShardingRuleConfig) (*rule.ShardingRule, error) {
	if conf != nil && conf.Schema == "" {
		conf.Schema = r.conf.Schema
	}
	sr, err := rule.Build(r.log, conf)
	if err != nil {
		r.log.Error("router.build.rule.error:%+v", err)
		monitor.RuleReloadCounterInc("error")
		return nil, err
	}
	return sr, nil
}

func (r *Router) store(sr *rule.ShardingRule) {
	r.snapshot.Store(sr)
	monitor.RuleReloadCounterInc("ok")
	monitor.RuleTablesSet("sharding", len(sr.Tables))
	monitor.RuleTablesSet("broadcast", len(sr.BroadcastTables))
	monitor.RuleTablesSet("unconfigured", len(sr.UnconfiguredTables))
	r.log.Info("router.rule.schema[%s].tables[%d].loaded", sr.Schema, len(sr.Tables))
}

// Rule returns the current rule snapshot, nil before the first load.
func (r *Router) Rule() *rule.ShardingRule {
	return r.snapshot.Load()
}

// Plan is the routing outcome of one statement.
type Plan struct {
	Engine  engine.EngineType `json:"engine"`
	Context *route.Context    `json:"route"`
}

// Route routes the bound statement with the hint values of the request.
func (r *Router) Route(stmt *statement.Statement, hints *hint.Values) (*Plan, error) {
	sr := r.Rule()
	if sr == nil {
		return nil, errors.New("router.rule.not.loaded")
	}

	conds := condition.Extract(sr, stmt)
	if condition.NeedMerge(sr, stmt) {
		merged, err := condition.Merge(sr, stmt, conds, hints)
		if err != nil {
			r.log.Error("router.merge.conditions.error:%v", err)
			monitor.RouteTotalCounterInc("merge", "error")
			return nil, err
		}
		conds = merged
	}

	e := engine.Select(sr, stmt, conds, hints)
	ctx, err := e.Route(sr)
	// Type is read after Route, a complex route may turn federated.
	typ := string(e.Type())
	if err != nil {
		r.log.Error("router.route.engine[%s].error:%v", typ, err)
		monitor.RouteTotalCounterInc(typ, "error")
		return nil, err
	}
	monitor.RouteTotalCounterInc(typ, "ok")
	monitor.RouteUnitsObserve(typ, len(ctx.Units))
	return &Plan{Engine: e.Type(), Context: ctx}, nil
}

// RouteContext routes the statement with the hint values carried by ctx.
func (r *Router) RouteContext(ctx context.Context, stmt *statement.Statement) (*Plan, error) {
	return r.Route(stmt, hint.FromContext(ctx))
}

// RouteQuery parses, binds and routes the query.
func (r *Router) RouteQuery(database string, query string, params []sqltypes.Value, hints *hint.Values) (*Plan, error) {
	if database == "" {
		database = r.conf.Schema
	}
	stmt, err := statement.Parse(database, query, params)
	if err != nil {
		r.log.Error("router.parse.query[%s].error:%v", xbase.TruncateQuery(query, maxLogQueryLen), err)
		return nil, err
	}
	plan, err := r.Route(stmt, hints)
	if err != nil {
		return nil, err
	}
	r.log.Debug("router.route.query[%s].engine[%s].units[%d]", xbase.TruncateQuery(query, maxLogQueryLen), plan.Engine, len(plan.Context.Units))
	return plan, nil
}

// JSON returns the plan info.
func (p *Plan) JSON() string {
	bout, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err.Error()
	}
	return hack.String(bout)
}
