/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package v1

import (
	"net/http"

	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/router"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/pkg/errors"
	"github.com/xelabs/go-mysqlstack/xlog"
)

// RulezHandler impl.
func RulezHandler(log *xlog.Log, router *router.Router) rest.HandlerFunc {
	f := func(w rest.ResponseWriter, r *rest.Request) {
		rulezHandler(log, router, w, r)
	}
	return f
}

func rulezHandler(log *xlog.Log, router *router.Router, w rest.ResponseWriter, r *rest.Request) {
	sr := router.Rule()
	if sr == nil {
		log.Error("api.v1.rulez.error:rule.not.loaded")
		rest.Error(w, "rule.not.loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteJson(sr.Config())
}

// RuleReloadHandler impl.
func RuleReloadHandler(log *xlog.Log, router *router.Router) rest.HandlerFunc {
	f := func(w rest.ResponseWriter, r *rest.Request) {
		ruleReloadHandler(log, router, w, r)
	}
	return f
}

// ruleReloadHandler builds the rule from the body and swaps it in.
// A rule that fails to build leaves the current one serving.
func ruleReloadHandler(log *xlog.Log, rt *router.Router, w rest.ResponseWriter, r *rest.Request) {
	conf := &config.ShardingRuleConfig{}
	if err := r.DecodeJsonPayload(conf); err != nil {
		log.Error("api.v1.rule.reload.error:%+v", err)
		rest.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Warning("api.v1.rule.reload[from:%v].schema[%s].tables[%d]", r.RemoteAddr, conf.Schema, len(conf.Tables))
	if err := rt.Reload(conf); err != nil {
		log.Error("api.v1.rule.reload.error:%+v", err)
		if errors.Cause(err) == router.ErrReloadThrottled {
			rest.Error(w, err.Error(), http.StatusTooManyRequests)
			return
		}
		rest.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
}

type throttleParams struct {
	Limits int `json:"limits"`
}

// ThrottleHandler impl.
func ThrottleHandler(log *xlog.Log, router *router.Router) rest.HandlerFunc {
	f := func(w rest.ResponseWriter, r *rest.Request) {
		throttleHandler(log, router, w, r)
	}
	return f
}

// throttleHandler sets the rule reloads allowed per second, 0 means unlimited.
func throttleHandler(log *xlog.Log, rt *router.Router, w rest.ResponseWriter, r *rest.Request) {
	p := throttleParams{}
	err := r.DecodeJsonPayload(&p)
	if err != nil {
		log.Error("api.v1.rule.throttle.error:%+v", err)
		rest.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Warning("api.v1.rule.throttle[from:%v].body:%+v", r.RemoteAddr, p)
	rt.SetReloadLimits(p.Limits)
}

// ThrottlezHandler impl.
func ThrottlezHandler(log *xlog.Log, router *router.Router) rest.HandlerFunc {
	f := func(w rest.ResponseWriter, r *rest.Request) {
		w.WriteJson(&throttleParams{Limits: router.ReloadLimits()})
	}
	return f
}
