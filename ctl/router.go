/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package ctl

import (
	v1 "github.com/shardroute/shardroute/ctl/v1"

	"github.com/ant0ine/go-json-rest/rest"
)

// NewRouter creates the new router.
func (admin *Admin) NewRouter() (rest.App, error) {
	log := admin.log
	router := admin.router

	return rest.MakeRouter(
		rest.Get("/v1/ping", v1.PingHandler(log, router)),

		// route
		rest.Post("/v1/route/explain", v1.ExplainHandler(log, router)),

		// rule
		rest.Get("/v1/rule/rulez", v1.RulezHandler(log, router)),
		rest.Put("/v1/rule/reload", v1.RuleReloadHandler(log, router)),
		rest.Get("/v1/rule/throttle", v1.ThrottlezHandler(log, router)),
		rest.Put("/v1/rule/throttle", v1.ThrottleHandler(log, router)),
	)
}
