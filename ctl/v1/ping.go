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

	"github.com/shardroute/shardroute/router"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/xelabs/go-mysqlstack/xlog"
)

// PingHandler impl.
func PingHandler(log *xlog.Log, router *router.Router) rest.HandlerFunc {
	f := func(w rest.ResponseWriter, r *rest.Request) {
		pingHandler(log, router, w, r)
	}
	return f
}

// pingHandler answers 503 until the first rule is loaded.
func pingHandler(log *xlog.Log, router *router.Router, w rest.ResponseWriter, r *rest.Request) {
	if router.Rule() == nil {
		log.Error("api.v1.ping.error:rule.not.loaded")
		rest.Error(w, "rule.not.loaded", http.StatusServiceUnavailable)
	}
}
