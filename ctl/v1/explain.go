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

	"github.com/shardroute/shardroute/hint"
	"github.com/shardroute/shardroute/router"
	"github.com/shardroute/shardroute/statement"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/xelabs/go-mysqlstack/xlog"
)

type explainParams struct {
	Query         string              `json:"query"`
	Database      string              `json:"database"`
	Params        []string            `json:"params,omitempty"`
	DatabaseHints map[string][]string `json:"database-hints,omitempty"`
	TableHints    map[string][]string `json:"table-hints,omitempty"`
}

func (p *explainParams) hints() *hint.Values {
	if len(p.DatabaseHints) == 0 && len(p.TableHints) == 0 {
		return nil
	}
	hints := hint.NewValues()
	for table, values := range p.DatabaseHints {
		for _, v := range statement.ParseParams(values) {
			hints.AddDatabaseValue(table, v)
		}
	}
	for table, values := range p.TableHints {
		for _, v := range statement.ParseParams(values) {
			hints.AddTableValue(table, v)
		}
	}
	return hints
}

// ExplainHandler impl.
func ExplainHandler(log *xlog.Log, router *router.Router) rest.HandlerFunc {
	f := func(w rest.ResponseWriter, r *rest.Request) {
		explainHandler(log, router, w, r)
	}
	return f
}

// explainHandler returns the routing plan of the query.
// Returns:
// 1. Status:200, Body:plan JSON
// 2. Status:400, the query can't be routed
// 3. Status:500, bad request body
func explainHandler(log *xlog.Log, router *router.Router, w rest.ResponseWriter, r *rest.Request) {
	p := explainParams{}
	err := r.DecodeJsonPayload(&p)
	if err != nil {
		log.Error("api.v1.explain.error:%+v", err)
		rest.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	plan, err := router.RouteQuery(p.Database, p.Query, statement.ParseParams(p.Params), p.hints())
	if err != nil {
		log.Error("api.v1.explain[%s].route.error:%v", p.Query, err)
		rest.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteJson(plan)
}
