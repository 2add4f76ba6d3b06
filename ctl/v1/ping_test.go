/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package v1

import (
	"testing"

	"github.com/shardroute/shardroute/router"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/ant0ine/go-json-rest/rest/test"
	"github.com/xelabs/go-mysqlstack/xlog"
)

func TestCtlV1Ping(t *testing.T) {
	log := xlog.NewStdLog(xlog.Level(xlog.PANIC))
	rt, cleanup := router.MockRouter(log)
	defer cleanup()

	{
		// server
		api := rest.NewApi()
		app, _ := rest.MakeRouter(
			rest.Get("/v1/ping", PingHandler(log, rt)),
		)
		api.SetApp(app)
		handler := api.MakeHandler()

		// client
		recorded := test.RunRequest(t, handler, test.MakeSimpleRequest("GET", "http://localhost/v1/ping", nil))
		recorded.CodeIs(200)
	}
}

func TestCtlV1PingError(t *testing.T) {
	log := xlog.NewStdLog(xlog.Level(xlog.PANIC))
	rt := router.MockEmptyRouter(log)

	// server
	api := rest.NewApi()
	app, _ := rest.MakeRouter(
		rest.Get("/v1/ping", PingHandler(log, rt)),
	)
	api.SetApp(app)
	handler := api.MakeHandler()

	// 405.
	{
		recorded := test.RunRequest(t, handler, test.MakeSimpleRequest("POST", "http://localhost/v1/ping", nil))
		recorded.CodeIs(405)
	}

	// 503.
	{
		recorded := test.RunRequest(t, handler, test.MakeSimpleRequest("GET", "http://localhost/v1/ping", nil))
		recorded.CodeIs(503)
	}
}
