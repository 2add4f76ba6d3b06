/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package ctl

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/router"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/xelabs/go-mysqlstack/xlog"
)

func doRequest(t *testing.T, client *http.Client, method string, url string, body string) (int, string) {
	var resp *http.Response
	var err error
	// The server starts in background.
	for i := 0; i < 50; i++ {
		var req *http.Request
		req, err = http.NewRequest(method, url, bytes.NewBufferString(body))
		assert.Nil(t, err)
		req.Header.Set("Content-Type", "application/json")
		if resp, err = client.Do(req); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.Nil(t, err)
	defer resp.Body.Close()
	b, err := ioutil.ReadAll(resp.Body)
	assert.Nil(t, err)
	return resp.StatusCode, string(b)
}

func TestAdmin(t *testing.T) {
	defer leaktest.Check(t)()

	log := xlog.NewStdLog(xlog.Level(xlog.PANIC))
	rt, cleanup := router.MockRouter(log)
	defer cleanup()

	conf := &config.AdminConfig{PeerAddress: "127.0.0.1:18080"}
	admin := NewAdmin(log, conf, rt)
	admin.Start()
	defer admin.Stop()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	base := "http://" + conf.PeerAddress

	{
		code, _ := doRequest(t, client, "GET", base+"/v1/ping", "")
		assert.Equal(t, 200, code)
	}

	{
		code, body := doRequest(t, client, "POST", base+"/v1/route/explain", `{"query":"select * from t_order where order_id = 3"}`)
		assert.Equal(t, 200, code)
		assert.Contains(t, body, `"engine":"standard"`)
		assert.Contains(t, body, `"t_order_1"`)
	}

	{
		code, body := doRequest(t, client, "GET", base+"/v1/rule/rulez", "")
		assert.Equal(t, 200, code)
		assert.Contains(t, body, `"schema":"sharding_db"`)
	}

	{
		code, _ := doRequest(t, client, "PUT", base+"/v1/rule/reload", `{"schema":"sharding_db","data-sources":[{"name":""}]}`)
		assert.Equal(t, 400, code)
	}
}
