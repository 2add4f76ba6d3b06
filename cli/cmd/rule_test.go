/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package cmd

import (
	"testing"
	"time"

	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/ctl"
	"github.com/shardroute/shardroute/router"

	"github.com/stretchr/testify/assert"
	"github.com/xelabs/go-mysqlstack/xlog"
)

func TestCmdRule(t *testing.T) {
	log := xlog.NewStdLog(xlog.Level(xlog.PANIC))
	rt, cleanup := router.MockRouter(log)
	defer cleanup()

	address := "127.0.0.1:18081"
	admin := ctl.NewAdmin(log, &config.AdminConfig{PeerAddress: address}, rt)
	admin.Start()
	defer admin.Stop()

	file, fileCleanup := mockRuleFile(t)
	defer fileCleanup()

	// show.
	{
		var out string
		var err error
		// The admin starts in background.
		for i := 0; i < 50; i++ {
			cmd := NewRuleCommand()
			if out, err = executeCommand(cmd, "show", "--admin", address); err == nil {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		assert.Nil(t, err)
		assert.Contains(t, out, `"schema":"sharding_db"`)
	}

	// reload.
	{
		cmd := NewRuleCommand()
		_, err := executeCommand(cmd, "reload", "--admin", address, "--rule-file", file)
		assert.Nil(t, err)
	}

	// reload with a missing file.
	{
		cmd := NewRuleCommand()
		_, err := executeCommand(cmd, "reload", "--admin", address, "--rule-file", file+".nil")
		assert.NotNil(t, err)
	}
}

func TestCmdRuleUniform(t *testing.T) {
	{
		cmd := NewRuleCommand()
		out, err := executeCommand(cmd, "uniform", "--table", "t_log", "--data-sources", "ds_1,ds_0", "--tables-per-data-source", "2")
		assert.Nil(t, err)
		assert.Contains(t, out, `"name": "t_log"`)
		assert.Contains(t, out, `"ds_0.t_log_0"`)
		assert.Contains(t, out, `"ds_1.t_log_1"`)
	}

	{
		cmd := NewRuleCommand()
		_, err := executeCommand(cmd, "uniform", "--data-sources", "ds_0")
		assert.NotNil(t, err)
	}
}
