/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package config

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	shardroute_test_json = "shardroute.test.config.json"
)

func TestWriteConfig(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "shardroute_config_")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	conf := &Config{
		Router:  MockRouterConfig,
		Log:     MockLogConfig,
		Admin:   DefaultAdminConfig(),
		Monitor: DefaultMonitorConfig(),
	}

	path := path.Join(tmpDir, shardroute_test_json)
	err = WriteConfig(path, conf)
	assert.Nil(t, err)

	want, err := LoadConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, want, conf)
}

func TestMarshalConfig(t *testing.T) {
	{
		got, err := MarshalConfig(&LogConfig{Level: "INFO"})
		assert.Nil(t, err)
		assert.Equal(t, "{\n\t\"level\": \"INFO\"\n}", got)
	}

	{
		_, err := MarshalConfig(make(chan int))
		assert.NotNil(t, err)
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "shardroute_config_")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	path := path.Join(tmpDir, shardroute_test_json)
	{
		_, err := LoadConfig(path)
		assert.NotNil(t, err)
	}

	// Missing sections get defaults.
	{
		conf := &Config{
			Router: MockRouterConfig,
		}
		err := WriteConfig(path, conf)
		assert.Nil(t, err)

		want := &Config{
			Router:  MockRouterConfig,
			Admin:   DefaultAdminConfig(),
			Monitor: DefaultMonitorConfig(),
			Log:     DefaultLogConfig(),
		}
		got, err := LoadConfig(path)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}

	// Partial sections keep the defaults of the missing fields.
	{
		data := `{"router":{"rule-file":"/tmp/x.json"},"log":{}}`
		err := ioutil.WriteFile(path, []byte(data), 0644)
		assert.Nil(t, err)

		got, err := LoadConfig(path)
		assert.Nil(t, err)
		assert.Equal(t, "/tmp/x.json", got.Router.RuleFile)
		assert.Equal(t, "sharding_db", got.Router.Schema)
		assert.Equal(t, "ERROR", got.Log.Level)
	}

	// Malformed.
	{
		err := ioutil.WriteFile(path, []byte("{"), 0644)
		assert.Nil(t, err)
		_, err = LoadConfig(path)
		assert.NotNil(t, err)
	}
}

func TestShardingRuleConfig(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "shardroute_rule_")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	path := path.Join(tmpDir, "rule.json")
	{
		_, err := LoadShardingRuleConfig(path)
		assert.NotNil(t, err)
	}

	{
		want := MockShardingRuleConfig()
		err := WriteConfig(path, want)
		assert.Nil(t, err)

		got, err := LoadShardingRuleConfig(path)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDataNodesUnmarshal(t *testing.T) {
	{
		conf, err := ReadShardingRuleConfig(`{"tables":[{"name":"t","actual-data-nodes":"ds_${0..1}.t_${0..1}"}]}`)
		assert.Nil(t, err)
		assert.Equal(t, DataNodes{"ds_${0..1}.t_${0..1}"}, conf.Tables[0].ActualDataNodes)
	}

	{
		conf, err := ReadShardingRuleConfig(`{"tables":[{"name":"t","actual-data-nodes":["ds_0.t_0","ds_1.t_1"]}]}`)
		assert.Nil(t, err)
		assert.Equal(t, DataNodes{"ds_0.t_0", "ds_1.t_1"}, conf.Tables[0].ActualDataNodes)
	}

	{
		_, err := ReadShardingRuleConfig(`{"tables":[{"name":"t","actual-data-nodes":1}]}`)
		assert.NotNil(t, err)
	}
}
