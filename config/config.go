/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package config

import (
	"encoding/json"
	"io/ioutil"

	"github.com/shardroute/shardroute/xbase"

	"github.com/pkg/errors"
)

// RouterConfig tuple.
type RouterConfig struct {
	// Sharding rule file, see ShardingRuleConfig.
	RuleFile string `json:"rule-file"`
	// Default schema when the statement has no qualifier.
	Schema string `json:"schema"`
	// Rule reloads allowed per second, 0 is unlimited.
	ReloadLimits int `json:"reload-limits"`
}

// DefaultRouterConfig returns the default router config.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RuleFile: "./shardroute-rule.json",
		Schema:   "sharding_db",
	}
}

// UnmarshalJSON interface on RouterConfig.
func (c *RouterConfig) UnmarshalJSON(b []byte) error {
	type confAlias *RouterConfig
	conf := confAlias(DefaultRouterConfig())
	if err := json.Unmarshal(b, conf); err != nil {
		return err
	}
	*c = RouterConfig(*conf)
	return nil
}

// AdminConfig tuple.
type AdminConfig struct {
	PeerAddress string `json:"peer-address"`
}

// DefaultAdminConfig returns default admin config.
func DefaultAdminConfig() *AdminConfig {
	return &AdminConfig{
		PeerAddress: "127.0.0.1:8080",
	}
}

// UnmarshalJSON interface on AdminConfig.
func (c *AdminConfig) UnmarshalJSON(b []byte) error {
	type confAlias *AdminConfig
	conf := confAlias(DefaultAdminConfig())
	if err := json.Unmarshal(b, conf); err != nil {
		return err
	}
	*c = AdminConfig(*conf)
	return nil
}

// MonitorConfig tuple.
type MonitorConfig struct {
	Address string `json:"address"`
}

// DefaultMonitorConfig returns default monitor config.
func DefaultMonitorConfig() *MonitorConfig {
	return &MonitorConfig{
		Address: "0.0.0.0:13308",
	}
}

// UnmarshalJSON interface on MonitorConfig.
func (c *MonitorConfig) UnmarshalJSON(b []byte) error {
	type confAlias *MonitorConfig
	conf := confAlias(DefaultMonitorConfig())
	if err := json.Unmarshal(b, conf); err != nil {
		return err
	}
	*c = MonitorConfig(*conf)
	return nil
}

// LogConfig tuple.
type LogConfig struct {
	Level string `json:"level"`
}

// DefaultLogConfig returns default log config.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level: "ERROR",
	}
}

// UnmarshalJSON interface on LogConfig.
func (c *LogConfig) UnmarshalJSON(b []byte) error {
	type confAlias *LogConfig
	conf := confAlias(DefaultLogConfig())
	if err := json.Unmarshal(b, conf); err != nil {
		return err
	}
	*c = LogConfig(*conf)
	return nil
}

// Config tuple.
type Config struct {
	Router  *RouterConfig  `json:"router"`
	Admin   *AdminConfig   `json:"admin"`
	Monitor *MonitorConfig `json:"monitor"`
	Log     *LogConfig     `json:"log"`
}

func checkConfig(conf *Config) {
	if conf.Router == nil {
		conf.Router = DefaultRouterConfig()
	}

	if conf.Admin == nil {
		conf.Admin = DefaultAdminConfig()
	}

	if conf.Monitor == nil {
		conf.Monitor = DefaultMonitorConfig()
	}

	if conf.Log == nil {
		conf.Log = DefaultLogConfig()
	}
}

// LoadConfig used to load the config from file.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	conf := &Config{}
	if err := json.Unmarshal([]byte(data), conf); err != nil {
		return nil, errors.WithStack(err)
	}
	checkConfig(conf)
	return conf, nil
}

// MarshalConfig returns the indented json of the conf.
func MarshalConfig(conf interface{}) (string, error) {
	b, err := json.MarshalIndent(conf, "", "\t")
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(b), nil
}

// WriteConfig used to write the conf to file.
func WriteConfig(path string, conf interface{}) error {
	data, err := MarshalConfig(conf)
	if err != nil {
		return err
	}
	return xbase.WriteFile(path, []byte(data))
}
