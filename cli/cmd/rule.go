/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package cmd

import (
	"fmt"
	"net/http"

	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/rule"
	"github.com/shardroute/shardroute/xbase"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewRuleCommand creates the rule command.
func NewRuleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "show/reload the sharding rule of shardroute",
	}
	cmd.AddCommand(NewRuleShowCommand())
	cmd.AddCommand(NewRuleReloadCommand())
	cmd.AddCommand(NewRuleUniformCommand())
	return cmd
}

// NewRuleShowCommand creates the 'rule show' command.
func NewRuleShowCommand() *cobra.Command {
	var admin string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "show the serving sharding rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := adminURL(admin, "/v1/rule/rulez")
			code, body, err := xbase.HTTPGet(url)
			if err != nil {
				return err
			}
			if code != http.StatusOK {
				return errors.Errorf("cli.rule.show.url[%s].response[%d]:%s", url, code, body)
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
	cmd.Flags().StringVar(&admin, "admin", defaultAdminAddress, "admin address of shardroute")
	return cmd
}

// NewRuleReloadCommand creates the 'rule reload' command.
func NewRuleReloadCommand() *cobra.Command {
	var admin, ruleFile string
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "reload the sharding rule from the rule file",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadShardingRuleConfig(ruleFile)
			if err != nil {
				return err
			}
			url := adminURL(admin, "/v1/rule/reload")
			code, body, err := xbase.HTTPPut(url, conf)
			if err != nil {
				return err
			}
			if code != http.StatusOK {
				return errors.Errorf("cli.rule.reload.url[%s].response[%d]:%s", url, code, body)
			}
			log.Warning("cli.rule.reload[%s].done", ruleFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&admin, "admin", defaultAdminAddress, "admin address of shardroute")
	cmd.Flags().StringVar(&ruleFile, "rule-file", "./shardroute-rule.json", "sharding rule file")
	return cmd
}

// NewRuleUniformCommand creates the 'rule uniform' command, it prints a table config
// whose actual tables spread uniformly on the data sources.
func NewRuleUniformCommand() *cobra.Command {
	var table string
	var dataSources []string
	var tablesPerDataSource int
	cmd := &cobra.Command{
		Use:   "uniform",
		Short: "generate the table config with uniform data nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := rule.Uniform(table, dataSources, tablesPerDataSource)
			if err != nil {
				return err
			}
			out, err := config.MarshalConfig(conf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "logical table name")
	cmd.Flags().StringSliceVar(&dataSources, "data-sources", nil, "data source names")
	cmd.Flags().IntVar(&tablesPerDataSource, "tables-per-data-source", 1, "actual tables on every data source")
	return cmd
}
