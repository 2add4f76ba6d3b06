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
	"strings"

	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/hint"
	"github.com/shardroute/shardroute/router"
	"github.com/shardroute/shardroute/statement"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type explainFlags struct {
	ruleFile      string
	database      string
	params        []string
	databaseHints []string
	tableHints    []string
}

// NewExplainCommand creates the explain command, it routes the query offline against a rule file.
func NewExplainCommand() *cobra.Command {
	flags := &explainFlags{}
	cmd := &cobra.Command{
		Use:   "explain <query>",
		Short: "show the route units of the query under the rule file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return explainCommandFn(cmd, flags, args[0])
		},
	}
	cmd.Flags().StringVar(&flags.ruleFile, "rule-file", "./shardroute-rule.json", "sharding rule file")
	cmd.Flags().StringVar(&flags.database, "database", "", "database of the query, defaults to the rule schema")
	cmd.Flags().StringSliceVar(&flags.params, "param", nil, "values of the '?' placeholders, in order")
	cmd.Flags().StringArrayVar(&flags.databaseHints, "database-hint", nil, "database hint value as <table>=<value>")
	cmd.Flags().StringArrayVar(&flags.tableHints, "table-hint", nil, "table hint value as <table>=<value>")
	return cmd
}

// parseHints parses the '<table>=<value>' pairs into the hint values.
func parseHints(hints *hint.Values, pairs []string, add func(*hint.Values, string, string)) error {
	for _, pair := range pairs {
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			return errors.Errorf("cli.hint[%s].must.be.<table>=<value>", pair)
		}
		add(hints, pair[:idx], pair[idx+1:])
	}
	return nil
}

func explainCommandFn(cmd *cobra.Command, flags *explainFlags, query string) error {
	conf, err := config.LoadShardingRuleConfig(flags.ruleFile)
	if err != nil {
		return err
	}
	rt := router.NewRouter(log, &config.RouterConfig{RuleFile: flags.ruleFile, Schema: conf.Schema})
	if err := rt.Load(); err != nil {
		return err
	}

	var hints *hint.Values
	if len(flags.databaseHints) > 0 || len(flags.tableHints) > 0 {
		hints = hint.NewValues()
		addDatabase := func(h *hint.Values, table string, value string) {
			h.AddDatabaseValue(table, statement.ParseParams([]string{value})[0])
		}
		addTable := func(h *hint.Values, table string, value string) {
			h.AddTableValue(table, statement.ParseParams([]string{value})[0])
		}
		if err := parseHints(hints, flags.databaseHints, addDatabase); err != nil {
			return err
		}
		if err := parseHints(hints, flags.tableHints, addTable); err != nil {
			return err
		}
	}

	plan, err := rt.RouteQuery(flags.database, query, statement.ParseParams(flags.params), hints)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), plan.JSON())
	return nil
}
