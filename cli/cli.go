/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package main

import (
	"fmt"
	"os"

	"github.com/shardroute/shardroute/cli/cmd"

	"github.com/spf13/cobra"
)

const (
	cliName        = "shardroutecli"
	cliDescription = "A simple command line client for shardroute"
)

var (
	rootCmd = &cobra.Command{
		Use:          cliName,
		Short:        cliDescription,
		SuggestFor:   []string{"shardroutecli"},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(cmd.NewVersionCommand())
	rootCmd.AddCommand(cmd.NewExplainCommand())
	rootCmd.AddCommand(cmd.NewRuleCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
