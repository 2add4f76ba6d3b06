/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package cmd

import (
	"bytes"

	"github.com/spf13/cobra"
	"github.com/xelabs/go-mysqlstack/xlog"
)

var (
	log = xlog.NewStdLog(xlog.Level(xlog.ERROR))
)

const (
	defaultAdminAddress = "127.0.0.1:8080"
)

func adminURL(address string, path string) string {
	return "http://" + address + path
}

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	_, err = root.ExecuteC()
	return buf.String(), err
}
