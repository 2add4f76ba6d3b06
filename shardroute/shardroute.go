/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/shardroute/shardroute/build"
	"github.com/shardroute/shardroute/config"
	"github.com/shardroute/shardroute/ctl"
	"github.com/shardroute/shardroute/monitor"
	"github.com/shardroute/shardroute/router"

	"github.com/xelabs/go-mysqlstack/xlog"
)

var (
	flagConf   string
	fcpu       *os.File
	pprofCPUOn = flag.Bool("pcpu", false, "is cpu prof enable, default false")
)

func init() {
	flag.StringVar(&flagConf, "c", "", "shardroute config file")
	flag.StringVar(&flagConf, "config", "", "shardroute config file")
}

func usage() {
	fmt.Println("Usage: " + os.Args[0] + " [-c|--config] <shardroute-config-file>")
}

func startPprof() {
	if *pprofCPUOn {
		cpuFile := "pprof_cpu_" + time.Now().Format(time.RFC3339)
		f, err := os.Create(cpuFile)
		if err != nil {
			fmt.Println("start pprof cpu failed", err)
			os.Exit(1)
		}
		fcpu = f
		pprof.StartCPUProfile(fcpu)
		fmt.Println("[pprof cpu]:\t" + cpuFile)
	}
}

func stopPprof() {
	if *pprofCPUOn {
		pprof.StopCPUProfile()
		fcpu.Close()
	}
}

func main() {
	log := xlog.NewStdLog(xlog.Level(xlog.DEBUG))

	build := build.GetInfo()
	fmt.Printf("shardroute:[%+v]\n", build)

	// config
	flag.Usage = func() { usage() }
	flag.Parse()
	if flagConf == "" {
		usage()
		os.Exit(0)
	}

	conf, err := config.LoadConfig(flagConf)
	if err != nil {
		log.Panic("shardroute.load.config.error[%v]", err)
	}
	log.SetLevel(conf.Log.Level)

	// pprof
	startPprof()
	defer stopPprof()

	// Monitor.
	monitor.Start(log, conf.Monitor)

	// Router.
	rt := router.NewRouter(log, conf.Router)
	if err := rt.Load(); err != nil {
		log.Panic("shardroute.load.rule[%s].error[%v]", conf.Router.RuleFile, err)
	}

	// Admin portal.
	admin := ctl.NewAdmin(log, conf.Admin, rt)
	admin.Start()

	// Handle SIGINT and SIGTERM.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	log.Info("shardroute.signal:%+v", <-ch)

	// Stop the httpserver.
	admin.Stop()
}
