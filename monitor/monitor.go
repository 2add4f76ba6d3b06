/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package monitor

import (
	"net/http"

	"github.com/shardroute/shardroute/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xelabs/go-mysqlstack/xlog"
)

var (
	webMonitorURL = "/metrics"

	routeTotalCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_total",
			Help: "Counter of routed statements.",
		},
		[]string{"engine", "result"},
	)

	routeUnitsHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "route_units",
			Help:    "Route units per routed statement.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"engine"},
	)

	ruleReloadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_reload_total",
			Help: "Counter of sharding rule reloads.",
		},
		[]string{"result"},
	)

	ruleTablesNum = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rule_tables_number",
			Help: "Tables of the current sharding rule.",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(routeTotalCounter)
	prometheus.MustRegister(routeUnitsHistogram)
	prometheus.MustRegister(ruleReloadCounter)
	prometheus.MustRegister(ruleTablesNum)
}

// Start serves the metrics on conf.Address.
func Start(log *xlog.Log, conf *config.MonitorConfig) {
	log.Info("monitor.prometheus.metrics:http://%s%s", conf.Address, webMonitorURL)
	mux := http.NewServeMux()
	mux.Handle(webMonitorURL, promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(conf.Address, mux); err != nil {
			log.Error("monitor.listen[%s].error:%+v", conf.Address, err)
		}
	}()
}

// RouteTotalCounterInc add 1
func RouteTotalCounterInc(engine string, result string) {
	routeTotalCounter.WithLabelValues(engine, result).Inc()
}

// RouteUnitsObserve records the unit count of one routed statement.
func RouteUnitsObserve(engine string, units int) {
	routeUnitsHistogram.WithLabelValues(engine).Observe(float64(units))
}

// RuleReloadCounterInc add 1
func RuleReloadCounterInc(result string) {
	ruleReloadCounter.WithLabelValues(result).Inc()
}

// RuleTablesSet sets the table number of the type.
func RuleTablesSet(typ string, v int) {
	ruleTablesNum.WithLabelValues(typ).Set(float64(v))
}
