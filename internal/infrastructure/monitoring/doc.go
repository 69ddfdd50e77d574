/*
Package monitoring provides Prometheus metrics for the mailslot service.

# Overview

Tracks HTTP requests, mailbox store operations (writes and reads by
outcome), open handles, stored entries, and watcher connections.
Metrics register against a per-instance registry so multiple servers
can coexist in one process.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))

	metrics.RecordWrite("ok", 13)
	metrics.SetHandlesOpen(3)

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
