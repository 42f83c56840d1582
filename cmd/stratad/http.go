// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"time"

	"github.com/google/go-cloud/health"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/diffeo/go-strata/restserver"
	"github.com/diffeo/go-strata/strata"
)

// newHandler assembles the daemon's HTTP surface: the strata REST API
// under the root path, Prometheus metrics on /metrics, and a liveness
// check on /healthz that fails when the storage backend is
// unreachable.
func newHandler(storage strata.Storage, opts restserver.Options, logRequests bool, log *logrus.Logger) http.Handler {
	r := mux.NewRouter()
	restserver.PopulateRouter(r, storage, opts)
	r.Handle("/metrics", promhttp.Handler())

	healthz := new(health.Handler)
	healthz.Add(storage)
	r.Handle("/healthz", healthz)

	recovery := negroni.NewRecovery()
	recovery.PrintStack = opts.Debug
	n := negroni.New(recovery)
	if logRequests {
		n.Use(requestLogger(log))
	}
	n.UseHandler(r)
	return n
}

// requestLogger logs one line per request.
func requestLogger(log *logrus.Logger) negroni.Handler {
	return negroni.HandlerFunc(func(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
		start := time.Now()
		next(w, req)
		log.WithFields(logrus.Fields{
			"method":   req.Method,
			"url":      req.URL.String(),
			"duration": time.Since(start),
		}).Info("request")
	})
}
