// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package stratad provides the strata record server daemon.  It loads
// a deployment configuration, connects to a storage backend, and
// serves the REST API plus Prometheus metrics and a health check over
// HTTP.
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/diffeo/go-strata/backend"
	"github.com/diffeo/go-strata/config"
	"github.com/diffeo/go-strata/restdata"
	"github.com/diffeo/go-strata/restserver"
)

func main() {
	httpBind := flag.String("http", ":5980",
		"[ip]:port for HTTP REST interface")
	storageFlag := backend.Backend{Implementation: "memory"}
	flag.Var(&storageFlag, "backend", "impl[:address] of the storage backend")
	configPath := flag.String("config", "", "deployment configuration YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	log := logrus.StandardLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithField("err", err).Fatal("Could not load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level")
	}

	storage, err := storageFlag.Storage(cfg)
	if err != nil {
		log.WithField("err", err).Fatal("Could not create storage backend")
	}
	defer storage.Close()

	go observe(clock.New(), storage, 15*time.Second)

	handler := newHandler(storage, serverOptions(cfg, log), *logRequests, log)
	log.WithFields(logrus.Fields{
		"backend": storageFlag.String(),
		"bind":    *httpBind,
	}).Info("Serving strata records")
	err = http.ListenAndServe(*httpBind, handler)
	log.WithField("err", err).Fatal("HTTP server stopped")
}

// serverOptions maps the deployment configuration onto REST API
// options.
func serverOptions(cfg config.Config, log *logrus.Logger) restserver.Options {
	opts := restserver.Options{
		BaseURL:      cfg.BaseURL,
		PageLimit:    cfg.PageLimit,
		MaxPageLimit: cfg.MaxPageLimit,
		Debug:        cfg.Debug,
		Log:          log,
	}
	if cfg.Provider.Prefix != "" || cfg.Provider.Name != "" {
		opts.Provider = &restdata.Provider{
			Name:         cfg.Provider.Name,
			Description:  cfg.Provider.Description,
			Prefix:       cfg.Provider.Prefix,
			Homepage:     cfg.Provider.Homepage,
			IndexBaseURL: cfg.Provider.IndexBaseURL,
		}
	}
	if cfg.Implementation.Name != "" {
		opts.Implementation = &restdata.Implementation{
			Name:            cfg.Implementation.Name,
			Version:         cfg.Implementation.Version,
			SourceURL:       cfg.Implementation.SourceURL,
			MaintainerEmail: cfg.Implementation.MaintainerEmail,
		}
	}
	return opts
}
